// Package patterns holds the single PII pattern lexicon shared by the rule
// matcher and the risk scorer, so pattern bonuses stay consistent with rule
// matching outcomes.
package patterns

import "regexp"

// Pattern is one named PII pattern. Name patterns run case-insensitively
// against the column name; value patterns run against stringified sample
// values.
type Pattern struct {
	Name         string
	NamePattern  *regexp.Regexp
	ValuePattern *regexp.Regexp
}

// lexicon is compiled once at init and never mutated. Value patterns are
// anchored: a sample either is a national ID or it is not.
var lexicon = []Pattern{
	{
		Name:         "national_id",
		NamePattern:  regexp.MustCompile(`(?i)(national[_ ]?id|identity|iqama)`),
		ValuePattern: regexp.MustCompile(`^[12]\d{9}$`),
	},
	{
		Name:         "phone",
		NamePattern:  regexp.MustCompile(`(?i)(phone|mobile|msisdn)`),
		ValuePattern: regexp.MustCompile(`^(05|966|00966|\+966)\d{8}$`),
	},
	{
		Name:         "email",
		NamePattern:  regexp.MustCompile(`(?i)e?mail`),
		ValuePattern: regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`),
	},
	{
		Name:         "iban",
		NamePattern:  regexp.MustCompile(`(?i)iban`),
		ValuePattern: regexp.MustCompile(`^SA\d{22}$`),
	},
	{
		Name:         "credit_card",
		NamePattern:  regexp.MustCompile(`(?i)(credit[_ ]?card|card[_ ]?number|pan)`),
		ValuePattern: regexp.MustCompile(`^(?:4[0-9]{12}(?:[0-9]{3})?|5[1-5][0-9]{14}|3[47][0-9]{13}|3[0-9]{13}|6(?:011|5[0-9]{2})[0-9]{12})$`),
	},
	{
		Name:         "ip_address",
		NamePattern:  regexp.MustCompile(`(?i)ip[_ ]?(addr|address)`),
		ValuePattern: regexp.MustCompile(`^(?:(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)$`),
	},
	{
		Name:        "date_of_birth",
		NamePattern: regexp.MustCompile(`(?i)(birth|dob|born)`),
	},
	{
		Name:        "salary",
		NamePattern: regexp.MustCompile(`(?i)(salary|income|wage|pay)`),
	},
	{
		Name:        "medical",
		NamePattern: regexp.MustCompile(`(?i)(medical|health|diagnosis|treatment|patient)`),
	},
	{
		Name:        "biometric",
		NamePattern: regexp.MustCompile(`(?i)(fingerprint|biometric|facial|iris|retina)`),
	},
	{
		Name:         "ssn",
		NamePattern:  regexp.MustCompile(`(?i)ssn|social[_ ]?security`),
		ValuePattern: regexp.MustCompile(`^\d{3}-\d{2}-\d{4}$`),
	},
	{
		Name:        "password",
		NamePattern: regexp.MustCompile(`(?i)(password|passwd|pwd)`),
	},
	{
		Name:         "api_key",
		NamePattern:  regexp.MustCompile(`(?i)(api[_-]?key|secret[_-]?key|token)`),
		ValuePattern: regexp.MustCompile(`^(sk|pk)[-_][A-Za-z0-9-_]{20,}$`),
	},
}

// highRisk is the fixed lexicon of pattern names that raise the risk score.
var highRisk = map[string]bool{
	"national_id": true,
	"ssn":         true,
	"credit_card": true,
	"iban":        true,
	"biometric":   true,
	"medical":     true,
	"financial":   true,
	"password":    true,
	"api_key":     true,
}

// Detect returns the canonical names of all patterns matching the column
// name or any sample value. The result order follows the lexicon and holds
// no duplicates.
func Detect(columnName string, values []string) []string {
	var detected []string
	for _, p := range lexicon {
		if matches(p, columnName, values) {
			detected = append(detected, p.Name)
		}
	}
	return detected
}

func matches(p Pattern, columnName string, values []string) bool {
	if p.NamePattern != nil && p.NamePattern.MatchString(columnName) {
		return true
	}
	if p.ValuePattern == nil {
		return false
	}
	for _, v := range values {
		if p.ValuePattern.MatchString(v) {
			return true
		}
	}
	return false
}

// IsHighRisk reports whether a detected pattern name belongs to the fixed
// high-risk lexicon used by the risk scorer.
func IsHighRisk(name string) bool {
	return highRisk[name]
}

// CountHighRisk counts detected patterns that belong to the high-risk
// lexicon.
func CountHighRisk(detected []string) int {
	n := 0
	for _, d := range detected {
		if IsHighRisk(d) {
			n++
		}
	}
	return n
}
