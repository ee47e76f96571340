// Package logging provides sanitizers so column sample data and provider
// credentials never reach log output.
package logging

import "regexp"

const (
	// MaxValueLogLength is the maximum length of a sample value to log.
	MaxValueLogLength = 32
	// RedactedText is the replacement text for sensitive data.
	RedactedText = "[REDACTED]"
)

var (
	// Pattern to match API keys in error strings.
	// Matches: api_key=xxx, apikey=xxx, key=xxx (long tokens only)
	apiKeyPattern = regexp.MustCompile(`(?i)(api[_-]?key|apikey|key)=[A-Za-z0-9-_]{20,}`)

	// Pattern to match bearer tokens.
	bearerPattern = regexp.MustCompile(`Bearer\s+[A-Za-z0-9-_.]+`)

	// Pattern to match provider secret key material (sk-..., pk-...).
	secretKeyPattern = regexp.MustCompile(`\b(sk|pk)[-_][A-Za-z0-9-_]{16,}`)
)

// Sanitize removes credential material from a string before logging.
// Provider SDK errors sometimes echo request headers back.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	out := apiKeyPattern.ReplaceAllString(s, "${1}="+RedactedText)
	out = bearerPattern.ReplaceAllString(out, "Bearer "+RedactedText)
	out = secretKeyPattern.ReplaceAllString(out, RedactedText)
	return out
}

// TruncateValue bounds a sample value for log output. Sample data is
// potentially the most sensitive content in the system; logs carry at most
// a short prefix.
func TruncateValue(v string) string {
	if len(v) <= MaxValueLogLength {
		return v
	}
	return v[:MaxValueLogLength] + "..."
}
