package rules

import "github.com/datashield-ai/classify-engine/pkg/models"

// builtinRules is the process-wide immutable rule table, evaluated after any
// caller-supplied custom rules, in fixed priority order: identity numbers,
// phone, email, financial identifiers, IP, then free-text keyword rules.
var builtinRules = []models.Rule{
	{
		Name:                  "Saudi National ID",
		Pattern:               `^[12]\d{9}$`,
		Level:                 models.LevelTopSecret,
		Regulation:            models.RegulationPDPL,
		JustificationTemplate: "Saudi National ID numbers are highly sensitive personal identifiers protected under PDPL Article 5",
		Confidence:            0.98,
		Active:                true,
	},
	{
		Name:                  "Saudi Phone Number",
		Pattern:               `^(05|966|00966)\d{8}$`,
		Level:                 models.LevelConfidential,
		Regulation:            models.RegulationPDPL,
		JustificationTemplate: "Phone numbers are personal contact information requiring protection under PDPL Article 12",
		Confidence:            0.95,
		Active:                true,
	},
	{
		Name:                  "Email Address",
		Pattern:               `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`,
		Level:                 models.LevelConfidential,
		Regulation:            models.RegulationGDPR,
		JustificationTemplate: "Email addresses are personal data requiring protection under GDPR Article 4",
		Confidence:            0.95,
		Active:                true,
	},
	{
		Name:                  "IBAN",
		Pattern:               `^SA\d{22}$`,
		Level:                 models.LevelTopSecret,
		Regulation:            models.RegulationPDPL,
		JustificationTemplate: "IBAN numbers are financial identifiers requiring highest protection under PDPL",
		Confidence:            0.98,
		Active:                true,
	},
	{
		Name:                  "Credit Card",
		Pattern:               `^(?:4[0-9]{12}(?:[0-9]{3})?|5[1-5][0-9]{14}|3[47][0-9]{13}|3[0-9]{13}|6(?:011|5[0-9]{2})[0-9]{12})$`,
		Level:                 models.LevelTopSecret,
		Regulation:            models.RegulationPDPL,
		JustificationTemplate: "Credit card numbers are financial data requiring highest protection",
		Confidence:            0.98,
		Active:                true,
	},
	{
		Name:                  "IP Address",
		Pattern:               `^(?:(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)$`,
		Level:                 models.LevelInternal,
		Regulation:            models.RegulationGDPR,
		JustificationTemplate: "IP addresses can be personal data under GDPR requiring internal access controls",
		Confidence:            0.85,
		Active:                true,
	},
	{
		Name:                  "Date of Birth",
		Pattern:               `(birth|dob|born)`,
		Level:                 models.LevelConfidential,
		Regulation:            models.RegulationGDPR,
		JustificationTemplate: "Date of birth is personal data requiring protection under GDPR",
		Confidence:            0.90,
		Active:                true,
	},
	{
		Name:                  "Salary/Income",
		Pattern:               `(salary|income|wage|pay)`,
		Level:                 models.LevelConfidential,
		Regulation:            models.RegulationPDPL,
		JustificationTemplate: "Financial information requiring protection under employment data regulations",
		Confidence:            0.85,
		Active:                true,
	},
	{
		Name:                  "Medical Data",
		Pattern:               `(medical|health|diagnosis|treatment|patient)`,
		Level:                 models.LevelTopSecret,
		Regulation:            models.RegulationPDPL,
		JustificationTemplate: "Medical data is highly sensitive requiring maximum protection under health data regulations",
		Confidence:            0.95,
		Active:                true,
	},
	{
		Name:                  "Biometric Data",
		Pattern:               `(fingerprint|biometric|facial|iris|retina)`,
		Level:                 models.LevelTopSecret,
		Regulation:            models.RegulationGDPR,
		JustificationTemplate: "Biometric data is special category data under GDPR Article 9 requiring highest protection",
		Confidence:            0.98,
		Active:                true,
	},
}

// BuiltinRules returns a copy of the built-in rule table.
func BuiltinRules() []models.Rule {
	out := make([]models.Rule, len(builtinRules))
	copy(out, builtinRules)
	return out
}
