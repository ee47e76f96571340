package models

// Level is the sensitivity classification assigned to a column.
// It is a closed enumeration: results never carry a raw provider-supplied
// string, invalid values are coerced during normalization.
type Level string

const (
	LevelTopSecret    Level = "Top Secret"
	LevelConfidential Level = "Confidential"
	LevelInternal     Level = "Internal"
	LevelPublic       Level = "Public"
)

// Levels lists all valid classification levels in descending sensitivity.
var Levels = []Level{LevelTopSecret, LevelConfidential, LevelInternal, LevelPublic}

// ParseLevel parses a level string. The boolean reports whether the input
// is a member of the closed enumeration.
func ParseLevel(s string) (Level, bool) {
	for _, l := range Levels {
		if string(l) == s {
			return l, true
		}
	}
	return "", false
}

// Valid reports whether the level is a member of the closed enumeration.
func (l Level) Valid() bool {
	_, ok := ParseLevel(string(l))
	return ok
}

// Regulation identifies the regulatory framework governing a classification.
type Regulation string

const (
	RegulationNDMO  Regulation = "NDMO"
	RegulationPDPL  Regulation = "PDPL"
	RegulationGDPR  Regulation = "GDPR"
	RegulationNCA   Regulation = "NCA"
	RegulationDAMA  Regulation = "DAMA"
	RegulationCCPA  Regulation = "CCPA"
	RegulationHIPAA Regulation = "HIPAA"
	RegulationSOX   Regulation = "SOX"
)

// Regulations lists all supported regulatory frameworks.
var Regulations = []Regulation{
	RegulationNDMO, RegulationPDPL, RegulationGDPR, RegulationNCA,
	RegulationDAMA, RegulationCCPA, RegulationHIPAA, RegulationSOX,
}

// DefaultRegulation is used when a provider returns an unsupported framework.
const DefaultRegulation = RegulationPDPL

// ParseRegulation parses a regulation string against the supported set.
func ParseRegulation(s string) (Regulation, bool) {
	for _, r := range Regulations {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// ProviderID identifies a classification backend.
type ProviderID string

const (
	ProviderOpenRouter ProviderID = "openrouter"
	ProviderAnthropic  ProviderID = "anthropic"
	ProviderOpenAI     ProviderID = "openai"
	ProviderLocal      ProviderID = "local"

	// ProviderRulesEngine tags results produced by the rule matcher.
	// It is never a dispatch target.
	ProviderRulesEngine ProviderID = "rules_engine"

	// ProviderFallback tags the guaranteed low-confidence result returned
	// when every configured provider has failed. Never a dispatch target.
	ProviderFallback ProviderID = "fallback"
)
