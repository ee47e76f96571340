package providers

import (
	"fmt"
	"strings"

	"github.com/datashield-ai/classify-engine/pkg/models"
)

// regulationGuidance maps a regulation focus to the extra guidance embedded
// in the prompt. Selected by lookup so the prompt stays deterministic for a
// given request.
var regulationGuidance = map[models.Regulation]string{
	models.RegulationPDPL: `PDPL FOCUS:
- Article 5: Special categories of personal data (biometric, health, genetic)
- Article 12: Consent requirements for personal data processing
- Article 14: Data subject rights and access controls
- Article 24: Data breach notification requirements
- Consider Saudi cultural and legal context`,
	models.RegulationGDPR: `GDPR FOCUS:
- Article 4: Definition of personal data and special categories
- Article 9: Special categories requiring explicit consent
- Article 6: Lawful basis for processing
- Article 32: Security of processing requirements
- Consider EU privacy principles and data subject rights`,
	models.RegulationNDMO: `NDMO FOCUS:
- Saudi national data governance framework
- Data sovereignty and localization requirements
- Government data classification standards
- Critical infrastructure data protection
- National security considerations`,
	models.RegulationHIPAA: `HIPAA FOCUS:
- Protected Health Information (PHI) identification
- Administrative, physical, and technical safeguards
- Minimum necessary standard
- Business associate requirements
- Healthcare-specific privacy and security rules`,
}

// systemMessage frames the model as a data governance expert. Kept separate
// from the user prompt for providers with a distinct system role.
const systemMessage = "You are a world-class data governance expert specializing in data classification according to international regulations and privacy laws. Respond with JSON only."

// BuildPrompt constructs the classification prompt for remote providers.
// The same request always produces the same prompt; anything
// non-deterministic here would silently defeat the fingerprint cache.
func BuildPrompt(req ClassifyRequest) string {
	var b strings.Builder

	b.WriteString("TASK: Classify the following data column with the highest accuracy and provide comprehensive analysis.\n\n")

	b.WriteString("COLUMN INFORMATION:\n")
	fmt.Fprintf(&b, "- Column Name: %s\n", req.Column)
	fmt.Fprintf(&b, "- Sample Values: %s\n", strings.Join(req.Samples, ", "))
	if len(req.Patterns) > 0 {
		fmt.Fprintf(&b, "- Detected patterns: %s\n", strings.Join(req.Patterns, ", "))
	} else {
		b.WriteString("- Detected patterns: none\n")
	}
	if req.Language != "" && req.Language != "en" {
		fmt.Fprintf(&b, "- Note: Data is in %s. Consider cultural and linguistic context.\n", req.Language)
	}

	b.WriteString(`
CLASSIFICATION LEVELS (choose exactly one):
1. "Top Secret" - Highly sensitive data that could cause severe damage if disclosed (e.g., national security, biometric data, financial account numbers)
2. "Confidential" - Sensitive personal data requiring protection (e.g., PII, contact information, health data)
3. "Internal" - Internal business data with limited access (e.g., employee data, internal processes)
4. "Public" - Data that can be freely shared (e.g., public information, marketing content)

REGULATIONS TO CONSIDER:
- NDMO (Saudi National Data Management Office) - Saudi data governance framework
- PDPL (Saudi Personal Data Protection Law) - Saudi privacy law
- GDPR (EU General Data Protection Regulation) - European privacy law
- NCA (Saudi National Cybersecurity Authority) - Cybersecurity requirements
- DAMA (Data Management Framework) - International data management standards
- CCPA (California Consumer Privacy Act) - US state privacy law
- HIPAA (Health Insurance Portability and Accountability Act) - US health data protection
- SOX (Sarbanes-Oxley Act) - US financial reporting controls
`)

	if guidance, ok := regulationGuidance[req.RegulationFocus]; ok {
		b.WriteString("\n")
		b.WriteString(guidance)
		b.WriteString("\n")
	}

	b.WriteString(`
RESPONSE FORMAT (JSON only):
{
    "column_name": "` + req.Column + `",
    "classification_level": "Top Secret|Confidential|Internal|Public",
    "regulation": "NDMO|PDPL|GDPR|NCA|DAMA|CCPA|HIPAA|SOX",
    "justification": "Detailed explanation referencing specific regulation articles and requirements",
    "confidence_score": 0.95,
    "risk_score": 0.85,
    "patterns_identified": ["pattern1", "pattern2"],
    "recommendations": ["recommendation1", "recommendation2"],
    "explanation": "Step-by-step reasoning for the classification decision",
    "compliance_notes": ["note1", "note2"]
}

IMPORTANT GUIDELINES:
- Saudi National ID (10 digits starting with 1 or 2): Top Secret, PDPL
- Saudi phone numbers (05xxxxxxxx, +966xxxxxxxxx): Confidential, PDPL
- Email addresses: Confidential, GDPR/PDPL
- IBAN numbers (SA followed by 22 digits): Top Secret, PDPL
- Medical/health data: Top Secret, PDPL/HIPAA
- Biometric data: Top Secret, GDPR Article 9
- IP addresses: Internal, GDPR
- Names: Confidential, GDPR/PDPL
- Financial data: Top Secret, PDPL/PCI-DSS
- When in doubt, choose the more restrictive classification

Analyze the column data and provide the classification:
`)

	return b.String()
}
