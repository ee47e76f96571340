package classify

import (
	"strings"
	"time"

	"github.com/datashield-ai/classify-engine/pkg/models"
)

// fallbackClass is one row of the keyword fallback table.
type fallbackClass struct {
	keywords      []string
	level         models.Level
	regulation    models.Regulation
	justification string
	riskScore     float64
}

// fallbackTable classifies by column name keywords when every provider has
// failed. Rows are checked in order; the last row has no keywords and
// always matches.
var fallbackTable = []fallbackClass{
	{
		keywords:      []string{"id", "national", "passport", "ssn", "iban"},
		level:         models.LevelTopSecret,
		regulation:    models.RegulationPDPL,
		justification: "Contains identification data requiring highest protection",
		riskScore:     0.9,
	},
	{
		keywords:      []string{"phone", "email", "address", "contact"},
		level:         models.LevelConfidential,
		regulation:    models.RegulationPDPL,
		justification: "Contains personal contact information requiring protection",
		riskScore:     0.7,
	},
	{
		keywords:      []string{"name", "birth", "age", "gender"},
		level:         models.LevelConfidential,
		regulation:    models.RegulationGDPR,
		justification: "Contains personal demographic data requiring protection",
		riskScore:     0.6,
	},
	{
		level:         models.LevelInternal,
		regulation:    models.RegulationDAMA,
		justification: "General business data requiring internal access controls",
		riskScore:     0.4,
	},
}

// fallbackResult builds the guaranteed result for a column no provider
// could classify. It is a conservative keyword heuristic flagged for manual
// review, never cached.
func fallbackResult(col models.ColumnSample, opts models.Options, start time.Time) *models.Result {
	lower := strings.ToLower(col.Name)

	var class fallbackClass
	for _, row := range fallbackTable {
		if matchesAny(lower, row.keywords) {
			class = row
			break
		}
	}

	if col.SampleSize <= 0 {
		col.SampleSize = opts.SampleSize
	}

	return &models.Result{
		ColumnName:       col.Name,
		Level:            class.level,
		Regulation:       class.regulation,
		Justification:    class.justification,
		Confidence:       0.5,
		RiskScore:        class.riskScore,
		SampleValues:     col.BoundedValues(),
		PatternsDetected: []string{},
		ProviderUsed:     string(models.ProviderFallback),
		ModelUsed:        "rule_based",
		ProcessingTimeMs: float64(time.Since(start).Microseconds()) / 1000,
		Explanation:      "Fallback classification using rule-based approach",
		Recommendations:  []string{"Review classification manually", "Consider AI re-classification"},
		ComplianceNotes:  []string{"Fallback classification - manual review recommended"},
	}
}

func matchesAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return len(keywords) == 0
}
