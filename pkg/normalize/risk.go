package normalize

import (
	"math"

	"github.com/datashield-ai/classify-engine/pkg/models"
	"github.com/datashield-ai/classify-engine/pkg/patterns"
)

// Stats carries upstream data statistics into risk scoring.
type Stats struct {
	// QualityScore is the fraction of usable sample values in [0,1].
	QualityScore float64
	// SampleCount is the number of sample values observed.
	SampleCount int
}

// baseRisk maps a classification level to its baseline exposure severity.
var baseRisk = map[models.Level]float64{
	models.LevelTopSecret:    0.9,
	models.LevelConfidential: 0.7,
	models.LevelInternal:     0.4,
	models.LevelPublic:       0.1,
}

// RiskScore computes the composite risk score:
// base[level] + 0.1 per detected high-risk pattern + 0.1 when data quality
// is below 0.8 + min(0.1, sampleCount/1000), clamped to [0,1] and rounded
// to 2 decimal places. The formula is load-bearing for result
// compatibility; do not tweak the weights.
func RiskScore(level models.Level, detected []string, stats Stats) float64 {
	base, ok := baseRisk[level]
	if !ok {
		base = 0.5
	}

	patternBonus := 0.1 * float64(patterns.CountHighRisk(detected))

	qualityBonus := 0.0
	if stats.QualityScore < 0.8 {
		qualityBonus = 0.1
	}

	volumeBonus := math.Min(0.1, float64(stats.SampleCount)/1000)

	return round2(clamp01(base + patternBonus + qualityBonus + volumeBonus))
}

// ColumnStats derives Stats from a column's sample values: quality is the
// fraction of non-nil, non-empty values.
func ColumnStats(col models.ColumnSample) Stats {
	values := col.BoundedValues()
	if len(values) == 0 {
		return Stats{QualityScore: 1.0}
	}

	usable := 0
	for _, v := range values {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		usable++
	}

	return Stats{
		QualityScore: float64(usable) / float64(len(values)),
		SampleCount:  len(values),
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
