// Package normalize validates heterogeneous provider responses into the
// canonical result shape and computes the derived risk score. It validates
// shape and plausibility only, never semantic accuracy.
package normalize

import (
	"encoding/json"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/datashield-ai/classify-engine/pkg/models"
)

// SchemaError reports a required field missing from a provider response.
// The orchestrator treats it as a provider failure and falls through.
type SchemaError struct {
	Field string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// requiredFields must all be present in a provider response. Absence of any
// is a hard failure; the response is discarded, not repaired.
var requiredFields = []string{
	"classification_level", "regulation", "justification", "confidence_score",
}

// Normalizer validates and repairs raw provider responses.
type Normalizer struct {
	supported         func(models.Regulation) bool
	defaultRegulation models.Regulation
	logger            *zap.Logger
}

// New creates a normalizer. supported reports membership in the configured
// regulation whitelist; nil means every enum member is supported.
func New(supported func(models.Regulation) bool, defaultRegulation models.Regulation, logger *zap.Logger) *Normalizer {
	if defaultRegulation == "" {
		defaultRegulation = models.DefaultRegulation
	}
	return &Normalizer{
		supported:         supported,
		defaultRegulation: defaultRegulation,
		logger:            logger.Named("normalize"),
	}
}

// Normalize validates raw provider output against the result schema,
// coercing repairable fields and defaulting optional ones. Normalizing an
// already-normal response returns the same fields unchanged.
func (n *Normalizer) Normalize(raw map[string]any, col models.ColumnSample, opts models.Options) (*models.Result, error) {
	for _, field := range requiredFields {
		if _, ok := raw[field]; !ok {
			return nil, &SchemaError{Field: field}
		}
	}

	level, ok := models.ParseLevel(flexString(raw["classification_level"]))
	if !ok {
		n.logger.Warn("invalid classification level, coercing to Internal",
			zap.String("column", col.Name),
			zap.Any("level", raw["classification_level"]))
		level = models.LevelInternal
	}

	regulation, ok := models.ParseRegulation(flexString(raw["regulation"]))
	if !ok || (n.supported != nil && !n.supported(regulation)) {
		n.logger.Warn("unsupported regulation, coercing to default",
			zap.String("column", col.Name),
			zap.Any("regulation", raw["regulation"]),
			zap.String("default", string(n.defaultRegulation)))
		regulation = n.defaultRegulation
	}

	confidence, ok := flexFloat(raw["confidence_score"])
	if !ok {
		confidence = 0.5
	}
	confidence = clamp01(confidence)

	riskScore, _ := flexFloat(raw["risk_score"])

	patterns := stringSlice(raw["patterns_identified"])
	if patterns == nil {
		patterns = stringSlice(raw["patterns_detected"])
	}

	return &models.Result{
		ColumnName:       col.Name,
		Level:            level,
		Regulation:       regulation,
		Justification:    flexString(raw["justification"]),
		Confidence:       confidence,
		RiskScore:        clamp01(riskScore),
		SampleValues:     col.BoundedValues(),
		PatternsDetected: patterns,
		ModelUsed:        flexString(raw["model"]),
		Explanation:      flexString(raw["explanation"]),
		Recommendations:  stringSlice(raw["recommendations"]),
		ComplianceNotes:  stringSlice(raw["compliance_notes"]),
	}, nil
}

// flexString renders a scalar response field as a string, tolerating models
// that return numbers or booleans where strings are expected.
func flexString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

// flexFloat parses a response field as a float, tolerating string-wrapped
// numbers. The boolean reports whether a numeric value was recovered.
func flexFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// stringSlice converts a response field to a string slice, dropping
// non-scalar members. Returns nil when the field is absent or not a list.
func stringSlice(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if item == nil {
				continue
			}
			out = append(out, flexString(item))
		}
		return out
	default:
		return nil
	}
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
