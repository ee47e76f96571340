package models

import (
	"fmt"
	"strconv"
)

// ColumnSample is one tabular column with a bounded sequence of sample
// values. Values are opaque scalars (strings, numbers, nils) as extracted by
// the caller; this package never parses files. Immutable once constructed.
type ColumnSample struct {
	Name       string `json:"name"`
	Values     []any  `json:"values"`
	SampleSize int    `json:"sample_size"`
}

// BoundedValues returns at most SampleSize values (all values when
// SampleSize is zero or negative).
func (c ColumnSample) BoundedValues() []any {
	if c.SampleSize <= 0 || len(c.Values) <= c.SampleSize {
		return c.Values
	}
	return c.Values[:c.SampleSize]
}

// StringValues converts up to n sample values to string form, skipping nils.
// Pass n <= 0 for all values.
func (c ColumnSample) StringValues(n int) []string {
	vals := c.Values
	if n > 0 && len(vals) > n {
		vals = vals[:n]
	}
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v == nil {
			continue
		}
		out = append(out, stringify(v))
	}
	return out
}

// stringify renders a scalar sample value without scientific notation for
// the numeric types JSON decoding produces.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Options configures one classification call. Passed by value and never
// mutated after creation.
type Options struct {
	Provider            ProviderID `json:"provider"`
	ModelName           string     `json:"model_name,omitempty"`
	ConfidenceThreshold float64    `json:"confidence_threshold"`
	SampleSize          int        `json:"sample_size"`
	Language            string     `json:"language"`
	RegulationFocus     Regulation `json:"regulation_focus,omitempty"`
	CustomRulesOnly     bool       `json:"custom_rules_only"`
	EnableRiskScoring   bool       `json:"enable_risk_scoring"`
}

// DefaultOptions returns the options used when the caller supplies none.
func DefaultOptions() Options {
	return Options{
		Provider:            ProviderOpenRouter,
		ConfidenceThreshold: 0.7,
		SampleSize:          10,
		Language:            "en",
		EnableRiskScoring:   true,
	}
}

// Rule is one pattern-based classification rule. Built-in rules are
// process-wide immutable constants; custom rules are supplied per call by an
// external store and are read-only here.
type Rule struct {
	Name                  string     `json:"name"`
	Pattern               string     `json:"pattern"`
	Level                 Level      `json:"classification_level"`
	Regulation            Regulation `json:"regulation"`
	JustificationTemplate string     `json:"justification"`
	Confidence            float64    `json:"confidence_score"`
	Active                bool       `json:"is_active"`
}
