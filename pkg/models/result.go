package models

import "slices"

// Result is the canonical classification output, one per input column.
// Level and Regulation are always members of their closed enumerations.
// Created once per column per call and immutable after construction; the
// cache stores and returns results by value so a cache read never aliases a
// mutable result.
type Result struct {
	ColumnName       string     `json:"column_name"`
	Level            Level      `json:"classification_level"`
	Regulation       Regulation `json:"regulation"`
	Justification    string     `json:"justification"`
	Confidence       float64    `json:"confidence_score"`
	RiskScore        float64    `json:"risk_score"`
	SampleValues     []any      `json:"sample_values"`
	PatternsDetected []string   `json:"patterns_detected"`
	ProviderUsed     string     `json:"provider_used"`
	ModelUsed        string     `json:"model_used"`
	ProcessingTimeMs float64    `json:"processing_time_ms"`
	Explanation      string     `json:"explanation,omitempty"`
	Recommendations  []string   `json:"recommendations"`
	ComplianceNotes  []string   `json:"compliance_notes"`
}

// Clone returns a deep copy. Slice fields are copied so the original can be
// cached or returned without aliasing.
func (r *Result) Clone() *Result {
	if r == nil {
		return nil
	}
	c := *r
	c.SampleValues = slices.Clone(r.SampleValues)
	c.PatternsDetected = slices.Clone(r.PatternsDetected)
	c.Recommendations = slices.Clone(r.Recommendations)
	c.ComplianceNotes = slices.Clone(r.ComplianceNotes)
	return &c
}
