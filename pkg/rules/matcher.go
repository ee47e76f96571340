// Package rules implements deterministic pattern-based column
// classification. It is consulted before any external provider: a match here
// short-circuits the fallback orchestrator entirely.
package rules

import (
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/datashield-ai/classify-engine/pkg/models"
	"github.com/datashield-ai/classify-engine/pkg/patterns"
)

// sampleMatchLimit bounds how many sample values a rule pattern is checked
// against.
const sampleMatchLimit = 5

// Matcher evaluates custom and built-in rules against columns. It performs
// no I/O and never mutates rule definitions; output is deterministic for a
// given (column, rule set) pair.
type Matcher struct {
	logger *zap.Logger
}

// NewMatcher creates a rule matcher.
func NewMatcher(logger *zap.Logger) *Matcher {
	return &Matcher{logger: logger.Named("rules")}
}

// Match evaluates rules in order: all active custom rules first in caller
// order, then the built-in table. First match wins; there is no scoring or
// merging. Returns nil when no rule matches.
func (m *Matcher) Match(col models.ColumnSample, custom []models.Rule) *models.Result {
	start := time.Now()

	if result := m.matchCustom(col, custom, start); result != nil {
		return result
	}

	for _, rule := range builtinRules {
		if m.ruleMatches(rule, col) {
			return m.buildResult(col, rule, rule.JustificationTemplate, start)
		}
	}

	return nil
}

// MatchCustom evaluates only the caller's custom rules, skipping the
// built-in table.
func (m *Matcher) MatchCustom(col models.ColumnSample, custom []models.Rule) *models.Result {
	return m.matchCustom(col, custom, time.Now())
}

func (m *Matcher) matchCustom(col models.ColumnSample, custom []models.Rule, start time.Time) *models.Result {
	for _, rule := range custom {
		if !rule.Active {
			continue
		}
		if m.ruleMatches(rule, col) {
			return m.buildResult(col, rule, customJustification(rule), start)
		}
	}
	return nil
}

// ruleMatches reports whether the rule's pattern matches the column name
// (case-insensitive) or any of the first sampleMatchLimit sample values in
// string form. A malformed pattern is a data-quality condition: logged,
// treated as a non-match, never fatal.
func (m *Matcher) ruleMatches(rule models.Rule, col models.ColumnSample) bool {
	nameRe, err := regexp.Compile(`(?i)` + rule.Pattern)
	if err != nil {
		m.logger.Warn("invalid rule pattern, skipping rule",
			zap.String("rule", rule.Name),
			zap.Error(err))
		return false
	}
	if nameRe.MatchString(col.Name) {
		return true
	}

	valueRe, err := regexp.Compile(rule.Pattern)
	if err != nil {
		return false
	}
	for _, v := range col.StringValues(sampleMatchLimit) {
		if valueRe.MatchString(v) {
			return true
		}
	}
	return false
}

func (m *Matcher) buildResult(col models.ColumnSample, rule models.Rule, justification string, start time.Time) *models.Result {
	samples := col.BoundedValues()
	if len(samples) > sampleMatchLimit {
		samples = samples[:sampleMatchLimit]
	}

	return &models.Result{
		ColumnName:       col.Name,
		Level:            rule.Level,
		Regulation:       rule.Regulation,
		Justification:    justification,
		Confidence:       rule.Confidence,
		SampleValues:     samples,
		PatternsDetected: patterns.Detect(col.Name, col.StringValues(sampleMatchLimit)),
		ProviderUsed:     string(models.ProviderRulesEngine),
		ModelUsed:        rule.Name,
		ProcessingTimeMs: float64(time.Since(start).Microseconds()) / 1000,
	}
}

// customJustification interpolates a caller-supplied rule into a
// justification string. Custom rule templates carry the rule author's
// description; the rule name and regulation provide the audit trail.
func customJustification(rule models.Rule) string {
	return fmt.Sprintf("Matched custom rule: %s - %s (%s)", rule.Name, rule.JustificationTemplate, rule.Regulation)
}

// ValidateRule checks a rule pattern for regex validity. The external rule
// store calls this before persisting a new custom rule.
func ValidateRule(pattern string) error {
	if _, err := regexp.Compile(pattern); err != nil {
		return fmt.Errorf("invalid rule pattern: %w", err)
	}
	return nil
}

// TestRule evaluates a pattern against test values, one boolean per value.
// A malformed pattern yields all false.
func TestRule(pattern string, values []string) []bool {
	results := make([]bool, len(values))
	re, err := regexp.Compile(`(?i)` + pattern)
	if err != nil {
		return results
	}
	for i, v := range values {
		results[i] = re.MatchString(v)
	}
	return results
}
