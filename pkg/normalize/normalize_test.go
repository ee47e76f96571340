package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/datashield-ai/classify-engine/pkg/models"
)

func testNormalizer() *Normalizer {
	return New(nil, models.RegulationPDPL, zap.NewNop())
}

func validResponse() map[string]any {
	return map[string]any{
		"classification_level": "Confidential",
		"regulation":           "GDPR",
		"justification":        "Contains personal data",
		"confidence_score":     0.92,
		"patterns_identified":  []any{"email"},
		"explanation":          "Email addresses identify individuals",
		"recommendations":      []any{"Encrypt at rest"},
		"compliance_notes":     []any{"GDPR Article 4"},
	}
}

func TestNormalize_ValidResponse(t *testing.T) {
	col := models.ColumnSample{Name: "email", Values: []any{"a@b.com"}}

	result, err := testNormalizer().Normalize(validResponse(), col, models.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "email", result.ColumnName)
	assert.Equal(t, models.LevelConfidential, result.Level)
	assert.Equal(t, models.RegulationGDPR, result.Regulation)
	assert.Equal(t, 0.92, result.Confidence)
	assert.Equal(t, []string{"email"}, result.PatternsDetected)
	assert.Equal(t, []string{"Encrypt at rest"}, result.Recommendations)
	assert.Equal(t, []string{"GDPR Article 4"}, result.ComplianceNotes)
}

func TestNormalize_MissingRequiredField(t *testing.T) {
	col := models.ColumnSample{Name: "email"}

	for _, field := range []string{"classification_level", "regulation", "justification", "confidence_score"} {
		raw := validResponse()
		delete(raw, field)

		_, err := testNormalizer().Normalize(raw, col, models.DefaultOptions())
		require.Error(t, err, "field %s", field)

		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, field, schemaErr.Field)
	}
}

func TestNormalize_InvalidLevelCoercedToInternal(t *testing.T) {
	raw := validResponse()
	raw["classification_level"] = "Super Duper Secret"

	result, err := testNormalizer().Normalize(raw, models.ColumnSample{Name: "c"}, models.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, models.LevelInternal, result.Level)
}

func TestNormalize_UnsupportedRegulationCoercedToDefault(t *testing.T) {
	raw := validResponse()
	raw["regulation"] = "PCI-DSS"

	result, err := testNormalizer().Normalize(raw, models.ColumnSample{Name: "c"}, models.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, models.RegulationPDPL, result.Regulation)
}

func TestNormalize_RegulationOutsideWhitelist(t *testing.T) {
	onlyPDPL := func(r models.Regulation) bool { return r == models.RegulationPDPL }
	n := New(onlyPDPL, models.RegulationPDPL, zap.NewNop())

	raw := validResponse() // regulation GDPR, valid enum but not whitelisted
	result, err := n.Normalize(raw, models.ColumnSample{Name: "c"}, models.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, models.RegulationPDPL, result.Regulation)
}

func TestNormalize_ConfidenceCoercions(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected float64
	}{
		{"string wrapped", "0.85", 0.85},
		{"integer", 1, 1.0},
		{"above one clamped", 1.7, 1.0},
		{"negative clamped", -0.3, 0.0},
		{"unparseable defaults", "high", 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validResponse()
			raw["confidence_score"] = tt.value

			result, err := testNormalizer().Normalize(raw, models.ColumnSample{Name: "c"}, models.DefaultOptions())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result.Confidence)
		})
	}
}

func TestNormalize_PatternsDetectedFallbackKey(t *testing.T) {
	raw := validResponse()
	delete(raw, "patterns_identified")
	raw["patterns_detected"] = []any{"phone"}

	result, err := testNormalizer().Normalize(raw, models.ColumnSample{Name: "c"}, models.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"phone"}, result.PatternsDetected)
}

func TestNormalize_Idempotent(t *testing.T) {
	col := models.ColumnSample{Name: "email", Values: []any{"a@b.com"}}
	n := testNormalizer()

	first, err := n.Normalize(validResponse(), col, models.DefaultOptions())
	require.NoError(t, err)

	// Re-normalizing the normalized fields changes nothing.
	again := map[string]any{
		"classification_level": string(first.Level),
		"regulation":           string(first.Regulation),
		"justification":        first.Justification,
		"confidence_score":     first.Confidence,
		"patterns_identified":  first.PatternsDetected,
		"explanation":          first.Explanation,
	}
	second, err := n.Normalize(again, col, models.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, first.Level, second.Level)
	assert.Equal(t, first.Regulation, second.Regulation)
	assert.Equal(t, first.Confidence, second.Confidence)
	assert.Equal(t, first.PatternsDetected, second.PatternsDetected)
}
