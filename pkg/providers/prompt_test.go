package providers

import (
	"strings"
	"testing"

	"github.com/datashield-ai/classify-engine/pkg/models"
)

func baseRequest() ClassifyRequest {
	return ClassifyRequest{
		Column:   "customer_email",
		Samples:  []string{"a@b.com", "c@d.com"},
		Patterns: []string{"email"},
		Language: "en",
	}
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	req := baseRequest()
	if BuildPrompt(req) != BuildPrompt(req) {
		t.Fatal("identical requests must produce identical prompts")
	}
}

func TestBuildPrompt_ContainsColumnData(t *testing.T) {
	prompt := BuildPrompt(baseRequest())

	for _, want := range []string{
		"customer_email",
		"a@b.com, c@d.com",
		"Detected patterns: email",
		"Top Secret",
		"PDPL",
		"SOX",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPrompt_NoPatterns(t *testing.T) {
	req := baseRequest()
	req.Patterns = nil

	prompt := BuildPrompt(req)
	if !strings.Contains(prompt, "Detected patterns: none") {
		t.Error("expected explicit none marker for empty patterns")
	}
}

func TestBuildPrompt_RegulationGuidance(t *testing.T) {
	req := baseRequest()
	req.RegulationFocus = models.RegulationGDPR

	prompt := BuildPrompt(req)
	if !strings.Contains(prompt, "GDPR FOCUS:") {
		t.Error("expected GDPR guidance block")
	}

	req.RegulationFocus = models.RegulationSOX
	prompt = BuildPrompt(req)
	if strings.Contains(prompt, "FOCUS:") {
		t.Error("regulations without guidance must not emit a focus block")
	}
}

func TestBuildPrompt_NonEnglishNote(t *testing.T) {
	req := baseRequest()
	req.Language = "ar"

	prompt := BuildPrompt(req)
	if !strings.Contains(prompt, "Data is in ar") {
		t.Error("expected language note for non-English data")
	}

	req.Language = "en"
	if strings.Contains(BuildPrompt(req), "Data is in") {
		t.Error("no language note expected for English data")
	}
}
