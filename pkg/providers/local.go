package providers

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/datashield-ai/classify-engine/pkg/models"
)

// localProvider is the offline classifier: a deterministic keyword and
// pattern heuristic with no network dependency. It never fails, so when
// enabled it guarantees the fallback chain always has a working member.
type localProvider struct {
	logger *zap.Logger
}

// NewLocal creates the local heuristic provider.
func NewLocal(logger *zap.Logger) Provider {
	return &localProvider{logger: logger.Named("local")}
}

func (p *localProvider) ID() models.ProviderID { return models.ProviderLocal }
func (p *localProvider) Model() string         { return "keyword_heuristic" }

// patternLevels maps detected pattern names to classification outcomes.
// Checked before the keyword table so a value-level signal (an actual IBAN
// in the samples) outranks a fuzzy name match.
var patternLevels = map[string]struct {
	level      models.Level
	regulation models.Regulation
}{
	"national_id":   {models.LevelTopSecret, models.RegulationPDPL},
	"iban":          {models.LevelTopSecret, models.RegulationPDPL},
	"credit_card":   {models.LevelTopSecret, models.RegulationPDPL},
	"ssn":           {models.LevelTopSecret, models.RegulationCCPA},
	"biometric":     {models.LevelTopSecret, models.RegulationGDPR},
	"medical":       {models.LevelTopSecret, models.RegulationHIPAA},
	"password":      {models.LevelTopSecret, models.RegulationNCA},
	"api_key":       {models.LevelTopSecret, models.RegulationNCA},
	"phone":         {models.LevelConfidential, models.RegulationPDPL},
	"email":         {models.LevelConfidential, models.RegulationGDPR},
	"date_of_birth": {models.LevelConfidential, models.RegulationGDPR},
	"salary":        {models.LevelConfidential, models.RegulationPDPL},
	"ip_address":    {models.LevelInternal, models.RegulationGDPR},
}

// Classify applies the heuristic. Same request, same answer, always.
func (p *localProvider) Classify(_ context.Context, req ClassifyRequest) (map[string]any, error) {
	level, regulation, justification := p.heuristic(req)

	p.logger.Debug("local classification",
		zap.String("column", req.Column),
		zap.String("level", string(level)))

	return map[string]any{
		"column_name":          req.Column,
		"classification_level": string(level),
		"regulation":           string(regulation),
		"justification":        justification,
		"confidence_score":     0.6,
		"patterns_identified":  req.Patterns,
		"model":                p.Model(),
	}, nil
}

func (p *localProvider) heuristic(req ClassifyRequest) (models.Level, models.Regulation, string) {
	// Detected patterns first, in descending sensitivity.
	best := models.Level("")
	var bestReg models.Regulation
	var bestPattern string
	for _, name := range req.Patterns {
		entry, ok := patternLevels[name]
		if !ok {
			continue
		}
		if best == "" || levelRank(entry.level) < levelRank(best) {
			best = entry.level
			bestReg = entry.regulation
			bestPattern = name
		}
	}
	if best != "" {
		return best, bestReg, fmt.Sprintf("Detected %s pattern in column data requiring %s-level protection", bestPattern, best)
	}

	// Keyword heuristic against the column name.
	name := strings.ToLower(req.Column)
	switch {
	case containsAny(name, "id", "national", "passport", "ssn", "iban"):
		return models.LevelTopSecret, models.RegulationPDPL,
			"Contains identification data requiring highest protection"
	case containsAny(name, "phone", "email", "address", "contact"):
		return models.LevelConfidential, models.RegulationPDPL,
			"Contains personal contact information requiring protection"
	case containsAny(name, "name", "birth", "age", "gender"):
		return models.LevelConfidential, models.RegulationGDPR,
			"Contains personal demographic data requiring protection"
	default:
		return models.LevelInternal, models.RegulationDAMA,
			"General business data requiring internal access controls"
	}
}

// levelRank orders levels by sensitivity, 0 most sensitive.
func levelRank(l models.Level) int {
	for i, candidate := range models.Levels {
		if candidate == l {
			return i
		}
	}
	return len(models.Levels)
}

func containsAny(s string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// Ping always succeeds; the heuristic has no external dependency.
func (p *localProvider) Ping(context.Context) error { return nil }

var _ Provider = (*localProvider)(nil)
