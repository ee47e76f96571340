// Package classify is the provider fallback orchestrator. It drives each
// column through the full pipeline: custom and built-in rules, the
// fingerprint cache, the ordered provider sequence with per-provider
// permits and circuit breakers, response normalization, risk scoring, and
// cache write-back. Every column always gets a result; total provider
// failure degrades to a keyword-based fallback classification rather than
// an error.
package classify

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/datashield-ai/classify-engine/pkg/cache"
	"github.com/datashield-ai/classify-engine/pkg/config"
	"github.com/datashield-ai/classify-engine/pkg/logging"
	"github.com/datashield-ai/classify-engine/pkg/models"
	"github.com/datashield-ai/classify-engine/pkg/normalize"
	"github.com/datashield-ai/classify-engine/pkg/patterns"
	"github.com/datashield-ai/classify-engine/pkg/providers"
	"github.com/datashield-ai/classify-engine/pkg/retry"
	"github.com/datashield-ai/classify-engine/pkg/rules"
)

var (
	// ErrNoProviders means not a single classification backend is
	// configured. This is a setup defect, not a transient condition.
	ErrNoProviders = errors.New("no classification providers configured")

	// ErrEmptyBatch is returned for a classification request with no
	// columns.
	ErrEmptyBatch = errors.New("no columns to classify")
)

// remotePriority is the fixed fallback order appended after the caller's
// selected provider.
var remotePriority = []models.ProviderID{
	models.ProviderOpenRouter,
	models.ProviderAnthropic,
}

// Service orchestrates column classification across rules, cache, and the
// provider fallback sequence. Safe for concurrent use.
type Service struct {
	cfg        *config.Config
	registry   map[models.ProviderID]providers.Provider
	limiter    *providers.Limiter
	breakers   map[models.ProviderID]*providers.CircuitBreaker
	matcher    *rules.Matcher
	normalizer *normalize.Normalizer
	cache      *cache.Cache
	retryCfg   *retry.Config
	logger     *zap.Logger
}

// New creates the classification service from an explicit provider set.
// Returns ErrNoProviders when the set is empty; every other failure mode is
// handled per column at classification time.
func New(
	cfg *config.Config,
	provs []providers.Provider,
	matcher *rules.Matcher,
	normalizer *normalize.Normalizer,
	resultCache *cache.Cache,
	logger *zap.Logger,
) (*Service, error) {
	if len(provs) == 0 {
		return nil, ErrNoProviders
	}

	registry := make(map[models.ProviderID]providers.Provider, len(provs))
	limits := make(map[models.ProviderID]int, len(provs))
	breakers := make(map[models.ProviderID]*providers.CircuitBreaker, len(provs))
	for _, p := range provs {
		registry[p.ID()] = p
		if pc := providerConfig(cfg, p.ID()); pc != nil {
			limits[p.ID()] = pc.MaxConcurrent
			// Breakers guard remote endpoints only; the local
			// heuristic cannot go down.
			breakers[p.ID()] = providers.NewCircuitBreaker(providers.CircuitBreakerConfig{
				Provider:   p.ID(),
				Threshold:  pc.BreakerThreshold,
				ResetAfter: pc.BreakerReset(),
			})
		}
	}

	return &Service{
		cfg:        cfg,
		registry:   registry,
		limiter:    providers.NewLimiter(limits),
		breakers:   breakers,
		matcher:    matcher,
		normalizer: normalizer,
		cache:      resultCache,
		retryCfg:   retry.DefaultConfig(),
		logger:     logger.Named("classify"),
	}, nil
}

// NewFromConfig wires the full service from configuration: every remote
// provider with credentials, the local heuristic when enabled, the rule
// matcher, the normalizer, and the redis-backed cache (disabled when no
// backend is configured).
func NewFromConfig(cfg *config.Config, logger *zap.Logger) (*Service, error) {
	var provs []providers.Provider

	if cfg.Providers.EnableLocal {
		provs = append(provs, providers.NewLocal(logger))
	}
	if pc := cfg.Providers.OpenRouter; pc.IsAvailable() {
		p, err := providers.NewOpenRouter(providers.OpenAIConfig{
			BaseURL: pc.BaseURL,
			Model:   pc.DefaultModel(),
			APIKey:  pc.APIKey,
			Timeout: pc.Timeout(),
		}, logger)
		if err != nil {
			return nil, err
		}
		provs = append(provs, p)
	}
	if pc := cfg.Providers.Anthropic; pc.IsAvailable() {
		p, err := providers.NewAnthropic(providers.AnthropicConfig{
			Model:   pc.DefaultModel(),
			APIKey:  pc.APIKey,
			Timeout: pc.Timeout(),
		}, logger)
		if err != nil {
			return nil, err
		}
		provs = append(provs, p)
	}
	if pc := cfg.Providers.OpenAI; pc.IsAvailable() {
		p, err := providers.NewOpenAI(providers.OpenAIConfig{
			BaseURL: pc.BaseURL,
			Model:   pc.DefaultModel(),
			APIKey:  pc.APIKey,
			Timeout: pc.Timeout(),
		}, logger)
		if err != nil {
			return nil, err
		}
		provs = append(provs, p)
	}

	matcher := rules.NewMatcher(logger)
	normalizer := normalize.New(cfg.Classification.IsRegulationSupported, cfg.Classification.DefaultRegulation, logger)
	resultCache := cache.NewFromConfig(&cfg.Cache, logger)

	return New(cfg, provs, matcher, normalizer, resultCache, logger)
}

// ClassifyColumns classifies the batch, one result per column in input
// order. Columns are processed in fixed-size batches with bounded
// concurrency; a failure in one column never aborts its siblings. The only
// returned error is ErrEmptyBatch.
func (s *Service) ClassifyColumns(ctx context.Context, columns []models.ColumnSample, customRules []models.Rule, opts models.Options) ([]models.Result, error) {
	if len(columns) == 0 {
		return nil, ErrEmptyBatch
	}
	opts = s.applyDefaults(opts)

	start := time.Now()
	results := make([]models.Result, len(columns))
	batchSize := s.cfg.Classification.BatchSize()

	for lo := 0; lo < len(columns); lo += batchSize {
		hi := min(lo+batchSize, len(columns))

		var wg sync.WaitGroup
		for i := lo; i < hi; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				results[idx] = *s.classifyColumn(ctx, columns[idx], customRules, opts)
			}(i)
		}
		wg.Wait()
	}

	s.logger.Info("classified columns",
		zap.Int("columns", len(columns)),
		zap.Duration("total_time", time.Since(start)))

	return results, nil
}

// classifyColumn runs the full per-column pipeline. It never returns nil
// and never panics out: any unrecoverable condition degrades to the keyword
// fallback result.
func (s *Service) classifyColumn(ctx context.Context, col models.ColumnSample, customRules []models.Rule, opts models.Options) (result *models.Result) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("classification panic, using fallback",
				zap.String("column", col.Name),
				zap.Any("panic", r))
			result = fallbackResult(col, opts, start)
		}
	}()

	if col.SampleSize <= 0 {
		col.SampleSize = opts.SampleSize
	}

	if opts.CustomRulesOnly {
		if match := s.matcher.MatchCustom(col, customRules); match != nil {
			return s.scoreRuleMatch(match, col, opts)
		}
	} else if match := s.matcher.Match(col, customRules); match != nil {
		return s.scoreRuleMatch(match, col, opts)
	}

	fingerprint := cache.Fingerprint(col, opts)
	if cached, ok := s.cache.GetResult(ctx, fingerprint); ok {
		return cached
	}

	detected := patterns.Detect(col.Name, col.StringValues(col.SampleSize))

	result = s.classifyWithFallback(ctx, col, detected, opts, start)
	if result == nil {
		s.logger.Error("all providers failed, using fallback",
			zap.String("column", logging.Sanitize(col.Name)))
		return fallbackResult(col, opts, start)
	}

	s.cache.SetResult(ctx, fingerprint, result, s.cfg.Cache.ResultTTL())
	return result
}

// scoreRuleMatch attaches the risk score to a rule-matched result. The
// matcher itself does not score; exposure is computed here with the same
// formula applied to provider results.
func (s *Service) scoreRuleMatch(match *models.Result, col models.ColumnSample, opts models.Options) *models.Result {
	if opts.EnableRiskScoring {
		match.RiskScore = normalize.RiskScore(match.Level, match.PatternsDetected, normalize.ColumnStats(col))
	}
	return match
}

// classifyWithFallback walks the provider sequence and returns the first
// normalized result, or nil when every provider fails.
func (s *Service) classifyWithFallback(ctx context.Context, col models.ColumnSample, detected []string, opts models.Options, start time.Time) *models.Result {
	req := providers.ClassifyRequest{
		Column:          col.Name,
		Samples:         col.StringValues(col.SampleSize),
		Patterns:        detected,
		Language:        opts.Language,
		RegulationFocus: opts.RegulationFocus,
		ModelOverride:   opts.ModelName,
	}

	var lastErr error
	for _, id := range s.providerOrder(opts.Provider) {
		if ctx.Err() != nil {
			return nil
		}

		raw, err := s.attempt(ctx, id, req)
		if err != nil {
			lastErr = err
			s.logger.Warn("provider failed, trying next",
				zap.String("provider", string(id)),
				zap.String("column", logging.Sanitize(col.Name)),
				zap.String("error", logging.Sanitize(err.Error())))
			continue
		}

		result, err := s.normalizer.Normalize(raw, col, opts)
		if err != nil {
			// Schema failures count as provider failures for
			// fallback purposes.
			lastErr = err
			s.recordOutcome(id, err)
			s.logger.Warn("provider response rejected, trying next",
				zap.String("provider", string(id)),
				zap.Error(err))
			continue
		}

		result.ProviderUsed = string(id)
		if len(result.PatternsDetected) == 0 {
			result.PatternsDetected = detected
		}
		if opts.EnableRiskScoring {
			result.RiskScore = normalize.RiskScore(result.Level, result.PatternsDetected, normalize.ColumnStats(col))
		}
		result.ProcessingTimeMs = float64(time.Since(start).Microseconds()) / 1000
		return result
	}

	if lastErr != nil {
		s.logger.Error("provider sequence exhausted", zap.String("error", logging.Sanitize(lastErr.Error())))
	}
	return nil
}

// attempt runs one provider call under its circuit breaker and concurrency
// permit, with a single backoff retry for transient errors.
func (s *Service) attempt(ctx context.Context, id models.ProviderID, req providers.ClassifyRequest) (map[string]any, error) {
	p := s.registry[id]

	if breaker := s.breakers[id]; breaker != nil {
		if err := breaker.Allow(); err != nil {
			return nil, err
		}
	}

	release, err := s.limiter.Acquire(ctx, id)
	if err != nil {
		// Allow may have admitted the half-open probe; an unreported
		// outcome leaves the breaker rejecting every caller.
		s.recordOutcome(id, err)
		return nil, err
	}
	defer release()

	raw, err := retry.DoWithResult(ctx, s.retryCfg, func() (map[string]any, error) {
		return p.Classify(ctx, req)
	})
	s.recordOutcome(id, err)
	return raw, err
}

// recordOutcome feeds the provider's circuit breaker, if it has one.
func (s *Service) recordOutcome(id models.ProviderID, err error) {
	breaker := s.breakers[id]
	if breaker == nil {
		return
	}
	if err != nil {
		breaker.RecordFailure()
		return
	}
	breaker.RecordSuccess()
}

// providerOrder builds the fallback sequence: the local heuristic first
// when it was explicitly selected, then the selected remote provider, then
// the remaining remotes in fixed priority order, then the local heuristic
// as a last resort when it is enabled but was not selected. Each provider
// appears at most once and only if registered.
func (s *Service) providerOrder(selected models.ProviderID) []models.ProviderID {
	candidates := make([]models.ProviderID, 0, len(remotePriority)+2)
	candidates = append(candidates, selected)
	candidates = append(candidates, remotePriority...)
	if selected != models.ProviderLocal {
		candidates = append(candidates, models.ProviderLocal)
	}

	seen := make(map[models.ProviderID]bool, len(candidates))
	order := make([]models.ProviderID, 0, len(candidates))
	for _, id := range candidates {
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, ok := s.registry[id]; ok {
			order = append(order, id)
		}
	}
	return order
}

// applyDefaults fills unset option fields from configuration.
func (s *Service) applyDefaults(opts models.Options) models.Options {
	if opts.Provider == "" {
		opts.Provider = models.ProviderOpenRouter
	}
	if opts.SampleSize <= 0 {
		opts.SampleSize = s.cfg.Classification.SampleSize
	}
	if opts.ConfidenceThreshold <= 0 {
		opts.ConfidenceThreshold = s.cfg.Classification.ConfidenceThreshold
	}
	if opts.Language == "" {
		opts.Language = "en"
	}
	return opts
}

// providerConfig maps a provider id to its remote endpoint configuration,
// nil for providers without one.
func providerConfig(cfg *config.Config, id models.ProviderID) *config.ProviderConfig {
	switch id {
	case models.ProviderOpenRouter:
		return &cfg.Providers.OpenRouter
	case models.ProviderAnthropic:
		return &cfg.Providers.Anthropic
	case models.ProviderOpenAI:
		return &cfg.Providers.OpenAI
	default:
		return nil
	}
}
