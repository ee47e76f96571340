// Package providers implements the closed set of classification backends:
// remote AI services behind a uniform capability interface, plus an offline
// keyword heuristic. Provider selection and fallback ordering live in the
// classify package; this package owns the network calls, response parsing,
// and per-provider concurrency permits.
package providers

import (
	"context"

	"golang.org/x/sync/semaphore"

	"github.com/datashield-ai/classify-engine/pkg/models"
)

// ClassifyRequest carries everything a provider needs to classify one
// column. Identical requests must produce identical prompts so that cached
// results stay meaningful.
type ClassifyRequest struct {
	Column          string
	Samples         []string
	Patterns        []string
	Language        string
	RegulationFocus models.Regulation
	ModelOverride   string
}

// Provider is one classification backend. Classify returns the raw
// key-value response for the normalizer to validate; a typed *Error signals
// the attempt failed and the orchestrator should fall through.
type Provider interface {
	// ID returns the provider identifier tagged onto results.
	ID() models.ProviderID

	// Model returns the model that Classify will use absent an override.
	Model() string

	// Classify performs one classification attempt. The returned map is
	// unvalidated provider output.
	Classify(ctx context.Context, req ClassifyRequest) (map[string]any, error)

	// Ping checks provider reachability for health reporting.
	Ping(ctx context.Context) error
}

// Limiter gates provider attempts with per-provider concurrency permits.
// Permits are acquired before a network call and must be released
// unconditionally on every exit path.
type Limiter struct {
	sems map[models.ProviderID]*semaphore.Weighted
}

// DefaultProviderConcurrency bounds in-flight calls per provider when no
// limit is configured.
const DefaultProviderConcurrency = 4

// NewLimiter creates a limiter with the given per-provider limits. Providers
// absent from the map get DefaultProviderConcurrency.
func NewLimiter(limits map[models.ProviderID]int) *Limiter {
	sems := make(map[models.ProviderID]*semaphore.Weighted, len(limits))
	for id, n := range limits {
		if n < 1 {
			n = DefaultProviderConcurrency
		}
		sems[id] = semaphore.NewWeighted(int64(n))
	}
	return &Limiter{sems: sems}
}

// Acquire takes a permit for the provider, blocking until one is free or ctx
// is done. The returned release function is safe to call exactly once and
// must be deferred immediately so the permit is returned on success, error,
// and cancellation paths alike.
func (l *Limiter) Acquire(ctx context.Context, id models.ProviderID) (func(), error) {
	sem, ok := l.sems[id]
	if !ok {
		// Unlimited providers (e.g. the local heuristic) need no permit.
		return func() {}, nil
	}
	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { sem.Release(1) }, nil
}

// TryAcquire reports whether a permit could be acquired without blocking,
// releasing it immediately. Test hook.
func (l *Limiter) TryAcquire(id models.ProviderID) bool {
	sem, ok := l.sems[id]
	if !ok {
		return true
	}
	if sem.TryAcquire(1) {
		sem.Release(1)
		return true
	}
	return false
}
