package providers

import (
	"fmt"
	"sync"
	"time"

	"github.com/datashield-ai/classify-engine/pkg/models"
)

// CircuitState is the breaker's position in the closed/open/half-open cycle.
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	}
	return "unknown"
}

// Breaker defaults, applied when CircuitBreakerConfig leaves a field zero.
const (
	defaultBreakerThreshold = 5
	defaultBreakerReset     = 30 * time.Second
)

// CircuitBreakerConfig tunes one provider's breaker.
type CircuitBreakerConfig struct {
	// Provider tags breaker errors so fallback logs name the endpoint
	// being skipped.
	Provider models.ProviderID
	// Threshold is the consecutive failure count that trips the circuit.
	Threshold int
	// ResetAfter is how long a tripped provider is skipped before a
	// recovery probe is admitted.
	ResetAfter time.Duration
}

// CircuitBreaker takes a provider out of the fallback sequence after
// repeated failures, so a dead endpoint does not cost its full timeout on
// every column. One breaker guards one remote provider.
type CircuitBreaker struct {
	provider   models.ProviderID
	threshold  int
	resetAfter time.Duration

	mu          sync.RWMutex
	state       CircuitState
	failures    int
	lastFailure time.Time
}

// NewCircuitBreaker creates a breaker in the closed state. Zero config
// fields get the package defaults.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.Threshold <= 0 {
		cfg.Threshold = defaultBreakerThreshold
	}
	if cfg.ResetAfter <= 0 {
		cfg.ResetAfter = defaultBreakerReset
	}
	return &CircuitBreaker{
		provider:   cfg.Provider,
		threshold:  cfg.Threshold,
		resetAfter: cfg.ResetAfter,
	}
}

// Allow reports whether a call may proceed, nil meaning yes. A tripped
// breaker admits a single probe once the reset window has passed; the
// probe's outcome must reach RecordSuccess or RecordFailure, or the breaker
// stays half-open and rejects every caller.
func (cb *CircuitBreaker) Allow() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitOpen:
		if time.Since(cb.lastFailure) > cb.resetAfter {
			cb.state = CircuitHalfOpen
			return nil
		}
		return fmt.Errorf("%s circuit open: %d consecutive failures, last %v ago",
			cb.provider, cb.failures, time.Since(cb.lastFailure).Round(time.Second))
	case CircuitHalfOpen:
		return fmt.Errorf("%s circuit half-open: recovery probe in flight", cb.provider)
	default:
		return nil
	}
}

// RecordSuccess closes the circuit and clears the failure count.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures = 0
	cb.state = CircuitClosed
}

// RecordFailure counts one failed call. A failed or abandoned half-open
// probe reopens the circuit immediately; a closed circuit trips once the
// threshold is reached.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++
	cb.lastFailure = time.Now()

	if cb.state == CircuitHalfOpen || cb.failures >= cb.threshold {
		cb.state = CircuitOpen
	}
}

// State returns the breaker's current state.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

// ConsecutiveFailures returns the current failure streak.
func (cb *CircuitBreaker) ConsecutiveFailures() int {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.failures
}

// Reset forces the breaker closed, for operator intervention.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures = 0
	cb.state = CircuitClosed
}
