package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datashield-ai/classify-engine/pkg/models"
)

func testBreaker(threshold int, resetAfter time.Duration) *CircuitBreaker {
	return NewCircuitBreaker(CircuitBreakerConfig{
		Provider:   models.ProviderOpenRouter,
		Threshold:  threshold,
		ResetAfter: resetAfter,
	})
}

func TestCircuitBreaker_StartsClosed(t *testing.T) {
	cb := testBreaker(3, time.Minute)

	assert.Equal(t, CircuitClosed, cb.State())
	assert.NoError(t, cb.Allow())
}

func TestCircuitBreaker_TripsAtThreshold(t *testing.T) {
	cb := testBreaker(3, time.Minute)

	cb.RecordFailure()
	cb.RecordFailure()
	assert.Equal(t, CircuitClosed, cb.State())

	cb.RecordFailure()
	assert.Equal(t, CircuitOpen, cb.State())

	err := cb.Allow()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openrouter circuit open")
}

func TestCircuitBreaker_ZeroConfigGetsDefaults(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{Provider: models.ProviderAnthropic})

	for i := 0; i < defaultBreakerThreshold-1; i++ {
		cb.RecordFailure()
	}
	assert.Equal(t, CircuitClosed, cb.State())

	cb.RecordFailure()
	assert.Equal(t, CircuitOpen, cb.State())
}

func TestCircuitBreaker_SuccessResetsCount(t *testing.T) {
	cb := testBreaker(3, time.Minute)

	cb.RecordFailure()
	cb.RecordFailure()
	cb.RecordSuccess()
	assert.Equal(t, 0, cb.ConsecutiveFailures())

	cb.RecordFailure()
	cb.RecordFailure()
	assert.Equal(t, CircuitClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenAfterReset(t *testing.T) {
	cb := testBreaker(1, 10*time.Millisecond)

	cb.RecordFailure()
	require.Equal(t, CircuitOpen, cb.State())

	time.Sleep(20 * time.Millisecond)

	// First request after the reset window is the probe.
	assert.NoError(t, cb.Allow())
	assert.Equal(t, CircuitHalfOpen, cb.State())

	// Concurrent requests are rejected while the probe is in flight.
	err := cb.Allow()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "half-open")
}

func TestCircuitBreaker_ProbeSuccessCloses(t *testing.T) {
	cb := testBreaker(1, 10*time.Millisecond)

	cb.RecordFailure()
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, cb.Allow())

	cb.RecordSuccess()
	assert.Equal(t, CircuitClosed, cb.State())
}

func TestCircuitBreaker_ProbeFailureReopens(t *testing.T) {
	cb := testBreaker(1, 10*time.Millisecond)

	cb.RecordFailure()
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, cb.Allow())

	cb.RecordFailure()
	assert.Equal(t, CircuitOpen, cb.State())
}

func TestCircuitBreaker_ReopenedProbeAdmitsNextProbe(t *testing.T) {
	cb := testBreaker(1, 10*time.Millisecond)

	cb.RecordFailure()
	time.Sleep(20 * time.Millisecond)

	// Probe admitted, then its failure reopens the circuit rather than
	// leaving it half-open.
	require.NoError(t, cb.Allow())
	cb.RecordFailure()
	require.Equal(t, CircuitOpen, cb.State())

	time.Sleep(20 * time.Millisecond)
	assert.NoError(t, cb.Allow())
}

func TestCircuitBreaker_ManualReset(t *testing.T) {
	cb := testBreaker(1, time.Minute)

	cb.RecordFailure()
	require.Equal(t, CircuitOpen, cb.State())

	cb.Reset()
	assert.Equal(t, CircuitClosed, cb.State())
	assert.Equal(t, 0, cb.ConsecutiveFailures())
}
