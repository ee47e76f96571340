package providers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datashield-ai/classify-engine/pkg/models"
)

func TestLimiter_AcquireRelease(t *testing.T) {
	l := NewLimiter(map[models.ProviderID]int{models.ProviderOpenRouter: 1})
	ctx := context.Background()

	release, err := l.Acquire(ctx, models.ProviderOpenRouter)
	require.NoError(t, err)

	// The single permit is held.
	assert.False(t, l.TryAcquire(models.ProviderOpenRouter))

	release()
	assert.True(t, l.TryAcquire(models.ProviderOpenRouter))
}

func TestLimiter_UnknownProviderUnlimited(t *testing.T) {
	l := NewLimiter(nil)

	release, err := l.Acquire(context.Background(), models.ProviderLocal)
	require.NoError(t, err)
	release()

	assert.True(t, l.TryAcquire(models.ProviderLocal))
}

func TestLimiter_AcquireHonorsContext(t *testing.T) {
	l := NewLimiter(map[models.ProviderID]int{models.ProviderOpenRouter: 1})

	release, err := l.Acquire(context.Background(), models.ProviderOpenRouter)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = l.Acquire(ctx, models.ProviderOpenRouter)
	assert.Error(t, err)
}

func TestLimiter_ZeroLimitGetsDefault(t *testing.T) {
	l := NewLimiter(map[models.ProviderID]int{models.ProviderAnthropic: 0})
	assert.True(t, l.TryAcquire(models.ProviderAnthropic))
}
