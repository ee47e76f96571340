package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datashield-ai/classify-engine/pkg/models"
)

func TestLoad_EnvironmentDefaults(t *testing.T) {
	t.Setenv("REDIS_HOST", "")
	t.Setenv("OPENROUTER_API_KEY", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Classification.MaxConcurrent)
	assert.Equal(t, 10, cfg.Classification.BatchSize())
	assert.Equal(t, 0.7, cfg.Classification.ConfidenceThreshold)
	assert.Equal(t, models.RegulationPDPL, cfg.Classification.DefaultRegulation)
	assert.Len(t, cfg.Classification.SupportedRegulations, 8)

	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.Providers.OpenRouter.BaseURL)
	assert.Equal(t, "https://api.openai.com/v1", cfg.Providers.OpenAI.BaseURL)
	assert.NotEmpty(t, cfg.Providers.OpenRouter.Models)
	assert.NotEmpty(t, cfg.Providers.Anthropic.Models)
	assert.Equal(t, 60*time.Second, cfg.Providers.OpenRouter.Timeout())
	assert.Equal(t, 5, cfg.Providers.OpenRouter.BreakerThreshold)
	assert.Equal(t, 30*time.Second, cfg.Providers.OpenRouter.BreakerReset())

	assert.Equal(t, "classify-engine", cfg.Cache.KeyPrefix)
	assert.Equal(t, time.Hour, cfg.Cache.ResultTTL())
	assert.Equal(t, 5*time.Minute, cfg.Cache.StatsTTL())
	assert.False(t, cfg.Cache.IsAvailable())
}

func TestLoad_SecretsFromEnvironmentOnly(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "or-key")
	t.Setenv("ANTHROPIC_API_KEY", "an-key")
	t.Setenv("OPENAI_API_KEY", "oa-key")
	t.Setenv("REDIS_PASSWORD", "redis-secret")
	t.Setenv("REDIS_HOST", "localhost")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "or-key", cfg.Providers.OpenRouter.APIKey)
	assert.Equal(t, "an-key", cfg.Providers.Anthropic.APIKey)
	assert.Equal(t, "oa-key", cfg.Providers.OpenAI.APIKey)
	assert.Equal(t, "redis-secret", cfg.Cache.Password)

	assert.True(t, cfg.Providers.OpenRouter.IsAvailable())
	assert.True(t, cfg.Cache.IsAvailable())
	assert.Equal(t, "localhost:6379", cfg.Cache.Addr())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CLASSIFY_MAX_CONCURRENT", "4")
	t.Setenv("CLASSIFY_DEFAULT_REGULATION", "GDPR")
	t.Setenv("CLASSIFY_SUPPORTED_REGULATIONS", "GDPR, PDPL")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Classification.BatchSize())
	assert.Equal(t, models.RegulationGDPR, cfg.Classification.DefaultRegulation)
	assert.Equal(t, []models.Regulation{models.RegulationGDPR, models.RegulationPDPL},
		cfg.Classification.SupportedRegulations)
	assert.True(t, cfg.Classification.IsRegulationSupported(models.RegulationPDPL))
	assert.False(t, cfg.Classification.IsRegulationSupported(models.RegulationSOX))
}

func TestLoad_RejectsUnknownRegulation(t *testing.T) {
	t.Setenv("CLASSIFY_SUPPORTED_REGULATIONS", "PDPL,BOGUS")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
providers:
  openrouter:
    models: "meta-llama/llama-3-70b"
    max_concurrent: 2
    breaker_threshold: 3
classification:
  max_concurrent: 5
cache:
  host: cache.internal
  key_prefix: staging
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"meta-llama/llama-3-70b"}, cfg.Providers.OpenRouter.Models)
	assert.Equal(t, 2, cfg.Providers.OpenRouter.MaxConcurrent)
	assert.Equal(t, 3, cfg.Providers.OpenRouter.BreakerThreshold)
	assert.Equal(t, 5, cfg.Classification.BatchSize())
	assert.Equal(t, "staging", cfg.Cache.KeyPrefix)
	assert.Equal(t, "cache.internal:6379", cfg.Cache.Addr())
}

func TestBatchSize_Bounds(t *testing.T) {
	c := ClassificationConfig{MaxConcurrent: 0}
	assert.Equal(t, 10, c.BatchSize())

	c.MaxConcurrent = 25
	assert.Equal(t, 10, c.BatchSize())

	c.MaxConcurrent = 3
	assert.Equal(t, 3, c.BatchSize())
}

func TestProviderConfig_DefaultModel(t *testing.T) {
	p := ProviderConfig{Models: []string{"first", "second"}}
	assert.Equal(t, "first", p.DefaultModel())

	var empty ProviderConfig
	assert.Empty(t, empty.DefaultModel())
}
