package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/datashield-ai/classify-engine/pkg/models"
)

// Config holds all configuration for the classification engine.
// Configuration can come from a YAML file or environment variables.
// Environment variables always override YAML values for fields that support
// both. Secrets (API keys, passwords) must only come from environment
// variables.
type Config struct {
	Providers      ProvidersConfig      `yaml:"providers"`
	Cache          CacheConfig          `yaml:"cache"`
	Classification ClassificationConfig `yaml:"classification"`
}

// ProvidersConfig holds per-provider endpoint configuration.
type ProvidersConfig struct {
	OpenRouter ProviderConfig `yaml:"openrouter"`
	Anthropic  ProviderConfig `yaml:"anthropic"`
	OpenAI     ProviderConfig `yaml:"openai"`

	// EnableLocal turns on the offline keyword classifier. It needs no
	// credentials and is attempted before any remote provider.
	EnableLocal bool `yaml:"enable_local" env:"CLASSIFY_ENABLE_LOCAL" env-default:"true"`
}

// ProviderConfig holds configuration for one remote classification provider.
type ProviderConfig struct {
	BaseURL string `yaml:"base_url" env-default:""`
	// ModelsStr lists usable model names, comma separated; the first is
	// the default.
	ModelsStr string   `yaml:"models" env-default:""`
	Models    []string `yaml:"-"`
	APIKey    string   `yaml:"-"` // Secret - environment only
	// MaxConcurrent bounds in-flight calls to this provider.
	MaxConcurrent  int `yaml:"max_concurrent" env-default:"4"`
	TimeoutSeconds int `yaml:"timeout_seconds" env-default:"60"`

	// BreakerThreshold is the consecutive failure count that trips the
	// provider's circuit breaker; BreakerResetSeconds is how long a
	// tripped provider is skipped before a recovery probe.
	BreakerThreshold    int `yaml:"breaker_threshold" env-default:"5"`
	BreakerResetSeconds int `yaml:"breaker_reset_seconds" env-default:"30"`
}

// IsAvailable returns true if the provider has credentials configured.
func (p *ProviderConfig) IsAvailable() bool {
	return p.APIKey != ""
}

// Timeout returns the request timeout as a duration.
func (p *ProviderConfig) Timeout() time.Duration {
	if p.TimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// BreakerReset returns the circuit breaker reset window as a duration.
func (p *ProviderConfig) BreakerReset() time.Duration {
	if p.BreakerResetSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(p.BreakerResetSeconds) * time.Second
}

// DefaultModel returns the first configured model, or empty.
func (p *ProviderConfig) DefaultModel() string {
	if len(p.Models) == 0 {
		return ""
	}
	return p.Models[0]
}

// CacheConfig holds the redis-backed result cache configuration.
type CacheConfig struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:""`
	Port     int    `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"-" env:"REDIS_PASSWORD"` // Secret - environment only
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`

	// KeyPrefix namespaces all cache keys.
	KeyPrefix string `yaml:"key_prefix" env:"CACHE_KEY_PREFIX" env-default:"classify-engine"`

	// ResultTTLSeconds is the default lifetime of cached classification
	// results. StatsTTLSeconds covers derived aggregate statistics.
	ResultTTLSeconds int `yaml:"result_ttl_seconds" env:"CACHE_RESULT_TTL_SECONDS" env-default:"3600"`
	StatsTTLSeconds  int `yaml:"stats_ttl_seconds" env:"CACHE_STATS_TTL_SECONDS" env-default:"300"`
}

// IsAvailable returns true if a cache backend is configured. The engine
// operates correctly, only slower, without one.
func (c *CacheConfig) IsAvailable() bool {
	return c.Host != ""
}

// Addr returns the host:port address of the cache backend.
func (c *CacheConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ResultTTL returns the default classification result TTL.
func (c *CacheConfig) ResultTTL() time.Duration {
	if c.ResultTTLSeconds <= 0 {
		return time.Hour
	}
	return time.Duration(c.ResultTTLSeconds) * time.Second
}

// StatsTTL returns the default derived-statistics TTL.
func (c *CacheConfig) StatsTTL() time.Duration {
	if c.StatsTTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.StatsTTLSeconds) * time.Second
}

// ClassificationConfig holds orchestration-level settings.
type ClassificationConfig struct {
	// MaxConcurrent bounds concurrent column classifications; the batch
	// size is min(10, MaxConcurrent).
	MaxConcurrent int `yaml:"max_concurrent" env:"CLASSIFY_MAX_CONCURRENT" env-default:"10"`

	ConfidenceThreshold float64 `yaml:"confidence_threshold" env:"CLASSIFY_CONFIDENCE_THRESHOLD" env-default:"0.7"`
	SampleSize          int     `yaml:"sample_size" env:"CLASSIFY_SAMPLE_SIZE" env-default:"10"`

	// SupportedRegulationsStr is a comma-separated regulation whitelist.
	// Provider responses outside it are coerced to DefaultRegulation.
	SupportedRegulationsStr string              `yaml:"supported_regulations" env:"CLASSIFY_SUPPORTED_REGULATIONS" env-default:"NDMO,PDPL,GDPR,NCA,DAMA,CCPA,HIPAA,SOX"`
	SupportedRegulations    []models.Regulation `yaml:"-"`
	DefaultRegulation       models.Regulation   `yaml:"default_regulation" env:"CLASSIFY_DEFAULT_REGULATION" env-default:"PDPL"`
}

// BatchSize returns the number of columns classified per batch.
func (c *ClassificationConfig) BatchSize() int {
	n := c.MaxConcurrent
	if n < 1 || n > 10 {
		n = 10
	}
	return n
}

// IsRegulationSupported checks a regulation against the configured whitelist.
func (c *ClassificationConfig) IsRegulationSupported(r models.Regulation) bool {
	for _, s := range c.SupportedRegulations {
		if s == r {
			return true
		}
	}
	return false
}

// Load reads configuration from the given YAML file with environment
// variable overrides. Pass an empty path to load from the environment only.
// Secrets (OPENROUTER_API_KEY, ANTHROPIC_API_KEY, OPENAI_API_KEY,
// REDIS_PASSWORD) must come from environment variables.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read environment config: %w", err)
	}

	cfg.readSecrets()
	if err := cfg.parseComplexFields(); err != nil {
		return nil, fmt.Errorf("parse config fields: %w", err)
	}

	return cfg, nil
}

// readSecrets pulls API keys from the environment. cleanenv cannot give the
// same nested struct type a distinct env tag per instance, so these are read
// directly.
func (c *Config) readSecrets() {
	c.Providers.OpenRouter.APIKey = os.Getenv("OPENROUTER_API_KEY")
	c.Providers.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	c.Providers.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
}

// parseComplexFields handles fields that need post-processing after loading.
func (c *Config) parseComplexFields() error {
	c.Providers.OpenRouter.Models = splitList(c.Providers.OpenRouter.ModelsStr)
	c.Providers.Anthropic.Models = splitList(c.Providers.Anthropic.ModelsStr)
	c.Providers.OpenAI.Models = splitList(c.Providers.OpenAI.ModelsStr)

	if c.Providers.OpenRouter.BaseURL == "" {
		c.Providers.OpenRouter.BaseURL = "https://openrouter.ai/api/v1"
	}
	if c.Providers.OpenAI.BaseURL == "" {
		c.Providers.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if len(c.Providers.OpenRouter.Models) == 0 {
		c.Providers.OpenRouter.Models = []string{"anthropic/claude-3-opus", "openai/gpt-4-turbo", "meta-llama/llama-3-70b"}
	}
	if len(c.Providers.Anthropic.Models) == 0 {
		c.Providers.Anthropic.Models = []string{"claude-3-opus-20240229", "claude-3-sonnet-20240229"}
	}
	if len(c.Providers.OpenAI.Models) == 0 {
		c.Providers.OpenAI.Models = []string{"gpt-4-turbo", "gpt-4", "gpt-3.5-turbo"}
	}

	c.Classification.SupportedRegulations = nil
	for _, s := range splitList(c.Classification.SupportedRegulationsStr) {
		reg, ok := models.ParseRegulation(s)
		if !ok {
			return fmt.Errorf("unsupported regulation %q", s)
		}
		c.Classification.SupportedRegulations = append(c.Classification.SupportedRegulations, reg)
	}
	if _, ok := models.ParseRegulation(string(c.Classification.DefaultRegulation)); !ok {
		return fmt.Errorf("invalid default regulation %q", c.Classification.DefaultRegulation)
	}

	return nil
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
