package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"

	"github.com/datashield-ai/classify-engine/pkg/models"
)

// anthropicProvider classifies via the Anthropic Messages API.
type anthropicProvider struct {
	client  *anthropic.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// AnthropicConfig holds configuration for the Anthropic provider.
type AnthropicConfig struct {
	Model   string
	APIKey  string
	Timeout time.Duration
}

// NewAnthropic creates the Anthropic provider.
func NewAnthropic(cfg AnthropicConfig, logger *zap.Logger) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("anthropic: model is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &anthropicProvider{
		client:  anthropic.NewClient(cfg.APIKey),
		model:   cfg.Model,
		timeout: timeout,
		logger:  logger.Named("anthropic"),
	}, nil
}

func (p *anthropicProvider) ID() models.ProviderID { return models.ProviderAnthropic }
func (p *anthropicProvider) Model() string         { return p.model }

// Classify sends one classification request via CreateMessages. The system
// framing rides in the request's System field; the prompt is a single user
// turn.
func (p *anthropicProvider) Classify(ctx context.Context, req ClassifyRequest) (map[string]any, error) {
	model := p.model
	if req.ModelOverride != "" {
		model = req.ModelOverride
	}

	prompt := BuildPrompt(req)
	temperature := float32(0.1)

	p.logger.Debug("classification request",
		zap.String("model", model),
		zap.String("column", req.Column),
		zap.Int("prompt_len", len(prompt)))

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	resp, err := p.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:       anthropic.Model(model),
		System:      systemMessage,
		MaxTokens:   2000,
		Temperature: &temperature,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(prompt),
		},
	})
	if err != nil {
		p.logger.Warn("classification request failed",
			zap.String("column", req.Column),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		provErr := ClassifyError(err)
		provErr.Provider = string(models.ProviderAnthropic)
		provErr.Model = model
		return nil, provErr
	}

	content := extractText(resp)
	if content == "" {
		return nil, NewError(ErrorTypeResponse, "no text content in response", false, nil)
	}

	raw, err := parseResponseMap(content)
	if err != nil {
		return nil, err
	}
	raw["model"] = model

	p.logger.Debug("classification request completed",
		zap.String("column", req.Column),
		zap.Duration("elapsed", time.Since(start)))

	return raw, nil
}

// extractText returns the first text block from a messages response.
func extractText(resp anthropic.MessagesResponse) string {
	for _, block := range resp.Content {
		if block.Type == anthropic.MessagesContentTypeText && block.Text != nil {
			return *block.Text
		}
	}
	return ""
}

// Ping checks provider reachability with a minimal one-token request. The
// Messages API has no cheaper authenticated probe.
func (p *anthropicProvider) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := p.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(p.model),
		MaxTokens: 1,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage("ping"),
		},
	})
	if err != nil {
		return ClassifyError(err)
	}
	return nil
}

var _ Provider = (*anthropicProvider)(nil)
