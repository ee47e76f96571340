package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/datashield-ai/classify-engine/pkg/models"
)

// openAIProvider serves any OpenAI-wire-compatible endpoint. Both the OpenAI
// and OpenRouter providers are this type with different base URLs and IDs.
type openAIProvider struct {
	id      models.ProviderID
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// OpenAIConfig holds configuration for an OpenAI-compatible provider.
type OpenAIConfig struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
}

// NewOpenAI creates the OpenAI provider.
func NewOpenAI(cfg OpenAIConfig, logger *zap.Logger) (Provider, error) {
	return newOpenAICompatible(models.ProviderOpenAI, cfg, logger)
}

// NewOpenRouter creates the OpenRouter provider. OpenRouter speaks the
// OpenAI chat-completions wire format.
func NewOpenRouter(cfg OpenAIConfig, logger *zap.Logger) (Provider, error) {
	return newOpenAICompatible(models.ProviderOpenRouter, cfg, logger)
}

func newOpenAICompatible(id models.ProviderID, cfg OpenAIConfig, logger *zap.Logger) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: API key is required", id)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%s: model is required", id)
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &openAIProvider{
		id:      id,
		client:  openai.NewClientWithConfig(clientConfig),
		model:   cfg.Model,
		timeout: timeout,
		logger:  logger.Named(string(id)),
	}, nil
}

func (p *openAIProvider) ID() models.ProviderID { return p.id }
func (p *openAIProvider) Model() string         { return p.model }

// Classify sends one classification request and returns the raw response
// map. Non-2xx responses, non-JSON bodies, and empty choice lists all map to
// a typed *Error so the orchestrator falls through.
func (p *openAIProvider) Classify(ctx context.Context, req ClassifyRequest) (map[string]any, error) {
	model := p.model
	if req.ModelOverride != "" {
		model = req.ModelOverride
	}

	prompt := BuildPrompt(req)

	p.logger.Debug("classification request",
		zap.String("model", model),
		zap.String("column", req.Column),
		zap.Int("prompt_len", len(prompt)))

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.1,
		MaxTokens:   2000,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		p.logger.Warn("classification request failed",
			zap.String("column", req.Column),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		provErr := ClassifyError(err)
		provErr.Provider = string(p.id)
		provErr.Model = model
		return nil, provErr
	}

	if len(resp.Choices) == 0 {
		return nil, NewError(ErrorTypeResponse, "no choices in response", false, nil)
	}

	raw, err := parseResponseMap(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	raw["model"] = model

	p.logger.Debug("classification request completed",
		zap.String("column", req.Column),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)))

	return raw, nil
}

// Ping checks endpoint reachability via the models listing.
func (p *openAIProvider) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := p.client.ListModels(ctx); err != nil {
		return ClassifyError(err)
	}
	return nil
}

var _ Provider = (*openAIProvider)(nil)
