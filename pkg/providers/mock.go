package providers

import (
	"context"

	"github.com/datashield-ai/classify-engine/pkg/models"
)

// MockProvider is a configurable mock for testing provider orchestration.
// Set the function fields to control behavior in tests.
type MockProvider struct {
	// IDValue is returned by ID. Defaults to ProviderOpenRouter.
	IDValue models.ProviderID

	// ModelValue is returned by Model. Defaults to "mock-model".
	ModelValue string

	// ClassifyFunc is called when Classify is invoked.
	// If nil, returns a minimal valid response map.
	ClassifyFunc func(ctx context.Context, req ClassifyRequest) (map[string]any, error)

	// PingFunc is called when Ping is invoked. If nil, returns nil.
	PingFunc func(ctx context.Context) error

	// Call tracking for verification
	ClassifyCalls int
	PingCalls     int
}

// NewMockProvider creates a mock with sensible defaults.
func NewMockProvider(id models.ProviderID) *MockProvider {
	return &MockProvider{
		IDValue:    id,
		ModelValue: "mock-model",
	}
}

// ID implements Provider.
func (m *MockProvider) ID() models.ProviderID {
	if m.IDValue == "" {
		return models.ProviderOpenRouter
	}
	return m.IDValue
}

// Model implements Provider.
func (m *MockProvider) Model() string {
	if m.ModelValue == "" {
		return "mock-model"
	}
	return m.ModelValue
}

// Classify implements Provider.
func (m *MockProvider) Classify(ctx context.Context, req ClassifyRequest) (map[string]any, error) {
	m.ClassifyCalls++
	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, req)
	}
	return map[string]any{
		"classification_level": "Internal",
		"regulation":           "PDPL",
		"justification":        "mock classification",
		"confidence_score":     0.9,
		"model":                m.Model(),
	}, nil
}

// Ping implements Provider.
func (m *MockProvider) Ping(ctx context.Context) error {
	m.PingCalls++
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

// Reset clears call tracking counters.
func (m *MockProvider) Reset() {
	m.ClassifyCalls = 0
	m.PingCalls = 0
}

// Ensure MockProvider implements Provider at compile time.
var _ Provider = (*MockProvider)(nil)
