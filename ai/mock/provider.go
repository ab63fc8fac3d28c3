package mock

import "github.com/sellarium/catagraph/ai"

// MockProvider is a test double for ai.Provider.
type MockProvider struct {
	generator *MockTextGenerator
}

var _ ai.Provider = (*MockProvider)(nil)

// NewMockProvider creates a provider wrapping mock services.
func NewMockProvider() *MockProvider {
	return &MockProvider{generator: NewMockTextGenerator()}
}

// Generator returns the mock generator as the interface type.
func (p *MockProvider) Generator() ai.TextGenerator {
	return p.generator
}

// GetMockGenerator returns the concrete mock for test assertions.
func (p *MockProvider) GetMockGenerator() *MockTextGenerator {
	return p.generator
}

// Close releases nothing; mocks hold no resources.
func (p *MockProvider) Close() error {
	return nil
}
