package mock

import (
	"context"
	"sync"

	"github.com/sellarium/catagraph/ai"
)

// MockTextGenerator is a test double for ai.TextGenerator.
// It allows custom behavior injection via function fields.
type MockTextGenerator struct {
	// GenerateTextFunc is called by GenerateText if set.
	// If nil, returns a small valid extraction document.
	GenerateTextFunc func(ctx context.Context, req ai.GenerateRequest) (string, error)

	mu        sync.Mutex
	callCount int
	requests  []ai.GenerateRequest
}

// NewMockTextGenerator creates a mock text generator with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockTextGenerator() *MockTextGenerator {
	return &MockTextGenerator{}
}

// GenerateText returns canned text. Default behavior: a minimal valid
// extraction document echoing no entities.
func (m *MockTextGenerator) GenerateText(ctx context.Context, req ai.GenerateRequest) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.requests = append(m.requests, req)
	fn := m.GenerateTextFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}

	return `{"product":{"id":""},"entities":[],"specs":[],"flags":[]}`, nil
}

// CallCount returns the number of times GenerateText was called.
func (m *MockTextGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Requests returns a copy of all requests seen so far.
func (m *MockTextGenerator) Requests() []ai.GenerateRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ai.GenerateRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// Reset clears the call history and custom functions.
func (m *MockTextGenerator) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.requests = nil
	m.GenerateTextFunc = nil
}
