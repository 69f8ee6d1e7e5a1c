package services

import (
	"context"
	"sync"
)

// MockImageGenerator is a mock implementation of ImageGenerator for testing
type MockImageGenerator struct {
	Image string
	Err   error

	mu       sync.Mutex
	requests []ImageGenerationRequest
}

// NewMockImageGenerator creates a mock returning a 1x1 PNG
func NewMockImageGenerator() *MockImageGenerator {
	return &MockImageGenerator{
		Image: "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg==",
	}
}

// SetAsMockForTesting sets this mock as the global image generator
func (m *MockImageGenerator) SetAsMockForTesting() {
	SetImageGenerator(m)
}

func (m *MockImageGenerator) Generate(ctx context.Context, req ImageGenerationRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Image, nil
}

// Requests returns every request received
func (m *MockImageGenerator) Requests() []ImageGenerationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ImageGenerationRequest(nil), m.requests...)
}
