package services

import (
	"context"
	"sync"
)

// TaggedContact records one call to MockCRMTagger.Tag
type TaggedContact struct {
	Contact CRMContact
	Email   Email
}

// MockCRMTagger is a mock implementation of CRMTagger for testing
type MockCRMTagger struct {
	Err error

	mu     sync.Mutex
	tagged []TaggedContact
}

// NewMockCRMTagger creates a new mock CRM tagger
func NewMockCRMTagger() *MockCRMTagger {
	return &MockCRMTagger{}
}

// SetAsMockForTesting sets this mock as the global CRM tagger
func (m *MockCRMTagger) SetAsMockForTesting() {
	SetCRMTagger(m)
}

func (m *MockCRMTagger) Tag(ctx context.Context, contact CRMContact, email Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.tagged = append(m.tagged, TaggedContact{Contact: contact, Email: email})
	return nil
}

// Tagged returns every successful Tag call
func (m *MockCRMTagger) Tagged() []TaggedContact {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]TaggedContact(nil), m.tagged...)
}

// Clear forgets recorded calls
func (m *MockCRMTagger) Clear() {
	m.mu.Lock()
	m.tagged = nil
	m.mu.Unlock()
}
