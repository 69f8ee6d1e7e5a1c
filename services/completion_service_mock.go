package services

import (
	"context"
	"sync"

	"github.com/adcut-studio/adcut-api/models"
)

// MockChatCompleter is a mock implementation of ChatCompleter for testing
type MockChatCompleter struct {
	Reply string
	Err   error

	mu    sync.Mutex
	calls [][]models.ChatMessage
}

// NewMockChatCompleter creates a mock that always answers with reply
func NewMockChatCompleter(reply string) *MockChatCompleter {
	return &MockChatCompleter{Reply: reply}
}

// SetAsMockForTesting sets this mock as the global completion client
func (m *MockChatCompleter) SetAsMockForTesting() {
	SetChatCompleter(m)
}

func (m *MockChatCompleter) Complete(ctx context.Context, persona string, history []models.ChatMessage) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, history)
	m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	return m.Reply, nil
}

// Calls returns the histories received so far
func (m *MockChatCompleter) Calls() [][]models.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]models.ChatMessage(nil), m.calls...)
}
