package services

import (
	"context"
	"sync"

	"github.com/adcut-studio/adcut-api/models"
)

// DispatchCall records one call to MockNotifier.Dispatch
type DispatchCall struct {
	OrderID string
	Event   models.NotificationEvent
}

// MockNotifier is a mock implementation of Notifier for testing
type MockNotifier struct {
	Err error

	mu    sync.Mutex
	calls []DispatchCall
}

// NewMockNotifier creates a new mock notifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) Dispatch(ctx context.Context, orderID string, event models.NotificationEvent) (*models.NotificationLog, error) {
	m.mu.Lock()
	m.calls = append(m.calls, DispatchCall{OrderID: orderID, Event: event})
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	return &models.NotificationLog{OrderID: orderID, Event: event, Status: "tagged"}, nil
}

// Calls returns every dispatch received
func (m *MockNotifier) Calls() []DispatchCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]DispatchCall(nil), m.calls...)
}
