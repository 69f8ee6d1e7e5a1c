package services

import (
	"context"
	"fmt"
	"sync"
)

// MockPaymentProvider is a mock implementation of PaymentProvider for testing
type MockPaymentProvider struct {
	Err error

	mu       sync.Mutex
	requests []CheckoutSessionRequest
}

func NewMockPaymentProvider() *MockPaymentProvider {
	return &MockPaymentProvider{}
}

// SetAsMockForTesting sets this mock as the global payment provider
func (m *MockPaymentProvider) SetAsMockForTesting() {
	SetPaymentProvider(m)
}

func (m *MockPaymentProvider) CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (*CheckoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	m.requests = append(m.requests, req)
	id := fmt.Sprintf("cs_test_%d", len(m.requests))
	return &CheckoutSession{ID: id, URL: "https://checkout.stripe.test/pay/" + id}, nil
}

// Requests returns every session request received
func (m *MockPaymentProvider) Requests() []CheckoutSessionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]CheckoutSessionRequest(nil), m.requests...)
}
