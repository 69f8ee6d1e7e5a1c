package services

import (
	"context"
	"sync"
	"time"
)

// MockRateLimiter is an in-memory RateLimiter for testing; windows never expire
type MockRateLimiter struct {
	Err error

	mu     sync.Mutex
	counts map[string]int64
}

func NewMockRateLimiter() *MockRateLimiter {
	return &MockRateLimiter{counts: make(map[string]int64)}
}

// SetAsMockForTesting sets this mock as the global rate limiter
func (m *MockRateLimiter) SetAsMockForTesting() {
	SetRateLimiter(m)
}

func (m *MockRateLimiter) Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error) {
	if m.Err != nil {
		return false, 0, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
	return m.counts[key] <= limit, m.counts[key], nil
}

// Reset clears every counter
func (m *MockRateLimiter) Reset() {
	m.mu.Lock()
	m.counts = make(map[string]int64)
	m.mu.Unlock()
}
