package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"anoa.com/kgscp/pkg/apperror"
	"github.com/google/uuid"
)

// MockLimiter holds cooldowns in memory without expiry.
type MockLimiter struct {
	mu     sync.Mutex
	active map[string]bool
}

func NewMockLimiter() *MockLimiter {
	return &MockLimiter{active: make(map[string]bool)}
}

func limiterKey(userID uuid.UUID, action string) string {
	return fmt.Sprintf("%s:%s", userID, action)
}

func (m *MockLimiter) Acquire(ctx context.Context, userID uuid.UUID, action string, window time.Duration) error {
	if window <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := limiterKey(userID, action)
	if m.active[key] {
		return &apperror.RateLimitError{Message: "please wait before trying again", RetryAfter: window}
	}
	m.active[key] = true
	return nil
}

func (m *MockLimiter) Release(ctx context.Context, userID uuid.UUID, action string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.active, limiterKey(userID, action))
}

func (m *MockLimiter) Active(userID uuid.UUID, action string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active[limiterKey(userID, action)]
}
