package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MockCountCache records which posts had their cached counters dropped.
type MockCountCache struct {
	mu          sync.Mutex
	Invalidated []uuid.UUID
}

func NewMockCountCache() *MockCountCache {
	return &MockCountCache{}
}

func (m *MockCountCache) InvalidateCounts(ctx context.Context, postID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Invalidated = append(m.Invalidated, postID)
}
