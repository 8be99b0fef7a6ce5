package mocks

import (
	"sort"
	"strings"
	"sync"

	"anoa.com/kgscp/internal/entity"
	"github.com/google/uuid"
)

// MockSearchService matches queries against title and content substrings.
type MockSearchService struct {
	Failures
	mu   sync.Mutex
	docs map[uuid.UUID]entity.Post
	// Authors records the author name each post was indexed with.
	Authors map[uuid.UUID]string
}

func NewMockSearchService() *MockSearchService {
	return &MockSearchService{
		docs:    make(map[uuid.UUID]entity.Post),
		Authors: make(map[uuid.UUID]string),
	}
}

func (m *MockSearchService) IndexPost(post *entity.Post, authorName string) error {
	if err := m.failure("IndexPost"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[post.ID] = *post
	m.Authors[post.ID] = authorName
	return nil
}

func (m *MockSearchService) DeletePost(id uuid.UUID) error {
	if err := m.failure("DeletePost"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, id)
	delete(m.Authors, id)
	return nil
}

func (m *MockSearchService) SearchPostIDs(query, category string, limit int64) ([]uuid.UUID, error) {
	if err := m.failure("SearchPostIDs"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := []uuid.UUID{}
	for id, p := range m.docs {
		if category != "" && p.Category != category {
			continue
		}
		if strings.Contains(p.Title, query) || strings.Contains(p.Content, query) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	if limit > 0 && int64(len(ids)) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (m *MockSearchService) Indexed(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.docs[id]
	return ok
}
