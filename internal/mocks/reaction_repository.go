package mocks

import (
	"context"
	"sync"

	"anoa.com/kgscp/internal/entity"
	"github.com/google/uuid"
)

type reactionKey struct {
	postID uuid.UUID
	userID uuid.UUID
}

type MockReactionRepository struct {
	Failures
	mu        sync.Mutex
	reactions map[reactionKey]entity.Reaction
	// Calls records the write methods in the order they ran.
	Calls []string
}

func NewMockReactionRepository() *MockReactionRepository {
	return &MockReactionRepository{reactions: make(map[reactionKey]entity.Reaction)}
}

func (m *MockReactionRepository) FindOne(ctx context.Context, postID, userID uuid.UUID) (*entity.Reaction, error) {
	if err := m.failure("FindOne"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reactions[reactionKey{postID, userID}]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *MockReactionRepository) Insert(ctx context.Context, reaction *entity.Reaction) error {
	if err := m.failure("Insert"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "insert")
	key := reactionKey{reaction.PostID, reaction.UserID}
	if _, ok := m.reactions[key]; ok {
		return errDuplicateKey
	}
	m.reactions[key] = *reaction
	return nil
}

func (m *MockReactionRepository) Upsert(ctx context.Context, reaction *entity.Reaction) error {
	if err := m.failure("Upsert"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "upsert")
	m.reactions[reactionKey{reaction.PostID, reaction.UserID}] = *reaction
	return nil
}

func (m *MockReactionRepository) Delete(ctx context.Context, postID, userID uuid.UUID) error {
	if err := m.failure("Delete"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "delete")
	delete(m.reactions, reactionKey{postID, userID})
	return nil
}

func (m *MockReactionRepository) CountByPost(ctx context.Context, postID uuid.UUID) (map[string]int64, error) {
	if err := m.failure("CountByPost"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[string]int64)
	for k, r := range m.reactions {
		if k.postID == postID {
			counts[r.Reaction]++
		}
	}
	return counts, nil
}

// Rows returns every stored reaction for the post.
func (m *MockReactionRepository) Rows(postID uuid.UUID) []entity.Reaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []entity.Reaction{}
	for k, r := range m.reactions {
		if k.postID == postID {
			out = append(out, r)
		}
	}
	return out
}

func (m *MockReactionRepository) DeleteByPost(postID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.reactions {
		if k.postID == postID {
			delete(m.reactions, k)
		}
	}
}
