package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"anoa.com/kgscp/internal/entity"
	"anoa.com/kgscp/pkg/apperror"
	"github.com/google/uuid"
)

type MockCommentRepository struct {
	Failures
	mu       sync.Mutex
	comments []entity.Comment
	clock    time.Time
}

func NewMockCommentRepository(comments ...entity.Comment) *MockCommentRepository {
	m := &MockCommentRepository{
		comments: append([]entity.Comment(nil), comments...),
		clock:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, row := range comments {
		if row.CreatedAt.After(m.clock) {
			m.clock = row.CreatedAt
		}
	}
	return m
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	if err := m.failure("Create"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if comment.ID == uuid.Nil {
		comment.ID = uuid.Must(uuid.NewV7())
	}
	m.clock = m.clock.Add(time.Second)
	comment.CreatedAt = m.clock
	m.comments = append(m.comments, *comment)
	return nil
}

func (m *MockCommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error) {
	if err := m.failure("FindByID"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.comments {
		if c.ID == id {
			found := c
			return &found, nil
		}
	}
	return nil, apperror.ErrNotFound
}

func (m *MockCommentRepository) FindByPostID(ctx context.Context, postID uuid.UUID) ([]entity.Comment, error) {
	if err := m.failure("FindByPostID"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []entity.Comment{}
	for _, c := range m.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MockCommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := m.failure("Delete"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, c := range m.comments {
		if c.ID == id {
			m.comments = append(m.comments[:i], m.comments[i+1:]...)
			return nil
		}
	}
	return apperror.ErrNotFound
}

// DeleteByPost mirrors the post repository's cascade.
func (m *MockCommentRepository) DeleteByPost(postID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.comments[:0]
	for _, c := range m.comments {
		if c.PostID != postID {
			kept = append(kept, c)
		}
	}
	m.comments = kept
}

func (m *MockCommentRepository) CountByPost(postID uuid.UUID) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, c := range m.comments {
		if c.PostID == postID {
			n++
		}
	}
	return n
}
