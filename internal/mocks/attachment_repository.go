package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"anoa.com/kgscp/internal/entity"
	"github.com/google/uuid"
)

type MockAttachmentRepository struct {
	Failures
	mu          sync.Mutex
	attachments []entity.Attachment
	// PostExists decides orphan status; nil treats every attachment as owned.
	PostExists func(postID uuid.UUID) bool
}

func NewMockAttachmentRepository(attachments ...entity.Attachment) *MockAttachmentRepository {
	return &MockAttachmentRepository{attachments: append([]entity.Attachment(nil), attachments...)}
}

func (m *MockAttachmentRepository) add(attachments []entity.Attachment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attachments = append(m.attachments, attachments...)
}

func (m *MockAttachmentRepository) FindByPostID(ctx context.Context, postID uuid.UUID) ([]entity.Attachment, error) {
	if err := m.failure("FindByPostID"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []entity.Attachment{}
	for _, a := range m.attachments {
		if a.PostID == postID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (m *MockAttachmentRepository) FindOrphans(ctx context.Context, cutoffTime time.Time) ([]entity.Attachment, error) {
	if err := m.failure("FindOrphans"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []entity.Attachment{}
	for _, a := range m.attachments {
		if !a.CreatedAt.Before(cutoffTime) {
			continue
		}
		if m.PostExists != nil && !m.PostExists(a.PostID) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *MockAttachmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := m.failure("Delete"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, a := range m.attachments {
		if a.ID == id {
			m.attachments = append(m.attachments[:i], m.attachments[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *MockAttachmentRepository) DeleteByPost(postID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.attachments[:0]
	for _, a := range m.attachments {
		if a.PostID != postID {
			kept = append(kept, a)
		}
	}
	m.attachments = kept
}

func (m *MockAttachmentRepository) All() []entity.Attachment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entity.Attachment(nil), m.attachments...)
}
