package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"anoa.com/kgscp/internal/entity"
	postRepo "anoa.com/kgscp/internal/modules/post/repository"
	"anoa.com/kgscp/pkg/apperror"
	"github.com/google/uuid"
)

// MockPostRepository keeps posts in memory. The optional sibling mocks supply author
// names, derived counts and the delete cascade.
type MockPostRepository struct {
	Failures
	mu          sync.Mutex
	posts       map[uuid.UUID]entity.Post
	clock       time.Time
	Profiles    *MockProfileRepository
	Comments    *MockCommentRepository
	Reactions   *MockReactionRepository
	Attachments *MockAttachmentRepository
}

func NewMockPostRepository(posts ...entity.Post) *MockPostRepository {
	m := &MockPostRepository{
		posts: make(map[uuid.UUID]entity.Post),
		clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, p := range posts {
		m.posts[p.ID] = p
		if p.CreatedAt.After(m.clock) {
			m.clock = p.CreatedAt
		}
	}
	return m
}

func (m *MockPostRepository) Create(ctx context.Context, post *entity.Post, attachments []entity.Attachment) error {
	if err := m.failure("Create"); err != nil {
		return err
	}
	m.mu.Lock()
	if post.ID == uuid.Nil {
		post.ID = uuid.Must(uuid.NewV7())
	}
	m.clock = m.clock.Add(time.Second)
	post.CreatedAt = m.clock
	m.posts[post.ID] = *post
	m.mu.Unlock()

	for i := range attachments {
		attachments[i].PostID = post.ID
		if attachments[i].ID == uuid.Nil {
			attachments[i].ID = uuid.Must(uuid.NewV7())
		}
	}
	if m.Attachments != nil {
		m.Attachments.add(attachments)
	}
	return nil
}

func (m *MockPostRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	if err := m.failure("FindByID"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return &p, nil
}

func (m *MockPostRepository) summary(p entity.Post) entity.PostSummary {
	s := entity.PostSummary{Post: p}
	if m.Profiles != nil {
		if profile, err := m.Profiles.FindByID(context.Background(), p.AuthorID); err == nil {
			s.AuthorName = profile.Name
			s.AuthorUsername = profile.Username
		}
	}
	if m.Reactions != nil {
		counts, _ := m.Reactions.CountByPost(context.Background(), p.ID)
		s.LikesCount = counts[entity.ReactionLike]
		s.DislikesCount = counts[entity.ReactionDislike]
	}
	if m.Comments != nil {
		s.CommentsCount = m.Comments.CountByPost(p.ID)
	}
	return s
}

func (m *MockPostRepository) FindSummaryByID(ctx context.Context, id uuid.UUID) (*entity.PostSummary, error) {
	if err := m.failure("FindSummaryByID"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	p, ok := m.posts[id]
	m.mu.Unlock()
	if !ok {
		return nil, apperror.ErrNotFound
	}
	s := m.summary(p)
	return &s, nil
}

func (m *MockPostRepository) ListSummaries(ctx context.Context, filter postRepo.BoardFilter) ([]entity.PostSummary, error) {
	if err := m.failure("ListSummaries"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	posts := make([]entity.Post, 0, len(m.posts))
	for _, p := range m.posts {
		posts = append(posts, p)
	}
	m.mu.Unlock()

	var allowed map[uuid.UUID]bool
	if filter.IDs != nil {
		allowed = make(map[uuid.UUID]bool)
		for _, id := range filter.IDs {
			allowed[id] = true
		}
	}

	out := []entity.PostSummary{}
	for _, p := range posts {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if allowed != nil && !allowed[p.ID] {
			continue
		}
		if allowed == nil && filter.Search != "" &&
			!strings.Contains(p.Title, filter.Search) && !strings.Contains(p.Content, filter.Search) {
			continue
		}
		out = append(out, m.summary(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MockPostRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := m.failure("Exists"); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.posts[id]
	return ok, nil
}

func (m *MockPostRepository) Delete(ctx context.Context, id uuid.UUID, keepAttachments bool) error {
	if err := m.failure("Delete"); err != nil {
		return err
	}
	m.mu.Lock()
	_, ok := m.posts[id]
	delete(m.posts, id)
	m.mu.Unlock()
	if !ok {
		return apperror.ErrNotFound
	}

	if m.Attachments != nil && !keepAttachments {
		m.Attachments.DeleteByPost(id)
	}
	if m.Comments != nil {
		m.Comments.DeleteByPost(id)
	}
	if m.Reactions != nil {
		m.Reactions.DeleteByPost(id)
	}
	return nil
}
