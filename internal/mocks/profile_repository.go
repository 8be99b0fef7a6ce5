package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"

	"anoa.com/kgscp/internal/entity"
	profileRepo "anoa.com/kgscp/internal/modules/profile/repository"
	"anoa.com/kgscp/pkg/apperror"
	"github.com/google/uuid"
)

type MockProfileRepository struct {
	Failures
	mu       sync.Mutex
	profiles map[uuid.UUID]entity.Profile
}

func NewMockProfileRepository(profiles ...entity.Profile) *MockProfileRepository {
	m := &MockProfileRepository{profiles: make(map[uuid.UUID]entity.Profile)}
	for _, p := range profiles {
		m.profiles[p.ID] = p
	}
	return m
}

func (m *MockProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	if err := m.failure("FindByID"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return &p, nil
}

func (m *MockProfileRepository) Ensure(ctx context.Context, fallback *entity.Profile) (*entity.Profile, error) {
	if err := m.failure("Ensure"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	if _, ok := m.profiles[fallback.ID]; !ok {
		m.profiles[fallback.ID] = *fallback
	}
	m.mu.Unlock()
	return m.FindByID(ctx, fallback.ID)
}

func (m *MockProfileRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if err := m.failure("Update"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return apperror.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "name":
			p.Name = v.(string)
		case "username":
			p.Username = v.(*string)
		case "grade":
			p.Grade = v.(*int)
		case "class_number":
			p.ClassNumber = v.(*int)
		case "bio":
			p.Bio = v.(*string)
		case "mbti":
			p.MBTI = v.(*string)
		case "toefl":
			p.TOEFL = v.(*string)
		case "sat":
			p.SAT = v.(*string)
		case "ap":
			p.AP = v.(*string)
		case "other_scores":
			p.OtherScores = v.(*string)
		case "gpa":
			p.GPA = v.(*string)
		case "best_subject":
			p.BestSubject = v.(*string)
		case "interests":
			p.Interests = entity.Interests(append([]string(nil), v.([]string)...))
		}
	}
	m.profiles[id] = p
	return nil
}

func (m *MockProfileRepository) UpdateInterests(ctx context.Context, id uuid.UUID, interests []string) error {
	return m.Update(ctx, id, map[string]interface{}{"interests": interests})
}

func (m *MockProfileRepository) List(ctx context.Context, filter profileRepo.ProfileFilter) ([]entity.Profile, error) {
	if err := m.failure("List"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []entity.Profile{}
	for _, p := range m.profiles {
		if filter.Grade != nil && (p.Grade == nil || *p.Grade != *filter.Grade) {
			continue
		}
		if filter.ExcludeID != nil && p.ID == *filter.ExcludeID {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MockProfileRepository) ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if err := m.failure("ExistingIDs"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	found := []uuid.UUID{}
	for _, id := range ids {
		if _, ok := m.profiles[id]; ok {
			found = append(found, id)
		}
	}
	return found, nil
}
