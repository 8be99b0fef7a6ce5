package profile

import (
	"context"
	"strings"
	"unicode/utf8"

	"anoa.com/kgscp/internal/entity"
	profileDto "anoa.com/kgscp/internal/modules/profile/dto"
	profileRepo "anoa.com/kgscp/internal/modules/profile/repository"
	"anoa.com/kgscp/pkg/apperror"
	"github.com/google/uuid"
)

type ProfileService interface {
	UpdateProfile(ctx context.Context, userID uuid.UUID, input profileDto.UpdateProfileInput) error
	AddInterest(ctx context.Context, userID uuid.UUID, interest string) error
	RemoveInterest(ctx context.Context, userID uuid.UUID, interest string) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error)
	// Directory lists every other student ordered by name.
	Directory(ctx context.Context, viewer uuid.UUID, filter profileDto.DirectoryFilter) ([]entity.Profile, error)
}

type profileService struct {
	repo profileRepo.ProfileRepository
}

func NewProfileService(repo profileRepo.ProfileRepository) ProfileService {
	return &profileService{repo: repo}
}

func (s *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input profileDto.UpdateProfileInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return apperror.Invalid("name is required")
	}

	var username *string
	if input.Username != nil {
		sanitized := strings.ReplaceAll(strings.TrimSpace(*input.Username), " ", "_")
		if sanitized != "" {
			if utf8.RuneCountInString(sanitized) < 3 {
				return apperror.Invalid("username must be at least 3 characters")
			}
			username = &sanitized
		}
	}

	var mbti *string
	if v := normalizeOptional(input.MBTI); v != nil {
		upper := strings.ToUpper(*v)
		mbti = &upper
	}

	fields := map[string]interface{}{
		"name":         name,
		"username":     username,
		"grade":        input.Grade,
		"class_number": input.ClassNumber,
		"bio":          normalizeOptional(input.Bio),
		"mbti":         mbti,
		"toefl":        normalizeOptional(input.TOEFL),
		"sat":          normalizeOptional(input.SAT),
		"ap":           normalizeOptional(input.AP),
		"other_scores": normalizeOptional(input.OtherScores),
		"gpa":          normalizeOptional(input.GPA),
		"best_subject": normalizeOptional(input.BestSubject),
	}
	return s.repo.Update(ctx, userID, fields)
}

func (s *profileService) AddInterest(ctx context.Context, userID uuid.UUID, interest string) error {
	interest = strings.TrimSpace(interest)
	if interest == "" {
		return apperror.Invalid("interest is required")
	}

	profile, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	for _, existing := range profile.Interests {
		if existing == interest {
			return nil
		}
	}

	interests := append([]string(nil), profile.Interests...)
	return s.repo.UpdateInterests(ctx, userID, append(interests, interest))
}

func (s *profileService) RemoveInterest(ctx context.Context, userID uuid.UUID, interest string) error {
	profile, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	kept := make([]string, 0, len(profile.Interests))
	for _, existing := range profile.Interests {
		if existing != interest {
			kept = append(kept, existing)
		}
	}
	if len(kept) == len(profile.Interests) {
		return nil
	}
	return s.repo.UpdateInterests(ctx, userID, kept)
}

func (s *profileService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *profileService) Directory(ctx context.Context, viewer uuid.UUID, filter profileDto.DirectoryFilter) ([]entity.Profile, error) {
	return s.repo.List(ctx, profileRepo.ProfileFilter{
		Grade:     filter.Grade,
		Search:    strings.TrimSpace(filter.Search),
		ExcludeID: &viewer,
	})
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}

	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}

	result := trimmed
	return &result
}
