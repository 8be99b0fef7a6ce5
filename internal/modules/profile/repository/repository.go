package repository

import (
	"context"
	"errors"

	"anoa.com/kgscp/internal/entity"
	"anoa.com/kgscp/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileFilter struct {
	Grade     *int
	Search    string
	ExcludeID *uuid.UUID
}

type ProfileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error)
	// Ensure inserts the fallback profile unless one already exists and returns the stored row.
	Ensure(ctx context.Context, fallback *entity.Profile) (*entity.Profile, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	UpdateInterests(ctx context.Context, id uuid.UUID, interests []string) error
	List(ctx context.Context, filter ProfileFilter) ([]entity.Profile, error)
	// ExistingIDs returns the subset of ids that have a profile.
	ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	var profile entity.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Ensure(ctx context.Context, fallback *entity.Profile) (*entity.Profile, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(fallback).Error
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, fallback.ID)
}

func (r *profileRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&entity.Profile{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return apperror.Invalid("username already taken")
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

func (r *profileRepository) UpdateInterests(ctx context.Context, id uuid.UUID, interests []string) error {
	return r.Update(ctx, id, map[string]interface{}{"interests": entity.Interests(interests)})
}

func (r *profileRepository) List(ctx context.Context, filter ProfileFilter) ([]entity.Profile, error) {
	var profiles []entity.Profile

	query := r.db.WithContext(ctx).Model(&entity.Profile{})
	if filter.Grade != nil {
		query = query.Where("grade = ?", *filter.Grade)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR username ILIKE ?", like, like)
	}
	if filter.ExcludeID != nil {
		query = query.Where("id <> ?", *filter.ExcludeID)
	}

	if err := query.Order("name ASC").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *profileRepository) ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	found := []uuid.UUID{}
	if len(ids) == 0 {
		return found, nil
	}
	err := r.db.WithContext(ctx).
		Model(&entity.Profile{}).
		Where("id IN ?", ids).
		Pluck("id", &found).Error
	return found, err
}
