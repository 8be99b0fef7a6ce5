package repository

import (
	"context"

	"anoa.com/kgscp/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReactionRepository interface {
	// FindOne returns nil without error when the user has no reaction on the post.
	FindOne(ctx context.Context, postID, userID uuid.UUID) (*entity.Reaction, error)
	Insert(ctx context.Context, reaction *entity.Reaction) error
	// Upsert writes the reaction, replacing any existing row for (post_id, user_id).
	Upsert(ctx context.Context, reaction *entity.Reaction) error
	Delete(ctx context.Context, postID, userID uuid.UUID) error
	CountByPost(ctx context.Context, postID uuid.UUID) (map[string]int64, error)
}

type reactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

func (r *reactionRepository) FindOne(ctx context.Context, postID, userID uuid.UUID) (*entity.Reaction, error) {
	// Use Find with slice to avoid "record not found" log noise from GORM's First()
	var existing []entity.Reaction
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Limit(1).
		Find(&existing).Error
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		return nil, nil
	}
	return &existing[0], nil
}

func (r *reactionRepository) Insert(ctx context.Context, reaction *entity.Reaction) error {
	return r.db.WithContext(ctx).Create(reaction).Error
}

func (r *reactionRepository) Upsert(ctx context.Context, reaction *entity.Reaction) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"reaction", "updated_at"}),
		}).
		Create(reaction).Error
}

func (r *reactionRepository) Delete(ctx context.Context, postID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&entity.Reaction{}).Error
}

func (r *reactionRepository) CountByPost(ctx context.Context, postID uuid.UUID) (map[string]int64, error) {
	type Result struct {
		Reaction string
		Count    int64
	}
	var results []Result

	err := r.db.WithContext(ctx).
		Model(&entity.Reaction{}).
		Select("reaction, count(*) as count").
		Where("post_id = ?", postID).
		Group("reaction").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64)
	for _, res := range results {
		counts[res.Reaction] = res.Count
	}
	return counts, nil
}
