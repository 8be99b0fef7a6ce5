package repository

import (
	"context"

	"anoa.com/kgscp/internal/entity"
	"anoa.com/kgscp/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error)
	// FindByPostID returns the post's comments oldest first with author names joined.
	FindByPostID(ctx context.Context, postID uuid.UUID) ([]entity.Comment, error)
	// Delete removes one comment. Replies are left in place.
	Delete(ctx context.Context, id uuid.UUID) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error) {
	// Find with Limit avoids gorm's record-not-found log line
	var rows []entity.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperror.ErrNotFound
	}
	return &rows[0], nil
}

func (r *commentRepository) FindByPostID(ctx context.Context, postID uuid.UUID) ([]entity.Comment, error) {
	comments := []entity.Comment{}
	err := r.db.WithContext(ctx).
		Table("comments").
		Select("comments.*, COALESCE(profiles.name, '') AS author_name").
		Joins("LEFT JOIN profiles ON profiles.id = comments.author_id").
		Where("comments.post_id = ?", postID).
		Order("comments.created_at ASC").
		Scan(&comments).Error
	return comments, err
}

func (r *commentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Comment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.ErrNotFound
	}
	return nil
}
