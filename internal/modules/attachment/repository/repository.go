package repository

import (
	"context"
	"time"

	"anoa.com/kgscp/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttachmentRepository interface {
	FindByPostID(ctx context.Context, postID uuid.UUID) ([]entity.Attachment, error)
	// FindOrphans returns rows older than cutoff whose post no longer exists.
	FindOrphans(ctx context.Context, cutoffTime time.Time) ([]entity.Attachment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type attachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

func (r *attachmentRepository) FindByPostID(ctx context.Context, postID uuid.UUID) ([]entity.Attachment, error) {
	attachments := []entity.Attachment{}
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("sort_order ASC").
		Find(&attachments).Error
	return attachments, err
}

func (r *attachmentRepository) FindOrphans(ctx context.Context, cutoffTime time.Time) ([]entity.Attachment, error) {
	var attachments []entity.Attachment
	err := r.db.WithContext(ctx).
		Where("created_at < ?", cutoffTime).
		Where("NOT EXISTS (SELECT 1 FROM posts p WHERE p.id = post_attachments.post_id)").
		Find(&attachments).Error
	return attachments, err
}

func (r *attachmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Attachment{}).Error
}
