package repository

import (
	"context"

	"anoa.com/kgscp/internal/entity"
	"anoa.com/kgscp/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	// CreateBatch inserts all messages in a single statement.
	CreateBatch(ctx context.Context, messages []entity.Message) error
	FindForReceiver(ctx context.Context, id, receiverID uuid.UUID) (*entity.Message, error)
	// UpdateStatus moves a message from one status to another and reports how many rows
	// matched id, receiver and the expected current status.
	UpdateStatus(ctx context.Context, id, receiverID uuid.UUID, from, to string) (int64, error)
	// ListForUser returns every message the user sent or received, newest first.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]entity.Message, error)
	HasAcceptedBetween(ctx context.Context, a, b uuid.UUID) (bool, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *entity.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *messageRepository) CreateBatch(ctx context.Context, messages []entity.Message) error {
	if len(messages) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&messages).Error
}

func (r *messageRepository) FindForReceiver(ctx context.Context, id, receiverID uuid.UUID) (*entity.Message, error) {
	var rows []entity.Message
	err := r.db.WithContext(ctx).
		Where("id = ? AND receiver_id = ?", id, receiverID).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperror.ErrNotFound
	}
	return &rows[0], nil
}

func (r *messageRepository) UpdateStatus(ctx context.Context, id, receiverID uuid.UUID, from, to string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.Message{}).
		Where("id = ? AND receiver_id = ? AND status = ?", id, receiverID, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}

func (r *messageRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]entity.Message, error) {
	messages := []entity.Message{}
	err := r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&messages).Error
	return messages, err
}

func (r *messageRepository) HasAcceptedBetween(ctx context.Context, a, b uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Message{}).
		Where("status = ?", "accepted").
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Count(&count).Error
	return count > 0, err
}
