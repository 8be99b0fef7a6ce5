package message

import (
	"context"
	"fmt"
	"strings"
	"time"

	"anoa.com/kgscp/internal/entity"
	messageDto "anoa.com/kgscp/internal/modules/message/dto"
	messageRepo "anoa.com/kgscp/internal/modules/message/repository"
	profileRepo "anoa.com/kgscp/internal/modules/profile/repository"
	"anoa.com/kgscp/pkg/apperror"
	"anoa.com/kgscp/pkg/ratelimiter"
	"anoa.com/kgscp/pkg/sanitize"
	"github.com/google/uuid"
)

const rateLimitAction = "message"

type MessageService interface {
	// SendRequest writes one pending message per distinct receiver.
	SendRequest(ctx context.Context, senderID uuid.UUID, req messageDto.SendMessageRequest) ([]entity.Message, error)
	// Accept returns the sender, who becomes a chat partner of the receiver.
	Accept(ctx context.Context, receiverID, messageID uuid.UUID) (uuid.UUID, error)
	Reject(ctx context.Context, receiverID, messageID uuid.UUID, confirmed bool) error
	Hold(ctx context.Context, receiverID, messageID uuid.UUID) error
	SendChat(ctx context.Context, senderID, partnerID uuid.UUID, content string) (*entity.Message, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]entity.Message, error)
}

type messageService struct {
	repo        messageRepo.MessageRepository
	profileRepo profileRepo.ProfileRepository
	limiter     ratelimiter.Limiter
	cooldown    time.Duration
}

func NewMessageService(repo messageRepo.MessageRepository, profileRepo profileRepo.ProfileRepository, limiter ratelimiter.Limiter, cooldown time.Duration) MessageService {
	return &messageService{
		repo:        repo,
		profileRepo: profileRepo,
		limiter:     limiter,
		cooldown:    cooldown,
	}
}

func (s *messageService) SendRequest(ctx context.Context, senderID uuid.UUID, req messageDto.SendMessageRequest) ([]entity.Message, error) {
	content := sanitize.Content(req.Content)
	if content == "" {
		return nil, apperror.Invalid("content is required")
	}
	msgType := strings.TrimSpace(req.Type)
	if !entity.IsRequestType(msgType) {
		return nil, apperror.Invalid(fmt.Sprintf("type must be one of %s", strings.Join(entity.RequestTypes, ", ")))
	}

	receivers := make([]uuid.UUID, 0, len(req.ReceiverIDs))
	seen := make(map[uuid.UUID]bool)
	for _, id := range req.ReceiverIDs {
		if id == senderID {
			return nil, apperror.Invalid("you cannot send a message to yourself")
		}
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		receivers = append(receivers, id)
	}
	if len(receivers) == 0 {
		return nil, apperror.Invalid("at least one receiver is required")
	}

	existing, err := s.profileRepo.ExistingIDs(ctx, receivers)
	if err != nil {
		return nil, err
	}
	if len(existing) != len(receivers) {
		return nil, apperror.Invalid("some receivers do not exist")
	}

	if err := s.limiter.Acquire(ctx, senderID, rateLimitAction, s.cooldown); err != nil {
		return nil, err
	}

	messages := make([]entity.Message, 0, len(receivers))
	for _, receiverID := range receivers {
		messages = append(messages, entity.Message{
			SenderID:   senderID,
			ReceiverID: receiverID,
			Type:       msgType,
			Content:    content,
			Status:     string(StatusPending),
		})
	}

	if err := s.repo.CreateBatch(ctx, messages); err != nil {
		s.limiter.Release(ctx, senderID, rateLimitAction)
		return nil, err
	}
	return messages, nil
}

// transition applies action to a message addressed to receiverID. The update is filtered
// on the status that was read, so a concurrent change surfaces as an invalid transition.
func (s *messageService) transition(ctx context.Context, receiverID, messageID uuid.UUID, action Action) (*entity.Message, error) {
	message, err := s.repo.FindForReceiver(ctx, messageID, receiverID)
	if err != nil {
		return nil, err
	}

	from := NormalizeStatus(message.Status)
	to, err := Transition(from, action)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.UpdateStatus(ctx, messageID, receiverID, message.Status, string(to))
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: message changed while it was being updated", apperror.ErrInvalidTransition)
	}

	message.Status = string(to)
	return message, nil
}

func (s *messageService) Accept(ctx context.Context, receiverID, messageID uuid.UUID) (uuid.UUID, error) {
	message, err := s.transition(ctx, receiverID, messageID, ActionAccept)
	if err != nil {
		return uuid.Nil, err
	}
	return message.SenderID, nil
}

func (s *messageService) Reject(ctx context.Context, receiverID, messageID uuid.UUID, confirmed bool) error {
	if !confirmed {
		return apperror.Invalid("rejecting a message must be confirmed")
	}
	_, err := s.transition(ctx, receiverID, messageID, ActionReject)
	return err
}

func (s *messageService) Hold(ctx context.Context, receiverID, messageID uuid.UUID) error {
	_, err := s.transition(ctx, receiverID, messageID, ActionHold)
	return err
}

func (s *messageService) SendChat(ctx context.Context, senderID, partnerID uuid.UUID, content string) (*entity.Message, error) {
	content = sanitize.Content(content)
	if content == "" {
		return nil, apperror.Invalid("content is required")
	}
	if partnerID == senderID {
		return nil, apperror.Invalid("you cannot chat with yourself")
	}

	ok, err := s.repo.HasAcceptedBetween(ctx, senderID, partnerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.Forbidden("chat opens after a message request is accepted")
	}

	message := &entity.Message{
		SenderID:   senderID,
		ReceiverID: partnerID,
		Type:       entity.MessageTypeChat,
		Content:    content,
		Status:     string(StatusAccepted),
	}
	if err := s.repo.Create(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

func (s *messageService) ListForUser(ctx context.Context, userID uuid.UUID) ([]entity.Message, error) {
	messages, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Normalize(messages), nil
}
