package dto

import "github.com/google/uuid"

type SendMessageRequest struct {
	ReceiverIDs []uuid.UUID `json:"receiver_ids" binding:"required,min=1"`
	Type        string      `json:"type" binding:"required"`
	Content     string      `json:"content" binding:"required,max=2000"`
}

type RejectMessageRequest struct {
	Confirm bool `json:"confirm"`
}

type SendChatRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

type InboxFilter struct {
	Partner string `form:"partner" binding:"omitempty,uuid"`
}
