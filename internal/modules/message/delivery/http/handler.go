package handler

import (
	"context"
	"net/http"

	"anoa.com/kgscp/internal/entity"
	"anoa.com/kgscp/internal/middleware"
	messageDto "anoa.com/kgscp/internal/modules/message/dto"
	message "anoa.com/kgscp/internal/modules/message/service"
	view "anoa.com/kgscp/internal/modules/view/service"
	"anoa.com/kgscp/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MessageHandler struct {
	messageService message.MessageService
	views          view.ViewService
}

func NewMessageHandler(messageService message.MessageService, views view.ViewService) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		views:          views,
	}
}

func (h *MessageHandler) inbox(c *gin.Context, status int, viewer *entity.Profile, partner *uuid.UUID, m view.Mutation) {
	inbox, err := h.views.Inbox(c.Request.Context(), viewer, partner, m)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(status, gin.H{"data": inbox})
}

func (h *MessageHandler) GetInbox(c *gin.Context) {
	viewer, err := middleware.CurrentProfile(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var filter messageDto.InboxFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BindError(c, err)
		return
	}

	var partner *uuid.UUID
	if filter.Partner != "" {
		id := uuid.MustParse(filter.Partner)
		partner = &id
	}

	h.inbox(c, http.StatusOK, viewer, partner, nil)
}

func (h *MessageHandler) SendRequest(c *gin.Context) {
	viewer, err := middleware.CurrentProfile(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req messageDto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	h.inbox(c, http.StatusCreated, viewer, nil, func(ctx context.Context) error {
		_, err := h.messageService.SendRequest(ctx, viewer.ID, req)
		return err
	})
}

// Accept responds with the inbox opened on the conversation with the sender.
func (h *MessageHandler) Accept(c *gin.Context) {
	viewer, err := middleware.CurrentProfile(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	messageID, err := response.ParseIDParam(c, "message_id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	partner := new(uuid.UUID)
	h.inbox(c, http.StatusOK, viewer, partner, func(ctx context.Context) error {
		sender, err := h.messageService.Accept(ctx, viewer.ID, messageID)
		*partner = sender
		return err
	})
}

func (h *MessageHandler) Reject(c *gin.Context) {
	viewer, err := middleware.CurrentProfile(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	messageID, err := response.ParseIDParam(c, "message_id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req messageDto.RejectMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	h.inbox(c, http.StatusOK, viewer, nil, func(ctx context.Context) error {
		return h.messageService.Reject(ctx, viewer.ID, messageID, req.Confirm)
	})
}

func (h *MessageHandler) Hold(c *gin.Context) {
	viewer, err := middleware.CurrentProfile(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	messageID, err := response.ParseIDParam(c, "message_id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	h.inbox(c, http.StatusOK, viewer, nil, func(ctx context.Context) error {
		return h.messageService.Hold(ctx, viewer.ID, messageID)
	})
}

func (h *MessageHandler) SendChat(c *gin.Context) {
	viewer, err := middleware.CurrentProfile(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	partnerID, err := response.ParseIDParam(c, "partner_id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req messageDto.SendChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	h.inbox(c, http.StatusCreated, viewer, &partnerID, func(ctx context.Context) error {
		_, err := h.messageService.SendChat(ctx, viewer.ID, partnerID, req.Content)
		return err
	})
}
