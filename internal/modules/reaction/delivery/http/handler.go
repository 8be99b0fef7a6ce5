package handler

import (
	"context"
	"net/http"

	"anoa.com/kgscp/internal/middleware"
	reactionDto "anoa.com/kgscp/internal/modules/reaction/dto"
	reaction "anoa.com/kgscp/internal/modules/reaction/service"
	view "anoa.com/kgscp/internal/modules/view/service"
	"anoa.com/kgscp/pkg/response"
	"github.com/gin-gonic/gin"
)

type ReactionHandler struct {
	reactionService reaction.ReactionService
	views           view.ViewService
}

func NewReactionHandler(reactionService reaction.ReactionService, views view.ViewService) *ReactionHandler {
	return &ReactionHandler{
		reactionService: reactionService,
		views:           views,
	}
}

func (h *ReactionHandler) ToggleReaction(c *gin.Context) {
	viewer, err := middleware.CurrentProfile(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	postID, err := response.ParseIDParam(c, "post_id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req reactionDto.ReactionToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	page, err := h.views.PostPage(c.Request.Context(), viewer, postID, func(ctx context.Context) error {
		_, err := h.reactionService.ToggleReaction(ctx, viewer.ID, postID, req.Reaction)
		return err
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": page})
}
