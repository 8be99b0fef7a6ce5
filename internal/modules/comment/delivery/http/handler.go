package handler

import (
	"context"
	"net/http"

	"anoa.com/kgscp/internal/middleware"
	commentDto "anoa.com/kgscp/internal/modules/comment/dto"
	comment "anoa.com/kgscp/internal/modules/comment/service"
	view "anoa.com/kgscp/internal/modules/view/service"
	"anoa.com/kgscp/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CommentHandler struct {
	commentService comment.CommentService
	views          view.ViewService
}

func NewCommentHandler(commentService comment.CommentService, views view.ViewService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		views:          views,
	}
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
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

	var req commentDto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	page, err := h.views.PostPage(c.Request.Context(), viewer, postID, func(ctx context.Context) error {
		_, err := h.commentService.CreateComment(ctx, viewer.ID, postID, req)
		return err
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": page})
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	viewer, err := middleware.CurrentProfile(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	commentID, err := response.ParseIDParam(c, "comment_id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	page, err := h.views.PostPageAfter(c.Request.Context(), viewer, func(ctx context.Context) (uuid.UUID, error) {
		return h.commentService.DeleteComment(ctx, viewer.ID, commentID)
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": page})
}
