package handler

import (
	"net/http"

	attachment "anoa.com/kgscp/internal/modules/attachment/service"
	"anoa.com/kgscp/pkg/response"
	"github.com/gin-gonic/gin"
)

type AttachmentHandler struct {
	service attachment.AttachmentService
}

func NewAttachmentHandler(service attachment.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{service: service}
}

func (h *AttachmentHandler) ListPostAttachments(c *gin.Context) {
	postID, err := response.ParseIDParam(c, "post_id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	attachments, err := h.service.ListForPost(c.Request.Context(), postID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": attachments})
}

// CleanupOrphans runs the orphan attachment sweep on demand.
func (h *AttachmentHandler) CleanupOrphans(c *gin.Context) {
	if err := h.service.CleanupOrphanAttachments(c.Request.Context()); err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "orphan cleanup completed"})
}
