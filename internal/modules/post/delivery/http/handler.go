package handler

import (
	"context"
	"mime/multipart"
	"net/http"

	"anoa.com/kgscp/internal/middleware"
	postDto "anoa.com/kgscp/internal/modules/post/dto"
	post "anoa.com/kgscp/internal/modules/post/service"
	view "anoa.com/kgscp/internal/modules/view/service"
	"anoa.com/kgscp/pkg/apperror"
	"anoa.com/kgscp/pkg/dto"
	"anoa.com/kgscp/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PostHandler struct {
	postService post.PostService
	views       view.ViewService
}

func NewPostHandler(postService post.PostService, views view.ViewService) *PostHandler {
	return &PostHandler{
		postService: postService,
		views:       views,
	}
}

func (h *PostHandler) GetBoard(c *gin.Context) {
	viewer, err := middleware.CurrentProfile(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var filter postDto.BoardFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BindError(c, err)
		return
	}

	board, err := h.views.Board(c.Request.Context(), viewer, filter, nil)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": board})
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	viewer, err := middleware.CurrentProfile(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req postDto.CreatePostRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BindError(c, err)
		return
	}

	var headers []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil && form != nil {
		headers = form.File["files"]
	}
	if len(headers) > post.MaxAttachments {
		response.ResponseError(c, apperror.Invalid("too many attachments"))
		return
	}

	files := make([]dto.UploadFile, 0, len(headers))
	for _, fh := range headers {
		file, err := fh.Open()
		if err != nil {
			response.ResponseError(c, apperror.Invalid("failed to read "+fh.Filename))
			return
		}
		defer file.Close()

		files = append(files, dto.UploadFile{
			Reader:   file,
			FileName: fh.Filename,
			MimeType: fh.Header.Get("Content-Type"),
			Size:     fh.Size,
		})
	}

	page, err := h.views.PostPageAfter(c.Request.Context(), viewer, func(ctx context.Context) (uuid.UUID, error) {
		created, err := h.postService.CreatePost(ctx, viewer.ID, req, files)
		if err != nil {
			return uuid.Nil, err
		}
		return created.ID, nil
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": page})
}

func (h *PostHandler) GetPostPage(c *gin.Context) {
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

	page, err := h.views.PostPage(c.Request.Context(), viewer, postID, nil)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": page})
}

// DeletePost responds with the board the post was listed on.
func (h *PostHandler) DeletePost(c *gin.Context) {
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

	var filter postDto.BoardFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BindError(c, err)
		return
	}

	board, err := h.views.Board(c.Request.Context(), viewer, filter, func(ctx context.Context) error {
		return h.postService.DeletePost(ctx, viewer.ID, postID)
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": board})
}
