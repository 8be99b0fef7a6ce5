package dto

import (
	"time"

	"github.com/google/uuid"
)

// AnonymousName is shown in place of the author of an anonymous post or comment.
const AnonymousName = "익명"

type CreateCommentRequest struct {
	Content         string     `json:"content" binding:"required,max=2000"`
	ParentCommentID *uuid.UUID `json:"parent_comment_id"`
	IsAnonymous     bool       `json:"is_anonymous"`
}

type CommentResponse struct {
	ID              uuid.UUID         `json:"id"`
	ParentCommentID *uuid.UUID        `json:"parent_comment_id"`
	AuthorID        *uuid.UUID        `json:"author_id"`
	AuthorName      string            `json:"author_name"`
	Content         string            `json:"content"`
	IsAnonymous     bool              `json:"is_anonymous"`
	CreatedAt       time.Time         `json:"created_at"`
	CanDelete       bool              `json:"can_delete"`
	Children        []CommentResponse `json:"children"`
}
