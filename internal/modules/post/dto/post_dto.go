package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreatePostRequest struct {
	Category    string `form:"category" binding:"required"`
	Title       string `form:"title" binding:"required,max=200"`
	Content     string `form:"content" binding:"required"`
	IsAnonymous bool   `form:"is_anonymous"`
}

type BoardFilter struct {
	Category string `form:"category"`
	Query    string `form:"q"`
}

type PostResponse struct {
	ID             uuid.UUID  `json:"id"`
	AuthorID       *uuid.UUID `json:"author_id"`
	AuthorName     string     `json:"author_name"`
	AuthorUsername *string    `json:"author_username"`
	Category       string     `json:"category"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	IsAnonymous    bool       `json:"is_anonymous"`
	CreatedAt      time.Time  `json:"created_at"`
	LikesCount     int64      `json:"likes_count"`
	DislikesCount  int64      `json:"dislikes_count"`
	CommentsCount  int64      `json:"comments_count"`
	CanDelete      bool       `json:"can_delete"`
}
