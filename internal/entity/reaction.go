package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	ReactionLike    = "like"
	ReactionDislike = "dislike"
)

// Reaction is keyed by (post_id, user_id); a user has at most one reaction per post.
type Reaction struct {
	PostID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"post_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Reaction  string    `gorm:"size:10;not null" json:"reaction"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r *Reaction) TableName() string {
	return "reactions"
}
