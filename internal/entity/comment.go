package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Comment struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	PostID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"post_id"`
	ParentCommentID *uuid.UUID `gorm:"type:uuid" json:"parent_comment_id"`
	AuthorID        uuid.UUID  `gorm:"type:uuid;not null" json:"author_id"`
	Content         string     `gorm:"type:text;not null" json:"content"`
	IsAnonymous     bool       `gorm:"not null;default:false" json:"is_anonymous"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`

	// joined from profiles.name on read
	AuthorName string `gorm:"->;-:migration" json:"author_name"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}
