package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Attachment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;index" json:"post_id"`
	Bucket    string    `gorm:"size:100;not null" json:"bucket"`
	FilePath  string    `gorm:"type:text;not null" json:"file_path"`
	FileName  *string   `gorm:"size:255" json:"file_name"`
	MimeType  *string   `gorm:"size:100" json:"mime_type"`
	SizeBytes *int64    `json:"size_bytes"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	PublicURL string `gorm:"-" json:"public_url"`
}

func (Attachment) TableName() string {
	return "post_attachments"
}

func (a *Attachment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID, err = uuid.NewV7()
	}
	return
}
