package dto

import "github.com/google/uuid"

type AttachmentResponse struct {
	ID        uuid.UUID `json:"id"`
	FileName  *string   `json:"file_name"`
	MimeType  *string   `json:"mime_type"`
	SizeBytes *int64    `json:"size_bytes"`
	SortOrder int       `json:"sort_order"`
	PublicURL string    `json:"public_url"`
}
