package dto

import "io"

// UploadFile is a file received from a multipart form, opened for reading.
type UploadFile struct {
	Reader   io.Reader
	FileName string
	MimeType string
	Size     int64
}

// SectionError names a part of a composite view that failed to load.
type SectionError struct {
	Section string `json:"section"`
	Error   string `json:"error"`
}
