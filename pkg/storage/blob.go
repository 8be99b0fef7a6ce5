package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// BlobStore stores attachment files under bucket/path keys.
type BlobStore interface {
	// Upload stores r at bucket/path and returns the stored path.
	Upload(ctx context.Context, bucket, filePath string, r io.Reader, contentType string) (string, error)
	// Remove deletes every path in bucket. Missing objects are not an error.
	Remove(ctx context.Context, bucket string, paths []string) error
	// PublicURL derives the public address of bucket/path without a network call.
	PublicURL(bucket, filePath string) string
}

type cloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryStore creates a Cloudinary-backed BlobStore. Buckets map to folders and
// paths map to public ids. Credentials come from CLOUDINARY_URL.
func NewCloudinaryStore(cloudName string) (BlobStore, error) {
	cld, err := cloudinary.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}

	cld.Config.URL.Secure = true
	if cloudName != "" {
		cld.Config.Cloud.CloudName = cloudName
	}

	return &cloudinaryStore{cld: cld}, nil
}

func (s *cloudinaryStore) Upload(ctx context.Context, bucket, filePath string, r io.Reader, contentType string) (string, error) {
	params := uploader.UploadParams{
		PublicID:       publicID(bucket, filePath),
		Overwrite:      api.Bool(true),
		UniqueFilename: api.Bool(false),
	}

	if strings.HasPrefix(contentType, "image/") {
		params.Transformation = "q_auto"
	}

	resp, err := s.cld.Upload.Upload(ctx, r, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to cloudinary: %w", filePath, err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload rejected %s: %s", filePath, resp.Error.Message)
	}

	return filePath, nil
}

func (s *cloudinaryStore) Remove(ctx context.Context, bucket string, paths []string) error {
	var errs []error
	for _, p := range paths {
		resp, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
			PublicID:   publicID(bucket, p),
			Invalidate: api.Bool(true),
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to delete %s: %w", p, err))
			continue
		}
		if resp.Result != "ok" && resp.Result != "not found" {
			errs = append(errs, fmt.Errorf("cloudinary destroy %s returned result: %s", p, resp.Result))
		}
	}
	return errors.Join(errs...)
}

func (s *cloudinaryStore) PublicURL(bucket, filePath string) string {
	asset, err := s.cld.Image(publicID(bucket, filePath))
	if err != nil {
		return ""
	}
	u, err := asset.String()
	if err != nil {
		return ""
	}
	return u
}

// publicID joins bucket and path and strips the file extension, which Cloudinary
// keeps as the delivery format instead of the id.
func publicID(bucket, filePath string) string {
	id := path.Join(bucket, filePath)
	return strings.TrimSuffix(id, path.Ext(id))
}
