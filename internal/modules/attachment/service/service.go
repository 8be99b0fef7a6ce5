package attachment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"anoa.com/kgscp/internal/entity"
	attachmentDto "anoa.com/kgscp/internal/modules/attachment/dto"
	attachmentRepo "anoa.com/kgscp/internal/modules/attachment/repository"
	"anoa.com/kgscp/pkg/logger"
	"anoa.com/kgscp/pkg/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// orphans younger than this may belong to a post whose transaction is still running
const orphanGracePeriod = 24 * time.Hour

type AttachmentService interface {
	ListForPost(ctx context.Context, postID uuid.UUID) ([]attachmentDto.AttachmentResponse, error)
	// RemoveBlobs deletes the stored files of attachments, one call per bucket.
	RemoveBlobs(ctx context.Context, attachments []entity.Attachment) error
	CleanupOrphanAttachments(ctx context.Context) error
}

type attachmentService struct {
	attachmentRepo attachmentRepo.AttachmentRepository
	blobStore      storage.BlobStore
}

func NewAttachmentService(attachmentRepo attachmentRepo.AttachmentRepository, blobStore storage.BlobStore) AttachmentService {
	return &attachmentService{
		attachmentRepo: attachmentRepo,
		blobStore:      blobStore,
	}
}

func (s *attachmentService) ListForPost(ctx context.Context, postID uuid.UUID) ([]attachmentDto.AttachmentResponse, error) {
	attachments, err := s.attachmentRepo.FindByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}

	resp := make([]attachmentDto.AttachmentResponse, 0, len(attachments))
	for _, a := range attachments {
		resp = append(resp, attachmentDto.AttachmentResponse{
			ID:        a.ID,
			FileName:  a.FileName,
			MimeType:  a.MimeType,
			SizeBytes: a.SizeBytes,
			SortOrder: a.SortOrder,
			PublicURL: s.blobStore.PublicURL(a.Bucket, a.FilePath),
		})
	}
	return resp, nil
}

func (s *attachmentService) RemoveBlobs(ctx context.Context, attachments []entity.Attachment) error {
	byBucket := make(map[string][]string)
	for _, a := range attachments {
		if a.Bucket == "" || a.FilePath == "" {
			continue
		}
		byBucket[a.Bucket] = append(byBucket[a.Bucket], a.FilePath)
	}

	var (
		mu   sync.Mutex
		errs []error
		g    errgroup.Group
	)
	for bucket, paths := range byBucket {
		bucket, paths := bucket, paths
		g.Go(func() error {
			if err := s.blobStore.Remove(ctx, bucket, paths); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("bucket %s: %w", bucket, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

func (s *attachmentService) CleanupOrphanAttachments(ctx context.Context) error {
	cutoff := time.Now().Add(-orphanGracePeriod)

	orphans, err := s.attachmentRepo.FindOrphans(ctx, cutoff)
	if err != nil {
		return err
	}

	for _, orphan := range orphans {
		if err := s.blobStore.Remove(ctx, orphan.Bucket, []string{orphan.FilePath}); err != nil {
			// the row stays so the next run retries the blob
			logger.L.Warn("failed to remove orphan blob",
				zap.String("bucket", orphan.Bucket),
				zap.String("path", orphan.FilePath),
				zap.Error(err),
			)
			continue
		}
		if err := s.attachmentRepo.Delete(ctx, orphan.ID); err != nil {
			logger.L.Warn("failed to delete orphan attachment row", zap.String("id", orphan.ID.String()), zap.Error(err))
		}
	}

	logger.L.Info("orphan attachment cleanup completed", zap.Int("orphans", len(orphans)))
	return nil
}
