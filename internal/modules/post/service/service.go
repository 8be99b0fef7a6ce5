package post

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"anoa.com/kgscp/internal/entity"
	attachmentRepo "anoa.com/kgscp/internal/modules/attachment/repository"
	attachment "anoa.com/kgscp/internal/modules/attachment/service"
	postDto "anoa.com/kgscp/internal/modules/post/dto"
	postRepo "anoa.com/kgscp/internal/modules/post/repository"
	profileRepo "anoa.com/kgscp/internal/modules/profile/repository"
	search "anoa.com/kgscp/internal/modules/search/service"
	"anoa.com/kgscp/pkg/apperror"
	"anoa.com/kgscp/pkg/dto"
	"anoa.com/kgscp/pkg/logger"
	"anoa.com/kgscp/pkg/ratelimiter"
	"anoa.com/kgscp/pkg/sanitize"
	"anoa.com/kgscp/pkg/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	rateLimitAction  = "post"
	MaxAttachments   = 10
	MaxAttachmentLen = 10 << 20
	searchLimit      = 100
	maxTitleLen      = 200
)

type PostService interface {
	CreatePost(ctx context.Context, userID uuid.UUID, req postDto.CreatePostRequest, files []dto.UploadFile) (*entity.Post, error)
	// DeletePost removes a post owned by userID, or any post for an admin, together with
	// its comments, reactions and attachments.
	DeletePost(ctx context.Context, userID, postID uuid.UUID) error
	GetSummary(ctx context.Context, postID uuid.UUID) (*entity.PostSummary, error)
	ListBoard(ctx context.Context, filter postDto.BoardFilter) ([]entity.PostSummary, error)
}

// CountInvalidator drops cached per-post counters once the post is gone.
type CountInvalidator interface {
	InvalidateCounts(ctx context.Context, postID uuid.UUID)
}

type postService struct {
	repo           postRepo.PostRepository
	attachmentRepo attachmentRepo.AttachmentRepository
	attachmentSvc  attachment.AttachmentService
	profileRepo    profileRepo.ProfileRepository
	blobStore      storage.BlobStore
	searchSvc      search.SearchService
	counts         CountInvalidator
	limiter        ratelimiter.Limiter
	cooldown       time.Duration
	bucket         string
}

func NewPostService(
	repo postRepo.PostRepository,
	attachmentRepo attachmentRepo.AttachmentRepository,
	attachmentSvc attachment.AttachmentService,
	profileRepo profileRepo.ProfileRepository,
	blobStore storage.BlobStore,
	searchSvc search.SearchService,
	counts CountInvalidator,
	limiter ratelimiter.Limiter,
	cooldown time.Duration,
	bucket string,
) PostService {
	return &postService{
		repo:           repo,
		attachmentRepo: attachmentRepo,
		attachmentSvc:  attachmentSvc,
		profileRepo:    profileRepo,
		blobStore:      blobStore,
		searchSvc:      searchSvc,
		counts:         counts,
		limiter:        limiter,
		cooldown:       cooldown,
		bucket:         bucket,
	}
}

func validateFiles(files []dto.UploadFile) error {
	if len(files) > MaxAttachments {
		return apperror.Invalid(fmt.Sprintf("at most %d attachments are allowed", MaxAttachments))
	}
	for _, f := range files {
		if !strings.HasPrefix(f.MimeType, "image/") {
			return apperror.Invalid(fmt.Sprintf("%s is not an image", f.FileName))
		}
		if f.Size > MaxAttachmentLen {
			reason := fmt.Sprintf("%s exceeds 10MB", f.FileName)
			return apperror.New(http.StatusRequestEntityTooLarge, reason, apperror.Invalid(reason))
		}
	}
	return nil
}

func (s *postService) CreatePost(ctx context.Context, userID uuid.UUID, req postDto.CreatePostRequest, files []dto.UploadFile) (*entity.Post, error) {
	if !entity.IsBoardCategory(req.Category) {
		return nil, apperror.Invalid("unknown category")
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperror.Invalid("title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return nil, apperror.Invalid("title is too long")
	}
	content := sanitize.Content(req.Content)
	if content == "" {
		return nil, apperror.Invalid("content is required")
	}
	if err := validateFiles(files); err != nil {
		return nil, err
	}

	if err := s.limiter.Acquire(ctx, userID, rateLimitAction, s.cooldown); err != nil {
		return nil, err
	}

	postID, err := uuid.NewV7()
	if err != nil {
		s.limiter.Release(ctx, userID, rateLimitAction)
		return nil, err
	}
	post := &entity.Post{
		ID:          postID,
		AuthorID:    userID,
		Category:    req.Category,
		Title:       title,
		Content:     content,
		IsAnonymous: req.IsAnonymous,
	}

	attachments, err := s.upload(ctx, postID, files)
	if err == nil {
		err = s.repo.Create(ctx, post, attachments)
	}
	if err != nil {
		s.limiter.Release(ctx, userID, rateLimitAction)
		if rmErr := s.attachmentSvc.RemoveBlobs(ctx, attachments); rmErr != nil {
			logger.L.Warn("failed to remove blobs of a failed post", zap.String("post_id", postID.String()), zap.Error(rmErr))
		}
		return nil, err
	}

	authorName := ""
	if profile, err := s.profileRepo.FindByID(ctx, userID); err == nil {
		authorName = profile.Name
	}
	if err := s.searchSvc.IndexPost(post, authorName); err != nil {
		logger.L.Warn("failed to index post", zap.String("post_id", postID.String()), zap.Error(err))
	}

	return post, nil
}

// upload stores files under the post's folder. On error the returned slice holds the
// attachments uploaded so far.
func (s *postService) upload(ctx context.Context, postID uuid.UUID, files []dto.UploadFile) ([]entity.Attachment, error) {
	attachments := make([]entity.Attachment, 0, len(files))
	for i, f := range files {
		path := objectPath(postID, i, f.FileName)
		if _, err := s.blobStore.Upload(ctx, s.bucket, path, f.Reader, f.MimeType); err != nil {
			return attachments, fmt.Errorf("upload %s: %w", f.FileName, err)
		}
		name, mime, size := f.FileName, f.MimeType, f.Size
		attachments = append(attachments, entity.Attachment{
			PostID:    postID,
			Bucket:    s.bucket,
			FilePath:  path,
			FileName:  &name,
			MimeType:  &mime,
			SizeBytes: &size,
			SortOrder: i,
		})
	}
	return attachments, nil
}

func (s *postService) DeletePost(ctx context.Context, userID, postID uuid.UUID) error {
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return err
	}

	if post.AuthorID != userID {
		profile, err := s.profileRepo.FindByID(ctx, userID)
		if err != nil && !errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		if !profile.IsAdmin() {
			return apperror.Forbidden("you can only delete your own post")
		}
	}

	attachments, err := s.attachmentRepo.FindByPostID(ctx, postID)
	if err != nil {
		return err
	}
	keepAttachments := false
	if err := s.attachmentSvc.RemoveBlobs(ctx, attachments); err != nil {
		// the rows outlive the post so the orphan sweep retries the blobs
		logger.L.Warn("failed to remove post blobs, leaving attachments to orphan cleanup",
			zap.String("post_id", postID.String()), zap.Error(err))
		keepAttachments = true
	}

	if err := s.repo.Delete(ctx, postID, keepAttachments); err != nil {
		return err
	}
	s.counts.InvalidateCounts(ctx, postID)

	if err := s.searchSvc.DeletePost(postID); err != nil {
		logger.L.Warn("failed to remove post from index", zap.String("post_id", postID.String()), zap.Error(err))
	}
	return nil
}

func (s *postService) GetSummary(ctx context.Context, postID uuid.UUID) (*entity.PostSummary, error) {
	return s.repo.FindSummaryByID(ctx, postID)
}

func (s *postService) ListBoard(ctx context.Context, filter postDto.BoardFilter) ([]entity.PostSummary, error) {
	if filter.Category != "" && !entity.IsBoardCategory(filter.Category) {
		return nil, apperror.Invalid("unknown category")
	}

	query := strings.TrimSpace(filter.Query)
	repoFilter := postRepo.BoardFilter{Category: filter.Category, Search: query}
	if query != "" {
		ids, err := s.searchSvc.SearchPostIDs(query, filter.Category, searchLimit)
		switch {
		case err == nil:
			repoFilter.IDs = ids
		case errors.Is(err, search.ErrDisabled):
		default:
			logger.L.Warn("search failed, falling back to database", zap.String("query", query), zap.Error(err))
		}
	}

	return s.repo.ListSummaries(ctx, repoFilter)
}
