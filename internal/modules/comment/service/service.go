package comment

import (
	"context"
	"errors"
	"strings"
	"time"

	"anoa.com/kgscp/internal/entity"
	commentDto "anoa.com/kgscp/internal/modules/comment/dto"
	commentRepo "anoa.com/kgscp/internal/modules/comment/repository"
	postRepo "anoa.com/kgscp/internal/modules/post/repository"
	profileRepo "anoa.com/kgscp/internal/modules/profile/repository"
	"anoa.com/kgscp/pkg/apperror"
	"anoa.com/kgscp/pkg/ratelimiter"
	"anoa.com/kgscp/pkg/sanitize"
	"github.com/google/uuid"
)

const rateLimitAction = "comment"

type CommentService interface {
	CreateComment(ctx context.Context, userID, postID uuid.UUID, req commentDto.CreateCommentRequest) (*entity.Comment, error)
	// DeleteComment removes a comment owned by userID, or any comment for an admin,
	// and returns the post it belonged to.
	DeleteComment(ctx context.Context, userID, commentID uuid.UUID) (uuid.UUID, error)
	ListForPost(ctx context.Context, postID uuid.UUID) ([]*Node, error)
}

type commentService struct {
	repo        commentRepo.CommentRepository
	postRepo    postRepo.PostRepository
	profileRepo profileRepo.ProfileRepository
	limiter     ratelimiter.Limiter
	cooldown    time.Duration
}

func NewCommentService(repo commentRepo.CommentRepository, postRepo postRepo.PostRepository, profileRepo profileRepo.ProfileRepository, limiter ratelimiter.Limiter, cooldown time.Duration) CommentService {
	return &commentService{
		repo:        repo,
		postRepo:    postRepo,
		profileRepo: profileRepo,
		limiter:     limiter,
		cooldown:    cooldown,
	}
}

func (s *commentService) CreateComment(ctx context.Context, userID, postID uuid.UUID, req commentDto.CreateCommentRequest) (*entity.Comment, error) {
	content := sanitize.Content(req.Content)
	if strings.TrimSpace(content) == "" {
		return nil, apperror.Invalid("content is required")
	}

	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.ErrNotFound
	}

	if req.ParentCommentID != nil {
		parent, err := s.repo.FindByID(ctx, *req.ParentCommentID)
		if err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				return nil, apperror.Invalid("parent comment not found")
			}
			return nil, err
		}
		if parent.PostID != postID {
			return nil, apperror.Invalid("parent comment belongs to another post")
		}
	}

	if err := s.limiter.Acquire(ctx, userID, rateLimitAction, s.cooldown); err != nil {
		return nil, err
	}

	comment := &entity.Comment{
		PostID:          postID,
		ParentCommentID: req.ParentCommentID,
		AuthorID:        userID,
		Content:         content,
		IsAnonymous:     req.IsAnonymous,
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		s.limiter.Release(ctx, userID, rateLimitAction)
		return nil, err
	}

	return comment, nil
}

func (s *commentService) DeleteComment(ctx context.Context, userID, commentID uuid.UUID) (uuid.UUID, error) {
	comment, err := s.repo.FindByID(ctx, commentID)
	if err != nil {
		return uuid.Nil, err
	}

	if comment.AuthorID != userID {
		profile, err := s.profileRepo.FindByID(ctx, userID)
		if err != nil && !errors.Is(err, apperror.ErrNotFound) {
			return uuid.Nil, err
		}
		if !profile.IsAdmin() {
			return uuid.Nil, apperror.Forbidden("you can only delete your own comment")
		}
	}

	if err := s.repo.Delete(ctx, commentID); err != nil {
		return uuid.Nil, err
	}
	return comment.PostID, nil
}

func (s *commentService) ListForPost(ctx context.Context, postID uuid.UUID) ([]*Node, error) {
	comments, err := s.repo.FindByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return BuildTree(comments), nil
}
