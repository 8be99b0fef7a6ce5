package repository

import (
	"context"
	"errors"

	"anoa.com/kgscp/internal/entity"
	"anoa.com/kgscp/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BoardFilter struct {
	Category string
	Search   string
	// IDs restricts the listing to search hits when non-nil.
	IDs []uuid.UUID
}

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post, attachments []entity.Attachment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error)
	FindSummaryByID(ctx context.Context, id uuid.UUID) (*entity.PostSummary, error)
	ListSummaries(ctx context.Context, filter BoardFilter) ([]entity.PostSummary, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	// Delete removes the post with its comments and reactions in one transaction. Attachment
	// rows go too unless keepAttachments is set, which leaves them to the orphan sweep.
	Delete(ctx context.Context, id uuid.UUID, keepAttachments bool) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

const summaryColumns = `posts.*,
	COALESCE(profiles.name, '') AS author_name,
	profiles.username AS author_username,
	(SELECT COUNT(*) FROM reactions r WHERE r.post_id = posts.id AND r.reaction = 'like') AS likes_count,
	(SELECT COUNT(*) FROM reactions r WHERE r.post_id = posts.id AND r.reaction = 'dislike') AS dislikes_count,
	(SELECT COUNT(*) FROM comments c WHERE c.post_id = posts.id) AS comments_count`

func (r *postRepository) summaries(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("posts").
		Select(summaryColumns).
		Joins("LEFT JOIN profiles ON profiles.id = posts.author_id")
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post, attachments []entity.Attachment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		if len(attachments) == 0 {
			return nil
		}
		for i := range attachments {
			attachments[i].PostID = post.ID
		}
		return tx.Create(&attachments).Error
	})
}

func (r *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	var post entity.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) FindSummaryByID(ctx context.Context, id uuid.UUID) (*entity.PostSummary, error) {
	var rows []entity.PostSummary
	if err := r.summaries(ctx).Where("posts.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperror.ErrNotFound
	}
	return &rows[0], nil
}

func (r *postRepository) ListSummaries(ctx context.Context, filter BoardFilter) ([]entity.PostSummary, error) {
	query := r.summaries(ctx)

	if filter.Category != "" {
		query = query.Where("posts.category = ?", filter.Category)
	}
	if filter.IDs != nil {
		if len(filter.IDs) == 0 {
			return []entity.PostSummary{}, nil
		}
		query = query.Where("posts.id IN ?", filter.IDs)
	} else if filter.Search != "" {
		like := "%" + filter.Search + "%"
		// author names of anonymous posts must not match
		query = query.Where(
			"(posts.title ILIKE ? OR posts.content ILIKE ? OR (NOT posts.is_anonymous AND profiles.name ILIKE ?))",
			like, like, like,
		)
	}

	rows := []entity.PostSummary{}
	if err := query.Order("posts.created_at DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *postRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Post{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *postRepository) Delete(ctx context.Context, id uuid.UUID, keepAttachments bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if !keepAttachments {
			if err := tx.Where("post_id = ?", id).Delete(&entity.Attachment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("post_id = ?", id).Delete(&entity.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&entity.Reaction{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&entity.Post{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperror.ErrNotFound
		}
		return nil
	})
}
