package search

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"anoa.com/kgscp/internal/entity"
	"anoa.com/kgscp/pkg/logger"
	"anoa.com/kgscp/pkg/sanitize"
	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"
)

const postsIndex = "posts"

// ErrDisabled is returned by searches when no index is configured; callers fall back
// to the database.
var ErrDisabled = errors.New("search index is not configured")

type SearchService interface {
	IndexPost(post *entity.Post, authorName string) error
	DeletePost(id uuid.UUID) error
	// SearchPostIDs returns matching post ids ranked by relevance.
	SearchPostIDs(query, category string, limit int64) ([]uuid.UUID, error)
}

type meiliSearchService struct {
	client meilisearch.ServiceManager
}

func NewMeiliSearchService(client meilisearch.ServiceManager) SearchService {
	s := &meiliSearchService{client: client}
	s.initIndexes()
	return s
}

func (s *meiliSearchService) initIndexes() {
	filterable := []any{"category"}
	if _, err := s.client.Index(postsIndex).UpdateFilterableAttributes(&filterable); err != nil {
		logger.L.Warn("failed to update posts filterable attributes", zap.Error(err))
	}

	sortable := []string{"created_at"}
	if _, err := s.client.Index(postsIndex).UpdateSortableAttributes(&sortable); err != nil {
		logger.L.Warn("failed to update posts sortable attributes", zap.Error(err))
	}

	searchable := []string{"title", "content", "author_name"}
	if _, err := s.client.Index(postsIndex).UpdateSearchableAttributes(&searchable); err != nil {
		logger.L.Warn("failed to update posts searchable attributes", zap.Error(err))
	}
}

type postDoc struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Category   string `json:"category"`
	AuthorName string `json:"author_name"`
	CreatedAt  int64  `json:"created_at"`
}

// cleanContentForIndex turns stored HTML into one line of plain text.
func cleanContentForIndex(content string) string {
	content = strings.ReplaceAll(content, "</p>", " ")
	content = strings.ReplaceAll(content, "<br>", " ")
	content = strings.ReplaceAll(content, "</div>", " ")

	clean := sanitize.PlainText(content)
	return strings.Join(strings.Fields(clean), " ")
}

func newPostDoc(post *entity.Post, authorName string) postDoc {
	doc := postDoc{
		ID:        post.ID.String(),
		Title:     cleanContentForIndex(post.Title),
		Content:   cleanContentForIndex(post.Content),
		Category:  post.Category,
		CreatedAt: post.CreatedAt.Unix(),
	}
	if !post.IsAnonymous {
		doc.AuthorName = authorName
	}
	return doc
}

func (s *meiliSearchService) IndexPost(post *entity.Post, authorName string) error {
	doc := newPostDoc(post, authorName)
	primaryKey := "id"
	task, err := s.client.Index(postsIndex).AddDocuments([]postDoc{doc}, &primaryKey)
	if err != nil {
		return err
	}
	logger.L.Debug("indexed post", zap.String("post_id", doc.ID), zap.Int64("task_uid", task.TaskUID))
	return nil
}

func (s *meiliSearchService) DeletePost(id uuid.UUID) error {
	_, err := s.client.Index(postsIndex).DeleteDocument(id.String())
	return err
}

func categoryFilter(category string) string {
	return fmt.Sprintf("category = %q", category)
}

func (s *meiliSearchService) SearchPostIDs(query, category string, limit int64) ([]uuid.UUID, error) {
	req := &meilisearch.SearchRequest{
		Limit:                limit,
		AttributesToRetrieve: []string{"id"},
	}
	if category != "" {
		req.Filter = categoryFilter(category)
	}

	raw, err := s.client.Index(postsIndex).SearchRaw(query, req)
	if err != nil {
		return nil, err
	}

	var result struct {
		Hits []struct {
			ID string `json:"id"`
		} `json:"hits"`
	}
	if err := json.Unmarshal(*raw, &result); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(result.Hits))
	for _, hit := range result.Hits {
		id, err := uuid.Parse(hit.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

type disabledSearchService struct{}

// NewDisabledSearchService is used when MEILISEARCH_HOST is empty.
func NewDisabledSearchService() SearchService {
	return disabledSearchService{}
}

func (disabledSearchService) IndexPost(*entity.Post, string) error { return nil }

func (disabledSearchService) DeletePost(uuid.UUID) error { return nil }

func (disabledSearchService) SearchPostIDs(string, string, int64) ([]uuid.UUID, error) {
	return nil, ErrDisabled
}
