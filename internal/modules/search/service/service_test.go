package search

import (
	"errors"
	"testing"
	"time"

	"anoa.com/kgscp/internal/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCleanContentForIndex(t *testing.T) {
	got := cleanContentForIndex("<p>수학 &amp; 과학</p><p>스터디<br>모집</p><script>x()</script>")
	assert.Equal(t, "수학 & 과학 스터디 모집", got)
}

func TestNewPostDoc_HidesAnonymousAuthor(t *testing.T) {
	post := &entity.Post{
		ID:          uuid.New(),
		Title:       "<b>질문</b>",
		Content:     "내용",
		Category:    entity.CategorySubject,
		IsAnonymous: true,
		CreatedAt:   time.Unix(1700000000, 0),
	}

	doc := newPostDoc(post, "Kim")
	assert.Equal(t, "질문", doc.Title)
	assert.Empty(t, doc.AuthorName)
	assert.Equal(t, int64(1700000000), doc.CreatedAt)

	post.IsAnonymous = false
	assert.Equal(t, "Kim", newPostDoc(post, "Kim").AuthorName)
}

func TestCategoryFilter_Quotes(t *testing.T) {
	assert.Equal(t, `category = "학교 과제"`, categoryFilter(entity.CategoryAssignment))
}

func TestDisabledSearchService(t *testing.T) {
	svc := NewDisabledSearchService()
	assert.NoError(t, svc.IndexPost(&entity.Post{}, ""))
	_, err := svc.SearchPostIDs("q", "", 10)
	assert.True(t, errors.Is(err, ErrDisabled))
}
