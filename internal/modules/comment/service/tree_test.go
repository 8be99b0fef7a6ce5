package comment

import (
	"testing"
	"time"

	"anoa.com/kgscp/internal/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commentID(n int) uuid.UUID {
	var id uuid.UUID
	id[15] = byte(n)
	id[14] = byte(n >> 8)
	return id
}

func row(id int, parent *int) entity.Comment {
	c := entity.Comment{
		ID:        commentID(id),
		PostID:    commentID(1000),
		Content:   "comment",
		CreatedAt: time.Date(2026, 3, 1, 9, 0, id, 0, time.UTC),
	}
	if parent != nil {
		p := commentID(*parent)
		c.ParentCommentID = &p
	}
	return c
}

func ptr(n int) *int { return &n }

func ids(nodes []*Node) []uuid.UUID {
	out := []uuid.UUID{}
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return out
}

func TestBuildTree(t *testing.T) {
	t.Run("orphan is promoted to root", func(t *testing.T) {
		roots := BuildTree([]entity.Comment{row(1, nil), row(2, ptr(1)), row(3, ptr(99))})

		require.Len(t, roots, 2)
		assert.Equal(t, []uuid.UUID{commentID(1), commentID(3)}, ids(roots))
		assert.Equal(t, []uuid.UUID{commentID(2)}, ids(roots[0].Children))
		assert.Empty(t, roots[1].Children)
	})

	t.Run("children keep input order", func(t *testing.T) {
		roots := BuildTree([]entity.Comment{row(1, nil), row(4, ptr(1)), row(2, ptr(1)), row(3, ptr(2))})

		require.Len(t, roots, 1)
		assert.Equal(t, []uuid.UUID{commentID(4), commentID(2)}, ids(roots[0].Children))
		assert.Equal(t, []uuid.UUID{commentID(3)}, ids(roots[0].Children[1].Children))
	})

	t.Run("reply listed before its parent still nests", func(t *testing.T) {
		roots := BuildTree([]entity.Comment{row(2, ptr(1)), row(1, nil)})

		require.Len(t, roots, 1)
		assert.Equal(t, commentID(1), roots[0].ID)
		assert.Equal(t, []uuid.UUID{commentID(2)}, ids(roots[0].Children))
	})

	t.Run("empty input", func(t *testing.T) {
		roots := BuildTree(nil)
		assert.NotNil(t, roots)
		assert.Empty(t, roots)
	})

	t.Run("parent cycle does not drop comments", func(t *testing.T) {
		roots := BuildTree([]entity.Comment{row(1, ptr(2)), row(2, ptr(1)), row(3, ptr(3))})

		assert.Equal(t, 3, Count(roots))
		assert.Len(t, Flatten(roots), 3)
	})

	t.Run("input rows are not mutated", func(t *testing.T) {
		flat := []entity.Comment{row(1, nil), row(2, ptr(1))}
		roots := BuildTree(flat)
		roots[0].Content = "edited"

		assert.Equal(t, "comment", flat[0].Content)
	})
}

func TestBuildTree_EveryCommentAppearsOnce(t *testing.T) {
	flat := []entity.Comment{
		row(1, nil), row(2, ptr(1)), row(3, ptr(2)), row(4, ptr(42)),
		row(5, ptr(1)), row(6, nil), row(7, ptr(6)), row(8, ptr(77)),
	}

	roots := BuildTree(flat)
	seen := map[uuid.UUID]int{}
	for _, c := range Flatten(roots) {
		seen[c.ID]++
	}

	assert.Len(t, seen, len(flat))
	for id, n := range seen {
		assert.Equal(t, 1, n, "comment %s", id)
	}
}

func TestBuildTree_Idempotent(t *testing.T) {
	flat := []entity.Comment{
		row(1, nil), row(2, ptr(1)), row(3, ptr(99)), row(4, ptr(2)), row(5, ptr(3)), row(6, ptr(1)),
	}

	first := BuildTree(flat)
	second := BuildTree(Flatten(first))

	assert.Equal(t, first, second)
}
