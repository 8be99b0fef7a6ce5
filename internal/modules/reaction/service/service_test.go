package reaction

import (
	"context"
	"errors"
	"testing"

	"anoa.com/kgscp/internal/entity"
	"anoa.com/kgscp/internal/mocks"
	"anoa.com/kgscp/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	postID = uuid.MustParse("018f0000-0000-7000-8000-000000000f01")
	userID = uuid.MustParse("018f0000-0000-7000-8000-000000000a01")
)

func newTestService() (ReactionService, *mocks.MockReactionRepository) {
	repo := mocks.NewMockReactionRepository()
	posts := mocks.NewMockPostRepository(entity.Post{ID: postID, Title: "t", Content: "c", Category: entity.CategoryClub})
	return NewReactionService(repo, posts, nil), repo
}

func TestToggleReaction_Sequence(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	got, err := svc.ToggleReaction(ctx, userID, postID, "like")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, Like, *got)
	rows := repo.Rows(postID)
	require.Len(t, rows, 1)
	assert.Equal(t, "like", rows[0].Reaction)

	got, err = svc.ToggleReaction(ctx, userID, postID, "like")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Empty(t, repo.Rows(postID))

	got, err = svc.ToggleReaction(ctx, userID, postID, "dislike")
	require.NoError(t, err)
	assert.Equal(t, Dislike, *got)
	rows = repo.Rows(postID)
	require.Len(t, rows, 1)
	assert.Equal(t, "dislike", rows[0].Reaction)

	assert.Equal(t, []string{"insert", "delete", "insert"}, repo.Calls)
}

func TestToggleReaction_SwitchUpserts(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	_, err := svc.ToggleReaction(ctx, userID, postID, "like")
	require.NoError(t, err)
	_, err = svc.ToggleReaction(ctx, userID, postID, "dislike")
	require.NoError(t, err)

	rows := repo.Rows(postID)
	require.Len(t, rows, 1)
	assert.Equal(t, "dislike", rows[0].Reaction)
	assert.Equal(t, []string{"insert", "upsert"}, repo.Calls)
}

func TestToggleReaction_AtMostOneRowAndLastRequestWins(t *testing.T) {
	requests := []string{"like", "dislike", "dislike", "like", "like", "dislike", "like"}
	svc, repo := newTestService()

	var last *Kind
	for _, r := range requests {
		var err error
		last, err = svc.ToggleReaction(context.Background(), userID, postID, r)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(repo.Rows(postID)), 1)
	}

	rows := repo.Rows(postID)
	require.Len(t, rows, 1)
	require.NotNil(t, last)
	assert.Equal(t, string(*last), rows[0].Reaction)
	assert.Equal(t, "like", rows[0].Reaction)
}

func TestToggleReaction_Errors(t *testing.T) {
	t.Run("invalid reaction", func(t *testing.T) {
		svc, repo := newTestService()
		_, err := svc.ToggleReaction(context.Background(), userID, postID, "love")
		assert.True(t, errors.Is(err, apperror.ErrInvalidInput))
		assert.Empty(t, repo.Calls)
	})

	t.Run("unknown post", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.ToggleReaction(context.Background(), userID, uuid.New(), "like")
		assert.True(t, errors.Is(err, apperror.ErrNotFound))
	})

	t.Run("store error aborts", func(t *testing.T) {
		svc, repo := newTestService()
		repo.FailOn("Insert", errors.New("insert failed"))
		_, err := svc.ToggleReaction(context.Background(), userID, postID, "like")
		assert.EqualError(t, err, "insert failed")
		assert.Empty(t, repo.Rows(postID))
	})
}

func TestGetReactions(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	other := uuid.New()

	_, err := svc.ToggleReaction(ctx, userID, postID, "like")
	require.NoError(t, err)
	_, err = svc.ToggleReaction(ctx, other, postID, "dislike")
	require.NoError(t, err)

	resp, err := svc.GetReactions(ctx, userID, postID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Likes)
	assert.Equal(t, int64(1), resp.Dislikes)
	require.NotNil(t, resp.UserReacted)
	assert.Equal(t, "like", *resp.UserReacted)
}
