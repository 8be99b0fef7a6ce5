package comment

import (
	"context"
	"errors"
	"testing"
	"time"

	"anoa.com/kgscp/internal/entity"
	"anoa.com/kgscp/internal/mocks"
	commentDto "anoa.com/kgscp/internal/modules/comment/dto"
	"anoa.com/kgscp/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	postA  = uuid.MustParse("018f0000-0000-7000-8000-000000000f01")
	postB  = uuid.MustParse("018f0000-0000-7000-8000-000000000f02")
	author = uuid.MustParse("018f0000-0000-7000-8000-000000000a01")
	other  = uuid.MustParse("018f0000-0000-7000-8000-000000000a02")
	admin  = uuid.MustParse("018f0000-0000-7000-8000-000000000ad0")
)

type fixture struct {
	svc      CommentService
	comments *mocks.MockCommentRepository
	limiter  *mocks.MockLimiter
}

func newFixture(comments ...entity.Comment) fixture {
	repo := mocks.NewMockCommentRepository(comments...)
	posts := mocks.NewMockPostRepository(
		entity.Post{ID: postA, AuthorID: author, Category: entity.CategoryClub, Title: "a", Content: "a"},
		entity.Post{ID: postB, AuthorID: author, Category: entity.CategoryClub, Title: "b", Content: "b"},
	)
	profiles := mocks.NewMockProfileRepository(
		entity.Profile{ID: author, Name: "Author", Role: entity.RoleUser},
		entity.Profile{ID: other, Name: "Other", Role: entity.RoleUser},
		entity.Profile{ID: admin, Name: "Admin", Role: entity.RoleAdmin},
	)
	limiter := mocks.NewMockLimiter()
	return fixture{
		svc:      NewCommentService(repo, posts, profiles, limiter, 0),
		comments: repo,
		limiter:  limiter,
	}
}

func TestCreateComment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	root, err := f.svc.CreateComment(ctx, author, postA, commentDto.CreateCommentRequest{Content: "first"})
	require.NoError(t, err)

	reply, err := f.svc.CreateComment(ctx, other, postA, commentDto.CreateCommentRequest{
		Content: "reply", ParentCommentID: &root.ID, IsAnonymous: true,
	})
	require.NoError(t, err)

	tree, err := f.svc.ListForPost(ctx, postA)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, reply.ID, tree[0].Children[0].ID)
	assert.True(t, tree[0].Children[0].IsAnonymous)
}

func TestCreateComment_Validation(t *testing.T) {
	seed := entity.Comment{ID: uuid.New(), PostID: postB, AuthorID: author, Content: "elsewhere", CreatedAt: time.Now()}
	f := newFixture(seed)
	ctx := context.Background()

	_, err := f.svc.CreateComment(ctx, author, postA, commentDto.CreateCommentRequest{Content: "  "})
	assert.True(t, errors.Is(err, apperror.ErrInvalidInput))

	_, err = f.svc.CreateComment(ctx, author, uuid.New(), commentDto.CreateCommentRequest{Content: "hi"})
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	missing := uuid.New()
	_, err = f.svc.CreateComment(ctx, author, postA, commentDto.CreateCommentRequest{Content: "hi", ParentCommentID: &missing})
	assert.True(t, errors.Is(err, apperror.ErrInvalidInput))

	_, err = f.svc.CreateComment(ctx, author, postA, commentDto.CreateCommentRequest{Content: "hi", ParentCommentID: &seed.ID})
	assert.True(t, errors.Is(err, apperror.ErrInvalidInput))
}

func TestCreateComment_Cooldown(t *testing.T) {
	repo := mocks.NewMockCommentRepository()
	posts := mocks.NewMockPostRepository(entity.Post{ID: postA, AuthorID: author})
	limiter := mocks.NewMockLimiter()
	svc := NewCommentService(repo, posts, mocks.NewMockProfileRepository(), limiter, time.Minute)
	ctx := context.Background()

	_, err := svc.CreateComment(ctx, author, postA, commentDto.CreateCommentRequest{Content: "one"})
	require.NoError(t, err)

	_, err = svc.CreateComment(ctx, author, postA, commentDto.CreateCommentRequest{Content: "two"})
	var rl *apperror.RateLimitError
	assert.True(t, errors.As(err, &rl))

	limiter.Release(ctx, author, rateLimitAction)
	repo.FailOn("Create", errors.New("insert failed"))
	_, err = svc.CreateComment(ctx, author, postA, commentDto.CreateCommentRequest{Content: "three"})
	assert.EqualError(t, err, "insert failed")
	assert.False(t, limiter.Active(author, rateLimitAction))
}

func TestDeleteComment_Authorization(t *testing.T) {
	mine := entity.Comment{ID: uuid.New(), PostID: postA, AuthorID: author, Content: "mine", CreatedAt: time.Now()}
	f := newFixture(mine)
	ctx := context.Background()

	_, err := f.svc.DeleteComment(ctx, other, mine.ID)
	assert.True(t, errors.Is(err, apperror.ErrForbidden))

	got, err := f.svc.DeleteComment(ctx, admin, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, postA, got)

	_, err = f.svc.DeleteComment(ctx, author, mine.ID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestDeleteComment_RepliesBecomeRoots(t *testing.T) {
	parent := entity.Comment{ID: uuid.New(), PostID: postA, AuthorID: author, Content: "parent", CreatedAt: time.Now()}
	reply := entity.Comment{ID: uuid.New(), PostID: postA, ParentCommentID: &parent.ID, AuthorID: other, Content: "reply", CreatedAt: time.Now().Add(time.Second)}
	f := newFixture(parent, reply)
	ctx := context.Background()

	_, err := f.svc.DeleteComment(ctx, author, parent.ID)
	require.NoError(t, err)

	tree, err := f.svc.ListForPost(ctx, postA)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, reply.ID, tree[0].ID)
}

func TestToResponse_MasksAnonymousAuthors(t *testing.T) {
	c := entity.Comment{ID: uuid.New(), PostID: postA, AuthorID: other, AuthorName: "Other", Content: "secret", IsAnonymous: true}
	tree := BuildTree([]entity.Comment{c})

	forAuthor := ToResponse(tree, author, false)
	require.Len(t, forAuthor, 1)
	assert.Equal(t, commentDto.AnonymousName, forAuthor[0].AuthorName)
	assert.Nil(t, forAuthor[0].AuthorID)
	assert.False(t, forAuthor[0].CanDelete)

	forSelf := ToResponse(tree, other, false)
	assert.Equal(t, "Other", forSelf[0].AuthorName)
	assert.True(t, forSelf[0].CanDelete)

	forAdmin := ToResponse(tree, admin, true)
	assert.Equal(t, commentDto.AnonymousName, forAdmin[0].AuthorName)
	assert.True(t, forAdmin[0].CanDelete)
}
