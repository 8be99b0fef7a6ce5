package attachment

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"anoa.com/kgscp/internal/entity"
	"anoa.com/kgscp/internal/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	livePost = uuid.MustParse("018f0000-0000-7000-8000-00000000a001")
	gonePost = uuid.MustParse("018f0000-0000-7000-8000-00000000a002")
)

func strPtr(s string) *string { return &s }

func attachmentRow(n int, postID uuid.UUID, bucket string, age time.Duration) entity.Attachment {
	return entity.Attachment{
		ID:        uuid.MustParse("018f0000-0000-7000-8000-0000000b000" + string(rune('0'+n))),
		PostID:    postID,
		Bucket:    bucket,
		FilePath:  postID.String() + "/" + string(rune('0'+n)) + "-photo.png",
		FileName:  strPtr("photo.png"),
		MimeType:  strPtr("image/png"),
		SortOrder: n,
		CreatedAt: time.Now().Add(-age),
	}
}

func TestListForPost(t *testing.T) {
	repo := mocks.NewMockAttachmentRepository(
		attachmentRow(2, livePost, "post-images", time.Hour),
		attachmentRow(1, livePost, "post-images", time.Hour),
		attachmentRow(3, gonePost, "post-images", time.Hour),
	)
	svc := NewAttachmentService(repo, mocks.NewMockBlobStore())

	list, err := svc.ListForPost(context.Background(), livePost)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].SortOrder)
	assert.True(t, strings.HasPrefix(list[0].PublicURL, "https://blobs.test/post-images/"))

	repo.FailOn("FindByPostID", errors.New("db down"))
	_, err = svc.ListForPost(context.Background(), livePost)
	assert.Error(t, err)
}

func TestRemoveBlobs_GroupsByBucket(t *testing.T) {
	blobs := mocks.NewMockBlobStore()
	svc := NewAttachmentService(mocks.NewMockAttachmentRepository(), blobs)

	err := svc.RemoveBlobs(context.Background(), []entity.Attachment{
		attachmentRow(1, livePost, "post-images", 0),
		attachmentRow(2, livePost, "post-images", 0),
		attachmentRow(3, livePost, "archive", 0),
		{ID: uuid.New(), PostID: livePost},
	})
	require.NoError(t, err)

	require.Len(t, blobs.RemoveCalls["post-images"], 1)
	assert.Len(t, blobs.RemoveCalls["post-images"][0], 2)
	require.Len(t, blobs.RemoveCalls["archive"], 1)
	assert.Len(t, blobs.RemoveCalls, 2)
}

func TestRemoveBlobs_ReportsFailure(t *testing.T) {
	blobs := mocks.NewMockBlobStore()
	blobs.FailOn("Remove", errors.New("storage unavailable"))
	svc := NewAttachmentService(mocks.NewMockAttachmentRepository(), blobs)

	err := svc.RemoveBlobs(context.Background(), []entity.Attachment{attachmentRow(1, livePost, "post-images", 0)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "post-images")
}

func TestCleanupOrphanAttachments(t *testing.T) {
	t.Run("removes old orphans only", func(t *testing.T) {
		repo := mocks.NewMockAttachmentRepository(
			attachmentRow(1, livePost, "post-images", 48*time.Hour),
			attachmentRow(2, gonePost, "post-images", 48*time.Hour),
			attachmentRow(3, gonePost, "post-images", time.Hour),
		)
		repo.PostExists = func(id uuid.UUID) bool { return id == livePost }
		blobs := mocks.NewMockBlobStore()
		svc := NewAttachmentService(repo, blobs)

		require.NoError(t, svc.CleanupOrphanAttachments(context.Background()))

		remaining := repo.All()
		require.Len(t, remaining, 2)
		for _, a := range remaining {
			assert.NotEqual(t, 2, a.SortOrder)
		}
		require.Len(t, blobs.RemoveCalls["post-images"], 1)
	})

	t.Run("row survives a failed blob removal", func(t *testing.T) {
		repo := mocks.NewMockAttachmentRepository(attachmentRow(2, gonePost, "post-images", 48*time.Hour))
		repo.PostExists = func(uuid.UUID) bool { return false }
		blobs := mocks.NewMockBlobStore()
		blobs.FailOn("Remove", errors.New("timeout"))
		svc := NewAttachmentService(repo, blobs)

		require.NoError(t, svc.CleanupOrphanAttachments(context.Background()))
		assert.Len(t, repo.All(), 1)
	})
}
