package view

import (
	"context"
	"errors"
	"testing"

	"anoa.com/kgscp/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuard_LatestTokenWins(t *testing.T) {
	g := NewGuard()
	slot := Slot{Viewer: uuid.New(), Kind: KindBoard}

	first := g.Begin(slot)
	second := g.Begin(slot)

	assert.True(t, g.Commit(second, "second"))
	assert.False(t, g.Commit(first, "first"))

	vm, ok := g.Current(slot)
	require.True(t, ok)
	assert.Equal(t, "second", vm)
}

func TestGuard_SlotsAreIndependent(t *testing.T) {
	g := NewGuard()
	viewer := uuid.New()
	board := Slot{Viewer: viewer, Kind: KindBoard}
	inbox := Slot{Viewer: viewer, Kind: KindInbox}
	otherBoard := Slot{Viewer: uuid.New(), Kind: KindBoard}

	b := g.Begin(board)
	g.Begin(inbox)
	g.Begin(otherBoard)

	assert.True(t, g.Commit(b, "board"))
	_, ok := g.Current(inbox)
	assert.False(t, ok)
}

func TestGuard_ClearDiscardsInFlightLoads(t *testing.T) {
	g := NewGuard()
	viewer := uuid.New()
	slot := Slot{Viewer: viewer, Kind: KindPost}

	committed := g.Begin(slot)
	require.True(t, g.Commit(committed, "page"))

	inFlight := g.Begin(slot)
	g.Clear(viewer)
	_, ok := g.Current(slot)
	assert.False(t, ok)

	fresh := g.Begin(slot)
	assert.False(t, g.Commit(inFlight, "stale"))
	assert.True(t, g.Commit(fresh, "fresh"))
}

// Two loads of one slot start in order A, B; B's response arrives first. Only B commits
// and A reports a stale view, whatever order the responses come back in.
func TestRefresh_MostRecentLoadCommits(t *testing.T) {
	g := NewGuard()
	slot := Slot{Viewer: uuid.New(), Kind: KindBoard}
	ctx := context.Background()

	releaseA := make(chan struct{})
	startedA := make(chan struct{})
	resultA := make(chan error, 1)

	go func() {
		_, err := refresh(ctx, g, slot, nil, func(context.Context) (string, error) {
			close(startedA)
			<-releaseA
			return "A", nil
		})
		resultA <- err
	}()
	<-startedA

	vmB, err := refresh(ctx, g, slot, nil, func(context.Context) (string, error) {
		return "B", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "B", vmB)

	close(releaseA)
	assert.True(t, errors.Is(<-resultA, apperror.ErrStaleView))

	vm, ok := g.Current(slot)
	require.True(t, ok)
	assert.Equal(t, "B", vm)
}

func TestRefresh_MutationFailureSkipsLoad(t *testing.T) {
	g := NewGuard()
	slot := Slot{Viewer: uuid.New(), Kind: KindInbox}
	loaded := false
	boom := errors.New("write rejected")

	_, err := refresh(context.Background(), g, slot, func(context.Context) error { return boom },
		func(context.Context) (string, error) {
			loaded = true
			return "vm", nil
		})

	assert.ErrorIs(t, err, boom)
	assert.False(t, loaded)
	_, ok := g.Current(slot)
	assert.False(t, ok)
}

func TestRefresh_LoadFailureKeepsPreviousView(t *testing.T) {
	g := NewGuard()
	slot := Slot{Viewer: uuid.New(), Kind: KindProfile}
	ctx := context.Background()

	_, err := refresh(ctx, g, slot, nil, func(context.Context) (string, error) { return "v1", nil })
	require.NoError(t, err)

	_, err = refresh(ctx, g, slot, nil, func(context.Context) (string, error) { return "", errors.New("db down") })
	require.Error(t, err)

	vm, ok := g.Current(slot)
	require.True(t, ok)
	assert.Equal(t, "v1", vm)
}

// startBlockedLoad runs refresh in the background with a load that waits for release.
func startBlockedLoad(ctx context.Context, g *Guard, slot Slot, m Mutation, vm string) (release chan struct{}, result chan loadResult) {
	release = make(chan struct{})
	started := make(chan struct{})
	result = make(chan loadResult, 1)

	go func() {
		got, err := refresh(ctx, g, slot, m, func(context.Context) (string, error) {
			close(started)
			<-release
			return vm, nil
		})
		result <- loadResult{vm: got, err: err}
	}()
	<-started
	return release, result
}

type loadResult struct {
	vm  string
	err error
}

func TestRefresh_SupersededWriteReturnsNewerView(t *testing.T) {
	g := NewGuard()
	slot := Slot{Viewer: uuid.New(), Kind: KindPost}
	ctx := context.Background()
	writes := 0

	release, result := startBlockedLoad(ctx, g, slot, func(context.Context) error {
		writes++
		return nil
	}, "after-write")

	vmB, err := refresh(ctx, g, slot, nil, func(context.Context) (string, error) { return "B", nil })
	require.NoError(t, err)
	assert.Equal(t, "B", vmB)

	close(release)
	got := <-result
	require.NoError(t, got.err)
	assert.Equal(t, "B", got.vm)
	assert.Equal(t, 1, writes)
}

func TestRefresh_SupersededWriteWithoutNewerCommitReturnsOwnView(t *testing.T) {
	g := NewGuard()
	slot := Slot{Viewer: uuid.New(), Kind: KindPost}
	ctx := context.Background()

	release, result := startBlockedLoad(ctx, g, slot, func(context.Context) error { return nil }, "after-write")

	// a newer load starts but has not committed yet
	g.Begin(slot)

	close(release)
	got := <-result
	require.NoError(t, got.err)
	assert.Equal(t, "after-write", got.vm)
}

func TestRefresh_FailedWriteDoesNotSupersedeLoad(t *testing.T) {
	g := NewGuard()
	slot := Slot{Viewer: uuid.New(), Kind: KindPost}
	ctx := context.Background()

	release, result := startBlockedLoad(ctx, g, slot, nil, "A")

	_, err := refresh(ctx, g, slot, func(context.Context) error { return errors.New("store down") },
		func(context.Context) (string, error) { return "B", nil })
	require.Error(t, err)

	close(release)
	got := <-result
	require.NoError(t, got.err)
	assert.Equal(t, "A", got.vm)

	vm, ok := g.Current(slot)
	require.True(t, ok)
	assert.Equal(t, "A", vm)
}
