package history

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/poiesic/filescout/core"
	"github.com/poiesic/filescout/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyRepo fails the next failures saves; -1 fails forever.
type flakyRepo struct {
	failures int
	saves    int
}

func (f *flakyRepo) SaveClick(context.Context, *core.ClickRecord) error {
	f.saves++
	if f.failures != 0 {
		f.failures--
		return errors.New("write failed")
	}
	return nil
}

func (f *flakyRepo) GetClick(context.Context, string) (*core.ClickRecord, error) {
	return nil, nil
}

func (f *flakyRepo) LoadClicks(context.Context) ([]*core.ClickRecord, error) {
	return nil, nil
}

func newStores(t *testing.T) *badger.Stores {
	t.Helper()
	stores, err := badger.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { stores.Close() })
	return stores
}

func TestNew_RequiresRepository(t *testing.T) {
	_, err := New(context.Background(), nil)
	assert.ErrorIs(t, err, ErrRepositoryRequired)
}

func TestRecord_Monotonic(t *testing.T) {
	stores := newStores(t)
	ctx := context.Background()
	h, err := New(ctx, stores.Clicks)
	require.NoError(t, err)

	const path = "/Users/u/Desktop/notes.txt"
	var last uint64
	for i := 0; i < 5; i++ {
		n, err := h.Record(ctx, path)
		require.NoError(t, err)
		assert.Greater(t, n, last)
		last = n
	}
	assert.Equal(t, uint64(5), h.Count(path))
	assert.Equal(t, 1, h.Len())

	stored, err := stores.Clicks.GetClick(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), stored.Count, "every increment is persisted")
}

func TestRecord_InvalidPath(t *testing.T) {
	h, err := New(context.Background(), newStores(t).Clicks)
	require.NoError(t, err)

	_, err = h.Record(context.Background(), "relative/path")
	assert.ErrorIs(t, err, core.ErrInvalidPath)
	assert.Zero(t, h.Len())
}

func TestNew_LoadsPersisted(t *testing.T) {
	stores := newStores(t)
	ctx := context.Background()

	first, err := New(ctx, stores.Clicks)
	require.NoError(t, err)
	_, _ = first.Record(ctx, "/a")
	_, _ = first.Record(ctx, "/a")
	_, _ = first.Record(ctx, "/b")

	second, err := New(ctx, stores.Clicks)
	require.NoError(t, err)
	assert.Equal(t, map[string]uint64{"/a": 2, "/b": 1}, second.Snapshot())
}

func TestRecord_PersistFailureKeepsCount(t *testing.T) {
	repo := &flakyRepo{failures: -1}
	h, err := New(context.Background(), repo)
	require.NoError(t, err)

	n, err := h.Record(context.Background(), "/a")
	assert.Error(t, err)
	assert.Equal(t, uint64(1), n)
	assert.Equal(t, uint64(1), h.Count("/a"))
	assert.Equal(t, persistAttempts, repo.saves)
}

func TestRecord_RetriesTransientFailure(t *testing.T) {
	repo := &flakyRepo{failures: 1}
	h, err := New(context.Background(), repo)
	require.NoError(t, err)

	n, err := h.Record(context.Background(), "/a")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)
	assert.Equal(t, 2, repo.saves)
}

func TestSnapshot_IsCopy(t *testing.T) {
	h, err := New(context.Background(), &flakyRepo{})
	require.NoError(t, err)
	_, _ = h.Record(context.Background(), "/a")

	snap := h.Snapshot()
	snap["/a"] = 100
	assert.Equal(t, uint64(1), h.Count("/a"))
}

func TestRecord_Concurrent(t *testing.T) {
	stores := newStores(t)
	ctx := context.Background()
	h, err := New(ctx, stores.Clicks)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = h.Record(ctx, "/a")
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(20), h.Count("/a"))
	stored, err := stores.Clicks.GetClick(ctx, "/a")
	require.NoError(t, err)
	assert.Equal(t, uint64(20), stored.Count, "stored count matches memory after concurrent clicks")
}
