package badger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/filescout/core"
	"github.com/poiesic/filescout/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStores(t *testing.T) *Stores {
	t.Helper()
	stores, err := NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { stores.Close() })
	return stores
}

func TestClickRepository_GetMissing(t *testing.T) {
	stores := newTestStores(t)

	_, err := stores.Clicks.GetClick(context.Background(), "/nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestClickRepository_SaveOverwrites(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	require.NoError(t, stores.Clicks.SaveClick(ctx, &core.ClickRecord{Path: "/Users/u/a.txt", Count: 1, UpdatedAt: now}))
	require.NoError(t, stores.Clicks.SaveClick(ctx, &core.ClickRecord{Path: "/Users/u/a.txt", Count: 2, UpdatedAt: now}))

	got, err := stores.Clicks.GetClick(ctx, "/Users/u/a.txt")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got.Count)
	assert.True(t, now.Equal(got.UpdatedAt))

	all, err := stores.Clicks.LoadClicks(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "one key per path")
}

func TestClickRepository_RejectsInvalid(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	err := stores.Clicks.SaveClick(ctx, &core.ClickRecord{Path: "relative", Count: 1})
	assert.ErrorIs(t, err, core.ErrInvalidClickRecord)

	err = stores.Clicks.SaveClick(ctx, &core.ClickRecord{Path: "/a", Count: 0})
	assert.ErrorIs(t, err, core.ErrInvalidClickRecord)
}

func TestClickRepository_LoadClicks(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	vscode := "/Applications/Visual Studio Code.app"
	paths := []string{"/b", "/a", vscode}
	for i, p := range paths {
		require.NoError(t, stores.Clicks.SaveClick(ctx, &core.ClickRecord{Path: p, Count: uint64(i + 1)}))
	}
	require.NoError(t, stores.ScanState.SaveScanState(ctx, &core.ScanState{EntryCount: 9}))

	all, err := stores.Clicks.LoadClicks(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3, "scan state must not leak into click iteration")

	counts := make(map[string]uint64)
	for _, r := range all {
		counts[r.Path] = r.Count
	}
	assert.Equal(t, map[string]uint64{
		"/b":   1,
		"/a":   2,
		vscode: 3,
	}, counts)
}

func TestClickRepository_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "state")

	stores, err := OpenStores(dir)
	require.NoError(t, err)
	require.NoError(t, stores.Clicks.SaveClick(ctx, &core.ClickRecord{Path: "/a", Count: 5}))
	require.NoError(t, stores.Close())

	stores, err = OpenStores(dir)
	require.NoError(t, err)
	defer stores.Close()

	got, err := stores.Clicks.GetClick(ctx, "/a")
	require.NoError(t, err)
	assert.Equal(t, uint64(5), got.Count)
}
