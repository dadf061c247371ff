package linefile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/filescout/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexCache_MissingFile(t *testing.T) {
	cache := NewIndexCache(filepath.Join(t.TempDir(), "index.cache"))

	paths, err := cache.LoadEntries(context.Background())
	require.NoError(t, err)
	assert.Nil(t, paths)
}

func TestIndexCache_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	file := filepath.Join(t.TempDir(), "nested", "index.cache")
	cache := NewIndexCache(file)

	want := []string{
		"/Applications/Visual Studio Code.app",
		"/Users/u/Desktop/code-notes.txt",
		"/Users/u/Documents/季度 报告.pdf",
	}
	require.NoError(t, cache.SaveEntries(ctx, want))

	raw, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, want[0]+"\n"+want[1]+"\n"+want[2]+"\n", string(raw), "cache should be newline-delimited")

	got, err := cache.LoadEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestIndexCache_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	cache := NewIndexCache(filepath.Join(t.TempDir(), "index.cache"))

	require.NoError(t, cache.SaveEntries(ctx, []string{"/a", "/b", "/c"}))
	require.NoError(t, cache.SaveEntries(ctx, []string{"/d"}))

	got, err := cache.LoadEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"/d"}, got)

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(cache.Path()), "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers, "temp files should not be left behind")
}

func TestIndexCache_SkipsBlankLines(t *testing.T) {
	file := filepath.Join(t.TempDir(), "index.cache")
	require.NoError(t, os.WriteFile(file, []byte("/a\n\n/b\n"), 0644))

	got, err := NewIndexCache(file).LoadEntries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"/a", "/b"}, got)
}

func TestIndexCache_OverlongLineKeepsEarlierEntries(t *testing.T) {
	file := filepath.Join(t.TempDir(), "index.cache")
	content := "/a\n/b\n/" + strings.Repeat("x", 2<<20) + "\n/c\n"
	require.NoError(t, os.WriteFile(file, []byte(content), 0644))

	got, err := NewIndexCache(file).LoadEntries(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrTruncatedData))
	assert.Equal(t, []string{"/a", "/b"}, got)
}

func TestIndexCache_ImplementsInterface(t *testing.T) {
	var _ storage.IndexCache = NewIndexCache("/tmp/x")
}
