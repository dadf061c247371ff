package search

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/poiesic/filescout/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticIndex struct {
	snap  *core.IndexSnapshot
	calls atomic.Int32
}

func newIndex(paths ...string) *staticIndex {
	return &staticIndex{snap: core.NewIndexSnapshot(paths, time.Now())}
}

func (s *staticIndex) Snapshot() *core.IndexSnapshot {
	s.calls.Add(1)
	return s.snap
}

type fakeNative struct {
	paths []string
	calls atomic.Int32
	alias string
}

func (f *fakeNative) Query(_ context.Context, _ []string, alias string, _ core.TypeFilter) []string {
	f.calls.Add(1)
	f.alias = alias
	return f.paths
}

type mapAliases map[string]string

func (m mapAliases) Resolve(token string) (string, bool) {
	v, ok := m[token]
	return v, ok
}

type fixedVolumes struct {
	set   core.VolumeSet
	calls atomic.Int32
}

func (f *fixedVolumes) Current() core.VolumeSet {
	f.calls.Add(1)
	return f.set
}

type mapClicks map[string]uint64

func (m mapClicks) Snapshot() map[string]uint64 {
	out := make(map[string]uint64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func newTestSearcher(t *testing.T, index SnapshotSource, opts ...Option) *Searcher {
	t.Helper()
	opts = append([]Option{WithRanker(NewRanker("/Applications", "/Users/u/Desktop"))}, opts...)
	s, err := NewSearcher(index, opts...)
	require.NoError(t, err)
	return s
}

func paths(rs []core.SearchResult) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Path
	}
	return out
}

func TestNewSearcher(t *testing.T) {
	t.Run("valid configuration", func(t *testing.T) {
		s, err := NewSearcher(newIndex())
		require.NoError(t, err)
		assert.NotNil(t, s)
	})

	t.Run("with nil logger falls back to default", func(t *testing.T) {
		s, err := NewSearcher(newIndex(), WithLogger(nil))
		require.NoError(t, err)
		assert.Equal(t, slog.Default(), s.logger)
	})

	t.Run("nil index", func(t *testing.T) {
		_, err := NewSearcher(nil)
		assert.Equal(t, ErrIndexRequired, err)
	})

	t.Run("nil ranker", func(t *testing.T) {
		_, err := NewSearcher(newIndex(), WithRanker(nil))
		assert.Equal(t, ErrRankerRequired, err)
	})
}

func TestSearch_EmptyKeywordShortCircuits(t *testing.T) {
	index := newIndex("/Users/u/a.txt")
	native := &fakeNative{paths: []string{"/Users/u/a.txt"}}
	volumes := &fixedVolumes{set: core.NewVolumeSet()}
	s := newTestSearcher(t, index, WithNative(native), WithVolumes(volumes, "/Volumes"))

	for _, kw := range []string{"", "   ", "\t\n"} {
		got, err := s.Search(context.Background(), kw, "all")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	}
	assert.Zero(t, index.calls.Load())
	assert.Zero(t, native.calls.Load())
	assert.Zero(t, volumes.calls.Load())
}

func TestSearch_CodeScenario(t *testing.T) {
	index := newIndex(
		"/Users/u/Desktop/code-notes.txt",
		"/Users/u/Documents/src/code/main.go",
		"/Applications/Visual Studio Code.app/Contents/Resources/app/code.js",
		"/Applications/Visual Studio Code.app",
	)
	native := &fakeNative{paths: []string{"/Users/u/Desktop/code-notes.txt"}}
	s := newTestSearcher(t, index,
		WithNative(native),
		WithAliases(mapAliases{"code": "visual studio code"}),
	)

	got, err := s.Search(context.Background(), "code", "all")
	require.NoError(t, err)
	require.NotEmpty(t, got)

	assert.Equal(t, "/Applications/Visual Studio Code.app", got[0].Path)
	assert.Equal(t, "Visual Studio Code.app", got[0].Name)
	assert.Equal(t, "visual studio code", native.alias, "alias is passed to the native branch")
	assert.Len(t, got, 4)
}

func TestSearch_AliasPromotion(t *testing.T) {
	index := newIndex(
		"/Users/u/Documents/ps-notes.txt",
		"/Applications/Adobe Photoshop 2024.app",
		"/Users/u/Documents/unrelated.txt",
	)
	s := newTestSearcher(t, index, WithAliases(mapAliases{"ps": "photoshop"}))

	got, err := s.Search(context.Background(), "PS", "all")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/Applications/Adobe Photoshop 2024.app",
		"/Users/u/Documents/ps-notes.txt",
	}, paths(got), "alias promotes a name that does not contain the keyword")
}

func TestSearch_AcronymPromotion(t *testing.T) {
	index := newIndex(
		"/Applications/Digital Photo Professional.app",
		"/Users/u/Documents/photo.jpg",
	)
	s := newTestSearcher(t, index)

	got, err := s.Search(context.Background(), "dpp", "all")
	require.NoError(t, err)
	assert.Equal(t, []string{"/Applications/Digital Photo Professional.app"}, paths(got))
}

func TestSearch_TypeFilterHoldsForMemoryBranch(t *testing.T) {
	index := newIndex(
		"/Users/u/Desktop/holiday.jpg",
		"/Users/u/Desktop/holiday.JPEG",
		"/Users/u/Desktop/holiday.mov",
		"/Users/u/Desktop/holiday notes.txt",
		"/Users/u/Desktop/holiday",
		"/Applications/Holiday.app",
	)
	s := newTestSearcher(t, index)

	for _, f := range core.TypeFilters() {
		t.Run(string(f), func(t *testing.T) {
			got, err := s.Search(context.Background(), "holiday", string(f))
			require.NoError(t, err)
			for _, r := range got {
				assert.True(t, f.Matches(r.Path), "%s does not satisfy %s", r.Path, f)
			}
		})
	}

	got, err := s.Search(context.Background(), "holiday", "image")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/Users/u/Desktop/holiday.jpg", "/Users/u/Desktop/holiday.JPEG"}, paths(got))

	got, err = s.Search(context.Background(), "holiday", "folder")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/Users/u/Desktop/holiday", "/Applications/Holiday.app"}, paths(got))
}

func TestSearch_Dedupe(t *testing.T) {
	index := newIndex("/Users/u/a-report.txt", "/Users/u/b-report.txt")
	native := &fakeNative{paths: []string{
		"/Users/u/b-report.txt",
		"/Users/u/c-report.txt",
		"/Users/u/b-report.txt",
	}}
	s := newTestSearcher(t, index, WithNative(native))

	got, err := s.Search(context.Background(), "report", "all")
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, r := range got {
		assert.False(t, seen[r.Path], "duplicate %s", r.Path)
		seen[r.Path] = true
	}
	assert.Len(t, got, 3)
}

func TestSearch_VolumeAwareness(t *testing.T) {
	index := newIndex(
		"/Volumes/USB/trip.jpg",
		"/Volumes/Gone/trip.jpg",
		"/Users/u/Desktop/trip.jpg",
	)
	volumes := &fixedVolumes{set: core.NewVolumeSet("/Volumes/USB")}
	s := newTestSearcher(t, index, WithVolumes(volumes, "/Volumes"))

	got, err := s.Search(context.Background(), "trip", "all")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"/Volumes/USB/trip.jpg", "/Users/u/Desktop/trip.jpg"}, paths(got))
	assert.Equal(t, int32(1), volumes.calls.Load(), "mounts are listed once per search")
}

func TestSearch_ClickHistoryReorders(t *testing.T) {
	index := newIndex("/Users/u/Documents/budget-2023.xlsx", "/Users/u/Documents/budget-2024.xlsx")
	clicks := mapClicks{}
	s := newTestSearcher(t, index, WithClicks(clicks))

	got, err := s.Search(context.Background(), "budget", "all")
	require.NoError(t, err)
	assert.Equal(t, "/Users/u/Documents/budget-2023.xlsx", got[0].Path, "ties keep index order")

	clicks["/Users/u/Documents/budget-2024.xlsx"] = 1
	got, err = s.Search(context.Background(), "budget", "all")
	require.NoError(t, err)
	assert.Equal(t, "/Users/u/Documents/budget-2024.xlsx", got[0].Path)
}

func TestSearch_Deterministic(t *testing.T) {
	var ps []string
	for i := 0; i < 300; i++ {
		ps = append(ps, fmt.Sprintf("/Users/u/Documents/dir%d/file-%d.txt", i%7, i))
	}
	native := &fakeNative{paths: []string{"/Users/u/Desktop/file-x.txt", "/Users/u/Documents/dir3/file-3.txt"}}
	s := newTestSearcher(t, newIndex(ps...), WithNative(native), WithClicks(mapClicks{"/Users/u/Documents/dir1/file-8.txt": 2}))

	first, err := s.Search(context.Background(), "file", "all")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := s.Search(context.Background(), "file", "all")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Len(t, first, 100, "results are capped")
}

func TestSearch_UnknownFilterSearchesAll(t *testing.T) {
	s := newTestSearcher(t, newIndex("/Users/u/a.txt"))

	got, err := s.Search(context.Background(), "a", "spreadsheets")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSearch_Cancelled(t *testing.T) {
	s := newTestSearcher(t, newIndex("/Users/u/a.txt"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Search(ctx, "a", "all")
	assert.ErrorIs(t, err, context.Canceled)
}

type recordingMonitor struct {
	noopMonitor
	started  Query
	native   int
	strong   int
	fallback int
	merged   int
	finished int
}

func (m *recordingMonitor) Start(q Query) {
	m.started = q
}

func (m *recordingMonitor) AfterNativeQuery(p []string) {
	m.native = len(p)
}

func (m *recordingMonitor) AfterMemoryScan(s, f int, _ []string) {
	m.strong, m.fallback = s, f
}

func (m *recordingMonitor) AfterMerge(r []core.SearchResult) {
	m.merged = len(r)
}

func (m *recordingMonitor) Finish(r []core.SearchResult) {
	m.finished = len(r)
}

func TestSearchWithMonitor(t *testing.T) {
	index := newIndex("/Users/u/annual report.pdf", "/Users/u/annual budget.xlsx", "/Users/u/other.txt")
	native := &fakeNative{paths: []string{"/Users/u/annual report.pdf"}}
	s := newTestSearcher(t, index, WithNative(native))

	m := &recordingMonitor{}
	got, err := s.SearchWithMonitor(context.Background(), "annual report", "all", m)
	require.NoError(t, err)

	assert.Equal(t, []string{"annual", "report"}, m.started.Words)
	assert.Equal(t, 1, m.native)
	assert.Equal(t, 1, m.strong)
	assert.Equal(t, 1, m.fallback, "partial match added because strong results are few")
	assert.Equal(t, 2, m.merged)
	assert.Equal(t, len(got), m.finished)
}
