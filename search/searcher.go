package search

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/filescout/core"
	"golang.org/x/sync/errgroup"
)

// SnapshotSource provides the current index.
type SnapshotSource interface {
	Snapshot() *core.IndexSnapshot
}

// AliasResolver maps a token to a canonical application name.
type AliasResolver interface {
	Resolve(token string) (string, bool)
}

// NativeQuerier queries the OS metadata index. It never fails; errors
// degrade to an empty result.
type NativeQuerier interface {
	Query(ctx context.Context, words []string, alias string, filter core.TypeFilter) []string
}

// VolumeSource lists mounted volumes.
type VolumeSource interface {
	Current() core.VolumeSet
}

// ClickSource provides a copy of the click table.
type ClickSource interface {
	Snapshot() map[string]uint64
}

// Limits bounds result set sizes.
type Limits struct {
	// MaxResults caps the ranked output.
	MaxResults int
	// StrongLimit stops the memory scan after this many full matches.
	StrongLimit int
	// FallbackThreshold: partial matches are added when there are fewer
	// full matches than this.
	FallbackThreshold int
	// FallbackLimit caps the partial matches added.
	FallbackLimit int
}

// DefaultLimits returns 100 results, 1000 strong matches, and up to 50
// fallbacks when fewer than 20 strong matches exist.
func DefaultLimits() Limits {
	return Limits{
		MaxResults:        100,
		StrongLimit:       1000,
		FallbackThreshold: 20,
		FallbackLimit:     50,
	}
}

// Searcher merges native and in-memory results and ranks them.
type Searcher struct {
	index      SnapshotSource
	native     NativeQuerier
	aliases    AliasResolver
	volumes    VolumeSource
	volumeRoot string
	clicks     ClickSource
	ranker     *Ranker
	limits     Limits
	logger     *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithNative enables the native branch.
func WithNative(n NativeQuerier) Option {
	return func(s *Searcher) error {
		s.native = n
		return nil
	}
}

// WithAliases sets the alias resolver.
func WithAliases(a AliasResolver) Option {
	return func(s *Searcher) error {
		s.aliases = a
		return nil
	}
}

// WithVolumes hides snapshot entries below root whose volume is not
// currently listed by src.
func WithVolumes(src VolumeSource, root string) Option {
	return func(s *Searcher) error {
		s.volumes = src
		s.volumeRoot = root
		return nil
	}
}

// WithClicks sets the click history used for ranking.
func WithClicks(c ClickSource) Option {
	return func(s *Searcher) error {
		s.clicks = c
		return nil
	}
}

// WithRanker replaces the default ranker, which favours /Applications.
func WithRanker(r *Ranker) Option {
	return func(s *Searcher) error {
		if r == nil {
			return ErrRankerRequired
		}
		s.ranker = r
		return nil
	}
}

// WithLimits sets result limits. Non-positive fields keep their defaults.
func WithLimits(l Limits) Option {
	return func(s *Searcher) error {
		if l.MaxResults > 0 {
			s.limits.MaxResults = l.MaxResults
		}
		if l.StrongLimit > 0 {
			s.limits.StrongLimit = l.StrongLimit
		}
		if l.FallbackThreshold > 0 {
			s.limits.FallbackThreshold = l.FallbackThreshold
		}
		if l.FallbackLimit > 0 {
			s.limits.FallbackLimit = l.FallbackLimit
		}
		return nil
	}
}

// NewSearcher creates a searcher over index. Every other source is optional.
func NewSearcher(index SnapshotSource, opts ...Option) (*Searcher, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}

	s := &Searcher{
		index:  index,
		ranker: NewRanker("/Applications", ""),
		limits: DefaultLimits(),
		logger: slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search returns up to MaxResults ranked results for keyword.
// typeFilter names a core.TypeFilter; unknown names search everything.
// A blank keyword returns an empty slice without touching any source.
func (s *Searcher) Search(ctx context.Context, keyword, typeFilter string) ([]core.SearchResult, error) {
	return s.SearchWithMonitor(ctx, keyword, typeFilter, nil)
}

// SearchWithMonitor is Search with callbacks at each stage.
func (s *Searcher) SearchWithMonitor(ctx context.Context, keyword, typeFilter string, monitor SearchMonitor) ([]core.SearchResult, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	var resolve func(string) (string, bool)
	if s.aliases != nil {
		resolve = s.aliases.Resolve
	}
	q := NewQuery(keyword, core.TypeFilterFromString(typeFilter), resolve)
	if q.Keyword == "" {
		return []core.SearchResult{}, nil
	}

	start := time.Now()
	monitor.Start(q)

	var (
		nativePaths []string
		memory      scanResult
	)
	var g errgroup.Group
	g.Go(func() error {
		if s.native == nil {
			return nil
		}
		nativePaths = s.native.Query(ctx, q.Words, q.Alias, q.Filter)
		return nil
	})
	g.Go(func() error {
		memStart := time.Now()
		var mounted core.VolumeSet
		if s.volumes != nil {
			mounted = s.volumes.Current()
		}
		res, err := scanSnapshot(ctx, s.index.Snapshot(), q, s.limits, s.volumeRootFor(), mounted)
		if err != nil {
			s.logger.Warn("memory scan failed", "keyword", q.Keyword, "err", err)
			return nil
		}
		memory = res
		s.logger.Debug("memory scan finished", "strong", res.strong, "fallback", res.fallback, "elapsed", time.Since(memStart))
		return nil
	})
	_ = g.Wait() // branches degrade to empty instead of failing

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	monitor.AfterNativeQuery(nativePaths)
	monitor.AfterMemoryScan(memory.strong, memory.fallback, memory.paths)

	merged := merge(nativePaths, memory.paths)
	monitor.AfterMerge(merged)

	var clicks map[string]uint64
	if s.clicks != nil {
		clicks = s.clicks.Snapshot()
	}
	results := s.ranker.Score(merged, q, clicks)
	if len(results) > s.limits.MaxResults {
		results = results[:s.limits.MaxResults]
	}
	monitor.Finish(results)

	s.logger.Debug("search finished",
		"keyword", q.Keyword,
		"filter", q.Filter,
		"native", len(nativePaths),
		"memory", len(memory.paths),
		"results", len(results),
		"elapsed", time.Since(start))
	return results, nil
}

// volumeRootFor returns the root to check mounts against, or "" when no
// volume source is configured.
func (s *Searcher) volumeRootFor() string {
	if s.volumes == nil {
		return ""
	}
	return s.volumeRoot
}

// merge concatenates the branches and drops repeated paths, keeping the
// first occurrence.
func merge(branches ...[]string) []core.SearchResult {
	total := 0
	for _, b := range branches {
		total += len(b)
	}
	seen := make(map[string]struct{}, total)
	out := make([]core.SearchResult, 0, total)
	for _, b := range branches {
		for _, p := range b {
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, core.NewSearchResult(p))
		}
	}
	return out
}
