// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package filescout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/poiesic/filescout/alias"
	"github.com/poiesic/filescout/config"
	"github.com/poiesic/filescout/core"
	"github.com/poiesic/filescout/history"
	"github.com/poiesic/filescout/indexer"
	"github.com/poiesic/filescout/native"
	"github.com/poiesic/filescout/pathrules"
	"github.com/poiesic/filescout/search"
	"github.com/poiesic/filescout/shell"
	"github.com/poiesic/filescout/storage/badger"
	"github.com/poiesic/filescout/storage/linefile"
	"github.com/poiesic/filescout/volume"
)

var (
	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("engine already started")

	// ErrClosed is returned when a closed engine is started.
	ErrClosed = errors.New("engine closed")
)

// Hit is one search result as presented to callers.
type Hit struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

// Engine wires the index, alias table, native adapter, click history and
// shell integration together.
type Engine struct {
	cfg      *config.Config
	stores   *badger.Stores
	builder  *indexer.Builder
	aliases  *alias.Table
	volumes  *volume.Watcher
	native   *native.Adapter
	history  *history.ClickHistory
	searcher *search.Searcher
	shell    shell.Integration
	logger   *slog.Logger

	mu      sync.Mutex
	started bool
	closed  bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	logger        *slog.Logger
	runner        native.Runner
	shell         shell.Integration
	progress      io.Writer
	progressEvery int
}

// WithLogger sets a custom logger for the engine and its components.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// WithNativeRunner replaces the mdfind runner.
func WithNativeRunner(r native.Runner) EngineOption {
	return func(o *engineOptions) {
		o.runner = r
	}
}

// WithShell replaces the exec-based shell integration.
func WithShell(s shell.Integration) EngineOption {
	return func(o *engineOptions) {
		o.shell = s
	}
}

// WithIndexProgress reports rescan progress to w every n entries.
func WithIndexProgress(w io.Writer, n int) EngineOption {
	return func(o *engineOptions) {
		o.progress = w
		o.progressEvery = n
	}
}

// NewEngine opens persisted state under cfg.CacheDir and seeds the index
// from the cache. Background loops start only with Start.
func NewEngine(ctx context.Context, cfg *config.Config, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{}
	for _, opt := range opts {
		opt(options)
	}
	logger := options.logger
	if logger == nil {
		logger = slog.Default()
	}

	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stores, err := badger.OpenStores(cfg.DBDir())
	if err != nil {
		return nil, err
	}

	e, err := build(ctx, cfg, stores, options, logger)
	if err != nil {
		stores.Close()
		return nil, err
	}
	return e, nil
}

func build(ctx context.Context, cfg *config.Config, stores *badger.Stores, options *engineOptions, logger *slog.Logger) (*Engine, error) {
	volumes := volume.NewWatcher(cfg.VolumeRoot, volume.WithLogger(logger))

	rules, err := pathrules.New(cfg.Index.PruneNames, cfg.Index.PrunePaths)
	if err != nil {
		return nil, err
	}
	builderOpts := []indexer.Option{
		indexer.WithScanState(stores.ScanState),
		indexer.WithRules(rules),
		indexer.WithPoolSize(cfg.Index.PoolSize),
		indexer.WithPollInterval(cfg.Index.PollInterval.Std()),
		indexer.WithRescanInterval(cfg.Index.RescanInterval.Std()),
		indexer.WithLogger(logger),
	}
	if options.progress != nil {
		builderOpts = append(builderOpts, indexer.WithProgress(options.progress, options.progressEvery))
	}
	builder, err := indexer.NewBuilder(cfg.ScanRoots(), linefile.NewIndexCache(cfg.IndexCachePath()), volumes, builderOpts...)
	if err != nil {
		return nil, err
	}
	if err := builder.Load(ctx); err != nil {
		logger.Warn("cannot restore index schedule, rescanning on first cycle", "err", err)
	}

	aliases, err := alias.New(alias.WithApplicationsDir(cfg.ApplicationsDir), alias.WithLogger(logger))
	if err != nil {
		builder.Release()
		return nil, err
	}
	aliases.Refresh()

	nativeAdapter := native.Disabled()
	if cfg.Native.Enabled {
		nativeOpts := []native.Option{
			native.WithScopes(
				native.Scope{Dirs: []string{cfg.HomeDir, cfg.ApplicationsDir}, Timeout: cfg.Native.HomeTimeout.Std()},
				native.Scope{Dirs: []string{cfg.VolumeRoot}, Timeout: cfg.Native.VolumeTimeout.Std()},
			),
			native.WithExcludePatterns(cfg.Native.ExcludePatterns),
			native.WithLogger(logger),
		}
		if options.runner != nil {
			nativeOpts = append(nativeOpts, native.WithRunner(options.runner))
		}
		nativeAdapter, err = native.NewWithDirs(cfg.HomeDir, cfg.ApplicationsDir, cfg.VolumeRoot, nativeOpts...)
		if err != nil {
			builder.Release()
			return nil, err
		}
	}

	clicks, err := history.New(ctx, stores.Clicks, history.WithLogger(logger))
	if err != nil {
		builder.Release()
		return nil, err
	}

	searcher, err := search.NewSearcher(builder,
		search.WithNative(nativeAdapter),
		search.WithAliases(aliases),
		search.WithVolumes(volumes, cfg.VolumeRoot),
		search.WithClicks(clicks),
		search.WithRanker(search.NewRanker(cfg.ApplicationsDir, cfg.DesktopDir())),
		search.WithLimits(search.Limits{
			MaxResults:        cfg.Search.MaxResults,
			StrongLimit:       cfg.Search.StrongLimit,
			FallbackThreshold: cfg.Search.FallbackThreshold,
			FallbackLimit:     cfg.Search.FallbackLimit,
		}),
		search.WithLogger(logger),
	)
	if err != nil {
		builder.Release()
		return nil, err
	}

	sh := options.shell
	if sh == nil {
		sh = &shell.System{Logger: logger}
	}

	return &Engine{
		cfg:      cfg,
		stores:   stores,
		builder:  builder,
		aliases:  aliases,
		volumes:  volumes,
		native:   nativeAdapter,
		history:  clicks,
		searcher: searcher,
		shell:    sh,
		logger:   logger,
	}, nil
}

// Start launches the index loop, the alias refresh loop and, when
// enabled, the volume watch. They stop when ctx is done or on Close.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if e.started {
		return ErrAlreadyStarted
	}
	e.started = true

	ctx, e.cancel = context.WithCancel(ctx)

	e.wg.Add(2)
	go func() {
		defer e.wg.Done()
		e.builder.Run(ctx)
	}()
	go func() {
		defer e.wg.Done()
		e.aliases.RunRefreshLoop(ctx, e.cfg.Alias.RefreshInterval.Std())
	}()

	if e.cfg.Index.WatchVolumes {
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			err := e.volumes.Watch(ctx, func(set core.VolumeSet) {
				e.builder.ForceUpdate()
			})
			if err != nil {
				e.logger.Warn("volume watch disabled, relying on polling", "err", err)
			}
		}()
	}

	e.logger.Info("engine started",
		"cache", e.cfg.CacheDir,
		"native", e.native.Enabled(),
		"entries", e.builder.Snapshot().Len(),
		"clicks", e.history.Len())
	return nil
}

// Close stops background loops and releases storage.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	cancel := e.cancel
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	e.wg.Wait()

	e.builder.Release()
	if err := e.stores.Close(); err != nil {
		e.logger.Error("error closing storage", "err", err)
		return err
	}
	return nil
}

// Search returns up to the configured maximum of ranked hits.
func (e *Engine) Search(ctx context.Context, keyword, typeFilter string) ([]Hit, error) {
	return e.SearchWithMonitor(ctx, keyword, typeFilter, nil)
}

// SearchWithMonitor is Search with stage callbacks.
func (e *Engine) SearchWithMonitor(ctx context.Context, keyword, typeFilter string, monitor search.SearchMonitor) ([]Hit, error) {
	results, err := e.searcher.SearchWithMonitor(ctx, keyword, typeFilter, monitor)
	if err != nil {
		return nil, err
	}
	hits := make([]Hit, len(results))
	for i, r := range results {
		hits[i] = Hit{Path: r.Path, Name: r.Name}
	}
	return hits, nil
}

// IsIndexing reports whether a rescan is running.
func (e *Engine) IsIndexing() bool {
	return e.builder.IsIndexing()
}

// TriggerIndexUpdate requests a rescan on the next cycle.
func (e *Engine) TriggerIndexUpdate() {
	e.builder.ForceUpdate()
}

// Rebuild rescans synchronously and returns the number of entries.
func (e *Engine) Rebuild(ctx context.Context) int {
	return e.builder.Rebuild(ctx).Len()
}

// IndexSize returns the number of entries in the current snapshot.
func (e *Engine) IndexSize() int {
	return e.builder.Snapshot().Len()
}

// ResolveAlias looks up a token in the alias table.
func (e *Engine) ResolveAlias(token string) (string, bool) {
	return e.aliases.Resolve(token)
}

// AliasCount returns the number of alias tokens.
func (e *Engine) AliasCount() int {
	return e.aliases.Len()
}

// RecordClick increments the click count for path.
func (e *Engine) RecordClick(ctx context.Context, path string) error {
	_, err := e.history.Record(ctx, path)
	return err
}

// ClickCount returns the click count for path.
func (e *Engine) ClickCount(path string) uint64 {
	return e.history.Count(path)
}

// OpenFile records a click and opens path with its default application.
func (e *Engine) OpenFile(ctx context.Context, path string) error {
	if err := e.checkTarget(path); err != nil {
		return err
	}
	e.recordBeforeOpen(ctx, path)
	return e.shell.Open(ctx, path)
}

// OpenFolder records a click and opens path if it is a directory,
// otherwise its parent.
func (e *Engine) OpenFolder(ctx context.Context, path string) error {
	if err := e.checkTarget(path); err != nil {
		return err
	}
	folder, err := shell.FolderFor(path)
	if err != nil {
		return err
	}
	e.recordBeforeOpen(ctx, path)
	return e.shell.Open(ctx, folder)
}

// CopyToClipboard copies path to the clipboard. It does not count as a click.
func (e *Engine) CopyToClipboard(ctx context.Context, path string) error {
	if err := e.checkTarget(path); err != nil {
		return err
	}
	return e.shell.CopyToClipboard(ctx, path)
}

func (e *Engine) checkTarget(path string) error {
	if err := core.ValidatePath(path); err != nil {
		return err
	}
	return shell.CheckExists(path)
}

// recordBeforeOpen counts the click. A persistence failure is already
// logged by the history and does not block the open.
func (e *Engine) recordBeforeOpen(ctx context.Context, path string) {
	if _, err := e.history.Record(ctx, path); err != nil {
		e.logger.Debug("click not persisted", "path", path, "err", err)
	}
}
