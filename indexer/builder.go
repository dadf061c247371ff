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


package indexer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/filescout/core"
	"github.com/poiesic/filescout/pathrules"
	"github.com/poiesic/filescout/storage"
)

// Default timings.
const (
	DefaultPollInterval   = 30 * time.Second
	DefaultRescanInterval = 600 * time.Second
)

const (
	persistAttempts  = 3
	persistBaseDelay = 100 * time.Millisecond
)

// Reason explains why a cycle rescanned. The empty Reason means no rescan.
type Reason string

const (
	ReasonNone           Reason = ""
	ReasonForced         Reason = "forced"
	ReasonVolumesChanged Reason = "volumes_changed"
	ReasonScheduled      Reason = "scheduled"
)

// VolumeSource reports the currently mounted volumes.
type VolumeSource interface {
	Current() core.VolumeSet
}

// Builder owns the index snapshot and the schedule that refreshes it.
type Builder struct {
	roots          []string
	cache          storage.IndexCache
	scanState      storage.ScanStateRepository
	volumes        VolumeSource
	rules          *pathrules.Matcher
	pool           *ants.Pool
	pollInterval   time.Duration
	rescanInterval time.Duration
	progress       io.Writer
	progressEvery  int
	now            func() time.Time
	logger         *slog.Logger

	snapshot atomic.Pointer[core.IndexSnapshot]
	indexing atomic.Bool
	force    atomic.Bool
	wake     chan struct{}

	// Guards the schedule fields below. Never held during a walk.
	mu              sync.Mutex
	lastFullScan    time.Time
	lastFingerprint uint64
	haveFingerprint bool
}

// Option configures a Builder.
type Option func(*Builder) error

// WithPoolSize sets the number of roots walked concurrently.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(b *Builder) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if b.pool != nil {
			b.pool.Release()
		}
		b.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// WithRules sets the prune rules used while walking.
// Default prunes pathrules.DefaultPruneNames and DefaultPrunePaths.
func WithRules(rules *pathrules.Matcher) Option {
	return func(b *Builder) error {
		if rules != nil {
			b.rules = rules
		}
		return nil
	}
}

// WithScanState persists the rescan schedule so it survives restarts.
func WithScanState(repo storage.ScanStateRepository) Option {
	return func(b *Builder) error {
		b.scanState = repo
		return nil
	}
}

// WithPollInterval sets the pause between cycles in Run.
func WithPollInterval(d time.Duration) Option {
	return func(b *Builder) error {
		if d > 0 {
			b.pollInterval = d
		}
		return nil
	}
}

// WithRescanInterval sets the maximum age of the index before a scheduled rescan.
func WithRescanInterval(d time.Duration) Option {
	return func(b *Builder) error {
		if d > 0 {
			b.rescanInterval = d
		}
		return nil
	}
}

// WithProgress reports walk progress to w every reportInterval entries.
func WithProgress(w io.Writer, reportInterval int) Option {
	return func(b *Builder) error {
		b.progress = w
		b.progressEvery = reportInterval
		return nil
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) error {
		if now != nil {
			b.now = now
		}
		return nil
	}
}

// NewBuilder creates a builder that walks roots in order.
// Missing roots are skipped at scan time, so roots may include
// directories that do not exist yet.
func NewBuilder(roots []string, cache storage.IndexCache, volumes VolumeSource, opts ...Option) (*Builder, error) {
	if cache == nil {
		return nil, ErrIndexCacheRequired
	}
	if volumes == nil {
		return nil, ErrVolumeSourceRequired
	}

	rules, err := pathrules.New(pathrules.DefaultPruneNames, pathrules.DefaultPrunePaths)
	if err != nil {
		return nil, err
	}

	b := &Builder{
		roots:          append([]string(nil), roots...),
		cache:          cache,
		volumes:        volumes,
		rules:          rules,
		pollInterval:   DefaultPollInterval,
		rescanInterval: DefaultRescanInterval,
		now:            time.Now,
		logger:         slog.Default(),
		wake:           make(chan struct{}, 1),
	}

	for _, opt := range opts {
		if err := opt(b); err != nil {
			b.Release()
			return nil, err
		}
	}

	if b.pool == nil {
		pool, err := ants.NewPool(max(runtime.NumCPU()/2, 1))
		if err != nil {
			return nil, err
		}
		b.pool = pool
	}
	b.snapshot.Store(core.NewIndexSnapshot(nil, time.Time{}))

	return b, nil
}

// Release frees the worker pool. The builder must not be used afterwards.
func (b *Builder) Release() {
	if b.pool != nil {
		if err := b.pool.ReleaseTimeout(time.Second); err != nil {
			b.logger.Warn("worker pool did not drain", "err", err)
		}
	}
}

// Snapshot returns the current index. It never returns nil.
func (b *Builder) Snapshot() *core.IndexSnapshot {
	return b.snapshot.Load()
}

// IsIndexing reports whether a rescan is in progress.
func (b *Builder) IsIndexing() bool {
	return b.indexing.Load()
}

// ForceUpdate requests a rescan on the next cycle and wakes Run.
func (b *Builder) ForceUpdate() {
	b.force.Store(true)
	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// Load seeds the snapshot from the index cache and restores the
// schedule from the scan state, if one is configured. A cache that can
// only be read in part still seeds the snapshot with what was read.
func (b *Builder) Load(ctx context.Context) error {
	paths, err := b.cache.LoadEntries(ctx)
	if err != nil {
		b.logger.Warn("index cache read incompletely", "entries", len(paths), "err", err)
	}
	if len(paths) > 0 {
		b.snapshot.Store(core.NewIndexSnapshot(paths, b.now()))
		b.logger.Info("loaded index from cache", "entries", len(paths))
	}

	if b.scanState == nil {
		return nil
	}
	state, err := b.scanState.LoadScanState(ctx)
	if err != nil {
		return err
	}
	if state != nil {
		b.mu.Lock()
		b.lastFullScan = state.LastFullScan
		b.lastFingerprint = state.VolumeFingerprint
		b.haveFingerprint = true
		b.mu.Unlock()
	}
	return nil
}

// Run cycles until ctx is cancelled, pausing the poll interval between
// cycles. ForceUpdate cuts the pause short.
func (b *Builder) Run(ctx context.Context) {
	b.logger.Debug("index builder started", "poll", b.pollInterval, "rescan", b.rescanInterval)
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			b.logger.Debug("index builder stopped")
			return
		case <-timer.C:
		case <-b.wake:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}
		b.Cycle(ctx)
		timer.Reset(b.pollInterval)
	}
}

// Cycle runs one scheduling step and rescans if needed.
// Returns the reason for the rescan, or ReasonNone.
func (b *Builder) Cycle(ctx context.Context) Reason {
	volumes := b.volumes.Current()
	reason := b.decide(volumes)
	if reason == ReasonNone {
		return ReasonNone
	}
	if !b.rescan(ctx, reason, volumes) {
		return ReasonNone
	}
	return reason
}

// Rebuild rescans unconditionally.
func (b *Builder) Rebuild(ctx context.Context) *core.IndexSnapshot {
	b.rescan(ctx, ReasonForced, b.volumes.Current())
	return b.Snapshot()
}

func (b *Builder) decide(volumes core.VolumeSet) Reason {
	if b.force.Load() {
		return ReasonForced
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.haveFingerprint && volumes.Fingerprint() != b.lastFingerprint {
		return ReasonVolumesChanged
	}
	if b.lastFullScan.IsZero() || b.now().Sub(b.lastFullScan) > b.rescanInterval {
		return ReasonScheduled
	}
	return ReasonNone
}

// rescan walks every existing root and publishes the result.
// Returns false if another rescan was already running.
func (b *Builder) rescan(ctx context.Context, reason Reason, volumes core.VolumeSet) bool {
	if !b.indexing.CompareAndSwap(false, true) {
		b.logger.Debug("rescan already in progress", "reason", reason)
		return false
	}
	defer b.indexing.Store(false)
	b.force.Store(false)

	start := b.now()
	b.logger.Info("rebuilding index", "reason", reason)

	roots := b.existingRoots()
	var tracker *ProgressTracker
	if b.progress != nil {
		tracker = NewProgressTracker(b.progress, len(roots), b.progressEvery)
		tracker.Start()
	}

	perRoot := make([][]string, len(roots))
	var wg sync.WaitGroup
	for i, root := range roots {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			perRoot[i] = walkRoot(ctx, root, b.rules, tracker, b.logger)
			if tracker != nil {
				tracker.RootDone()
			}
			b.logger.Info("scanned root", "root", root, "entries", len(perRoot[i]))
		}
		if err := b.pool.Submit(task); err != nil {
			b.logger.Warn("worker pool unavailable, walking inline", "root", root, "err", err)
			task()
		}
	}
	wg.Wait()
	if tracker != nil {
		tracker.Finish()
	}

	total := 0
	for _, p := range perRoot {
		total += len(p)
	}
	paths := make([]string, 0, total)
	for _, p := range perRoot {
		paths = append(paths, p...)
	}

	b.snapshot.Store(core.NewIndexSnapshot(paths, b.now()))

	if ctx.Err() != nil {
		// A partial walk is served but never persisted or counted as a full scan.
		b.logger.Warn("rescan cancelled, keeping partial index in memory", "entries", len(paths))
		return true
	}

	finished := b.now()
	fingerprint := volumes.Fingerprint()
	b.mu.Lock()
	b.lastFullScan = finished
	b.lastFingerprint = fingerprint
	b.haveFingerprint = true
	b.mu.Unlock()

	b.persist(ctx, paths, &core.ScanState{
		LastFullScan:      finished,
		VolumeFingerprint: fingerprint,
		EntryCount:        uint64(len(paths)),
	})

	b.logger.Info("index rebuilt", "reason", reason, "entries", len(paths), "roots", len(roots), "duration", finished.Sub(start))
	return true
}

func (b *Builder) persist(ctx context.Context, paths []string, state *core.ScanState) {
	err := storage.RetryWithBackoff(ctx, persistAttempts, persistBaseDelay, func(ctx context.Context) error {
		return b.cache.SaveEntries(ctx, paths)
	})
	if err != nil {
		b.logger.Error("failed to persist index cache", "entries", len(paths), "err", err)
	}

	if b.scanState == nil {
		return
	}
	err = storage.RetryWithBackoff(ctx, persistAttempts, persistBaseDelay, func(ctx context.Context) error {
		return b.scanState.SaveScanState(ctx, state)
	})
	if err != nil {
		b.logger.Error("failed to persist scan state", "err", err)
	}
}

func (b *Builder) existingRoots() []string {
	roots := make([]string, 0, len(b.roots))
	seen := make(map[string]struct{}, len(b.roots))
	for _, r := range b.roots {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		info, err := os.Stat(r)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				b.logger.Warn("cannot stat root", "root", r, "err", err)
			}
			continue
		}
		if !info.IsDir() {
			continue
		}
		roots = append(roots, r)
	}
	return roots
}
