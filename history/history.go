// Package history counts how often each path was opened from results.
package history

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/poiesic/filescout/core"
	"github.com/poiesic/filescout/storage"
)

// ErrRepositoryRequired is returned when no click repository is provided.
var ErrRepositoryRequired = errors.New("click repository required")

const (
	persistAttempts  = 3
	persistBaseDelay = 10 * time.Millisecond
)

// ClickHistory is the in-memory click table backed by a ClickRepository.
// Memory is authoritative: a failed write keeps the incremented count.
type ClickHistory struct {
	mu     sync.Mutex
	counts map[string]uint64
	repo   storage.ClickRepository
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a ClickHistory.
type Option func(*ClickHistory) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(h *ClickHistory) error {
		if logger == nil {
			logger = slog.Default()
		}
		h.logger = logger
		return nil
	}
}

// New loads every stored record from repo.
func New(ctx context.Context, repo storage.ClickRepository, opts ...Option) (*ClickHistory, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	h := &ClickHistory{
		counts: make(map[string]uint64),
		repo:   repo,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(h); err != nil {
			return nil, err
		}
	}

	records, err := repo.LoadClicks(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		h.counts[r.Path] = r.Count
	}
	if len(records) > 0 {
		h.logger.Info("loaded click history", "paths", len(records))
	}
	return h, nil
}

// Record increments the count for path and persists it. The lock is held
// across the write so stored counts never go backwards.
func (h *ClickHistory) Record(ctx context.Context, path string) (uint64, error) {
	if err := core.ValidatePath(path); err != nil {
		return 0, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.counts[path]++
	count := h.counts[path]

	record := &core.ClickRecord{
		Path:      path,
		Count:     count,
		UpdatedAt: h.now().UTC(),
	}
	err := storage.RetryWithBackoff(ctx, persistAttempts, persistBaseDelay, func(ctx context.Context) error {
		return h.repo.SaveClick(ctx, record)
	})
	if err != nil {
		h.logger.Error("failed to persist click", "path", path, "count", count, "err", err)
		return count, err
	}
	return count, nil
}

// Count returns the number of recorded clicks for path.
func (h *ClickHistory) Count(path string) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.counts[path]
}

// Snapshot returns a copy of the table.
func (h *ClickHistory) Snapshot() map[string]uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return maps.Clone(h.counts)
}

// Len returns the number of paths with at least one click.
func (h *ClickHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.counts)
}
