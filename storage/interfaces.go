package storage

import (
	"context"

	"github.com/poiesic/filescout/core"
)

// IndexCache persists the full list of indexed paths between runs.
type IndexCache interface {
	// SaveEntries replaces the cached list with paths.
	// The previous contents are never appended to.
	SaveEntries(ctx context.Context, paths []string) error

	// LoadEntries returns the cached paths in the order they were saved.
	// Returns nil, nil when no cache exists yet.
	LoadEntries(ctx context.Context) ([]string, error)
}

// ClickRepository persists click-history records keyed by path.
type ClickRepository interface {
	// SaveClick stores the record, replacing any previous value for its path.
	SaveClick(ctx context.Context, record *core.ClickRecord) error

	// GetClick retrieves the record for path.
	// Returns ErrNotFound if the path was never clicked.
	GetClick(ctx context.Context, path string) (*core.ClickRecord, error)

	// LoadClicks returns every stored record.
	LoadClicks(ctx context.Context) ([]*core.ClickRecord, error)
}

// ScanStateRepository persists the index builder's checkpoint.
type ScanStateRepository interface {
	// SaveScanState stores the checkpoint, setting UpdatedAt.
	SaveScanState(ctx context.Context, state *core.ScanState) error

	// LoadScanState retrieves the checkpoint.
	// Returns nil, nil if no checkpoint exists.
	LoadScanState(ctx context.Context) (*core.ScanState, error)
}
