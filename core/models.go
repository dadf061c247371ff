package core

import (
	"path/filepath"
	"time"
)

// IndexEntry is a single filesystem path known to the in-memory index.
// Name is always the final segment of Path.
type IndexEntry struct {
	Path string
	Name string
}

// NewIndexEntry builds an entry for an absolute path, deriving its display name.
func NewIndexEntry(path string) IndexEntry {
	return IndexEntry{Path: path, Name: DisplayName(path)}
}

// IndexSnapshot is an immutable, point-in-time view of the index.
// A rescan never mutates a published snapshot; it builds a new one.
type IndexSnapshot struct {
	Entries []IndexEntry
	BuiltAt time.Time
}

// NewIndexSnapshot builds a snapshot from a list of absolute paths.
func NewIndexSnapshot(paths []string, builtAt time.Time) *IndexSnapshot {
	entries := make([]IndexEntry, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		entries = append(entries, NewIndexEntry(p))
	}
	return &IndexSnapshot{Entries: entries, BuiltAt: builtAt}
}

// Len returns the number of entries, tolerating a nil snapshot.
func (s *IndexSnapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Entries)
}

// Paths returns the entry paths in index order.
func (s *IndexSnapshot) Paths() []string {
	if s == nil {
		return nil
	}
	paths := make([]string, len(s.Entries))
	for i, e := range s.Entries {
		paths[i] = e.Path
	}
	return paths
}

// SearchResult is a ranked hit for a single query. Score is query-scoped.
type SearchResult struct {
	Path  string
	Name  string
	Score int
}

// NewSearchResult builds an unscored result for a path.
func NewSearchResult(path string) SearchResult {
	return SearchResult{Path: path, Name: DisplayName(path)}
}

// ClickRecord counts how often a path was opened from search results.
type ClickRecord struct {
	Path      string
	Count     uint64
	UpdatedAt time.Time
}

// ScanState is the index builder's persisted checkpoint.
type ScanState struct {
	LastFullScan      time.Time // When the last full rescan completed
	VolumeFingerprint uint64    // Fingerprint of the volume set seen by that rescan
	EntryCount        uint64
	UpdatedAt         time.Time
}

// DisplayName returns the final segment of a path.
func DisplayName(path string) string {
	return filepath.Base(path)
}
