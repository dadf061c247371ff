package indexer

import "errors"

var (
	// ErrIndexCacheRequired is returned when no index cache is provided.
	ErrIndexCacheRequired = errors.New("index cache required")

	// ErrVolumeSourceRequired is returned when no volume source is provided.
	ErrVolumeSourceRequired = errors.New("volume source required")
)
