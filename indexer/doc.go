// Package indexer maintains the in-memory path index.
//
// A Builder periodically decides whether to rescan its roots, walks them
// in parallel on an ants worker pool, persists the result and publishes an
// immutable core.IndexSnapshot through an atomic pointer. Readers call
// Snapshot and never block a rescan.
//
// A rescan happens when one of these holds, checked in this order:
//
//	forced           ForceUpdate was called
//	volumes_changed  the mounted volume set differs from the last rescan
//	scheduled        the rescan interval elapsed since the last full scan
//
// Basic usage:
//
//	b, err := indexer.NewBuilder(roots, cache, volumes,
//	    indexer.WithScanState(stores.ScanState),
//	)
//	if err != nil {
//	    return err
//	}
//	defer b.Release()
//
//	if err := b.Load(ctx); err != nil {
//	    return err
//	}
//	go b.Run(ctx)
package indexer
