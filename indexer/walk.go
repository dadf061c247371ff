package indexer

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/poiesic/filescout/pathrules"
)

// ctxCheckEvery is how many visited entries pass between cancellation checks.
const ctxCheckEvery = 1024

// walkRoot collects every entry below root that the rules do not prune.
// The root itself is excluded. Unreadable directories are logged and
// skipped; cancellation stops the walk and returns what was collected.
func walkRoot(ctx context.Context, root string, rules *pathrules.Matcher, progress *ProgressTracker, logger *slog.Logger) []string {
	var (
		paths   []string
		visited int
		pending int
	)

	flush := func() {
		if progress != nil && pending > 0 {
			progress.AddEntries(pending)
		}
		pending = 0
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("cannot read directory", "path", path, "err", err)
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		visited++
		if visited%ctxCheckEvery == 0 {
			flush()
			if ctx.Err() != nil {
				return filepath.SkipAll
			}
		}

		if path == root {
			return nil
		}
		if rules.Prune(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		paths = append(paths, path)
		pending++
		return nil
	})
	flush()
	if err != nil {
		logger.Warn("walk aborted", "root", root, "err", err)
	}
	return paths
}
