// Package linefile persists the index as a newline-delimited list of paths.
package linefile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/poiesic/filescout/storage"
)

// IndexCache implements storage.IndexCache on a plain text file.
// Every save rewrites the whole file through a temp file and rename, so a
// crash mid-write leaves the previous cache intact.
type IndexCache struct {
	path   string
	logger *slog.Logger
}

var _ storage.IndexCache = (*IndexCache)(nil)

// NewIndexCache creates a cache backed by the file at path.
// The file and its parent directory are created on first save.
func NewIndexCache(path string) *IndexCache {
	return &IndexCache{
		path:   path,
		logger: slog.Default(),
	}
}

// Path returns the cache file location.
func (c *IndexCache) Path() string {
	return c.path
}

// SaveEntries replaces the cache contents with paths, one per line.
func (c *IndexCache) SaveEntries(ctx context.Context, paths []string) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	w := bufio.NewWriter(tmp)
	for i, p := range paths {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				tmp.Close()
				return err
			}
		}
		if _, err := w.WriteString(p); err != nil {
			tmp.Close()
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			tmp.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		return fmt.Errorf("replace index cache: %w", err)
	}

	c.logger.Debug("index cache written", "path", c.path, "entries", len(paths))
	return nil
}

// LoadEntries reads the cached paths. Blank lines are skipped.
func (c *IndexCache) LoadEntries(ctx context.Context) ([]string, error) {
	f, err := os.Open(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var paths []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		paths = append(paths, line)
	}
	if err := scanner.Err(); err != nil {
		return paths, fmt.Errorf("%w: %w", storage.ErrTruncatedData, err)
	}
	return paths, nil
}
