// Package volume tracks which external volumes are mounted.
package volume

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/poiesic/filescout/core"
)

// ErrWatchUnavailable is returned by Watch when the volume root cannot be observed.
var ErrWatchUnavailable = errors.New("volume watch unavailable")

// Watcher lists the children of a volume root such as /Volumes.
// It keeps no state; every call to Current reads the directory again.
type Watcher struct {
	root   string
	logger *slog.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		if logger == nil {
			logger = slog.Default()
		}
		w.logger = logger
	}
}

// NewWatcher creates a watcher for root.
func NewWatcher(root string, opts ...Option) *Watcher {
	w := &Watcher{
		root:   filepath.Clean(root),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Root returns the volume root.
func (w *Watcher) Root() string {
	return w.root
}

// Current returns the mounted volumes. A missing or unreadable root
// yields the empty set.
func (w *Watcher) Current() core.VolumeSet {
	entries, err := os.ReadDir(w.root)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			w.logger.Warn("cannot list volumes", "root", w.root, "err", err)
		}
		return core.NewVolumeSet()
	}
	set := make(core.VolumeSet, len(entries))
	for _, e := range entries {
		set[filepath.Join(w.root, e.Name())] = struct{}{}
	}
	return set
}

// VolumeOf returns the volume a path lives on, or false when path is not
// below the root.
func (w *Watcher) VolumeOf(path string) (string, bool) {
	return VolumeOf(w.root, path)
}

// VolumeOf returns root/<first segment> for a path strictly below root.
func VolumeOf(root, path string) (string, bool) {
	prefix := strings.TrimSuffix(root, string(filepath.Separator)) + string(filepath.Separator)
	rest, ok := strings.CutPrefix(path, prefix)
	if !ok || rest == "" {
		return "", false
	}
	name, _, _ := strings.Cut(rest, string(filepath.Separator))
	return prefix + name, true
}

// Watch observes the root with fsnotify and calls onChange with the new
// set whenever the membership changes. It blocks until ctx is done.
func (w *Watcher) Watch(ctx context.Context, onChange func(core.VolumeSet)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWatchUnavailable, err)
	}
	defer fw.Close()

	if err := fw.Add(w.root); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWatchUnavailable, w.root, err)
	}
	w.logger.Debug("watching volumes", "root", w.root)

	last := w.Current()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			current := w.Current()
			if current.Equal(last) {
				continue
			}
			w.logger.Info("volume set changed", "event", ev.Op.String(), "path", ev.Name, "volumes", len(current))
			last = current
			onChange(current)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("volume watch error", "err", err)
		}
	}
}
