// Package alias maps short or localized tokens to canonical application
// names, e.g. "ps" to "photoshop" or "微信" to "wechat".
package alias

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/poiesic/filescout/core"
)

// DefaultRefreshInterval is how often RunRefreshLoop rebuilds the table.
const DefaultRefreshInterval = time.Hour

// Table is a case-folded token to canonical-name map.
// Lookups take a read lock; Refresh replaces the whole map at once.
type Table struct {
	mu              sync.RWMutex
	entries         map[string]string
	applicationsDir string
	logger          *slog.Logger
}

// Option configures a Table.
type Option func(*Table) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(t *Table) error {
		if logger == nil {
			logger = slog.Default()
		}
		t.logger = logger
		return nil
	}
}

// WithApplicationsDir sets the directory scanned for *.app bundles.
// An empty dir disables the dynamic pass.
func WithApplicationsDir(dir string) Option {
	return func(t *Table) error {
		t.applicationsDir = dir
		return nil
	}
}

// New creates a table holding only the built-in aliases.
// Call Refresh to add names discovered in the applications directory.
func New(opts ...Option) (*Table, error) {
	t := &Table{
		applicationsDir: "/Applications",
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}
	t.entries = t.build(false)
	return t, nil
}

// Resolve returns the canonical name for token.
func (t *Table) Resolve(token string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(token))
	if key == "" {
		return "", false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	name, ok := t.entries[key]
	return name, ok
}

// Len returns the number of tokens in the table.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Refresh rebuilds the table from the built-in list and the applications
// directory, then swaps it in.
func (t *Table) Refresh() {
	entries := t.build(true)

	t.mu.Lock()
	t.entries = entries
	t.mu.Unlock()

	t.logger.Debug("alias table refreshed", "entries", len(entries))
}

// RunRefreshLoop refreshes immediately and then every interval until ctx is done.
func (t *Table) RunRefreshLoop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	t.Refresh()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Refresh()
		}
	}
}

func (t *Table) build(scanApps bool) map[string]string {
	entries := make(map[string]string, len(builtin)+64)
	for _, pair := range builtin {
		addIfAbsent(entries, pair[0], pair[1])
	}
	if scanApps && t.applicationsDir != "" {
		t.addApplications(entries)
	}
	return entries
}

func (t *Table) addApplications(entries map[string]string) {
	dirents, err := os.ReadDir(t.applicationsDir)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			t.logger.Warn("cannot read applications directory", "dir", t.applicationsDir, "err", err)
		}
		return
	}
	for _, d := range dirents {
		name := d.Name()
		if !strings.HasSuffix(name, core.AppBundleExt) {
			continue
		}
		base := strings.ToLower(strings.TrimSuffix(name, core.AppBundleExt))
		if base == "" {
			continue
		}
		addIfAbsent(entries, base, base)
		if strings.ContainsAny(base, " -") {
			if short := Shorthand(base); utf8.RuneCountInString(short) > 1 {
				addIfAbsent(entries, short, base)
			}
		}
	}
}

// Shorthand returns the first rune of each space- or hyphen-separated
// segment of name. "visual studio code" yields "vsc".
func Shorthand(name string) string {
	var b strings.Builder
	for _, seg := range strings.FieldsFunc(name, func(r rune) bool { return r == ' ' || r == '-' }) {
		r, _ := utf8.DecodeRuneInString(seg)
		b.WriteRune(r)
	}
	return b.String()
}

func addIfAbsent(entries map[string]string, token, name string) {
	key := strings.ToLower(token)
	if _, ok := entries[key]; !ok {
		entries[key] = name
	}
}
