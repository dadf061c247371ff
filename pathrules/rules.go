// Package pathrules decides which filesystem paths are skipped by the
// walker and dropped from native results.
//
// Patterns use doublestar syntax and are matched against absolute,
// slash-separated paths, so "/**/Library" prunes every Library directory
// at any depth.
package pathrules

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Default prune and exclusion rules.
var (
	DefaultPruneNames      = []string{".git", "node_modules"}
	DefaultPrunePaths      = []string{"/**/Library", "/**/*.app/Contents/MacOS"}
	DefaultExcludePatterns = []string{"/**/*.app/Contents/MacOS/**", "/**/Library/**"}
)

// Matcher holds a compiled set of name and path rules.
// The zero value matches nothing except hidden names.
type Matcher struct {
	names    map[string]struct{}
	patterns []string
}

// New builds a Matcher. Every pattern is validated up front.
func New(names, patterns []string) (*Matcher, error) {
	m := &Matcher{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			m.names[n] = struct{}{}
		}
	}
	for _, p := range patterns {
		p = filepath.ToSlash(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("%w: %q", ErrBadPattern, p)
		}
		m.patterns = append(m.patterns, p)
	}
	return m, nil
}

// Prune reports whether the walker should skip the entry at path.
// For directories this also means not descending into them.
func (m *Matcher) Prune(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return true
	}
	if _, ok := m.names[name]; ok {
		return true
	}
	return m.MatchPath(path)
}

// MatchPath reports whether path matches any configured pattern.
func (m *Matcher) MatchPath(path string) bool {
	slashed := filepath.ToSlash(path)
	for _, p := range m.patterns {
		// Patterns are validated in New, so Match cannot fail here.
		if ok, _ := doublestar.Match(p, slashed); ok {
			return true
		}
	}
	return false
}

// Filter returns the paths that match no pattern, preserving order.
func (m *Matcher) Filter(paths []string) []string {
	kept := paths[:0:0]
	for _, p := range paths {
		if !m.MatchPath(p) {
			kept = append(kept, p)
		}
	}
	return kept
}
