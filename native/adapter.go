// Package native queries the operating system's metadata index.
//
// Queries run as two concurrently executed, independently timed scopes: the
// user's home plus the applications directory, and the external volume
// root. A scope that fails or times out contributes nothing.
package native

import (
	"bufio"
	"bytes"
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/filescout/core"
	"github.com/poiesic/filescout/pathrules"
	"golang.org/x/sync/errgroup"
)

// Default per-scope timeouts.
const (
	DefaultHomeTimeout   = 3 * time.Second
	DefaultVolumeTimeout = 4 * time.Second
)

// Scope is one sub-query: a set of -onlyin directories and its deadline.
type Scope struct {
	Dirs    []string
	Timeout time.Duration
}

// Adapter issues scoped queries through a Runner.
type Adapter struct {
	runner   Runner
	scopes   []Scope
	exclude  *pathrules.Matcher
	disabled bool
	logger   *slog.Logger
}

// Option configures an Adapter.
type Option func(*Adapter) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// WithRunner replaces the mdfind runner.
func WithRunner(r Runner) Option {
	return func(a *Adapter) error {
		if r != nil {
			a.runner = r
		}
		return nil
	}
}

// WithScopes replaces the default home/applications and volume scopes.
func WithScopes(scopes ...Scope) Option {
	return func(a *Adapter) error {
		a.scopes = scopes
		return nil
	}
}

// WithExcludePatterns sets the doublestar patterns whose matches are dropped.
// Default is pathrules.DefaultExcludePatterns.
func WithExcludePatterns(patterns []string) Option {
	return func(a *Adapter) error {
		m, err := pathrules.New(nil, patterns)
		if err != nil {
			return err
		}
		a.exclude = m
		return nil
	}
}

// New creates an adapter with the default scopes for the current user:
// home plus /Applications within 3s, and /Volumes within 4s.
func New(opts ...Option) (*Adapter, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "/Users"
	}
	return NewWithDirs(home, "/Applications", "/Volumes", opts...)
}

// NewWithDirs creates an adapter with the default scope layout over the
// given directories.
func NewWithDirs(home, applications, volumeRoot string, opts ...Option) (*Adapter, error) {
	exclude, err := pathrules.New(nil, pathrules.DefaultExcludePatterns)
	if err != nil {
		return nil, err
	}
	a := &Adapter{
		runner: MDFind{},
		scopes: []Scope{
			{Dirs: []string{home, applications}, Timeout: DefaultHomeTimeout},
			{Dirs: []string{volumeRoot}, Timeout: DefaultVolumeTimeout},
		},
		exclude: exclude,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Disabled returns an adapter that never runs a query.
func Disabled() *Adapter {
	return &Adapter{
		disabled: true,
		exclude:  &pathrules.Matcher{},
		logger:   slog.Default(),
	}
}

// Enabled reports whether the adapter runs queries.
func (a *Adapter) Enabled() bool {
	return !a.disabled
}

// Query returns matching paths: all lines of the first scope, then the
// next. Failures and timeouts are logged and yield no lines; Query never
// returns an error. With no words, no alias and no filter the predicate
// is empty and Query returns nothing rather than every indexed item;
// search short-circuits blank keywords before reaching this point.
func (a *Adapter) Query(ctx context.Context, words []string, alias string, filter core.TypeFilter) []string {
	if a.disabled {
		return nil
	}
	predicate := BuildPredicate(words, alias, filter)
	if predicate == "" {
		return nil
	}
	a.logger.Debug("native query", "predicate", predicate)

	perScope := make([][]string, len(a.scopes))
	var g errgroup.Group
	for i, scope := range a.scopes {
		g.Go(func() error {
			perScope[i] = a.runScope(ctx, scope, predicate)
			return nil
		})
	}
	_ = g.Wait() // scopes never return errors

	var out []string
	for _, lines := range perScope {
		out = append(out, lines...)
	}
	return out
}

func (a *Adapter) runScope(ctx context.Context, scope Scope, predicate string) []string {
	timeout := scope.Timeout
	if timeout <= 0 {
		timeout = DefaultHomeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	raw, err := a.runner.Run(ctx, scope.Dirs, predicate)
	if err != nil {
		a.logger.Warn("native query failed", "scopes", scope.Dirs, "elapsed", time.Since(start), "err", err)
		return nil
	}
	return a.parse(raw)
}

func (a *Adapter) parse(raw []byte) []string {
	var paths []string
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || a.exclude.MatchPath(line) {
			continue
		}
		paths = append(paths, line)
	}
	if err := scanner.Err(); err != nil {
		a.logger.Warn("native output truncated", "err", err)
	}
	return paths
}
