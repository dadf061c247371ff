// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/poiesic/filescout"
	"github.com/poiesic/filescout/config"
	"github.com/poiesic/filescout/core"
	"github.com/poiesic/filescout/search"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "filescout",
		Usage: "Fast filename search over your home folder, applications and mounted volumes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to TOML configuration file",
				Value:   defaultConfigPath(),
			},
			&cli.StringFlag{
				Name:  "cache-dir",
				Usage: "Override the directory holding the index cache and click history",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Search the index and print ranked hits",
				ArgsUsage: "<keyword...>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "type",
						Aliases: []string{"t"},
						Usage:   "Restrict results (all, image, video, audio, pdf, doc, folder, app)",
						Value:   string(core.FilterAll),
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of hits to print",
						Value:   10,
					},
					&cli.BoolFlag{
						Name:  "explain",
						Usage: "Print the stages of the search to stderr",
					},
					&cli.BoolFlag{
						Name:  "no-native",
						Usage: "Skip the system metadata index",
					},
				},
			},
			{
				Name:   "index",
				Usage:  "Rebuild the index now and save it",
				Action: indexCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "progress",
						Usage: "Report progress every N entries (0 disables)",
						Value: 0,
					},
				},
			},
			{
				Name:   "run",
				Usage:  "Keep the index fresh until interrupted",
				Action: runCommand,
			},
			{
				Name:      "click",
				Usage:     "Record that a path was chosen from results",
				ArgsUsage: "<path>",
				Action: pathCommand(func(ctx context.Context, e *filescout.Engine, w io.Writer, path string) error {
					if err := e.RecordClick(ctx, path); err != nil {
						return err
					}
					fmt.Fprintf(w, "%s: %d\n", path, e.ClickCount(path))
					return nil
				}),
			},
			{
				Name:      "open",
				Usage:     "Open a path with its default application",
				ArgsUsage: "<path>",
				Action: pathCommand(func(ctx context.Context, e *filescout.Engine, _ io.Writer, path string) error {
					return e.OpenFile(ctx, path)
				}),
			},
			{
				Name:      "reveal",
				Usage:     "Open the folder containing a path",
				ArgsUsage: "<path>",
				Action: pathCommand(func(ctx context.Context, e *filescout.Engine, _ io.Writer, path string) error {
					return e.OpenFolder(ctx, path)
				}),
			},
			{
				Name:      "copy",
				Usage:     "Copy a file to the clipboard",
				ArgsUsage: "<path>",
				Action: pathCommand(func(ctx context.Context, e *filescout.Engine, _ io.Writer, path string) error {
					return e.CopyToClipboard(ctx, path)
				}),
			},
			{
				Name:      "aliases",
				Usage:     "Resolve an application alias",
				ArgsUsage: "[token]",
				Action:    aliasesCommand,
			},
		},
	}
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "filescout", "config.toml")
}

func loadConfig(c *cli.Context, opts ...config.Option) (*config.Config, error) {
	if dir := c.String("cache-dir"); dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		opts = append(opts, config.WithCacheDir(abs))
	}
	cfg, err := config.Load(c.String("config"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func openEngine(ctx context.Context, cfg *config.Config, opts ...filescout.EngineOption) (*filescout.Engine, error) {
	e, err := filescout.NewEngine(ctx, cfg, append(opts, filescout.WithLogger(slog.Default()))...)
	if err != nil {
		return nil, fmt.Errorf("failed to open engine: %w", err)
	}
	return e, nil
}

func searchCommand(c *cli.Context) error {
	ctx := c.Context

	keyword := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(keyword) == "" {
		return fmt.Errorf("keyword is required")
	}
	filter, err := core.ParseTypeFilter(c.String("type"))
	if err != nil {
		return err
	}
	limit := c.Int("limit")
	if limit <= 0 {
		return fmt.Errorf("limit must be greater than 0")
	}

	var opts []config.Option
	if c.Bool("no-native") {
		opts = append(opts, config.WithNativeEnabled(false))
	}
	cfg, err := loadConfig(c, opts...)
	if err != nil {
		return err
	}
	e, err := openEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer e.Close()

	if e.IndexSize() == 0 {
		slog.Info("index cache is empty, building it first")
		e.Rebuild(ctx)
	}

	var monitor search.SearchMonitor
	if c.Bool("explain") {
		monitor = &explainMonitor{w: c.App.ErrWriter}
	}
	hits, err := e.SearchWithMonitor(ctx, keyword, string(filter), monitor)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	w := c.App.Writer
	if len(hits) == 0 {
		fmt.Fprintln(w, "No results")
		return nil
	}
	for _, h := range hits[:min(limit, len(hits))] {
		fmt.Fprintf(w, "%s -> %s\n", h.Name, h.Path)
	}
	return nil
}

func indexCommand(c *cli.Context) error {
	ctx := c.Context

	every := c.Int("progress")
	if every < 0 {
		return fmt.Errorf("progress must not be negative")
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	var opts []filescout.EngineOption
	if every > 0 {
		opts = append(opts, filescout.WithIndexProgress(c.App.ErrWriter, every))
	}
	e, err := openEngine(ctx, cfg, opts...)
	if err != nil {
		return err
	}
	defer e.Close()

	fmt.Fprintf(c.App.ErrWriter, "Cache: %s\n", cfg.CacheDir)
	fmt.Fprintf(c.App.ErrWriter, "Roots: %s\n", strings.Join(cfg.ScanRoots(), ", "))
	fmt.Fprintln(c.App.ErrWriter)

	n := e.Rebuild(ctx)
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("indexing interrupted: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Indexed %d entries\n", n)
	return nil
}

func runCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	e, err := openEngine(ctx, cfg)
	if err != nil {
		return err
	}
	if err := e.Start(ctx); err != nil {
		e.Close()
		return err
	}

	<-ctx.Done()
	slog.Info("shutting down")
	return e.Close()
}

type pathAction func(ctx context.Context, e *filescout.Engine, w io.Writer, path string) error

func pathCommand(action pathAction) cli.ActionFunc {
	return func(c *cli.Context) error {
		if c.NArg() != 1 {
			return fmt.Errorf("exactly one path is required")
		}
		path, err := filepath.Abs(c.Args().First())
		if err != nil {
			return err
		}
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		e, err := openEngine(c.Context, cfg)
		if err != nil {
			return err
		}
		defer e.Close()
		return action(c.Context, e, c.App.Writer, path)
	}
}

func aliasesCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	e, err := openEngine(c.Context, cfg)
	if err != nil {
		return err
	}
	defer e.Close()

	w := c.App.Writer
	if c.NArg() == 0 {
		fmt.Fprintf(w, "%d aliases\n", e.AliasCount())
		return nil
	}
	for _, token := range c.Args().Slice() {
		if full, ok := e.ResolveAlias(token); ok {
			fmt.Fprintf(w, "%s -> %s\n", token, full)
		} else {
			fmt.Fprintf(w, "%s: no alias\n", token)
		}
	}
	return nil
}

// explainMonitor prints each search stage.
type explainMonitor struct {
	w io.Writer
}

func (m *explainMonitor) Start(q search.Query) {
	fmt.Fprintf(m.w, "query: %q words=%v filter=%s", q.Keyword, q.Words, q.Filter)
	if q.Alias != "" {
		fmt.Fprintf(m.w, " alias=%q", q.Alias)
	}
	fmt.Fprintln(m.w)
}

func (m *explainMonitor) AfterNativeQuery(paths []string) {
	fmt.Fprintf(m.w, "native: %d paths\n", len(paths))
}

func (m *explainMonitor) AfterMemoryScan(strong, fallback int, _ []string) {
	fmt.Fprintf(m.w, "memory: %d strong, %d fallback\n", strong, fallback)
}

func (m *explainMonitor) AfterMerge(results []core.SearchResult) {
	fmt.Fprintf(m.w, "merged: %d unique\n", len(results))
}

func (m *explainMonitor) Finish(results []core.SearchResult) {
	for i, r := range results {
		if i == 20 {
			fmt.Fprintf(m.w, "  ... %d more\n", len(results)-i)
			break
		}
		fmt.Fprintf(m.w, "  %6d  %s\n", r.Score, r.Path)
	}
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
