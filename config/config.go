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


package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/poiesic/filescout/pathrules"
)

// ErrInvalidConfig indicates a configuration value failed validation.
var ErrInvalidConfig = errors.New("invalid config")

// Duration is a time.Duration that reads and writes as a Go duration
// string ("30s", "10m") in TOML.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds every tunable of the engine.
type Config struct {
	// CacheDir holds index.cache and the db/ directory.
	CacheDir string `toml:"cache_dir"`

	// HomeDir is the user home; Desktop, Downloads and Documents under it are scanned.
	HomeDir string `toml:"home_dir"`

	// ApplicationsDir is scanned for entries and for dynamic aliases.
	// Default: "/Applications"
	ApplicationsDir string `toml:"applications_dir"`

	// VolumeRoot is the mount point parent for external volumes.
	// Default: "/Volumes"
	VolumeRoot string `toml:"volume_root"`

	Index  IndexConfig  `toml:"index"`
	Alias  AliasConfig  `toml:"alias"`
	Native NativeConfig `toml:"native"`
	Search SearchConfig `toml:"search"`
}

// IndexConfig controls the background index builder.
type IndexConfig struct {
	PollInterval   Duration `toml:"poll_interval"`
	RescanInterval Duration `toml:"rescan_interval"`

	// PoolSize is the number of concurrent root walks. Default: NumCPU/2, at least 1.
	PoolSize int `toml:"pool_size"`

	ExtraRoots []string `toml:"extra_roots"`
	PruneNames []string `toml:"prune_names"`
	PrunePaths []string `toml:"prune_paths"`

	// WatchVolumes enables fsnotify on VolumeRoot so mounts trigger a rescan
	// without waiting for the next poll.
	WatchVolumes bool `toml:"watch_volumes"`
}

// AliasConfig controls the alias table.
type AliasConfig struct {
	RefreshInterval Duration `toml:"refresh_interval"`
}

// NativeConfig controls the mdfind adapter.
type NativeConfig struct {
	Enabled         bool     `toml:"enabled"`
	HomeTimeout     Duration `toml:"home_timeout"`
	VolumeTimeout   Duration `toml:"volume_timeout"`
	ExcludePatterns []string `toml:"exclude_patterns"`
}

// SearchConfig controls result limits.
type SearchConfig struct {
	MaxResults        int `toml:"max_results"`
	StrongLimit       int `toml:"strong_limit"`
	FallbackThreshold int `toml:"fallback_threshold"`
	FallbackLimit     int `toml:"fallback_limit"`
}

// Option is a functional option for configuring a Config.
type Option func(*Config)

// WithCacheDir sets the state directory.
func WithCacheDir(dir string) Option {
	return func(c *Config) {
		c.CacheDir = dir
	}
}

// WithHomeDir sets the home directory.
func WithHomeDir(dir string) Option {
	return func(c *Config) {
		c.HomeDir = dir
	}
}

// WithApplicationsDir sets the applications directory.
func WithApplicationsDir(dir string) Option {
	return func(c *Config) {
		c.ApplicationsDir = dir
	}
}

// WithVolumeRoot sets the external volume mount root.
func WithVolumeRoot(dir string) Option {
	return func(c *Config) {
		c.VolumeRoot = dir
	}
}

// WithNativeEnabled toggles the mdfind branch.
func WithNativeEnabled(enabled bool) Option {
	return func(c *Config) {
		c.Native.Enabled = enabled
	}
}

// DefaultConfig returns a Config for the current user.
// Native search is enabled only on macOS.
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "/"
	}
	cacheRoot, err := os.UserCacheDir()
	if err != nil {
		cacheRoot = filepath.Join(home, ".cache")
	}

	return &Config{
		CacheDir:        filepath.Join(cacheRoot, "filescout"),
		HomeDir:         home,
		ApplicationsDir: "/Applications",
		VolumeRoot:      "/Volumes",
		Index: IndexConfig{
			PollInterval:   Duration(30 * time.Second),
			RescanInterval: Duration(600 * time.Second),
			PoolSize:       defaultPoolSize(),
			PruneNames:     slices.Clone(pathrules.DefaultPruneNames),
			PrunePaths:     slices.Clone(pathrules.DefaultPrunePaths),
			WatchVolumes:   true,
		},
		Alias: AliasConfig{
			RefreshInterval: Duration(time.Hour),
		},
		Native: NativeConfig{
			Enabled:         runtime.GOOS == "darwin",
			HomeTimeout:     Duration(3 * time.Second),
			VolumeTimeout:   Duration(4 * time.Second),
			ExcludePatterns: slices.Clone(pathrules.DefaultExcludePatterns),
		},
		Search: SearchConfig{
			MaxResults:        100,
			StrongLimit:       1000,
			FallbackThreshold: 20,
			FallbackLimit:     50,
		},
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
func NewConfig(opts ...Option) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Load decodes the TOML file at path over the defaults and applies opts.
// A missing file yields the defaults. Unknown keys are rejected.
func Load(path string, opts ...Option) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			dec := toml.NewDecoder(bytes.NewReader(data))
			dec.DisallowUnknownFields()
			if err := dec.Decode(cfg); err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
			}
		}
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Normalize cleans paths and replaces zero values with defaults.
func (c *Config) Normalize() {
	def := DefaultConfig()

	c.CacheDir = cleanOr(c.CacheDir, def.CacheDir)
	c.HomeDir = cleanOr(c.HomeDir, def.HomeDir)
	c.ApplicationsDir = cleanOr(c.ApplicationsDir, def.ApplicationsDir)
	c.VolumeRoot = cleanOr(c.VolumeRoot, def.VolumeRoot)
	for i, r := range c.Index.ExtraRoots {
		c.Index.ExtraRoots[i] = filepath.Clean(r)
	}

	if c.Index.PollInterval == 0 {
		c.Index.PollInterval = def.Index.PollInterval
	}
	if c.Index.RescanInterval == 0 {
		c.Index.RescanInterval = def.Index.RescanInterval
	}
	if c.Index.PoolSize == 0 {
		c.Index.PoolSize = def.Index.PoolSize
	}
	if c.Alias.RefreshInterval == 0 {
		c.Alias.RefreshInterval = def.Alias.RefreshInterval
	}
	if c.Native.HomeTimeout == 0 {
		c.Native.HomeTimeout = def.Native.HomeTimeout
	}
	if c.Native.VolumeTimeout == 0 {
		c.Native.VolumeTimeout = def.Native.VolumeTimeout
	}
	if c.Search.MaxResults == 0 {
		c.Search.MaxResults = def.Search.MaxResults
	}
	if c.Search.StrongLimit == 0 {
		c.Search.StrongLimit = def.Search.StrongLimit
	}
	if c.Search.FallbackThreshold == 0 {
		c.Search.FallbackThreshold = def.Search.FallbackThreshold
	}
	if c.Search.FallbackLimit == 0 {
		c.Search.FallbackLimit = def.Search.FallbackLimit
	}
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration first.
func (c *Config) Validate() error {
	c.Normalize()

	dirs := map[string]string{
		"cache_dir":        c.CacheDir,
		"home_dir":         c.HomeDir,
		"applications_dir": c.ApplicationsDir,
		"volume_root":      c.VolumeRoot,
	}
	for name, dir := range dirs {
		if !filepath.IsAbs(dir) {
			return fmt.Errorf("%w: %s must be absolute, got %q", ErrInvalidConfig, name, dir)
		}
	}
	for _, r := range c.Index.ExtraRoots {
		if !filepath.IsAbs(r) {
			return fmt.Errorf("%w: extra root must be absolute, got %q", ErrInvalidConfig, r)
		}
	}

	durations := map[string]Duration{
		"index.poll_interval":    c.Index.PollInterval,
		"index.rescan_interval":  c.Index.RescanInterval,
		"alias.refresh_interval": c.Alias.RefreshInterval,
		"native.home_timeout":    c.Native.HomeTimeout,
		"native.volume_timeout":  c.Native.VolumeTimeout,
	}
	for name, d := range durations {
		if d < 0 {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, name)
		}
	}

	ints := map[string]int{
		"index.pool_size":           c.Index.PoolSize,
		"search.max_results":        c.Search.MaxResults,
		"search.strong_limit":       c.Search.StrongLimit,
		"search.fallback_threshold": c.Search.FallbackThreshold,
		"search.fallback_limit":     c.Search.FallbackLimit,
	}
	for name, v := range ints {
		if v < 0 {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, name)
		}
	}

	if _, err := pathrules.New(c.Index.PruneNames, c.Index.PrunePaths); err != nil {
		return fmt.Errorf("%w: index.prune_paths: %w", ErrInvalidConfig, err)
	}
	if _, err := pathrules.New(nil, c.Native.ExcludePatterns); err != nil {
		return fmt.Errorf("%w: native.exclude_patterns: %w", ErrInvalidConfig, err)
	}
	return nil
}

// DesktopDir is the home Desktop directory, which earns a ranking bonus.
func (c *Config) DesktopDir() string {
	return filepath.Join(c.HomeDir, "Desktop")
}

// IndexCachePath is the newline-delimited index file.
func (c *Config) IndexCachePath() string {
	return filepath.Join(c.CacheDir, "index.cache")
}

// DBDir is the badger directory.
func (c *Config) DBDir() string {
	return filepath.Join(c.CacheDir, "db")
}

// ScanRoots lists the directories the index builder walks, in order.
// Roots are not checked for existence here.
func (c *Config) ScanRoots() []string {
	roots := []string{
		filepath.Join(c.HomeDir, "Desktop"),
		filepath.Join(c.HomeDir, "Downloads"),
		filepath.Join(c.HomeDir, "Documents"),
		c.ApplicationsDir,
		c.VolumeRoot,
	}
	return append(roots, c.Index.ExtraRoots...)
}

func defaultPoolSize() int {
	return max(runtime.NumCPU()/2, 1)
}

func cleanOr(path, fallback string) string {
	if path == "" {
		return fallback
	}
	return filepath.Clean(path)
}
