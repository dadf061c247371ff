// Package shell hands paths to the desktop: open, reveal and copy.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrPathNotFound indicates the path does not exist on disk.
var ErrPathNotFound = errors.New("path not found")

// Integration performs desktop actions on existing paths.
type Integration interface {
	// Open opens target with its default application.
	Open(ctx context.Context, target string) error
	// CopyToClipboard places path on the clipboard.
	CopyToClipboard(ctx context.Context, path string) error
}

// System implements Integration with the macOS command-line tools.
// Empty fields use the standard binary names.
type System struct {
	OpenBin      string
	OSAScriptBin string
	PBCopyBin    string
	Logger       *slog.Logger
}

var _ Integration = (*System)(nil)

// Open runs open <target>.
func (s *System) Open(ctx context.Context, target string) error {
	return s.run(ctx, or(s.OpenBin, "open"), nil, target)
}

// CopyToClipboard copies the file object through AppleScript. If that
// fails, the path text is copied with pbcopy instead.
func (s *System) CopyToClipboard(ctx context.Context, path string) error {
	script := fmt.Sprintf("set theFile to (POSIX file %s)\nset the clipboard to theFile", appleScriptString(path))
	err := s.run(ctx, or(s.OSAScriptBin, "osascript"), nil, "-e", script)
	if err == nil {
		return nil
	}
	s.logger().Debug("file clipboard copy failed, copying path text", "path", path, "err", err)
	return s.run(ctx, or(s.PBCopyBin, "pbcopy"), strings.NewReader(path))
}

func (s *System) run(ctx context.Context, bin string, stdin *strings.Reader, args ...string) error {
	cmd := exec.CommandContext(ctx, bin, args...)
	if stdin != nil {
		cmd.Stdin = stdin
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w: %s", bin, err, bytes.TrimSpace(stderr.Bytes()))
	}
	return nil
}

func (s *System) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// CheckExists returns ErrPathNotFound when path is missing.
func CheckExists(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}
		return err
	}
	return nil
}

// FolderFor returns path when it is a directory, otherwise its parent.
func FolderFor(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}
		return "", err
	}
	if info.IsDir() {
		return path, nil
	}
	return filepath.Dir(path), nil
}

var appleScriptEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func appleScriptString(s string) string {
	return `"` + appleScriptEscaper.Replace(s) + `"`
}

func or(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
