package shell

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBin writes an executable script that appends its arguments and
// stdin to log, then exits with code.
func fakeBin(t *testing.T, dir, name, log string, code int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts required")
	}
	path := filepath.Join(dir, name)
	script := "#!/bin/sh\n" +
		"printf '%s\\n' \"" + name + " $*\" >> '" + log + "'\n" +
		"if [ ! -t 0 ]; then cat >> '" + log + "'; fi\n" +
		"exit " + string(rune('0'+code)) + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return path
}

func readLog(t *testing.T, log string) string {
	t.Helper()
	data, err := os.ReadFile(log)
	require.NoError(t, err)
	return string(data)
}

func TestSystem_Open(t *testing.T) {
	dir := t.TempDir()
	log := filepath.Join(dir, "calls.log")
	s := &System{OpenBin: fakeBin(t, dir, "open", log, 0)}

	require.NoError(t, s.Open(context.Background(), "/Users/u/Desktop/a b.txt"))
	assert.Contains(t, readLog(t, log), "open /Users/u/Desktop/a b.txt")
}

func TestSystem_OpenFailure(t *testing.T) {
	dir := t.TempDir()
	log := filepath.Join(dir, "calls.log")
	s := &System{OpenBin: fakeBin(t, dir, "open", log, 1)}

	assert.Error(t, s.Open(context.Background(), "/x"))
}

func TestSystem_CopyToClipboard(t *testing.T) {
	dir := t.TempDir()
	log := filepath.Join(dir, "calls.log")
	s := &System{
		OSAScriptBin: fakeBin(t, dir, "osascript", log, 0),
		PBCopyBin:    fakeBin(t, dir, "pbcopy", log, 0),
	}

	require.NoError(t, s.CopyToClipboard(context.Background(), `/Users/u/say "hi".txt`))
	out := readLog(t, log)
	assert.Contains(t, out, `POSIX file "/Users/u/say \"hi\".txt"`)
	assert.NotContains(t, out, "pbcopy")
}

func TestSystem_CopyToClipboardFallback(t *testing.T) {
	dir := t.TempDir()
	log := filepath.Join(dir, "calls.log")
	s := &System{
		OSAScriptBin: fakeBin(t, dir, "osascript", log, 1),
		PBCopyBin:    fakeBin(t, dir, "pbcopy", log, 0),
	}

	require.NoError(t, s.CopyToClipboard(context.Background(), "/Users/u/a.txt"))
	out := readLog(t, log)
	assert.True(t, strings.Contains(out, "pbcopy"), "fallback should run pbcopy")
	assert.Contains(t, out, "/Users/u/a.txt")
}

func TestCheckExists(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, CheckExists(dir))
	assert.ErrorIs(t, CheckExists(filepath.Join(dir, "nope")), ErrPathNotFound)
}

func TestFolderFor(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	got, err := FolderFor(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	got, err = FolderFor(file)
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	_, err = FolderFor(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, ErrPathNotFound)
}
