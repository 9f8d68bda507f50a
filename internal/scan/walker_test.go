package scan_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codealchemy/organizer/internal/events"
	"github.com/codealchemy/organizer/internal/models"
	"github.com/codealchemy/organizer/internal/scan"
)

func testLogger() *events.Logger {
	var buf bytes.Buffer
	return events.NewTestLogger(events.ErrorLevel, "json", &buf)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func relPaths(entries []scan.Entry) []string {
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, filepath.ToSlash(e.RelPath))
	}
	return paths
}

func TestWalkLexicographicOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "zebra.txt"), "z")
	writeFile(t, filepath.Join(root, "alpha.txt"), "a")
	writeFile(t, filepath.Join(root, "mid", "beta.txt"), "b")

	walker := scan.NewWalker(nil, false, nil, testLogger())
	entries, _, err := walker.Walk(root)
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha.txt", "mid/beta.txt", "zebra.txt"}, relPaths(entries))
}

func TestWalkSkipsHidden(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "visible.txt"), "v")
	writeFile(t, filepath.Join(root, ".hidden.txt"), "h")
	writeFile(t, filepath.Join(root, ".git", "config"), "c")

	walker := scan.NewWalker(nil, false, nil, testLogger())
	entries, _, err := walker.Walk(root)
	require.NoError(t, err)

	assert.Equal(t, []string{"visible.txt"}, relPaths(entries))
}

func TestWalkIncludeHidden(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "visible.txt"), "v")
	writeFile(t, filepath.Join(root, ".hidden.txt"), "h")

	walker := scan.NewWalker(nil, true, nil, testLogger())
	entries, _, err := walker.Walk(root)
	require.NoError(t, err)

	assert.Equal(t, []string{".hidden.txt", "visible.txt"}, relPaths(entries))
}

func TestWalkIgnorePatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "keep.txt"), "k")
	writeFile(t, filepath.Join(root, "skip.tmp"), "s")
	writeFile(t, filepath.Join(root, "build", "out.txt"), "o")
	writeFile(t, filepath.Join(root, "docs", "skip.tmp"), "s")

	walker := scan.NewWalker([]string{"*.tmp", "build"}, false, nil, testLogger())
	entries, _, err := walker.Walk(root)
	require.NoError(t, err)

	assert.Equal(t, []string{"keep.txt"}, relPaths(entries))
}

func TestWalkExcludesDirectories(t *testing.T) {
	root := t.TempDir()
	dest := filepath.Join(root, "organized")
	writeFile(t, filepath.Join(root, "inbox.txt"), "i")
	writeFile(t, filepath.Join(dest, "document", "old.txt"), "o")

	walker := scan.NewWalker(nil, false, []string{dest}, testLogger())
	entries, _, err := walker.Walk(root)
	require.NoError(t, err)

	assert.Equal(t, []string{"inbox.txt"}, relPaths(entries))
}

func TestWalkSkipsSymlinks(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "real.txt")
	writeFile(t, target, "r")
	require.NoError(t, os.Symlink(target, filepath.Join(root, "link.txt")))

	walker := scan.NewWalker(nil, false, nil, testLogger())
	entries, _, err := walker.Walk(root)
	require.NoError(t, err)

	assert.Equal(t, []string{"real.txt"}, relPaths(entries))
}

func TestWalkUnreadableSubdirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits do not apply to root")
	}

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "ok.txt"), "o")
	locked := filepath.Join(root, "locked")
	writeFile(t, filepath.Join(locked, "unseen.txt"), "u")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	walker := scan.NewWalker(nil, false, nil, testLogger())
	entries, warnings, err := walker.Walk(root)
	require.NoError(t, err)

	assert.Equal(t, []string{"ok.txt"}, relPaths(entries))
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], locked)
}

func TestWalkMissingRoot(t *testing.T) {
	walker := scan.NewWalker(nil, false, nil, testLogger())

	_, _, err := walker.Walk(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)

	var rootErr *models.RootError
	require.ErrorAs(t, err, &rootErr)
	assert.Equal(t, "source", rootErr.Root)
	assert.ErrorIs(t, err, models.ErrSourceRoot)
}

func TestWalkEntryMetadata(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "sized.txt"), "12345")

	walker := scan.NewWalker(nil, false, nil, testLogger())
	entries, _, err := walker.Walk(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, int64(5), entries[0].SizeBytes)
	assert.False(t, entries[0].ModTime.IsZero())
	assert.True(t, filepath.IsAbs(entries[0].Path))
}
