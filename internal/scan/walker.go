// Package scan discovers files under a source root in a stable order, so
// duplicate first-seen designation and report ordering are reproducible
// across runs on an unchanged tree.
package scan

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/codealchemy/organizer/internal/events"
	"github.com/codealchemy/organizer/internal/models"
)

// Entry is one file discovered during the walk.
type Entry struct {
	Path      string // absolute path
	RelPath   string // path relative to the scan root
	SizeBytes int64
	ModTime   time.Time
}

// Walker enumerates regular files under a root.
type Walker struct {
	ignore        *IgnoreMatcher
	includeHidden bool
	exclude       []string // absolute directory prefixes never descended into
	logger        *events.Logger
}

// NewWalker creates a walker. excludeDirs lists absolute directories to skip
// entirely; the organizer passes the destination root here so an in-source
// destination tree is never re-scanned.
func NewWalker(patterns []string, includeHidden bool, excludeDirs []string, logger *events.Logger) *Walker {
	cleaned := make([]string, 0, len(excludeDirs))
	for _, dir := range excludeDirs {
		if abs, err := filepath.Abs(dir); err == nil {
			cleaned = append(cleaned, abs)
		}
	}

	return &Walker{
		ignore:        NewIgnoreMatcher(patterns),
		includeHidden: includeHidden,
		exclude:       cleaned,
		logger:        logger.WithField("component", "walker"),
	}
}

// Walk returns every regular file under root in lexicographic path order,
// plus a warning per subtree that could not be read. Symlinks and
// directories are skipped. A failure to access the root itself is fatal;
// unreadable entries deeper in the tree are skipped with a warning so the
// organizer can still account for readable siblings and the run report
// records what was not scanned.
func (w *Walker) Walk(root string) ([]Entry, []string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, nil, &models.RootError{Root: "source", Path: root, Err: err}
	}

	var entries []Entry
	var warnings []string

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == absRoot {
				return &models.RootError{Root: "source", Path: absRoot, Err: walkErr}
			}
			w.logger.WithError(walkErr).WithField("path", path).Warn("Skipping unreadable entry")
			warnings = append(warnings, fmt.Sprintf("not scanned: %s: %v", path, walkErr))
			return nil
		}

		if d.IsDir() {
			if path != absRoot && w.skipDir(absRoot, path, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		// Regular files only; symlinks are never followed.
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return fmt.Errorf("relativize %s: %w", path, err)
		}

		if !w.includeHidden && strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		if w.ignore.Match(rel) {
			w.logger.WithField("path", rel).Debug("Ignored by pattern")
			return nil
		}

		info, err := d.Info()
		if err != nil {
			// Removed or unreadable mid-scan. Record it with unknown size;
			// the organizer will surface it as skipped_unreadable.
			entries = append(entries, Entry{Path: path, RelPath: rel})
			return nil
		}

		entries = append(entries, Entry{
			Path:      path,
			RelPath:   rel,
			SizeBytes: info.Size(),
			ModTime:   info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	w.logger.WithFields(map[string]interface{}{
		"root":  absRoot,
		"files": len(entries),
	}).Debug("Scan complete")

	return entries, warnings, nil
}

// skipDir reports whether a directory should be pruned from the walk.
func (w *Walker) skipDir(root, path, name string) bool {
	if !w.includeHidden && strings.HasPrefix(name, ".") {
		return true
	}

	for _, dir := range w.exclude {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}

	if rel, err := filepath.Rel(root, path); err == nil && w.ignore.Match(rel) {
		return true
	}

	return false
}
