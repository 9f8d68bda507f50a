// Package storage performs the filesystem mutations of an organization run.
// All writes are atomic with respect to partial content: data lands in a
// temporary file in the destination directory and is renamed into place, so
// a crash mid-operation never leaves a truncated file at the final path.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/codealchemy/organizer/internal/events"
	"github.com/codealchemy/organizer/internal/models"
)

// LocalStore mutates the category tree under a destination root.
type LocalStore struct {
	root   string
	logger *events.Logger
}

// NewLocalStore creates a store rooted at destRoot. The directory itself is
// created by EnsureRoot at run start, so an uncreatable root fails the run
// and still yields a report.
func NewLocalStore(destRoot string, logger *events.Logger) (*LocalStore, error) {
	absRoot, err := filepath.Abs(destRoot)
	if err != nil {
		return nil, &models.RootError{Root: "destination", Path: destRoot, Err: err}
	}

	return &LocalStore{
		root:   absRoot,
		logger: logger.WithField("component", "local_store"),
	}, nil
}

// EnsureRoot creates the destination root if needed.
func (s *LocalStore) EnsureRoot() error {
	if err := os.MkdirAll(s.root, 0755); err != nil {
		return &models.RootError{Root: "destination", Path: s.root, Err: err}
	}
	return nil
}

// Root returns the absolute destination root.
func (s *LocalStore) Root() string {
	return s.root
}

// CategoryPath returns the destination path for a file of the given category
// and basename. The basename is normalized to NFC so trees built from macOS
// sources and Linux sources agree on filenames.
func (s *LocalStore) CategoryPath(category models.Category, basename string) string {
	return filepath.Join(s.root, string(category), norm.NFC.String(basename))
}

// QuarantinePath returns the holding-area path for a duplicate.
func (s *LocalStore) QuarantinePath(basename string) string {
	return filepath.Join(s.root, "duplicates", norm.NFC.String(basename))
}

// Exists checks whether a path exists.
func (s *LocalStore) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// NextAvailablePath disambiguates a name collision by appending a numeric
// suffix before the extension until a name is found that neither exists on
// disk nor appears in claimed (paths reserved earlier in the same run, which
// matters for dry runs where nothing lands on disk). This is the only place
// a new filename is invented.
func (s *LocalStore) NextAvailablePath(path string, claimed map[string]bool) string {
	if !s.Exists(path) && !claimed[path] {
		return path
	}

	dir := filepath.Dir(path)
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)

	for counter := 1; ; counter++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, counter, ext))
		if !s.Exists(candidate) && !claimed[candidate] {
			return candidate
		}
	}
}

// Place copies or moves src to dst atomically. In move mode the source is
// removed only after the destination rename succeeds, so a failure partway
// leaves the source untouched and no partial file at the final path.
func (s *LocalStore) Place(src, dst string, mode models.Mode) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return &models.MoveError{Source: src, Destination: dst, Err: err}
	}

	s.logger.WithFields(map[string]interface{}{
		"src":  src,
		"dst":  dst,
		"mode": string(mode),
	}).Debug("Placing file")

	if mode == models.ModeMove {
		// Fast path: same-filesystem rename is already atomic.
		if err := os.Rename(src, dst); err == nil {
			return nil
		}
	}

	if err := s.copyAtomic(src, dst); err != nil {
		return &models.MoveError{Source: src, Destination: dst, Err: err}
	}

	if mode == models.ModeMove {
		if err := os.Remove(src); err != nil {
			// The copy landed; a lingering source is the safer failure.
			return &models.MoveError{Source: src, Destination: dst, Err: fmt.Errorf("remove source after copy: %w", err)}
		}
	}

	return nil
}

// copyAtomic streams src into a temp file beside dst, syncs it, and renames
// it into place. Any failure removes the temp file.
func (s *LocalStore) copyAtomic(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	srcInfo, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	tmpPath := fmt.Sprintf("%s.tmp.%d", dst, time.Now().UnixNano())
	out, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, srcInfo.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	success := false
	defer func() {
		out.Close()
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy content: %w", err)
	}

	if err := out.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, dst); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	success = true
	return nil
}
