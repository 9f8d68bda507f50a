package index

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/codealchemy/organizer/internal/events"
)

// CurrentSchemaVersion for index file migrations.
const CurrentSchemaVersion = 1

// indexFile is the on-disk envelope around the hash map. The checksum covers
// the envelope without the checksum field itself, so a torn or hand-edited
// file is detected on load.
type indexFile struct {
	SchemaVersion int              `json:"schema_version"`
	UpdatedAt     time.Time        `json:"updated_at"`
	Entries       map[string]Entry `json:"entries"`
	Checksum      string           `json:"checksum,omitempty"`
}

// JSONStore persists the duplicate index as a checksummed JSON file.
type JSONStore struct {
	path   string
	logger *events.Logger

	mu       sync.RWMutex
	entries  map[string]Entry
	dirty    bool
	warnings []string
}

// NewJSONStore opens (or initializes) a JSON index at path. A missing file
// yields an empty index. A corrupt file also yields an empty index, with a
// warning recorded for the run report, rather than failing the run.
func NewJSONStore(path string, logger *events.Logger) (*JSONStore, error) {
	s := &JSONStore{
		path:    path,
		logger:  logger.WithField("component", "json_index"),
		entries: make(map[string]Entry),
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *JSONStore) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read index file: %w", err)
	}

	var wrapper indexFile
	if err := json.Unmarshal(data, &wrapper); err != nil {
		s.corrupt(fmt.Sprintf("duplicate index %s failed to parse, starting fresh", s.path))
		return nil
	}

	if wrapper.Checksum != "" {
		calculated, err := checksumEntries(wrapper)
		if err != nil || calculated != wrapper.Checksum {
			s.corrupt(fmt.Sprintf("duplicate index %s failed checksum verification, starting fresh", s.path))
			return nil
		}
	}

	if wrapper.SchemaVersion != CurrentSchemaVersion {
		s.logger.WithField("version", wrapper.SchemaVersion).Warn("Index schema version mismatch")
	}

	if wrapper.Entries != nil {
		s.entries = wrapper.Entries
	}

	s.logger.WithField("hashes", len(s.entries)).Debug("Loaded duplicate index")
	return nil
}

func (s *JSONStore) corrupt(msg string) {
	s.logger.Warn(msg)
	s.warnings = append(s.warnings, msg)
	s.entries = make(map[string]Entry)
}

// Lookup returns the canonical entry for a hash.
func (s *JSONStore) Lookup(hash string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[hash]
	return entry, ok
}

// Add records a hash, keeping any existing entry.
func (s *JSONStore) Add(hash string, entry Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[hash]; exists {
		return
	}
	s.entries[hash] = entry
	s.dirty = true
}

// Len returns the number of known hashes.
func (s *JSONStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

// Warnings returns load-time problems for the run report.
func (s *JSONStore) Warnings() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]string(nil), s.warnings...)
}

// Flush writes the index atomically: marshal to a temp file next to the
// target, then rename into place.
func (s *JSONStore) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		return nil
	}

	wrapper := indexFile{
		SchemaVersion: CurrentSchemaVersion,
		UpdatedAt:     time.Now().UTC(),
		Entries:       s.entries,
	}

	checksum, err := checksumEntries(wrapper)
	if err != nil {
		return fmt.Errorf("checksum index: %w", err)
	}
	wrapper.Checksum = checksum

	data, err := json.MarshalIndent(wrapper, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("write temp index: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename index file: %w", err)
	}

	s.dirty = false
	s.logger.WithField("hashes", len(s.entries)).Debug("Flushed duplicate index")
	return nil
}

// Reset discards all entries and removes the persisted file.
func (s *JSONStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]Entry)
	s.dirty = false

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove index file: %w", err)
	}
	return nil
}

// Close flushes pending entries.
func (s *JSONStore) Close() error {
	return s.Flush()
}

// checksumEntries hashes the envelope with an empty checksum field.
func checksumEntries(wrapper indexFile) (string, error) {
	wrapper.Checksum = ""
	data, err := json.Marshal(wrapper)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
