package index

import "sync"

// MemoryStore is an in-memory duplicate index with no persistence, for
// one-shot runs where dedup across runs does not matter.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryStore creates an empty in-memory index.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

// Lookup returns the canonical entry for a hash.
func (s *MemoryStore) Lookup(hash string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[hash]
	return entry, ok
}

// Add records a hash, keeping any existing entry.
func (s *MemoryStore) Add(hash string, entry Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[hash]; exists {
		return
	}
	s.entries[hash] = entry
}

// Len returns the number of known hashes.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

// Warnings is always empty for the memory store.
func (s *MemoryStore) Warnings() []string { return nil }

// Flush is a no-op.
func (s *MemoryStore) Flush() error { return nil }

// Reset discards all entries.
func (s *MemoryStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]Entry)
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
