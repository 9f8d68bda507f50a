// Package index tracks previously seen content hashes for duplicate
// detection. A store is loaded read-only at run start, appended to by the
// organizer's single decision point, and flushed once at run end.
package index

import "time"

// Entry records the canonical file for a content hash. First-seen wins: the
// first file observed with a hash owns the duplicate slot.
type Entry struct {
	Path      string    `json:"path"`
	SizeBytes int64     `json:"size_bytes"`
	FirstSeen time.Time `json:"first_seen"`
}

// Store is the duplicate index. Implementations load any persisted entries
// at construction and hold the working set in memory; Flush persists
// additions made during the run.
type Store interface {
	// Lookup returns the canonical entry for a hash, if one is known.
	Lookup(hash string) (Entry, bool)

	// Add records a hash. If the hash is already present the existing
	// entry is kept.
	Add(hash string, entry Entry)

	// Len returns the number of known hashes.
	Len() int

	// Warnings returns non-fatal problems encountered loading the index,
	// such as a corrupt persisted file that was treated as empty.
	Warnings() []string

	// Flush persists entries added since load.
	Flush() error

	// Reset discards all entries, in memory and persisted.
	Reset() error

	// Close releases resources.
	Close() error
}
