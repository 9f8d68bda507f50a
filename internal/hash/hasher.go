// Package hash computes content digests for duplicate detection. Files are
// read in bounded chunks so large files never load fully into memory.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"

	"golang.org/x/crypto/blake2b"

	"github.com/codealchemy/organizer/internal/models"
)

// Algorithm selects the digest function.
type Algorithm string

const (
	SHA256  Algorithm = "sha256"
	Blake2b Algorithm = "blake2b"
)

// DefaultChunkSize bounds each read when streaming file content.
const DefaultChunkSize = 64 * 1024

// Hasher computes content hashes of files.
type Hasher struct {
	algorithm Algorithm
	chunkSize int
}

// NewHasher creates a hasher. A chunkSize of zero or less uses
// DefaultChunkSize.
func NewHasher(algorithm Algorithm, chunkSize int) (*Hasher, error) {
	switch algorithm {
	case SHA256, Blake2b:
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %s", algorithm)
	}

	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	return &Hasher{algorithm: algorithm, chunkSize: chunkSize}, nil
}

// Algorithm returns the configured digest function name.
func (h *Hasher) Algorithm() Algorithm {
	return h.algorithm
}

// HashFile streams the file at path and returns the hex digest of its
// content. Open and read failures are wrapped in models.UnreadableError.
func (h *Hasher) HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", &models.UnreadableError{Path: path, Err: err}
	}
	defer f.Close()

	digest, err := h.newDigest()
	if err != nil {
		return "", fmt.Errorf("create digest: %w", err)
	}

	buf := make([]byte, h.chunkSize)
	if _, err := io.CopyBuffer(digest, f, buf); err != nil {
		return "", &models.UnreadableError{Path: path, Err: err}
	}

	return hex.EncodeToString(digest.Sum(nil)), nil
}

// HashReader digests an arbitrary stream. Used by tests and by callers that
// already hold an open handle.
func (h *Hasher) HashReader(r io.Reader) (string, error) {
	digest, err := h.newDigest()
	if err != nil {
		return "", fmt.Errorf("create digest: %w", err)
	}

	buf := make([]byte, h.chunkSize)
	if _, err := io.CopyBuffer(digest, r, buf); err != nil {
		return "", fmt.Errorf("hash stream: %w", err)
	}

	return hex.EncodeToString(digest.Sum(nil)), nil
}

func (h *Hasher) newDigest() (hash.Hash, error) {
	switch h.algorithm {
	case Blake2b:
		return blake2b.New256(nil)
	default:
		return sha256.New(), nil
	}
}
