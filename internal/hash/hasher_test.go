package hash_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codealchemy/organizer/internal/hash"
	"github.com/codealchemy/organizer/internal/models"
)

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func TestHashIsContentAddressed(t *testing.T) {
	tmpDir := t.TempDir()
	content := []byte("identical bytes in two different files")

	a := writeFile(t, tmpDir, "first.txt", content)
	b := writeFile(t, tmpDir, "second.bin", content)
	c := writeFile(t, tmpDir, "third.txt", []byte("different bytes"))

	h, err := hash.NewHasher(hash.SHA256, 0)
	require.NoError(t, err)

	hashA, err := h.HashFile(a)
	require.NoError(t, err)
	hashB, err := h.HashFile(b)
	require.NoError(t, err)
	hashC, err := h.HashFile(c)
	require.NoError(t, err)

	assert.Equal(t, hashA, hashB, "equal bytes must hash equal regardless of name")
	assert.NotEqual(t, hashA, hashC)
	assert.Len(t, hashA, 64, "sha256 hex digest")
}

func TestHashKnownVector(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeFile(t, tmpDir, "abc.txt", []byte("abc"))

	h, err := hash.NewHasher(hash.SHA256, 0)
	require.NoError(t, err)

	digest, err := h.HashFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		digest)
}

func TestHashChunkedStreaming(t *testing.T) {
	tmpDir := t.TempDir()

	// Larger than the chunk size, so multiple reads happen.
	content := []byte(strings.Repeat("0123456789abcdef", 4096))
	path := writeFile(t, tmpDir, "big.bin", content)

	small, err := hash.NewHasher(hash.SHA256, 32)
	require.NoError(t, err)
	large, err := hash.NewHasher(hash.SHA256, 1<<20)
	require.NoError(t, err)

	digestSmall, err := small.HashFile(path)
	require.NoError(t, err)
	digestLarge, err := large.HashFile(path)
	require.NoError(t, err)

	assert.Equal(t, digestSmall, digestLarge, "chunk size must not change the digest")
}

func TestHashAlgorithms(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeFile(t, tmpDir, "data.bin", []byte("some content"))

	sha, err := hash.NewHasher(hash.SHA256, 0)
	require.NoError(t, err)
	blake, err := hash.NewHasher(hash.Blake2b, 0)
	require.NoError(t, err)

	shaDigest, err := sha.HashFile(path)
	require.NoError(t, err)
	blakeDigest, err := blake.HashFile(path)
	require.NoError(t, err)

	assert.Len(t, blakeDigest, 64, "blake2b-256 hex digest")
	assert.NotEqual(t, shaDigest, blakeDigest)

	_, err = hash.NewHasher("md5", 0)
	assert.Error(t, err)
}

func TestHashUnreadableFile(t *testing.T) {
	h, err := hash.NewHasher(hash.SHA256, 0)
	require.NoError(t, err)

	_, err = h.HashFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)

	var unreadable *models.UnreadableError
	assert.True(t, errors.As(err, &unreadable))
}

func TestHashReader(t *testing.T) {
	h, err := hash.NewHasher(hash.SHA256, 0)
	require.NoError(t, err)

	digest, err := h.HashReader(strings.NewReader("abc"))
	require.NoError(t, err)
	assert.Equal(t,
		"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		digest)
}
