// Package checksum computes the two content fingerprints stored on Files.
//
// The quick tier is an imohash: a sampled hash of the size and three slices
// of the file, constant time regardless of file size. The full tier is a
// BLAKE3 digest of the whole content.
package checksum

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kalafut/imohash"
	"github.com/zeebo/blake3"

	"catalog-go/internal/catalog"
)

// FileHasher implements catalog.Hasher on the local filesystem.
type FileHasher struct {
	imo imohash.ImoHash
}

func NewFileHasher() *FileHasher {
	return &FileHasher{imo: imohash.New()}
}

func (h *FileHasher) Sum(tier catalog.ChecksumTier, path *catalog.Path) (string, error) {
	if path.IsDir() {
		return "", fmt.Errorf("cannot checksum directory %s: %w", path, catalog.ErrInvariantViolation)
	}
	before, err := os.Stat(path.String())
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}

	var sum string
	switch tier {
	case catalog.TierQuick:
		sum, err = h.Quick(path.String())
	case catalog.TierFull:
		sum, err = Full(path.String())
	default:
		return "", fmt.Errorf("unknown checksum tier %d: %w", tier, catalog.ErrInvariantViolation)
	}
	if err != nil {
		return "", err
	}

	after, err := os.Stat(path.String())
	if err != nil {
		return "", fmt.Errorf("re-stat %s: %w", path, err)
	}
	if err := statUnchanged(before, after); err != nil {
		return "", fmt.Errorf("file changed during hashing: %s: %w", path, err)
	}
	return sum, nil
}

// ErrChanged reports that a file was written while it was being hashed.
var ErrChanged = errors.New("size or modification time changed")

func statUnchanged(before, after os.FileInfo) error {
	if before.Size() != after.Size() || !before.ModTime().Equal(after.ModTime()) {
		return ErrChanged
	}
	return nil
}

// Quick returns the hex imohash of the file at name.
func (h *FileHasher) Quick(name string) (string, error) {
	sum, err := h.imo.SumFile(name)
	if err != nil {
		return "", fmt.Errorf("quick checksum of %s: %w", name, err)
	}
	return hex.EncodeToString(sum[:]), nil
}

// Full returns the hex BLAKE3-256 digest of the file at name.
func Full(name string) (string, error) {
	f, err := os.Open(name)
	if err != nil {
		return "", fmt.Errorf("full checksum of %s: %w", name, err)
	}
	defer f.Close()
	return FullReader(f)
}

// FullReader returns the hex BLAKE3-256 digest of everything read from r.
func FullReader(r io.Reader) (string, error) {
	h := blake3.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("hashing content: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

var _ catalog.Hasher = (*FileHasher)(nil)
