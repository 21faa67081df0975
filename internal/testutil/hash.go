package testutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sync"

	"catalog-go/internal/catalog"
)

// SHA256Hex returns the SHA-256 checksum of data as a lowercase hex string.
func SHA256Hex(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// StubHasher derives both checksum tiers from SHA-256 of the content read
// through a FilesystemManager. Quick sums are "q:" plus the first 16 hex
// digits, full sums are "f:" plus all of them.
type StubHasher struct {
	fsmgr catalog.FilesystemManager

	mu    sync.Mutex
	fail  map[string]error
	calls map[catalog.ChecksumTier]int
}

func NewStubHasher(fsmgr catalog.FilesystemManager) *StubHasher {
	return &StubHasher{
		fsmgr: fsmgr,
		fail:  make(map[string]error),
		calls: make(map[catalog.ChecksumTier]int),
	}
}

// FailOn makes Sum return err for the absolute path.
func (h *StubHasher) FailOn(absPath string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fail[absPath] = err
}

// Calls reports how many times Sum ran for tier.
func (h *StubHasher) Calls(tier catalog.ChecksumTier) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls[tier]
}

func (h *StubHasher) Sum(tier catalog.ChecksumTier, path *catalog.Path) (string, error) {
	h.mu.Lock()
	h.calls[tier]++
	err := h.fail[path.String()]
	h.mu.Unlock()
	if err != nil {
		return "", err
	}

	rc, err := h.fsmgr.Open(path)
	if err != nil {
		return "", err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	sum := SHA256Hex(data)
	if tier == catalog.TierQuick {
		return "q:" + sum[:16], nil
	}
	return "f:" + sum, nil
}

// QuickSum and FullSum return what StubHasher produces for data.
func QuickSum(data []byte) string { return "q:" + SHA256Hex(data)[:16] }
func FullSum(data []byte) string  { return "f:" + SHA256Hex(data) }

var _ catalog.Hasher = (*StubHasher)(nil)
