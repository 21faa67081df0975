package archive

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"catalog-go/internal/catalog"
)

// MemoryArchive keeps items in memory. It is safe for concurrent use and is
// meant for tests and throwaway catalogs.
type MemoryArchive struct {
	mu       sync.RWMutex
	items    map[string][]byte // "clientID/name" -> data
	versions map[string]int64
}

func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{
		items:    make(map[string][]byte),
		versions: make(map[string]int64),
	}
}

func itemKey(clientID, name string) string {
	return clientID + "/" + name
}

func (m *MemoryArchive) Put(clientID, name string, r io.Reader, size int64, version int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read item: %w", err)
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := itemKey(clientID, name)
	m.items[key] = data
	m.versions[key] = version
	return nil
}

func (m *MemoryArchive) Get(clientID, name string, w io.Writer) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.items[itemKey(clientID, name)]
	if !ok {
		return fmt.Errorf("archive item %q for client %s: %w", name, clientID, catalog.ErrNotFound)
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write item: %w", err)
	}
	return nil
}

// Version returns 0 when the item was never stored.
func (m *MemoryArchive) Version(clientID, name string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.versions[itemKey(clientID, name)], nil
}

func (m *MemoryArchive) ValidateSetup() error {
	return nil
}

var _ catalog.Archive = (*MemoryArchive)(nil)
