package testutil

import (
	"catalog-go/internal/archive"
	"catalog-go/internal/catalog"
	"catalog-go/internal/encryption"
)

// NewTestEncryptor returns the deterministic header-prefixing encryptor.
func NewTestEncryptor() catalog.Encryptor {
	return encryption.NewTestEncryptor()
}

// NewTestArchive returns an empty in-memory archive.
func NewTestArchive() *archive.MemoryArchive {
	return archive.NewMemoryArchive()
}
