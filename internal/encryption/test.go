package encryption

import (
	"bytes"
	"fmt"
	"io"

	"catalog-go/internal/catalog"
)

// testHeader marks output of TestEncryptor so tests can tell ciphertext from
// plaintext without real cryptography.
var testHeader = []byte("CATENC\x00\x01")

// TestEncryptor prefixes data with testHeader and strips it again on decrypt.
// Unlock accepts any passphrase except "wrong".
type TestEncryptor struct {
	configured bool
}

func NewTestEncryptor() *TestEncryptor {
	return &TestEncryptor{configured: true}
}

func (e *TestEncryptor) Setup(string) error {
	e.configured = true
	return nil
}

func (e *TestEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := w.Write(testHeader); err != nil {
		return fmt.Errorf("writing test header: %w", err)
	}
	return copyThrough(r, w)
}

func (e *TestEncryptor) Unlock(passphrase string) (catalog.DecryptionContext, error) {
	if passphrase == "wrong" {
		return nil, fmt.Errorf("unlocking private key: incorrect passphrase")
	}
	return &TestDecryptionContext{}, nil
}

func (e *TestEncryptor) IsConfigured() bool {
	return e.configured
}

// TestDecryptionContext strips the header written by TestEncryptor.
type TestDecryptionContext struct{}

func (c *TestDecryptionContext) Decrypt(r io.Reader, w io.Writer) error {
	header := make([]byte, len(testHeader))
	if _, err := io.ReadFull(r, header); err != nil {
		return fmt.Errorf("reading test header: %w", err)
	}
	if !bytes.Equal(header, testHeader) {
		return fmt.Errorf("invalid test encryption header")
	}
	return copyThrough(r, w)
}

var (
	_ catalog.Encryptor         = (*TestEncryptor)(nil)
	_ catalog.DecryptionContext = (*TestDecryptionContext)(nil)
)
