package encryption

import (
	"fmt"
	"io"

	"catalog-go/internal/catalog"
)

// NoneEncryptor stores snapshots in the clear. It is always configured.
type NoneEncryptor struct{}

func NewNoneEncryptor() *NoneEncryptor { return &NoneEncryptor{} }

func (NoneEncryptor) Setup(string) error { return nil }

func (NoneEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	return copyThrough(r, w)
}

func (NoneEncryptor) Unlock(string) (catalog.DecryptionContext, error) {
	return plainContext{}, nil
}

func (NoneEncryptor) IsConfigured() bool { return true }

type plainContext struct{}

func (plainContext) Decrypt(r io.Reader, w io.Writer) error {
	return copyThrough(r, w)
}

func copyThrough(r io.Reader, w io.Writer) error {
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying snapshot: %w", err)
	}
	return nil
}

var _ catalog.Encryptor = NoneEncryptor{}
