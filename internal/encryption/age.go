package encryption

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"filippo.io/age"
	"filippo.io/age/armor"

	"catalog-go/internal/catalog"
	"catalog-go/internal/config"
)

// ErrAlreadyConfigured is returned by Setup when a key pair already exists.
var ErrAlreadyConfigured = errors.New("encryption keys already exist")

// AgeEncryptor encrypts catalog snapshots to an X25519 recipient. The
// recipient is kept in plaintext next to an armored private key that is
// itself encrypted with a passphrase (age scrypt).
type AgeEncryptor struct {
	publicKeyPath  string
	privateKeyPath string
}

func NewAgeEncryptor(cfg config.EncryptionConfig) *AgeEncryptor {
	return &AgeEncryptor{
		publicKeyPath:  cfg.PublicKeyPath,
		privateKeyPath: cfg.PrivateKeyPath,
	}
}

// Setup creates the key pair. It never overwrites existing keys, since
// snapshots encrypted to them would become unreadable.
func (e *AgeEncryptor) Setup(passphrase string) error {
	if passphrase == "" {
		return fmt.Errorf("empty passphrase")
	}
	if e.IsConfigured() {
		return ErrAlreadyConfigured
	}

	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return fmt.Errorf("generating key pair: %w", err)
	}

	var sealed bytes.Buffer
	if err := sealIdentity(&sealed, identity, passphrase); err != nil {
		return err
	}

	if err := writeKeyFile(e.privateKeyPath, sealed.Bytes(), 0600); err != nil {
		return fmt.Errorf("writing private key: %w", err)
	}
	if err := writeKeyFile(e.publicKeyPath, []byte(identity.Recipient().String()+"\n"), 0644); err != nil {
		return fmt.Errorf("writing public key: %w", err)
	}
	return nil
}

// sealIdentity writes identity encrypted with passphrase, ASCII armored.
func sealIdentity(w io.Writer, identity *age.X25519Identity, passphrase string) error {
	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return fmt.Errorf("creating scrypt recipient: %w", err)
	}

	aw := armor.NewWriter(w)
	ew, err := age.Encrypt(aw, recipient)
	if err != nil {
		return fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := io.WriteString(ew, identity.String()+"\n"); err != nil {
		return fmt.Errorf("sealing private key: %w", err)
	}
	if err := ew.Close(); err != nil {
		return fmt.Errorf("sealing private key: %w", err)
	}
	return aw.Close()
}

func writeKeyFile(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, data, perm)
}

func (e *AgeEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	recipient, err := e.recipient()
	if err != nil {
		return err
	}

	ew, err := age.Encrypt(w, recipient)
	if err != nil {
		return fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := io.Copy(ew, r); err != nil {
		return fmt.Errorf("encrypting snapshot: %w", err)
	}
	if err := ew.Close(); err != nil {
		return fmt.Errorf("finalizing encryption: %w", err)
	}
	return nil
}

func (e *AgeEncryptor) Unlock(passphrase string) (catalog.DecryptionContext, error) {
	sealed, err := os.ReadFile(e.privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("reading private key: %w", err)
	}

	scrypt, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt identity: %w", err)
	}

	dr, err := age.Decrypt(armor.NewReader(bytes.NewReader(sealed)), scrypt)
	if err != nil {
		return nil, fmt.Errorf("unlocking private key (wrong passphrase?): %w", err)
	}
	plain, err := io.ReadAll(dr)
	if err != nil {
		return nil, fmt.Errorf("reading private key: %w", err)
	}

	identity, err := age.ParseX25519Identity(strings.TrimSpace(string(plain)))
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}
	return &AgeDecryptionContext{identity: identity}, nil
}

// IsConfigured reports whether both key files exist.
func (e *AgeEncryptor) IsConfigured() bool {
	for _, p := range []string{e.publicKeyPath, e.privateKeyPath} {
		if _, err := os.Stat(p); err != nil {
			return false
		}
	}
	return true
}

func (e *AgeEncryptor) recipient() (age.Recipient, error) {
	data, err := os.ReadFile(e.publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("reading public key: %w", err)
	}
	recipient, err := age.ParseX25519Recipient(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("parsing public key: %w", err)
	}
	return recipient, nil
}

// AgeDecryptionContext holds an unlocked identity in memory.
type AgeDecryptionContext struct {
	identity age.Identity
}

func (c *AgeDecryptionContext) Decrypt(r io.Reader, w io.Writer) error {
	dr, err := age.Decrypt(r, c.identity)
	if err != nil {
		return fmt.Errorf("opening snapshot: %w", err)
	}
	if _, err := io.Copy(w, dr); err != nil {
		return fmt.Errorf("decrypting snapshot: %w", err)
	}
	return nil
}

var (
	_ catalog.Encryptor         = (*AgeEncryptor)(nil)
	_ catalog.DecryptionContext = (*AgeDecryptionContext)(nil)
)
