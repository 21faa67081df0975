package catalog

import "io"

// Encryptor encrypts catalog snapshots with a public key and unlocks the
// private key with a passphrase when a snapshot has to be restored.
type Encryptor interface {
	// Setup generates a key pair and protects the private key with passphrase.
	Setup(passphrase string) error

	Encrypt(r io.Reader, w io.Writer) error

	// Unlock decrypts the private key and returns a context that can decrypt
	// snapshots. A wrong passphrase is an error.
	Unlock(passphrase string) (DecryptionContext, error)

	// IsConfigured reports whether both key files exist.
	IsConfigured() bool
}

// DecryptionContext holds an unlocked private key in memory only.
type DecryptionContext interface {
	Decrypt(r io.Reader, w io.Writer) error
}
