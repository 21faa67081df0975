package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"catalog-go/internal/archive"
	"catalog-go/internal/catalog"
	"catalog-go/internal/config"
	"catalog-go/internal/database"
	"catalog-go/internal/encryption"
)

// Archive item names.
const (
	snapshotItem   = "catalog.db"
	publicKeyItem  = "public_key"
	privateKeyItem = "private_key"
)

// snapshot copies the open database to a temp file with VACUUM INTO.
func (a *CatalogApp) snapshot() (string, error) {
	tmpFile, err := os.CreateTemp("", "catalog-snapshot-*.db")
	if err != nil {
		return "", fmt.Errorf("creating temp file for snapshot: %w", err)
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()

	if err := a.db.BackupTo(tmpPath); err != nil {
		os.Remove(tmpPath)
		return "", err
	}
	return tmpPath, nil
}

// uploadSnapshot encrypts the snapshot at path and stores it in the archive
// with version as its catalog version. The key pair goes along the first time
// so that another host can restore.
func (a *CatalogApp) uploadSnapshot(path string, version int64) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening snapshot: %w", err)
	}
	defer src.Close()

	enc, err := os.CreateTemp("", "catalog-snapshot-*.db.enc")
	if err != nil {
		return fmt.Errorf("creating temp file for encrypted snapshot: %w", err)
	}
	defer os.Remove(enc.Name())
	defer enc.Close()

	if err := a.encryptor.Encrypt(src, enc); err != nil {
		return fmt.Errorf("encrypting snapshot: %w", err)
	}
	size, err := enc.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("sizing encrypted snapshot: %w", err)
	}
	if _, err := enc.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewinding encrypted snapshot: %w", err)
	}

	if err := a.archive.Put(a.cfg.ClientID, snapshotItem, enc, size, version); err != nil {
		return fmt.Errorf("uploading snapshot: %w", err)
	}
	a.logger.Info("catalog snapshot archived", "version", version, "bytes", size)

	return a.uploadKeys(version)
}

func (a *CatalogApp) uploadKeys(version int64) error {
	if !usesAgeKeys(a.cfg) {
		return nil
	}
	stored, err := a.archive.Version(a.cfg.ClientID, privateKeyItem)
	if err != nil {
		return fmt.Errorf("checking archived keys: %w", err)
	}
	if stored != 0 {
		return nil
	}

	items := map[string]string{
		publicKeyItem:  a.cfg.Encryption.PublicKeyPath,
		privateKeyItem: a.cfg.Encryption.PrivateKeyPath,
	}
	for name, path := range items {
		if err := putFile(a.archive, a.cfg.ClientID, name, path, version); err != nil {
			return fmt.Errorf("uploading %s: %w", name, err)
		}
	}
	return nil
}

func usesAgeKeys(cfg *config.Config) bool {
	return cfg.Encryption.Type == "" || cfg.Encryption.Type == "age"
}

func putFile(arch catalog.Archive, clientID, name, path string, version int64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	return arch.Put(clientID, name, f, info.Size(), version)
}

// SetupKeys generates the snapshot key pair, protecting the private key with
// passphrase.
func SetupKeys(cfg *config.Config, passphrase string) error {
	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return fmt.Errorf("creating encryptor: %w", err)
	}
	return enc.Setup(passphrase)
}

// CheckArchive verifies that the configured archive is reachable and writable.
func CheckArchive(ctx context.Context, cfg *config.Config) error {
	arch, err := archive.NewArchiveFromConfig(ctx, cfg.Archive)
	if err != nil {
		return fmt.Errorf("creating archive: %w", err)
	}
	if arch == nil {
		return fmt.Errorf("no archive configured")
	}
	return arch.ValidateSetup()
}

// Restore replaces the local catalog with the newest archived snapshot for
// the configured client and returns its version. Missing key files are
// fetched from the archive first. An existing catalog is only replaced when
// force is set.
func Restore(ctx context.Context, cfg *config.Config, passphrase string, force bool) (int64, error) {
	if err := cfg.Validate(); err != nil {
		return 0, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Database.Type != "sqlite" {
		return 0, fmt.Errorf("restore needs a sqlite database, not %q", cfg.Database.Type)
	}

	arch, err := archive.NewArchiveFromConfig(ctx, cfg.Archive)
	if err != nil {
		return 0, fmt.Errorf("creating archive: %w", err)
	}
	if arch == nil {
		return 0, fmt.Errorf("no archive configured")
	}

	version, err := arch.Version(cfg.ClientID, snapshotItem)
	if err != nil {
		return 0, fmt.Errorf("checking archived catalog version: %w", err)
	}
	if version == 0 {
		return 0, fmt.Errorf("no snapshot archived for client %s: %w", cfg.ClientID, catalog.ErrNotFound)
	}

	dest := database.DatabasePath(cfg.Database, cfg.ClientID)
	if _, err := os.Stat(dest); err == nil && !force {
		return 0, fmt.Errorf("catalog already exists at %s (use --force to replace it)", dest)
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return 0, fmt.Errorf("creating encryptor: %w", err)
	}
	if !enc.IsConfigured() && usesAgeKeys(cfg) {
		if err := fetchKeys(arch, cfg); err != nil {
			return 0, err
		}
	}

	dctx, err := enc.Unlock(passphrase)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return 0, fmt.Errorf("creating data directory: %w", err)
	}
	if err := restoreSnapshot(arch, dctx, cfg.ClientID, dest); err != nil {
		return 0, err
	}
	return version, nil
}

func restoreSnapshot(arch catalog.Archive, dctx catalog.DecryptionContext, clientID, dest string) error {
	encrypted, err := os.CreateTemp("", "catalog-restore-*.db.enc")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(encrypted.Name())
	defer encrypted.Close()

	if err := arch.Get(clientID, snapshotItem, encrypted); err != nil {
		return fmt.Errorf("downloading snapshot: %w", err)
	}
	if _, err := encrypted.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewinding snapshot: %w", err)
	}

	tmpDest := dest + ".restore"
	out, err := os.OpenFile(tmpDest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("creating restored catalog: %w", err)
	}
	if err := dctx.Decrypt(encrypted, out); err != nil {
		out.Close()
		os.Remove(tmpDest)
		return fmt.Errorf("decrypting snapshot: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmpDest)
		return fmt.Errorf("writing restored catalog: %w", err)
	}

	// Stale WAL files would be replayed over the restored database.
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(dest + suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("removing %s: %w", dest+suffix, err)
		}
	}
	if err := os.Rename(tmpDest, dest); err != nil {
		return fmt.Errorf("replacing catalog: %w", err)
	}
	return nil
}

func fetchKeys(arch catalog.Archive, cfg *config.Config) error {
	items := map[string]string{
		publicKeyItem:  cfg.Encryption.PublicKeyPath,
		privateKeyItem: cfg.Encryption.PrivateKeyPath,
	}
	for name, path := range items {
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return fmt.Errorf("creating key directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0600)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		err = arch.Get(cfg.ClientID, name, f)
		f.Close()
		if err != nil {
			os.Remove(path)
			return fmt.Errorf("downloading %s: %w", name, err)
		}
	}
	return nil
}
