package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"catalog-go/internal/archive"
	"catalog-go/internal/catalog"
	"catalog-go/internal/checksum"
	"catalog-go/internal/config"
	"catalog-go/internal/database"
	"catalog-go/internal/database/migrations"
	"catalog-go/internal/database/sqlc"
	"catalog-go/internal/encryption"
	"catalog-go/internal/fs"
	"catalog-go/internal/progress"
	"catalog-go/internal/volume"
)

// ErrRemoteAhead is returned when the archive holds a snapshot newer than
// the local catalog.
var ErrRemoteAhead = errors.New("local catalog is behind the archived snapshot")

// CatalogApp is the application layer between the CLI and CatalogService.
// It constructs all dependencies from config, exposes high-level operations
// that accept raw string paths, and snapshots the catalog on Close.
type CatalogApp struct {
	cfg       *config.Config
	db        *database.SQLiteDatabase
	archive   catalog.Archive
	fsmgr     catalog.FilesystemManager
	encryptor catalog.Encryptor
	events    *progress.Broadcaster
	service   *catalog.CatalogService
	library   *sqlc.Library
	logger    catalog.Logger
	op        *Operation
	logFile   *os.File
}

// NewCatalogApp creates a fully wired CatalogApp from the given config.
// operation identifies the CLI command being run (e.g. "AddLocation", "Scan").
// The caller must call Close when done.
func NewCatalogApp(ctx context.Context, cfg *config.Config, operation string) (*CatalogApp, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	arch, err := archive.NewArchiveFromConfig(ctx, cfg.Archive)
	if err != nil {
		return nil, fmt.Errorf("creating archive: %w", err)
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}
	if arch != nil && !enc.IsConfigured() {
		return nil, fmt.Errorf("snapshot encryption keys are missing: run `catalog keys init` or `catalog archive restore`")
	}

	db, err := database.NewDatabaseFromConfig(cfg.Database, cfg.ClientID)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	// An in-memory catalog starts empty every time.
	if cfg.Database.Type == "memory" {
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, err
		}
	}
	if err := db.CheckMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database schema out of date: %w", err)
	}

	if arch != nil {
		if err := checkRemoteVersion(db, arch, cfg.ClientID); err != nil {
			db.Close()
			return nil, err
		}
	}

	opID := time.Now().UTC().Format("20060102T150405Z")
	slogger, logFile, err := newLogger(cfg.LogDir, opID, level)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	fsmgr := fs.NewOSFilesystemManager(cfg.Filesystem.Ignore)
	events := progress.NewBroadcaster()
	svc := catalog.NewCatalogService(db, fsmgr, checksum.NewFileHasher(), volume.NewDiskProber(), events, logger, catalog.RealClock{}, serviceSettings(cfg))

	lib, err := svc.EnsureLibrary(cfg.Library)
	if err != nil {
		logFile.Close()
		db.Close()
		return nil, fmt.Errorf("opening library %q: %w", cfg.Library, err)
	}

	return &CatalogApp{
		cfg:       cfg,
		db:        db,
		archive:   arch,
		fsmgr:     fsmgr,
		encryptor: enc,
		events:    events,
		service:   svc,
		library:   lib,
		logger:    logger,
		op:        NewOperation(operation, ""),
		logFile:   logFile,
	}, nil
}

func serviceSettings(cfg *config.Config) catalog.Settings {
	settings := catalog.Settings{
		ClientID:            cfg.ClientID,
		ChecksumWorkers:     cfg.Jobs.ChecksumWorkers,
		CancelCheckInterval: cfg.Jobs.CancelCheckInterval,
	}
	if cfg.Filesystem.LowercaseExtensions {
		settings.ExtensionCase = catalog.ExtensionLower
	}
	return settings
}

// checkRemoteVersion refuses to open a catalog that is older than its
// archived snapshot: writing to it would fork the history.
func checkRemoteVersion(db *database.SQLiteDatabase, arch catalog.Archive, clientID string) error {
	remoteVersion, err := arch.Version(clientID, snapshotItem)
	if err != nil {
		return fmt.Errorf("checking archived catalog version: %w", err)
	}

	localMax, err := db.MaxOperationID()
	if err != nil {
		return fmt.Errorf("checking local catalog version: %w", err)
	}

	if remoteVersion > localMax {
		return fmt.Errorf("local=%d, remote=%d: restore with `catalog archive restore`: %w", localMax, remoteVersion, ErrRemoteAhead)
	}
	return nil
}

// Migrate applies pending migrations to the configured database and returns
// the resulting status.
func Migrate(cfg *config.Config) (*migrations.Status, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	db, err := database.NewDatabaseFromConfig(cfg.Database, cfg.ClientID)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return nil, err
	}
	return db.MigrationStatus()
}

// Service exposes the underlying service for callers that need the full API.
func (a *CatalogApp) Service() *catalog.CatalogService {
	return a.service
}

// Library is the library named in the config.
func (a *CatalogApp) Library() *sqlc.Library {
	return a.library
}

// persistOperation saves the operation to the database, giving it an auto-increment ID.
// This should only be called for DB-mutating commands.
func (a *CatalogApp) persistOperation(parameters string) error {
	if a.op.Persisted() {
		return nil
	}
	a.op.Parameters = parameters
	dbOp, err := a.db.CreateOperation(a.op.Operation, a.op.Parameters)
	if err != nil {
		return fmt.Errorf("persisting operation: %w", err)
	}
	a.op.ID = dbOp.ID
	return nil
}

// Close waits for running jobs, finalizes the operation and closes all
// resources. A persisted operation is followed by a snapshot upload when an
// archive is configured.
func (a *CatalogApp) Close() error {
	a.service.Wait()
	a.events.Close()

	var firstErr error
	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	var snapshotPath string
	if a.op.Persisted() {
		if err := a.db.FinishOperation(a.op.ID, a.op.Status); err != nil {
			record(fmt.Errorf("finishing operation: %w", err))
		}
		if a.archive != nil {
			path, err := a.snapshot()
			record(err)
			snapshotPath = path
		}
	}

	if err := a.db.Close(); err != nil {
		record(fmt.Errorf("closing database: %w", err))
	}

	if snapshotPath != "" {
		record(a.uploadSnapshot(snapshotPath, a.op.ID))
		os.Remove(snapshotPath)
	}

	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}
