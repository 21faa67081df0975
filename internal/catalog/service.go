package catalog

import (
	"fmt"
	"sync"
)

// Settings are the tunables of the service that come from configuration.
type Settings struct {
	// ClientID identifies this host in job rows and archive items.
	ClientID string
	// ChecksumWorkers bounds the goroutines hashing files in a checksum job.
	ChecksumWorkers int
	// CancelCheckInterval is the number of scan entries processed between
	// progress writes; each write also observes cancellation.
	CancelCheckInterval int
	// ExtensionCase is the extension policy applied by scans.
	ExtensionCase ExtensionCase
}

const (
	defaultChecksumWorkers     = 4
	defaultCancelCheckInterval = 25
)

// CatalogService is the orchestration layer used by the CLI and the HTTP API.
// It owns the per-Location write locks and reports job progress.
type CatalogService struct {
	database Database
	fsmgr    FilesystemManager
	hasher   Hasher
	prober   VolumeProber
	notifier ProgressNotifier
	logger   Logger
	clock    Clock
	settings Settings
	locks    *LocationLocks

	running sync.WaitGroup
}

// NewCatalogService creates a CatalogService. A nil prober, notifier, logger
// or clock falls back to its no-op or real implementation.
func NewCatalogService(database Database, fsmgr FilesystemManager, hasher Hasher, prober VolumeProber, notifier ProgressNotifier, logger Logger, clock Clock, settings Settings) *CatalogService {
	if prober == nil {
		prober = NopProber{}
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = NewNopLogger()
	}
	if settings.ChecksumWorkers <= 0 {
		settings.ChecksumWorkers = defaultChecksumWorkers
	}
	if settings.CancelCheckInterval <= 0 {
		settings.CancelCheckInterval = defaultCancelCheckInterval
	}
	return &CatalogService{
		database: database,
		fsmgr:    fsmgr,
		hasher:   hasher,
		prober:   prober,
		notifier: notifier,
		logger:   logger,
		clock:    ClockOrReal(clock),
		settings: settings,
		locks:    NewLocationLocks(),
	}
}

// ClientID returns the configured client id.
func (s *CatalogService) ClientID() string {
	return s.settings.ClientID
}

// Wait blocks until every job started with Spawn has returned.
func (s *CatalogService) Wait() {
	s.running.Wait()
}

func notFound(kind string, id any) error {
	return fmt.Errorf("%s %v: %w", kind, id, ErrNotFound)
}
