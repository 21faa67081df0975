package testutil

import (
	"testing"

	"catalog-go/internal/catalog"
)

// TestClientID is the client id of services built by NewTestService.
const TestClientID = "test-client"

// ServiceFixture bundles a CatalogService with the fakes behind it.
type ServiceFixture struct {
	Service  *catalog.CatalogService
	DB       catalog.Database
	FS       *MockFilesystemManager
	Hasher   *StubHasher
	Prober   *StubProber
	Notifier *RecordingNotifier
	Clock    *StubClock
}

// NewTestService builds a CatalogService over an in-memory database, a mock
// filesystem and a stub hasher. Progress updates are recorded and also sent
// to every extra notifier.
func NewTestService(t *testing.T, extra ...catalog.ProgressNotifier) *ServiceFixture {
	t.Helper()

	clock := FixedClock()
	db := NewTestDatabaseWith(t, clock, NewStubIDGenerator())
	fsmgr := NewMockFilesystemManager()
	hasher := NewStubHasher(fsmgr)
	prober := &StubProber{Total: 1000, Available: 400}
	rec := &RecordingNotifier{}

	notifier := catalog.MultiNotifier{rec}
	notifier = append(notifier, extra...)

	svc := catalog.NewCatalogService(db, fsmgr, hasher, prober, notifier, catalog.NewNopLogger(), clock, catalog.Settings{
		ClientID:            TestClientID,
		ChecksumWorkers:     2,
		CancelCheckInterval: 2,
	})
	t.Cleanup(svc.Wait)

	return &ServiceFixture{
		Service:  svc,
		DB:       db,
		FS:       fsmgr,
		Hasher:   hasher,
		Prober:   prober,
		Notifier: rec,
		Clock:    clock,
	}
}

// AddLocation registers an online Location rooted at path in library 1.
func (f *ServiceFixture) AddLocation(t *testing.T, path string) int64 {
	t.Helper()
	f.FS.AddDirectory(path)
	loc, err := f.Service.RegisterLocation(catalog.LocationParams{LibraryID: 1, Name: path, Path: path})
	if err != nil {
		t.Fatalf("RegisterLocation() error = %v", err)
	}
	return loc.ID
}
