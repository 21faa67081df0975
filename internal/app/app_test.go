package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"catalog-go/internal/archive"
	"catalog-go/internal/catalog"
	"catalog-go/internal/config"
	"catalog-go/internal/database/migrations"
)

const testClientID = "laptop"

func newTestConfig(t *testing.T, archiveRoot string) *config.Config {
	t.Helper()
	cfg := config.NewConfig(testClientID, t.TempDir())
	cfg.LogLevel = "error"
	cfg.Encryption = config.EncryptionConfig{Type: "test"}
	cfg.Archive = config.ArchiveConfig{Type: "filesystem", FSArchiveRoot: archiveRoot}
	return cfg
}

func migrated(t *testing.T, cfg *config.Config) *config.Config {
	t.Helper()
	if _, err := Migrate(cfg); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return cfg
}

func openApp(t *testing.T, cfg *config.Config, operation string) *CatalogApp {
	t.Helper()
	a, err := NewCatalogApp(context.Background(), cfg, operation)
	if err != nil {
		t.Fatalf("NewCatalogApp() error = %v", err)
	}
	return a
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func archivedVersion(t *testing.T, root string) int64 {
	t.Helper()
	arch, err := archive.NewFileSystemArchive(root)
	if err != nil {
		t.Fatalf("NewFileSystemArchive() error = %v", err)
	}
	v, err := arch.Version(testClientID, snapshotItem)
	if err != nil {
		t.Fatalf("Version() error = %v", err)
	}
	return v
}

// indexLocation adds and scans a small tree, then closes the app so the
// catalog is archived.
func indexLocation(t *testing.T, cfg *config.Config) string {
	t.Helper()
	root := writeTree(t, map[string]string{
		"notes.txt":         "hello",
		"photos/beach.JPG":  "sand",
		"photos/.DS_Store":  "junk",
		"photos/2025/a.png": "pixels",
	})

	a := openApp(t, cfg, "AddLocation")
	loc, err := a.AddLocation(root, LocationOptions{Name: "home"})
	if err != nil {
		t.Fatalf("AddLocation() error = %v", err)
	}
	job, summary, err := a.Scan(context.Background(), loc.ID)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if catalog.StatusOf(job) != catalog.JobCompleted {
		t.Errorf("scan job status = %s, want completed", catalog.StatusOf(job))
	}
	// notes.txt, photos, photos/beach.JPG, photos/2025, photos/2025/a.png
	if summary.Entries != 5 {
		t.Errorf("scan entries = %d, want 5", summary.Entries)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return root
}

func TestNewCatalogApp_RequiresMigration(t *testing.T) {
	cfg := newTestConfig(t, t.TempDir())

	_, err := NewCatalogApp(context.Background(), cfg, "ListLocations")
	if !errors.Is(err, migrations.ErrNoVersion) {
		t.Fatalf("NewCatalogApp() error = %v, want ErrNoVersion", err)
	}

	st, err := Migrate(cfg)
	if err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if st.Behind() != 0 {
		t.Errorf("Behind() after Migrate = %d, want 0", st.Behind())
	}
}

func TestCatalogApp_ScanAndSnapshot(t *testing.T) {
	archiveRoot := t.TempDir()
	cfg := migrated(t, newTestConfig(t, archiveRoot))
	cfg.Filesystem.LowercaseExtensions = true

	indexLocation(t, cfg)

	if got := archivedVersion(t, archiveRoot); got != 1 {
		t.Fatalf("archived version = %d, want 1", got)
	}

	a := openApp(t, cfg, "ListLocations")
	locs, err := a.ListLocations()
	if err != nil {
		t.Fatalf("ListLocations() error = %v", err)
	}
	if len(locs) != 1 || !locs[0].IsOnline {
		t.Fatalf("ListLocations() = %+v, want one online location", locs)
	}

	roots, err := a.ListFiles(locs[0].ID, 0)
	if err != nil {
		t.Fatalf("ListFiles() error = %v", err)
	}
	var photosID int64
	for _, f := range roots {
		if f.Name == "photos" {
			photosID = f.ID
		}
	}
	children, err := a.ListFiles(locs[0].ID, photosID)
	if err != nil {
		t.Fatalf("ListFiles(photos) error = %v", err)
	}
	for _, f := range children {
		if f.Name == ".DS_Store" {
			t.Error("ignored file was indexed")
		}
		if f.Name == "beach.JPG" && f.Extension != "jpg" {
			t.Errorf("extension = %q, want lowercased jpg", f.Extension)
		}
	}

	ops, err := a.GetHistory(10)
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if len(ops) != 1 || ops[0].Operation != "AddLocation" || ops[0].Status != OperationSuccess {
		t.Errorf("GetHistory() = %+v, want one successful AddLocation", ops)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Read-only commands do not produce a snapshot.
	if got := archivedVersion(t, archiveRoot); got != 1 {
		t.Errorf("archived version after read-only command = %d, want 1", got)
	}
}

func TestCatalogApp_ChecksumTagsAndStatistics(t *testing.T) {
	cfg := migrated(t, newTestConfig(t, t.TempDir()))
	indexLocation(t, cfg)

	a := openApp(t, cfg, "Checksum")
	defer a.Close()
	ctx := context.Background()

	job, summary, err := a.Checksum(ctx, 1, catalog.TierFull, false)
	if err != nil {
		t.Fatalf("Checksum() error = %v", err)
	}
	if catalog.StatusOf(job) != catalog.JobCompleted || summary.Files != 3 {
		t.Errorf("checksum job = %s with %d files, want completed with 3", catalog.StatusOf(job), summary.Files)
	}

	tag, err := a.CreateTag("keep", "", 2)
	if err != nil {
		t.Fatalf("CreateTag() error = %v", err)
	}
	roots, err := a.ListFiles(1, 0)
	if err != nil {
		t.Fatalf("ListFiles() error = %v", err)
	}
	var photosID int64
	for _, f := range roots {
		if f.Name == "photos" {
			photosID = f.ID
		}
	}
	n, err := a.ApplyTag(ctx, tag.ID, photosID, true)
	if err != nil {
		t.Fatalf("ApplyTag() error = %v", err)
	}
	// photos, beach.JPG, 2025, a.png
	if n != 4 {
		t.Errorf("ApplyTag() linked %d files, want 4", n)
	}

	stats, err := a.CaptureStatistics(ctx)
	if err != nil {
		t.Fatalf("CaptureStatistics() error = %v", err)
	}
	if stats.TotalFileCount != 3 {
		t.Errorf("TotalFileCount = %d, want 3", stats.TotalFileCount)
	}
	if stats.TotalBytesUsed != "15" {
		t.Errorf("TotalBytesUsed = %s, want 15", stats.TotalBytesUsed)
	}

	jobs, err := a.ListJobs(false)
	if err != nil {
		t.Fatalf("ListJobs() error = %v", err)
	}
	// scan, checksum, tag-apply, statistics
	if len(jobs) != 4 {
		t.Errorf("ListJobs() returned %d jobs, want 4", len(jobs))
	}
}

func TestCatalogApp_FailedOperationIsRecorded(t *testing.T) {
	cfg := migrated(t, newTestConfig(t, t.TempDir()))

	a := openApp(t, cfg, "AddLocation")
	if _, err := a.AddLocation(filepath.Join(t.TempDir(), "missing"), LocationOptions{}); err == nil {
		t.Fatal("AddLocation() expected error for a missing directory")
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	a = openApp(t, cfg, "GetHistory")
	defer a.Close()
	ops, err := a.GetHistory(10)
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if len(ops) != 1 || ops[0].Status != OperationError {
		t.Errorf("GetHistory() = %+v, want one failed operation", ops)
	}
}

func TestRestore(t *testing.T) {
	archiveRoot := t.TempDir()
	source := migrated(t, newTestConfig(t, archiveRoot))
	indexLocation(t, source)

	ctx := context.Background()
	target := newTestConfig(t, archiveRoot)

	if _, err := Restore(ctx, target, "wrong", false); err == nil {
		t.Fatal("Restore() expected error for wrong passphrase")
	}

	version, err := Restore(ctx, target, "secret", false)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if version != 1 {
		t.Errorf("Restore() version = %d, want 1", version)
	}

	if _, err := Restore(ctx, target, "secret", false); err == nil {
		t.Error("Restore() expected error when the catalog exists and force is not set")
	}
	if _, err := Restore(ctx, target, "secret", true); err != nil {
		t.Errorf("Restore(force) error = %v", err)
	}

	a := openApp(t, target, "ListLocations")
	defer a.Close()
	locs, err := a.ListLocations()
	if err != nil {
		t.Fatalf("ListLocations() error = %v", err)
	}
	if len(locs) != 1 {
		t.Errorf("restored catalog has %d locations, want 1", len(locs))
	}
}

func TestRestore_NoSnapshot(t *testing.T) {
	cfg := newTestConfig(t, t.TempDir())
	_, err := Restore(context.Background(), cfg, "secret", false)
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("Restore() error = %v, want ErrNotFound", err)
	}
}

func TestNewCatalogApp_RefusesWhenRemoteAhead(t *testing.T) {
	archiveRoot := t.TempDir()
	indexLocation(t, migrated(t, newTestConfig(t, archiveRoot)))

	// Same client, fresh local catalog.
	stale := migrated(t, newTestConfig(t, archiveRoot))
	_, err := NewCatalogApp(context.Background(), stale, "ListLocations")
	if !errors.Is(err, ErrRemoteAhead) {
		t.Fatalf("NewCatalogApp() error = %v, want ErrRemoteAhead", err)
	}
}

func TestNewCatalogApp_MemoryDatabase(t *testing.T) {
	cfg := config.NewConfig(testClientID, t.TempDir())
	cfg.LogLevel = "error"
	cfg.Database = config.DatabaseConfig{Type: "memory"}

	a := openApp(t, cfg, "ListLocations")
	defer a.Close()

	if a.Library().Name != config.DefaultLibrary {
		t.Errorf("Library().Name = %q, want %q", a.Library().Name, config.DefaultLibrary)
	}
	if a.Service().ClientID() != testClientID {
		t.Errorf("ClientID() = %q, want %q", a.Service().ClientID(), testClientID)
	}
}

func TestNewCatalogApp_ArchiveNeedsKeys(t *testing.T) {
	cfg := migrated(t, config.NewConfig(testClientID, t.TempDir()))
	cfg.LogLevel = "error"
	cfg.Archive = config.ArchiveConfig{Type: "memory"}

	if _, err := NewCatalogApp(context.Background(), cfg, "ListLocations"); err == nil {
		t.Fatal("NewCatalogApp() expected error when age keys are missing")
	}

	if err := SetupKeys(cfg, "secret"); err != nil {
		t.Fatalf("SetupKeys() error = %v", err)
	}
	a := openApp(t, cfg, "ListLocations")
	if err := a.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}
