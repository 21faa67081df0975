package catalog_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"catalog-go/internal/catalog"
	"catalog-go/internal/testutil"
)

func runChecksum(t *testing.T, f *testutil.ServiceFixture, locationID int64, tier catalog.ChecksumTier, rehash bool) *catalog.ChecksumSummary {
	t.Helper()
	job, err := f.Service.StartChecksumJob(testutil.TestClientID, locationID, tier, rehash)
	if err != nil {
		t.Fatalf("StartChecksumJob() error = %v", err)
	}
	summary, err := f.Service.RunChecksumJob(context.Background(), job)
	if err != nil {
		t.Fatalf("RunChecksumJob() error = %v", err)
	}
	return summary
}

func TestCatalogService_ChecksumJob(t *testing.T) {
	t.Run("hashes every regular file", func(t *testing.T) {
		f := testutil.NewTestService(t)
		loc := seedLocation(t, f)
		runScan(t, f, loc)

		summary := runChecksum(t, f, loc, catalog.TierFull, false)

		if summary.Files != 3 || summary.Hashed != 3 || len(summary.Errors) != 0 {
			t.Errorf("summary = %+v, want 3 files hashed", summary)
		}
		song := findFile(t, f, loc, songKey)
		if song.FullChecksum.String != testutil.FullSum([]byte("la la la")) {
			t.Errorf("FullChecksum = %q, want stub full sum", song.FullChecksum.String)
		}
	})

	t.Run("skips files that already have the tier", func(t *testing.T) {
		f := testutil.NewTestService(t)
		loc := seedLocation(t, f)
		runScan(t, f, loc)
		runChecksum(t, f, loc, catalog.TierFull, false)

		if summary := runChecksum(t, f, loc, catalog.TierFull, false); summary.Files != 0 {
			t.Errorf("second run hashed %d files, want 0", summary.Files)
		}
		// The scan already computed every quick checksum.
		if summary := runChecksum(t, f, loc, catalog.TierQuick, false); summary.Files != 0 {
			t.Errorf("quick run hashed %d files, want 0", summary.Files)
		}
		if summary := runChecksum(t, f, loc, catalog.TierFull, true); summary.Files != 3 {
			t.Errorf("rehash run hashed %d files, want 3", summary.Files)
		}
	})

	t.Run("per-file failures do not fail the job", func(t *testing.T) {
		f := testutil.NewTestService(t)
		loc := seedLocation(t, f)
		runScan(t, f, loc)
		f.Hasher.FailOn("/data/docs/report.PDF", errors.New("input/output error"))

		job, err := f.Service.StartChecksumJob(testutil.TestClientID, loc, catalog.TierFull, false)
		if err != nil {
			t.Fatalf("StartChecksumJob() error = %v", err)
		}
		summary, err := f.Service.RunChecksumJob(context.Background(), job)
		if err != nil {
			t.Fatalf("RunChecksumJob() error = %v", err)
		}
		if summary.Hashed != 2 || len(summary.Errors) != 1 {
			t.Errorf("summary = %+v, want 2 hashed and 1 error", summary)
		}

		job, err = f.Service.GetJob(job.ID)
		if err != nil {
			t.Fatalf("GetJob() error = %v", err)
		}
		if catalog.StatusOf(job) != catalog.JobCompleted {
			t.Errorf("job status = %s, want completed", catalog.StatusOf(job))
		}
		if !strings.Contains(job.ErrorsText, "input/output error") {
			t.Errorf("ErrorsText = %q, want the hash failure", job.ErrorsText)
		}
	})

	t.Run("offline location", func(t *testing.T) {
		f := testutil.NewTestService(t)
		loc := seedLocation(t, f)
		if err := f.Service.SetLocationOnline(loc, false); err != nil {
			t.Fatalf("SetLocationOnline() error = %v", err)
		}
		_, err := f.Service.StartChecksumJob(testutil.TestClientID, loc, catalog.TierFull, false)
		if !errors.Is(err, catalog.ErrLocationOffline) {
			t.Errorf("StartChecksumJob() error = %v, want ErrLocationOffline", err)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		f := testutil.NewTestService(t)
		loc := seedLocation(t, f)
		runScan(t, f, loc)

		job, err := f.Service.StartChecksumJob(testutil.TestClientID, loc, catalog.TierFull, false)
		if err != nil {
			t.Fatalf("StartChecksumJob() error = %v", err)
		}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		summary, err := f.Service.RunChecksumJob(ctx, job)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("RunChecksumJob() error = %v, want context.Canceled", err)
		}
		if !summary.Canceled {
			t.Error("summary not marked canceled")
		}
		job, err = f.Service.GetJob(job.ID)
		if err != nil {
			t.Fatalf("GetJob() error = %v", err)
		}
		if catalog.StatusOf(job) != catalog.JobCanceled {
			t.Errorf("job status = %s, want canceled", catalog.StatusOf(job))
		}
	})
}

func TestCatalogService_HashFile(t *testing.T) {
	f := testutil.NewTestService(t)
	loc := seedLocation(t, f)
	runScan(t, f, loc)
	song := findFile(t, f, loc, songKey)

	hashed, err := f.Service.HashFile(song.ID, catalog.TierFull)
	if err != nil {
		t.Fatalf("HashFile() error = %v", err)
	}
	if hashed.FullChecksum.String != testutil.FullSum([]byte("la la la")) {
		t.Errorf("FullChecksum = %q, want stub full sum", hashed.FullChecksum.String)
	}

	if err := f.Service.SetLocationOnline(loc, false); err != nil {
		t.Fatalf("SetLocationOnline() error = %v", err)
	}
	if _, err := f.Service.HashFile(song.ID, catalog.TierFull); !errors.Is(err, catalog.ErrLocationOffline) {
		t.Errorf("HashFile(offline) error = %v, want ErrLocationOffline", err)
	}
}
