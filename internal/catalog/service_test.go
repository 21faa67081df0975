package catalog_test

import (
	"database/sql"
	"errors"
	"testing"

	"catalog-go/internal/catalog"
	"catalog-go/internal/testutil"
)

func TestCatalogService_RegisterLocation(t *testing.T) {
	t.Run("probes capacity", func(t *testing.T) {
		f := testutil.NewTestService(t)
		f.FS.AddDirectory("/data")

		loc, err := f.Service.RegisterLocation(catalog.LocationParams{LibraryID: 1, Name: "data", Path: " /data "})
		if err != nil {
			t.Fatalf("RegisterLocation() error = %v", err)
		}
		if loc.Path.String != "/data" {
			t.Errorf("Path = %q, want trimmed /data", loc.Path.String)
		}
		if loc.TotalCapacity.Int64 != 1000 || loc.AvailableCapacity.Int64 != 400 {
			t.Errorf("capacity = %d/%d, want 1000/400", loc.TotalCapacity.Int64, loc.AvailableCapacity.Int64)
		}
		if !loc.IsOnline {
			t.Error("new location with a path should be online")
		}
	})

	t.Run("probe failure leaves capacity unknown", func(t *testing.T) {
		f := testutil.NewTestService(t)
		f.Prober.Err = errors.New("no such device")

		loc, err := f.Service.RegisterLocation(catalog.LocationParams{LibraryID: 1, Path: "/mnt/usb"})
		if err != nil {
			t.Fatalf("RegisterLocation() error = %v", err)
		}
		if loc.TotalCapacity.Valid || loc.AvailableCapacity.Valid {
			t.Errorf("capacity = %v/%v, want unknown", loc.TotalCapacity, loc.AvailableCapacity)
		}
	})

	t.Run("path required unless removable", func(t *testing.T) {
		f := testutil.NewTestService(t)

		_, err := f.Service.RegisterLocation(catalog.LocationParams{LibraryID: 1, Name: "nowhere"})
		if !errors.Is(err, catalog.ErrInvariantViolation) {
			t.Errorf("RegisterLocation() error = %v, want ErrInvariantViolation", err)
		}

		loc, err := f.Service.RegisterLocation(catalog.LocationParams{LibraryID: 1, Name: "usb", IsRemovable: true})
		if err != nil {
			t.Fatalf("RegisterLocation(removable) error = %v", err)
		}
		if loc.Path.Valid {
			t.Errorf("Path = %q, want none", loc.Path.String)
		}
	})

	t.Run("unknown library", func(t *testing.T) {
		f := testutil.NewTestService(t)
		_, err := f.Service.RegisterLocation(catalog.LocationParams{LibraryID: 99, Path: "/data"})
		if !errors.Is(err, catalog.ErrNotFound) {
			t.Errorf("RegisterLocation() error = %v, want ErrNotFound", err)
		}
	})
}

func TestCatalogService_LocationAvailability(t *testing.T) {
	f := testutil.NewTestService(t)
	id := f.AddLocation(t, "/data")
	f.AddLocation(t, "/backup")

	if err := f.Service.SetLocationOnline(id, false); err != nil {
		t.Fatalf("SetLocationOnline() error = %v", err)
	}

	online, err := f.Service.ListOnlineLocations()
	if err != nil {
		t.Fatalf("ListOnlineLocations() error = %v", err)
	}
	if len(online) != 1 || online[0].Path.String != "/backup" {
		t.Errorf("ListOnlineLocations() = %v, want only /backup", online)
	}

	all, err := f.Service.ListLocations()
	if err != nil {
		t.Fatalf("ListLocations() error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("ListLocations() returned %d, want 2", len(all))
	}

	if _, err := f.Service.GetLocation(42); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("GetLocation(42) error = %v, want ErrNotFound", err)
	}
	if err := f.Service.SetLocationPath(id, "  "); !errors.Is(err, catalog.ErrInvariantViolation) {
		t.Errorf("SetLocationPath(blank) error = %v, want ErrInvariantViolation", err)
	}
}

func TestCatalogService_RefreshLocation(t *testing.T) {
	f := testutil.NewTestService(t)
	id := f.AddLocation(t, "/data")

	f.Prober.Total, f.Prober.Available = 2000, 150
	loc, err := f.Service.RefreshLocation(id)
	if err != nil {
		t.Fatalf("RefreshLocation() error = %v", err)
	}
	if loc.TotalCapacity.Int64 != 2000 || loc.AvailableCapacity.Int64 != 150 {
		t.Errorf("capacity = %d/%d, want 2000/150", loc.TotalCapacity.Int64, loc.AvailableCapacity.Int64)
	}

	usb, err := f.Service.RegisterLocation(catalog.LocationParams{LibraryID: 1, IsRemovable: true})
	if err != nil {
		t.Fatalf("RegisterLocation() error = %v", err)
	}
	if _, err := f.Service.RefreshLocation(usb.ID); !errors.Is(err, catalog.ErrInvariantViolation) {
		t.Errorf("RefreshLocation(no path) error = %v, want ErrInvariantViolation", err)
	}

	err = f.Service.UpdateLocationCapacity(id, sql.NullInt64{Int64: -1, Valid: true}, sql.NullInt64{})
	if !errors.Is(err, catalog.ErrInvariantViolation) {
		t.Errorf("UpdateLocationCapacity(negative) error = %v, want ErrInvariantViolation", err)
	}
}

func TestCatalogService_Libraries(t *testing.T) {
	f := testutil.NewTestService(t)

	lib, err := f.Service.EnsureLibrary("main")
	if err != nil {
		t.Fatalf("EnsureLibrary() error = %v", err)
	}
	if lib.ID != 1 {
		t.Errorf("EnsureLibrary(main).ID = %d, want existing library 1", lib.ID)
	}

	other, err := f.Service.EnsureLibrary("photos")
	if err != nil {
		t.Fatalf("EnsureLibrary(photos) error = %v", err)
	}
	again, err := f.Service.EnsureLibrary("photos")
	if err != nil {
		t.Fatalf("EnsureLibrary(photos) again error = %v", err)
	}
	if other.ID != again.ID {
		t.Errorf("EnsureLibrary created a second library: %d != %d", other.ID, again.ID)
	}

	if _, err := f.Service.CreateLibrary(" "); !errors.Is(err, catalog.ErrInvariantViolation) {
		t.Errorf("CreateLibrary(blank) error = %v, want ErrInvariantViolation", err)
	}
	if _, err := f.Service.CreateLibrary("photos"); !errors.Is(err, catalog.ErrDuplicateKey) {
		t.Errorf("CreateLibrary(duplicate) error = %v, want ErrDuplicateKey", err)
	}

	if _, err := f.Service.CreateSpace(other.ID, "raw", "unedited imports"); err != nil {
		t.Fatalf("CreateSpace() error = %v", err)
	}
	if _, err := f.Service.CreateSpace(99, "raw", ""); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("CreateSpace(unknown library) error = %v, want ErrNotFound", err)
	}
	spaces, err := f.Service.ListSpaces(other.ID)
	if err != nil {
		t.Fatalf("ListSpaces() error = %v", err)
	}
	if len(spaces) != 1 || spaces[0].Name != "raw" {
		t.Errorf("ListSpaces() = %v, want [raw]", spaces)
	}
}

func TestCatalogService_Files(t *testing.T) {
	f := testutil.NewTestService(t)
	loc := f.AddLocation(t, "/data")
	svc := f.Service

	res, err := svc.UpsertFile(loc, []string{"docs", "2024", "report.pdf"}, catalog.FileMetadata{Size: 10})
	if err != nil {
		t.Fatalf("UpsertFile() error = %v", err)
	}
	if !res.Inserted {
		t.Error("first UpsertFile should insert")
	}

	docs, err := svc.FindFile(loc, catalog.FileKey{Stem: "docs", Name: "docs"})
	if err != nil || docs == nil {
		t.Fatalf("FindFile(docs) = %v, %v; want the implied parent directory", docs, err)
	}
	missing, err := svc.FindFile(loc, catalog.FileKey{Stem: "nope", Name: "nope"})
	if err != nil || missing != nil {
		t.Errorf("FindFile(nope) = %v, %v; want nil, nil", missing, err)
	}

	ancestors, err := svc.Ancestors(res.File.ID)
	if err != nil {
		t.Fatalf("Ancestors() error = %v", err)
	}
	if len(ancestors) != 2 {
		t.Errorf("Ancestors() returned %d, want 2", len(ancestors))
	}
	below, err := svc.IsDescendantOf(res.File.ID, docs.ID)
	if err != nil || !below {
		t.Errorf("IsDescendantOf(report, docs) = %t, %v; want true", below, err)
	}

	t.Run("negative size", func(t *testing.T) {
		_, err := svc.UpsertFile(loc, []string{"bad.bin"}, catalog.FileMetadata{Size: -1})
		if !errors.Is(err, catalog.ErrInvariantViolation) {
			t.Errorf("UpsertFile() error = %v, want ErrInvariantViolation", err)
		}
	})

	t.Run("move into own subtree", func(t *testing.T) {
		sub, err := svc.FindFile(loc, catalog.FileKey{Stem: "docs/2024", Name: "2024"})
		if err != nil || sub == nil {
			t.Fatalf("FindFile(docs/2024) = %v, %v", sub, err)
		}
		_, err = svc.MoveFile(docs.ID, catalog.MoveParams{
			ParentID: sql.NullInt64{Int64: sub.ID, Valid: true},
			Stem:     "docs/2024/docs",
			Name:     "docs",
		})
		if !errors.Is(err, catalog.ErrCycleDetected) {
			t.Errorf("MoveFile() error = %v, want ErrCycleDetected", err)
		}
	})

	t.Run("move to root", func(t *testing.T) {
		moved, err := svc.MoveFile(res.File.ID, catalog.MoveParams{Stem: "report", Name: "report.pdf", Extension: "pdf"})
		if err != nil {
			t.Fatalf("MoveFile() error = %v", err)
		}
		if moved.ID != res.File.ID || moved.ParentID.Valid {
			t.Errorf("MoveFile() = %+v, want same id at the root", moved)
		}
		roots, err := svc.ListRootFiles(loc)
		if err != nil {
			t.Fatalf("ListRootFiles() error = %v", err)
		}
		if len(roots) != 2 {
			t.Errorf("ListRootFiles() returned %d, want docs and report.pdf", len(roots))
		}
	})

	t.Run("checksum of a directory", func(t *testing.T) {
		if _, err := svc.HashFile(docs.ID, catalog.TierFull); !errors.Is(err, catalog.ErrInvariantViolation) {
			t.Errorf("HashFile(dir) error = %v, want ErrInvariantViolation", err)
		}
	})

	t.Run("unknown file", func(t *testing.T) {
		if _, err := svc.GetFile(999); !errors.Is(err, catalog.ErrNotFound) {
			t.Errorf("GetFile(999) error = %v, want ErrNotFound", err)
		}
		if _, err := svc.ListChildren(999); !errors.Is(err, catalog.ErrNotFound) {
			t.Errorf("ListChildren(999) error = %v, want ErrNotFound", err)
		}
		if _, err := svc.ListRootFiles(999); !errors.Is(err, catalog.ErrNotFound) {
			t.Errorf("ListRootFiles(999) error = %v, want ErrNotFound", err)
		}
	})
}

func TestCatalogService_Tags(t *testing.T) {
	f := testutil.NewTestService(t)
	loc := f.AddLocation(t, "/data")
	svc := f.Service

	res, err := svc.UpsertFile(loc, []string{"a.txt"}, catalog.FileMetadata{Size: 1})
	if err != nil {
		t.Fatalf("UpsertFile() error = %v", err)
	}

	tag, err := svc.CreateTag(catalog.TagParams{Name: " keep ", RedundancyGoal: sql.NullInt64{Int64: 2, Valid: true}})
	if err != nil {
		t.Fatalf("CreateTag() error = %v", err)
	}
	if tag.Name != "keep" {
		t.Errorf("Name = %q, want trimmed keep", tag.Name)
	}

	t.Run("validation", func(t *testing.T) {
		if _, err := svc.CreateTag(catalog.TagParams{Name: ""}); !errors.Is(err, catalog.ErrInvariantViolation) {
			t.Errorf("CreateTag(empty) error = %v, want ErrInvariantViolation", err)
		}
		neg := catalog.TagParams{Name: "x", RedundancyGoal: sql.NullInt64{Int64: -1, Valid: true}}
		if _, err := svc.CreateTag(neg); !errors.Is(err, catalog.ErrInvariantViolation) {
			t.Errorf("CreateTag(negative goal) error = %v, want ErrInvariantViolation", err)
		}
		if _, err := svc.CreateTag(catalog.TagParams{Name: "keep"}); !errors.Is(err, catalog.ErrDuplicateKey) {
			t.Errorf("CreateTag(duplicate) error = %v, want ErrDuplicateKey", err)
		}
		if _, err := svc.GetTag(404); !errors.Is(err, catalog.ErrNotFound) {
			t.Errorf("GetTag(404) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("apply and remove", func(t *testing.T) {
		created, err := svc.ApplyTag(tag.ID, res.File.ID)
		if err != nil || !created {
			t.Fatalf("ApplyTag() = %t, %v; want true", created, err)
		}
		created, err = svc.ApplyTag(tag.ID, res.File.ID)
		if err != nil || created {
			t.Errorf("second ApplyTag() = %t, %v; want false", created, err)
		}

		tags, err := svc.TagsForFile(res.File.ID)
		if err != nil || len(tags) != 1 {
			t.Errorf("TagsForFile() = %v, %v; want one tag", tags, err)
		}
		files, err := svc.FilesForTag(tag.ID)
		if err != nil || len(files) != 1 {
			t.Errorf("FilesForTag() = %v, %v; want one file", files, err)
		}

		removed, err := svc.RemoveTag(tag.ID, res.File.ID)
		if err != nil || !removed {
			t.Errorf("RemoveTag() = %t, %v; want true", removed, err)
		}
		removed, err = svc.RemoveTag(tag.ID, res.File.ID)
		if err != nil || removed {
			t.Errorf("second RemoveTag() = %t, %v; want false", removed, err)
		}
	})
}

func TestCatalogService_JobLifecycle(t *testing.T) {
	f := testutil.NewTestService(t)
	svc := f.Service

	job, err := svc.CreateJob(catalog.JobParams{Action: catalog.ActionScan})
	if err != nil {
		t.Fatalf("CreateJob() error = %v", err)
	}
	if job.ClientID != testutil.TestClientID {
		t.Errorf("ClientID = %q, want the configured %q", job.ClientID, testutil.TestClientID)
	}
	if catalog.StatusOf(job) != catalog.JobQueued {
		t.Errorf("status = %s, want queued", catalog.StatusOf(job))
	}

	steps := []struct {
		name string
		run  func() error
	}{
		{"start", func() error { _, err := svc.StartJob(job.ID, 4); return err }},
		{"advance", func() error { _, err := svc.AdvanceJob(job.ID, 1); return err }},
		{"pause", func() error { _, err := svc.PauseJob(job.ID); return err }},
		{"resume", func() error { _, err := svc.ResumeJob(job.ID); return err }},
		{"complete", func() error { _, err := svc.FinishJob(job.ID, catalog.JobCompleted, ""); return err }},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			t.Fatalf("%s error = %v", step.name, err)
		}
	}

	done, err := svc.GetJob(job.ID)
	if err != nil {
		t.Fatalf("GetJob() error = %v", err)
	}
	if done.PercentageComplete != 100 || done.CompletedTaskCount != 4 {
		t.Errorf("completed job progress = %d%% %d/4, want 100%% 4/4", done.PercentageComplete, done.CompletedTaskCount)
	}

	var statuses []catalog.JobStatus
	for _, u := range f.Notifier.ForJob(job.ID) {
		statuses = append(statuses, u.Status)
	}
	want := []catalog.JobStatus{
		catalog.JobQueued, catalog.JobRunning, catalog.JobRunning,
		catalog.JobPaused, catalog.JobRunning, catalog.JobCompleted,
	}
	if len(statuses) != len(want) {
		t.Fatalf("notified statuses = %v, want %v", statuses, want)
	}
	for i := range want {
		if statuses[i] != want[i] {
			t.Errorf("update %d status = %s, want %s", i, statuses[i], want[i])
		}
	}
}

func TestCatalogService_JobErrors(t *testing.T) {
	f := testutil.NewTestService(t)
	svc := f.Service

	if _, err := svc.CreateJob(catalog.JobParams{}); !errors.Is(err, catalog.ErrInvariantViolation) {
		t.Errorf("CreateJob(no action) error = %v, want ErrInvariantViolation", err)
	}
	if _, err := svc.GetJob("missing"); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("GetJob(missing) error = %v, want ErrNotFound", err)
	}

	job, err := svc.CreateJob(catalog.JobParams{Action: catalog.ActionStatistics})
	if err != nil {
		t.Fatalf("CreateJob() error = %v", err)
	}

	if _, err := svc.PauseJob(job.ID); !errors.Is(err, catalog.ErrInvalidTransition) {
		t.Errorf("PauseJob(queued) error = %v, want ErrInvalidTransition", err)
	}

	active, err := svc.ListActiveJobs()
	if err != nil || len(active) != 1 {
		t.Errorf("ListActiveJobs() = %v, %v; want one job", active, err)
	}

	canceled, err := svc.CancelJob(job.ID)
	if err != nil {
		t.Fatalf("CancelJob() error = %v", err)
	}
	if catalog.StatusOf(canceled) != catalog.JobCanceled {
		t.Errorf("status = %s, want canceled", catalog.StatusOf(canceled))
	}
	if _, err := svc.CancelJob(job.ID); !errors.Is(err, catalog.ErrInvalidTransition) {
		t.Errorf("second CancelJob() error = %v, want ErrInvalidTransition", err)
	}

	// A canceled job absorbs late progress without failing the runner.
	late, err := svc.AdvanceJob(job.ID, 1)
	if err != nil {
		t.Fatalf("AdvanceJob(canceled) error = %v", err)
	}
	if catalog.StatusOf(late) != catalog.JobCanceled {
		t.Errorf("status after late advance = %s, want canceled", catalog.StatusOf(late))
	}
	updates := f.Notifier.ForJob(job.ID)
	if n := len(updates); n == 0 || updates[n-1].Status != catalog.JobCanceled {
		t.Errorf("updates = %+v, want the late advance reported as canceled", updates)
	}
	if n := len(updates); n < 2 || updates[n-2].Status != catalog.JobCanceled {
		t.Errorf("updates = %+v, want both the cancel and the late advance notified", updates)
	}

	active, err = svc.ListActiveJobs()
	if err != nil || len(active) != 0 {
		t.Errorf("ListActiveJobs() = %v, %v; want none", active, err)
	}

	if _, err := svc.FinishJob(job.ID, catalog.JobRunning, ""); !errors.Is(err, catalog.ErrInvariantViolation) {
		t.Errorf("FinishJob(running) error = %v, want ErrInvariantViolation", err)
	}
}
