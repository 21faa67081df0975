package app

import (
	"context"
	"fmt"
	"strings"

	"catalog-go/internal/catalog"
	"catalog-go/internal/database/sqlc"
	"catalog-go/internal/server"
)

// LocationOptions are the flags of `catalog location add`.
type LocationOptions struct {
	Name      string
	Removable bool
	Ejectable bool
}

// AddLocation resolves rawPath and registers it in the configured library.
// A removable Location may be added without a path while it is unmounted.
func (a *CatalogApp) AddLocation(rawPath string, opts LocationOptions) (*sqlc.Location, error) {
	if err := a.persistOperation(rawPath); err != nil {
		return nil, err
	}

	var path string
	if rawPath != "" {
		p, err := a.resolveDir(rawPath)
		if err != nil {
			return nil, a.op.Fail(err)
		}
		path = p
	}

	loc, err := a.service.RegisterLocation(catalog.LocationParams{
		LibraryID:   a.library.ID,
		Name:        opts.Name,
		Path:        path,
		IsRemovable: opts.Removable,
		IsEjectable: opts.Ejectable,
	})
	return loc, a.op.Fail(err)
}

func (a *CatalogApp) resolveDir(rawPath string) (string, error) {
	p, err := a.fsmgr.Resolve(rawPath)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	if !p.IsDir() {
		return "", fmt.Errorf("%s is not a directory: %w", p, catalog.ErrInvariantViolation)
	}
	return p.String(), nil
}

func (a *CatalogApp) ListLocations() ([]*sqlc.Location, error) {
	return a.service.ListLocations()
}

// SetLocationOnline marks a Location mounted or unmounted. A non-empty
// rawPath records where a removable Location is mounted now.
func (a *CatalogApp) SetLocationOnline(id int64, online bool, rawPath string) error {
	if err := a.persistOperation(fmt.Sprintf("location=%d online=%t", id, online)); err != nil {
		return err
	}
	if rawPath != "" {
		path, err := a.resolveDir(rawPath)
		if err != nil {
			return a.op.Fail(err)
		}
		if err := a.service.SetLocationPath(id, path); err != nil {
			return a.op.Fail(err)
		}
	}
	return a.op.Fail(a.service.SetLocationOnline(id, online))
}

// RefreshLocation re-probes the capacity of a mounted Location.
func (a *CatalogApp) RefreshLocation(id int64) (*sqlc.Location, error) {
	if err := a.persistOperation(fmt.Sprintf("location=%d", id)); err != nil {
		return nil, err
	}
	loc, err := a.service.RefreshLocation(id)
	return loc, a.op.Fail(err)
}

// Scan runs a scan job for a Location in the foreground.
func (a *CatalogApp) Scan(ctx context.Context, locationID int64) (*sqlc.Job, *catalog.ScanSummary, error) {
	if err := a.persistOperation(fmt.Sprintf("location=%d", locationID)); err != nil {
		return nil, nil, err
	}
	job, err := a.service.StartScanJob(a.cfg.ClientID, locationID)
	if err != nil {
		return nil, nil, a.op.Fail(err)
	}
	summary, err := a.service.RunScanJob(ctx, job)
	if err != nil {
		return job, summary, a.op.Fail(err)
	}
	job, err = a.service.GetJob(job.ID)
	return job, summary, a.op.Fail(err)
}

// Checksum runs a checksum job for a Location in the foreground.
func (a *CatalogApp) Checksum(ctx context.Context, locationID int64, tier catalog.ChecksumTier, rehash bool) (*sqlc.Job, *catalog.ChecksumSummary, error) {
	params := fmt.Sprintf("location=%d tier=%s rehash=%t", locationID, tier, rehash)
	if err := a.persistOperation(params); err != nil {
		return nil, nil, err
	}
	job, err := a.service.StartChecksumJob(a.cfg.ClientID, locationID, tier, rehash)
	if err != nil {
		return nil, nil, a.op.Fail(err)
	}
	summary, err := a.service.RunChecksumJob(ctx, job)
	if err != nil {
		return job, summary, a.op.Fail(err)
	}
	job, err = a.service.GetJob(job.ID)
	return job, summary, a.op.Fail(err)
}

// CreateTag creates a tag. goal is the redundancy goal; a negative value
// leaves it unset.
func (a *CatalogApp) CreateTag(name, color string, goal int64) (*sqlc.Tag, error) {
	if err := a.persistOperation(name); err != nil {
		return nil, err
	}
	params := catalog.TagParams{Name: name, Color: color}
	if goal >= 0 {
		params.RedundancyGoal.Int64, params.RedundancyGoal.Valid = goal, true
	}
	tag, err := a.service.CreateTag(params)
	return tag, a.op.Fail(err)
}

func (a *CatalogApp) ListTags() ([]*sqlc.Tag, error) {
	return a.service.ListTags()
}

// ApplyTag tags a file, or with recursive set a directory and everything
// below it. It returns the number of new links.
func (a *CatalogApp) ApplyTag(ctx context.Context, tagID, fileID int64, recursive bool) (int, error) {
	if err := a.persistOperation(fmt.Sprintf("tag=%d file=%d recursive=%t", tagID, fileID, recursive)); err != nil {
		return 0, err
	}
	if !recursive {
		created, err := a.service.ApplyTag(tagID, fileID)
		if err != nil {
			return 0, a.op.Fail(err)
		}
		if created {
			return 1, nil
		}
		return 0, nil
	}

	job, err := a.service.ApplyTagRecursive(a.cfg.ClientID, tagID, fileID)
	if err != nil {
		return 0, a.op.Fail(err)
	}
	n, err := a.service.RunTagJob(ctx, job)
	return n, a.op.Fail(err)
}

// RemoveTag unlinks a tag from a file.
func (a *CatalogApp) RemoveTag(tagID, fileID int64) (bool, error) {
	if err := a.persistOperation(fmt.Sprintf("tag=%d file=%d", tagID, fileID)); err != nil {
		return false, err
	}
	removed, err := a.service.RemoveTag(tagID, fileID)
	return removed, a.op.Fail(err)
}

// CaptureStatistics runs a statistics job for the configured library and
// returns the snapshot it recorded.
func (a *CatalogApp) CaptureStatistics(ctx context.Context) (*sqlc.LibraryStatistic, error) {
	if err := a.persistOperation(a.library.Name); err != nil {
		return nil, err
	}
	job, err := a.service.StartStatisticsJob(a.cfg.ClientID, a.library.ID)
	if err != nil {
		return nil, a.op.Fail(err)
	}
	if err := a.service.RunJob(ctx, job); err != nil {
		return nil, a.op.Fail(err)
	}
	stats, err := a.service.LatestLibraryStatistics(a.library.ID)
	return stats, a.op.Fail(err)
}

func (a *CatalogApp) ListStatistics(limit int) ([]*sqlc.LibraryStatistic, error) {
	return a.service.ListLibraryStatistics(a.library.ID, limit)
}

// ListJobs returns this client's jobs, or only the unfinished jobs of every
// client when active is set.
func (a *CatalogApp) ListJobs(active bool) ([]*sqlc.Job, error) {
	if active {
		return a.service.ListActiveJobs()
	}
	return a.service.ListJobsForClient(a.cfg.ClientID)
}

func (a *CatalogApp) GetJob(id string) (*sqlc.Job, error) {
	return a.service.GetJob(id)
}

func (a *CatalogApp) CancelJob(id string) (*sqlc.Job, error) {
	if err := a.persistOperation(id); err != nil {
		return nil, err
	}
	job, err := a.service.CancelJob(id)
	return job, a.op.Fail(err)
}

// ListFiles lists the root of a Location, or the children of a directory
// when parentID is positive.
func (a *CatalogApp) ListFiles(locationID, parentID int64) ([]*sqlc.File, error) {
	if parentID > 0 {
		return a.service.ListChildren(parentID)
	}
	return a.service.ListRootFiles(locationID)
}

// GetHistory returns the most recent operations.
func (a *CatalogApp) GetHistory(limit int) ([]*sqlc.Operation, error) {
	return a.service.GetHistory(limit)
}

// Serve runs the HTTP API until ctx is canceled. The whole session is one
// operation, so the catalog is snapshotted once when the server stops.
func (a *CatalogApp) Serve(ctx context.Context, listen string) error {
	if strings.TrimSpace(listen) == "" {
		listen = a.cfg.Server.Listen
	}
	if err := a.persistOperation(listen); err != nil {
		return err
	}
	srv := server.New(ctx, a.service, a.events, a.logger)
	return a.op.Fail(srv.ListenAndServe(ctx, listen))
}
