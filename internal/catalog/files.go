package catalog

import (
	"fmt"

	"catalog-go/internal/database/sqlc"
	"catalog-go/internal/metrics"
)

// UpsertFile indexes one entry of a Location, creating any missing parent
// directories. It holds the Location's write lock for the duration.
func (s *CatalogService) UpsertFile(locationID int64, components []string, meta FileMetadata) (*UpsertResult, error) {
	unlock := s.locks.Lock(locationID)
	defer unlock()
	return s.upsertFile(locationID, components, meta)
}

func (s *CatalogService) upsertFile(locationID int64, components []string, meta FileMetadata) (*UpsertResult, error) {
	if meta.Size < 0 {
		return nil, fmt.Errorf("negative size %d: %w", meta.Size, ErrInvariantViolation)
	}
	res, err := s.database.UpsertFile(locationID, components, meta)
	if err != nil {
		return nil, fmt.Errorf("upserting file: %w", err)
	}
	if res.Inserted {
		metrics.FilesUpserted.WithLabelValues("inserted").Inc()
	} else {
		metrics.FilesUpserted.WithLabelValues("updated").Inc()
	}
	return res, nil
}

// ReconcileMissing removes the Files of a Location that were not observed by
// a complete scan. Descendants of missing directories go with them.
func (s *CatalogService) ReconcileMissing(locationID int64, observed KeySet) (*ReconcileResult, error) {
	unlock := s.locks.Lock(locationID)
	defer unlock()
	return s.reconcileMissing(locationID, observed)
}

func (s *CatalogService) reconcileMissing(locationID int64, observed KeySet) (*ReconcileResult, error) {
	res, err := s.database.ReconcileMissing(locationID, observed)
	if err != nil {
		return nil, fmt.Errorf("reconciling location %d: %w", locationID, err)
	}
	metrics.FilesRemoved.Add(float64(res.Removed))
	if res.Missing > 0 {
		s.logger.Info("removed missing files", "location", locationID, "missing", res.Missing, "removed", res.Removed)
	}
	return res, nil
}

// ComputeChecksum stores a checksum computed elsewhere.
func (s *CatalogService) ComputeChecksum(fileID int64, tier ChecksumTier, value string) (*sqlc.File, error) {
	f, err := s.database.SetFileChecksum(fileID, tier, value)
	if err != nil {
		metrics.ChecksumsComputed.WithLabelValues(tier.String(), "error").Inc()
		return nil, fmt.Errorf("setting %s checksum: %w", tier, err)
	}
	metrics.ChecksumsComputed.WithLabelValues(tier.String(), "ok").Inc()
	return f, nil
}

// HashFile reads a File from its mounted Location, computes the tier's
// checksum and stores it.
func (s *CatalogService) HashFile(fileID int64, tier ChecksumTier) (*sqlc.File, error) {
	f, err := s.GetFile(fileID)
	if err != nil {
		return nil, err
	}
	loc, err := s.GetLocation(f.LocationID)
	if err != nil {
		return nil, err
	}
	sum, err := s.hashOnDisk(loc, f, tier)
	if err != nil {
		return nil, err
	}
	return s.ComputeChecksum(f.ID, tier, sum)
}

func (s *CatalogService) hashOnDisk(loc *sqlc.Location, f *sqlc.File, tier ChecksumTier) (string, error) {
	if f.IsDir {
		return "", fmt.Errorf("file %d is a directory: %w", f.ID, ErrInvariantViolation)
	}
	if !loc.IsOnline {
		return "", fmt.Errorf("location %d: %w", loc.ID, ErrLocationOffline)
	}
	if !loc.Path.Valid || loc.Path.String == "" {
		return "", fmt.Errorf("location %d has no path: %w", loc.ID, ErrInvariantViolation)
	}
	p, err := s.fsmgr.Resolve(joinLocationPath(loc.Path.String, RelativePath(f)))
	if err != nil {
		return "", fmt.Errorf("resolving file %d: %w", f.ID, err)
	}
	sum, err := s.hasher.Sum(tier, p)
	if err != nil {
		return "", fmt.Errorf("hashing %s: %w", p, err)
	}
	return sum, nil
}

// MoveFile re-parents or renames a File within its Location.
func (s *CatalogService) MoveFile(fileID int64, params MoveParams) (*sqlc.File, error) {
	f, err := s.GetFile(fileID)
	if err != nil {
		return nil, err
	}
	unlock := s.locks.Lock(f.LocationID)
	defer unlock()
	return s.moveFile(fileID, params)
}

func (s *CatalogService) moveFile(fileID int64, params MoveParams) (*sqlc.File, error) {
	f, err := s.database.MoveFile(fileID, params)
	if err != nil {
		return nil, fmt.Errorf("moving file %d: %w", fileID, err)
	}
	metrics.FilesMoved.Inc()
	s.logger.Debug("file moved", "id", f.ID, "stem", f.Stem, "name", f.Name)
	return f, nil
}

// GetFile returns a File or ErrNotFound.
func (s *CatalogService) GetFile(id int64) (*sqlc.File, error) {
	f, err := s.database.FindFileByID(id)
	if err != nil {
		return nil, fmt.Errorf("finding file: %w", err)
	}
	if f == nil {
		return nil, notFound("file", id)
	}
	return f, nil
}

// FindFile looks a File up by identity key; a miss is (nil, nil).
func (s *CatalogService) FindFile(locationID int64, key FileKey) (*sqlc.File, error) {
	f, err := s.database.FindFileByKey(locationID, key)
	if err != nil {
		return nil, fmt.Errorf("finding file by key: %w", err)
	}
	return f, nil
}

// ListChildren returns the direct children of a directory.
func (s *CatalogService) ListChildren(fileID int64) ([]*sqlc.File, error) {
	if _, err := s.GetFile(fileID); err != nil {
		return nil, err
	}
	children, err := s.database.ListChildren(fileID)
	if err != nil {
		return nil, fmt.Errorf("listing children: %w", err)
	}
	return children, nil
}

// ListRootFiles returns the Files directly under the root of a Location.
func (s *CatalogService) ListRootFiles(locationID int64) ([]*sqlc.File, error) {
	if _, err := s.GetLocation(locationID); err != nil {
		return nil, err
	}
	files, err := s.database.ListRootFiles(locationID)
	if err != nil {
		return nil, fmt.Errorf("listing root files: %w", err)
	}
	return files, nil
}

func (s *CatalogService) Ancestors(fileID int64) ([]*sqlc.File, error) {
	files, err := s.database.Ancestors(fileID)
	if err != nil {
		return nil, fmt.Errorf("listing ancestors: %w", err)
	}
	return files, nil
}

func (s *CatalogService) Descendants(fileID int64) ([]*sqlc.File, error) {
	files, err := s.database.Descendants(fileID)
	if err != nil {
		return nil, fmt.Errorf("listing descendants: %w", err)
	}
	return files, nil
}

func (s *CatalogService) IsDescendantOf(a, b int64) (bool, error) {
	ok, err := s.database.IsDescendantOf(a, b)
	if err != nil {
		return false, fmt.Errorf("checking ancestry: %w", err)
	}
	return ok, nil
}
