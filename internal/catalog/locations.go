package catalog

import (
	"database/sql"
	"fmt"
	"strings"

	"catalog-go/internal/database/sqlc"
)

// RegisterLocation records a storage root. A path is required unless the
// Location is removable and not currently mounted. When a path is given and
// no capacity was supplied, the device is probed; probe failures leave the
// capacity unknown.
func (s *CatalogService) RegisterLocation(params LocationParams) (*sqlc.Location, error) {
	params.Path = strings.TrimSpace(params.Path)
	if params.Path == "" && !params.IsRemovable {
		return nil, fmt.Errorf("location path is required unless removable: %w", ErrInvariantViolation)
	}

	lib, err := s.database.FindLibraryByID(params.LibraryID)
	if err != nil {
		return nil, fmt.Errorf("finding library: %w", err)
	}
	if lib == nil {
		return nil, notFound("library", params.LibraryID)
	}

	if params.Path != "" && !params.TotalCapacity.Valid {
		info, err := s.prober.Probe(params.Path)
		if err != nil {
			s.logger.Warn("volume probe failed", "path", params.Path, "error", err)
		} else {
			params.TotalCapacity = info.TotalCapacity
			if !params.AvailableCapacity.Valid {
				params.AvailableCapacity = info.AvailableCapacity
			}
			params.IsRootFilesystem = params.IsRootFilesystem || info.IsRootFilesystem
		}
	}

	loc, err := s.database.CreateLocation(params)
	if err != nil {
		return nil, fmt.Errorf("creating location: %w", err)
	}

	s.logger.Info("location registered", "id", loc.ID, "name", loc.Name.String, "path", loc.Path.String)
	return loc, nil
}

// GetLocation returns a Location or ErrNotFound.
func (s *CatalogService) GetLocation(id int64) (*sqlc.Location, error) {
	loc, err := s.database.FindLocationByID(id)
	if err != nil {
		return nil, fmt.Errorf("finding location: %w", err)
	}
	if loc == nil {
		return nil, notFound("location", id)
	}
	return loc, nil
}

func (s *CatalogService) ListLocations() ([]*sqlc.Location, error) {
	locs, err := s.database.ListLocations()
	if err != nil {
		return nil, fmt.Errorf("listing locations: %w", err)
	}
	return locs, nil
}

func (s *CatalogService) ListOnlineLocations() ([]*sqlc.Location, error) {
	locs, err := s.database.ListOnlineLocations()
	if err != nil {
		return nil, fmt.Errorf("listing online locations: %w", err)
	}
	return locs, nil
}

// SetLocationOnline flips the availability flag. Going offline never
// touches the Files of the Location.
func (s *CatalogService) SetLocationOnline(id int64, online bool) error {
	if err := s.database.SetLocationOnline(id, online); err != nil {
		return fmt.Errorf("setting location online=%t: %w", online, err)
	}
	s.logger.Info("location availability changed", "id", id, "online", online)
	return nil
}

// SetLocationPath records where a removable Location is mounted now.
func (s *CatalogService) SetLocationPath(id int64, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("empty location path: %w", ErrInvariantViolation)
	}
	if err := s.database.SetLocationPath(id, path); err != nil {
		return fmt.Errorf("setting location path: %w", err)
	}
	return nil
}

func (s *CatalogService) UpdateLocationCapacity(id int64, total, available sql.NullInt64) error {
	if total.Valid && total.Int64 < 0 || available.Valid && available.Int64 < 0 {
		return fmt.Errorf("negative capacity: %w", ErrInvariantViolation)
	}
	if err := s.database.UpdateLocationCapacity(id, total, available); err != nil {
		return fmt.Errorf("updating location capacity: %w", err)
	}
	return nil
}

// RefreshLocation re-probes the device of a mounted Location and stores the
// capacity it reports.
func (s *CatalogService) RefreshLocation(id int64) (*sqlc.Location, error) {
	loc, err := s.GetLocation(id)
	if err != nil {
		return nil, err
	}
	if !loc.Path.Valid || loc.Path.String == "" {
		return nil, fmt.Errorf("location %d has no path: %w", id, ErrInvariantViolation)
	}

	info, err := s.prober.Probe(loc.Path.String)
	if err != nil {
		return nil, fmt.Errorf("probing %s: %w", loc.Path.String, err)
	}
	if err := s.database.UpdateLocationCapacity(id, info.TotalCapacity, info.AvailableCapacity); err != nil {
		return nil, fmt.Errorf("updating location capacity: %w", err)
	}
	return s.GetLocation(id)
}
