package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"catalog-go/internal/catalog"
	"catalog-go/internal/database/sqlc"
)

// CreateLocation inserts a Location. It starts online when its path is known.
func (s *SQLiteDatabase) CreateLocation(params catalog.LocationParams) (*sqlc.Location, error) {
	ctx := context.Background()
	id, err := s.queries.InsertLocation(ctx, sqlc.InsertLocationParams{
		PubID:             s.idgen.New(),
		LibraryID:         params.LibraryID,
		Name:              nullString(params.Name),
		Path:              nullString(params.Path),
		TotalCapacity:     params.TotalCapacity,
		AvailableCapacity: params.AvailableCapacity,
		IsRemovable:       params.IsRemovable,
		IsEjectable:       params.IsEjectable,
		IsRootFilesystem:  params.IsRootFilesystem,
		IsOnline:          params.Path != "",
		DateCreated:       s.clock.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("creating location: %w", mapConstraint(err))
	}
	loc, err := s.queries.GetLocationByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading created location: %w", err)
	}
	return &loc, nil
}

func (s *SQLiteDatabase) FindLocationByID(id int64) (*sqlc.Location, error) {
	loc, err := s.queries.GetLocationByID(context.Background(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding location: %w", err)
	}
	return &loc, nil
}

func (s *SQLiteDatabase) ListLocations() ([]*sqlc.Location, error) {
	locs, err := s.queries.ListLocations(context.Background())
	if err != nil {
		return nil, fmt.Errorf("listing locations: %w", err)
	}
	return ptrs(locs), nil
}

func (s *SQLiteDatabase) ListOnlineLocations() ([]*sqlc.Location, error) {
	locs, err := s.queries.ListOnlineLocations(context.Background())
	if err != nil {
		return nil, fmt.Errorf("listing online locations: %w", err)
	}
	return ptrs(locs), nil
}

func (s *SQLiteDatabase) SetLocationOnline(id int64, online bool) error {
	n, err := s.queries.UpdateLocationOnline(context.Background(), sqlc.UpdateLocationOnlineParams{
		IsOnline: online,
		ID:       id,
	})
	if err != nil {
		return fmt.Errorf("updating location availability: %w", err)
	}
	if n == 0 {
		return notFound("location", id)
	}
	return nil
}

func (s *SQLiteDatabase) SetLocationPath(id int64, path string) error {
	n, err := s.queries.UpdateLocationPath(context.Background(), sqlc.UpdateLocationPathParams{
		Path: nullString(path),
		ID:   id,
	})
	if err != nil {
		return fmt.Errorf("updating location path: %w", err)
	}
	if n == 0 {
		return notFound("location", id)
	}
	return nil
}

func (s *SQLiteDatabase) UpdateLocationCapacity(id int64, total, available sql.NullInt64) error {
	n, err := s.queries.UpdateLocationCapacity(context.Background(), sqlc.UpdateLocationCapacityParams{
		TotalCapacity:     total,
		AvailableCapacity: available,
		ID:                id,
	})
	if err != nil {
		return fmt.Errorf("updating location capacity: %w", err)
	}
	if n == 0 {
		return notFound("location", id)
	}
	return nil
}
