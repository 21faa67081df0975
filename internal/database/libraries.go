package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"catalog-go/internal/database/sqlc"
)

func (s *SQLiteDatabase) CreateLibrary(name string) (*sqlc.Library, error) {
	ctx := context.Background()
	id, err := s.queries.InsertLibrary(ctx, sqlc.InsertLibraryParams{
		PubID:       s.idgen.New(),
		Name:        name,
		DateCreated: s.clock.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("creating library: %w", mapConstraint(err))
	}
	lib, err := s.queries.GetLibraryByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading created library: %w", err)
	}
	return &lib, nil
}

func (s *SQLiteDatabase) FindLibraryByID(id int64) (*sqlc.Library, error) {
	lib, err := s.queries.GetLibraryByID(context.Background(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding library by id: %w", err)
	}
	return &lib, nil
}

func (s *SQLiteDatabase) FindLibraryByName(name string) (*sqlc.Library, error) {
	lib, err := s.queries.GetLibraryByName(context.Background(), name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding library by name: %w", err)
	}
	return &lib, nil
}

func (s *SQLiteDatabase) ListLibraries() ([]*sqlc.Library, error) {
	libs, err := s.queries.ListLibraries(context.Background())
	if err != nil {
		return nil, fmt.Errorf("listing libraries: %w", err)
	}
	return ptrs(libs), nil
}

func (s *SQLiteDatabase) CreateSpace(libraryID int64, name, description string) (*sqlc.Space, error) {
	ctx := context.Background()
	now := s.clock.Now()
	id, err := s.queries.InsertSpace(ctx, sqlc.InsertSpaceParams{
		PubID:        s.idgen.New(),
		LibraryID:    libraryID,
		Name:         name,
		Description:  description,
		DateCreated:  now,
		DateModified: now,
	})
	if err != nil {
		return nil, fmt.Errorf("creating space: %w", mapConstraint(err))
	}
	space, err := s.queries.GetSpaceByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading created space: %w", err)
	}
	return &space, nil
}

func (s *SQLiteDatabase) ListSpaces(libraryID int64) ([]*sqlc.Space, error) {
	spaces, err := s.queries.ListSpacesByLibrary(context.Background(), libraryID)
	if err != nil {
		return nil, fmt.Errorf("listing spaces: %w", err)
	}
	return ptrs(spaces), nil
}
