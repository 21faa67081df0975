package catalog

import (
	"fmt"
	"strings"

	"catalog-go/internal/database/sqlc"
)

func (s *CatalogService) CreateLibrary(name string) (*sqlc.Library, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("empty library name: %w", ErrInvariantViolation)
	}
	lib, err := s.database.CreateLibrary(name)
	if err != nil {
		return nil, fmt.Errorf("creating library: %w", err)
	}
	s.logger.Info("library created", "id", lib.ID, "name", lib.Name)
	return lib, nil
}

// EnsureLibrary returns the library called name, creating it on first use.
func (s *CatalogService) EnsureLibrary(name string) (*sqlc.Library, error) {
	lib, err := s.database.FindLibraryByName(name)
	if err != nil {
		return nil, fmt.Errorf("finding library: %w", err)
	}
	if lib != nil {
		return lib, nil
	}
	return s.CreateLibrary(name)
}

func (s *CatalogService) GetLibrary(id int64) (*sqlc.Library, error) {
	lib, err := s.database.FindLibraryByID(id)
	if err != nil {
		return nil, fmt.Errorf("finding library: %w", err)
	}
	if lib == nil {
		return nil, notFound("library", id)
	}
	return lib, nil
}

func (s *CatalogService) ListLibraries() ([]*sqlc.Library, error) {
	libs, err := s.database.ListLibraries()
	if err != nil {
		return nil, fmt.Errorf("listing libraries: %w", err)
	}
	return libs, nil
}

func (s *CatalogService) CreateSpace(libraryID int64, name, description string) (*sqlc.Space, error) {
	if _, err := s.GetLibrary(libraryID); err != nil {
		return nil, err
	}
	space, err := s.database.CreateSpace(libraryID, name, description)
	if err != nil {
		return nil, fmt.Errorf("creating space: %w", err)
	}
	return space, nil
}

func (s *CatalogService) ListSpaces(libraryID int64) ([]*sqlc.Space, error) {
	spaces, err := s.database.ListSpaces(libraryID)
	if err != nil {
		return nil, fmt.Errorf("listing spaces: %w", err)
	}
	return spaces, nil
}
