package catalog

import (
	"fmt"

	"catalog-go/internal/database/sqlc"
)

// GetHistory returns the most recent recorded commands, newest first.
func (s *CatalogService) GetHistory(limit int) ([]*sqlc.Operation, error) {
	ops, err := s.database.ListOperations(limit)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	return ops, nil
}
