package database

import (
	"context"
	"database/sql"
	"fmt"

	"catalog-go/internal/database/sqlc"
)

// Operation tracking. The newest operation id doubles as the catalog version
// stored alongside archived snapshots.

func (s *SQLiteDatabase) CreateOperation(operation string, parameters string) (*sqlc.Operation, error) {
	ctx := context.Background()
	id, err := s.queries.InsertOperation(ctx, sqlc.InsertOperationParams{
		Operation:  operation,
		Parameters: parameters,
		StartedAt:  s.clock.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("creating operation: %w", err)
	}
	op, err := s.queries.GetOperationByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading operation: %w", err)
	}
	return &op, nil
}

func (s *SQLiteDatabase) FinishOperation(id int64, status string) error {
	err := s.queries.FinishOperation(context.Background(), sqlc.FinishOperationParams{
		FinishedAt: sql.NullTime{Time: s.clock.Now(), Valid: true},
		Status:     status,
		ID:         id,
	})
	if err != nil {
		return fmt.Errorf("finishing operation: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) ListOperations(limit int) ([]*sqlc.Operation, error) {
	ops, err := s.queries.ListOperations(context.Background(), int64(limit))
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	return ptrs(ops), nil
}

func (s *SQLiteDatabase) MaxOperationID() (int64, error) {
	id, err := s.queries.GetMaxOperationID(context.Background())
	if err != nil {
		return 0, fmt.Errorf("getting max operation ID: %w", err)
	}
	return id, nil
}
