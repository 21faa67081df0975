package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/big"

	"catalog-go/internal/catalog"
	"catalog-go/internal/database/sqlc"
)

// CaptureLibraryStatistics appends a snapshot of the library's totals. Byte
// counts are summed as arbitrary-precision integers and stored as decimal
// strings. Unique bytes count each distinct full checksum once; files that
// were never fully hashed are not counted as unique.
func (s *SQLiteDatabase) CaptureLibraryStatistics(libraryID int64) (*sqlc.LibraryStatistic, error) {
	ctx := context.Background()
	var id int64

	err := s.inTx(ctx, func(tx *sql.Tx, qtx *sqlc.Queries) error {
		if _, err := qtx.GetLibraryByID(ctx, libraryID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return notFound("library", libraryID)
			}
			return fmt.Errorf("finding library: %w", err)
		}

		locs, err := qtx.ListLocationsByLibrary(ctx, libraryID)
		if err != nil {
			return fmt.Errorf("listing locations: %w", err)
		}
		capacity, free := new(big.Int), new(big.Int)
		for _, loc := range locs {
			if loc.TotalCapacity.Valid {
				capacity.Add(capacity, big.NewInt(loc.TotalCapacity.Int64))
			}
			if loc.AvailableCapacity.Valid {
				free.Add(free, big.NewInt(loc.AvailableCapacity.Int64))
			}
		}

		files, err := qtx.ListLibraryFileSizes(ctx, libraryID)
		if err != nil {
			return fmt.Errorf("listing file sizes: %w", err)
		}
		used, unique := new(big.Int), new(big.Int)
		seen := make(map[string]bool)
		for _, f := range files {
			size, ok := new(big.Int).SetString(f.SizeInBytes, 10)
			if !ok {
				return fmt.Errorf("stored size %q is not a number: %w", f.SizeInBytes, catalog.ErrInvariantViolation)
			}
			used.Add(used, size)
			if f.FullChecksum.Valid && !seen[f.FullChecksum.String] {
				seen[f.FullChecksum.String] = true
				unique.Add(unique, size)
			}
		}

		dbSize, err := databaseSize(ctx, tx)
		if err != nil {
			return err
		}

		id, err = qtx.InsertLibraryStatistics(ctx, sqlc.InsertLibraryStatisticsParams{
			LibraryID:          libraryID,
			DateCaptured:       s.clock.Now(),
			TotalFileCount:     int64(len(files)),
			TotalBytesUsed:     used.String(),
			TotalBytesCapacity: capacity.String(),
			TotalBytesFree:     free.String(),
			TotalUniqueBytes:   unique.String(),
			LibraryDbSize:      dbSize.String(),
		})
		if err != nil {
			return fmt.Errorf("inserting statistics: %w", mapConstraint(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	stats, err := s.queries.GetLibraryStatisticsByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading statistics: %w", err)
	}
	return &stats, nil
}

// databaseSize is page_count * page_size of the main database.
func databaseSize(ctx context.Context, tx *sql.Tx) (*big.Int, error) {
	var pages, pageSize int64
	if err := tx.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pages); err != nil {
		return nil, fmt.Errorf("reading page count: %w", err)
	}
	if err := tx.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize); err != nil {
		return nil, fmt.Errorf("reading page size: %w", err)
	}
	return new(big.Int).Mul(big.NewInt(pages), big.NewInt(pageSize)), nil
}

func (s *SQLiteDatabase) FindLatestLibraryStatistics(libraryID int64) (*sqlc.LibraryStatistic, error) {
	stats, err := s.queries.GetLatestLibraryStatistics(context.Background(), libraryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding latest statistics: %w", err)
	}
	return &stats, nil
}

func (s *SQLiteDatabase) ListLibraryStatistics(libraryID int64, limit int) ([]*sqlc.LibraryStatistic, error) {
	stats, err := s.queries.ListLibraryStatistics(context.Background(), sqlc.ListLibraryStatisticsParams{
		LibraryID: libraryID,
		Limit:     int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("listing statistics: %w", err)
	}
	return ptrs(stats), nil
}
