package catalog

import (
	"fmt"

	"catalog-go/internal/database/sqlc"
)

// CaptureLibraryStatistics appends a snapshot of the library's totals.
func (s *CatalogService) CaptureLibraryStatistics(libraryID int64) (*sqlc.LibraryStatistic, error) {
	if _, err := s.GetLibrary(libraryID); err != nil {
		return nil, err
	}
	stats, err := s.database.CaptureLibraryStatistics(libraryID)
	if err != nil {
		return nil, fmt.Errorf("capturing statistics: %w", err)
	}
	s.logger.Info("library statistics captured", "library", libraryID,
		"files", stats.TotalFileCount, "bytes", stats.TotalBytesUsed, "unique_bytes", stats.TotalUniqueBytes)
	return stats, nil
}

// LatestLibraryStatistics returns the newest snapshot, or ErrNotFound when
// none was captured yet.
func (s *CatalogService) LatestLibraryStatistics(libraryID int64) (*sqlc.LibraryStatistic, error) {
	stats, err := s.database.FindLatestLibraryStatistics(libraryID)
	if err != nil {
		return nil, fmt.Errorf("finding statistics: %w", err)
	}
	if stats == nil {
		return nil, notFound("statistics for library", libraryID)
	}
	return stats, nil
}

// ListLibraryStatistics returns up to limit snapshots, newest first.
func (s *CatalogService) ListLibraryStatistics(libraryID int64, limit int) ([]*sqlc.LibraryStatistic, error) {
	stats, err := s.database.ListLibraryStatistics(libraryID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing statistics: %w", err)
	}
	return stats, nil
}
