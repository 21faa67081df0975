package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"catalog-go/internal/catalog"
	"catalog-go/internal/database/sqlc"
)

// UpsertFile indexes the entry at components inside one transaction: every
// missing ancestor directory is created, then the leaf is inserted or updated
// by its identity key.
func (s *SQLiteDatabase) UpsertFile(locationID int64, components []string, meta catalog.FileMetadata) (*catalog.UpsertResult, error) {
	key, err := catalog.KeyFor(components, meta.IsDir, meta.ExtensionCase)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	now := s.clock.Now()
	var (
		id       int64
		inserted bool
	)

	err = s.inTx(ctx, func(_ *sql.Tx, qtx *sqlc.Queries) error {
		if _, err := qtx.GetLocationByID(ctx, locationID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return notFound("location", locationID)
			}
			return fmt.Errorf("finding location: %w", err)
		}

		parentID, err := s.ensureDirectories(ctx, qtx, locationID, components[:len(components)-1], now)
		if err != nil {
			return err
		}

		existing, err := qtx.GetFileByKey(ctx, sqlc.GetFileByKeyParams{
			LocationID: locationID,
			Stem:       key.Stem,
			Name:       key.Name,
			Extension:  key.Extension,
		})
		switch {
		case errors.Is(err, sql.ErrNoRows):
		case err != nil:
			return fmt.Errorf("finding file by key: %w", err)
		case existing.IsDir != meta.IsDir:
			// The entry changed kind; the old row and its subtree go.
			if err := s.deleteSubtree(ctx, qtx, existing.ID, now); err != nil {
				return err
			}
		default:
			id = existing.ID
			if err := qtx.UpdateFileIndexed(ctx, indexedUpdate(&existing, parentID, meta, now)); err != nil {
				return fmt.Errorf("updating file: %w", mapConstraint(err))
			}
			return nil
		}

		id, err = qtx.InsertFile(ctx, newFileParams(s.idgen.New(), locationID, parentID, key, meta, now))
		if err != nil {
			return fmt.Errorf("inserting file: %w", mapConstraint(err))
		}
		inserted = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	f, err := s.queries.GetFileByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading indexed file: %w", err)
	}
	return &catalog.UpsertResult{File: &f, Inserted: inserted}, nil
}

// ensureDirectories resolves the directory chain dirs from the Location root
// down, creating missing rows and repairing wrong parent links. It returns
// the id of the deepest directory, or NULL at the root.
func (s *SQLiteDatabase) ensureDirectories(ctx context.Context, qtx *sqlc.Queries, locationID int64, dirs []string, now time.Time) (sql.NullInt64, error) {
	var parent sql.NullInt64
	for i := range dirs {
		key := catalog.DirectoryKey(dirs[:i+1])
		row, err := qtx.GetFileByKey(ctx, sqlc.GetFileByKeyParams{
			LocationID: locationID,
			Stem:       key.Stem,
			Name:       key.Name,
			Extension:  key.Extension,
		})
		switch {
		case errors.Is(err, sql.ErrNoRows):
			id, err := qtx.InsertFile(ctx, newFileParams(s.idgen.New(), locationID, parent, key,
				catalog.FileMetadata{IsDir: true}, now))
			if err != nil {
				return parent, fmt.Errorf("creating directory %s: %w", key.Stem, mapConstraint(err))
			}
			parent = sql.NullInt64{Int64: id, Valid: true}
			continue
		case err != nil:
			return parent, fmt.Errorf("finding directory %s: %w", key.Stem, err)
		}

		if !row.IsDir {
			return parent, fmt.Errorf("%s is indexed as a file, not a directory: %w", key.Stem, catalog.ErrInvariantViolation)
		}
		if row.ParentID != parent {
			err := qtx.UpdateFilePlacement(ctx, sqlc.UpdateFilePlacementParams{
				ParentID:     parent,
				Stem:         row.Stem,
				Name:         row.Name,
				Extension:    row.Extension,
				DateModified: row.DateModified,
				ID:           row.ID,
			})
			if err != nil {
				return parent, fmt.Errorf("repairing parent of %s: %w", key.Stem, err)
			}
		}
		parent = sql.NullInt64{Int64: row.ID, Valid: true}
	}
	return parent, nil
}

func newFileParams(pubID string, locationID int64, parentID sql.NullInt64, key catalog.FileKey, meta catalog.FileMetadata, now time.Time) sqlc.InsertFileParams {
	modified := meta.ModifiedAt
	if modified.IsZero() {
		modified = now
	}
	size := "0"
	if !meta.IsDir {
		size = strconv.FormatInt(meta.Size, 10)
	}
	return sqlc.InsertFileParams{
		PubID:         pubID,
		LocationID:    locationID,
		ParentID:      parentID,
		IsDir:         meta.IsDir,
		Stem:          key.Stem,
		Name:          key.Name,
		Extension:     key.Extension,
		QuickChecksum: nullString(meta.QuickChecksum),
		FullChecksum:  nullString(meta.FullChecksum),
		SizeInBytes:   size,
		Encryption:    meta.Encryption,
		CasRef:        nullString(meta.CasRef),
		DateCreated:   now,
		DateModified:  modified,
		DateIndexed:   now,
	}
}

// indexedUpdate keeps every stored value the caller did not change. Supplied
// checksums replace stored ones; missing ones never clear them.
func indexedUpdate(f *sqlc.File, parentID sql.NullInt64, meta catalog.FileMetadata, now time.Time) sqlc.UpdateFileIndexedParams {
	p := sqlc.UpdateFileIndexedParams{
		ParentID:      parentID,
		DateModified:  f.DateModified,
		SizeInBytes:   f.SizeInBytes,
		QuickChecksum: f.QuickChecksum,
		FullChecksum:  f.FullChecksum,
		Encryption:    f.Encryption,
		CasRef:        f.CasRef,
		DateIndexed:   now,
		ID:            f.ID,
	}
	if !meta.ModifiedAt.IsZero() && !meta.ModifiedAt.Equal(f.DateModified) {
		p.DateModified = meta.ModifiedAt
	}
	if !meta.IsDir {
		if size := strconv.FormatInt(meta.Size, 10); size != f.SizeInBytes {
			p.SizeInBytes = size
		}
	}
	if meta.QuickChecksum != "" {
		p.QuickChecksum = nullString(meta.QuickChecksum)
	}
	if meta.FullChecksum != "" {
		p.FullChecksum = nullString(meta.FullChecksum)
	}
	if meta.CasRef != "" {
		p.CasRef = nullString(meta.CasRef)
	}
	if meta.Encryption != 0 {
		p.Encryption = meta.Encryption
	}
	return p
}

// ReconcileMissing deletes every File of the Location whose key was not
// observed, together with the subtrees of missing directories.
func (s *SQLiteDatabase) ReconcileMissing(locationID int64, observed catalog.KeySet) (*catalog.ReconcileResult, error) {
	ctx := context.Background()
	now := s.clock.Now()
	res := &catalog.ReconcileResult{Observed: len(observed)}

	err := s.inTx(ctx, func(_ *sql.Tx, qtx *sqlc.Queries) error {
		if _, err := qtx.GetLocationByID(ctx, locationID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return notFound("location", locationID)
			}
			return fmt.Errorf("finding location: %w", err)
		}

		rows, err := qtx.ListFilesByLocation(ctx, locationID)
		if err != nil {
			return fmt.Errorf("listing files: %w", err)
		}

		children := make(map[int64][]int64)
		var missing []int64
		for _, f := range rows {
			f := f
			if f.ParentID.Valid {
				children[f.ParentID.Int64] = append(children[f.ParentID.Int64], f.ID)
			}
			if !observed.Has(catalog.KeyOf(&f)) {
				missing = append(missing, f.ID)
			}
		}
		res.Missing = len(missing)

		// Breadth-first from every missing row; children are deleted before
		// their parents.
		visited := make(map[int64]bool)
		var order []int64
		for _, root := range missing {
			queue := []int64{root}
			for len(queue) > 0 {
				id := queue[0]
				queue = queue[1:]
				if visited[id] {
					continue
				}
				visited[id] = true
				order = append(order, id)
				queue = append(queue, children[id]...)
			}
		}

		for i := len(order) - 1; i >= 0; i-- {
			n, err := s.deleteFile(ctx, qtx, order[i], now)
			if err != nil {
				return err
			}
			res.Removed += int(n)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// deleteFile invalidates the tag totals of a File and deletes its row.
func (s *SQLiteDatabase) deleteFile(ctx context.Context, qtx *sqlc.Queries, id int64, now time.Time) (int64, error) {
	if err := qtx.InvalidateTagTotalsForFile(ctx, sqlc.InvalidateTagTotalsForFileParams{DateModified: now, FileID: id}); err != nil {
		return 0, fmt.Errorf("invalidating tag totals: %w", err)
	}
	n, err := qtx.DeleteFileByID(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("deleting file %d: %w", id, err)
	}
	return n, nil
}

func (s *SQLiteDatabase) deleteSubtree(ctx context.Context, qtx *sqlc.Queries, id int64, now time.Time) error {
	below, err := descendants(ctx, qtx, id)
	if err != nil {
		return err
	}
	for i := len(below) - 1; i >= 0; i-- {
		if _, err := s.deleteFile(ctx, qtx, below[i].ID, now); err != nil {
			return err
		}
	}
	_, err = s.deleteFile(ctx, qtx, id, now)
	return err
}

// SetFileChecksum stores one checksum tier of a regular file.
func (s *SQLiteDatabase) SetFileChecksum(fileID int64, tier catalog.ChecksumTier, value string) (*sqlc.File, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("empty %s checksum: %w", tier, catalog.ErrInvariantViolation)
	}

	ctx := context.Background()
	var (
		n   int64
		err error
	)
	switch tier {
	case catalog.TierQuick:
		n, err = s.queries.UpdateFileQuickChecksum(ctx, sqlc.UpdateFileQuickChecksumParams{
			QuickChecksum: nullString(value),
			ID:            fileID,
		})
	case catalog.TierFull:
		n, err = s.queries.UpdateFileFullChecksum(ctx, sqlc.UpdateFileFullChecksumParams{
			FullChecksum: nullString(value),
			ID:           fileID,
		})
	default:
		return nil, fmt.Errorf("unknown checksum tier %d: %w", tier, catalog.ErrInvariantViolation)
	}
	if err != nil {
		return nil, fmt.Errorf("updating checksum: %w", err)
	}

	f, err := s.FindFileByID(fileID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, notFound("file", fileID)
	}
	if n == 0 {
		return nil, fmt.Errorf("file %d is a directory: %w", fileID, catalog.ErrInvariantViolation)
	}
	return f, nil
}

// MoveFile re-parents and renames a File. Checks run in order and the first
// failure leaves the index untouched: the parent must be a directory of the
// same Location, must not be the File or one of its descendants, the new
// key must sit under the parent, and it must not collide with another File.
// Moving a directory rewrites the stems of everything below it.
func (s *SQLiteDatabase) MoveFile(fileID int64, params catalog.MoveParams) (*sqlc.File, error) {
	ctx := context.Background()
	now := s.clock.Now()
	key := catalog.FileKey{Stem: params.Stem, Name: params.Name, Extension: params.Extension}

	err := s.inTx(ctx, func(_ *sql.Tx, qtx *sqlc.Queries) error {
		f, err := qtx.GetFileByID(ctx, fileID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return notFound("file", fileID)
			}
			return fmt.Errorf("finding file: %w", err)
		}

		parentStem := ""
		if params.ParentID.Valid {
			parent, err := qtx.GetFileByID(ctx, params.ParentID.Int64)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return notFound("parent", params.ParentID.Int64)
				}
				return fmt.Errorf("finding parent: %w", err)
			}
			if parent.LocationID != f.LocationID {
				return fmt.Errorf("parent %d is in another location: %w", parent.ID, catalog.ErrInvariantViolation)
			}
			if !parent.IsDir {
				return fmt.Errorf("parent %d is not a directory: %w", parent.ID, catalog.ErrInvariantViolation)
			}
			if parent.ID == f.ID {
				return fmt.Errorf("file %d cannot be its own parent: %w", f.ID, catalog.ErrCycleDetected)
			}
			below, err := isDescendant(ctx, qtx, parent.ID, f.ID)
			if err != nil {
				return err
			}
			if below {
				return fmt.Errorf("parent %d is below file %d: %w", parent.ID, f.ID, catalog.ErrCycleDetected)
			}
			parentStem = parent.Stem
		}

		if err := catalog.CheckPlacement(key, f.IsDir, parentStem); err != nil {
			return err
		}

		other, err := qtx.GetFileByKey(ctx, sqlc.GetFileByKeyParams{
			LocationID: f.LocationID,
			Stem:       key.Stem,
			Name:       key.Name,
			Extension:  key.Extension,
		})
		switch {
		case errors.Is(err, sql.ErrNoRows):
		case err != nil:
			return fmt.Errorf("checking key collision: %w", err)
		case other.ID != f.ID:
			return fmt.Errorf("%s already indexed as file %d: %w", key, other.ID, catalog.ErrDuplicateKey)
		}

		err = qtx.UpdateFilePlacement(ctx, sqlc.UpdateFilePlacementParams{
			ParentID:     params.ParentID,
			Stem:         key.Stem,
			Name:         key.Name,
			Extension:    key.Extension,
			DateModified: now,
			ID:           f.ID,
		})
		if err != nil {
			return fmt.Errorf("updating placement: %w", mapConstraint(err))
		}

		if !f.IsDir || f.Stem == key.Stem {
			return nil
		}
		below, err := descendants(ctx, qtx, f.ID)
		if err != nil {
			return err
		}
		for _, d := range below {
			stem := key.Stem + strings.TrimPrefix(d.Stem, f.Stem)
			if err := qtx.UpdateFileStem(ctx, sqlc.UpdateFileStemParams{Stem: stem, ID: d.ID}); err != nil {
				return fmt.Errorf("rewriting stem of %d: %w", d.ID, mapConstraint(err))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	f, err := s.queries.GetFileByID(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("loading moved file: %w", err)
	}
	return &f, nil
}

func (s *SQLiteDatabase) FindFileByID(id int64) (*sqlc.File, error) {
	f, err := s.queries.GetFileByID(context.Background(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding file: %w", err)
	}
	return &f, nil
}

func (s *SQLiteDatabase) FindFileByKey(locationID int64, key catalog.FileKey) (*sqlc.File, error) {
	f, err := s.queries.GetFileByKey(context.Background(), sqlc.GetFileByKeyParams{
		LocationID: locationID,
		Stem:       key.Stem,
		Name:       key.Name,
		Extension:  key.Extension,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding file by key: %w", err)
	}
	return &f, nil
}

func (s *SQLiteDatabase) FindFilesByQuickChecksum(locationID int64, checksum, size string) ([]*sqlc.File, error) {
	files, err := s.queries.ListFilesByQuickChecksum(context.Background(), sqlc.ListFilesByQuickChecksumParams{
		LocationID:    locationID,
		QuickChecksum: nullString(checksum),
		SizeInBytes:   size,
	})
	if err != nil {
		return nil, fmt.Errorf("finding files by quick checksum: %w", err)
	}
	return ptrs(files), nil
}

func (s *SQLiteDatabase) ListChildren(fileID int64) ([]*sqlc.File, error) {
	files, err := s.queries.ListChildren(context.Background(), sql.NullInt64{Int64: fileID, Valid: true})
	if err != nil {
		return nil, fmt.Errorf("listing children: %w", err)
	}
	return ptrs(files), nil
}

func (s *SQLiteDatabase) ListRootFiles(locationID int64) ([]*sqlc.File, error) {
	files, err := s.queries.ListRootFiles(context.Background(), locationID)
	if err != nil {
		return nil, fmt.Errorf("listing root files: %w", err)
	}
	return ptrs(files), nil
}

func (s *SQLiteDatabase) ListFilesByLocation(locationID int64) ([]*sqlc.File, error) {
	files, err := s.queries.ListFilesByLocation(context.Background(), locationID)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	return ptrs(files), nil
}

func (s *SQLiteDatabase) ListFilesForChecksum(locationID int64, tier catalog.ChecksumTier, rehash bool) ([]*sqlc.File, error) {
	ctx := context.Background()
	var (
		files []sqlc.File
		err   error
	)
	switch {
	case rehash:
		files, err = s.queries.ListRegularFilesByLocation(ctx, locationID)
	case tier == catalog.TierQuick:
		files, err = s.queries.ListFilesMissingQuickChecksum(ctx, locationID)
	default:
		files, err = s.queries.ListFilesMissingFullChecksum(ctx, locationID)
	}
	if err != nil {
		return nil, fmt.Errorf("listing files for %s checksum: %w", tier, err)
	}
	return ptrs(files), nil
}

// Ancestors follows parent_id upward, nearest first.
func (s *SQLiteDatabase) Ancestors(fileID int64) ([]*sqlc.File, error) {
	ctx := context.Background()
	f, err := s.queries.GetFileByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("file", fileID)
		}
		return nil, fmt.Errorf("finding file: %w", err)
	}

	var result []*sqlc.File
	seen := map[int64]bool{f.ID: true}
	for f.ParentID.Valid {
		if seen[f.ParentID.Int64] {
			return nil, fmt.Errorf("parent loop at file %d: %w", f.ID, catalog.ErrCycleDetected)
		}
		parent, err := s.queries.GetFileByID(ctx, f.ParentID.Int64)
		if err != nil {
			return nil, fmt.Errorf("finding parent of %d: %w", f.ID, err)
		}
		seen[parent.ID] = true
		result = append(result, &parent)
		f = parent
	}
	return result, nil
}

func (s *SQLiteDatabase) Descendants(fileID int64) ([]*sqlc.File, error) {
	ctx := context.Background()
	if _, err := s.queries.GetFileByID(ctx, fileID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("file", fileID)
		}
		return nil, fmt.Errorf("finding file: %w", err)
	}
	files, err := descendants(ctx, s.queries, fileID)
	if err != nil {
		return nil, err
	}
	return ptrs(files), nil
}

func (s *SQLiteDatabase) IsDescendantOf(a, b int64) (bool, error) {
	ctx := context.Background()
	for _, id := range []int64{a, b} {
		if _, err := s.queries.GetFileByID(ctx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return false, notFound("file", id)
			}
			return false, fmt.Errorf("finding file: %w", err)
		}
	}
	return isDescendant(ctx, s.queries, a, b)
}

// descendants lists everything below id breadth-first.
func descendants(ctx context.Context, q *sqlc.Queries, id int64) ([]sqlc.File, error) {
	var result []sqlc.File
	seen := map[int64]bool{id: true}
	queue := []int64{id}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		children, err := q.ListChildren(ctx, sql.NullInt64{Int64: next, Valid: true})
		if err != nil {
			return nil, fmt.Errorf("listing children of %d: %w", next, err)
		}
		for _, c := range children {
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			result = append(result, c)
			queue = append(queue, c.ID)
		}
	}
	return result, nil
}

// isDescendant reports whether a lies strictly below b.
func isDescendant(ctx context.Context, q *sqlc.Queries, a, b int64) (bool, error) {
	seen := map[int64]bool{}
	current := a
	for {
		f, err := q.GetFileByID(ctx, current)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return false, nil
			}
			return false, fmt.Errorf("walking ancestors of %d: %w", a, err)
		}
		if !f.ParentID.Valid {
			return false, nil
		}
		if f.ParentID.Int64 == b {
			return true, nil
		}
		if seen[f.ParentID.Int64] {
			return false, fmt.Errorf("parent loop at file %d: %w", f.ID, catalog.ErrCycleDetected)
		}
		seen[f.ParentID.Int64] = true
		current = f.ParentID.Int64
	}
}
