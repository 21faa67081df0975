package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"catalog-go/internal/catalog"
	"catalog-go/internal/database/sqlc"
)

func (s *SQLiteDatabase) CreateTag(params catalog.TagParams) (*sqlc.Tag, error) {
	ctx := context.Background()
	now := s.clock.Now()
	id, err := s.queries.InsertTag(ctx, sqlc.InsertTagParams{
		PubID:          s.idgen.New(),
		Name:           params.Name,
		Color:          nullString(params.Color),
		RedundancyGoal: params.RedundancyGoal,
		DateCreated:    now,
		DateModified:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("creating tag: %w", mapConstraint(err))
	}
	tag, err := s.queries.GetTagByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading created tag: %w", err)
	}
	return &tag, nil
}

func (s *SQLiteDatabase) FindTagByID(id int64) (*sqlc.Tag, error) {
	tag, err := s.queries.GetTagByID(context.Background(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding tag: %w", err)
	}
	return &tag, nil
}

func (s *SQLiteDatabase) ListTags() ([]*sqlc.Tag, error) {
	tags, err := s.queries.ListTags(context.Background())
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	return ptrs(tags), nil
}

// ApplyTag links tagID to fileID. Linking twice is a no-op and returns false.
// A new link invalidates the tag's cached total.
func (s *SQLiteDatabase) ApplyTag(tagID, fileID int64) (bool, error) {
	ctx := context.Background()
	now := s.clock.Now()
	var created bool
	err := s.inTx(ctx, func(_ *sql.Tx, qtx *sqlc.Queries) error {
		if err := checkTagAndFile(ctx, qtx, tagID, fileID); err != nil {
			return err
		}
		n, err := qtx.InsertTagOnFile(ctx, sqlc.InsertTagOnFileParams{TagID: tagID, FileID: fileID, DateCreated: now})
		if err != nil {
			return fmt.Errorf("linking tag: %w", mapConstraint(err))
		}
		if n == 0 {
			return nil
		}
		created = true
		return qtx.InvalidateTagTotal(ctx, sqlc.InvalidateTagTotalParams{DateModified: now, ID: tagID})
	})
	return created, err
}

// RemoveTag unlinks tagID from fileID and reports whether a link existed.
func (s *SQLiteDatabase) RemoveTag(tagID, fileID int64) (bool, error) {
	ctx := context.Background()
	now := s.clock.Now()
	var removed bool
	err := s.inTx(ctx, func(_ *sql.Tx, qtx *sqlc.Queries) error {
		if err := checkTagAndFile(ctx, qtx, tagID, fileID); err != nil {
			return err
		}
		n, err := qtx.DeleteTagOnFile(ctx, sqlc.DeleteTagOnFileParams{TagID: tagID, FileID: fileID})
		if err != nil {
			return fmt.Errorf("unlinking tag: %w", err)
		}
		if n == 0 {
			return nil
		}
		removed = true
		return qtx.InvalidateTagTotal(ctx, sqlc.InvalidateTagTotalParams{DateModified: now, ID: tagID})
	})
	return removed, err
}

func checkTagAndFile(ctx context.Context, qtx *sqlc.Queries, tagID, fileID int64) error {
	if _, err := qtx.GetTagByID(ctx, tagID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("tag", tagID)
		}
		return fmt.Errorf("finding tag: %w", err)
	}
	if _, err := qtx.GetFileByID(ctx, fileID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("file", fileID)
		}
		return fmt.Errorf("finding file: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) FilesForTag(tagID int64) ([]*sqlc.File, error) {
	files, err := s.queries.ListFilesForTag(context.Background(), tagID)
	if err != nil {
		return nil, fmt.Errorf("listing files for tag: %w", err)
	}
	return ptrs(files), nil
}

func (s *SQLiteDatabase) TagsForFile(fileID int64) ([]*sqlc.Tag, error) {
	tags, err := s.queries.ListTagsForFile(context.Background(), fileID)
	if err != nil {
		return nil, fmt.Errorf("listing tags for file: %w", err)
	}
	return ptrs(tags), nil
}

func (s *SQLiteDatabase) RecountTags() error {
	if _, err := s.queries.RecountTagTotals(context.Background()); err != nil {
		return fmt.Errorf("recounting tag totals: %w", err)
	}
	return nil
}
