package catalog

import (
	"fmt"
	"strings"

	"catalog-go/internal/database/sqlc"
)

func (s *CatalogService) CreateTag(params TagParams) (*sqlc.Tag, error) {
	params.Name = strings.TrimSpace(params.Name)
	if params.Name == "" {
		return nil, fmt.Errorf("empty tag name: %w", ErrInvariantViolation)
	}
	if params.RedundancyGoal.Valid && params.RedundancyGoal.Int64 < 0 {
		return nil, fmt.Errorf("negative redundancy goal: %w", ErrInvariantViolation)
	}
	tag, err := s.database.CreateTag(params)
	if err != nil {
		return nil, fmt.Errorf("creating tag: %w", err)
	}
	return tag, nil
}

// GetTag returns a Tag or ErrNotFound.
func (s *CatalogService) GetTag(id int64) (*sqlc.Tag, error) {
	tag, err := s.database.FindTagByID(id)
	if err != nil {
		return nil, fmt.Errorf("finding tag: %w", err)
	}
	if tag == nil {
		return nil, notFound("tag", id)
	}
	return tag, nil
}

func (s *CatalogService) ListTags() ([]*sqlc.Tag, error) {
	tags, err := s.database.ListTags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	return tags, nil
}

// ApplyTag links a tag to a file. It reports whether a new link was made.
func (s *CatalogService) ApplyTag(tagID, fileID int64) (bool, error) {
	created, err := s.database.ApplyTag(tagID, fileID)
	if err != nil {
		return false, fmt.Errorf("applying tag %d to file %d: %w", tagID, fileID, err)
	}
	return created, nil
}

// RemoveTag unlinks a tag from a file. It reports whether a link existed.
func (s *CatalogService) RemoveTag(tagID, fileID int64) (bool, error) {
	removed, err := s.database.RemoveTag(tagID, fileID)
	if err != nil {
		return false, fmt.Errorf("removing tag %d from file %d: %w", tagID, fileID, err)
	}
	return removed, nil
}

func (s *CatalogService) FilesForTag(tagID int64) ([]*sqlc.File, error) {
	if _, err := s.GetTag(tagID); err != nil {
		return nil, err
	}
	files, err := s.database.FilesForTag(tagID)
	if err != nil {
		return nil, fmt.Errorf("listing files for tag: %w", err)
	}
	return files, nil
}

func (s *CatalogService) TagsForFile(fileID int64) ([]*sqlc.Tag, error) {
	if _, err := s.GetFile(fileID); err != nil {
		return nil, err
	}
	tags, err := s.database.TagsForFile(fileID)
	if err != nil {
		return nil, fmt.Errorf("listing tags for file: %w", err)
	}
	return tags, nil
}

// RecountTags recomputes the advisory file count of every tag.
func (s *CatalogService) RecountTags() error {
	if err := s.database.RecountTags(); err != nil {
		return fmt.Errorf("recounting tags: %w", err)
	}
	return nil
}
