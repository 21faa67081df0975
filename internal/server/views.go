package server

import (
	"database/sql"
	"time"

	"catalog-go/internal/catalog"
	"catalog-go/internal/database/sqlc"
)

type locationView struct {
	ID                int64     `json:"id"`
	PubID             string    `json:"pub_id"`
	LibraryID         int64     `json:"library_id"`
	Name              string    `json:"name,omitempty"`
	Path              string    `json:"path,omitempty"`
	TotalCapacity     *int64    `json:"total_capacity"`
	AvailableCapacity *int64    `json:"available_capacity"`
	IsRemovable       bool      `json:"is_removable"`
	IsEjectable       bool      `json:"is_ejectable"`
	IsRootFilesystem  bool      `json:"is_root_filesystem"`
	IsOnline          bool      `json:"is_online"`
	DateCreated       time.Time `json:"date_created"`
}

func newLocationView(l *sqlc.Location) locationView {
	return locationView{
		ID:                l.ID,
		PubID:             l.PubID,
		LibraryID:         l.LibraryID,
		Name:              l.Name.String,
		Path:              l.Path.String,
		TotalCapacity:     nullInt(l.TotalCapacity),
		AvailableCapacity: nullInt(l.AvailableCapacity),
		IsRemovable:       l.IsRemovable,
		IsEjectable:       l.IsEjectable,
		IsRootFilesystem:  l.IsRootFilesystem,
		IsOnline:          l.IsOnline,
		DateCreated:       l.DateCreated,
	}
}

type fileView struct {
	ID            int64     `json:"id"`
	PubID         string    `json:"pub_id"`
	LocationID    int64     `json:"location_id"`
	ParentID      *int64    `json:"parent_id"`
	IsDir         bool      `json:"is_dir"`
	Stem          string    `json:"stem"`
	Name          string    `json:"name"`
	Extension     string    `json:"extension"`
	QuickChecksum string    `json:"quick_checksum,omitempty"`
	FullChecksum  string    `json:"full_checksum,omitempty"`
	SizeInBytes   string    `json:"size_in_bytes"`
	DateModified  time.Time `json:"date_modified"`
	DateIndexed   time.Time `json:"date_indexed"`
}

func newFileView(f *sqlc.File) fileView {
	return fileView{
		ID:            f.ID,
		PubID:         f.PubID,
		LocationID:    f.LocationID,
		ParentID:      nullInt(f.ParentID),
		IsDir:         f.IsDir,
		Stem:          f.Stem,
		Name:          f.Name,
		Extension:     f.Extension,
		QuickChecksum: f.QuickChecksum.String,
		FullChecksum:  f.FullChecksum.String,
		SizeInBytes:   f.SizeInBytes,
		DateModified:  f.DateModified,
		DateIndexed:   f.DateIndexed,
	}
}

type jobView struct {
	ID                 string     `json:"id"`
	ClientID           string     `json:"client_id"`
	Action             string     `json:"action"`
	Status             string     `json:"status"`
	TaskCount          int64      `json:"task_count"`
	CompletedTaskCount int64      `json:"completed_task_count"`
	PercentageComplete int64      `json:"percentage_complete"`
	LocationID         *int64     `json:"location_id,omitempty"`
	Errors             string     `json:"errors,omitempty"`
	DateCreated        time.Time  `json:"date_created"`
	DateStarted        *time.Time `json:"date_started,omitempty"`
	DateCompleted      *time.Time `json:"date_completed,omitempty"`
}

func newJobView(j *sqlc.Job) jobView {
	v := jobView{
		ID:                 j.ID,
		ClientID:           j.ClientID,
		Action:             j.Action,
		Status:             catalog.StatusOf(j).String(),
		TaskCount:          j.TaskCount,
		CompletedTaskCount: j.CompletedTaskCount,
		PercentageComplete: j.PercentageComplete,
		LocationID:         nullInt(j.LocationID),
		Errors:             j.ErrorsText,
		DateCreated:        j.DateCreated,
	}
	if j.DateStarted.Valid {
		v.DateStarted = &j.DateStarted.Time
	}
	if j.DateCompleted.Valid {
		v.DateCompleted = &j.DateCompleted.Time
	}
	return v
}

type tagView struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Color          string `json:"color,omitempty"`
	TotalFiles     int64  `json:"total_files"`
	RedundancyGoal *int64 `json:"redundancy_goal,omitempty"`
}

func newTagView(t *sqlc.Tag) tagView {
	return tagView{
		ID:             t.ID,
		Name:           t.Name,
		Color:          t.Color.String,
		TotalFiles:     t.TotalFiles.Int64,
		RedundancyGoal: nullInt(t.RedundancyGoal),
	}
}

// Byte totals stay strings: they can exceed the range JSON numbers keep exactly.
type statisticsView struct {
	LibraryID          int64     `json:"library_id"`
	DateCaptured       time.Time `json:"date_captured"`
	TotalFileCount     int64     `json:"total_file_count"`
	TotalBytesUsed     string    `json:"total_bytes_used"`
	TotalBytesCapacity string    `json:"total_bytes_capacity"`
	TotalBytesFree     string    `json:"total_bytes_free"`
	TotalUniqueBytes   string    `json:"total_unique_bytes"`
	LibraryDBSize      string    `json:"library_db_size"`
}

func newStatisticsView(s *sqlc.LibraryStatistic) statisticsView {
	return statisticsView{
		LibraryID:          s.LibraryID,
		DateCaptured:       s.DateCaptured,
		TotalFileCount:     s.TotalFileCount,
		TotalBytesUsed:     s.TotalBytesUsed,
		TotalBytesCapacity: s.TotalBytesCapacity,
		TotalBytesFree:     s.TotalBytesFree,
		TotalUniqueBytes:   s.TotalUniqueBytes,
		LibraryDBSize:      s.LibraryDbSize,
	}
}

func mapViews[T any, V any](items []*T, view func(*T) V) []V {
	out := make([]V, 0, len(items))
	for _, item := range items {
		out = append(out, view(item))
	}
	return out
}

func nullInt(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
