package catalog

import (
	"database/sql"

	"catalog-go/internal/database/sqlc"
)

// Database is the persistence boundary of the catalog. Lookups named Find*
// return (nil, nil) when nothing matches; mutations return the error kinds in
// errors.go. Multi-row writes run in a single transaction and job transitions
// are single conditional updates, so every method is safe to call from
// concurrent goroutines and processes.
type Database interface {
	// Libraries and spaces

	CreateLibrary(name string) (*sqlc.Library, error)
	FindLibraryByID(id int64) (*sqlc.Library, error)
	FindLibraryByName(name string) (*sqlc.Library, error)
	ListLibraries() ([]*sqlc.Library, error)
	CreateSpace(libraryID int64, name, description string) (*sqlc.Space, error)
	ListSpaces(libraryID int64) ([]*sqlc.Space, error)

	// Locations

	CreateLocation(params LocationParams) (*sqlc.Location, error)
	FindLocationByID(id int64) (*sqlc.Location, error)
	ListLocations() ([]*sqlc.Location, error)
	ListOnlineLocations() ([]*sqlc.Location, error)
	SetLocationOnline(id int64, online bool) error
	SetLocationPath(id int64, path string) error
	UpdateLocationCapacity(id int64, total, available sql.NullInt64) error

	// Files

	// UpsertFile resolves or creates the directory chain above components and
	// then inserts or updates the leaf by its identity key.
	UpsertFile(locationID int64, components []string, meta FileMetadata) (*UpsertResult, error)

	// ReconcileMissing removes every File of the Location whose key is not in
	// observed, cascading to the descendants of missing directories.
	ReconcileMissing(locationID int64, observed KeySet) (*ReconcileResult, error)

	// SetFileChecksum stores one checksum tier. Directories and empty values
	// are rejected with ErrInvariantViolation.
	SetFileChecksum(fileID int64, tier ChecksumTier, value string) (*sqlc.File, error)

	// MoveFile re-parents and renames a File, keeping date_created and checksums.
	MoveFile(fileID int64, params MoveParams) (*sqlc.File, error)

	FindFileByID(id int64) (*sqlc.File, error)
	FindFileByKey(locationID int64, key FileKey) (*sqlc.File, error)
	FindFilesByQuickChecksum(locationID int64, checksum, size string) ([]*sqlc.File, error)
	ListChildren(fileID int64) ([]*sqlc.File, error)
	ListRootFiles(locationID int64) ([]*sqlc.File, error)
	ListFilesByLocation(locationID int64) ([]*sqlc.File, error)
	// ListFilesForChecksum returns the regular files of a Location that lack
	// the tier's checksum, or all of them when rehash is set.
	ListFilesForChecksum(locationID int64, tier ChecksumTier, rehash bool) ([]*sqlc.File, error)

	// Ancestors walks parent_id from fileID to the root, nearest first.
	Ancestors(fileID int64) ([]*sqlc.File, error)
	// Descendants returns every File below fileID in breadth-first order.
	Descendants(fileID int64) ([]*sqlc.File, error)
	// IsDescendantOf reports whether a lies strictly below b.
	IsDescendantOf(a, b int64) (bool, error)

	// Jobs

	CreateJob(params JobParams) (*sqlc.Job, error)
	FindJobByID(id string) (*sqlc.Job, error)
	ListJobsForClient(clientID string) ([]*sqlc.Job, error)
	ListActiveJobs() ([]*sqlc.Job, error)
	StartJob(id string, taskCount int64) (*sqlc.Job, error)
	// AdvanceJob adds by to completed_task_count, clamped to task_count. On a
	// canceled job it is a no-op that returns the job without error.
	AdvanceJob(id string, by int64) (*sqlc.Job, error)
	FinishJob(id string, outcome JobStatus, errText string) (*sqlc.Job, error)
	PauseJob(id string) (*sqlc.Job, error)
	ResumeJob(id string) (*sqlc.Job, error)

	// Tags

	CreateTag(params TagParams) (*sqlc.Tag, error)
	FindTagByID(id int64) (*sqlc.Tag, error)
	ListTags() ([]*sqlc.Tag, error)
	// ApplyTag links a tag to a file; re-applying is a no-op and reports false.
	ApplyTag(tagID, fileID int64) (bool, error)
	RemoveTag(tagID, fileID int64) (bool, error)
	FilesForTag(tagID int64) ([]*sqlc.File, error)
	TagsForFile(fileID int64) ([]*sqlc.Tag, error)
	// RecountTags recomputes every tag's advisory total_files.
	RecountTags() error

	// Statistics

	CaptureLibraryStatistics(libraryID int64) (*sqlc.LibraryStatistic, error)
	FindLatestLibraryStatistics(libraryID int64) (*sqlc.LibraryStatistic, error)
	ListLibraryStatistics(libraryID int64, limit int) ([]*sqlc.LibraryStatistic, error)

	// Operation log

	CreateOperation(operation, parameters string) (*sqlc.Operation, error)
	FinishOperation(id int64, status string) error
	ListOperations(limit int) ([]*sqlc.Operation, error)
	MaxOperationID() (int64, error)

	CheckMigrations() error
	BackupTo(destPath string) error
	Path() string
	Close() error
}
