package catalog

import (
	"database/sql"
	"fmt"
	"time"

	"catalog-go/internal/database/sqlc"
)

// ChecksumTier selects which of a File's two checksum columns an operation targets.
type ChecksumTier int

const (
	// TierQuick is the cheap sampled fingerprint computed during scans.
	TierQuick ChecksumTier = iota
	// TierFull is the strong whole-content hash computed by checksum jobs.
	TierFull
)

func (t ChecksumTier) String() string {
	switch t {
	case TierQuick:
		return "quick"
	case TierFull:
		return "full"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// ParseChecksumTier accepts "quick" or "full".
func ParseChecksumTier(s string) (ChecksumTier, error) {
	switch s {
	case "quick":
		return TierQuick, nil
	case "full":
		return TierFull, nil
	default:
		return 0, fmt.Errorf("unknown checksum tier %q: %w", s, ErrInvariantViolation)
	}
}

// JobStatus is persisted as an integer; the values are part of the stored format.
type JobStatus int64

const (
	JobQueued    JobStatus = 0
	JobRunning   JobStatus = 1
	JobCompleted JobStatus = 2
	JobCanceled  JobStatus = 3
	JobFailed    JobStatus = 4
	JobPaused    JobStatus = 5
)

func (s JobStatus) String() string {
	switch s {
	case JobQueued:
		return "queued"
	case JobRunning:
		return "running"
	case JobCompleted:
		return "completed"
	case JobCanceled:
		return "canceled"
	case JobFailed:
		return "failed"
	case JobPaused:
		return "paused"
	default:
		return fmt.Sprintf("status(%d)", int64(s))
	}
}

// Terminal reports whether no further transition is possible.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed || s == JobCanceled
}

// StatusOf returns the typed status of a job row.
func StatusOf(job *sqlc.Job) JobStatus {
	return JobStatus(job.Status)
}

// JobAction names the kind of work a Job supervises.
type JobAction string

const (
	ActionScan       JobAction = "scan"
	ActionChecksum   JobAction = "checksum"
	ActionTagApply   JobAction = "tag-apply"
	ActionStatistics JobAction = "statistics"
)

// ExtensionCase is the caller's extension normalization policy for a Location.
type ExtensionCase int

const (
	ExtensionPreserve ExtensionCase = iota
	ExtensionLower
)

// FileMetadata is what a scanner knows about one filesystem entry.
// Empty checksum strings mean "not supplied" and never clear a stored value.
type FileMetadata struct {
	IsDir         bool
	Size          int64
	ModifiedAt    time.Time
	QuickChecksum string
	FullChecksum  string
	Encryption    int64
	CasRef        string
	ExtensionCase ExtensionCase
}

// UpsertResult reports the indexed File and whether it was newly inserted.
type UpsertResult struct {
	File     *sqlc.File
	Inserted bool
}

// ReconcileResult counts the outcome of pruning a Location after a full scan.
type ReconcileResult struct {
	Observed int // keys supplied by the caller
	Missing  int // indexed Files whose key was not observed
	Removed  int // rows deleted, including cascaded descendants
}

// MoveParams is the new placement of a File. An invalid ParentID moves the
// File to the root of its Location.
type MoveParams struct {
	ParentID  sql.NullInt64
	Stem      string
	Name      string
	Extension string
}

// LocationParams describes a storage root being registered.
type LocationParams struct {
	LibraryID         int64
	Name              string
	Path              string
	TotalCapacity     sql.NullInt64
	AvailableCapacity sql.NullInt64
	IsRemovable       bool
	IsEjectable       bool
	IsRootFilesystem  bool
}

// JobParams describes a Job at creation time.
type JobParams struct {
	ClientID   string
	Action     JobAction
	LocationID sql.NullInt64
	ParentID   sql.NullString
	Data       string
}

// TagParams describes a Tag at creation time.
type TagParams struct {
	Name           string
	Color          string
	RedundancyGoal sql.NullInt64
}

// ProgressUpdate is emitted after every job advance and status transition.
type ProgressUpdate struct {
	JobID              string    `json:"job_id"`
	ClientID           string    `json:"client_id"`
	Action             JobAction `json:"action"`
	Status             JobStatus `json:"status"`
	PercentageComplete int64     `json:"percentage_complete"`
	CompletedTaskCount int64     `json:"completed_task_count"`
	TaskCount          int64     `json:"task_count"`
}

// UpdateFromJob builds a ProgressUpdate from a job row.
func UpdateFromJob(job *sqlc.Job) ProgressUpdate {
	return ProgressUpdate{
		JobID:              job.ID,
		ClientID:           job.ClientID,
		Action:             JobAction(job.Action),
		Status:             JobStatus(job.Status),
		PercentageComplete: job.PercentageComplete,
		CompletedTaskCount: job.CompletedTaskCount,
		TaskCount:          job.TaskCount,
	}
}
