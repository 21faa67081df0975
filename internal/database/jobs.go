package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"catalog-go/internal/catalog"
	"catalog-go/internal/database/sqlc"
)

// Every job transition is a single conditional UPDATE. When it matches no
// row the job is reloaded only to tell the caller why.

func (s *SQLiteDatabase) CreateJob(params catalog.JobParams) (*sqlc.Job, error) {
	ctx := context.Background()
	now := s.clock.Now()
	id := s.idgen.New()
	err := s.queries.InsertJob(ctx, sqlc.InsertJobParams{
		ID:           id,
		ClientID:     params.ClientID,
		Action:       string(params.Action),
		LocationID:   params.LocationID,
		ParentID:     params.ParentID,
		Data:         params.Data,
		DateCreated:  now,
		DateModified: now,
	})
	if err != nil {
		return nil, fmt.Errorf("creating job: %w", mapConstraint(err))
	}
	return s.loadJob(ctx, id)
}

func (s *SQLiteDatabase) FindJobByID(id string) (*sqlc.Job, error) {
	job, err := s.queries.GetJobByID(context.Background(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding job: %w", err)
	}
	return &job, nil
}

func (s *SQLiteDatabase) ListJobsForClient(clientID string) ([]*sqlc.Job, error) {
	jobs, err := s.queries.ListJobsByClient(context.Background(), clientID)
	if err != nil {
		return nil, fmt.Errorf("listing jobs for client: %w", err)
	}
	return ptrs(jobs), nil
}

func (s *SQLiteDatabase) ListActiveJobs() ([]*sqlc.Job, error) {
	jobs, err := s.queries.ListActiveJobs(context.Background())
	if err != nil {
		return nil, fmt.Errorf("listing active jobs: %w", err)
	}
	return ptrs(jobs), nil
}

// StartJob moves a Queued job to Running. Starting a running or paused job
// again with the same task count is a no-op.
func (s *SQLiteDatabase) StartJob(id string, taskCount int64) (*sqlc.Job, error) {
	if taskCount < 0 {
		return nil, fmt.Errorf("negative task count %d: %w", taskCount, catalog.ErrInvariantViolation)
	}
	ctx := context.Background()
	n, err := s.queries.StartJob(ctx, sqlc.StartJobParams{TaskCount: taskCount, Now: s.clock.Now(), ID: id})
	if err != nil {
		return nil, fmt.Errorf("starting job: %w", err)
	}
	job, err := s.loadJob(ctx, id)
	if err != nil || n == 1 {
		return job, err
	}

	switch catalog.StatusOf(job) {
	case catalog.JobRunning, catalog.JobPaused:
		if job.TaskCount == taskCount {
			return job, nil
		}
		return nil, fmt.Errorf("job %s already started with %d tasks, not %d: %w",
			id, job.TaskCount, taskCount, catalog.ErrInvariantViolation)
	default:
		return nil, transitionError(job, catalog.JobRunning)
	}
}

// AdvanceJob adds by to the completed count, clamped to the task count, and
// recomputes the percentage in the same statement.
func (s *SQLiteDatabase) AdvanceJob(id string, by int64) (*sqlc.Job, error) {
	if by < 0 {
		return nil, fmt.Errorf("negative advance %d: %w", by, catalog.ErrInvariantViolation)
	}
	ctx := context.Background()
	n, err := s.queries.AdvanceJob(ctx, sqlc.AdvanceJobParams{By: by, DateModified: s.clock.Now(), ID: id})
	if err != nil {
		return nil, fmt.Errorf("advancing job: %w", mapConstraint(err))
	}
	job, err := s.loadJob(ctx, id)
	if err != nil || n == 1 {
		return job, err
	}
	if catalog.StatusOf(job) == catalog.JobCanceled {
		return job, nil
	}
	return nil, fmt.Errorf("cannot advance %s job %s: %w", catalog.StatusOf(job), id, catalog.ErrInvalidTransition)
}

// FinishJob moves a job to Completed, Failed or Canceled. Completing forces
// the completed count to the task count.
func (s *SQLiteDatabase) FinishJob(id string, outcome catalog.JobStatus, errText string) (*sqlc.Job, error) {
	ctx := context.Background()
	now := s.clock.Now()
	var (
		n   int64
		err error
	)
	switch outcome {
	case catalog.JobCompleted:
		n, err = s.queries.CompleteJob(ctx, sqlc.CompleteJobParams{ErrorText: errText, Now: now, ID: id})
	case catalog.JobFailed, catalog.JobCanceled:
		n, err = s.queries.TerminateJob(ctx, sqlc.TerminateJobParams{
			Status:    int64(outcome),
			ErrorText: errText,
			Now:       now,
			ID:        id,
		})
	default:
		return nil, fmt.Errorf("%s is not a terminal status: %w", outcome, catalog.ErrInvariantViolation)
	}
	if err != nil {
		return nil, fmt.Errorf("finishing job: %w", err)
	}
	job, err := s.loadJob(ctx, id)
	if err != nil || n == 1 {
		return job, err
	}
	return nil, transitionError(job, outcome)
}

func (s *SQLiteDatabase) PauseJob(id string) (*sqlc.Job, error) {
	return s.transition(id, catalog.JobRunning, catalog.JobPaused)
}

func (s *SQLiteDatabase) ResumeJob(id string) (*sqlc.Job, error) {
	return s.transition(id, catalog.JobPaused, catalog.JobRunning)
}

func (s *SQLiteDatabase) transition(id string, from, to catalog.JobStatus) (*sqlc.Job, error) {
	ctx := context.Background()
	n, err := s.queries.TransitionJobStatus(ctx, sqlc.TransitionJobStatusParams{
		To:   int64(to),
		Now:  s.clock.Now(),
		ID:   id,
		From: int64(from),
	})
	if err != nil {
		return nil, fmt.Errorf("updating job status: %w", err)
	}
	job, err := s.loadJob(ctx, id)
	if err != nil || n == 1 {
		return job, err
	}
	return nil, transitionError(job, to)
}

// loadJob returns the job or ErrNotFound.
func (s *SQLiteDatabase) loadJob(ctx context.Context, id string) (*sqlc.Job, error) {
	job, err := s.queries.GetJobByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("job", id)
		}
		return nil, fmt.Errorf("loading job: %w", err)
	}
	return &job, nil
}

func transitionError(job *sqlc.Job, to catalog.JobStatus) error {
	return fmt.Errorf("job %s: %s -> %s: %w", job.ID, catalog.StatusOf(job), to, catalog.ErrInvalidTransition)
}
