package catalog

import (
	"fmt"
	"strings"

	"catalog-go/internal/database/sqlc"
	"catalog-go/internal/metrics"
)

// CreateJob records a Queued job. An empty ClientID uses the configured one.
func (s *CatalogService) CreateJob(params JobParams) (*sqlc.Job, error) {
	if params.ClientID == "" {
		params.ClientID = s.settings.ClientID
	}
	if strings.TrimSpace(params.ClientID) == "" || params.Action == "" {
		return nil, fmt.Errorf("job needs a client id and an action: %w", ErrInvariantViolation)
	}
	job, err := s.database.CreateJob(params)
	if err != nil {
		return nil, fmt.Errorf("creating job: %w", err)
	}
	s.logger.Info("job created", "job", job.ID, "action", job.Action, "client", job.ClientID)
	s.notifier.Notify(UpdateFromJob(job))
	return job, nil
}

// GetJob returns a Job or ErrNotFound.
func (s *CatalogService) GetJob(id string) (*sqlc.Job, error) {
	job, err := s.database.FindJobByID(id)
	if err != nil {
		return nil, fmt.Errorf("finding job: %w", err)
	}
	if job == nil {
		return nil, notFound("job", id)
	}
	return job, nil
}

// ListJobsForClient returns a client's jobs, newest first.
func (s *CatalogService) ListJobsForClient(clientID string) ([]*sqlc.Job, error) {
	jobs, err := s.database.ListJobsForClient(clientID)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	return jobs, nil
}

// ListActiveJobs returns every job that is not in a terminal status.
func (s *CatalogService) ListActiveJobs() ([]*sqlc.Job, error) {
	jobs, err := s.database.ListActiveJobs()
	if err != nil {
		return nil, fmt.Errorf("listing active jobs: %w", err)
	}
	return jobs, nil
}

// StartJob moves a Queued job to Running with its task count.
func (s *CatalogService) StartJob(id string, taskCount int64) (*sqlc.Job, error) {
	job, err := s.database.StartJob(id, taskCount)
	if err != nil {
		return nil, fmt.Errorf("starting job %s: %w", id, err)
	}
	metrics.JobsStarted.WithLabelValues(job.Action).Inc()
	s.logger.Debug("job started", "job", id, "tasks", taskCount)
	s.notifier.Notify(UpdateFromJob(job))
	return job, nil
}

// AdvanceJob reports by more tasks complete. A canceled job is returned
// unchanged and its update carries the canceled status.
func (s *CatalogService) AdvanceJob(id string, by int64) (*sqlc.Job, error) {
	job, err := s.database.AdvanceJob(id, by)
	if err != nil {
		return nil, fmt.Errorf("advancing job %s: %w", id, err)
	}
	if StatusOf(job) != JobCanceled {
		metrics.JobTasksAdvanced.WithLabelValues(job.Action).Add(float64(by))
	}
	s.notifier.Notify(UpdateFromJob(job))
	return job, nil
}

// FinishJob moves a job to a terminal status. errText is appended to the
// job's error log when non-empty.
func (s *CatalogService) FinishJob(id string, outcome JobStatus, errText string) (*sqlc.Job, error) {
	job, err := s.database.FinishJob(id, outcome, errText)
	if err != nil {
		return nil, fmt.Errorf("finishing job %s as %s: %w", id, outcome, err)
	}
	metrics.JobsFinished.WithLabelValues(job.Action, outcome.String()).Inc()
	if outcome == JobFailed {
		s.logger.Error("job failed", "job", id, "action", job.Action, "error", errText)
	} else {
		s.logger.Info("job finished", "job", id, "action", job.Action, "status", outcome.String())
	}
	s.notifier.Notify(UpdateFromJob(job))
	return job, nil
}

// CancelJob asks a job to stop. Runners observe the change at their next
// progress write.
func (s *CatalogService) CancelJob(id string) (*sqlc.Job, error) {
	return s.FinishJob(id, JobCanceled, "")
}

func (s *CatalogService) PauseJob(id string) (*sqlc.Job, error) {
	job, err := s.database.PauseJob(id)
	if err != nil {
		return nil, fmt.Errorf("pausing job %s: %w", id, err)
	}
	s.notifier.Notify(UpdateFromJob(job))
	return job, nil
}

func (s *CatalogService) ResumeJob(id string) (*sqlc.Job, error) {
	job, err := s.database.ResumeJob(id)
	if err != nil {
		return nil, fmt.Errorf("resuming job %s: %w", id, err)
	}
	s.notifier.Notify(UpdateFromJob(job))
	return job, nil
}
