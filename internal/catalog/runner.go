package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"catalog-go/internal/database/sqlc"
	"catalog-go/internal/metrics"
)

type statisticsJobData struct {
	LibraryID int64 `json:"library_id"`
}

// StartStatisticsJob queues a statistics capture for a library.
func (s *CatalogService) StartStatisticsJob(clientID string, libraryID int64) (*sqlc.Job, error) {
	if _, err := s.GetLibrary(libraryID); err != nil {
		return nil, err
	}
	data, err := json.Marshal(statisticsJobData{LibraryID: libraryID})
	if err != nil {
		return nil, fmt.Errorf("encoding job data: %w", err)
	}
	return s.CreateJob(JobParams{ClientID: clientID, Action: ActionStatistics, Data: string(data)})
}

func (s *CatalogService) runStatisticsJob(job *sqlc.Job) error {
	var data statisticsJobData
	if err := json.Unmarshal([]byte(job.Data), &data); err != nil {
		return s.failJob(job.ID, fmt.Errorf("decoding job data: %w", err))
	}
	if _, err := s.StartJob(job.ID, 1); err != nil {
		return err
	}
	if _, err := s.CaptureLibraryStatistics(data.LibraryID); err != nil {
		return s.failJob(job.ID, err)
	}
	if _, err := s.AdvanceJob(job.ID, 1); err != nil {
		return err
	}
	_, err := s.FinishJob(job.ID, JobCompleted, "")
	return err
}

// RunJob executes a Queued job to completion according to its action.
func (s *CatalogService) RunJob(ctx context.Context, job *sqlc.Job) error {
	if StatusOf(job) != JobQueued {
		return fmt.Errorf("job %s is %s: %w", job.ID, StatusOf(job), ErrInvalidTransition)
	}

	metrics.JobsRunning.Inc()
	defer metrics.JobsRunning.Dec()

	var err error
	switch JobAction(job.Action) {
	case ActionScan:
		_, err = s.RunScanJob(ctx, job)
	case ActionChecksum:
		_, err = s.RunChecksumJob(ctx, job)
	case ActionTagApply:
		_, err = s.RunTagJob(ctx, job)
	case ActionStatistics:
		err = s.runStatisticsJob(job)
	default:
		err = s.failJob(job.ID, fmt.Errorf("unknown job action %q: %w", job.Action, ErrInvariantViolation))
	}
	return err
}

// Spawn runs a job on its own goroutine. Failures are recorded on the job
// and logged; Wait blocks until every spawned job has returned.
func (s *CatalogService) Spawn(ctx context.Context, job *sqlc.Job) {
	s.running.Add(1)
	go func() {
		defer s.running.Done()
		if err := s.RunJob(ctx, job); err != nil {
			s.logger.Error("job runner returned error", "job", job.ID, "action", job.Action, "error", err)
		}
	}()
}
