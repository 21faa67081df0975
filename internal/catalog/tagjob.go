package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"catalog-go/internal/database/sqlc"
)

type tagJobData struct {
	TagID  int64 `json:"tag_id"`
	FileID int64 `json:"file_id"`
}

// ApplyTagRecursive queues a job that tags a File and everything below it.
func (s *CatalogService) ApplyTagRecursive(clientID string, tagID, fileID int64) (*sqlc.Job, error) {
	if _, err := s.GetTag(tagID); err != nil {
		return nil, err
	}
	if _, err := s.GetFile(fileID); err != nil {
		return nil, err
	}
	data, err := json.Marshal(tagJobData{TagID: tagID, FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("encoding job data: %w", err)
	}
	return s.CreateJob(JobParams{ClientID: clientID, Action: ActionTagApply, Data: string(data)})
}

// RunTagJob applies the job's tag to its File and all descendants. It
// returns the number of new links.
func (s *CatalogService) RunTagJob(ctx context.Context, job *sqlc.Job) (int, error) {
	var data tagJobData
	if err := json.Unmarshal([]byte(job.Data), &data); err != nil {
		return 0, s.failJob(job.ID, fmt.Errorf("decoding job data: %w", err))
	}
	root, err := s.GetFile(data.FileID)
	if err != nil {
		return 0, s.failJob(job.ID, err)
	}
	below, err := s.database.Descendants(root.ID)
	if err != nil {
		return 0, s.failJob(job.ID, fmt.Errorf("listing descendants: %w", err))
	}
	files := append([]*sqlc.File{root}, below...)

	if _, err := s.StartJob(job.ID, int64(len(files))); err != nil {
		return 0, err
	}

	created := 0
	var pending int64
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			if _, ferr := s.FinishJob(job.ID, JobCanceled, "interrupted: "+err.Error()); ferr != nil {
				s.logger.Error("recording interrupted tag job", "job", job.ID, "error", ferr)
			}
			return created, err
		}
		ok, err := s.ApplyTag(data.TagID, f.ID)
		if err != nil {
			return created, s.failJob(job.ID, err)
		}
		if ok {
			created++
		}
		pending++
		if pending >= int64(s.settings.CancelCheckInterval) {
			j, err := s.AdvanceJob(job.ID, pending)
			if err != nil {
				return created, err
			}
			pending = 0
			if StatusOf(j) == JobCanceled {
				return created, nil
			}
		}
	}
	if pending > 0 {
		j, err := s.AdvanceJob(job.ID, pending)
		if err != nil {
			return created, err
		}
		if StatusOf(j) == JobCanceled {
			return created, nil
		}
	}

	if err := s.RecountTags(); err != nil {
		s.logger.Warn("recounting tags after tag job", "job", job.ID, "error", err)
	}
	if _, err := s.FinishJob(job.ID, JobCompleted, ""); err != nil {
		return created, err
	}
	return created, nil
}
