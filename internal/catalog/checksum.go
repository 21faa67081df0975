package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"catalog-go/internal/database/sqlc"
)

type checksumJobData struct {
	Tier   string `json:"tier"`
	Rehash bool   `json:"rehash"`
}

// ChecksumSummary reports the outcome of a checksum job.
type ChecksumSummary struct {
	Files    int
	Hashed   int64
	Canceled bool
	Errors   []string
}

// StartChecksumJob queues hashing of a Location's files. Only files missing
// the tier's checksum are hashed unless rehash is set.
func (s *CatalogService) StartChecksumJob(clientID string, locationID int64, tier ChecksumTier, rehash bool) (*sqlc.Job, error) {
	loc, err := s.scannableLocation(locationID)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(checksumJobData{Tier: tier.String(), Rehash: rehash})
	if err != nil {
		return nil, fmt.Errorf("encoding job data: %w", err)
	}
	return s.CreateJob(JobParams{
		ClientID:   clientID,
		Action:     ActionChecksum,
		LocationID: sql.NullInt64{Int64: loc.ID, Valid: true},
		Data:       string(data),
	})
}

// RunChecksumJob hashes the job's files with a bounded pool of workers.
// Per-file failures are collected on the job; database failures abort it.
func (s *CatalogService) RunChecksumJob(ctx context.Context, job *sqlc.Job) (*ChecksumSummary, error) {
	var data checksumJobData
	if err := json.Unmarshal([]byte(job.Data), &data); err != nil {
		return nil, s.failJob(job.ID, fmt.Errorf("decoding job data: %w", err))
	}
	tier, err := ParseChecksumTier(data.Tier)
	if err != nil {
		return nil, s.failJob(job.ID, err)
	}
	if !job.LocationID.Valid {
		return nil, s.failJob(job.ID, fmt.Errorf("checksum job has no location: %w", ErrInvariantViolation))
	}
	loc, err := s.scannableLocation(job.LocationID.Int64)
	if err != nil {
		return nil, s.failJob(job.ID, err)
	}

	files, err := s.database.ListFilesForChecksum(loc.ID, tier, data.Rehash)
	if err != nil {
		return nil, s.failJob(job.ID, fmt.Errorf("listing files to hash: %w", err))
	}
	if _, err := s.StartJob(job.ID, int64(len(files))); err != nil {
		return nil, err
	}

	summary := &ChecksumSummary{Files: len(files)}
	var (
		mu       sync.Mutex
		hashed   atomic.Int64
		canceled atomic.Bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.settings.ChecksumWorkers)
	for _, f := range files {
		f := f
		if canceled.Load() || gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if canceled.Load() {
				return nil
			}
			sum, err := s.hashOnDisk(loc, f, tier)
			if err == nil {
				_, err = s.ComputeChecksum(f.ID, tier, sum)
			}
			if err != nil {
				mu.Lock()
				summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", RelativePath(f), err))
				mu.Unlock()
				s.logger.Warn("checksum failed", "file", f.ID, "tier", tier.String(), "error", err)
			} else {
				hashed.Add(1)
			}

			j, err := s.AdvanceJob(job.ID, 1)
			if err != nil {
				return err
			}
			if StatusOf(j) == JobCanceled {
				canceled.Store(true)
			}
			return nil
		})
	}

	werr := g.Wait()
	summary.Hashed = hashed.Load()
	summary.Canceled = canceled.Load()
	if werr != nil {
		return summary, s.failJob(job.ID, werr)
	}
	if err := ctx.Err(); err != nil {
		summary.Canceled = true
		if _, ferr := s.FinishJob(job.ID, JobCanceled, "interrupted: "+err.Error()); ferr != nil {
			s.logger.Error("recording interrupted checksum job", "job", job.ID, "error", ferr)
		}
		return summary, err
	}
	if summary.Canceled {
		return summary, nil
	}

	if _, err := s.FinishJob(job.ID, JobCompleted, strings.Join(summary.Errors, "\n")); err != nil {
		return summary, err
	}
	return summary, nil
}
