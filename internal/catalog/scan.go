package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"catalog-go/internal/database/sqlc"
	"catalog-go/internal/metrics"
)

// ScanSummary reports what a scan did to the index.
type ScanSummary struct {
	Entries  int
	Inserted int
	Updated  int
	Moved    int
	Removed  int
	Canceled bool
	Errors   []string
}

// StartScanJob queues a scan of a Location. Offline Locations are refused.
func (s *CatalogService) StartScanJob(clientID string, locationID int64) (*sqlc.Job, error) {
	loc, err := s.scannableLocation(locationID)
	if err != nil {
		return nil, err
	}
	return s.CreateJob(JobParams{
		ClientID:   clientID,
		Action:     ActionScan,
		LocationID: sql.NullInt64{Int64: loc.ID, Valid: true},
	})
}

func (s *CatalogService) scannableLocation(locationID int64) (*sqlc.Location, error) {
	loc, err := s.GetLocation(locationID)
	if err != nil {
		return nil, err
	}
	if !loc.IsOnline {
		return nil, fmt.Errorf("location %d: %w", locationID, ErrLocationOffline)
	}
	if !loc.Path.Valid || loc.Path.String == "" {
		return nil, fmt.Errorf("location %d has no path: %w", locationID, ErrInvariantViolation)
	}
	return loc, nil
}

// RunScanJob walks the job's Location and brings its index up to date:
// every entry is upserted, a new file whose quick checksum and size match a
// vanished file is recorded as a move of that file, and Files that no longer
// exist are removed once the walk is complete. A canceled scan stops without
// removing anything.
func (s *CatalogService) RunScanJob(ctx context.Context, job *sqlc.Job) (*ScanSummary, error) {
	if !job.LocationID.Valid {
		return nil, s.failJob(job.ID, fmt.Errorf("scan job has no location: %w", ErrInvariantViolation))
	}
	loc, err := s.scannableLocation(job.LocationID.Int64)
	if err != nil {
		return nil, s.failJob(job.ID, err)
	}

	unlock := s.locks.Lock(loc.ID)
	defer unlock()

	started := s.clock.Now()
	sc := &scanner{svc: s, ctx: ctx, job: job, loc: loc, summary: &ScanSummary{}}
	if err := sc.run(); err != nil {
		if sc.summary.Canceled {
			return sc.summary, err
		}
		return sc.summary, s.failJob(job.ID, err)
	}
	if sc.summary.Canceled {
		s.logger.Info("scan canceled", "job", job.ID, "location", loc.ID, "entries", sc.summary.Entries)
		return sc.summary, nil
	}

	if _, err := s.FinishJob(job.ID, JobCompleted, strings.Join(sc.summary.Errors, "\n")); err != nil {
		return sc.summary, err
	}
	metrics.ScanDuration.Observe(s.clock.Now().Sub(started).Seconds())
	s.logger.Info("scan complete", "location", loc.ID, "entries", sc.summary.Entries,
		"inserted", sc.summary.Inserted, "updated", sc.summary.Updated,
		"moved", sc.summary.Moved, "removed", sc.summary.Removed)
	return sc.summary, nil
}

// failJob records err on the job and returns it.
func (s *CatalogService) failJob(jobID string, err error) error {
	if _, ferr := s.FinishJob(jobID, JobFailed, err.Error()); ferr != nil {
		s.logger.Error("recording job failure", "job", jobID, "error", ferr)
	}
	return err
}

type scanner struct {
	svc     *CatalogService
	ctx     context.Context
	job     *sqlc.Job
	loc     *sqlc.Location
	summary *ScanSummary

	observed KeySet
	onDisk   KeySet
	indexed  map[FileKey]*sqlc.File
	dirs     map[string]int64 // directory stem -> file id
	consumed map[int64]bool   // vanished files already claimed by a move
	pending  int64
}

func (sc *scanner) run() error {
	s := sc.svc
	root, err := s.fsmgr.Resolve(sc.loc.Path.String)
	if err != nil {
		return fmt.Errorf("resolving location root: %w", err)
	}
	if !root.IsDir() {
		return fmt.Errorf("location root %s is not a directory: %w", root, ErrInvariantViolation)
	}
	entries, err := s.fsmgr.Walk(root)
	if err != nil {
		return fmt.Errorf("walking location: %w", err)
	}

	existing, err := s.database.ListFilesByLocation(sc.loc.ID)
	if err != nil {
		return fmt.Errorf("loading index: %w", err)
	}
	sc.indexed = make(map[FileKey]*sqlc.File, len(existing))
	for _, f := range existing {
		sc.indexed[KeyOf(f)] = f
	}

	keys := make([]FileKey, len(entries))
	sc.onDisk = make(KeySet, len(entries))
	var unlisted []FileKey
	for i, e := range entries {
		k, err := KeyFor(e.Components, e.Path.IsDir(), s.settings.ExtensionCase)
		if err != nil {
			return fmt.Errorf("entry %s: %w", e.Path, err)
		}
		keys[i] = k
		sc.onDisk.Add(k)
		if e.Unreadable {
			kept := sc.indexedBelow(k.Stem)
			unlisted = append(unlisted, kept...)
			sc.summary.Errors = append(sc.summary.Errors, fmt.Sprintf("%s: contents not readable, kept %d indexed entries", e.Path, len(kept)))
			s.logger.Warn("directory not readable", "path", e.Path.String(), "kept", len(kept))
		}
	}
	for _, k := range unlisted {
		sc.onDisk.Add(k)
	}

	if _, err := s.StartJob(sc.job.ID, int64(len(entries))); err != nil {
		return err
	}

	sc.observed = make(KeySet, len(entries)+len(unlisted))
	for _, k := range unlisted {
		sc.observed.Add(k)
	}
	sc.dirs = make(map[string]int64)
	sc.consumed = make(map[int64]bool)
	for i, e := range entries {
		if err := sc.ctx.Err(); err != nil {
			sc.summary.Canceled = true
			if _, ferr := s.FinishJob(sc.job.ID, JobCanceled, "interrupted: "+err.Error()); ferr != nil {
				s.logger.Error("recording interrupted scan", "job", sc.job.ID, "error", ferr)
			}
			return err
		}
		if err := sc.index(e, keys[i]); err != nil {
			return err
		}
		sc.summary.Entries++
		sc.pending++
		if sc.pending >= int64(s.settings.CancelCheckInterval) {
			if err := sc.flush(); err != nil || sc.summary.Canceled {
				return err
			}
		}
	}
	if err := sc.flush(); err != nil || sc.summary.Canceled {
		return err
	}

	res, err := s.reconcileMissing(sc.loc.ID, sc.observed)
	if err != nil {
		return err
	}
	sc.summary.Removed = res.Removed
	return nil
}

// indexedBelow returns the keys of indexed Files under the directory stem.
func (sc *scanner) indexedBelow(stem string) []FileKey {
	prefix := stem + "/"
	var keys []FileKey
	for k := range sc.indexed {
		if strings.HasPrefix(k.Stem, prefix) {
			keys = append(keys, k)
		}
	}
	return keys
}

// flush writes pending progress and notices cancellation.
func (sc *scanner) flush() error {
	if sc.pending == 0 {
		return nil
	}
	job, err := sc.svc.AdvanceJob(sc.job.ID, sc.pending)
	if err != nil {
		return err
	}
	sc.pending = 0
	if StatusOf(job) == JobCanceled {
		sc.summary.Canceled = true
	}
	return nil
}

func (sc *scanner) index(e Entry, key FileKey) error {
	s := sc.svc
	meta := FileMetadata{IsDir: e.Path.IsDir(), ExtensionCase: s.settings.ExtensionCase}
	if info := e.Path.Info(); info != nil {
		meta.ModifiedAt = info.ModTime().UTC()
		if !meta.IsDir {
			meta.Size = info.Size()
		}
	}

	prev, known := sc.indexed[key]
	if !meta.IsDir && (!known || contentChanged(prev, meta)) {
		sum, err := s.hasher.Sum(TierQuick, e.Path)
		if err != nil {
			sc.summary.Errors = append(sc.summary.Errors, fmt.Sprintf("%s: %v", e.Path, err))
			s.logger.Warn("quick checksum failed", "path", e.Path.String(), "error", err)
		} else {
			meta.QuickChecksum = sum
		}
	}

	if !known && !meta.IsDir && meta.QuickChecksum != "" {
		moved, err := sc.tryMove(key, meta)
		if err != nil {
			return err
		}
		if moved {
			sc.summary.Moved++
			known = true
		}
	}

	res, err := s.upsertFile(sc.loc.ID, e.Components, meta)
	if err != nil {
		return fmt.Errorf("indexing %s: %w", e.Path, err)
	}
	sc.observed.Add(key)
	if meta.IsDir {
		sc.dirs[key.Stem] = res.File.ID
	}
	switch {
	case res.Inserted:
		sc.summary.Inserted++
	case !known || contentChanged(prev, meta):
		sc.summary.Updated++
	}
	return nil
}

// tryMove looks for an indexed file that vanished from disk and has the same
// quick checksum and size as the new entry, and moves it to key.
func (sc *scanner) tryMove(key FileKey, meta FileMetadata) (bool, error) {
	s := sc.svc
	candidates, err := s.database.FindFilesByQuickChecksum(sc.loc.ID, meta.QuickChecksum, strconv.FormatInt(meta.Size, 10))
	if err != nil {
		return false, fmt.Errorf("finding move candidates: %w", err)
	}
	for _, c := range candidates {
		if c.IsDir || sc.consumed[c.ID] || sc.onDisk.Has(KeyOf(c)) {
			continue
		}
		params := MoveParams{Stem: key.Stem, Name: key.Name, Extension: key.Extension}
		if ps := key.ParentStem(); ps != "" {
			id, ok := sc.dirs[ps]
			if !ok {
				return false, nil
			}
			params.ParentID = sql.NullInt64{Int64: id, Valid: true}
		}
		if _, err := s.moveFile(c.ID, params); err != nil {
			return false, err
		}
		sc.consumed[c.ID] = true
		s.logger.Debug("detected move", "from", c.Stem, "to", key.Stem)
		return true, nil
	}
	return false, nil
}

func contentChanged(prev *sqlc.File, meta FileMetadata) bool {
	if prev == nil {
		return true
	}
	return prev.SizeInBytes != strconv.FormatInt(meta.Size, 10) ||
		(!meta.ModifiedAt.IsZero() && !prev.DateModified.Equal(meta.ModifiedAt))
}
