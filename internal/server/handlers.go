package server

import (
	"database/sql"
	"net/http"

	"github.com/gorilla/mux"

	"catalog-go/internal/catalog"
	"catalog-go/internal/database/sqlc"
)

func (s *Server) healthCheck(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "client_id": s.svc.ClientID()})
}

type registerLocationRequest struct {
	LibraryID         int64  `json:"library_id"`
	Name              string `json:"name"`
	Path              string `json:"path"`
	TotalCapacity     *int64 `json:"total_capacity"`
	AvailableCapacity *int64 `json:"available_capacity"`
	IsRemovable       bool   `json:"is_removable"`
	IsEjectable       bool   `json:"is_ejectable"`
}

func (s *Server) registerLocation(w http.ResponseWriter, r *http.Request) {
	var req registerLocationRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	loc, err := s.svc.RegisterLocation(catalog.LocationParams{
		LibraryID:         req.LibraryID,
		Name:              req.Name,
		Path:              req.Path,
		TotalCapacity:     toNullInt(req.TotalCapacity),
		AvailableCapacity: toNullInt(req.AvailableCapacity),
		IsRemovable:       req.IsRemovable,
		IsEjectable:       req.IsEjectable,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, newLocationView(loc))
}

func (s *Server) listLocations(w http.ResponseWriter, r *http.Request) {
	var (
		locs []*sqlc.Location
		err  error
	)
	if r.URL.Query().Get("online") == "true" {
		locs, err = s.svc.ListOnlineLocations()
	} else {
		locs, err = s.svc.ListLocations()
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, mapViews(locs, newLocationView))
}

func (s *Server) getLocation(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	loc, err := s.svc.GetLocation(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newLocationView(loc))
}

type onlineRequest struct {
	Online bool `json:"online"`
}

func (s *Server) setLocationOnline(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req onlineRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.svc.SetLocationOnline(id, req.Online); err != nil {
		s.writeError(w, r, err)
		return
	}
	loc, err := s.svc.GetLocation(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newLocationView(loc))
}

func (s *Server) listRootFiles(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	files, err := s.svc.ListRootFiles(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, mapViews(files, newFileView))
}

func (s *Server) startScan(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	job, err := s.svc.StartScanJob(s.svc.ClientID(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.svc.Spawn(s.ctx, job)
	s.writeJSON(w, http.StatusAccepted, newJobView(job))
}

type checksumRequest struct {
	Tier   string `json:"tier"`
	Rehash bool   `json:"rehash"`
}

func (s *Server) startChecksum(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	req := checksumRequest{Tier: catalog.TierFull.String()}
	if err := decodeOptionalBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	tier, err := catalog.ParseChecksumTier(req.Tier)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	job, err := s.svc.StartChecksumJob(s.svc.ClientID(), id, tier, req.Rehash)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.svc.Spawn(s.ctx, job)
	s.writeJSON(w, http.StatusAccepted, newJobView(job))
}

func (s *Server) getFile(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	f, err := s.svc.GetFile(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newFileView(f))
}

func (s *Server) listChildren(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	files, err := s.svc.ListChildren(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, mapViews(files, newFileView))
}

func (s *Server) listFileTags(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	tags, err := s.svc.TagsForFile(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, mapViews(tags, newTagView))
}

func (s *Server) listTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.svc.ListTags()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, mapViews(tags, newTagView))
}

type createTagRequest struct {
	Name           string `json:"name"`
	Color          string `json:"color"`
	RedundancyGoal *int64 `json:"redundancy_goal"`
}

func (s *Server) createTag(w http.ResponseWriter, r *http.Request) {
	var req createTagRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	tag, err := s.svc.CreateTag(catalog.TagParams{
		Name:           req.Name,
		Color:          req.Color,
		RedundancyGoal: toNullInt(req.RedundancyGoal),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, newTagView(tag))
}

func (s *Server) applyTag(w http.ResponseWriter, r *http.Request) {
	tagID, fileID, err := tagFilePair(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	created, err := s.svc.ApplyTag(tagID, fileID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	s.writeJSON(w, status, map[string]bool{"created": created})
}

func (s *Server) removeTag(w http.ResponseWriter, r *http.Request) {
	tagID, fileID, err := tagFilePair(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	removed, err := s.svc.RemoveTag(tagID, fileID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !removed {
		s.writeJSONError(w, "tag is not applied to file", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func tagFilePair(r *http.Request) (int64, int64, error) {
	tagID, err := pathInt(r, "tagID")
	if err != nil {
		return 0, 0, err
	}
	fileID, err := pathInt(r, "fileID")
	if err != nil {
		return 0, 0, err
	}
	return tagID, fileID, nil
}

func (s *Server) listActiveJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.svc.ListActiveJobs()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, mapViews(jobs, newJobView))
}

func (s *Server) getJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.svc.GetJob(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newJobView(job))
}

func (s *Server) cancelJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.svc.CancelJob(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newJobView(job))
}

func (s *Server) listClientJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.svc.ListJobsForClient(mux.Vars(r)["clientID"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, mapViews(jobs, newJobView))
}

func (s *Server) captureStatistics(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	stats, err := s.svc.CaptureLibraryStatistics(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, newStatisticsView(stats))
}

func (s *Server) latestStatistics(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	stats, err := s.svc.LatestLibraryStatistics(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newStatisticsView(stats))
}

func toNullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
