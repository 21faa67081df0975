// Package server exposes the catalog over HTTP: a JSON API for locations,
// files, tags, jobs and statistics, a websocket stream of job progress and
// the Prometheus metrics endpoint.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"catalog-go/internal/catalog"
	"catalog-go/internal/progress"
)

const shutdownTimeout = 30 * time.Second

// Server routes HTTP requests to a CatalogService. Jobs started through the
// API run on the server's base context, so they stop when it is canceled.
type Server struct {
	ctx    context.Context
	svc    *catalog.CatalogService
	events *progress.Broadcaster
	logger catalog.Logger
	router *mux.Router
}

// New creates a Server. events may be nil, in which case /api/events is not
// served.
func New(ctx context.Context, svc *catalog.CatalogService, events *progress.Broadcaster, logger catalog.Logger) *Server {
	if logger == nil {
		logger = catalog.NewNopLogger()
	}
	s := &Server{ctx: ctx, svc: svc, events: events, logger: logger}
	s.router = s.setupRouter()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRouter() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.metricsMiddleware)

	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/healthz", s.healthCheck).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/locations", s.registerLocation).Methods("POST")
	api.HandleFunc("/locations", s.listLocations).Methods("GET")
	api.HandleFunc("/locations/{id}", s.getLocation).Methods("GET")
	api.HandleFunc("/locations/{id}/online", s.setLocationOnline).Methods("POST")
	api.HandleFunc("/locations/{id}/files", s.listRootFiles).Methods("GET")
	api.HandleFunc("/locations/{id}/scan", s.startScan).Methods("POST")
	api.HandleFunc("/locations/{id}/checksum", s.startChecksum).Methods("POST")

	api.HandleFunc("/files/{id}", s.getFile).Methods("GET")
	api.HandleFunc("/files/{id}/children", s.listChildren).Methods("GET")
	api.HandleFunc("/files/{id}/tags", s.listFileTags).Methods("GET")

	api.HandleFunc("/tags", s.listTags).Methods("GET")
	api.HandleFunc("/tags", s.createTag).Methods("POST")
	api.HandleFunc("/tags/{tagID}/files/{fileID}", s.applyTag).Methods("PUT")
	api.HandleFunc("/tags/{tagID}/files/{fileID}", s.removeTag).Methods("DELETE")

	api.HandleFunc("/jobs", s.listActiveJobs).Methods("GET")
	api.HandleFunc("/jobs/{id}", s.getJob).Methods("GET")
	api.HandleFunc("/jobs/{id}/cancel", s.cancelJob).Methods("POST")
	api.HandleFunc("/clients/{clientID}/jobs", s.listClientJobs).Methods("GET")

	api.HandleFunc("/libraries/{id}/statistics", s.captureStatistics).Methods("POST")
	api.HandleFunc("/libraries/{id}/statistics/latest", s.latestStatistics).Methods("GET")

	if s.events != nil {
		api.HandleFunc("/events", s.streamEvents).Methods("GET")
	}

	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully and waits for spawned jobs to return.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if s.events != nil {
		s.events.Close()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("http server shutdown error", "error", err)
	}
	s.svc.Wait()
	return nil
}
