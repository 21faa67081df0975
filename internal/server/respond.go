package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"catalog-go/internal/catalog"
)

// statusFor maps catalog error kinds to HTTP status codes. Anything that is
// not a domain condition is a server fault.
func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrDuplicateKey),
		errors.Is(err, catalog.ErrInvalidTransition),
		errors.Is(err, catalog.ErrLocationOffline):
		return http.StatusConflict
	case errors.Is(err, catalog.ErrCycleDetected),
		errors.Is(err, catalog.ErrInvariantViolation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode JSON response", "error", err)
	}
}

func (s *Server) writeJSONError(w http.ResponseWriter, message string, status int) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// writeError answers with the status of err's kind. Server faults are logged
// and their detail is not sent to the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		s.writeJSONError(w, http.StatusText(status), status)
		return
	}
	s.writeJSONError(w, err.Error(), status)
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %v: %w", err, catalog.ErrInvariantViolation)
	}
	return nil
}

// decodeOptionalBody is decodeBody for requests whose fields all have defaults.
func decodeOptionalBody(r *http.Request, v any) error {
	if r.ContentLength == 0 {
		return nil
	}
	return decodeBody(r, v)
}

func pathInt(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q: %w", name, raw, catalog.ErrInvariantViolation)
	}
	return id, nil
}
