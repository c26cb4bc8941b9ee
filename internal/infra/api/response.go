package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"purchase-registry/internal/domain"
	"purchase-registry/internal/infra/logging"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// httpStatus maps a domain error to its response status.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptyCode), errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrCodeAlreadyRegistered):
		return http.StatusConflict
	case errors.Is(err, domain.ErrTransportFailure):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrCodeBusy):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// message translates kind; kinds without an entry fall back to the generic one.
func (s *Server) message(kind string, args ...any) string {
	if s.tr == nil {
		return kind
	}
	if !s.tr.Has(kind) {
		return s.tr.T("internal")
	}
	return s.tr.T(kind, args...)
}

func (s *Server) writeErrorKind(w http.ResponseWriter, status int, kind string, args ...any) {
	writeJSON(w, status, errorBody{Error: kind, Message: s.message(kind, args...)})
}

// writeError renders err; internal failures are logged and never leak their text.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := httpStatus(err)
	kind := domain.Kind(err)
	if status >= http.StatusInternalServerError {
		l := logging.With(r.Context(), s.log)
		l.Error().Err(err).Str("kind", kind).Msg("request failed")
		// lets a caller quote the request when reporting a server-side failure
		writeJSON(w, status, errorBody{Error: kind, Message: s.message(kind), TraceID: logging.TraceID(r.Context())})
		return
	}
	s.writeErrorKind(w, status, kind)
}
