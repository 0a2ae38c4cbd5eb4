package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"fullbalance/internal/core"
	"fullbalance/internal/export"
	"fullbalance/internal/log"
	"fullbalance/internal/services"
	"fullbalance/internal/storage"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeServiceError maps domain errors to status codes. Unknown errors are
// reported as 500 without leaking internals.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, export.ErrNoTransactions):
		writeError(w, http.StatusBadRequest, err.Error())
	case isValidationError(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		// The context logger carries the request id set by the middleware.
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrInvalidKind) ||
		errors.Is(err, core.ErrEmptyTitle) ||
		errors.Is(err, core.ErrTitleTooLong) ||
		errors.Is(err, core.ErrEmptyAccountID) ||
		errors.Is(err, core.ErrEmptyName) ||
		errors.Is(err, core.ErrNameTooLong)
}
