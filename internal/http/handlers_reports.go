package http

import (
	"fmt"
	"net/http"
	"time"

	"fullbalance/internal/analytics"
	"fullbalance/internal/export"
)

// handleExportCSV streams the filtered transactions as a CSV download. An
// empty filtered set is a 400: no file is produced in that case.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerFromContext(r.Context())

	criteria, err := parseCriteria(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	all, err := s.transactions.List(r.Context(), ownerID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	accounts, err := s.accounts.List(r.Context(), ownerID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	filtered := analytics.Apply(all, criteria)

	data, err := export.TransactionsCSV(filtered, accounts)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	filename := export.ReportFilename(time.Now())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
