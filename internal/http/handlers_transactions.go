package http

import (
	"net/http"

	"fullbalance/internal/analytics"
)

type transactionListResponse struct {
	Transactions []transactionView `json:"transactions"`
	Total        int               `json:"total"`
	Page         int               `json:"page"`
	PageSize     int               `json:"page_size"`
}

// handleListTransactions returns the filtered transaction list, newest
// first, with offset pagination applied after filtering.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerFromContext(r.Context())

	criteria, err := parseCriteria(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	page := parsePagination(r.URL.Query())

	all, err := s.transactions.List(r.Context(), ownerID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	filtered := analytics.Apply(all, criteria)
	start, end := page.slice(len(filtered))

	writeJSON(w, http.StatusOK, transactionListResponse{
		Transactions: toTransactionViews(filtered[start:end]),
		Total:        len(filtered),
		Page:         page.Page,
		PageSize:     page.PageSize,
	})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerFromContext(r.Context())

	var payload transactionPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	t, err := payload.toCore(ownerID, "")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.transactions.Create(r.Context(), t)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTransactionView(created))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerFromContext(r.Context())
	id := r.PathValue("id")

	var payload transactionPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	t, err := payload.toCore(ownerID, id)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.transactions.Update(r.Context(), t); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionView(t))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerFromContext(r.Context())
	id := r.PathValue("id")

	if err := s.transactions.Delete(r.Context(), ownerID, id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
