package http

import (
	"net/http"

	"fullbalance/internal/core"
)

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerFromContext(r.Context())

	accounts, err := s.accounts.List(r.Context(), ownerID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toAccountViews(accounts))
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerFromContext(r.Context())

	var payload accountPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	created, err := s.accounts.Create(r.Context(), core.Account{
		OwnerID: ownerID,
		Name:    sanitizeInput(payload.Name),
		Color:   payload.Color,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, accountView{ID: created.ID, Name: created.Name, Color: created.Color})
}

// handleDeleteAccount removes the account only. Its transactions survive
// and later resolve to a placeholder name in every view.
func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerFromContext(r.Context())
	id := r.PathValue("id")

	if err := s.accounts.Delete(r.Context(), ownerID, id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
