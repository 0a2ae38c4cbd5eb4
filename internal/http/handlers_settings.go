package http

import (
	"net/http"
)

type themeResponse struct {
	Color string `json:"color"`
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerFromContext(r.Context())

	color, err := s.accounts.GetThemeColor(r.Context(), ownerID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, themeResponse{Color: color})
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerFromContext(r.Context())

	var payload themePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if err := s.accounts.SetThemeColor(r.Context(), ownerID, payload.Color); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, themeResponse{Color: payload.Color})
}
