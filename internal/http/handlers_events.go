package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"fullbalance/internal/log"
	"fullbalance/internal/stream"
)

type snapshotEvent struct {
	Transactions []transactionView `json:"transactions"`
	Accounts     []accountView     `json:"accounts"`
}

// handleEvents streams full snapshots over SSE. Each mutation pushes the
// complete current state; clients recompute their views from scratch on
// every event, there are no deltas to reconcile.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	ownerID := ownerFromContext(r.Context())

	snapshots, cancel := s.hub.Subscribe(ownerID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// Initial snapshot so the client renders without waiting for a change.
	txs, err := s.transactions.List(r.Context(), ownerID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to load initial snapshot", log.FieldError, err)
		return
	}
	accounts, err := s.accounts.List(r.Context(), ownerID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to load initial snapshot", log.FieldError, err)
		return
	}
	if err := writeSnapshot(w, stream.Snapshot{Transactions: txs, Accounts: accounts}); err != nil {
		return
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case snap, open := <-snapshots:
			if !open {
				return
			}
			if err := writeSnapshot(w, snap); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeSnapshot(w http.ResponseWriter, snap stream.Snapshot) error {
	payload, err := json.Marshal(snapshotEvent{
		Transactions: toTransactionViews(snap.Transactions),
		Accounts:     toAccountViews(snap.Accounts),
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", payload)
	return err
}
