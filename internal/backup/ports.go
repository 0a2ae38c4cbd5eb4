// Package backup defines the outbound port for mirroring committed
// transactions to an external backup store.
package backup

import (
	"context"
	"time"

	"fullbalance/internal/core"
)

// Row is one mirrored entry. The backup is append-only: updates and
// deletions show up as new rows tagged with their event type, so the sheet
// doubles as an audit log.
type Row struct {
	Event         string
	TransactionID string
	OwnerID       string
	Title         string
	Amount        string
	Kind          string
	Category      string
	Date          string
	AccountID     string
	RecordedAt    time.Time
}

// Mirror appends rows to the external backup store.
type Mirror interface {
	AppendRow(ctx context.Context, row Row) (rowRef string, err error)
}

// NewRow builds a mirror row from a committed transaction.
func NewRow(event string, t core.Transaction) Row {
	kind := "Saída"
	if t.Kind == core.Income {
		kind = "Entrada"
	}
	return Row{
		Event:         event,
		TransactionID: t.ID,
		OwnerID:       t.OwnerID,
		Title:         t.Title,
		Amount:        core.FormatAmount(t.Amount),
		Kind:          kind,
		Category:      t.Category,
		Date:          t.Date.Format("02/01/2006"),
		AccountID:     t.AccountID,
		RecordedAt:    time.Now().UTC(),
	}
}

// NewDeletionRow builds the tombstone row appended when a transaction is
// removed. Only the identifiers are known at that point.
func NewDeletionRow(transactionID, ownerID string) Row {
	return Row{
		Event:         "deleted",
		TransactionID: transactionID,
		OwnerID:       ownerID,
		RecordedAt:    time.Now().UTC(),
	}
}
