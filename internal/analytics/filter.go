// Package analytics implements the derived views the dashboard and reports
// are built from: filtering, running balance, flow totals, per-account
// balances, monthly buckets, and percentage changes.
//
// All functions are pure and recompute from a full snapshot on every call.
// There is no incremental state: snapshots arrive as complete replacements of
// the working set, and full recomputation is cheap at personal-finance record
// volumes.
package analytics

import (
	"strings"
	"time"

	"fullbalance/internal/core"
)

// KindAll selects every transaction kind; any other value must match exactly.
const KindAll = "all"

// AccountAll selects every account.
const AccountAll = "all"

// Criteria is the conjunction of filters a view can apply. The zero value
// selects everything.
type Criteria struct {
	Kind      string    // KindAll, "income" or "expense"
	AccountID string    // AccountAll or a specific account id
	Start     time.Time // zero = no lower bound; truncated to start of day
	End       time.Time // zero = no upper bound; inclusive through end of day
	Search    string    // case-insensitive substring match on title
}

// IsActive reports whether any predicate is in effect.
func (c Criteria) IsActive() bool {
	return c.kindActive() || c.accountActive() ||
		!c.Start.IsZero() || !c.End.IsZero() || c.Search != ""
}

// HasDateRange reports whether an explicit date range is in effect.
func (c Criteria) HasDateRange() bool {
	return !c.Start.IsZero() || !c.End.IsZero()
}

func (c Criteria) kindActive() bool {
	return c.Kind != "" && c.Kind != KindAll
}

func (c Criteria) accountActive() bool {
	return c.AccountID != "" && c.AccountID != AccountAll
}

// StartOfDay truncates t to midnight in its location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay normalizes t to 23:59:59.999 so an end date is inclusive for its
// entire calendar day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999e6, t.Location())
}

// Apply returns the subset of txs for which every active predicate holds.
// The input is never mutated and relative ordering is preserved, so the
// upstream date-descending order survives filtering. With no active
// predicates the full input is returned unchanged.
func Apply(txs []core.Transaction, c Criteria) []core.Transaction {
	if !c.IsActive() {
		return txs
	}

	var start, end time.Time
	if !c.Start.IsZero() {
		start = StartOfDay(c.Start)
	}
	if !c.End.IsZero() {
		end = EndOfDay(c.End)
	}
	search := strings.ToLower(c.Search)

	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if c.kindActive() && string(tx.Kind) != c.Kind {
			continue
		}
		if c.accountActive() && tx.AccountID != c.AccountID {
			continue
		}
		if !start.IsZero() || !end.IsZero() {
			// A record without a valid date cannot satisfy a date bound.
			if tx.Date.IsZero() {
				continue
			}
			if !start.IsZero() && tx.Date.Before(start) {
				continue
			}
			if !end.IsZero() && tx.Date.After(end) {
				continue
			}
		}
		if search != "" && !strings.Contains(strings.ToLower(tx.Title), search) {
			continue
		}
		out = append(out, tx)
	}
	return out
}
