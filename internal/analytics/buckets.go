package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"fullbalance/internal/core"
)

// MonthlyBucket is one calendar month of chart data. Buckets are zero-filled:
// a month inside the charted range always has an entry, even with no
// transactions, so chart continuity never breaks.
type MonthlyBucket struct {
	Year    int
	Month   time.Month
	Label   string
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// MonthlySummary is one calendar month of the summary list view.
type MonthlySummary struct {
	Year    int
	Month   time.Month
	Income  decimal.Decimal
	Expense decimal.Decimal
}

var monthLabels = [...]string{
	"Jan", "Fev", "Mar", "Abr", "Mai", "Jun",
	"Jul", "Ago", "Set", "Out", "Nov", "Dez",
}

// MonthLabel returns the short display label for a month.
func MonthLabel(m time.Month) string {
	return monthLabels[m-1]
}

// trailingMonths is how many calendar months the chart shows when no explicit
// date range is active.
const trailingMonths = 5

type monthKey struct {
	year  int
	month time.Month
}

func keyOf(t time.Time) monthKey {
	return monthKey{year: t.Year(), month: t.Month()}
}

// ComputeMonthlyBuckets builds the chart series. With an explicit range it
// emits one bucket per calendar month from start's month through end's month
// inclusive (start zero falls back to the earliest transaction month, end
// zero to now); without a range it emits the trailing months ending at the
// current month. Initial-balance sentinel records are counted like any other
// transaction here, unlike in the flow totals.
func ComputeMonthlyBuckets(txs []core.Transaction, start, end time.Time) []MonthlyBucket {
	now := time.Now()

	var from, to time.Time
	if !start.IsZero() || !end.IsZero() {
		from = start
		if from.IsZero() {
			from = earliestDate(txs, now)
		}
		to = end
		if to.IsZero() {
			to = now
		}
	} else {
		// Anchor on the first of the month so day-of-month normalization
		// cannot shift the window.
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).
			AddDate(0, -(trailingMonths - 1), 0)
		to = now
	}

	first := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, time.UTC)

	var buckets []MonthlyBucket
	index := make(map[monthKey]int)
	for cur := first; !cur.After(last); cur = cur.AddDate(0, 1, 0) {
		index[keyOf(cur)] = len(buckets)
		buckets = append(buckets, MonthlyBucket{
			Year:    cur.Year(),
			Month:   cur.Month(),
			Label:   MonthLabel(cur.Month()),
			Income:  decimal.Zero,
			Expense: decimal.Zero,
		})
	}

	for _, tx := range txs {
		if tx.Date.IsZero() {
			continue
		}
		i, ok := index[keyOf(tx.Date)]
		if !ok {
			continue
		}
		if tx.Kind == core.Income {
			buckets[i].Income = buckets[i].Income.Add(tx.Amount)
		} else {
			buckets[i].Expense = buckets[i].Expense.Add(tx.Amount)
		}
	}

	return buckets
}

func earliestDate(txs []core.Transaction, fallback time.Time) time.Time {
	earliest := fallback
	for _, tx := range txs {
		if tx.Date.IsZero() {
			continue
		}
		if tx.Date.Before(earliest) {
			earliest = tx.Date
		}
	}
	return earliest
}

// ComputeMonthlySummaries groups all transactions by calendar month and
// totals income and expense per month, most recent month first. Sentinel
// records are counted here as well: the summary list mirrors the chart, not
// the flow totals.
func ComputeMonthlySummaries(txs []core.Transaction) []MonthlySummary {
	index := make(map[monthKey]int)
	var out []MonthlySummary
	for _, tx := range txs {
		if tx.Date.IsZero() {
			continue
		}
		k := keyOf(tx.Date)
		i, ok := index[k]
		if !ok {
			index[k] = len(out)
			out = append(out, MonthlySummary{
				Year:    k.year,
				Month:   k.month,
				Income:  decimal.Zero,
				Expense: decimal.Zero,
			})
			i = index[k]
		}
		if tx.Kind == core.Income {
			out[i].Income = out[i].Income.Add(tx.Amount)
		} else {
			out[i].Expense = out[i].Expense.Add(tx.Amount)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Month > out[j].Month
	})
	return out
}

// CurrentMonthSummaries restricts the summary list to the current calendar
// month. Used when no filter is active: the dashboard then shows only the
// running month's entry.
func CurrentMonthSummaries(summaries []MonthlySummary, now time.Time) []MonthlySummary {
	var out []MonthlySummary
	for _, s := range summaries {
		if s.Year == now.Year() && s.Month == now.Month() {
			out = append(out, s)
		}
	}
	return out
}
