package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fullbalance/internal/core"
)

func TestComputeMonthlyBucketsZeroFill(t *testing.T) {
	// All activity in January; the explicit range still spans three months.
	txs := []core.Transaction{
		tx("abertura", 1000, core.Income, "saldo inicial", "acc-1", date(2024, 1, 1)),
		tx("mercado", 200, core.Expense, "alimentação", "acc-1", date(2024, 1, 15)),
	}

	got := ComputeMonthlyBuckets(txs, date(2024, 1, 1), date(2024, 3, 31))

	if len(got) != 3 {
		t.Fatalf("expected 3 buckets (Jan..Mar), got %d", len(got))
	}
	labels := []string{"Jan", "Fev", "Mar"}
	for i, b := range got {
		if b.Label != labels[i] {
			t.Fatalf("bucket %d: expected label %s, got %s", i, labels[i], b.Label)
		}
	}
	// Sentinel records ARE included in bucket totals.
	if !got[0].Income.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("jan income: expected 1000 (sentinel included), got %s", got[0].Income)
	}
	if !got[0].Expense.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("jan expense: expected 200, got %s", got[0].Expense)
	}
	for _, b := range got[1:] {
		if !b.Income.IsZero() || !b.Expense.IsZero() {
			t.Fatalf("empty month %s must be zero-filled, got %+v", b.Label, b)
		}
	}
}

func TestComputeMonthlyBucketsDefaultTrailingWindow(t *testing.T) {
	got := ComputeMonthlyBuckets(nil, time.Time{}, time.Time{})
	if len(got) != trailingMonths {
		t.Fatalf("expected %d trailing buckets, got %d", trailingMonths, len(got))
	}
	now := time.Now()
	last := got[len(got)-1]
	if last.Year != now.Year() || last.Month != now.Month() {
		t.Fatalf("last bucket must be the current month, got %d-%d", last.Year, last.Month)
	}
}

func TestComputeMonthlyBucketsOpenStart(t *testing.T) {
	// Only an end bound: the range opens at the earliest transaction month.
	txs := []core.Transaction{
		tx("mercado", 200, core.Expense, "alimentação", "acc-1", date(2024, 1, 15)),
		tx("salário", 500, core.Income, "salário", "acc-1", date(2024, 2, 1)),
	}

	got := ComputeMonthlyBuckets(txs, time.Time{}, date(2024, 3, 10))

	if len(got) != 3 {
		t.Fatalf("expected Jan..Mar, got %d buckets", len(got))
	}
	if got[0].Month != time.January || got[2].Month != time.March {
		t.Fatalf("unexpected bucket range: %s..%s", got[0].Label, got[2].Label)
	}
}

func TestComputeMonthlyBucketsIgnoresOutOfRangeAndInvalidDates(t *testing.T) {
	txs := []core.Transaction{
		tx("dentro", 100, core.Income, "salário", "acc-1", date(2024, 2, 10)),
		tx("fora", 999, core.Income, "salário", "acc-1", date(2023, 6, 1)),
		{ID: "sem-data", Title: "sem-data", Amount: decimal.NewFromInt(50), Kind: core.Expense, AccountID: "acc-1"},
	}

	got := ComputeMonthlyBuckets(txs, date(2024, 1, 1), date(2024, 2, 28))

	if len(got) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(got))
	}
	if !got[1].Income.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("feb income: expected 100, got %s", got[1].Income)
	}
	if !got[0].Income.IsZero() || !got[0].Expense.IsZero() {
		t.Fatalf("jan must hold nothing, got %+v", got[0])
	}
}

func TestComputeMonthlySummaries(t *testing.T) {
	txs := []core.Transaction{
		tx("mercado", 200, core.Expense, "alimentação", "acc-1", date(2024, 1, 15)),
		tx("salário", 500, core.Income, "salário", "acc-1", date(2024, 2, 1)),
		tx("abertura", 1000, core.Income, "saldo inicial", "acc-1", date(2024, 1, 1)),
		tx("luz", 80, core.Expense, "casa", "acc-1", date(2024, 2, 20)),
	}

	got := ComputeMonthlySummaries(txs)

	if len(got) != 2 {
		t.Fatalf("expected 2 months, got %d", len(got))
	}
	// Most recent month first.
	if got[0].Month != time.February || got[1].Month != time.January {
		t.Fatalf("expected Feb then Jan, got %v then %v", got[0].Month, got[1].Month)
	}
	if !got[0].Income.Equal(decimal.NewFromInt(500)) || !got[0].Expense.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("february totals wrong: %+v", got[0])
	}
	// The summary list counts sentinel records, mirroring the chart.
	if !got[1].Income.Equal(decimal.NewFromInt(1000)) || !got[1].Expense.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("january totals wrong: %+v", got[1])
	}
}

func TestCurrentMonthSummaries(t *testing.T) {
	now := date(2024, 2, 15)
	summaries := []MonthlySummary{
		{Year: 2024, Month: time.February, Income: decimal.NewFromInt(500)},
		{Year: 2024, Month: time.January, Income: decimal.NewFromInt(1000)},
	}

	got := CurrentMonthSummaries(summaries, now)

	if len(got) != 1 || got[0].Month != time.February {
		t.Fatalf("expected only the current month, got %+v", got)
	}

	if got := CurrentMonthSummaries(summaries, date(2025, 7, 1)); len(got) != 0 {
		t.Fatalf("expected no entry for an inactive month, got %+v", got)
	}
}
