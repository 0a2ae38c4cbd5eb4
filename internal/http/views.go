package http

import (
	"time"

	"fullbalance/internal/analytics"
	"fullbalance/internal/core"
)

// Wire representations. Amounts travel as strings with two decimal places
// and a dot separator; dates are RFC 3339 so the stored instant survives a
// GET then PUT round trip.

type transactionView struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Amount    string `json:"amount"`
	Date      string `json:"date"`
	Kind      string `json:"kind"`
	Category  string `json:"category"`
	AccountID string `json:"account_id"`
}

func toTransactionView(t core.Transaction) transactionView {
	return transactionView{
		ID:        t.ID,
		Title:     t.Title,
		Amount:    t.Amount.StringFixed(2),
		Date:      t.Date.UTC().Format(time.RFC3339),
		Kind:      string(t.Kind),
		Category:  t.Category,
		AccountID: t.AccountID,
	}
}

func toTransactionViews(txs []core.Transaction) []transactionView {
	out := make([]transactionView, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionView(t))
	}
	return out
}

type accountView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

func toAccountViews(accs []core.Account) []accountView {
	out := make([]accountView, 0, len(accs))
	for _, a := range accs {
		out = append(out, accountView{ID: a.ID, Name: a.Name, Color: a.Color})
	}
	return out
}

type statsView struct {
	Balance        string `json:"balance"`
	TotalIncome    string `json:"total_income"`
	TotalExpense   string `json:"total_expense"`
	Count          int    `json:"count"`
	InitialBalance string `json:"initial_balance"`
}

func toStatsView(s analytics.Stats) statsView {
	return statsView{
		Balance:        s.Balance.StringFixed(2),
		TotalIncome:    s.TotalIncome.StringFixed(2),
		TotalExpense:   s.TotalExpense.StringFixed(2),
		Count:          s.Count,
		InitialBalance: s.InitialBalance.StringFixed(2),
	}
}

type changesView struct {
	Balance int64 `json:"balance_pct"`
	Income  int64 `json:"income_pct"`
	Expense int64 `json:"expense_pct"`
}

type accountBalanceView struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Balance   string `json:"balance"`
}

func toAccountBalanceViews(balances []analytics.AccountBalance) []accountBalanceView {
	out := make([]accountBalanceView, 0, len(balances))
	for _, b := range balances {
		out = append(out, accountBalanceView{
			AccountID: b.AccountID,
			Name:      b.Name,
			Color:     b.Color,
			Balance:   b.Balance.StringFixed(2),
		})
	}
	return out
}

type bucketView struct {
	Year    int    `json:"year"`
	Month   int    `json:"month"`
	Label   string `json:"label"`
	Income  string `json:"income"`
	Expense string `json:"expense"`
}

func toBucketViews(buckets []analytics.MonthlyBucket) []bucketView {
	out := make([]bucketView, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, bucketView{
			Year:    b.Year,
			Month:   int(b.Month),
			Label:   b.Label,
			Income:  b.Income.StringFixed(2),
			Expense: b.Expense.StringFixed(2),
		})
	}
	return out
}

type summaryView struct {
	Year    int    `json:"year"`
	Month   int    `json:"month"`
	Label   string `json:"label"`
	Income  string `json:"income"`
	Expense string `json:"expense"`
}

func toSummaryViews(summaries []analytics.MonthlySummary) []summaryView {
	out := make([]summaryView, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, summaryView{
			Year:    s.Year,
			Month:   int(s.Month),
			Label:   analytics.MonthLabel(s.Month),
			Income:  s.Income.StringFixed(2),
			Expense: s.Expense.StringFixed(2),
		})
	}
	return out
}
