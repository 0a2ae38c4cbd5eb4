package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"fullbalance/internal/core"
)

// Stats is the summary block rendered at the top of the dashboard.
type Stats struct {
	// Balance is the running balance: the signed sum of ALL transactions
	// dated on-or-before the period end, regardless of any other filter.
	Balance decimal.Decimal
	// TotalIncome and TotalExpense are flow totals over the filtered set,
	// excluding initial-balance sentinel records.
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	// Count is the number of non-sentinel filtered transactions.
	Count int
	// InitialBalance is the amount of the initial-balance sentinel record
	// from the unfiltered set, zero when none exists.
	InitialBalance decimal.Decimal
}

// AccountBalance is the signed balance of one account over the filtered set,
// joined with the account metadata for display.
type AccountBalance struct {
	AccountID string
	Name      string
	Color     string
	Balance   decimal.Decimal
}

// Display fallbacks for transactions whose account has been deleted. The
// reference is weak, so the lookup simply resolves to a placeholder.
const (
	UnknownAccountName  = "Conta Desconhecida"
	UnknownAccountColor = "#888888"
)

// ComputeStats derives the dashboard summary. The running balance comes from
// the unfiltered list restricted only by the end-of-period cutoff; the flow
// totals come from the fully filtered list. The two scopes are intentionally
// different and must not be unified.
func ComputeStats(all, filtered []core.Transaction, periodEnd time.Time) Stats {
	if periodEnd.IsZero() {
		periodEnd = time.Now()
	}

	s := Stats{
		Balance:        decimal.Zero,
		TotalIncome:    decimal.Zero,
		TotalExpense:   decimal.Zero,
		InitialBalance: decimal.Zero,
	}

	for _, tx := range all {
		if tx.Date.IsZero() {
			continue
		}
		if !tx.Date.After(periodEnd) {
			s.Balance = s.Balance.Add(tx.Signed())
		}
	}

	for _, tx := range all {
		if tx.IsInitialBalance() {
			s.InitialBalance = tx.Amount
			break
		}
	}

	for _, tx := range filtered {
		if tx.IsInitialBalance() {
			continue
		}
		switch tx.Kind {
		case core.Income:
			s.TotalIncome = s.TotalIncome.Add(tx.Amount)
		case core.Expense:
			s.TotalExpense = s.TotalExpense.Add(tx.Amount)
		}
		s.Count++
	}

	return s
}

// ComputeAccountBalances groups the filtered set by account and folds each
// group into a signed balance. Accounts without any filtered transaction are
// omitted; transactions pointing at a deleted account get the placeholder
// name and color. Result order follows first appearance in the input.
func ComputeAccountBalances(filtered []core.Transaction, accounts []core.Account) []AccountBalance {
	byID := make(map[string]core.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}

	index := make(map[string]int)
	var out []AccountBalance
	for _, tx := range filtered {
		i, ok := index[tx.AccountID]
		if !ok {
			ab := AccountBalance{
				AccountID: tx.AccountID,
				Name:      UnknownAccountName,
				Color:     UnknownAccountColor,
				Balance:   decimal.Zero,
			}
			if acc, found := byID[tx.AccountID]; found {
				ab.Name = acc.Name
				ab.Color = acc.Color
			}
			index[tx.AccountID] = len(out)
			out = append(out, ab)
			i = index[tx.AccountID]
		}
		out[i].Balance = out[i].Balance.Add(tx.Signed())
	}
	return out
}

// Latest returns at most n non-sentinel transactions from the head of the
// filtered set, which arrives date-descending upstream.
func Latest(filtered []core.Transaction, n int) []core.Transaction {
	out := make([]core.Transaction, 0, n)
	for _, tx := range filtered {
		if tx.IsInitialBalance() {
			continue
		}
		out = append(out, tx)
		if len(out) == n {
			break
		}
	}
	return out
}
