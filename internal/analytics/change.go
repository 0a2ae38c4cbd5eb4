package analytics

import "github.com/shopspring/decimal"

// PercentChanges carries the whole-number percentage indicators shown next to
// the dashboard stat cards, all measured against the initial balance.
type PercentChanges struct {
	Balance int64
	Income  int64
	Expense int64 // negated: expense growth renders as a negative indicator
}

// Changes derives the stat-card percentage indicators from a Stats block.
// A zero initial balance yields all zeros: there is no meaningful percentage
// against a zero base, and this is a policy, not a division guard.
func Changes(s Stats) PercentChanges {
	if s.InitialBalance.IsZero() {
		return PercentChanges{}
	}
	base := s.InitialBalance
	hundred := decimal.NewFromInt(100)

	balance := s.Balance.Sub(base).Div(base).Mul(hundred)
	income := s.TotalIncome.Div(base).Mul(hundred)
	expense := s.TotalExpense.Div(base).Mul(hundred).Neg()

	return PercentChanges{
		Balance: balance.Round(0).IntPart(),
		Income:  income.Round(0).IntPart(),
		Expense: expense.Round(0).IntPart(),
	}
}

// PercentageChange computes the percentage variation between two values,
// rounded to one decimal place.
//
// Its zero-base policy deliberately differs from Changes: both zero means no
// change (0), a zero previous value with a nonzero current one is treated as
// an infinite increase capped at 100. The two call sites evolved separately
// and their behaviors are preserved as observed.
func PercentageChange(previous, current decimal.Decimal) decimal.Decimal {
	if previous.IsZero() && current.IsZero() {
		return decimal.Zero
	}
	if previous.IsZero() {
		return decimal.NewFromInt(100)
	}
	return current.Sub(previous).
		Div(previous.Abs()).
		Mul(decimal.NewFromInt(100)).
		Round(1)
}
