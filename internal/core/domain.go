package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionKind = "income"
	Expense TransactionKind = "expense"
)

// Initial-balance sentinel categories. A transaction carrying one of these
// marks the starting balance of an account: it participates in the running
// balance but is excluded from flow totals and transaction counts.
const (
	SentinelCategoryPT = "saldo inicial"
	SentinelCategoryEN = "initial_balance"
)

type (
	TransactionKind string

	// Transaction is a single dated money movement attributed to an account.
	Transaction struct {
		ID        string
		OwnerID   string
		Title     string
		Amount    decimal.Decimal // always positive; Kind carries the sign
		Date      time.Time
		Kind      TransactionKind
		Category  string
		AccountID string
	}

	// Account is a named, colored bucket transactions point at. The
	// reference is weak: deleting an account leaves its transactions in
	// place with a dangling AccountID.
	Account struct {
		ID      string
		OwnerID string
		Name    string
		Color   string
	}
)

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrInvalidDate    = errors.New("invalid date")
	ErrInvalidKind    = errors.New("invalid transaction kind")
	ErrEmptyTitle     = errors.New("empty title")
	ErrTitleTooLong   = errors.New("title too long (max 200 characters)")
	ErrEmptyAccountID = errors.New("empty account id")
	ErrEmptyName      = errors.New("empty name")
	ErrNameTooLong    = errors.New("name too long (max 100 characters)")
)

// IsValid reports whether the kind is one of the two known values.
func (k TransactionKind) IsValid() bool {
	return k == Income || k == Expense
}

// Signed returns the amount with the sign its kind contributes to a balance:
// +amount for income, -amount for expense.
func (t Transaction) Signed() decimal.Decimal {
	if t.Kind == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// IsInitialBalance reports whether the transaction is an initial-balance
// sentinel record.
func (t Transaction) IsInitialBalance() bool {
	return IsSentinelCategory(t.Category)
}

// IsSentinelCategory reports whether the category marks an initial-balance
// record.
func IsSentinelCategory(category string) bool {
	c := strings.ToLower(strings.TrimSpace(category))
	return c == SentinelCategoryPT || c == SentinelCategoryEN
}

func (t Transaction) Validate() error {
	if len(strings.TrimSpace(t.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(t.Title) > 200 {
		return ErrTitleTooLong
	}
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	if !t.Kind.IsValid() {
		return ErrInvalidKind
	}
	if strings.TrimSpace(t.AccountID) == "" {
		return ErrEmptyAccountID
	}
	return nil
}

func (a Account) Validate() error {
	if len(strings.TrimSpace(a.Name)) == 0 {
		return ErrEmptyName
	}
	if len(a.Name) > 100 {
		return ErrNameTooLong
	}
	return nil
}
