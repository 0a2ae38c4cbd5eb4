package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fullbalance/internal/core"
)

// The reference scenario: an initial balance of 1000, one expense of 200 in
// January and one income of 500 in February.
func scenarioTransactions() []core.Transaction {
	return []core.Transaction{
		tx("salário", 500, core.Income, "salário", "acc-1", date(2024, 2, 1)),
		tx("mercado", 200, core.Expense, "alimentação", "acc-1", date(2024, 1, 15)),
		tx("abertura", 1000, core.Income, "saldo inicial", "acc-1", date(2024, 1, 1)),
	}
}

func TestComputeStatsScenario(t *testing.T) {
	txs := scenarioTransactions()
	periodEnd := date(2024, 2, 28)

	s := ComputeStats(txs, txs, periodEnd)

	if !s.Balance.Equal(decimal.NewFromInt(1300)) {
		t.Fatalf("balance: expected 1300, got %s", s.Balance)
	}
	if !s.TotalIncome.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("income: expected 500, got %s", s.TotalIncome)
	}
	if !s.TotalExpense.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expense: expected 200, got %s", s.TotalExpense)
	}
	if s.Count != 2 {
		t.Fatalf("count: expected 2, got %d", s.Count)
	}
	if !s.InitialBalance.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("initial balance: expected 1000, got %s", s.InitialBalance)
	}
}

func TestComputeStatsBalanceIgnoresFilters(t *testing.T) {
	all := scenarioTransactions()
	// Filter down to expenses only; the running balance must still fold
	// over the whole list.
	filtered := Apply(all, Criteria{Kind: "expense"})

	s := ComputeStats(all, filtered, date(2024, 12, 31))

	if !s.Balance.Equal(decimal.NewFromInt(1300)) {
		t.Fatalf("balance must ignore kind filter: expected 1300, got %s", s.Balance)
	}
	if !s.TotalIncome.IsZero() {
		t.Fatalf("filtered income: expected 0, got %s", s.TotalIncome)
	}
	if !s.TotalExpense.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("filtered expense: expected 200, got %s", s.TotalExpense)
	}
	if s.Count != 1 {
		t.Fatalf("count: expected 1, got %d", s.Count)
	}
}

func TestComputeStatsPeriodEndCutoff(t *testing.T) {
	all := scenarioTransactions()
	// Cut off before the February income lands.
	s := ComputeStats(all, all, date(2024, 1, 31))
	if !s.Balance.Equal(decimal.NewFromInt(800)) {
		t.Fatalf("balance at jan 31: expected 800, got %s", s.Balance)
	}
}

func TestComputeStatsZeroPeriodEndDefaultsToNow(t *testing.T) {
	all := scenarioTransactions()
	s := ComputeStats(all, all, time.Time{})
	if !s.Balance.Equal(decimal.NewFromInt(1300)) {
		t.Fatalf("balance with default cutoff: expected 1300, got %s", s.Balance)
	}
}

func TestComputeStatsNoSentinel(t *testing.T) {
	txs := []core.Transaction{
		tx("mercado", 200, core.Expense, "alimentação", "acc-1", date(2024, 1, 15)),
	}
	s := ComputeStats(txs, txs, date(2024, 2, 1))
	if !s.InitialBalance.IsZero() {
		t.Fatalf("initial balance without sentinel: expected 0, got %s", s.InitialBalance)
	}
}

func TestComputeAccountBalances(t *testing.T) {
	txs := []core.Transaction{
		tx("salário", 500, core.Income, "salário", "acc-1", date(2024, 2, 1)),
		tx("mercado", 200, core.Expense, "alimentação", "acc-2", date(2024, 1, 15)),
		tx("luz", 50, core.Expense, "casa", "acc-1", date(2024, 1, 20)),
	}
	accounts := []core.Account{
		{ID: "acc-1", Name: "Banco", Color: "#3b82f6"},
		{ID: "acc-2", Name: "Carteira", Color: "#f59e0b"},
		{ID: "acc-3", Name: "Poupança", Color: "#10b981"},
	}

	got := ComputeAccountBalances(txs, accounts)

	if len(got) != 2 {
		t.Fatalf("accounts with no filtered transactions must be omitted, got %d entries", len(got))
	}
	if got[0].AccountID != "acc-1" || !got[0].Balance.Equal(decimal.NewFromInt(450)) {
		t.Fatalf("acc-1: expected balance 450, got %s (%s)", got[0].Balance, got[0].AccountID)
	}
	if got[0].Name != "Banco" || got[0].Color != "#3b82f6" {
		t.Fatalf("acc-1 metadata join failed: %+v", got[0])
	}
	if got[1].AccountID != "acc-2" || !got[1].Balance.Equal(decimal.NewFromInt(-200)) {
		t.Fatalf("acc-2: expected balance -200, got %s", got[1].Balance)
	}
}

// Sum of per-account balances must equal the running balance folded over the
// same transactions.
func TestAccountBalancesSumConsistency(t *testing.T) {
	txs := scenarioTransactions()
	txs = append(txs,
		tx("luz", 75, core.Expense, "casa", "acc-2", date(2024, 1, 20)),
		tx("extra", 120, core.Income, "freela", "acc-2", date(2024, 2, 10)),
	)
	accounts := []core.Account{{ID: "acc-1", Name: "Banco"}, {ID: "acc-2", Name: "Carteira"}}

	perAccount := ComputeAccountBalances(txs, accounts)
	sum := decimal.Zero
	for _, ab := range perAccount {
		sum = sum.Add(ab.Balance)
	}

	total := decimal.Zero
	for _, tc := range txs {
		total = total.Add(tc.Signed())
	}

	if !sum.Equal(total) {
		t.Fatalf("per-account sum %s != aggregate fold %s", sum, total)
	}
}

// Deleting an account must not crash the aggregation; the dangling reference
// resolves to the placeholder name.
func TestAccountBalancesDanglingAccount(t *testing.T) {
	txs := []core.Transaction{
		tx("mercado", 200, core.Expense, "alimentação", "acc-gone", date(2024, 1, 15)),
	}

	got := ComputeAccountBalances(txs, nil)

	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	if got[0].Name != UnknownAccountName || got[0].Color != UnknownAccountColor {
		t.Fatalf("expected placeholder metadata, got %+v", got[0])
	}
	if !got[0].Balance.Equal(decimal.NewFromInt(-200)) {
		t.Fatalf("expected balance -200, got %s", got[0].Balance)
	}
}

func TestLatestSkipsSentinel(t *testing.T) {
	txs := scenarioTransactions()
	got := Latest(txs, 5)
	if len(got) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(got))
	}
	for _, g := range got {
		if g.IsInitialBalance() {
			t.Fatal("sentinel record leaked into latest list")
		}
	}
	if got[0].ID != "salário" {
		t.Fatalf("expected most recent first, got %s", got[0].ID)
	}

	if got := Latest(txs, 1); len(got) != 1 {
		t.Fatalf("expected cap at 1, got %d", len(got))
	}
}
