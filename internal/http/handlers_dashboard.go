package http

import (
	"net/http"
	"time"

	"fullbalance/internal/analytics"
)

type dashboardResponse struct {
	Stats              statsView            `json:"stats"`
	Changes            changesView          `json:"changes"`
	AccountBalances    []accountBalanceView `json:"account_balances"`
	MonthlyBuckets     []bucketView         `json:"monthly_buckets"`
	MonthlySummaries   []summaryView        `json:"monthly_summaries"`
	RecentTransactions []transactionView    `json:"recent_transactions"`
}

// handleDashboard recomputes every derived view from the owner's full
// transaction set. The running balance deliberately ignores the active
// filters; only flow totals, buckets and summaries follow them.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerFromContext(r.Context())

	criteria, err := parseCriteria(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	all, err := s.transactions.List(r.Context(), ownerID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	accounts, err := s.accounts.List(r.Context(), ownerID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	filtered := analytics.Apply(all, criteria)
	stats := analytics.ComputeStats(all, filtered, criteria.End)
	changes := analytics.Changes(stats)
	balances := analytics.ComputeAccountBalances(filtered, accounts)
	buckets := analytics.ComputeMonthlyBuckets(filtered, criteria.Start, criteria.End)

	// Summaries group the full unfiltered history; filters only decide
	// whether the view is restricted to the current month.
	summaries := analytics.ComputeMonthlySummaries(all)
	if !criteria.IsActive() {
		summaries = analytics.CurrentMonthSummaries(summaries, time.Now())
	}

	recent := analytics.Latest(filtered, 5)

	writeJSON(w, http.StatusOK, dashboardResponse{
		Stats:              toStatsView(stats),
		Changes:            changesView{Balance: changes.Balance, Income: changes.Income, Expense: changes.Expense},
		AccountBalances:    toAccountBalanceViews(balances),
		MonthlyBuckets:     toBucketViews(buckets),
		MonthlySummaries:   toSummaryViews(summaries),
		RecentTransactions: toTransactionViews(recent),
	})
}
