// Package export serializes filtered transaction sets into downloadable
// CSV reports. The format targets pt-BR spreadsheet software: semicolon
// delimited fields, comma as decimal separator, UTF-8 with a leading BOM.
package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"time"

	"fullbalance/internal/core"
)

// ErrNoTransactions is returned when the filtered set is empty. No report
// file is produced in that case.
var ErrNoTransactions = errors.New("no transactions match the selected filters")

var csvHeader = []string{
	"ID da Transação",
	"Título",
	"Valor",
	"Tipo",
	"Categoria",
	"Data",
	"ID da Conta",
	"Nome da Conta",
}

const (
	labelIncome          = "Entrada"
	labelExpense         = "Saída"
	unknownAccountLabel  = "N/A"
	reportDateLayout     = "02/01/2006"
	reportFilenameLayout = "2006-01-02"
)

// TransactionsCSV renders the filtered transactions as a CSV document.
// Account names are joined by ID; transactions whose account no longer
// exists get the "N/A" fallback instead of failing.
func TransactionsCSV(txs []core.Transaction, accounts []core.Account) ([]byte, error) {
	if len(txs) == 0 {
		return nil, ErrNoTransactions
	}

	names := make(map[string]string, len(accounts))
	for _, a := range accounts {
		names[a.ID] = a.Name
	}

	var buf bytes.Buffer
	buf.WriteString("\ufeff")

	w := csv.NewWriter(&buf)
	w.Comma = ';'

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, t := range txs {
		name, ok := names[t.AccountID]
		if !ok || name == "" {
			name = unknownAccountLabel
		}

		record := []string{
			t.ID,
			t.Title,
			core.FormatAmount(t.Amount),
			kindLabel(t.Kind),
			t.Category,
			t.Date.Format(reportDateLayout),
			t.AccountID,
			name,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	return buf.Bytes(), nil
}

// ReportFilename builds the download name for a report generated at the
// given instant, e.g. relatorio_fullbalance_2024-03-01.csv.
func ReportFilename(now time.Time) string {
	return fmt.Sprintf("relatorio_fullbalance_%s.csv", now.Format(reportFilenameLayout))
}

func kindLabel(k core.TransactionKind) string {
	if k == core.Income {
		return labelIncome
	}
	return labelExpense
}
