package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"fullbalance/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// DefaultThemeColor is the theme color an owner gets before customizing it.
const DefaultThemeColor = "#6d28d9"

// SQLiteRepository persists transactions, accounts and per-owner settings.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateTransaction inserts a transaction.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, owner_id, title, amount, date, kind, category, account_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.OwnerID, t.Title, t.Amount.StringFixed(2), t.Date.UTC(), string(t.Kind), t.Category, t.AccountID)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"transaction_id", t.ID,
		"owner_id", t.OwnerID,
		"kind", t.Kind,
		"amount", t.Amount.StringFixed(2))
	return nil
}

// UpdateTransaction replaces the mutable fields of an owner's transaction.
// The sync marker is cleared so the backup worker mirrors the new values.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions
		 SET title = ?, amount = ?, date = ?, kind = ?, category = ?, account_id = ?, synced_at = NULL
		 WHERE id = ? AND owner_id = ?`,
		t.Title, t.Amount.StringFixed(2), t.Date.UTC(), string(t.Kind), t.Category, t.AccountID,
		t.ID, t.OwnerID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(res)
}

// DeleteTransaction removes an owner's transaction.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res)
}

// GetTransaction fetches a single transaction by id.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, ownerID, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, title, amount, date, kind, category, account_id
		 FROM transactions WHERE id = ? AND owner_id = ?`, id, ownerID)
	return scanTransaction(row)
}

// ListTransactions returns all of an owner's transactions ordered by date
// descending, the order every derived view expects upstream.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, ownerID string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, title, amount, date, kind, category, account_id
		 FROM transactions WHERE owner_id = ?
		 ORDER BY date DESC, created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// CreateAccount inserts an account.
func (r *SQLiteRepository) CreateAccount(ctx context.Context, a core.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, owner_id, name, color) VALUES (?, ?, ?, ?)`,
		a.ID, a.OwnerID, a.Name, a.Color)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}

	slog.InfoContext(ctx, "Account saved", "account_id", a.ID, "owner_id", a.OwnerID)
	return nil
}

// DeleteAccount removes an owner's account. Transactions referencing it are
// deliberately left in place; their lookups resolve to a placeholder.
func (r *SQLiteRepository) DeleteAccount(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM accounts WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return requireRow(res)
}

// ListAccounts returns an owner's accounts ordered by name.
func (r *SQLiteRepository) ListAccounts(ctx context.Context, ownerID string) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, name, color FROM accounts
		 WHERE owner_id = ? ORDER BY name ASC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []core.Account
	for rows.Next() {
		var a core.Account
		if err := rows.Scan(&a.ID, &a.OwnerID, &a.Name, &a.Color); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListUnsynced returns transactions not yet mirrored to the backup sheet,
// oldest first. Used by the worker to recover from missed AMQP messages.
func (r *SQLiteRepository) ListUnsynced(ctx context.Context, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, title, amount, date, kind, category, account_id
		 FROM transactions WHERE synced_at IS NULL
		 ORDER BY created_at ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list unsynced transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// MarkSynced records that a transaction has been mirrored.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET synced_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}
	return nil
}

// GetThemeColor returns the owner's theme color, falling back to the default
// when the owner has never customized it.
func (r *SQLiteRepository) GetThemeColor(ctx context.Context, ownerID string) (string, error) {
	var color string
	err := r.db.QueryRowContext(ctx,
		`SELECT theme_color FROM settings WHERE owner_id = ?`, ownerID).Scan(&color)
	if err == sql.ErrNoRows {
		return DefaultThemeColor, nil
	}
	if err != nil {
		return "", fmt.Errorf("get theme color: %w", err)
	}
	return color, nil
}

// SetThemeColor stores the owner's theme color.
func (r *SQLiteRepository) SetThemeColor(ctx context.Context, ownerID, color string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO settings (owner_id, theme_color, updated_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(owner_id) DO UPDATE SET theme_color = excluded.theme_color, updated_at = CURRENT_TIMESTAMP`,
		ownerID, color)
	if err != nil {
		return fmt.Errorf("set theme color: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t      core.Transaction
		amount string
		kind   string
		date   time.Time
	)
	err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &amount, &date, &kind, &t.Category, &t.AccountID)
	if err == sql.ErrNoRows {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}

	t.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse stored amount %q: %w", amount, err)
	}
	t.Date = date
	t.Kind = core.TransactionKind(kind)
	return t, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
