package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"fullbalance/internal/core"
	"fullbalance/internal/storage"
	"fullbalance/internal/stream"
)

func newTestAccountService(t *testing.T) (*AccountService, *TransactionService) {
	t.Helper()

	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	hub := stream.NewHub()
	return NewAccountService(repo, hub), NewTransactionService(repo, nil, hub)
}

func TestAccountService_CreateList(t *testing.T) {
	svc, _ := newTestAccountService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, core.Account{OwnerID: "owner-1", Name: "Carteira", Color: "#ff0000"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID == "" {
		t.Error("Create should assign an ID")
	}

	// Empty color falls back to the default.
	defaulted, err := svc.Create(ctx, core.Account{OwnerID: "owner-1", Name: "Banco"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if defaulted.Color != storage.DefaultThemeColor {
		t.Errorf("color = %q, want default %q", defaulted.Color, storage.DefaultThemeColor)
	}

	list, err := svc.List(ctx, "owner-1")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(list))
	}
	if list[0].Name != "Banco" || list[1].Name != "Carteira" {
		t.Errorf("accounts should be ordered by name, got %q then %q", list[0].Name, list[1].Name)
	}
}

func TestAccountService_Create_Invalid(t *testing.T) {
	svc, _ := newTestAccountService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, core.Account{Name: "Carteira"}); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
	if _, err := svc.Create(ctx, core.Account{OwnerID: "owner-1", Name: " "}); !errors.Is(err, core.ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
	if _, err := svc.Create(ctx, core.Account{OwnerID: "owner-1", Name: "Carteira", Color: "red"}); err == nil {
		t.Error("expected error for malformed color")
	}
}

func TestAccountService_DeleteKeepsTransactions(t *testing.T) {
	svc, txSvc := newTestAccountService(t)
	ctx := context.Background()

	account, err := svc.Create(ctx, core.Account{OwnerID: "owner-1", Name: "Carteira"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tx := validTransaction("owner-1")
	tx.AccountID = account.ID
	created, err := txSvc.Create(ctx, tx)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.Delete(ctx, "owner-1", account.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	// The transaction survives with a now-dangling account reference.
	got, err := txSvc.Get(ctx, "owner-1", created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.AccountID != account.ID {
		t.Errorf("transaction account id = %q, want %q", got.AccountID, account.ID)
	}
}

func TestAccountService_ThemeColor(t *testing.T) {
	svc, _ := newTestAccountService(t)
	ctx := context.Background()

	color, err := svc.GetThemeColor(ctx, "owner-1")
	if err != nil {
		t.Fatalf("GetThemeColor() error = %v", err)
	}
	if color != storage.DefaultThemeColor {
		t.Errorf("default theme color = %q, want %q", color, storage.DefaultThemeColor)
	}

	if err := svc.SetThemeColor(ctx, "owner-1", "#123abc"); err != nil {
		t.Fatalf("SetThemeColor() error = %v", err)
	}
	color, err = svc.GetThemeColor(ctx, "owner-1")
	if err != nil {
		t.Fatalf("GetThemeColor() error = %v", err)
	}
	if color != "#123abc" {
		t.Errorf("theme color = %q, want #123abc", color)
	}

	if err := svc.SetThemeColor(ctx, "owner-1", "blue"); err == nil {
		t.Error("expected error for malformed theme color")
	}
}
