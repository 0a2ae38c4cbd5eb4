package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/google/uuid"

	"fullbalance/internal/core"
	"fullbalance/internal/storage"
	"fullbalance/internal/stream"
)

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// AccountService handles account CRUD and per-user theme settings.
type AccountService struct {
	storage *storage.SQLiteRepository
	hub     *stream.Hub
}

func NewAccountService(storage *storage.SQLiteRepository, hub *stream.Hub) *AccountService {
	return &AccountService{storage: storage, hub: hub}
}

func (s *AccountService) Create(ctx context.Context, a core.Account) (core.Account, error) {
	if a.OwnerID == "" {
		return core.Account{}, ErrUnauthenticated
	}
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}
	if a.Color != "" && !hexColorRe.MatchString(a.Color) {
		return core.Account{}, fmt.Errorf("invalid account color %q", a.Color)
	}
	if a.Color == "" {
		a.Color = storage.DefaultThemeColor
	}

	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	if err := s.storage.CreateAccount(ctx, a); err != nil {
		return core.Account{}, fmt.Errorf("save account: %w", err)
	}

	s.refreshSnapshot(ctx, a.OwnerID)

	return a, nil
}

// Delete removes an account. Transactions pointing at it are left in place
// and resolve to a fallback label afterwards.
func (s *AccountService) Delete(ctx context.Context, ownerID, id string) error {
	if ownerID == "" {
		return ErrUnauthenticated
	}

	if err := s.storage.DeleteAccount(ctx, ownerID, id); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	s.refreshSnapshot(ctx, ownerID)

	return nil
}

// List returns the owner's accounts ordered by name.
func (s *AccountService) List(ctx context.Context, ownerID string) ([]core.Account, error) {
	if ownerID == "" {
		return nil, ErrUnauthenticated
	}
	return s.storage.ListAccounts(ctx, ownerID)
}

func (s *AccountService) GetThemeColor(ctx context.Context, ownerID string) (string, error) {
	if ownerID == "" {
		return "", ErrUnauthenticated
	}
	return s.storage.GetThemeColor(ctx, ownerID)
}

func (s *AccountService) SetThemeColor(ctx context.Context, ownerID, color string) error {
	if ownerID == "" {
		return ErrUnauthenticated
	}
	if !hexColorRe.MatchString(color) {
		return fmt.Errorf("invalid theme color %q", color)
	}
	return s.storage.SetThemeColor(ctx, ownerID, color)
}

func (s *AccountService) refreshSnapshot(ctx context.Context, ownerID string) {
	if s.hub == nil || s.hub.SubscriberCount(ownerID) == 0 {
		return
	}

	txs, err := s.storage.ListTransactions(ctx, ownerID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load transactions for snapshot", "error", err)
		return
	}
	accounts, err := s.storage.ListAccounts(ctx, ownerID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load accounts for snapshot", "error", err)
		return
	}

	s.hub.Publish(ownerID, stream.Snapshot{Transactions: txs, Accounts: accounts})
}
