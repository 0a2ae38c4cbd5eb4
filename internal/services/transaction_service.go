package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"fullbalance/internal/amqp"
	"fullbalance/internal/core"
	"fullbalance/internal/storage"
	"fullbalance/internal/stream"
)

// ErrUnauthenticated is returned when an operation arrives without an owner.
// Callers must reject such requests before any storage access happens.
var ErrUnauthenticated = errors.New("missing owner id")

// TransactionService orchestrates transaction writes across SQLite, the AMQP
// event stream and the in-process snapshot hub.
type TransactionService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
	hub        *stream.Hub
}

func NewTransactionService(storage *storage.SQLiteRepository, amqpClient *amqp.Client, hub *stream.Hub) *TransactionService {
	return &TransactionService{
		storage:    storage,
		amqpClient: amqpClient,
		hub:        hub,
	}
}

// Create validates and saves a transaction, then notifies listeners. The
// AMQP publish is best effort: a broker outage never fails the request.
func (s *TransactionService) Create(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if t.OwnerID == "" {
		return core.Transaction{}, ErrUnauthenticated
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	if err := s.storage.CreateTransaction(ctx, t); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.publishEvent(ctx, amqp.EventCreated, t.ID, t.OwnerID)
	s.refreshSnapshot(ctx, t.OwnerID)

	return t, nil
}

// Update replaces an existing transaction owned by the same user.
func (s *TransactionService) Update(ctx context.Context, t core.Transaction) error {
	if t.OwnerID == "" {
		return ErrUnauthenticated
	}
	if t.ID == "" {
		return errors.New("missing transaction id")
	}
	if err := t.Validate(); err != nil {
		return err
	}

	if err := s.storage.UpdateTransaction(ctx, t); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}

	s.publishEvent(ctx, amqp.EventUpdated, t.ID, t.OwnerID)
	s.refreshSnapshot(ctx, t.OwnerID)

	return nil
}

// Delete removes a transaction owned by the given user.
func (s *TransactionService) Delete(ctx context.Context, ownerID, id string) error {
	if ownerID == "" {
		return ErrUnauthenticated
	}

	if err := s.storage.DeleteTransaction(ctx, ownerID, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.publishEvent(ctx, amqp.EventDeleted, id, ownerID)
	s.refreshSnapshot(ctx, ownerID)

	return nil
}

func (s *TransactionService) Get(ctx context.Context, ownerID, id string) (core.Transaction, error) {
	if ownerID == "" {
		return core.Transaction{}, ErrUnauthenticated
	}
	return s.storage.GetTransaction(ctx, ownerID, id)
}

// List returns all transactions for the owner, newest first.
func (s *TransactionService) List(ctx context.Context, ownerID string) ([]core.Transaction, error) {
	if ownerID == "" {
		return nil, ErrUnauthenticated
	}
	return s.storage.ListTransactions(ctx, ownerID)
}

func (s *TransactionService) publishEvent(ctx context.Context, eventType, id, ownerID string) {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping event publish")
		return
	}

	event := amqp.NewTransactionEvent(eventType, id, ownerID)
	if err := s.amqpClient.PublishTransactionEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"type", eventType, "id", id, "error", err)
		// Don't fail the request, the local write already succeeded
	}
}

// refreshSnapshot pushes a fresh full snapshot to every stream subscriber of
// the owner. Derived views recompute from scratch on each snapshot.
func (s *TransactionService) refreshSnapshot(ctx context.Context, ownerID string) {
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

// Close closes both storage and AMQP connections.
func (s *TransactionService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close transaction service: %v", errs)
	}

	return nil
}
