package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// TransactionService orchestrates transaction writes across storage and the
// event bus.
type TransactionService struct {
	store     Store
	publisher EventPublisher
}

func NewTransactionService(store Store, publisher EventPublisher) *TransactionService {
	return &TransactionService{
		store:     store,
		publisher: publisher,
	}
}

// Create validates and persists a transaction, then publishes a created
// event. Publishing is best-effort: the local write is the source of truth
// and never fails because the broker is down.
func (s *TransactionService) Create(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	saved, err := s.store.CreateTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.publishCreated(ctx, saved, amqp.SourceManual)

	return saved, nil
}

// List returns a user's transactions for a date range with optional filters.
func (s *TransactionService) List(ctx context.Context, userID string, dateRange core.DateRange, filter storage.TransactionFilter) ([]core.Transaction, error) {
	if userID == "" {
		return nil, core.ErrMissingUser
	}
	if err := dateRange.Validate(); err != nil {
		return nil, err
	}
	if filter.Type != "" {
		if err := filter.Type.Validate(); err != nil {
			return nil, err
		}
	}
	return s.store.ListTransactions(ctx, userID, dateRange, filter)
}

// Delete removes a user's transaction.
func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return core.ErrMissingUser
	}
	return s.store.DeleteTransaction(ctx, userID, id)
}

func (s *TransactionService) publishCreated(ctx context.Context, tx core.Transaction, source string) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Event publisher not available, skipping created event",
			"transaction_id", tx.ID)
		return
	}

	msg := amqp.NewTransactionCreatedMessage(
		tx.ID, tx.UserID, string(tx.Type), tx.Category,
		tx.Amount.String(), tx.Date.String(), source)
	if err := s.publisher.PublishTransactionCreated(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction created event",
			"transaction_id", tx.ID, "error", err)
		// Don't fail the request - the transaction is saved locally.
	}
}
