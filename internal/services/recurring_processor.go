package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/recurrence"
	"fintrack/internal/storage"
)

// RecurringProcessor materializes transactions from recurring definitions
// that have reached their next occurrence date.
type RecurringProcessor struct {
	store     Store
	publisher EventPublisher
}

func NewRecurringProcessor(store Store, publisher EventPublisher) *RecurringProcessor {
	return &RecurringProcessor{
		store:     store,
		publisher: publisher,
	}
}

// ProcessDue processes every due definition once. The schedule advance is a
// compare-and-swap keyed on the definition's current next occurrence and is
// applied BEFORE the transaction write: when two processors race, exactly one
// wins the swap and materializes, the loser sees ErrAlreadyProcessed and
// skips. A per-item failure is logged and does not stop the batch.
//
// Returns the number of transactions materialized.
func (p *RecurringProcessor) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	if p.store == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	today := core.DateOf(now)
	due, err := p.store.ListDueRecurringDefinitions(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("list due recurring definitions: %w", err)
	}

	slog.InfoContext(ctx, "Processing recurring definitions",
		"due", len(due),
		"processing_date", today.String())

	processed := 0
	for _, def := range due {
		if !recurrence.IsDue(def, today) {
			continue
		}

		created, err := p.processOne(ctx, def)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to process recurring definition",
				"id", def.ID,
				"category", def.Category,
				"error", err)
			continue
		}
		if !created {
			continue
		}

		processed++
		slog.InfoContext(ctx, "Materialized recurring transaction",
			"recurring_id", def.ID,
			"category", def.Category,
			"amount", def.Amount.String(),
			"frequency", def.Frequency,
			"occurrence", def.NextOccurrence.String())
	}

	slog.InfoContext(ctx, "Recurring processing complete",
		"materialized", processed,
		"total_due", len(due))

	return processed, nil
}

// processOne runs a single definition through one schedule cycle. Returns
// false without error when a concurrent processor already took this cycle.
func (p *RecurringProcessor) processOne(ctx context.Context, def core.RecurringDefinition) (bool, error) {
	result, err := recurrence.Process(def)
	if err != nil {
		return false, fmt.Errorf("compute occurrence: %w", err)
	}

	// Advance first: winning the swap claims this occurrence, so a crash
	// between advance and insert loses one materialization but can never
	// double-book it.
	if err := p.store.AdvanceRecurring(ctx, result.Updated, def.NextOccurrence); err != nil {
		if errors.Is(err, storage.ErrAlreadyProcessed) {
			slog.InfoContext(ctx, "Recurring definition already advanced, skipping",
				"id", def.ID,
				"occurrence", def.NextOccurrence.String())
			return false, nil
		}
		return false, fmt.Errorf("advance schedule: %w", err)
	}

	saved, err := p.store.CreateTransaction(ctx, result.Transaction)
	if err != nil {
		return false, fmt.Errorf("save materialized transaction: %w", err)
	}

	p.publishCreated(ctx, saved)

	return true, nil
}

func (p *RecurringProcessor) publishCreated(ctx context.Context, tx core.Transaction) {
	if p.publisher == nil {
		return
	}

	msg := amqp.NewTransactionCreatedMessage(
		tx.ID, tx.UserID, string(tx.Type), tx.Category,
		tx.Amount.String(), tx.Date.String(), amqp.SourceRecurring)
	if err := p.publisher.PublishTransactionCreated(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish materialized transaction event",
			"transaction_id", tx.ID, "error", err)
		// Continue anyway - the transaction is persisted.
	}
}
