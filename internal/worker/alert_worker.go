// Package worker consumes transaction events and raises budget alerts when a
// category approaches or exceeds its limit.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/budget"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// AlertStore is the storage surface the alert worker needs.
type AlertStore interface {
	ListBudgets(ctx context.Context, userID string, period core.BudgetPeriod) ([]core.Budget, error)
	ListTransactions(ctx context.Context, userID string, dateRange core.DateRange, filter storage.TransactionFilter) ([]core.Transaction, error)
}

// AlertWorker re-evaluates a user's budgets whenever one of their
// transactions lands, and logs near/over alerts.
type AlertWorker struct {
	store AlertStore
	now   func() time.Time
}

func NewAlertWorker(store AlertStore) *AlertWorker {
	return &AlertWorker{
		store: store,
		now:   time.Now,
	}
}

// HandleTransactionCreated processes one transaction event. Income events and
// categories without budgets are ignored. Evaluation failures are returned so
// the broker redelivers the event.
func (w *AlertWorker) HandleTransactionCreated(ctx context.Context, msg *amqp.TransactionCreatedMessage) error {
	if msg.Type != string(core.Expense) {
		return nil
	}

	budgets, err := w.store.ListBudgets(ctx, msg.UserID, "")
	if err != nil {
		return fmt.Errorf("list budgets: %w", err)
	}

	now := w.now()
	for _, b := range budgets {
		if b.Category != msg.Category {
			continue
		}

		perf, err := w.evaluateBudget(ctx, b, now)
		if err != nil {
			return fmt.Errorf("evaluate budget %s: %w", b.ID, err)
		}

		switch perf.Status {
		case core.StatusOver:
			slog.ErrorContext(ctx, "Budget exceeded",
				"user_id", b.UserID,
				"budget_id", b.ID,
				"category", b.Category,
				"spent", perf.SpentAmount.String(),
				"limit", perf.BudgetAmount.String(),
				"percentage_used", perf.PercentageUsed)
		case core.StatusNear:
			slog.WarnContext(ctx, "Budget nearly exhausted",
				"user_id", b.UserID,
				"budget_id", b.ID,
				"category", b.Category,
				"spent", perf.SpentAmount.String(),
				"limit", perf.BudgetAmount.String(),
				"percentage_used", perf.PercentageUsed)
		default:
			slog.DebugContext(ctx, "Budget within limits",
				"budget_id", b.ID,
				"percentage_used", perf.PercentageUsed)
		}
	}

	return nil
}

func (w *AlertWorker) evaluateBudget(ctx context.Context, b core.Budget, now time.Time) (core.BudgetPerformance, error) {
	window, err := budget.EvaluationWindow(b.Period, now)
	if err != nil {
		return core.BudgetPerformance{}, err
	}

	txs, err := w.store.ListTransactions(ctx, b.UserID, window, storage.TransactionFilter{
		Category: b.Category,
		Type:     core.Expense,
	})
	if err != nil {
		return core.BudgetPerformance{}, fmt.Errorf("list window transactions: %w", err)
	}

	return budget.Evaluate(b, txs, now)
}
