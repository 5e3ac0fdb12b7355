package services

import (
	"context"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// Ports for the storage and messaging dependencies the services orchestrate.
// The SQLite repository satisfies Store; the AMQP client satisfies
// EventPublisher. Keeping them as interfaces lets tests substitute fakes and
// keeps the services free of ambient global state.
type (
	Store interface {
		CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
		ListTransactions(ctx context.Context, userID string, dateRange core.DateRange, filter storage.TransactionFilter) ([]core.Transaction, error)
		DeleteTransaction(ctx context.Context, userID, id string) error

		ListBudgets(ctx context.Context, userID string, period core.BudgetPeriod) ([]core.Budget, error)

		ListDueRecurringDefinitions(ctx context.Context, today core.Date) ([]core.RecurringDefinition, error)
		AdvanceRecurring(ctx context.Context, updated core.RecurringDefinition, expectedNext core.Date) error

		GetReportDefinition(ctx context.Context, userID, id string) (core.ReportDefinition, error)
	}

	EventPublisher interface {
		PublishTransactionCreated(ctx context.Context, msg *amqp.TransactionCreatedMessage) error
	}
)
