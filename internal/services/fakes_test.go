package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// fakeStore is an in-memory Store with the same compare-and-swap semantics
// as the SQLite repository's AdvanceRecurring.
type fakeStore struct {
	transactions []core.Transaction
	budgets      []core.Budget
	recurring    map[string]core.RecurringDefinition
	reports      map[string]core.ReportDefinition

	failCreate  error
	failList    error
	listCalls   int
	advanceLog  []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		recurring: make(map[string]core.RecurringDefinition),
		reports:   make(map[string]core.ReportDefinition),
	}
}

func (f *fakeStore) CreateTransaction(_ context.Context, tx core.Transaction) (core.Transaction, error) {
	if f.failCreate != nil {
		return core.Transaction{}, f.failCreate
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	f.transactions = append(f.transactions, tx)
	return tx, nil
}

func (f *fakeStore) ListTransactions(_ context.Context, userID string, dateRange core.DateRange, filter storage.TransactionFilter) ([]core.Transaction, error) {
	f.listCalls++
	if f.failList != nil {
		return nil, f.failList
	}
	var out []core.Transaction
	for _, tx := range f.transactions {
		if tx.UserID != userID || !dateRange.Contains(tx.Date) {
			continue
		}
		if filter.Category != "" && tx.Category != filter.Category {
			continue
		}
		if filter.Type != "" && tx.Type != filter.Type {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

func (f *fakeStore) DeleteTransaction(_ context.Context, userID, id string) error {
	for i, tx := range f.transactions {
		if tx.ID == id && tx.UserID == userID {
			f.transactions = append(f.transactions[:i], f.transactions[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeStore) ListBudgets(_ context.Context, userID string, period core.BudgetPeriod) ([]core.Budget, error) {
	var out []core.Budget
	for _, b := range f.budgets {
		if b.UserID != userID {
			continue
		}
		if period != "" && b.Period != period {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeStore) ListDueRecurringDefinitions(_ context.Context, today core.Date) ([]core.RecurringDefinition, error) {
	var out []core.RecurringDefinition
	for _, def := range f.recurring {
		if def.Active && def.NextOccurrence.OnOrBefore(today) {
			out = append(out, def)
		}
	}
	return out, nil
}

func (f *fakeStore) AdvanceRecurring(_ context.Context, updated core.RecurringDefinition, expectedNext core.Date) error {
	current, ok := f.recurring[updated.ID]
	if !ok {
		return storage.ErrNotFound
	}
	if !current.NextOccurrence.Equal(expectedNext.Time) {
		return storage.ErrAlreadyProcessed
	}
	f.recurring[updated.ID] = updated
	f.advanceLog = append(f.advanceLog, fmt.Sprintf("%s@%s", updated.ID, expectedNext))
	return nil
}

func (f *fakeStore) GetReportDefinition(_ context.Context, userID, id string) (core.ReportDefinition, error) {
	def, ok := f.reports[id]
	if !ok || def.UserID != userID {
		return core.ReportDefinition{}, storage.ErrNotFound
	}
	return def, nil
}

// fakePublisher records published events and can be told to fail.
type fakePublisher struct {
	published []*amqp.TransactionCreatedMessage
	fail      bool
}

func (f *fakePublisher) PublishTransactionCreated(_ context.Context, msg *amqp.TransactionCreatedMessage) error {
	if f.fail {
		return errors.New("broker unavailable")
	}
	f.published = append(f.published, msg)
	return nil
}
