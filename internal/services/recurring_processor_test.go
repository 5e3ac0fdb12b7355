package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
)

func monthlyRentDef() core.RecurringDefinition {
	return core.RecurringDefinition{
		ID:             "rec-rent",
		UserID:         "user-1",
		Type:           core.Expense,
		Category:       "Rent",
		Amount:         decimal.RequireFromString("1200"),
		Description:    "Monthly rent",
		Frequency:      core.Monthly,
		StartDate:      core.NewDate(2025, 1, 1),
		EndDate:        core.NewDate(2025, 2, 15),
		NextOccurrence: core.NewDate(2025, 1, 1),
		Active:         true,
	}
}

func TestProcessDue_MaterializesAndAdvances(t *testing.T) {
	store := newFakeStore()
	store.recurring["rec-rent"] = monthlyRentDef()
	publisher := &fakePublisher{}
	processor := NewRecurringProcessor(store, publisher)

	now := time.Date(2025, 1, 1, 6, 0, 0, 0, time.UTC)
	count, err := processor.ProcessDue(context.Background(), now)
	if err != nil {
		t.Fatalf("ProcessDue() error = %v", err)
	}
	if count != 1 {
		t.Fatalf("materialized = %d, want 1", count)
	}

	if len(store.transactions) != 1 {
		t.Fatalf("got %d transactions, want 1", len(store.transactions))
	}
	tx := store.transactions[0]
	if !tx.Date.Equal(core.NewDate(2025, 1, 1).Time) {
		t.Errorf("transaction date = %s, want 2025-01-01", tx.Date)
	}

	updated := store.recurring["rec-rent"]
	if !updated.NextOccurrence.Equal(core.NewDate(2025, 2, 1).Time) {
		t.Errorf("NextOccurrence = %s, want 2025-02-01", updated.NextOccurrence)
	}
	if !updated.Active {
		t.Error("definition retired too early")
	}

	if len(publisher.published) != 1 {
		t.Fatalf("got %d events, want 1", len(publisher.published))
	}
	if publisher.published[0].Source != amqp.SourceRecurring {
		t.Errorf("event source = %s, want recurring", publisher.published[0].Source)
	}
}

func TestProcessDue_RetiresPastEndDate(t *testing.T) {
	store := newFakeStore()
	def := monthlyRentDef()
	def.NextOccurrence = core.NewDate(2025, 2, 1)
	def.LastProcessed = core.NewDate(2025, 1, 1)
	store.recurring["rec-rent"] = def
	processor := NewRecurringProcessor(store, nil)

	now := time.Date(2025, 2, 1, 6, 0, 0, 0, time.UTC)
	count, err := processor.ProcessDue(context.Background(), now)
	if err != nil {
		t.Fatalf("ProcessDue() error = %v", err)
	}
	if count != 1 {
		t.Fatalf("materialized = %d, want 1", count)
	}

	updated := store.recurring["rec-rent"]
	if updated.Active {
		t.Error("definition should be retired: candidate 2025-03-01 passes end date 2025-02-15")
	}
	// The final occurrence itself was still materialized.
	if len(store.transactions) != 1 || !store.transactions[0].Date.Equal(core.NewDate(2025, 2, 1).Time) {
		t.Errorf("final occurrence not materialized correctly: %+v", store.transactions)
	}
}

// Two processors racing on the same unmodified definition must materialize
// exactly one transaction: the compare-and-swap advance claims the occurrence
// before any write, so the loser sees the stale next occurrence and skips.
func TestProcessOne_DoubleProcessingGuard(t *testing.T) {
	store := newFakeStore()
	def := monthlyRentDef()
	store.recurring["rec-rent"] = def
	processor := NewRecurringProcessor(store, nil)

	first, err := processor.processOne(context.Background(), def)
	if err != nil {
		t.Fatalf("first processOne() error = %v", err)
	}
	if !first {
		t.Fatal("first cycle should materialize")
	}

	// Same stale snapshot again, as a concurrent worker would hold.
	second, err := processor.processOne(context.Background(), def)
	if err != nil {
		t.Fatalf("second processOne() error = %v", err)
	}
	if second {
		t.Error("second cycle materialized despite the stale snapshot")
	}

	if len(store.transactions) != 1 {
		t.Errorf("got %d transactions, want exactly 1", len(store.transactions))
	}
	if len(store.advanceLog) != 1 {
		t.Errorf("got %d advances, want exactly 1", len(store.advanceLog))
	}
}

func TestProcessDue_SkipsNotYetDue(t *testing.T) {
	store := newFakeStore()
	def := monthlyRentDef()
	def.NextOccurrence = core.NewDate(2025, 6, 1)
	def.EndDate = core.Date{}
	store.recurring["rec-rent"] = def
	processor := NewRecurringProcessor(store, nil)

	now := time.Date(2025, 3, 15, 6, 0, 0, 0, time.UTC)
	count, err := processor.ProcessDue(context.Background(), now)
	if err != nil {
		t.Fatalf("ProcessDue() error = %v", err)
	}
	if count != 0 {
		t.Errorf("materialized = %d, want 0", count)
	}
	if len(store.transactions) != 0 {
		t.Errorf("got %d transactions, want 0", len(store.transactions))
	}
}

func TestProcessDue_PublishFailureDoesNotFailBatch(t *testing.T) {
	store := newFakeStore()
	store.recurring["rec-rent"] = monthlyRentDef()
	processor := NewRecurringProcessor(store, &fakePublisher{fail: true})

	now := time.Date(2025, 1, 1, 6, 0, 0, 0, time.UTC)
	count, err := processor.ProcessDue(context.Background(), now)
	if err != nil {
		t.Fatalf("ProcessDue() error = %v", err)
	}
	if count != 1 {
		t.Errorf("materialized = %d, want 1 despite publish failure", count)
	}
}
