package recurrence

import (
	"testing"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

func TestNextOccurrence_Steps(t *testing.T) {
	tests := []struct {
		name string
		date core.Date
		freq core.Frequency
		want core.Date
	}{
		{"daily", core.NewDate(2025, 3, 10), core.Daily, core.NewDate(2025, 3, 11)},
		{"daily across month end", core.NewDate(2025, 3, 31), core.Daily, core.NewDate(2025, 4, 1)},
		{"weekly", core.NewDate(2025, 3, 10), core.Weekly, core.NewDate(2025, 3, 17)},
		{"biweekly", core.NewDate(2025, 3, 10), core.Biweekly, core.NewDate(2025, 3, 24)},
		{"monthly", core.NewDate(2025, 3, 10), core.Monthly, core.NewDate(2025, 4, 10)},
		{"monthly across year end", core.NewDate(2025, 12, 15), core.Monthly, core.NewDate(2026, 1, 15)},
		{"quarterly", core.NewDate(2025, 3, 10), core.Quarterly, core.NewDate(2025, 6, 10)},
		{"quarterly across year end", core.NewDate(2025, 11, 5), core.Quarterly, core.NewDate(2026, 2, 5)},
		{"yearly", core.NewDate(2025, 3, 10), core.Yearly, core.NewDate(2026, 3, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextOccurrence(tt.date, tt.freq)
			if err != nil {
				t.Fatalf("NextOccurrence() error = %v", err)
			}
			if !got.Equal(tt.want.Time) {
				t.Errorf("NextOccurrence(%s, %s) = %s, want %s", tt.date, tt.freq, got, tt.want)
			}
		})
	}
}

func TestNextOccurrence_MonthEndClamp(t *testing.T) {
	tests := []struct {
		name string
		date core.Date
		freq core.Frequency
		want core.Date
	}{
		{"Jan 31 + 1 month clamps to Feb 28", core.NewDate(2025, 1, 31), core.Monthly, core.NewDate(2025, 2, 28)},
		{"Jan 31 + 1 month in leap year clamps to Feb 29", core.NewDate(2024, 1, 31), core.Monthly, core.NewDate(2024, 2, 29)},
		{"Mar 31 + 1 month clamps to Apr 30", core.NewDate(2025, 3, 31), core.Monthly, core.NewDate(2025, 4, 30)},
		{"Nov 30 + 3 months clamps to Feb 28", core.NewDate(2025, 11, 30), core.Quarterly, core.NewDate(2026, 2, 28)},
		{"May 31 + 3 months stays on Aug 31", core.NewDate(2025, 5, 31), core.Quarterly, core.NewDate(2025, 8, 31)},
		{"Feb 29 + 1 year clamps to Feb 28", core.NewDate(2024, 2, 29), core.Yearly, core.NewDate(2025, 2, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextOccurrence(tt.date, tt.freq)
			if err != nil {
				t.Fatalf("NextOccurrence() error = %v", err)
			}
			if !got.Equal(tt.want.Time) {
				t.Errorf("NextOccurrence(%s, %s) = %s, want %s", tt.date, tt.freq, got, tt.want)
			}
		})
	}
}

func TestNextOccurrence_StrictlyAdvances(t *testing.T) {
	frequencies := []core.Frequency{
		core.Daily, core.Weekly, core.Biweekly, core.Monthly, core.Quarterly, core.Yearly,
	}
	dates := []core.Date{
		core.NewDate(2025, 1, 1),
		core.NewDate(2025, 1, 31),
		core.NewDate(2024, 2, 29),
		core.NewDate(2025, 12, 31),
	}

	for _, freq := range frequencies {
		for _, d := range dates {
			got, err := NextOccurrence(d, freq)
			if err != nil {
				t.Fatalf("NextOccurrence(%s, %s) error = %v", d, freq, err)
			}
			if !got.AfterDate(d) {
				t.Errorf("NextOccurrence(%s, %s) = %s, not strictly after input", d, freq, got)
			}
		}
	}
}

func TestNextOccurrence_InvalidFrequency(t *testing.T) {
	if _, err := NextOccurrence(core.NewDate(2025, 1, 1), core.Frequency("hourly")); err == nil {
		t.Error("expected error for invalid frequency")
	}
}

func TestIsDue(t *testing.T) {
	today := core.NewDate(2025, 3, 15)

	tests := []struct {
		name string
		def  core.RecurringDefinition
		want bool
	}{
		{
			name: "due today",
			def:  core.RecurringDefinition{Active: true, NextOccurrence: core.NewDate(2025, 3, 15)},
			want: true,
		},
		{
			name: "overdue",
			def:  core.RecurringDefinition{Active: true, NextOccurrence: core.NewDate(2025, 3, 1)},
			want: true,
		},
		{
			name: "not yet due",
			def:  core.RecurringDefinition{Active: true, NextOccurrence: core.NewDate(2025, 3, 16)},
			want: false,
		},
		{
			name: "inactive is never due",
			def:  core.RecurringDefinition{Active: false, NextOccurrence: core.NewDate(2025, 3, 1)},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDue(tt.def, today); got != tt.want {
				t.Errorf("IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProcess_MonthlyWithEndDate(t *testing.T) {
	def := core.RecurringDefinition{
		ID:             "rec-1",
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

	// First cycle: materializes Jan 1, advances to Feb 1, stays active
	// because Feb 1 is still on or before the end date.
	first, err := Process(def)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if !first.Transaction.Date.Equal(core.NewDate(2025, 1, 1).Time) {
		t.Errorf("first transaction date = %s, want 2025-01-01", first.Transaction.Date)
	}
	if !first.Updated.NextOccurrence.Equal(core.NewDate(2025, 2, 1).Time) {
		t.Errorf("NextOccurrence = %s, want 2025-02-01", first.Updated.NextOccurrence)
	}
	if !first.Updated.LastProcessed.Equal(core.NewDate(2025, 1, 1).Time) {
		t.Errorf("LastProcessed = %s, want 2025-01-01", first.Updated.LastProcessed)
	}
	if !first.Updated.Active {
		t.Error("definition retired too early")
	}

	// Second cycle: materializes Feb 1, candidate Mar 1 passes the end date,
	// so the definition retires.
	second, err := Process(first.Updated)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if !second.Transaction.Date.Equal(core.NewDate(2025, 2, 1).Time) {
		t.Errorf("second transaction date = %s, want 2025-02-01", second.Transaction.Date)
	}
	if !second.Updated.NextOccurrence.Equal(core.NewDate(2025, 3, 1).Time) {
		t.Errorf("NextOccurrence = %s, want 2025-03-01", second.Updated.NextOccurrence)
	}
	if second.Updated.Active {
		t.Error("definition should be retired once the candidate passes the end date")
	}
}

func TestProcess_TransactionFields(t *testing.T) {
	def := core.RecurringDefinition{
		ID:             "rec-2",
		UserID:         "user-1",
		Type:           core.Income,
		Category:       "Salary",
		Amount:         decimal.RequireFromString("3000"),
		Frequency:      core.Biweekly,
		StartDate:      core.NewDate(2025, 1, 3),
		NextOccurrence: core.NewDate(2025, 1, 17),
		Active:         true,
	}

	result, err := Process(def)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	tx := result.Transaction
	if tx.Type != core.Income || tx.Category != "Salary" {
		t.Errorf("transaction type/category = %s/%s", tx.Type, tx.Category)
	}
	if !tx.Amount.Equal(def.Amount) {
		t.Errorf("amount = %s, want %s", tx.Amount, def.Amount)
	}
	if tx.Description == "" {
		t.Error("expected a default description when the template has none")
	}
	// No end date: definition never retires.
	if !result.Updated.Active {
		t.Error("definition without end date must stay active")
	}
	if !result.Updated.NextOccurrence.Equal(core.NewDate(2025, 1, 31).Time) {
		t.Errorf("NextOccurrence = %s, want 2025-01-31", result.Updated.NextOccurrence)
	}
}

func TestProcess_InvalidDefinition(t *testing.T) {
	_, err := Process(core.RecurringDefinition{Frequency: core.Frequency("sometimes")})
	if err == nil {
		t.Error("expected error for invalid frequency")
	}

	_, err = Process(core.RecurringDefinition{Frequency: core.Monthly})
	if err == nil {
		t.Error("expected error for zero next occurrence date")
	}
}
