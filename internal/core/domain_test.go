package core

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-09")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.String() != "2025-03-09" {
		t.Fatalf("round trip = %s", d)
	}

	for _, bad := range []string{"", "03/09/2025", "2025-13-01", "2025-02-30"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("ParseDate(%q) = %v, want ErrInvalidDate", bad, err)
		}
	}
}

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestDateRangeValidate(t *testing.T) {
	ok := DateRange{Start: NewDate(2025, 1, 1), End: NewDate(2025, 1, 31)}
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	single := DateRange{Start: NewDate(2025, 1, 1), End: NewDate(2025, 1, 1)}
	if err := single.Validate(); err != nil {
		t.Fatalf("single-day range should be valid, got %v", err)
	}

	bads := []DateRange{
		{},
		{Start: NewDate(2025, 1, 1)},
		{Start: NewDate(2025, 2, 1), End: NewDate(2025, 1, 1)}, // inverted
	}
	for i, r := range bads {
		if err := r.Validate(); !errors.Is(err, ErrInvalidDateRange) {
			t.Fatalf("case %d = %v, want ErrInvalidDateRange", i, err)
		}
	}
}

func TestDateRangeContains(t *testing.T) {
	r := DateRange{Start: NewDate(2025, 3, 1), End: NewDate(2025, 3, 31)}

	if !r.Contains(NewDate(2025, 3, 1)) || !r.Contains(NewDate(2025, 3, 31)) {
		t.Fatal("range endpoints are inclusive")
	}
	if r.Contains(NewDate(2025, 2, 28)) || r.Contains(NewDate(2025, 4, 1)) {
		t.Fatal("dates outside the range must not be contained")
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		UserID:   "user-1",
		Type:     Expense,
		Category: "Food",
		Amount:   decimal.RequireFromString("12.50"),
		Date:     NewDate(2025, 3, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Transaction)
		want   error
	}{
		{"missing user", func(tx *Transaction) { tx.UserID = " " }, ErrMissingUser},
		{"bad type", func(tx *Transaction) { tx.Type = "transfer" }, ErrInvalidType},
		{"empty category", func(tx *Transaction) { tx.Category = "" }, ErrEmptyCategory},
		{"zero amount", func(tx *Transaction) { tx.Amount = decimal.Zero }, ErrInvalidAmount},
		{"negative amount", func(tx *Transaction) { tx.Amount = decimal.RequireFromString("-5") }, ErrInvalidAmount},
		{"zero date", func(tx *Transaction) { tx.Date = Date{} }, ErrInvalidDate},
		{"long description", func(tx *Transaction) { tx.Description = strings.Repeat("x", 201) }, ErrDescriptionTooLong},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := good
			tc.mutate(&tx)
			if err := tx.Validate(); !errors.Is(err, tc.want) {
				t.Errorf("Validate() = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestBudgetValidate(t *testing.T) {
	good := Budget{
		UserID:      "user-1",
		Category:    "Food",
		LimitAmount: decimal.RequireFromString("500"),
		Period:      PeriodMonthly,
		StartDate:   NewDate(2025, 1, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bad := good
	bad.Period = "fortnightly"
	if err := bad.Validate(); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("Validate() = %v, want ErrInvalidPeriod", err)
	}
}

func TestRecurringDefinitionValidate(t *testing.T) {
	good := RecurringDefinition{
		UserID:    "user-1",
		Type:      Expense,
		Category:  "Rent",
		Amount:    decimal.RequireFromString("900"),
		Frequency: Monthly,
		StartDate: NewDate(2025, 1, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	withEnd := good
	withEnd.EndDate = NewDate(2025, 6, 30)
	if err := withEnd.Validate(); err != nil {
		t.Fatalf("end date after start should be valid, got %v", err)
	}

	inverted := good
	inverted.EndDate = NewDate(2024, 12, 31)
	if err := inverted.Validate(); err == nil {
		t.Fatal("end date before start must be rejected")
	}

	badFreq := good
	badFreq.Frequency = "hourly"
	if err := badFreq.Validate(); !errors.Is(err, ErrInvalidFrequency) {
		t.Fatalf("Validate() = %v, want ErrInvalidFrequency", err)
	}
}

func TestReportDefinitionValidate(t *testing.T) {
	good := ReportDefinition{
		UserID: "user-1",
		Name:   "march",
		Type:   ReportTrend,
		Range:  DateRange{Start: NewDate(2025, 3, 1), End: NewDate(2025, 3, 31)},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	grouped := good
	grouped.Grouping = GroupByWeek
	if err := grouped.Validate(); err != nil {
		t.Fatalf("valid grouping rejected: %v", err)
	}

	badGroup := good
	badGroup.Grouping = "fortnight"
	if err := badGroup.Validate(); !errors.Is(err, ErrInvalidGrouping) {
		t.Fatalf("Validate() = %v, want ErrInvalidGrouping", err)
	}

	badType := good
	badType.Type = "pie_chart"
	if err := badType.Validate(); !errors.Is(err, ErrInvalidReportType) {
		t.Fatalf("Validate() = %v, want ErrInvalidReportType", err)
	}
}

func TestDateOf(t *testing.T) {
	d := DateOf(time.Date(2025, 3, 9, 23, 45, 0, 0, time.UTC))
	if d.String() != "2025-03-09" {
		t.Fatalf("DateOf = %s", d)
	}
	if d.Hour() != 0 || d.Minute() != 0 {
		t.Fatal("DateOf must truncate to midnight")
	}
}
