package reports

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

func sampleRange() core.DateRange {
	return core.DateRange{Start: core.NewDate(2025, 1, 1), End: core.NewDate(2025, 3, 31)}
}

func sampleTransactions() []core.Transaction {
	return []core.Transaction{
		{UserID: "user-1", Type: core.Income, Category: "Salary", Amount: decimal.RequireFromString("100"), Date: core.NewDate(2025, 3, 1)},
		{UserID: "user-1", Type: core.Expense, Category: "Food", Amount: decimal.RequireFromString("40"), Date: core.NewDate(2025, 3, 2)},
	}
}

func TestExecute_Dispatch(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	budgets := []core.Budget{
		{ID: "b-1", UserID: "user-1", Category: "Food", LimitAmount: decimal.RequireFromString("500"), Period: core.PeriodMonthly, StartDate: core.NewDate(2025, 1, 1)},
	}

	t.Run("income_expense", func(t *testing.T) {
		result, err := Execute(core.ReportDefinition{Type: core.ReportIncomeExpense, Range: sampleRange()}, sampleTransactions(), nil, now)
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if result.IncomeVsExpense == nil {
			t.Fatal("expected income vs expense payload")
		}
		if !result.IncomeVsExpense.Net.Equal(decimal.RequireFromString("60")) {
			t.Errorf("Net = %s, want 60", result.IncomeVsExpense.Net)
		}
	})

	t.Run("category", func(t *testing.T) {
		result, err := Execute(core.ReportDefinition{Type: core.ReportCategory, Range: sampleRange()}, sampleTransactions(), nil, now)
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if len(result.Categories) != 2 {
			t.Errorf("got %d categories, want 2", len(result.Categories))
		}
	})

	t.Run("trend defaults to day grouping", func(t *testing.T) {
		result, err := Execute(core.ReportDefinition{Type: core.ReportTrend, Range: sampleRange()}, sampleTransactions(), nil, now)
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if len(result.Trends) != 2 {
			t.Fatalf("got %d buckets, want 2 (one per day)", len(result.Trends))
		}
	})

	t.Run("trend honors explicit grouping", func(t *testing.T) {
		result, err := Execute(core.ReportDefinition{Type: core.ReportTrend, Range: sampleRange(), Grouping: core.GroupByMonth}, sampleTransactions(), nil, now)
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if len(result.Trends) != 1 {
			t.Errorf("got %d buckets, want 1 (single month)", len(result.Trends))
		}
	})

	t.Run("budget", func(t *testing.T) {
		result, err := Execute(core.ReportDefinition{Type: core.ReportBudget, Range: sampleRange()}, sampleTransactions(), budgets, now)
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if len(result.Budgets) != 1 {
			t.Fatalf("got %d budget rows, want 1", len(result.Budgets))
		}
		if !result.Budgets[0].SpentAmount.Equal(decimal.RequireFromString("40")) {
			t.Errorf("SpentAmount = %s, want 40", result.Budgets[0].SpentAmount)
		}
	})
}

func TestExecute_UnsupportedReportType(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	_, err := Execute(core.ReportDefinition{Type: core.ReportType("pie_chart"), Range: sampleRange()}, nil, nil, now)
	if !errors.Is(err, ErrUnsupportedReportType) {
		t.Errorf("error = %v, want ErrUnsupportedReportType", err)
	}
}
