// Package reports dispatches saved report definitions to the aggregation and
// budget evaluation functions.
package reports

import (
	"errors"
	"fmt"
	"time"

	"fintrack/internal/analytics"
	"fintrack/internal/budget"
	"fintrack/internal/core"
)

// ErrUnsupportedReportType is returned when a definition carries a report
// type the executor does not know how to run.
var ErrUnsupportedReportType = errors.New("unsupported report type")

// Result holds the output of one report execution. Exactly one field is
// populated, matching the definition's report type.
type Result struct {
	Type            core.ReportType
	IncomeVsExpense *core.IncomeVsExpense
	Categories      []core.CategoryAnalysis
	Trends          []core.TimeTrend
	Budgets         []core.BudgetPerformance
}

// Execute runs a report definition over the transactions already fetched for
// its date range. Budgets are only consulted for budget reports; now supplies
// the evaluation moment for budget windows.
func Execute(def core.ReportDefinition, txs []core.Transaction, budgets []core.Budget, now time.Time) (*Result, error) {
	switch def.Type {
	case core.ReportIncomeExpense:
		summary := analytics.IncomeVsExpense(txs)
		return &Result{Type: def.Type, IncomeVsExpense: &summary}, nil

	case core.ReportCategory:
		return &Result{Type: def.Type, Categories: analytics.CategoryAnalysis(txs)}, nil

	case core.ReportTrend:
		grouping := def.Grouping
		if grouping == "" {
			grouping = core.GroupByDay
		}
		trends, err := analytics.TimeTrends(txs, grouping)
		if err != nil {
			return nil, fmt.Errorf("trend report: %w", err)
		}
		return &Result{Type: def.Type, Trends: trends}, nil

	case core.ReportBudget:
		perfs, err := budget.EvaluateAll(budgets, txs, now)
		if err != nil {
			return nil, fmt.Errorf("budget report: %w", err)
		}
		return &Result{Type: def.Type, Budgets: perfs}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedReportType, def.Type)
	}
}
