// Package budget computes spending against budget limits. Evaluation is a
// pure reduction over already-fetched expense transactions; callers supply
// the evaluation moment so results are reproducible in tests.
package budget

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// Utilization thresholds, in percent. Both boundaries are inclusive of the
// upper status: exactly 80 is near, exactly 100 is over.
const (
	nearThreshold = 80.0
	overThreshold = 100.0
)

// EvaluationWindow returns the date window a budget is measured over,
// anchored to the evaluation moment rather than the budget's start date:
// weekly budgets use the trailing 7 days, monthly the current calendar month
// to date, yearly the current calendar year to date.
//
// Anchoring to now means a weekly "spent" figure shifts every day. That
// mirrors the upstream behavior this service replaces; keeping the policy in
// one function lets it change without touching any caller.
func EvaluationWindow(period core.BudgetPeriod, now time.Time) (core.DateRange, error) {
	today := core.DateOf(now)
	switch period {
	case core.PeriodWeekly:
		return core.DateRange{
			Start: core.Date{Time: today.AddDate(0, 0, -7)},
			End:   today,
		}, nil
	case core.PeriodMonthly:
		return core.DateRange{
			Start: core.NewDate(today.Year(), int(today.Month()), 1),
			End:   today,
		}, nil
	case core.PeriodYearly:
		return core.DateRange{
			Start: core.NewDate(today.Year(), 1, 1),
			End:   today,
		}, nil
	default:
		return core.DateRange{}, core.ErrInvalidPeriod
	}
}

// Evaluate computes spent/remaining amounts and the utilization status for a
// single budget. Only expense transactions matching the budget's category and
// falling inside the evaluation window are counted; income rows and other
// categories in the input are ignored rather than treated as an error.
func Evaluate(b core.Budget, txs []core.Transaction, now time.Time) (core.BudgetPerformance, error) {
	window, err := EvaluationWindow(b.Period, now)
	if err != nil {
		return core.BudgetPerformance{}, err
	}

	spent := decimal.Zero
	for _, tx := range txs {
		if tx.Type != core.Expense || tx.Category != b.Category {
			continue
		}
		if !window.Contains(tx.Date) {
			continue
		}
		spent = spent.Add(tx.Amount)
	}

	perf := core.BudgetPerformance{
		BudgetID:        b.ID,
		Category:        b.Category,
		BudgetAmount:    b.LimitAmount,
		SpentAmount:     spent,
		RemainingAmount: b.LimitAmount.Sub(spent),
		Period:          b.Period,
	}

	if b.LimitAmount.IsPositive() {
		perf.PercentageUsed, _ = spent.Div(b.LimitAmount).Mul(decimal.NewFromInt(100)).Float64()
	}
	perf.Status = statusFor(perf.PercentageUsed)

	return perf, nil
}

// EvaluateAll evaluates every budget against the shared transaction set and
// sorts the results descending by percentage used.
func EvaluateAll(budgets []core.Budget, txs []core.Transaction, now time.Time) ([]core.BudgetPerformance, error) {
	result := make([]core.BudgetPerformance, 0, len(budgets))
	for _, b := range budgets {
		perf, err := Evaluate(b, txs, now)
		if err != nil {
			return nil, err
		}
		result = append(result, perf)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].PercentageUsed > result[j].PercentageUsed
	})

	return result, nil
}

func statusFor(percentageUsed float64) core.BudgetStatus {
	switch {
	case percentageUsed >= overThreshold:
		return core.StatusOver
	case percentageUsed >= nearThreshold:
		return core.StatusNear
	default:
		return core.StatusUnder
	}
}
