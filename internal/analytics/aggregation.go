// Package analytics reduces already-fetched transaction records into summary
// statistics: income-vs-expense totals, per-category breakdowns, and
// date-bucketed trends. All functions are pure and safe for concurrent use.
package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// IncomeVsExpense sums amounts by transaction type. An empty input yields an
// all-zero result.
func IncomeVsExpense(txs []core.Transaction) core.IncomeVsExpense {
	var result core.IncomeVsExpense
	for _, tx := range txs {
		switch tx.Type {
		case core.Income:
			result.Income = result.Income.Add(tx.Amount)
			result.IncomeCount++
		case core.Expense:
			result.Expense = result.Expense.Add(tx.Amount)
			result.ExpenseCount++
		}
	}
	result.Net = result.Income.Sub(result.Expense)
	return result
}

// CategoryAnalysis groups transactions by exact category string and computes
// per-category totals and share-of-total percentages.
//
// Grouping is literal: case, whitespace and any prefix characters all matter.
// The percentage base is the gross sum of every amount in the input (income
// and expense combined, no netting); when that base is zero every percentage
// is zero. The result is sorted descending by total amount, with category
// name as a deterministic tiebreaker.
func CategoryAnalysis(txs []core.Transaction) []core.CategoryAnalysis {
	groups := make(map[string]*core.CategoryAnalysis)
	grandTotal := decimal.Zero

	for _, tx := range txs {
		g, ok := groups[tx.Category]
		if !ok {
			g = &core.CategoryAnalysis{Category: tx.Category}
			groups[tx.Category] = g
		}
		switch tx.Type {
		case core.Income:
			g.IncomeAmount = g.IncomeAmount.Add(tx.Amount)
		case core.Expense:
			g.ExpenseAmount = g.ExpenseAmount.Add(tx.Amount)
		default:
			continue
		}
		g.TransactionCount++
		grandTotal = grandTotal.Add(tx.Amount)
	}

	result := make([]core.CategoryAnalysis, 0, len(groups))
	for _, g := range groups {
		g.TotalAmount = g.IncomeAmount.Add(g.ExpenseAmount)
		g.Type = categoryKind(g.IncomeAmount, g.ExpenseAmount)
		if grandTotal.IsPositive() {
			g.Percentage, _ = g.TotalAmount.Div(grandTotal).Mul(decimal.NewFromInt(100)).Float64()
		}
		result = append(result, *g)
	}

	sort.Slice(result, func(i, j int) bool {
		cmp := result[i].TotalAmount.Cmp(result[j].TotalAmount)
		if cmp != 0 {
			return cmp > 0
		}
		return result[i].Category < result[j].Category
	})

	return result
}

func categoryKind(income, expense decimal.Decimal) core.CategoryKind {
	switch {
	case income.IsPositive() && expense.IsPositive():
		return core.CategoryMixed
	case income.IsPositive():
		return core.CategoryIncome
	default:
		return core.CategoryExpense
	}
}

// TimeTrends buckets transactions by calendar period and computes per-bucket
// income/expense/net totals. Buckets with no transactions are omitted; the
// result is sparse and sorted ascending by bucket date.
//
// Bucket keys: day uses the transaction's own date, week the Sunday on or
// before it, month the first day of its month, year January 1st of its year.
func TimeTrends(txs []core.Transaction, groupBy core.Grouping) ([]core.TimeTrend, error) {
	if err := groupBy.Validate(); err != nil {
		return nil, err
	}

	buckets := make(map[core.Date]*core.TimeTrend)
	for _, tx := range txs {
		key := bucketKey(tx.Date, groupBy)
		b, ok := buckets[key]
		if !ok {
			b = &core.TimeTrend{Date: key}
			buckets[key] = b
		}
		switch tx.Type {
		case core.Income:
			b.Income = b.Income.Add(tx.Amount)
		case core.Expense:
			b.Expense = b.Expense.Add(tx.Amount)
		default:
			continue
		}
		b.TransactionCount++
	}

	result := make([]core.TimeTrend, 0, len(buckets))
	for _, b := range buckets {
		b.Net = b.Income.Sub(b.Expense)
		result = append(result, *b)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Time.Before(result[j].Date.Time)
	})

	return result, nil
}

// bucketKey normalizes a transaction date to its bucket anchor.
func bucketKey(d core.Date, groupBy core.Grouping) core.Date {
	switch groupBy {
	case core.GroupByWeek:
		// Sunday-anchored week: step back to the Sunday on or before the date.
		return core.Date{Time: d.AddDate(0, 0, -int(d.Weekday()))}
	case core.GroupByMonth:
		return core.NewDate(d.Year(), int(d.Month()), 1)
	case core.GroupByYear:
		return core.NewDate(d.Year(), 1, 1)
	default:
		return d
	}
}
