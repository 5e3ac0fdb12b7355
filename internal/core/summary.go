package core

import "github.com/shopspring/decimal"

// CategoryKind classifies a category rollup by the transaction types it contains.
type CategoryKind string

const (
	CategoryIncome  CategoryKind = "income"
	CategoryExpense CategoryKind = "expense"
	CategoryMixed   CategoryKind = "mixed"
)

// BudgetStatus is the tri-state utilization status of a budget.
type BudgetStatus string

const (
	StatusUnder BudgetStatus = "under"
	StatusNear  BudgetStatus = "near"
	StatusOver  BudgetStatus = "over"
)

// IncomeVsExpense summarizes a transaction set by type.
type IncomeVsExpense struct {
	Income       decimal.Decimal
	Expense      decimal.Decimal
	Net          decimal.Decimal
	IncomeCount  int
	ExpenseCount int
}

// CategoryAnalysis is a per-category rollup with share-of-total percentage.
type CategoryAnalysis struct {
	Category         string
	TotalAmount      decimal.Decimal
	TransactionCount int
	Percentage       float64
	Type             CategoryKind
	IncomeAmount     decimal.Decimal
	ExpenseAmount    decimal.Decimal
}

// TimeTrend is one populated bucket of a date-bucketed rollup.
type TimeTrend struct {
	Date             Date
	Income           decimal.Decimal
	Expense          decimal.Decimal
	Net              decimal.Decimal
	TransactionCount int
}

// BudgetPerformance reports spending against a budget's limit for its
// evaluation window.
type BudgetPerformance struct {
	BudgetID        string
	Category        string
	BudgetAmount    decimal.Decimal
	SpentAmount     decimal.Decimal
	RemainingAmount decimal.Decimal
	PercentageUsed  float64
	Status          BudgetStatus
	Period          BudgetPeriod
}
