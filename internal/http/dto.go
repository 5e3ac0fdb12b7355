package http

import (
	"fmt"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/reports"
)

// Wire representations. Amounts travel as decimal strings and dates as
// YYYY-MM-DD so clients never see float rounding.

type transactionPayload struct {
	ID          string `json:"id,omitempty"`
	UserID      string `json:"user_id"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Description string `json:"description,omitempty"`
}

type budgetPayload struct {
	ID          string `json:"id,omitempty"`
	UserID      string `json:"user_id"`
	Category    string `json:"category"`
	LimitAmount string `json:"limit_amount"`
	Period      string `json:"period"`
	StartDate   string `json:"start_date"`
}

type recurringPayload struct {
	ID             string `json:"id,omitempty"`
	UserID         string `json:"user_id"`
	Type           string `json:"type"`
	Category       string `json:"category"`
	Amount         string `json:"amount"`
	Description    string `json:"description,omitempty"`
	Frequency      string `json:"frequency"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date,omitempty"`
	NextOccurrence string `json:"next_occurrence,omitempty"`
	LastProcessed  string `json:"last_processed,omitempty"`
	Active         bool   `json:"is_active"`
}

type reportDefinitionPayload struct {
	ID       string `json:"id,omitempty"`
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Start    string `json:"start_date"`
	End      string `json:"end_date"`
	Grouping string `json:"grouping,omitempty"`
}

type incomeVsExpensePayload struct {
	Income       string `json:"income"`
	Expense      string `json:"expense"`
	Net          string `json:"net"`
	IncomeCount  int    `json:"income_count"`
	ExpenseCount int    `json:"expense_count"`
}

type categoryPayload struct {
	Category         string  `json:"category"`
	TotalAmount      string  `json:"total_amount"`
	TransactionCount int     `json:"transaction_count"`
	Percentage       float64 `json:"percentage"`
	Type             string  `json:"type"`
	IncomeAmount     string  `json:"income_amount"`
	ExpenseAmount    string  `json:"expense_amount"`
}

type trendPayload struct {
	Date             string `json:"date"`
	Income           string `json:"income"`
	Expense          string `json:"expense"`
	Net              string `json:"net"`
	TransactionCount int    `json:"transaction_count"`
}

type budgetPerformancePayload struct {
	BudgetID        string  `json:"budget_id"`
	Category        string  `json:"category"`
	BudgetAmount    string  `json:"budget_amount"`
	SpentAmount     string  `json:"spent_amount"`
	RemainingAmount string  `json:"remaining_amount"`
	PercentageUsed  float64 `json:"percentage_used"`
	Status          string  `json:"status"`
	Period          string  `json:"period"`
}

type reportResultPayload struct {
	Type            string                     `json:"type"`
	IncomeVsExpense *incomeVsExpensePayload    `json:"income_vs_expense,omitempty"`
	Categories      []categoryPayload          `json:"categories,omitempty"`
	Trends          []trendPayload             `json:"trends,omitempty"`
	Budgets         []budgetPerformancePayload `json:"budgets,omitempty"`
}

func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", core.ErrInvalidAmount, s)
	}
	return amount, nil
}

func parseOptionalDate(s string) (core.Date, error) {
	if s == "" {
		return core.Date{}, nil
	}
	return core.ParseDate(s)
}

func (p transactionPayload) toDomain() (core.Transaction, error) {
	amount, err := parseAmount(p.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	date, err := core.ParseDate(p.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		ID:          p.ID,
		UserID:      p.UserID,
		Type:        core.TransactionType(p.Type),
		Category:    p.Category,
		Amount:      amount,
		Date:        date,
		Description: p.Description,
	}, nil
}

func transactionToPayload(tx core.Transaction) transactionPayload {
	return transactionPayload{
		ID:          tx.ID,
		UserID:      tx.UserID,
		Type:        string(tx.Type),
		Category:    tx.Category,
		Amount:      tx.Amount.String(),
		Date:        tx.Date.String(),
		Description: tx.Description,
	}
}

func (p budgetPayload) toDomain() (core.Budget, error) {
	limit, err := parseAmount(p.LimitAmount)
	if err != nil {
		return core.Budget{}, err
	}
	start, err := core.ParseDate(p.StartDate)
	if err != nil {
		return core.Budget{}, err
	}
	return core.Budget{
		ID:          p.ID,
		UserID:      p.UserID,
		Category:    p.Category,
		LimitAmount: limit,
		Period:      core.BudgetPeriod(p.Period),
		StartDate:   start,
	}, nil
}

func budgetToPayload(b core.Budget) budgetPayload {
	return budgetPayload{
		ID:          b.ID,
		UserID:      b.UserID,
		Category:    b.Category,
		LimitAmount: b.LimitAmount.String(),
		Period:      string(b.Period),
		StartDate:   b.StartDate.String(),
	}
}

func (p recurringPayload) toDomain() (core.RecurringDefinition, error) {
	amount, err := parseAmount(p.Amount)
	if err != nil {
		return core.RecurringDefinition{}, err
	}
	start, err := core.ParseDate(p.StartDate)
	if err != nil {
		return core.RecurringDefinition{}, err
	}
	end, err := parseOptionalDate(p.EndDate)
	if err != nil {
		return core.RecurringDefinition{}, err
	}
	next, err := parseOptionalDate(p.NextOccurrence)
	if err != nil {
		return core.RecurringDefinition{}, err
	}
	return core.RecurringDefinition{
		ID:             p.ID,
		UserID:         p.UserID,
		Type:           core.TransactionType(p.Type),
		Category:       p.Category,
		Amount:         amount,
		Description:    p.Description,
		Frequency:      core.Frequency(p.Frequency),
		StartDate:      start,
		EndDate:        end,
		NextOccurrence: next,
		Active:         true,
	}, nil
}

func recurringToPayload(def core.RecurringDefinition) recurringPayload {
	p := recurringPayload{
		ID:             def.ID,
		UserID:         def.UserID,
		Type:           string(def.Type),
		Category:       def.Category,
		Amount:         def.Amount.String(),
		Description:    def.Description,
		Frequency:      string(def.Frequency),
		StartDate:      def.StartDate.String(),
		NextOccurrence: def.NextOccurrence.String(),
		Active:         def.Active,
	}
	if !def.EndDate.IsEmpty() {
		p.EndDate = def.EndDate.String()
	}
	if !def.LastProcessed.IsEmpty() {
		p.LastProcessed = def.LastProcessed.String()
	}
	return p
}

func (p reportDefinitionPayload) toDomain() (core.ReportDefinition, error) {
	start, err := core.ParseDate(p.Start)
	if err != nil {
		return core.ReportDefinition{}, err
	}
	end, err := core.ParseDate(p.End)
	if err != nil {
		return core.ReportDefinition{}, err
	}
	return core.ReportDefinition{
		ID:       p.ID,
		UserID:   p.UserID,
		Name:     p.Name,
		Type:     core.ReportType(p.Type),
		Range:    core.DateRange{Start: start, End: end},
		Grouping: core.Grouping(p.Grouping),
	}, nil
}

func reportDefinitionToPayload(def core.ReportDefinition) reportDefinitionPayload {
	return reportDefinitionPayload{
		ID:       def.ID,
		UserID:   def.UserID,
		Name:     def.Name,
		Type:     string(def.Type),
		Start:    def.Range.Start.String(),
		End:      def.Range.End.String(),
		Grouping: string(def.Grouping),
	}
}

func resultToPayload(result *reports.Result) reportResultPayload {
	p := reportResultPayload{Type: string(result.Type)}

	if result.IncomeVsExpense != nil {
		p.IncomeVsExpense = &incomeVsExpensePayload{
			Income:       result.IncomeVsExpense.Income.String(),
			Expense:      result.IncomeVsExpense.Expense.String(),
			Net:          result.IncomeVsExpense.Net.String(),
			IncomeCount:  result.IncomeVsExpense.IncomeCount,
			ExpenseCount: result.IncomeVsExpense.ExpenseCount,
		}
	}
	for _, c := range result.Categories {
		p.Categories = append(p.Categories, categoryPayload{
			Category:         c.Category,
			TotalAmount:      c.TotalAmount.String(),
			TransactionCount: c.TransactionCount,
			Percentage:       c.Percentage,
			Type:             string(c.Type),
			IncomeAmount:     c.IncomeAmount.String(),
			ExpenseAmount:    c.ExpenseAmount.String(),
		})
	}
	for _, tr := range result.Trends {
		p.Trends = append(p.Trends, trendPayload{
			Date:             tr.Date.String(),
			Income:           tr.Income.String(),
			Expense:          tr.Expense.String(),
			Net:              tr.Net.String(),
			TransactionCount: tr.TransactionCount,
		})
	}
	for _, b := range result.Budgets {
		p.Budgets = append(p.Budgets, budgetPerformancePayload{
			BudgetID:        b.BudgetID,
			Category:        b.Category,
			BudgetAmount:    b.BudgetAmount.String(),
			SpentAmount:     b.SpentAmount.String(),
			RemainingAmount: b.RemainingAmount.String(),
			PercentageUsed:  b.PercentageUsed,
			Status:          string(b.Status),
			Period:          string(b.Period),
		})
	}
	return p
}
