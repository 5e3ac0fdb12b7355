package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	PeriodWeekly  BudgetPeriod = "weekly"
	PeriodMonthly BudgetPeriod = "monthly"
	PeriodYearly  BudgetPeriod = "yearly"
)

const (
	Daily     Frequency = "daily"
	Weekly    Frequency = "weekly"
	Biweekly  Frequency = "biweekly"
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
	Yearly    Frequency = "yearly"
)

const (
	ReportIncomeExpense ReportType = "income_expense"
	ReportCategory      ReportType = "category"
	ReportTrend         ReportType = "trend"
	ReportBudget        ReportType = "budget"
)

const (
	GroupByDay   Grouping = "day"
	GroupByWeek  Grouping = "week"
	GroupByMonth Grouping = "month"
	GroupByYear  Grouping = "year"
)

type (
	TransactionType string
	BudgetPeriod    string
	Frequency       string
	ReportType      string
	Grouping        string

	// Date is a calendar date at day precision. The embedded time.Time is
	// always UTC midnight so that equality and ordering behave like dates.
	Date struct {
		time.Time
	}

	// DateRange is an inclusive [Start, End] calendar interval.
	DateRange struct {
		Start Date
		End   Date
	}

	Transaction struct {
		ID          string
		UserID      string
		Type        TransactionType
		Category    string
		Amount      decimal.Decimal
		Date        Date
		Description string
	}

	Budget struct {
		ID          string
		UserID      string
		Category    string
		LimitAmount decimal.Decimal
		Period      BudgetPeriod
		StartDate   Date
	}

	// RecurringDefinition is a template describing a transaction that should
	// materialize on a schedule. EndDate and LastProcessed are optional and
	// zero when unset.
	RecurringDefinition struct {
		ID             string
		UserID         string
		Type           TransactionType
		Category       string
		Amount         decimal.Decimal
		Description    string
		Frequency      Frequency
		StartDate      Date
		EndDate        Date
		NextOccurrence Date
		LastProcessed  Date
		Active         bool
	}

	ReportDefinition struct {
		ID       string
		UserID   string
		Name     string
		Type     ReportType
		Range    DateRange
		Grouping Grouping // meaningful only for trend reports; empty means day
	}
)

var (
	ErrMissingUser        = errors.New("missing user identifier")
	ErrEmptyCategory      = errors.New("empty category")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidDateRange   = errors.New("invalid date range")
	ErrInvalidType        = errors.New("invalid transaction type")
	ErrInvalidPeriod      = errors.New("invalid budget period")
	ErrInvalidFrequency   = errors.New("invalid frequency")
	ErrInvalidReportType  = errors.New("invalid report type")
	ErrInvalidGrouping    = errors.New("invalid grouping")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
)

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time.Time to its calendar date in UTC.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a date in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// IsEmpty reports whether the date is unset (for optional dates).
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// AfterDate reports whether d falls strictly after other.
func (d Date) AfterDate(other Date) bool {
	return d.Time.After(other.Time)
}

// OnOrBefore reports whether d falls on or before other.
func (d Date) OnOrBefore(other Date) bool {
	return !d.Time.After(other.Time)
}

func (r DateRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return ErrInvalidDateRange
	}
	if r.End.Time.Before(r.Start.Time) {
		return ErrInvalidDateRange
	}
	return nil
}

// Contains reports whether the date falls inside the inclusive range.
func (r DateRange) Contains(d Date) bool {
	return !d.Time.Before(r.Start.Time) && !d.Time.After(r.End.Time)
}

func (t TransactionType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidType
	}
}

func (p BudgetPeriod) Validate() error {
	switch p {
	case PeriodWeekly, PeriodMonthly, PeriodYearly:
		return nil
	default:
		return ErrInvalidPeriod
	}
}

func (f Frequency) Validate() error {
	switch f {
	case Daily, Weekly, Biweekly, Monthly, Quarterly, Yearly:
		return nil
	default:
		return ErrInvalidFrequency
	}
}

func (rt ReportType) Validate() error {
	switch rt {
	case ReportIncomeExpense, ReportCategory, ReportTrend, ReportBudget:
		return nil
	default:
		return ErrInvalidReportType
	}
}

func (g Grouping) Validate() error {
	switch g {
	case GroupByDay, GroupByWeek, GroupByMonth, GroupByYear:
		return nil
	default:
		return ErrInvalidGrouping
	}
}

// ValidAmount reports whether an amount is a usable positive value.
func ValidAmount(a decimal.Decimal) bool {
	return a.IsPositive()
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.UserID) == "" {
		return ErrMissingUser
	}
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if !ValidAmount(t.Amount) {
		return ErrInvalidAmount
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len(t.Description) > 200 {
		return ErrDescriptionTooLong
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.UserID) == "" {
		return ErrMissingUser
	}
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if !ValidAmount(b.LimitAmount) {
		return ErrInvalidAmount
	}
	if err := b.Period.Validate(); err != nil {
		return err
	}
	return b.StartDate.Validate()
}

func (rd RecurringDefinition) Validate() error {
	if strings.TrimSpace(rd.UserID) == "" {
		return ErrMissingUser
	}
	if err := rd.Type.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(rd.Category) == "" {
		return ErrEmptyCategory
	}
	if !ValidAmount(rd.Amount) {
		return ErrInvalidAmount
	}
	if err := rd.Frequency.Validate(); err != nil {
		return err
	}
	if err := rd.StartDate.Validate(); err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}
	if !rd.EndDate.IsEmpty() && rd.EndDate.Time.Before(rd.StartDate.Time) {
		return errors.New("end date must not precede start date")
	}
	if len(rd.Description) > 200 {
		return ErrDescriptionTooLong
	}
	return nil
}

func (rp ReportDefinition) Validate() error {
	if strings.TrimSpace(rp.UserID) == "" {
		return ErrMissingUser
	}
	if err := rp.Type.Validate(); err != nil {
		return err
	}
	if err := rp.Range.Validate(); err != nil {
		return err
	}
	if rp.Grouping != "" {
		return rp.Grouping.Validate()
	}
	return nil
}
