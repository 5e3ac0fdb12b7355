// Package storage persists transactions, budgets, recurring definitions and
// saved report definitions in SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"fintrack/internal/core"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyProcessed is returned by AdvanceRecurring when the definition's
// next occurrence no longer matches the expected date, meaning another
// processor already advanced it for this cycle.
var ErrAlreadyProcessed = errors.New("recurring definition already advanced")

// StoreError wraps a storage failure while preserving the underlying error
// for errors.Is/As inspection.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

// TransactionFilter narrows ListTransactions. Zero values mean no filtering.
type TransactionFilter struct {
	Category string
	Type     core.TransactionType
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateTransaction persists a transaction, assigning an ID when absent.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, type, category, amount, date, description)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.UserID, string(tx.Type), tx.Category, tx.Amount.String(), tx.Date.String(), tx.Description)
	if err != nil {
		return core.Transaction{}, storeErr("create transaction", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", tx.ID,
		"user_id", tx.UserID,
		"type", tx.Type,
		"category", tx.Category,
		"amount", tx.Amount.String())

	return tx, nil
}

// ListTransactions returns a user's transactions inside the inclusive date
// range, newest first, optionally narrowed by category and type.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID string, dateRange core.DateRange, filter TransactionFilter) ([]core.Transaction, error) {
	query := `SELECT id, user_id, type, category, amount, date, description
	          FROM transactions
	          WHERE user_id = ? AND date >= ? AND date <= ?`
	args := []any{userID, dateRange.Start.String(), dateRange.End.String()}

	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, filter.Category)
	}
	if filter.Type != "" {
		query += " AND type = ?"
		args = append(args, string(filter.Type))
	}
	query += " ORDER BY date DESC, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("list transactions", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, storeErr("scan transaction", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list transactions", err)
	}

	return txs, nil
}

// DeleteTransaction removes a user's transaction by ID.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM transactions WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return storeErr("delete transaction", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTransaction(rows *sql.Rows) (core.Transaction, error) {
	var (
		tx                  core.Transaction
		typ, amount, date   string
	)
	if err := rows.Scan(&tx.ID, &tx.UserID, &typ, &tx.Category, &amount, &date, &tx.Description); err != nil {
		return core.Transaction{}, err
	}

	tx.Type = core.TransactionType(typ)

	var err error
	if tx.Amount, err = decimal.NewFromString(amount); err != nil {
		return core.Transaction{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	if tx.Date, err = core.ParseDate(date); err != nil {
		return core.Transaction{}, fmt.Errorf("parse date %q: %w", date, err)
	}

	return tx, nil
}

// CreateBudget persists a budget, assigning an ID when absent.
func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (id, user_id, category, limit_amount, period, start_date)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		b.ID, b.UserID, b.Category, b.LimitAmount.String(), string(b.Period), b.StartDate.String())
	if err != nil {
		return core.Budget{}, storeErr("create budget", err)
	}

	return b, nil
}

// ListBudgets returns a user's budgets, optionally filtered by period.
func (r *SQLiteRepository) ListBudgets(ctx context.Context, userID string, period core.BudgetPeriod) ([]core.Budget, error) {
	query := `SELECT id, user_id, category, limit_amount, period, start_date
	          FROM budgets WHERE user_id = ?`
	args := []any{userID}
	if period != "" {
		query += " AND period = ?"
		args = append(args, string(period))
	}
	query += " ORDER BY category"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("list budgets", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		var (
			b             core.Budget
			limit, period string
			startDate     string
		)
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &limit, &period, &startDate); err != nil {
			return nil, storeErr("scan budget", err)
		}
		b.Period = core.BudgetPeriod(period)
		if b.LimitAmount, err = decimal.NewFromString(limit); err != nil {
			return nil, storeErr("scan budget", fmt.Errorf("parse limit %q: %w", limit, err))
		}
		if b.StartDate, err = core.ParseDate(startDate); err != nil {
			return nil, storeErr("scan budget", fmt.Errorf("parse start date %q: %w", startDate, err))
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list budgets", err)
	}

	return budgets, nil
}

// DeleteBudget removes a user's budget by ID.
func (r *SQLiteRepository) DeleteBudget(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM budgets WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return storeErr("delete budget", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateRecurringDefinition persists a recurring template. The next
// occurrence defaults to the start date when unset.
func (r *SQLiteRepository) CreateRecurringDefinition(ctx context.Context, def core.RecurringDefinition) (core.RecurringDefinition, error) {
	if def.ID == "" {
		def.ID = uuid.NewString()
	}
	if def.NextOccurrence.IsEmpty() {
		def.NextOccurrence = def.StartDate
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO recurring_definitions
		 (id, user_id, type, category, amount, description, frequency,
		  start_date, end_date, next_occurrence, last_processed, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		def.ID, def.UserID, string(def.Type), def.Category, def.Amount.String(),
		def.Description, string(def.Frequency), def.StartDate.String(),
		nullableDate(def.EndDate), def.NextOccurrence.String(),
		nullableDate(def.LastProcessed), boolToInt(def.Active))
	if err != nil {
		return core.RecurringDefinition{}, storeErr("create recurring definition", err)
	}

	return def, nil
}

// ListRecurringDefinitions returns a user's recurring templates.
func (r *SQLiteRepository) ListRecurringDefinitions(ctx context.Context, userID string, activeOnly bool) ([]core.RecurringDefinition, error) {
	query := recurringSelect + " WHERE user_id = ?"
	args := []any{userID}
	if activeOnly {
		query += " AND is_active = 1"
	}
	query += " ORDER BY next_occurrence"

	return r.queryRecurring(ctx, "list recurring definitions", query, args...)
}

// ListDueRecurringDefinitions returns every active definition whose next
// occurrence is on or before today, across all users. Used by the worker.
func (r *SQLiteRepository) ListDueRecurringDefinitions(ctx context.Context, today core.Date) ([]core.RecurringDefinition, error) {
	query := recurringSelect + " WHERE is_active = 1 AND next_occurrence <= ? ORDER BY next_occurrence"
	return r.queryRecurring(ctx, "list due recurring definitions", query, today.String())
}

// GetRecurringDefinition fetches a single definition by ID.
func (r *SQLiteRepository) GetRecurringDefinition(ctx context.Context, id string) (core.RecurringDefinition, error) {
	defs, err := r.queryRecurring(ctx, "get recurring definition", recurringSelect+" WHERE id = ?", id)
	if err != nil {
		return core.RecurringDefinition{}, err
	}
	if len(defs) == 0 {
		return core.RecurringDefinition{}, ErrNotFound
	}
	return defs[0], nil
}

// AdvanceRecurring applies the scheduler's advance with a compare-and-swap on
// the next occurrence date. When the stored date no longer matches
// expectedNext the row was already advanced by a concurrent processor and
// ErrAlreadyProcessed is returned, so a definition is never materialized
// twice for the same due date.
func (r *SQLiteRepository) AdvanceRecurring(ctx context.Context, updated core.RecurringDefinition, expectedNext core.Date) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE recurring_definitions
		 SET next_occurrence = ?, last_processed = ?, is_active = ?
		 WHERE id = ? AND next_occurrence = ?`,
		updated.NextOccurrence.String(), nullableDate(updated.LastProcessed),
		boolToInt(updated.Active), updated.ID, expectedNext.String())
	if err != nil {
		return storeErr("advance recurring definition", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return storeErr("advance recurring definition", err)
	}
	if n == 0 {
		return ErrAlreadyProcessed
	}
	return nil
}

const recurringSelect = `SELECT id, user_id, type, category, amount, description,
	frequency, start_date, end_date, next_occurrence, last_processed, is_active
	FROM recurring_definitions`

func (r *SQLiteRepository) queryRecurring(ctx context.Context, op, query string, args ...any) ([]core.RecurringDefinition, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr(op, err)
	}
	defer rows.Close()

	var defs []core.RecurringDefinition
	for rows.Next() {
		def, err := scanRecurring(rows)
		if err != nil {
			return nil, storeErr(op, err)
		}
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(op, err)
	}

	return defs, nil
}

func scanRecurring(rows *sql.Rows) (core.RecurringDefinition, error) {
	var (
		def                       core.RecurringDefinition
		typ, amount, freq, start  string
		next                      string
		endDate, lastProcessed    sql.NullString
		active                    int
	)
	if err := rows.Scan(&def.ID, &def.UserID, &typ, &def.Category, &amount,
		&def.Description, &freq, &start, &endDate, &next, &lastProcessed, &active); err != nil {
		return core.RecurringDefinition{}, err
	}

	def.Type = core.TransactionType(typ)
	def.Frequency = core.Frequency(freq)
	def.Active = active != 0

	var err error
	if def.Amount, err = decimal.NewFromString(amount); err != nil {
		return core.RecurringDefinition{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	if def.StartDate, err = core.ParseDate(start); err != nil {
		return core.RecurringDefinition{}, fmt.Errorf("parse start date %q: %w", start, err)
	}
	if def.NextOccurrence, err = core.ParseDate(next); err != nil {
		return core.RecurringDefinition{}, fmt.Errorf("parse next occurrence %q: %w", next, err)
	}
	if endDate.Valid && strings.TrimSpace(endDate.String) != "" {
		if def.EndDate, err = core.ParseDate(endDate.String); err != nil {
			return core.RecurringDefinition{}, fmt.Errorf("parse end date %q: %w", endDate.String, err)
		}
	}
	if lastProcessed.Valid && strings.TrimSpace(lastProcessed.String) != "" {
		if def.LastProcessed, err = core.ParseDate(lastProcessed.String); err != nil {
			return core.RecurringDefinition{}, fmt.Errorf("parse last processed %q: %w", lastProcessed.String, err)
		}
	}

	return def, nil
}

// CreateReportDefinition persists a saved report, assigning an ID when absent.
func (r *SQLiteRepository) CreateReportDefinition(ctx context.Context, def core.ReportDefinition) (core.ReportDefinition, error) {
	if def.ID == "" {
		def.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO report_definitions (id, user_id, name, report_type, range_start, range_end, grouping)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		def.ID, def.UserID, def.Name, string(def.Type),
		def.Range.Start.String(), def.Range.End.String(), string(def.Grouping))
	if err != nil {
		return core.ReportDefinition{}, storeErr("create report definition", err)
	}

	return def, nil
}

// GetReportDefinition fetches a user's saved report by ID.
func (r *SQLiteRepository) GetReportDefinition(ctx context.Context, userID, id string) (core.ReportDefinition, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, report_type, range_start, range_end, grouping
		 FROM report_definitions WHERE id = ? AND user_id = ?`, id, userID)

	def, err := scanReportRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ReportDefinition{}, ErrNotFound
	}
	if err != nil {
		return core.ReportDefinition{}, storeErr("get report definition", err)
	}
	return def, nil
}

// ListReportDefinitions returns a user's saved reports.
func (r *SQLiteRepository) ListReportDefinitions(ctx context.Context, userID string) ([]core.ReportDefinition, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, report_type, range_start, range_end, grouping
		 FROM report_definitions WHERE user_id = ? ORDER BY name`, userID)
	if err != nil {
		return nil, storeErr("list report definitions", err)
	}
	defer rows.Close()

	var defs []core.ReportDefinition
	for rows.Next() {
		def, err := scanReportRow(rows)
		if err != nil {
			return nil, storeErr("scan report definition", err)
		}
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list report definitions", err)
	}

	return defs, nil
}

// DeleteReportDefinition removes a user's saved report by ID.
func (r *SQLiteRepository) DeleteReportDefinition(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM report_definitions WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return storeErr("delete report definition", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReportRow(row rowScanner) (core.ReportDefinition, error) {
	var (
		def                   core.ReportDefinition
		reportType, grouping  string
		rangeStart, rangeEnd  string
	)
	if err := row.Scan(&def.ID, &def.UserID, &def.Name, &reportType, &rangeStart, &rangeEnd, &grouping); err != nil {
		return core.ReportDefinition{}, err
	}

	def.Type = core.ReportType(reportType)
	def.Grouping = core.Grouping(grouping)

	var err error
	if def.Range.Start, err = core.ParseDate(rangeStart); err != nil {
		return core.ReportDefinition{}, fmt.Errorf("parse range start %q: %w", rangeStart, err)
	}
	if def.Range.End, err = core.ParseDate(rangeEnd); err != nil {
		return core.ReportDefinition{}, fmt.Errorf("parse range end %q: %w", rangeEnd, err)
	}

	return def, nil
}

func nullableDate(d core.Date) any {
	if d.IsEmpty() {
		return nil
	}
	return d.String()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
