package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/reports"
	"fintrack/internal/storage"
)

// ReportService fetches report inputs from storage and runs the report
// executor, caching results per definition.
type ReportService struct {
	store Store
	cache *cache.LRUCache[*reports.Result]
}

// NewReportService creates a report service. The cache may be nil to disable
// result caching (used in tests).
func NewReportService(store Store, resultCache *cache.LRUCache[*reports.Result]) *ReportService {
	return &ReportService{
		store: store,
		cache: resultCache,
	}
}

// Run executes an ad-hoc report definition, fetching the transactions for its
// date range and, for budget reports, the user's budgets.
func (s *ReportService) Run(ctx context.Context, def core.ReportDefinition, now time.Time) (*reports.Result, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	key := cacheKey(def, now)
	if s.cache != nil {
		if result, ok := s.cache.Get(key); ok {
			slog.DebugContext(ctx, "Report cache hit", "key", key)
			return result, nil
		}
	}

	txs, err := s.store.ListTransactions(ctx, def.UserID, def.Range, storage.TransactionFilter{})
	if err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}

	var budgets []core.Budget
	if def.Type == core.ReportBudget {
		budgets, err = s.store.ListBudgets(ctx, def.UserID, "")
		if err != nil {
			return nil, fmt.Errorf("fetch budgets: %w", err)
		}
	}

	result, err := reports.Execute(def, txs, budgets, now)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(key, result)
	}

	return result, nil
}

// RunSaved loads a saved report definition by ID and executes it.
func (s *ReportService) RunSaved(ctx context.Context, userID, reportID string, now time.Time) (*reports.Result, error) {
	def, err := s.store.GetReportDefinition(ctx, userID, reportID)
	if err != nil {
		return nil, fmt.Errorf("load report definition: %w", err)
	}
	return s.Run(ctx, def, now)
}

// cacheKey identifies a report execution. The evaluation date participates
// because budget windows and cached aggregates shift with "now".
func cacheKey(def core.ReportDefinition, now time.Time) string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s",
		def.UserID, def.Type, def.Range.Start, def.Range.End, def.Grouping,
		core.DateOf(now))
}
