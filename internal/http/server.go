// Package http exposes the JSON API over transactions, budgets, recurring
// definitions and reports.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/reports"
	"fintrack/internal/storage"
)

// TransactionService is the transaction surface the API exposes.
type TransactionService interface {
	Create(ctx context.Context, tx core.Transaction) (core.Transaction, error)
	List(ctx context.Context, userID string, dateRange core.DateRange, filter storage.TransactionFilter) ([]core.Transaction, error)
	Delete(ctx context.Context, userID, id string) error
}

// ReportService runs ad-hoc and saved reports.
type ReportService interface {
	Run(ctx context.Context, def core.ReportDefinition, now time.Time) (*reports.Result, error)
	RunSaved(ctx context.Context, userID, reportID string, now time.Time) (*reports.Result, error)
}

// Repository is the storage surface the API uses directly for budgets,
// recurring definitions and saved report definitions.
type Repository interface {
	CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
	ListBudgets(ctx context.Context, userID string, period core.BudgetPeriod) ([]core.Budget, error)
	DeleteBudget(ctx context.Context, userID, id string) error

	CreateRecurringDefinition(ctx context.Context, def core.RecurringDefinition) (core.RecurringDefinition, error)
	ListRecurringDefinitions(ctx context.Context, userID string, activeOnly bool) ([]core.RecurringDefinition, error)

	CreateReportDefinition(ctx context.Context, def core.ReportDefinition) (core.ReportDefinition, error)
	ListReportDefinitions(ctx context.Context, userID string) ([]core.ReportDefinition, error)
	DeleteReportDefinition(ctx context.Context, userID, id string) error
}

type Server struct {
	http.Server

	transactions TransactionService
	reports      ReportService
	store        Repository

	limiter      *ratelimit.Limiter
	now          func() time.Time
	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr string, txs TransactionService, reps ReportService, store Repository) *Server {
	mux := http.NewServeMux()

	s := &Server{
		transactions: txs,
		reports:      reps,
		store:        store,
		limiter:      ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		now:          time.Now,
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	mux.HandleFunc("/api/transactions", s.handleTransactions)
	mux.HandleFunc("/api/transactions/", s.handleTransactionByID)
	mux.HandleFunc("/api/budgets", s.handleBudgets)
	mux.HandleFunc("/api/budgets/", s.handleBudgetByID)
	mux.HandleFunc("/api/budgets/performance", s.handleBudgetPerformance)
	mux.HandleFunc("/api/recurring", s.handleRecurring)
	mux.HandleFunc("/api/summary", s.handleSummary)
	mux.HandleFunc("/api/categories", s.handleCategoryAnalysis)
	mux.HandleFunc("/api/trends", s.handleTrends)
	mux.HandleFunc("/api/reports/run", s.handleRunReport)
	mux.HandleFunc("/api/reports", s.handleReportDefinitions)
	mux.HandleFunc("/api/reports/", s.handleReportDefinitionByID)

	traced := trace.NewMiddleware(security.ClientIP)
	limited := s.limiter.Middleware(security.ClientIP)
	hardened := security.Headers(security.DefaultHeadersConfig())

	s.Server = http.Server{
		Addr:         addr,
		Handler:      traced.Handler(hardened(limited(mux))),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Shutdown stops background routines and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
