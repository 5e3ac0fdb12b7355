package http

import (
	"context"
	"net/http"

	"fintrack/internal/core"
)

// The analytics endpoints are thin GET wrappers over the report executor: each
// builds an ad-hoc definition from query parameters and runs it, so results
// share the report cache.

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	s.runAnalytics(w, r, core.ReportIncomeExpense, "")
}

func (s *Server) handleCategoryAnalysis(w http.ResponseWriter, r *http.Request) {
	s.runAnalytics(w, r, core.ReportCategory, "")
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	grouping := core.Grouping(r.URL.Query().Get("group_by"))
	if grouping != "" {
		if err := grouping.Validate(); err != nil {
			writeError(w, r, err)
			return
		}
	}
	s.runAnalytics(w, r, core.ReportTrend, grouping)
}

func (s *Server) handleBudgetPerformance(w http.ResponseWriter, r *http.Request) {
	s.runAnalytics(w, r, core.ReportBudget, "")
}

func (s *Server) runAnalytics(w http.ResponseWriter, r *http.Request, reportType core.ReportType, grouping core.Grouping) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	userID, err := userIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	dateRange, err := dateRangeParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	def := core.ReportDefinition{
		UserID:   userID,
		Type:     reportType,
		Range:    dateRange,
		Grouping: grouping,
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	result, err := s.reports.Run(ctx, def, s.now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resultToPayload(result))
}
