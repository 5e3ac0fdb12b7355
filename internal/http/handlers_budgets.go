package http

import (
	"context"
	"net/http"

	"fintrack/internal/core"
)

func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createBudget(w, r)
	case http.MethodGet:
		s.listBudgets(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) createBudget(w http.ResponseWriter, r *http.Request) {
	var payload budgetPayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	b, err := payload.toDomain()
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := b.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	saved, err := s.store.CreateBudget(ctx, b)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, budgetToPayload(saved))
}

func (s *Server) listBudgets(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	period := core.BudgetPeriod(r.URL.Query().Get("period"))
	if period != "" {
		if err := period.Validate(); err != nil {
			writeError(w, r, err)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	budgets, err := s.store.ListBudgets(ctx, userID, period)
	if err != nil {
		writeError(w, r, err)
		return
	}

	payloads := make([]budgetPayload, 0, len(budgets))
	for _, b := range budgets {
		payloads = append(payloads, budgetToPayload(b))
	}
	writeJSON(w, r, http.StatusOK, payloads)
}

func (s *Server) handleBudgetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, "DELETE")
		return
	}

	userID, err := userIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r, "/api/budgets/")
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	if err := s.store.DeleteBudget(ctx, userID, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}
