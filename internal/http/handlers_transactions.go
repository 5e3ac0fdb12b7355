package http

import (
	"context"
	"net/http"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

const handlerTimeout = 5 * time.Second

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createTransaction(w, r)
	case http.MethodGet:
		s.listTransactions(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var payload transactionPayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	tx, err := payload.toDomain()
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	saved, err := s.transactions.Create(ctx, tx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, transactionToPayload(saved))
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
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
	filter := storage.TransactionFilter{
		Category: r.URL.Query().Get("category"),
		Type:     core.TransactionType(r.URL.Query().Get("type")),
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	txs, err := s.transactions.List(ctx, userID, dateRange, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	payloads := make([]transactionPayload, 0, len(txs))
	for _, tx := range txs {
		payloads = append(payloads, transactionToPayload(tx))
	}
	writeJSON(w, r, http.StatusOK, payloads)
}

func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, "DELETE")
		return
	}

	userID, err := userIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r, "/api/transactions/")
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	if err := s.transactions.Delete(ctx, userID, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}
