package http

import (
	"context"
	"net/http"
)

func (s *Server) handleRecurring(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createRecurring(w, r)
	case http.MethodGet:
		s.listRecurring(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) createRecurring(w http.ResponseWriter, r *http.Request) {
	var payload recurringPayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	def, err := payload.toDomain()
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := def.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	saved, err := s.store.CreateRecurringDefinition(ctx, def)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, recurringToPayload(saved))
}

func (s *Server) listRecurring(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	activeOnly := r.URL.Query().Get("active") == "true"

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	defs, err := s.store.ListRecurringDefinitions(ctx, userID, activeOnly)
	if err != nil {
		writeError(w, r, err)
		return
	}

	payloads := make([]recurringPayload, 0, len(defs))
	for _, def := range defs {
		payloads = append(payloads, recurringToPayload(def))
	}
	writeJSON(w, r, http.StatusOK, payloads)
}
