package http

import (
	"context"
	"net/http"
	"strings"
)

// handleRunReport executes an ad-hoc report definition supplied in the body.
func (s *Server) handleRunReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	var payload reportDefinitionPayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	def, err := payload.toDomain()
	if err != nil {
		writeError(w, r, err)
		return
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

func (s *Server) handleReportDefinitions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createReportDefinition(w, r)
	case http.MethodGet:
		s.listReportDefinitions(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) createReportDefinition(w http.ResponseWriter, r *http.Request) {
	var payload reportDefinitionPayload
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

	saved, err := s.store.CreateReportDefinition(ctx, def)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, reportDefinitionToPayload(saved))
}

func (s *Server) listReportDefinitions(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	defs, err := s.store.ListReportDefinitions(ctx, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	payloads := make([]reportDefinitionPayload, 0, len(defs))
	for _, def := range defs {
		payloads = append(payloads, reportDefinitionToPayload(def))
	}
	writeJSON(w, r, http.StatusOK, payloads)
}

// handleReportDefinitionByID routes /api/reports/{id} deletions and
// /api/reports/{id}/run executions of saved definitions.
func (s *Server) handleReportDefinitionByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/reports/")

	if id, ok := strings.CutSuffix(rest, "/run"); ok {
		s.runSavedReport(w, r, id)
		return
	}

	if r.Method != http.MethodDelete {
		methodNotAllowed(w, "DELETE")
		return
	}

	userID, err := userIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r, "/api/reports/")
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	if err := s.store.DeleteReportDefinition(ctx, userID, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}

func (s *Server) runSavedReport(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	userID, err := userIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, errBadRequest{reason: "missing or malformed report id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	result, err := s.reports.RunSaved(ctx, userID, id, s.now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resultToPayload(result))
}
