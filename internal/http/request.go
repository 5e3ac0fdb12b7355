package http

import (
	"net/http"
	"strings"

	"fintrack/internal/core"
)

// userIDParam returns the required user_id query parameter.
func userIDParam(r *http.Request) (string, error) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		return "", core.ErrMissingUser
	}
	return userID, nil
}

// dateRangeParams parses the required from/to query parameters.
func dateRangeParams(r *http.Request) (core.DateRange, error) {
	from := strings.TrimSpace(r.URL.Query().Get("from"))
	to := strings.TrimSpace(r.URL.Query().Get("to"))
	if from == "" || to == "" {
		return core.DateRange{}, errBadRequest{reason: "from and to query parameters are required (YYYY-MM-DD)"}
	}

	start, err := core.ParseDate(from)
	if err != nil {
		return core.DateRange{}, err
	}
	end, err := core.ParseDate(to)
	if err != nil {
		return core.DateRange{}, err
	}
	return core.DateRange{Start: start, End: end}, nil
}

// pathID extracts the trailing identifier from a prefixed route like
// /api/budgets/{id}.
func pathID(r *http.Request, prefix string) (string, error) {
	id := strings.TrimPrefix(r.URL.Path, prefix)
	id = strings.Trim(id, "/")
	if id == "" || strings.Contains(id, "/") {
		return "", errBadRequest{reason: "missing or malformed resource id"}
	}
	return id, nil
}
