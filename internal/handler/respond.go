// internal/handler/respond.go
package handler

import (
	"encoding/json"
	"net/http"

	appErrors "github.com/spsmiles/outreach-backend/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the domain error types onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case appErrors.IsNotFound(err):
		status = http.StatusNotFound
	case appErrors.IsSuppressed(err):
		status = http.StatusForbidden
	case appErrors.IsRateLimited(err):
		status = http.StatusTooManyRequests
	case appErrors.IsInvalidTransition(err), appErrors.IsConflict(err):
		status = http.StatusConflict
	case appErrors.IsInvalidPolicy(err), appErrors.IsMissingRequiredFactor(err):
		status = http.StatusUnprocessableEntity
	case appErrors.IsValidation(err):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
