// File: internal/infra/web/respond.go
package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"municipal-benefits/internal/domain"
)

type errorBody struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// writeError maps domain errors onto HTTP statuses. Redemption failures keep
// their machine-readable kind so point-of-sale clients can branch on it.
func writeError(w http.ResponseWriter, err error) {
	var rerr *domain.RedemptionError
	if errors.As(err, &rerr) {
		status := http.StatusUnprocessableEntity
		if rerr.Kind == domain.RedemptionNotFound {
			status = http.StatusNotFound
		}
		writeJSON(w, status, errorBody{Error: string(rerr.Kind), Reason: rerr.Reason})
		return
	}
	writeJSON(w, statusOf(err), errorBody{Error: err.Error()})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrLocked):
		return http.StatusConflict
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
