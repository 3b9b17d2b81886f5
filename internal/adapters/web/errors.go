package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"atelier-billing/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeDomainError maps reconciliation sentinels to stable codes and HTTP
// statuses; anything unmatched falls through to a 500.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		writeError(w, r, err.Error(), "INVALID_AMOUNT", http.StatusUnprocessableEntity)
	case errors.Is(err, core.ErrAlreadyPaid):
		writeError(w, r, err.Error(), "ALREADY_PAID", http.StatusConflict)
	case errors.Is(err, core.ErrAmountExceedsInstallment):
		writeError(w, r, err.Error(), "AMOUNT_EXCEEDS_INSTALLMENT", http.StatusUnprocessableEntity)
	case errors.Is(err, core.ErrInstallmentNotFound):
		writeError(w, r, err.Error(), "INSTALLMENT_NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, core.ErrOrderNotFound):
		writeError(w, r, err.Error(), "ORDER_NOT_FOUND", http.StatusNotFound)
	default:
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}
