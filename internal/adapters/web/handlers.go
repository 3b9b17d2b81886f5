package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"atelier-billing/internal/app"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc    app.ApplicationService
	router chi.Router
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins string) http.Handler {
	h := &Handler{svc: svc}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))

	// ── Health ────────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)

	// 1 MB body limit across the API to prevent unbounded request abuse.
	r.Group(func(r chi.Router) {
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		// ── Orders ────────────────────────────────────────────────────────────
		r.Get("/api/orders", h.apiListOrders)
		r.Post("/api/orders", h.apiCreateOrder)
		r.Get("/api/orders/{id}", h.apiGetOrder)
		r.Delete("/api/orders/{id}", h.apiDeleteOrder)
		r.Post("/api/orders/{id}/status", h.apiUpdateOrderStatus)
		r.Post("/api/orders/{id}/payments", h.apiRecordPayment)
		r.Get("/api/orders/{id}/summary", h.apiBillingSummary)

		// ── Reports ───────────────────────────────────────────────────────────
		r.Get("/api/reports/collections", h.apiCollectionsReport)

		// ── Schedule preview ──────────────────────────────────────────────────
		r.Post("/api/schedule/preview", h.apiPreviewSchedule)

		// ── AI ────────────────────────────────────────────────────────────────
		r.Post("/api/ai/interpret-payment", h.apiInterpretPayment)
	})

	h.router = r
	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
