package web

import (
	"net/http"

	"atelier-billing/internal/app"

	"github.com/shopspring/decimal"
)

// apiBillingSummary handles GET /api/orders/{id}/summary?as_of=.
func (h *Handler) apiBillingSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.BillingSummary(r.Context(), id, r.URL.Query().Get("as_of"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Summary)
}

// apiCollectionsReport handles GET /api/reports/collections?as_of=.
func (h *Handler) apiCollectionsReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.CollectionsReport(r.Context(), r.URL.Query().Get("as_of"))
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeJSON(w, result.Report)
}

// apiPreviewSchedule handles POST /api/schedule/preview.
// Body: { total_amount, advance_money?, payment_months, start_date? }
func (h *Handler) apiPreviewSchedule(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TotalAmount   string `json:"total_amount"`
		AdvanceMoney  string `json:"advance_money"`
		PaymentMonths int    `json:"payment_months"`
		StartDate     string `json:"start_date"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	total, ok := parseAmount(w, r, "total_amount", body.TotalAmount)
	if !ok {
		return
	}
	advance := decimal.Zero
	if body.AdvanceMoney != "" {
		if advance, ok = parseAmount(w, r, "advance_money", body.AdvanceMoney); !ok {
			return
		}
	}

	result, err := h.svc.PreviewSchedule(r.Context(), app.PreviewScheduleRequest{
		TotalAmount:   total,
		AdvanceMoney:  advance,
		PaymentMonths: body.PaymentMonths,
		StartDate:     body.StartDate,
	})
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeJSON(w, result.Schedule)
}

// apiInterpretPayment handles POST /api/ai/interpret-payment.
// Body: { order_id, note }
func (h *Handler) apiInterpretPayment(w http.ResponseWriter, r *http.Request) {
	var body struct {
		OrderID int    `json:"order_id"`
		Note    string `json:"note"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.Note == "" {
		writeError(w, r, "note is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	result, err := h.svc.InterpretPaymentNote(r.Context(), body.OrderID, body.Note)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}
