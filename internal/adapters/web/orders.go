package web

import (
	"net/http"
	"strconv"

	"atelier-billing/internal/app"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// orderID extracts and parses the {id} URL parameter.
func orderID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "invalid order id", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// parseAmount parses a decimal amount string from a request body.
func parseAmount(w http.ResponseWriter, r *http.Request, field, raw string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		writeError(w, r, field+" must be a decimal string", "BAD_REQUEST", http.StatusBadRequest)
		return decimal.Decimal{}, false
	}
	return d, true
}

// apiListOrders handles GET /api/orders?status=.
func (h *Handler) apiListOrders(w http.ResponseWriter, r *http.Request) {
	statusFilter := r.URL.Query().Get("status")
	var statusPtr *string
	if statusFilter != "" {
		statusPtr = &statusFilter
	}
	result, err := h.svc.ListOrders(r.Context(), statusPtr)
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeJSON(w, result.Orders)
}

// apiGetOrder handles GET /api/orders/{id}.
func (h *Handler) apiGetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.GetOrder(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Order)
}

// apiCreateOrder handles POST /api/orders.
// Body: { client_name, client_phone?, description?, total_amount, advance_money?, payment_months, start_date? }
func (h *Handler) apiCreateOrder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ClientName    string `json:"client_name"`
		ClientPhone   string `json:"client_phone"`
		Description   string `json:"description"`
		TotalAmount   string `json:"total_amount"`
		AdvanceMoney  string `json:"advance_money"`
		PaymentMonths int    `json:"payment_months"`
		StartDate     string `json:"start_date"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	if body.ClientName == "" {
		writeError(w, r, "client_name is required", "BAD_REQUEST", http.StatusBadRequest)
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

	result, err := h.svc.CreateOrder(r.Context(), app.CreateOrderRequest{
		ClientName:    body.ClientName,
		ClientPhone:   body.ClientPhone,
		Description:   body.Description,
		TotalAmount:   total,
		AdvanceMoney:  advance,
		PaymentMonths: body.PaymentMonths,
		StartDate:     body.StartDate,
	})
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result.Order)
}

// apiDeleteOrder handles DELETE /api/orders/{id}.
func (h *Handler) apiDeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.DeleteOrder(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Report)
}

// apiUpdateOrderStatus handles POST /api/orders/{id}/status.
// Body: { status }
func (h *Handler) apiUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.Status == "" {
		writeError(w, r, "status is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	result, err := h.svc.UpdateOrderStatus(r.Context(), id, body.Status)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Order)
}

// apiRecordPayment handles POST /api/orders/{id}/payments.
// Body: { installment_id?, amount, method?, date?, notes? }
func (h *Handler) apiRecordPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	var body struct {
		InstallmentID string `json:"installment_id"`
		Amount        string `json:"amount"`
		Method        string `json:"method"`
		Date          string `json:"date"`
		Notes         string `json:"notes"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	amount, ok := parseAmount(w, r, "amount", body.Amount)
	if !ok {
		return
	}

	result, err := h.svc.RecordPayment(r.Context(), id, app.RecordPaymentRequest{
		InstallmentID: body.InstallmentID,
		Amount:        amount,
		Method:        body.Method,
		Date:          body.Date,
		Notes:         body.Notes,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Order)
}
