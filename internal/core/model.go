package core

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderInProgress OrderStatus = "in-progress"
	OrderDelivered  OrderStatus = "delivered"
)

// ValidOrderStatus reports whether s is one of the known order statuses.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderPending, OrderInProgress, OrderDelivered:
		return true
	}
	return false
}

type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "pending"
	InstallmentOverdue InstallmentStatus = "overdue"
	InstallmentPaid    InstallmentStatus = "paid"
)

type PaymentMethod string

const (
	MethodCash     PaymentMethod = "cash"
	MethodCheque   PaymentMethod = "cheque"
	MethodTransfer PaymentMethod = "transfer"
	MethodCard     PaymentMethod = "card"
)

// Installment is one scheduled payment obligation inside an order's plan.
// Amount is the amount originally due and is never mutated after generation;
// PaidAmount may legitimately differ from it (partial settlement is recorded
// verbatim, with no follow-up installment for the shortfall).
type Installment struct {
	ID         string            `json:"id"` // "installment-1", "installment-2", … — stable within the order
	DueDate    time.Time         `json:"due_date"`
	Amount     decimal.Decimal   `json:"amount"`
	Status     InstallmentStatus `json:"status"`
	PaidDate   *time.Time        `json:"paid_date,omitempty"`
	PaidAmount *decimal.Decimal  `json:"paid_amount,omitempty"`
	Method     PaymentMethod     `json:"method,omitempty"`
	Notes      string            `json:"notes,omitempty"`
}

// Order is a contracted sewing job with a payment plan.
// The advance is carved out of TotalAmount, not added on top of it, and
// PaymentMonths counts the advance installment when one exists. Schedule is
// generated exactly once at creation and never regenerated; overdue flags on
// it are derived from due date vs "today" on every load, not persisted.
type Order struct {
	ID            int             `json:"id"`
	ClientName    string          `json:"client_name"`
	ClientPhone   string          `json:"client_phone,omitempty"`
	Description   string          `json:"description,omitempty"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	AdvanceMoney  decimal.Decimal `json:"advance_money"`
	PaymentMonths int             `json:"payment_months"`
	StartDate     time.Time       `json:"start_date"`
	Status        OrderStatus     `json:"status"`
	Schedule      []Installment   `json:"schedule"`
	CreatedAt     time.Time       `json:"created_at"`
	DeliveredAt   *time.Time      `json:"delivered_at,omitempty"`
}

// OrderInput carries the fields needed to create an order.
// StartDate is optional ("YYYY-MM-DD"); empty means "today".
type OrderInput struct {
	ClientName    string
	ClientPhone   string
	Description   string
	TotalAmount   decimal.Decimal
	AdvanceMoney  decimal.Decimal
	PaymentMonths int
	StartDate     string
}

// PaymentInput carries one payment against an installment.
// InstallmentID is optional — empty means "the next due installment".
// Date is optional ("YYYY-MM-DD"); empty means "today". Method defaults to cash.
type PaymentInput struct {
	InstallmentID string
	Amount        decimal.Decimal
	Method        PaymentMethod
	Date          string
	Notes         string
}

// DeletionReport tells the caller what a delete threw away. It is informational
// only — deletion is never blocked on collected money.
type DeletionReport struct {
	OrderID          int             `json:"order_id"`
	PaidInstallments int             `json:"paid_installments"`
	AmountCollected  decimal.Decimal `json:"amount_collected"`
}
