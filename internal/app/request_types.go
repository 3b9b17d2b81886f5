package app

import "github.com/shopspring/decimal"

// CreateOrderRequest is the input for registering a new atelier order.
type CreateOrderRequest struct {
	ClientName    string
	ClientPhone   string
	Description   string
	TotalAmount   decimal.Decimal
	AdvanceMoney  decimal.Decimal
	PaymentMonths int
	StartDate     string // YYYY-MM-DD; empty means today
}

// RecordPaymentRequest is the input for applying a payment to an installment.
type RecordPaymentRequest struct {
	InstallmentID string // empty means the next due installment
	Amount        decimal.Decimal
	Method        string // cash, cheque, transfer, card; empty means cash
	Date          string // YYYY-MM-DD; empty means today
	Notes         string
}

// PreviewScheduleRequest is the input for a dry-run schedule generation.
type PreviewScheduleRequest struct {
	TotalAmount   decimal.Decimal
	AdvanceMoney  decimal.Decimal
	PaymentMonths int
	StartDate     string // YYYY-MM-DD; empty means today
}
