package app

import "atelier-billing/internal/core"

// OrderResult is returned by order lifecycle operations.
type OrderResult struct {
	Order *core.Order
}

// OrderListResult is returned by ListOrders.
type OrderListResult struct {
	Orders []core.Order
}

// DeletionResult is returned by DeleteOrder.
type DeletionResult struct {
	Report *core.DeletionReport
}

// ScheduleResult is returned by PreviewSchedule.
type ScheduleResult struct {
	Schedule []core.Installment
}

// SummaryResult is returned by BillingSummary.
type SummaryResult struct {
	Summary *core.BillingSummary
}

// CollectionsResult is returned by CollectionsReport.
type CollectionsResult struct {
	Report *core.CollectionsReport
}

// InterpretResult is returned by InterpretPaymentNote.
type InterpretResult struct {
	OrderID int
	Command *core.PaymentCommand
}
