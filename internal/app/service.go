package app

import "context"

// ApplicationService is the single interface all UI adapters (CLI, Web) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// CreateOrder registers a new atelier order and generates its payment
	// schedule.
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResult, error)

	// GetOrder returns a single order with its schedule, overdue flags
	// refreshed against today.
	GetOrder(ctx context.Context, orderID int) (*OrderResult, error)

	// ListOrders returns orders newest-first, optionally filtered by status.
	ListOrders(ctx context.Context, status *string) (*OrderListResult, error)

	// RecordPayment applies a payment against an installment. An empty
	// installment id targets the next due installment.
	RecordPayment(ctx context.Context, orderID int, req RecordPaymentRequest) (*OrderResult, error)

	// UpdateOrderStatus applies an explicit lifecycle transition.
	UpdateOrderStatus(ctx context.Context, orderID int, status string) (*OrderResult, error)

	// DeleteOrder removes an order, reporting what had been collected.
	DeleteOrder(ctx context.Context, orderID int) (*DeletionResult, error)

	// PreviewSchedule generates a schedule without persisting anything.
	PreviewSchedule(ctx context.Context, req PreviewScheduleRequest) (*ScheduleResult, error)

	// BillingSummary returns the paid/remaining/overdue picture for one order
	// as of the given date (empty means today).
	BillingSummary(ctx context.Context, orderID int, asOf string) (*SummaryResult, error)

	// CollectionsReport aggregates outstanding and overdue amounts across all
	// undelivered orders as of the given date (empty means today).
	CollectionsReport(ctx context.Context, asOf string) (*CollectionsResult, error)

	// InterpretPaymentNote sends a free-text payment note to the AI agent and
	// returns a structured payment command proposal for the given order.
	// Recording the payment still requires explicit confirmation through
	// RecordPayment.
	InterpretPaymentNote(ctx context.Context, orderID int, note string) (*InterpretResult, error)
}
