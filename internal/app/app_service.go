package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"atelier-billing/internal/ai"
	"atelier-billing/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
)

type appService struct {
	pool         *pgxpool.Pool
	orderService core.OrderService
	reporting    core.ReportingService
	agent        *ai.Agent
	now          func() time.Time
}

// NewAppService constructs an appService that satisfies ApplicationService.
// agent may be nil when no OpenAI key is configured; InterpretPaymentNote
// then returns an error instead of calling out.
func NewAppService(
	pool *pgxpool.Pool,
	orderService core.OrderService,
	reporting core.ReportingService,
	agent *ai.Agent,
) ApplicationService {
	return &appService{
		pool:         pool,
		orderService: orderService,
		reporting:    reporting,
		agent:        agent,
		now:          time.Now,
	}
}

// CreateOrder registers a new atelier order and generates its schedule.
func (s *appService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResult, error) {
	order, err := s.orderService.CreateOrder(ctx, core.OrderInput{
		ClientName:    req.ClientName,
		ClientPhone:   req.ClientPhone,
		Description:   req.Description,
		TotalAmount:   req.TotalAmount,
		AdvanceMoney:  req.AdvanceMoney,
		PaymentMonths: req.PaymentMonths,
		StartDate:     req.StartDate,
	})
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: order}, nil
}

// GetOrder returns a single order with overdue flags refreshed.
func (s *appService) GetOrder(ctx context.Context, orderID int) (*OrderResult, error) {
	order, err := s.orderService.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: order}, nil
}

// ListOrders returns orders newest-first, optionally filtered by status.
func (s *appService) ListOrders(ctx context.Context, status *string) (*OrderListResult, error) {
	var filter *core.OrderStatus
	if status != nil && *status != "" {
		st := core.OrderStatus(*status)
		if !core.ValidOrderStatus(st) {
			return nil, fmt.Errorf("unknown order status %q", *status)
		}
		filter = &st
	}

	orders, err := s.orderService.GetOrders(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &OrderListResult{Orders: orders}, nil
}

// RecordPayment applies a payment against an installment.
func (s *appService) RecordPayment(ctx context.Context, orderID int, req RecordPaymentRequest) (*OrderResult, error) {
	order, err := s.orderService.RecordInstallmentPayment(ctx, orderID, core.PaymentInput{
		InstallmentID: req.InstallmentID,
		Amount:        req.Amount,
		Method:        core.PaymentMethod(req.Method),
		Date:          req.Date,
		Notes:         req.Notes,
	})
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: order}, nil
}

// UpdateOrderStatus applies an explicit lifecycle transition.
func (s *appService) UpdateOrderStatus(ctx context.Context, orderID int, status string) (*OrderResult, error) {
	order, err := s.orderService.UpdateOrderStatus(ctx, orderID, core.OrderStatus(status))
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: order}, nil
}

// DeleteOrder removes an order, reporting what had been collected.
func (s *appService) DeleteOrder(ctx context.Context, orderID int) (*DeletionResult, error) {
	report, err := s.orderService.DeleteOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &DeletionResult{Report: report}, nil
}

// PreviewSchedule generates a schedule without touching the database.
func (s *appService) PreviewSchedule(ctx context.Context, req PreviewScheduleRequest) (*ScheduleResult, error) {
	startDate := core.DateOnly(s.now())
	if req.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return nil, fmt.Errorf("invalid start date %q: %w", req.StartDate, err)
		}
		startDate = core.DateOnly(parsed)
	}
	if req.TotalAmount.Sign() < 0 {
		return nil, fmt.Errorf("total amount cannot be negative")
	}
	if req.AdvanceMoney.GreaterThan(req.TotalAmount) {
		return nil, fmt.Errorf("advance %s exceeds total %s", req.AdvanceMoney, req.TotalAmount)
	}

	schedule := core.GenerateSchedule(startDate, req.TotalAmount, req.AdvanceMoney, req.PaymentMonths)
	return &ScheduleResult{Schedule: schedule}, nil
}

// BillingSummary returns paid/remaining/overdue figures for one order.
func (s *appService) BillingSummary(ctx context.Context, orderID int, asOf string) (*SummaryResult, error) {
	asOfDate, err := s.parseAsOf(asOf)
	if err != nil {
		return nil, err
	}

	summary, err := s.reporting.GetBillingSummary(ctx, orderID, asOfDate)
	if err != nil {
		return nil, err
	}
	return &SummaryResult{Summary: summary}, nil
}

// CollectionsReport aggregates across all undelivered orders.
func (s *appService) CollectionsReport(ctx context.Context, asOf string) (*CollectionsResult, error) {
	asOfDate, err := s.parseAsOf(asOf)
	if err != nil {
		return nil, err
	}

	report, err := s.reporting.GetCollectionsReport(ctx, asOfDate)
	if err != nil {
		return nil, err
	}
	return &CollectionsResult{Report: report}, nil
}

// InterpretPaymentNote sends a free-text note to the AI agent along with the
// order's current schedule, and returns the structured proposal.
func (s *appService) InterpretPaymentNote(ctx context.Context, orderID int, note string) (*InterpretResult, error) {
	if s.agent == nil {
		return nil, fmt.Errorf("AI agent not configured: set OPENAI_API_KEY")
	}
	if strings.TrimSpace(note) == "" {
		return nil, fmt.Errorf("payment note is empty")
	}

	order, err := s.orderService.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	cmd, err := s.agent.InterpretPaymentNote(ctx, note, formatScheduleContext(order))
	if err != nil {
		return nil, err
	}
	return &InterpretResult{OrderID: orderID, Command: cmd}, nil
}

// ── private helpers ───────────────────────────────────────────────────────────

func (s *appService) parseAsOf(asOf string) (time.Time, error) {
	if asOf == "" {
		return core.DateOnly(s.now()), nil
	}
	parsed, err := time.Parse("2006-01-02", asOf)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid as_of date %q: %w", asOf, err)
	}
	return core.DateOnly(parsed), nil
}

// formatScheduleContext renders the order's schedule as a plain list for the
// AI prompt.
func formatScheduleContext(order *core.Order) string {
	var lines []string
	lines = append(lines, fmt.Sprintf("Order #%d for %s, total %s", order.ID, order.ClientName, order.TotalAmount))
	for _, ins := range order.Schedule {
		line := fmt.Sprintf("- %s: %s due %s [%s]",
			ins.ID, ins.Amount, ins.DueDate.Format("2006-01-02"), ins.Status)
		if ins.Status == core.InstallmentPaid && ins.PaidDate != nil {
			line += fmt.Sprintf(" paid on %s", ins.PaidDate.Format("2006-01-02"))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
