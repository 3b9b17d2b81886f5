package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ── Report types ──────────────────────────────────────────────────────────────

// OverdueLine is one overdue installment with its day count as of the report
// date.
type OverdueLine struct {
	InstallmentID string          `json:"installment_id"`
	DueDate       time.Time       `json:"due_date"`
	Amount        decimal.Decimal `json:"amount"`
	DaysOverdue   int             `json:"days_overdue"`
}

// BillingSummary is the collection position of a single order as of a given
// date: what was collected, what is still owed, and which installment to
// offer for payment next.
type BillingSummary struct {
	OrderID        int             `json:"order_id"`
	ClientName     string          `json:"client_name"`
	Status         OrderStatus     `json:"status"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	TotalRemaining decimal.Decimal `json:"total_remaining"`
	NextDue        *Installment    `json:"next_due,omitempty"`
	Overdue        []OverdueLine   `json:"overdue,omitempty"`
	AsOf           time.Time       `json:"as_of"`
}

// OrderCollections is the per-order breakdown inside a CollectionsReport.
type OrderCollections struct {
	OrderID     int             `json:"order_id"`
	ClientName  string          `json:"client_name"`
	Status      OrderStatus     `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Remaining   decimal.Decimal `json:"remaining"`
	Overdue     []OverdueLine   `json:"overdue,omitempty"`
}

// CollectionsReport aggregates the outstanding position across all
// undelivered orders.
type CollectionsReport struct {
	AsOf             time.Time          `json:"as_of"`
	OutstandingTotal decimal.Decimal    `json:"outstanding_total"`
	OverdueTotal     decimal.Decimal    `json:"overdue_total"`
	Orders           []OrderCollections `json:"orders"`
}

// ── Interface ─────────────────────────────────────────────────────────────────

// ReportingService provides read-only collection queries over orders and
// their schedules. asOf is passed explicitly so reports are reproducible.
type ReportingService interface {
	// GetBillingSummary returns the collection position of one order.
	GetBillingSummary(ctx context.Context, orderID int, asOf time.Time) (*BillingSummary, error)

	// GetCollectionsReport returns outstanding and overdue totals across all
	// orders not yet delivered, overdue lines ordered by due date.
	GetCollectionsReport(ctx context.Context, asOf time.Time) (*CollectionsReport, error)
}

type reportingService struct {
	pool *pgxpool.Pool
}

func NewReportingService(pool *pgxpool.Pool) ReportingService {
	return &reportingService{pool: pool}
}

func (s *reportingService) GetBillingSummary(ctx context.Context, orderID int, asOf time.Time) (*BillingSummary, error) {
	o, err := fetchOrderQ(ctx, s.pool, orderID, false)
	if err != nil {
		return nil, err
	}

	schedule, err := fetchScheduleQ(ctx, s.pool, orderID)
	if err != nil {
		return nil, err
	}
	schedule = RefreshStatuses(schedule, asOf)

	summary := &BillingSummary{
		OrderID:        o.ID,
		ClientName:     o.ClientName,
		Status:         o.Status,
		TotalAmount:    o.TotalAmount,
		TotalPaid:      TotalPaid(schedule),
		TotalRemaining: TotalRemaining(schedule),
		NextDue:        NextDue(schedule),
		Overdue:        overdueLines(schedule, asOf),
		AsOf:           DateOnly(asOf),
	}
	return summary, nil
}

func (s *reportingService) GetCollectionsReport(ctx context.Context, asOf time.Time) (*CollectionsReport, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, client_name, status, total_amount
		FROM orders
		WHERE status <> $1
		ORDER BY id
	`, OrderDelivered)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders for collections: %w", err)
	}
	defer rows.Close()

	type header struct {
		id          int
		clientName  string
		status      OrderStatus
		totalAmount decimal.Decimal
	}
	var headers []header
	for rows.Next() {
		var h header
		if err := rows.Scan(&h.id, &h.clientName, &h.status, &h.totalAmount); err != nil {
			return nil, fmt.Errorf("failed to scan order header: %w", err)
		}
		headers = append(headers, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order headers: %w", err)
	}

	report := &CollectionsReport{
		AsOf:             DateOnly(asOf),
		OutstandingTotal: decimal.Zero,
		OverdueTotal:     decimal.Zero,
	}

	for _, h := range headers {
		schedule, err := fetchScheduleQ(ctx, s.pool, h.id)
		if err != nil {
			return nil, err
		}
		schedule = RefreshStatuses(schedule, asOf)

		oc := OrderCollections{
			OrderID:     h.id,
			ClientName:  h.clientName,
			Status:      h.status,
			TotalAmount: h.totalAmount,
			Remaining:   TotalRemaining(schedule),
			Overdue:     overdueLines(schedule, asOf),
		}

		report.OutstandingTotal = report.OutstandingTotal.Add(oc.Remaining)
		for _, line := range oc.Overdue {
			report.OverdueTotal = report.OverdueTotal.Add(line.Amount)
		}
		report.Orders = append(report.Orders, oc)
	}

	return report, nil
}

// overdueLines converts the overdue slice of a refreshed schedule into report
// lines with day counts.
func overdueLines(schedule []Installment, asOf time.Time) []OverdueLine {
	var out []OverdueLine
	for _, ins := range OverdueInstallments(schedule, asOf) {
		out = append(out, OverdueLine{
			InstallmentID: ins.ID,
			DueDate:       ins.DueDate,
			Amount:        ins.Amount,
			DaysOverdue:   DaysOverdue(ins.DueDate, asOf),
		})
	}
	return out
}
