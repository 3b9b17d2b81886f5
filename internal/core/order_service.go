package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// OrderService manages the order lifecycle and reconciles installment
// payments against it.
type OrderService interface {
	// CreateOrder persists a new order together with its generated payment
	// schedule. The schedule is generated exactly once, here — it is never
	// regenerated afterwards.
	CreateOrder(ctx context.Context, in OrderInput) (*Order, error)

	// GetOrder loads an order with its schedule, overdue flags refreshed
	// against today.
	GetOrder(ctx context.Context, orderID int) (*Order, error)

	// GetOrders lists orders newest-first, optionally filtered by status.
	GetOrders(ctx context.Context, status *OrderStatus) ([]Order, error)

	// RecordInstallmentPayment validates and applies a payment, then
	// auto-transitions the order to delivered once the paid total reaches
	// the contract total. Validation failures are the sentinel errors in
	// errors.go.
	RecordInstallmentPayment(ctx context.Context, orderID int, in PaymentInput) (*Order, error)

	// UpdateOrderStatus applies an explicit lifecycle transition.
	UpdateOrderStatus(ctx context.Context, orderID int, status OrderStatus) (*Order, error)

	// DeleteOrder removes the order and its installments, reporting how much
	// had already been collected. The report informs the caller; it never
	// blocks the deletion.
	DeleteOrder(ctx context.Context, orderID int) (*DeletionReport, error)
}

type orderService struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewOrderService(pool *pgxpool.Pool) OrderService {
	return &orderService{pool: pool, now: time.Now}
}

// NewOrderServiceWithClock fixes "today" for deterministic tests.
func NewOrderServiceWithClock(pool *pgxpool.Pool, now func() time.Time) OrderService {
	return &orderService{pool: pool, now: now}
}

func (s *orderService) CreateOrder(ctx context.Context, in OrderInput) (*Order, error) {
	if in.ClientName == "" {
		return nil, fmt.Errorf("order must have a client name")
	}
	if in.TotalAmount.Sign() < 0 {
		return nil, fmt.Errorf("total amount cannot be negative")
	}
	if in.AdvanceMoney.Sign() < 0 {
		return nil, fmt.Errorf("advance cannot be negative")
	}
	if in.AdvanceMoney.GreaterThan(in.TotalAmount) {
		return nil, fmt.Errorf("advance %s exceeds total %s", in.AdvanceMoney, in.TotalAmount)
	}
	if in.PaymentMonths < 1 {
		return nil, fmt.Errorf("payment months must be >= 1, got %d", in.PaymentMonths)
	}

	startDate := DateOnly(s.now())
	if in.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", in.StartDate)
		if err != nil {
			return nil, fmt.Errorf("invalid start date %q: %w", in.StartDate, err)
		}
		startDate = DateOnly(parsed)
	}

	schedule := GenerateSchedule(startDate, in.TotalAmount, in.AdvanceMoney, in.PaymentMonths)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var orderID int
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (client_name, client_phone, description, total_amount, advance_money, payment_months, start_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, in.ClientName, in.ClientPhone, in.Description, in.TotalAmount, in.AdvanceMoney, in.PaymentMonths, startDate, OrderPending).Scan(&orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	if err := insertSchedule(ctx, tx, orderID, schedule); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order creation: %w", err)
	}

	return s.GetOrder(ctx, orderID)
}

func insertSchedule(ctx context.Context, tx pgx.Tx, orderID int, schedule []Installment) error {
	for seq, ins := range schedule {
		_, err := tx.Exec(ctx, `
			INSERT INTO installments (order_id, seq, installment_id, due_date, amount, status, paid_date, paid_amount, method, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, orderID, seq+1, ins.ID, ins.DueDate, ins.Amount, ins.Status, ins.PaidDate, ins.PaidAmount, string(ins.Method), ins.Notes)
		if err != nil {
			return fmt.Errorf("failed to insert installment %s: %w", ins.ID, err)
		}
	}
	return nil
}

func (s *orderService) GetOrder(ctx context.Context, orderID int) (*Order, error) {
	o, err := fetchOrderQ(ctx, s.pool, orderID, false)
	if err != nil {
		return nil, err
	}

	schedule, err := fetchScheduleQ(ctx, s.pool, orderID)
	if err != nil {
		return nil, err
	}

	// Overdue is derived on every load, never stored as a one-way fact.
	o.Schedule = RefreshStatuses(schedule, s.now())
	return o, nil
}

func (s *orderService) GetOrders(ctx context.Context, status *OrderStatus) ([]Order, error) {
	query := `
		SELECT id, client_name, client_phone, description, total_amount, advance_money,
		       payment_months, start_date, status, created_at, delivered_at
		FROM orders
	`
	args := []any{}
	if status != nil {
		query += " WHERE status = $1"
		args = append(args, *status)
	}
	query += " ORDER BY id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.ClientName, &o.ClientPhone, &o.Description, &o.TotalAmount,
			&o.AdvanceMoney, &o.PaymentMonths, &o.StartDate, &o.Status, &o.CreatedAt, &o.DeliveredAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	today := s.now()
	for i := range orders {
		schedule, err := fetchScheduleQ(ctx, s.pool, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Schedule = RefreshStatuses(schedule, today)
	}
	return orders, nil
}

func (s *orderService) RecordInstallmentPayment(ctx context.Context, orderID int, in PaymentInput) (*Order, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Row lock serializes concurrent payments against the same order.
	o, err := fetchOrderQ(ctx, tx, orderID, true)
	if err != nil {
		return nil, err
	}

	schedule, err := fetchScheduleQ(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}

	today := s.now()
	schedule = RefreshStatuses(schedule, today)

	targetID := in.InstallmentID
	if targetID == "" {
		next := NextDue(schedule)
		if next == nil {
			return nil, fmt.Errorf("order %d has no unpaid installments", orderID)
		}
		targetID = next.ID
	}

	if in.Amount.Sign() <= 0 {
		return nil, fmt.Errorf("installment %s: %w", targetID, ErrInvalidAmount)
	}

	target := findInstallment(schedule, targetID)
	if target == nil {
		return nil, fmt.Errorf("order %d, installment %s: %w", orderID, targetID, ErrInstallmentNotFound)
	}
	if target.Status == InstallmentPaid {
		return nil, fmt.Errorf("installment %s: %w", targetID, ErrAlreadyPaid)
	}
	if in.Amount.GreaterThan(target.Amount) {
		return nil, fmt.Errorf("installment %s: paying %s against %s: %w",
			targetID, in.Amount, target.Amount, ErrAmountExceedsInstallment)
	}

	method := in.Method
	if method == "" {
		method = MethodCash
	}

	paymentDate := DateOnly(today)
	if in.Date != "" {
		parsed, err := time.Parse("2006-01-02", in.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid payment date %q: %w", in.Date, err)
		}
		paymentDate = DateOnly(parsed)
	}

	schedule, err = MarkPaid(schedule, targetID, in.Amount, method, paymentDate, in.Notes)
	if err != nil {
		return nil, err
	}

	paid := findInstallment(schedule, targetID)
	_, err = tx.Exec(ctx, `
		UPDATE installments
		SET status = $1, paid_date = $2, paid_amount = $3, method = $4, notes = $5
		WHERE order_id = $6 AND installment_id = $7
	`, paid.Status, paid.PaidDate, paid.PaidAmount, string(paid.Method), paid.Notes, orderID, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to update installment %s: %w", targetID, err)
	}

	// Full payment auto-delivers the order. One-directional: an order already
	// delivered stays delivered, and nothing ever moves it back.
	if o.Status != OrderDelivered && fullyPaid(schedule, o.TotalAmount) {
		_, err = tx.Exec(ctx,
			"UPDATE orders SET status = $1, delivered_at = NOW() WHERE id = $2",
			OrderDelivered, orderID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to mark order %d delivered: %w", orderID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit payment: %w", err)
	}

	return s.GetOrder(ctx, orderID)
}

// fullyPaid holds when the collected total reaches the contract value, or
// when every installment is settled (covers partial settlements recorded as
// final).
func fullyPaid(schedule []Installment, totalAmount decimal.Decimal) bool {
	if TotalPaid(schedule).GreaterThanOrEqual(totalAmount) {
		return true
	}
	for _, ins := range schedule {
		if ins.Status != InstallmentPaid {
			return false
		}
	}
	return len(schedule) > 0
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID int, status OrderStatus) (*Order, error) {
	if !ValidOrderStatus(status) {
		return nil, fmt.Errorf("unknown order status %q", status)
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE orders
		SET status = $1,
		    delivered_at = CASE WHEN $1 = 'delivered' AND delivered_at IS NULL THEN NOW() ELSE delivered_at END
		WHERE id = $2
	`, status, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to update order %d status: %w", orderID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("order %d: %w", orderID, ErrOrderNotFound)
	}

	return s.GetOrder(ctx, orderID)
}

func (s *orderService) DeleteOrder(ctx context.Context, orderID int) (*DeletionReport, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := fetchOrderQ(ctx, tx, orderID, true); err != nil {
		return nil, err
	}

	schedule, err := fetchScheduleQ(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}

	report := &DeletionReport{
		OrderID:         orderID,
		AmountCollected: TotalPaid(schedule),
	}
	for _, ins := range schedule {
		if ins.Status == InstallmentPaid {
			report.PaidInstallments++
		}
	}

	// Installments go with the order via ON DELETE CASCADE.
	if _, err := tx.Exec(ctx, "DELETE FROM orders WHERE id = $1", orderID); err != nil {
		return nil, fmt.Errorf("failed to delete order %d: %w", orderID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order deletion: %w", err)
	}
	return report, nil
}

// ── query helpers ─────────────────────────────────────────────────────────────

// pgxQuerier is satisfied by both *pgxpool.Pool and pgx.Tx, enabling shared
// query helpers.
type pgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func fetchOrderQ(ctx context.Context, q pgxQuerier, orderID int, forUpdate bool) (*Order, error) {
	query := `
		SELECT id, client_name, client_phone, description, total_amount, advance_money,
		       payment_months, start_date, status, created_at, delivered_at
		FROM orders
		WHERE id = $1
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var o Order
	err := q.QueryRow(ctx, query, orderID).Scan(
		&o.ID, &o.ClientName, &o.ClientPhone, &o.Description, &o.TotalAmount,
		&o.AdvanceMoney, &o.PaymentMonths, &o.StartDate, &o.Status, &o.CreatedAt, &o.DeliveredAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("order %d: %w", orderID, ErrOrderNotFound)
		}
		return nil, fmt.Errorf("failed to fetch order %d: %w", orderID, err)
	}
	return &o, nil
}

func fetchScheduleQ(ctx context.Context, q pgxQuerier, orderID int) ([]Installment, error) {
	rows, err := q.Query(ctx, `
		SELECT installment_id, due_date, amount, status, paid_date, paid_amount, method, notes
		FROM installments
		WHERE order_id = $1
		ORDER BY seq
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query installments: %w", err)
	}
	defer rows.Close()

	var schedule []Installment
	for rows.Next() {
		var ins Installment
		var method string
		if err := rows.Scan(&ins.ID, &ins.DueDate, &ins.Amount, &ins.Status,
			&ins.PaidDate, &ins.PaidAmount, &method, &ins.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan installment: %w", err)
		}
		ins.Method = PaymentMethod(method)
		ins.DueDate = DateOnly(ins.DueDate)
		if ins.PaidDate != nil {
			d := DateOnly(*ins.PaidDate)
			ins.PaidDate = &d
		}
		schedule = append(schedule, ins)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating installments: %w", err)
	}
	return schedule, nil
}

func findInstallment(schedule []Installment, id string) *Installment {
	for i := range schedule {
		if schedule[i].ID == id {
			return &schedule[i]
		}
	}
	return nil
}
