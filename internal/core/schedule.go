package core

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// The schedule engine is a set of pure functions: every transformation takes
// the current installment list plus an explicit "today" and returns a new
// list, so results are deterministic under test and safe to recompute on
// every load. Nothing here touches the database or the wall clock.

// DateOnly truncates t to midnight UTC. All due-date comparisons are
// date-only — time of day never participates.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// GenerateSchedule derives the full installment plan for a contract.
//
// The advance is a deduction from totalAmount, not an addition: when present
// it becomes installment #1, due on the start date and already paid (it is by
// construction collected the moment the order is created). The remainder is
// split evenly across the monthly seats left over — paymentMonths-1 of them
// when the advance took seat 1, all paymentMonths otherwise — so the schedule
// always sums to totalAmount. Monthlies are spaced exactly one calendar month
// apart via AddDate; month-end overflow follows the stdlib's normalization
// (Jan 31 + 1 month = Mar 2/3), it is not re-derived.
//
// A contract with no value has no obligations: totalAmount <= 0 or
// paymentMonths <= 0 yields an empty schedule, never an error. Likewise an
// advance that covers the whole contract leaves nothing to bill monthly.
func GenerateSchedule(startDate time.Time, totalAmount, advanceMoney decimal.Decimal, paymentMonths int) []Installment {
	if totalAmount.Sign() <= 0 || paymentMonths <= 0 {
		return nil
	}

	base := DateOnly(startDate)
	remaining := totalAmount.Sub(advanceMoney)

	var schedule []Installment
	seq := 1
	monthOffset := 0

	if advanceMoney.Sign() > 0 {
		paidDate := base
		paidAmount := advanceMoney
		schedule = append(schedule, Installment{
			ID:         installmentID(seq),
			DueDate:    base,
			Amount:     advanceMoney,
			Status:     InstallmentPaid,
			PaidDate:   &paidDate,
			PaidAmount: &paidAmount,
			Method:     MethodCash,
		})
		seq++
		monthOffset = 1
	}

	if remaining.Sign() <= 0 {
		return schedule
	}

	// The advance occupies seat 1, leaving paymentMonths-1 monthly seats.
	// Whatever remains must always land somewhere: a one-month contract with
	// an advance still bills the remainder as a single installment.
	slots := paymentMonths - (seq - 1)
	if slots < 1 {
		slots = 1
	}
	monthly := remaining.Div(decimal.NewFromInt(int64(slots)))

	for i := 0; i < slots; i++ {
		schedule = append(schedule, Installment{
			ID:      installmentID(seq),
			DueDate: base.AddDate(0, monthOffset, 0),
			Amount:  monthly,
			Status:  InstallmentPending,
		})
		seq++
		monthOffset++
	}

	return schedule
}

func installmentID(seq int) string {
	return fmt.Sprintf("installment-%d", seq)
}

// RefreshStatuses recomputes the pending/overdue split from due dates.
// Paid is terminal — a paid installment is never revisited, so the function
// is idempotent for any fixed today.
func RefreshStatuses(schedule []Installment, today time.Time) []Installment {
	now := DateOnly(today)
	out := make([]Installment, len(schedule))
	copy(out, schedule)
	for i := range out {
		if out[i].Status == InstallmentPaid {
			continue
		}
		if out[i].DueDate.Before(now) {
			out[i].Status = InstallmentOverdue
		} else {
			out[i].Status = InstallmentPending
		}
	}
	return out
}

// MarkPaid returns a copy of the schedule with the matching installment
// settled. Both overpayment and underpayment are recorded verbatim here —
// amount-validity checks belong to the reconciliation layer, not the
// recorder. No other installment is touched. An unknown id returns the
// schedule unchanged together with ErrInstallmentNotFound.
func MarkPaid(schedule []Installment, id string, amount decimal.Decimal, method PaymentMethod, date time.Time, notes string) ([]Installment, error) {
	out := make([]Installment, len(schedule))
	copy(out, schedule)
	for i := range out {
		if out[i].ID != id {
			continue
		}
		paidDate := DateOnly(date)
		paidAmount := amount
		out[i].Status = InstallmentPaid
		out[i].PaidDate = &paidDate
		out[i].PaidAmount = &paidAmount
		out[i].Method = method
		out[i].Notes = notes
		return out, nil
	}
	return schedule, ErrInstallmentNotFound
}

// TotalPaid sums what was actually collected: PaidAmount when recorded,
// falling back to the installment amount for rows settled at face value.
func TotalPaid(schedule []Installment) decimal.Decimal {
	total := decimal.Zero
	for _, ins := range schedule {
		if ins.Status != InstallmentPaid {
			continue
		}
		if ins.PaidAmount != nil {
			total = total.Add(*ins.PaidAmount)
		} else {
			total = total.Add(ins.Amount)
		}
	}
	return total
}

// TotalRemaining sums the original due amount over unsettled installments.
// It deliberately uses Amount, not a recomputed shortfall: an underpaid
// installment is considered settled in full.
func TotalRemaining(schedule []Installment) decimal.Decimal {
	total := decimal.Zero
	for _, ins := range schedule {
		if ins.Status != InstallmentPaid {
			total = total.Add(ins.Amount)
		}
	}
	return total
}

// NextDue returns the unpaid installment with the earliest due date, or nil
// when everything is settled. Equal due dates resolve to the first in
// schedule order.
func NextDue(schedule []Installment) *Installment {
	var next *Installment
	for i := range schedule {
		ins := schedule[i]
		if ins.Status == InstallmentPaid {
			continue
		}
		if next == nil || ins.DueDate.Before(next.DueDate) {
			c := ins
			next = &c
		}
	}
	return next
}

// OverdueInstallments returns the currently overdue installments in schedule
// order, as derived from due dates against today.
func OverdueInstallments(schedule []Installment, today time.Time) []Installment {
	var out []Installment
	for _, ins := range RefreshStatuses(schedule, today) {
		if ins.Status == InstallmentOverdue {
			out = append(out, ins)
		}
	}
	return out
}

// DaysOverdue counts whole days past the due date, zero for same-day or
// future due dates.
func DaysOverdue(dueDate, today time.Time) int {
	due := DateOnly(dueDate)
	now := DateOnly(today)
	if !now.After(due) {
		return 0
	}
	return int(math.Ceil(now.Sub(due).Hours() / 24))
}
