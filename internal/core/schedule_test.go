package core_test

import (
	"errors"
	"testing"
	"time"

	"atelier-billing/internal/core"

	"github.com/shopspring/decimal"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestGenerateSchedule_AdvanceAndMonthlies(t *testing.T) {
	// Order of 5000 with a 1000 advance over 5 months starting 2024-01-01:
	// the advance is installment-1, already paid, and the remaining 4000 is
	// split over 4 monthly installments of 1000.
	sched := core.GenerateSchedule(date("2024-01-01"), dec("5000"), dec("1000"), 5)

	if len(sched) != 5 {
		t.Fatalf("expected 5 installments, got %d", len(sched))
	}

	adv := sched[0]
	if adv.ID != "installment-1" {
		t.Errorf("advance id = %q, want installment-1", adv.ID)
	}
	if adv.Status != core.InstallmentPaid {
		t.Errorf("advance status = %q, want paid", adv.Status)
	}
	if !adv.Amount.Equal(dec("1000")) {
		t.Errorf("advance amount = %s, want 1000", adv.Amount)
	}
	if adv.PaidDate == nil || !adv.PaidDate.Equal(date("2024-01-01")) {
		t.Errorf("advance paid date = %v, want 2024-01-01", adv.PaidDate)
	}

	wantDue := []string{"2024-01-01", "2024-02-01", "2024-03-01", "2024-04-01", "2024-05-01"}
	for i, inst := range sched {
		if !inst.DueDate.Equal(date(wantDue[i])) {
			t.Errorf("installment %d due = %s, want %s", i+1, inst.DueDate.Format("2006-01-02"), wantDue[i])
		}
		if !inst.Amount.Equal(dec("1000")) {
			t.Errorf("installment %d amount = %s, want 1000", i+1, inst.Amount)
		}
		if i > 0 && inst.Status != core.InstallmentPending {
			t.Errorf("installment %d status = %q, want pending", i+1, inst.Status)
		}
	}

	// The schedule must reconcile with the order total.
	sum := decimal.Zero
	for _, inst := range sched {
		sum = sum.Add(inst.Amount)
	}
	if !sum.Equal(dec("5000")) {
		t.Errorf("schedule sum = %s, want 5000", sum)
	}
}

func TestGenerateSchedule_Boundaries(t *testing.T) {
	start := date("2024-01-15")

	tests := []struct {
		name        string
		total       string
		advance     string
		months      int
		want        int
		wantMonthly string // amount of each pending installment, "" to skip
	}{
		{"zero total", "0", "0", 5, 0, ""},
		{"negative total", "-100", "0", 5, 0, ""},
		{"zero months", "1000", "0", 0, 0, ""},
		// No advance means no seat is taken up front: the whole total splits
		// across all paymentMonths installments.
		{"no advance", "1200", "0", 3, 3, "400"},
		{"single month no advance", "1200", "0", 1, 1, "1200"},
		{"single month with advance", "1200", "300", 1, 2, "900"},
		{"advance covers total", "1000", "1000", 5, 1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sched := core.GenerateSchedule(start, dec(tt.total), dec(tt.advance), tt.months)
			if len(sched) != tt.want {
				t.Fatalf("got %d installments, want %d", len(sched), tt.want)
			}
			if tt.wantMonthly == "" {
				return
			}
			sum := dec(tt.advance)
			for i, ins := range sched {
				if ins.Status != core.InstallmentPending {
					continue
				}
				if !ins.Amount.Equal(dec(tt.wantMonthly)) {
					t.Errorf("installment %d amount = %s, want %s", i+1, ins.Amount, tt.wantMonthly)
				}
				sum = sum.Add(ins.Amount)
			}
			if !sum.Equal(dec(tt.total)) {
				t.Errorf("schedule sum = %s, want %s", sum, tt.total)
			}
		})
	}
}

func TestGenerateSchedule_SingleMonthNoAdvance(t *testing.T) {
	sched := core.GenerateSchedule(date("2024-06-10"), dec("1200"), decimal.Zero, 1)
	if len(sched) != 1 {
		t.Fatalf("expected 1 installment, got %d", len(sched))
	}
	if !sched[0].Amount.Equal(dec("1200")) {
		t.Errorf("amount = %s, want 1200", sched[0].Amount)
	}
	if sched[0].Status != core.InstallmentPending {
		t.Errorf("status = %q, want pending", sched[0].Status)
	}
}

func TestGenerateSchedule_MonthEndOverflow(t *testing.T) {
	// AddDate normalizes Jan 31 + 1 month to Mar 3 in a non-leap year; the
	// schedule keeps whatever the calendar arithmetic yields rather than
	// clamping to the month's end.
	sched := core.GenerateSchedule(date("2023-01-31"), dec("3000"), dec("1000"), 3)
	if len(sched) != 3 {
		t.Fatalf("expected 3 installments, got %d", len(sched))
	}
	if got := sched[1].DueDate.Format("2006-01-02"); got != "2023-03-03" {
		t.Errorf("second due date = %s, want 2023-03-03", got)
	}
}

func TestRefreshStatuses(t *testing.T) {
	sched := core.GenerateSchedule(date("2024-01-01"), dec("5000"), dec("1000"), 5)

	refreshed := core.RefreshStatuses(sched, date("2024-03-15"))

	wantStatus := []core.InstallmentStatus{
		core.InstallmentPaid,    // advance
		core.InstallmentOverdue, // due 2024-02-01
		core.InstallmentOverdue, // due 2024-03-01
		core.InstallmentPending, // due 2024-04-01
		core.InstallmentPending, // due 2024-05-01
	}
	for i, inst := range refreshed {
		if inst.Status != wantStatus[i] {
			t.Errorf("installment %d status = %q, want %q", i+1, inst.Status, wantStatus[i])
		}
	}

	// Refreshing again with the same date must not change anything.
	again := core.RefreshStatuses(refreshed, date("2024-03-15"))
	for i := range again {
		if again[i].Status != refreshed[i].Status {
			t.Errorf("installment %d status changed on second refresh: %q -> %q",
				i+1, refreshed[i].Status, again[i].Status)
		}
	}

	// The input slice stays untouched.
	if sched[1].Status != core.InstallmentPending {
		t.Errorf("refresh mutated its input: installment 2 status = %q", sched[1].Status)
	}
}

func TestRefreshStatuses_PaidStaysPaid(t *testing.T) {
	sched := core.GenerateSchedule(date("2024-01-01"), dec("2000"), decimal.Zero, 2)

	paid, err := core.MarkPaid(sched, "installment-1", dec("1000"), core.MethodCash, date("2024-02-10"), "")
	if err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}

	// installment-1 was due 2024-01-01, so a naive refresh would flag it
	// overdue; paid is terminal.
	refreshed := core.RefreshStatuses(paid, date("2024-06-01"))
	if refreshed[0].Status != core.InstallmentPaid {
		t.Errorf("paid installment reverted to %q", refreshed[0].Status)
	}
}

func TestMarkPaid(t *testing.T) {
	sched := core.GenerateSchedule(date("2024-01-01"), dec("3000"), decimal.Zero, 3)

	paid, err := core.MarkPaid(sched, "installment-2", dec("1000"), core.MethodTransfer, date("2024-02-03"), "bank ref 881")
	if err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}

	got := paid[1]
	if got.Status != core.InstallmentPaid {
		t.Errorf("status = %q, want paid", got.Status)
	}
	if got.PaidAmount == nil || !got.PaidAmount.Equal(dec("1000")) {
		t.Errorf("paid amount = %v, want 1000", got.PaidAmount)
	}
	if got.PaidDate == nil || !got.PaidDate.Equal(date("2024-02-03")) {
		t.Errorf("paid date = %v, want 2024-02-03", got.PaidDate)
	}
	if got.Method != core.MethodTransfer {
		t.Errorf("method = %q, want transfer", got.Method)
	}
	if got.Notes != "bank ref 881" {
		t.Errorf("notes = %q", got.Notes)
	}

	// Copy-on-write: the original schedule is unchanged.
	if sched[1].Status != core.InstallmentPending {
		t.Errorf("MarkPaid mutated its input: status = %q", sched[1].Status)
	}
}

func TestMarkPaid_UnknownID(t *testing.T) {
	sched := core.GenerateSchedule(date("2024-01-01"), dec("3000"), decimal.Zero, 3)

	out, err := core.MarkPaid(sched, "installment-9", dec("1000"), core.MethodCash, date("2024-02-03"), "")
	if !errors.Is(err, core.ErrInstallmentNotFound) {
		t.Fatalf("expected ErrInstallmentNotFound, got %v", err)
	}
	for i := range out {
		if out[i].Status != core.InstallmentPending {
			t.Errorf("installment %d changed despite failed lookup", i+1)
		}
	}
}

func TestAggregators(t *testing.T) {
	sched := core.GenerateSchedule(date("2024-01-01"), dec("5000"), dec("1000"), 5)

	if got := core.TotalPaid(sched); !got.Equal(dec("1000")) {
		t.Errorf("TotalPaid = %s, want 1000", got)
	}
	if got := core.TotalRemaining(sched); !got.Equal(dec("4000")) {
		t.Errorf("TotalRemaining = %s, want 4000", got)
	}

	// Pay installment-2 short: PaidAmount counts toward TotalPaid but the
	// installment's original amount drops out of TotalRemaining entirely
	// once it is marked paid.
	paid, err := core.MarkPaid(sched, "installment-2", dec("600"), core.MethodCash, date("2024-02-01"), "")
	if err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	if got := core.TotalPaid(paid); !got.Equal(dec("1600")) {
		t.Errorf("TotalPaid after partial = %s, want 1600", got)
	}
	if got := core.TotalRemaining(paid); !got.Equal(dec("3000")) {
		t.Errorf("TotalRemaining after partial = %s, want 3000", got)
	}

	next := core.NextDue(paid)
	if next == nil || next.ID != "installment-3" {
		t.Errorf("NextDue = %+v, want installment-3", next)
	}
}

func TestNextDue(t *testing.T) {
	if got := core.NextDue(nil); got != nil {
		t.Errorf("NextDue(nil) = %+v, want nil", got)
	}

	// All paid: nothing due.
	sched := core.GenerateSchedule(date("2024-01-01"), dec("1000"), dec("1000"), 1)
	if got := core.NextDue(sched); got != nil {
		t.Errorf("NextDue on fully paid schedule = %+v, want nil", got)
	}

	// Same due date on two installments: the earlier one in schedule order
	// wins.
	tie := []core.Installment{
		{ID: "installment-1", DueDate: date("2024-03-01"), Amount: dec("500"), Status: core.InstallmentPending},
		{ID: "installment-2", DueDate: date("2024-03-01"), Amount: dec("500"), Status: core.InstallmentPending},
	}
	if got := core.NextDue(tie); got == nil || got.ID != "installment-1" {
		t.Errorf("NextDue tie-break = %+v, want installment-1", got)
	}
}

func TestOverdueInstallments(t *testing.T) {
	sched := core.GenerateSchedule(date("2024-01-01"), dec("4000"), dec("1000"), 4)

	overdue := core.OverdueInstallments(sched, date("2024-02-15"))
	if len(overdue) != 1 {
		t.Fatalf("expected 1 overdue installment, got %d", len(overdue))
	}
	if overdue[0].ID != "installment-2" {
		t.Errorf("overdue id = %q, want installment-2", overdue[0].ID)
	}
}

func TestDaysOverdue(t *testing.T) {
	tests := []struct {
		name string
		due  string
		now  string
		want int
	}{
		{"five days late", "2024-03-01", "2024-03-06", 5},
		{"due today", "2024-03-01", "2024-03-01", 0},
		{"not yet due", "2024-03-10", "2024-03-01", 0},
		{"one day late", "2024-03-01", "2024-03-02", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := core.DaysOverdue(date(tt.due), date(tt.now)); got != tt.want {
				t.Errorf("DaysOverdue(%s, %s) = %d, want %d", tt.due, tt.now, got, tt.want)
			}
		})
	}
}
