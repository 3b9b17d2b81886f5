package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"atelier-billing/internal/app"
	"atelier-billing/internal/core"

	"github.com/shopspring/decimal"
)

// Run executes a one-shot CLI command and exits.
// args is os.Args[1:] — the first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, args []string) {
	switch args[0] {
	case "orders", "ls":
		var statusPtr *string
		if len(args) > 1 {
			statusPtr = &args[1]
		}
		result, err := svc.ListOrders(ctx, statusPtr)
		if err != nil {
			log.Fatalf("Failed to list orders: %v", err)
		}
		printOrders(result.Orders)

	case "summary", "sum":
		if len(args) < 2 {
			log.Fatal("Usage: app summary <order-id> [as-of-date]")
		}
		id := mustOrderID(args[1])
		asOf := ""
		if len(args) > 2 {
			asOf = args[2]
		}
		result, err := svc.BillingSummary(ctx, id, asOf)
		if err != nil {
			log.Fatalf("Failed to get summary: %v", err)
		}
		printSummary(result.Summary)

	case "overdue", "due":
		asOf := ""
		if len(args) > 1 {
			asOf = args[1]
		}
		result, err := svc.CollectionsReport(ctx, asOf)
		if err != nil {
			log.Fatalf("Failed to get collections report: %v", err)
		}
		printCollections(result.Report)

	case "preview", "prev":
		if len(args) < 4 {
			log.Fatal("Usage: app preview <total> <advance> <months> [start-date]")
		}
		total := mustDecimal("total", args[1])
		advance := mustDecimal("advance", args[2])
		months, err := strconv.Atoi(args[3])
		if err != nil {
			log.Fatalf("Invalid months %q", args[3])
		}
		start := ""
		if len(args) > 4 {
			start = args[4]
		}
		result, err := svc.PreviewSchedule(ctx, app.PreviewScheduleRequest{
			TotalAmount:   total,
			AdvanceMoney:  advance,
			PaymentMonths: months,
			StartDate:     start,
		})
		if err != nil {
			log.Fatalf("Preview failed: %v", err)
		}
		printSchedule(result.Schedule)

	case "pay":
		if len(args) < 4 {
			log.Fatal("Usage: app pay <order-id> <installment-id|-> <amount> [method] [date]")
		}
		id := mustOrderID(args[1])
		installmentID := args[2]
		if installmentID == "-" {
			installmentID = "" // next due
		}
		req := app.RecordPaymentRequest{
			InstallmentID: installmentID,
			Amount:        mustDecimal("amount", args[3]),
		}
		if len(args) > 4 {
			req.Method = args[4]
		}
		if len(args) > 5 {
			req.Date = args[5]
		}
		result, err := svc.RecordPayment(ctx, id, req)
		if err != nil {
			log.Fatalf("Payment failed: %v", err)
		}
		fmt.Println("Payment recorded.")
		printSchedule(result.Order.Schedule)
		if result.Order.Status == core.OrderDelivered {
			fmt.Println("Order fully paid — marked delivered.")
		}

	case "interpret", "ai":
		if len(args) < 3 {
			log.Fatal("Usage: app interpret <order-id> \"<payment note>\"")
		}
		id := mustOrderID(args[1])
		result, err := svc.InterpretPaymentNote(ctx, id, args[2])
		if err != nil {
			log.Fatalf("Agent error: %v", err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(result.Command)

	default:
		log.Fatalf("Unknown command: %s\nAvailable: orders, summary, overdue, preview, pay, interpret", args[0])
	}
}

func mustOrderID(raw string) int {
	id, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("Invalid order id %q", raw)
	}
	return id
}

func mustDecimal(field, raw string) decimal.Decimal {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		log.Fatalf("Invalid %s %q", field, raw)
	}
	return d
}

func printOrders(orders []core.Order) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 78))
	fmt.Printf("  %-5s %-22s %-12s %12s %12s %10s\n", "ID", "CLIENT", "STATUS", "TOTAL", "REMAINING", "START")
	fmt.Println(strings.Repeat("-", 78))
	for _, o := range orders {
		fmt.Printf("  %-5d %-22s %-12s %12s %12s %10s\n",
			o.ID, o.ClientName, o.Status,
			o.TotalAmount.StringFixed(2),
			core.TotalRemaining(o.Schedule).StringFixed(2),
			o.StartDate.Format("2006-01-02"))
	}
	fmt.Println(strings.Repeat("=", 78))
}

func printSchedule(schedule []core.Installment) {
	fmt.Println()
	fmt.Printf("  %-16s %-12s %12s %-10s %-12s\n", "INSTALLMENT", "DUE", "AMOUNT", "STATUS", "PAID ON")
	fmt.Println(strings.Repeat("-", 68))
	for _, ins := range schedule {
		paidOn := ""
		if ins.PaidDate != nil {
			paidOn = ins.PaidDate.Format("2006-01-02")
		}
		fmt.Printf("  %-16s %-12s %12s %-10s %-12s\n",
			ins.ID, ins.DueDate.Format("2006-01-02"), ins.Amount.StringFixed(2), ins.Status, paidOn)
	}
}

func printSummary(s *core.BillingSummary) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 62))
	fmt.Printf("  ORDER #%d — %s (%s)\n", s.OrderID, s.ClientName, s.Status)
	fmt.Printf("  As of     : %s\n", s.AsOf.Format("2006-01-02"))
	fmt.Println(strings.Repeat("=", 62))
	fmt.Printf("  Total     : %s\n", s.TotalAmount.StringFixed(2))
	fmt.Printf("  Paid      : %s\n", s.TotalPaid.StringFixed(2))
	fmt.Printf("  Remaining : %s\n", s.TotalRemaining.StringFixed(2))
	if s.NextDue != nil {
		fmt.Printf("  Next due  : %s (%s on %s)\n",
			s.NextDue.ID, s.NextDue.Amount.StringFixed(2), s.NextDue.DueDate.Format("2006-01-02"))
	}
	if len(s.Overdue) > 0 {
		fmt.Println(strings.Repeat("-", 62))
		for _, line := range s.Overdue {
			fmt.Printf("  OVERDUE   : %s — %s due %s (%d days)\n",
				line.InstallmentID, line.Amount.StringFixed(2),
				line.DueDate.Format("2006-01-02"), line.DaysOverdue)
		}
	}
	fmt.Println(strings.Repeat("=", 62))
}

func printCollections(r *core.CollectionsReport) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 78))
	fmt.Printf("  COLLECTIONS as of %s\n", r.AsOf.Format("2006-01-02"))
	fmt.Printf("  Outstanding : %s\n", r.OutstandingTotal.StringFixed(2))
	fmt.Printf("  Overdue     : %s\n", r.OverdueTotal.StringFixed(2))
	fmt.Println(strings.Repeat("=", 78))
	fmt.Printf("  %-5s %-22s %-12s %12s %8s\n", "ID", "CLIENT", "STATUS", "REMAINING", "OVERDUE")
	fmt.Println(strings.Repeat("-", 78))
	for _, o := range r.Orders {
		fmt.Printf("  %-5d %-22s %-12s %12s %8d\n",
			o.OrderID, o.ClientName, o.Status,
			o.Remaining.StringFixed(2), len(o.Overdue))
	}
	fmt.Println(strings.Repeat("=", 78))
}
