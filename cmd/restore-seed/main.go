// restore-seed is a one-shot tool that loads a small set of demo orders.
// Run it against a fresh database to have something to look at in the UI
// and CLI.
//
// Usage: go run ./cmd/restore-seed
package main

import (
	"context"
	"log"
	"os"

	"atelier-billing/internal/core"
	"atelier-billing/internal/db"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	svc := core.NewOrderService(pool)

	seeds := []core.OrderInput{
		{
			ClientName:    "Meera Nair",
			ClientPhone:   "+91-9800000010",
			Description:   "Bridal lehenga, raw silk with zardozi work",
			TotalAmount:   decimal.NewFromInt(48000),
			AdvanceMoney:  decimal.NewFromInt(12000),
			PaymentMonths: 5,
			StartDate:     "2026-06-01",
		},
		{
			ClientName:    "Rohit Shah",
			ClientPhone:   "+91-9800000011",
			Description:   "Three-piece suit, charcoal wool",
			TotalAmount:   decimal.NewFromInt(22000),
			AdvanceMoney:  decimal.NewFromInt(5000),
			PaymentMonths: 3,
			StartDate:     "2026-07-15",
		},
		{
			ClientName:    "Asha Verma",
			ClientPhone:   "+91-9800000012",
			Description:   "Anarkali set, chiffon",
			TotalAmount:   decimal.NewFromInt(9500),
			PaymentMonths: 2,
			StartDate:     "2026-08-01",
		},
	}

	for _, in := range seeds {
		order, err := svc.CreateOrder(ctx, in)
		if err != nil {
			log.Fatalf("Failed to seed order for %s: %v", in.ClientName, err)
		}
		log.Printf("Seeded order #%d — %s (%d installments)", order.ID, order.ClientName, len(order.Schedule))
	}

	log.Println("Seed data loaded successfully.")
	os.Exit(0)
}
