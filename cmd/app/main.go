package main

import (
	"context"
	"log"
	"os"

	"atelier-billing/internal/adapters/cli"
	"atelier-billing/internal/ai"
	"atelier-billing/internal/app"
	"atelier-billing/internal/core"
	"atelier-billing/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		log.Fatal("Usage: app <orders|summary|overdue|preview|pay|interpret> [args]")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	orderService := core.NewOrderService(pool)
	reportingService := core.NewReportingService(pool)

	var agent *ai.Agent
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		agent = ai.NewAgent(apiKey)
	}

	svc := app.NewAppService(pool, orderService, reportingService, agent)
	cli.Run(ctx, svc, os.Args[1:])
}
