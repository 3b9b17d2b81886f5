package main

import (
	"context"
	"log"
	"net/http"
	"os"

	webAdapter "atelier-billing/internal/adapters/web"
	"atelier-billing/internal/ai"
	"atelier-billing/internal/app"
	"atelier-billing/internal/core"
	"atelier-billing/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	orderService := core.NewOrderService(pool)
	reportingService := core.NewReportingService(pool)

	var agent *ai.Agent
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Println("Warning: OPENAI_API_KEY is not set — payment note interpretation disabled")
	} else {
		agent = ai.NewAgent(apiKey)
	}

	svc := app.NewAppService(pool, orderService, reportingService, agent)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins)

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
