package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"atelier-billing/internal/ai"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load() // Load .env if present

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY not set")
	}

	agent := ai.NewAgent(apiKey)
	ctx := context.Background()

	schedule := `
Order #12 for Meera Nair, total 48000
- installment-1: 12000 due 2026-06-01 [paid] paid on 2026-06-01
- installment-2: 9000 due 2026-07-01 [paid] paid on 2026-07-03
- installment-3: 9000 due 2026-08-01 [overdue]
- installment-4: 9000 due 2026-09-01 [pending]
- installment-5: 9000 due 2026-10-01 [pending]
`

	note := "Meera dropped off 9000 in cash yesterday for the August installment."

	fmt.Printf("INTERPRETING NOTE: %s\n", note)
	cmd, err := agent.InterpretPaymentNote(ctx, note, schedule)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	fmt.Printf("\n--- PAYMENT COMMAND ---\n")
	fmt.Printf("Installment: %s\n", cmd.InstallmentID)
	fmt.Printf("Amount: %s via %s on %s\n", cmd.Amount, cmd.Method, cmd.Date)
	fmt.Printf("Confidence: %.2f\n", cmd.Confidence)
	fmt.Printf("Reasoning: %s\n", cmd.Reasoning)
}
