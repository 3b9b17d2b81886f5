package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentCommand is the AI-generated interpretation of a free-text payment
// note against a known schedule. It is a proposal only — the caller confirms
// it and then goes through the normal validated RecordInstallmentPayment
// path; the interpreter never commits anything itself.
type PaymentCommand struct {
	InstallmentID string  `json:"installment_id" jsonschema_description:"The exact installment id from the provided schedule (e.g. 'installment-2'). Empty string means the next due installment."`
	Amount        string  `json:"amount" jsonschema_description:"The payment amount as a decimal string (e.g. '500.00'), always positive"`
	Method        string  `json:"method" jsonschema_description:"Payment method: one of 'cash', 'cheque', 'transfer', 'card'. Use 'cash' when unspecified."`
	Date          string  `json:"date" jsonschema_description:"The payment date in YYYY-MM-DD format. Use today's date when the note gives none."`
	Notes         string  `json:"notes" jsonschema_description:"Free-text notes worth keeping with the payment record, empty when there are none"`
	Confidence    float64 `json:"confidence" jsonschema_description:"Confidence score between 0.0 and 1.0"`
	Reasoning     string  `json:"reasoning" jsonschema_description:"Explanation of how the note was interpreted"`
}

// Normalize cleans up common LLM formatting issues before validation.
func (c *PaymentCommand) Normalize() {
	c.InstallmentID = strings.TrimSpace(c.InstallmentID)
	c.Date = strings.TrimSpace(c.Date)
	c.Method = strings.ToLower(strings.TrimSpace(c.Method))
	c.Amount = strings.TrimSpace(c.Amount)

	if c.Amount == "" || strings.ToLower(c.Amount) == "null" {
		c.Amount = "0.00"
	}
	if c.Method == "" {
		c.Method = string(MethodCash)
	}
}

// Validate enforces the command's structural rules. It deliberately does not
// check the amount against the installment — that is reconciliation's job,
// against the live schedule.
func (c *PaymentCommand) Validate() error {
	amt, err := decimal.NewFromString(c.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %v", c.Amount, err)
	}
	if amt.Sign() <= 0 {
		return fmt.Errorf("amount must be > 0, got %s", c.Amount)
	}

	switch PaymentMethod(c.Method) {
	case MethodCash, MethodCheque, MethodTransfer, MethodCard:
	default:
		return fmt.Errorf("unknown payment method %q", c.Method)
	}

	if c.Date != "" {
		if _, err := time.Parse("2006-01-02", c.Date); err != nil {
			return fmt.Errorf("invalid payment date format: %w", err)
		}
	}

	if c.Reasoning == "" {
		return errors.New("command must include reasoning")
	}

	return nil
}

// ToPaymentInput converts the confirmed command into the input shape the
// order service records.
func (c *PaymentCommand) ToPaymentInput() (PaymentInput, error) {
	amt, err := decimal.NewFromString(c.Amount)
	if err != nil {
		return PaymentInput{}, fmt.Errorf("invalid amount %q: %v", c.Amount, err)
	}
	return PaymentInput{
		InstallmentID: c.InstallmentID,
		Amount:        amt,
		Method:        PaymentMethod(c.Method),
		Date:          c.Date,
		Notes:         c.Notes,
	}, nil
}
