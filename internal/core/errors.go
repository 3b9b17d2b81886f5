package core

import "errors"

// Validation failures surfaced to callers as distinct conditions so a UI can
// render a specific, actionable message. None of these are retried — they
// reflect a user-input problem, not a transient fault.
var (
	ErrInvalidAmount            = errors.New("payment amount must be greater than zero")
	ErrAlreadyPaid              = errors.New("installment is already paid")
	ErrAmountExceedsInstallment = errors.New("payment amount exceeds the installment amount")
	ErrInstallmentNotFound      = errors.New("installment not found in schedule")
	ErrOrderNotFound            = errors.New("order not found")
)
