package services

import (
	"fmt"
)

// Payer labels used in InsufficientFundsError
const (
	PayerAdminPool = "admin_pool"
)

// InsufficientFundsError is returned when a payer cannot cover a charge.
// Shortage is what the payer is missing and is shown to the caller as is.
type InsufficientFundsError struct {
	Payer     string
	AccountID int64
	Required  int64
	Available int64
	Shortage  int64
}

func newInsufficientFundsError(payer string, accountID, required, available int64) *InsufficientFundsError {
	return &InsufficientFundsError{
		Payer:     payer,
		AccountID: accountID,
		Required:  required,
		Available: available,
		Shortage:  required - available,
	}
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds for %s: required %d, available %d, short by %d",
		e.Payer, e.Required, e.Available, e.Shortage)
}

// InvalidStateTransitionError is returned when an entity cannot move between two states
type InvalidStateTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("%s cannot transition from %s to %s", e.Entity, e.From, e.To)
}

// NotFoundError is returned when a referenced entity does not exist
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ValidationError is returned when input breaks a business rule
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// AlreadyProcessedError is returned when a request was already decided
type AlreadyProcessedError struct {
	Entity        string
	CurrentStatus string
}

func (e *AlreadyProcessedError) Error() string {
	return fmt.Sprintf("%s has already been processed (status: %s)", e.Entity, e.CurrentStatus)
}
