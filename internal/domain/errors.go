package domain

import (
	"errors"
	"fmt"
)

var (
	// Posting errors
	ErrConfigurationMissing = errors.New("no accounting rule configured for event")
	ErrRootAccountViolation = errors.New("posting to the root account is forbidden")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrUnknownOperation     = errors.New("unknown booking operation")

	// Resolver errors
	ErrAccountCreationFailure = errors.New("account creation command failed")
	ErrAccountNotFound        = errors.New("account not found")
	ErrBranchNotFound         = errors.New("branch not found")
	ErrChartPositionNotFound  = errors.New("chart of account position not found")

	// Entry errors
	ErrEntryNotFound = errors.New("entry not found")

	// Concurrency errors
	ErrStaleAccount = errors.New("account was modified by a concurrent posting")

	// Authentication errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// RootAccountError wraps ErrRootAccountViolation with serialized snapshots of
// the offending accounts so the audit trail carries the full forensic payload.
type RootAccountError struct {
	DebitSnapshot  JSON
	CreditSnapshot JSON
}

// NewRootAccountError builds a RootAccountError from the accounts involved.
// Either side may be nil when the violation is detected on a single leg.
func NewRootAccountError(debit, credit *Account) *RootAccountError {
	e := &RootAccountError{}
	if debit != nil {
		e.DebitSnapshot = MarshalState(debit)
	}

	if credit != nil {
		e.CreditSnapshot = MarshalState(credit)
	}

	return e
}

func (e *RootAccountError) Error() string {
	return fmt.Sprintf("%v: debit=%v credit=%v", ErrRootAccountViolation, e.DebitSnapshot, e.CreditSnapshot)
}

// Unwrap lets callers branch with errors.Is(err, ErrRootAccountViolation).
func (e *RootAccountError) Unwrap() error {
	return ErrRootAccountViolation
}
