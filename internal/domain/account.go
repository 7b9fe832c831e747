package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RootAccountPrefix marks the protected root of the chart of accounts.
// Accounts under it must never receive postings.
const RootAccountPrefix = "000"

// OperationType is the side of a ledger movement.
type OperationType string

const (
	OperationDebit  OperationType = "DEBIT"
	OperationCredit OperationType = "CREDIT"
)

// Account is a ledger account owned by a branch. Liaison accounts are owned
// by one branch and related to another through LiaisonBranchID.
type Account struct {
	CreatedAt            time.Time
	ModifiedAt           time.Time
	LiaisonBranchID      *string
	ID                   string
	AccountNumber        string // chart-of-account code
	AccountNumberCU      string // composite unique number (chart + branch + position)
	AccountNumberNetwork string // network-wide number (chart + bank + branch + position)
	Description          string
	BranchID             string
	ChartPositionID      string
	CategoryID           string
	ModifiedBy           string
	DebitBalance         decimal.Decimal
	CreditBalance        decimal.Decimal
	CurrentBalance       decimal.Decimal
	LastBalance          decimal.Decimal
	BeginningBalance     decimal.Decimal
	Version              int64
	Deleted              bool
}

// IsRoot reports whether the account sits under the protected root chart position.
func (a *Account) IsRoot() bool {
	return strings.HasPrefix(a.AccountNumber, RootAccountPrefix)
}

// IsDebitNormal reports whether an account number belongs to a debit-normal
// accounting class under the OHADA chart convention. Class 4 splits by the
// second digit: receivables (41, 42, 46) are debit-normal, payables are not.
func IsDebitNormal(accountNumber string) bool {
	switch {
	case hasAnyPrefix(accountNumber, "41", "42", "46"):
		return true
	case hasAnyPrefix(accountNumber, "40", "43", "44", "45", "47", "48", "49"):
		return false
	case hasAnyPrefix(accountNumber, "2", "5", "6"):
		return true
	case hasAnyPrefix(accountNumber, "1", "3", "7"):
		return false
	default:
		// Classes 0, 8 and 9 never appear in postable positions; treat them
		// as debit-normal rather than guessing a sign flip.
		return true
	}
}

// ComputeCurrentBalance derives the running balance from the debit and credit
// accumulators under the account's class rules. It is pure: recomputing from
// the same pair always yields the same value.
func ComputeCurrentBalance(accountNumber string, debitBalance, creditBalance decimal.Decimal) decimal.Decimal {
	if IsDebitNormal(accountNumber) {
		return debitBalance.Sub(creditBalance)
	}

	return creditBalance.Sub(debitBalance)
}

// Apply posts one movement to the account's balance fields. LastBalance
// captures CurrentBalance as it stood immediately before the mutation (the
// balance brought forward). Persistence is the caller's job.
func (a *Account) Apply(amount decimal.Decimal, op OperationType, actor string, at time.Time) error {
	if a.IsRoot() {
		return NewRootAccountError(a, nil)
	}

	if amount.IsNegative() {
		return ErrInvalidAmount
	}

	a.LastBalance = a.CurrentBalance

	switch op {
	case OperationDebit:
		a.DebitBalance = a.DebitBalance.Add(amount)
	case OperationCredit:
		a.CreditBalance = a.CreditBalance.Add(amount)
	default:
		return ErrUnknownOperation
	}

	a.CurrentBalance = ComputeCurrentBalance(a.AccountNumber, a.DebitBalance, a.CreditBalance)
	a.ModifiedBy = actor
	a.ModifiedAt = at

	return nil
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}

	return false
}
