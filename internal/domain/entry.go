package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType is the declared perspective of an accounting entry.
type EntryType string

const (
	EntryTypeDebit  EntryType = "DEBIT"
	EntryTypeCredit EntryType = "CREDIT"
)

// EntryStatus is the lifecycle state of an entry. There is no draft or
// pending state; entries are posted at creation.
type EntryStatus string

const EntryStatusPosted EntryStatus = "POSTED"

// AccountingEntry is the immutable, persisted record of one ledger entry.
// Every posting produces two of them, one per perspective, sharing the same
// reference id, value date and narration.
type AccountingEntry struct {
	EntryDate               time.Time
	ValueDate               time.Time
	ID                      string
	ReferenceID             string
	EntryType               EntryType
	Status                  EntryStatus
	DebitAccountNumber      string // composite unique number of the debit leg
	CreditAccountNumber     string // composite unique number of the credit leg
	Narration               string
	MemberReference         string
	BranchID                string
	Initiator               string
	DrAmount                decimal.Decimal
	CrAmount                decimal.Decimal
	Amount                  decimal.Decimal // signed: negative for the debit perspective
	DrCurrentBalance        decimal.Decimal
	CrCurrentBalance        decimal.Decimal
	DrBalanceBroughtForward decimal.Decimal
	CrBalanceBroughtForward decimal.Decimal
}

// NewDebitEntry builds the debit-perspective entry for a booking. The debit
// account's pre- and post-mutation balances go into the Dr* columns; the
// paired credit account's figures are carried in the Cr* columns for
// cross-reference.
func NewDebitEntry(id string, b Booking, debit, credit *Account, initiator string, entryDate, valueDate time.Time) *AccountingEntry {
	return &AccountingEntry{
		ID:                      id,
		ReferenceID:             b.ReferenceID,
		EntryDate:               entryDate,
		ValueDate:               valueDate,
		EntryType:               EntryTypeDebit,
		Status:                  EntryStatusPosted,
		DebitAccountNumber:      debit.AccountNumberCU,
		CreditAccountNumber:     credit.AccountNumberCU,
		Narration:               b.Narration,
		MemberReference:         b.MemberReference,
		BranchID:                debit.BranchID,
		Initiator:               initiator,
		DrAmount:                b.Amount,
		CrAmount:                decimal.Zero,
		Amount:                  b.Amount.Neg(),
		DrCurrentBalance:        debit.CurrentBalance,
		DrBalanceBroughtForward: debit.LastBalance,
		CrCurrentBalance:        credit.CurrentBalance,
		CrBalanceBroughtForward: credit.LastBalance,
	}
}

// NewCreditEntry builds the credit-perspective mirror of NewDebitEntry.
func NewCreditEntry(id string, b Booking, debit, credit *Account, initiator string, entryDate, valueDate time.Time) *AccountingEntry {
	return &AccountingEntry{
		ID:                      id,
		ReferenceID:             b.ReferenceID,
		EntryDate:               entryDate,
		ValueDate:               valueDate,
		EntryType:               EntryTypeCredit,
		Status:                  EntryStatusPosted,
		DebitAccountNumber:      debit.AccountNumberCU,
		CreditAccountNumber:     credit.AccountNumberCU,
		Narration:               b.Narration,
		MemberReference:         b.MemberReference,
		BranchID:                credit.BranchID,
		Initiator:               initiator,
		DrAmount:                decimal.Zero,
		CrAmount:                b.Amount,
		Amount:                  b.Amount,
		DrCurrentBalance:        debit.CurrentBalance,
		DrBalanceBroughtForward: debit.LastBalance,
		CrCurrentBalance:        credit.CurrentBalance,
		CrBalanceBroughtForward: credit.LastBalance,
	}
}

// ManualLeg carries the data of one ad-hoc posting leg.
type ManualLeg struct {
	Amount      decimal.Decimal
	Operation   OperationType
	Narration   string
	ReferenceID string
}

// NewManualEntry builds a single entry for a manual posting against one
// account. The account must already have been mutated through Apply so its
// LastBalance/CurrentBalance pair reflects this movement.
func NewManualEntry(id string, account *Account, leg ManualLeg, initiator string, entryDate, valueDate time.Time) *AccountingEntry {
	e := &AccountingEntry{
		ID:          id,
		ReferenceID: leg.ReferenceID,
		EntryDate:   entryDate,
		ValueDate:   valueDate,
		Status:      EntryStatusPosted,
		Narration:   leg.Narration,
		BranchID:    account.BranchID,
		Initiator:   initiator,
	}

	if leg.Operation == OperationDebit {
		e.EntryType = EntryTypeDebit
		e.DebitAccountNumber = account.AccountNumberCU
		e.DrAmount = leg.Amount
		e.Amount = leg.Amount.Neg()
		e.DrCurrentBalance = account.CurrentBalance
		e.DrBalanceBroughtForward = account.LastBalance
	} else {
		e.EntryType = EntryTypeCredit
		e.CreditAccountNumber = account.AccountNumberCU
		e.CrAmount = leg.Amount
		e.Amount = leg.Amount
		e.CrCurrentBalance = account.CurrentBalance
		e.CrBalanceBroughtForward = account.LastBalance
	}

	return e
}
