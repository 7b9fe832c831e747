package usecase

import (
	"context"
	"errors"

	"github.com/fintracore/corebank/internal/domain"
)

// ErrInconsistentLedger is returned when ledger-wide debit and credit totals
// diverge.
var ErrInconsistentLedger = errors.New("ledger is inconsistent: debits do not equal credits")

// LedgerUseCase handles ledger-wide checks.
type LedgerUseCase struct {
	ledgerRepo LedgerRepository
	entryRepo  EntryRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(ledgerRepo LedgerRepository, entryRepo EntryRepository) *LedgerUseCase {
	return &LedgerUseCase{
		ledgerRepo: ledgerRepo,
		entryRepo:  entryRepo,
	}
}

// ValidateReference loads the entries of one transaction reference and runs
// the double-entry cross-check over them. The check reports a boolean; it is
// a pre-commit sanity tool for callers, not an enforcement gate.
func (uc *LedgerUseCase) ValidateReference(ctx context.Context, referenceID string) (bool, error) {
	entries, err := uc.entryRepo.GetByReference(ctx, referenceID)
	if err != nil {
		return false, err
	}

	if len(entries) == 0 {
		return false, domain.ErrEntryNotFound
	}

	return domain.IsBalanced(entries), nil
}

// CheckConsistency verifies that ledger-wide DrAmount and CrAmount totals
// match across all posted entries.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (bool, error) {
	totalDebit, totalCredit, err := uc.ledgerRepo.SumEntryColumns(ctx)
	if err != nil {
		return false, err
	}

	if !totalDebit.Equal(totalCredit) {
		return false, ErrInconsistentLedger
	}

	return true, nil
}
