package usecase

import (
	"context"

	"github.com/fintracore/corebank/internal/domain"
)

// EntryUseCase handles accounting-entry reads.
type EntryUseCase struct {
	entryRepo EntryRepository
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(entryRepo EntryRepository) *EntryUseCase {
	return &EntryUseCase{entryRepo: entryRepo}
}

// GetEntriesByReference lists the entries of one transaction reference.
func (uc *EntryUseCase) GetEntriesByReference(ctx context.Context, referenceID string) ([]*domain.AccountingEntry, error) {
	return uc.entryRepo.GetByReference(ctx, referenceID)
}

// GetEntriesByAccountInput represents input for listing entries.
type GetEntriesByAccountInput struct {
	AccountNumberCU string
	Limit           int
	Offset          int
}

// GetEntriesByAccount lists entries touching an account.
func (uc *EntryUseCase) GetEntriesByAccount(ctx context.Context, input GetEntriesByAccountInput) ([]*domain.AccountingEntry, error) {
	if input.Limit <= 0 {
		input.Limit = DefaultPageSize
	}

	if input.Limit > MaxPageSize {
		input.Limit = MaxPageSize
	}

	return uc.entryRepo.GetByAccountNumber(ctx, input.AccountNumberCU, input.Limit, input.Offset)
}
