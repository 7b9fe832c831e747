package usecase

import (
	"context"

	"github.com/fintracore/corebank/internal/domain"
)

// AccountUseCase handles account reads. Accounts are created by the resolver
// and mutated only by postings, so there is no write surface here.
type AccountUseCase struct {
	accountRepo AccountRepository
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository) *AccountUseCase {
	return &AccountUseCase{accountRepo: accountRepo}
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	BranchID string
	Limit    int
	Offset   int
}

// ListAccounts lists a branch's accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	if input.Limit <= 0 {
		input.Limit = DefaultPageSize
	}
	if input.Limit > MaxPageSize {
		input.Limit = MaxPageSize
	}

	if input.BranchID == "" {
		return uc.accountRepo.ListAll(ctx, input.Limit, input.Offset)
	}

	return uc.accountRepo.ListByBranch(ctx, input.BranchID, input.Limit, input.Offset)
}
