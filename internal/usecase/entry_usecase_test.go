package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fintracore/corebank/internal/domain"
	"github.com/fintracore/corebank/internal/usecase"
	"github.com/fintracore/corebank/internal/usecase/mocks"
)

func TestEntryUseCase_GetEntriesByReference(t *testing.T) {
	entryRepo := mocks.NewMockEntryRepository()
	entryRepo.Create(context.Background(), nil, &domain.AccountingEntry{
		ID: "e-1", ReferenceID: "ref-1", EntryType: domain.EntryTypeDebit,
		DrAmount: decimal.NewFromInt(100),
	})
	entryRepo.Create(context.Background(), nil, &domain.AccountingEntry{
		ID: "e-2", ReferenceID: "ref-1", EntryType: domain.EntryTypeCredit,
		CrAmount: decimal.NewFromInt(100),
	})
	entryRepo.Create(context.Background(), nil, &domain.AccountingEntry{
		ID: "e-3", ReferenceID: "ref-2", EntryType: domain.EntryTypeDebit,
	})

	uc := usecase.NewEntryUseCase(entryRepo)

	entries, err := uc.GetEntriesByReference(context.Background(), "ref-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 entries, got %d", len(entries))
	}
}

func TestEntryUseCase_GetEntriesByAccount(t *testing.T) {
	entryRepo := mocks.NewMockEntryRepository()

	var gotLimit int
	entryRepo.GetByAccountNumberFunc = func(ctx context.Context, accountNumberCU string, limit, offset int) ([]*domain.AccountingEntry, error) {
		gotLimit = limit
		return nil, nil
	}

	uc := usecase.NewEntryUseCase(entryRepo)

	if _, err := uc.GetEntriesByAccount(context.Background(), usecase.GetEntriesByAccountInput{
		AccountNumberCU: "571000001001",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != usecase.DefaultPageSize {
		t.Errorf("expected default page size, got %d", gotLimit)
	}

	if _, err := uc.GetEntriesByAccount(context.Background(), usecase.GetEntriesByAccountInput{
		AccountNumberCU: "571000001001",
		Limit:           5000,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != usecase.MaxPageSize {
		t.Errorf("expected clamped page size, got %d", gotLimit)
	}
}
