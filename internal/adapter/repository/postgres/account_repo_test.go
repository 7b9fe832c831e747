package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/fintracore/corebank/internal/domain"
)

func TestAccountRepositoryUpdateBalancesStaleVersion(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectExec("UPDATE accounts").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mockPool.ExpectRollback()

	tx, err := newTxManagerWithPool(mockPool).Begin(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer tx.Rollback(context.Background())

	repo := &AccountRepository{}
	account := &domain.Account{
		ID:             "acc-1",
		AccountNumber:  "571000",
		DebitBalance:   decimal.NewFromInt(1000),
		CurrentBalance: decimal.NewFromInt(1000),
		ModifiedBy:     "teller-7",
		ModifiedAt:     time.Now().UTC(),
		Version:        3,
	}

	err = repo.UpdateBalances(context.Background(), tx, account)
	if !errors.Is(err, domain.ErrStaleAccount) {
		t.Fatalf("expected ErrStaleAccount on zero rows, got %v", err)
	}
}

func TestAccountRepositoryUpdateBalancesSuccess(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectExec("UPDATE accounts").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectCommit()

	tx, err := newTxManagerWithPool(mockPool).Begin(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	repo := &AccountRepository{}
	account := &domain.Account{
		ID:            "acc-1",
		AccountNumber: "571000",
		ModifiedAt:    time.Now().UTC(),
	}

	if err := repo.UpdateBalances(context.Background(), tx, account); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := tx.Commit(context.Background()); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	assertExpectations(t, mockPool)
}
