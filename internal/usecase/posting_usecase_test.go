package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/fintracore/corebank/internal/domain"
	"github.com/fintracore/corebank/internal/usecase"
	"github.com/fintracore/corebank/internal/usecase/mocks"
)

type postingFixture struct {
	accountRepo *mocks.MockAccountRepository
	entryRepo   *mocks.MockEntryRepository
	outboxRepo  *mocks.MockOutboxRepository
	auditRepo   *mocks.MockAuditRepository
	txMgr       *mocks.MockTransactionManager
	uc          *usecase.PostingUseCase
}

func newPostingFixture(resolver *usecase.ResolverUseCase) *postingFixture {
	f := &postingFixture{
		accountRepo: mocks.NewMockAccountRepository(),
		entryRepo:   mocks.NewMockEntryRepository(),
		outboxRepo:  mocks.NewMockOutboxRepository(),
		auditRepo:   mocks.NewMockAuditRepository(),
		txMgr:       mocks.NewMockTransactionManager(),
	}

	f.uc = usecase.NewPostingUseCase(
		f.txMgr, f.accountRepo, f.entryRepo, f.outboxRepo, f.auditRepo,
		resolver, mocks.NewMockIDGenerator(), zerolog.Nop(),
	)

	return f
}

func TestPostingUseCase_Post(t *testing.T) {
	f := newPostingFixture(nil)
	f.accountRepo.Put(&domain.Account{ID: "acc-cash", AccountNumber: "571000", AccountNumberCU: "571000001001", BranchID: "br-1"})
	f.accountRepo.Put(&domain.Account{ID: "acc-fund", AccountNumber: "101000", AccountNumberCU: "101000001001", BranchID: "br-1"})

	entries, err := f.uc.Post(context.Background(), usecase.PostInput{
		ReferenceID:     "ref-1",
		DebitAccountID:  "acc-cash",
		CreditAccountID: "acc-fund",
		BranchID:        "br-1",
		Initiator:       "teller-7",
		Token:           "tok-teller-7",
		Narration:       "cash deposit",
		Amount:          decimal.NewFromInt(1000),
		ValueDate:       time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	debitEntry, creditEntry := entries[0], entries[1]
	if debitEntry.EntryType != domain.EntryTypeDebit || creditEntry.EntryType != domain.EntryTypeCredit {
		t.Errorf("expected a DEBIT/CREDIT pair, got %s/%s", debitEntry.EntryType, creditEntry.EntryType)
	}
	if !debitEntry.DrAmount.Equal(decimal.NewFromInt(1000)) || !creditEntry.CrAmount.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected 1000 on each perspective, got dr=%s cr=%s", debitEntry.DrAmount, creditEntry.CrAmount)
	}
	if !debitEntry.Amount.Add(creditEntry.Amount).IsZero() {
		t.Errorf("expected signed amounts to cancel, got %s and %s", debitEntry.Amount, creditEntry.Amount)
	}

	cash, _ := f.accountRepo.GetByID(context.Background(), "acc-cash")
	if !cash.CurrentBalance.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected cash balance 1000, got %s", cash.CurrentBalance)
	}
	if cash.Version != 1 {
		t.Errorf("expected version bump to 1, got %d", cash.Version)
	}

	fund, _ := f.accountRepo.GetByID(context.Background(), "acc-fund")
	if !fund.CurrentBalance.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected fund balance 1000, got %s", fund.CurrentBalance)
	}

	if len(f.txMgr.Transactions) != 1 || !f.txMgr.Transactions[0].Committed {
		t.Error("expected a single committed transaction")
	}

	if events := f.outboxRepo.Events(); len(events) != 1 || events[0].EventType != domain.EventTypeEntryPosted {
		t.Errorf("expected one entry.posted outbox event, got %v", events)
	}

	logs := f.auditRepo.Logs()
	if len(logs) != 1 || logs[0].Severity != domain.AuditSeverityInfo {
		t.Fatalf("expected one info audit row, got %v", logs)
	}
	if logs[0].Token != "tok-teller-7" {
		t.Errorf("expected audit row to record the request token, got %q", logs[0].Token)
	}

	// The committed entries ride on the audit row, wrapped so the slice
	// survives the conversion to a JSON object.
	items, ok := logs[0].Payload["items"].([]any)
	if !ok || len(items) != 2 {
		t.Errorf("expected both committed entries in the audit payload, got %v", logs[0].Payload)
	}
}

func TestPostingUseCase_Post_RootAccountGuard(t *testing.T) {
	f := newPostingFixture(nil)
	f.accountRepo.Put(&domain.Account{ID: "acc-root", AccountNumber: "000100", AccountNumberCU: "000100001001", BranchID: "br-1"})
	f.accountRepo.Put(&domain.Account{ID: "acc-fund", AccountNumber: "101000", AccountNumberCU: "101000001001", BranchID: "br-1"})

	_, err := f.uc.Post(context.Background(), usecase.PostInput{
		ReferenceID:     "ref-1",
		DebitAccountID:  "acc-root",
		CreditAccountID: "acc-fund",
		Initiator:       "teller-7",
		Amount:          decimal.NewFromInt(100),
	})
	if !errors.Is(err, domain.ErrRootAccountViolation) {
		t.Fatalf("expected ErrRootAccountViolation, got %v", err)
	}

	if got := f.entryRepo.Entries(); len(got) != 0 {
		t.Errorf("expected no entries on root violation, got %d", len(got))
	}

	fund, _ := f.accountRepo.GetByID(context.Background(), "acc-fund")
	if !fund.CurrentBalance.IsZero() || fund.Version != 0 {
		t.Error("expected credit account untouched on root violation")
	}

	if len(f.txMgr.Transactions) != 1 || !f.txMgr.Transactions[0].RolledBack {
		t.Error("expected the transaction to roll back")
	}

	logs := f.auditRepo.Logs()
	if len(logs) != 1 || logs[0].Severity != domain.AuditSeverityError {
		t.Fatalf("expected one error audit row, got %v", logs)
	}
}

func TestPostingUseCase_Post_InvalidAmount(t *testing.T) {
	f := newPostingFixture(nil)

	_, err := f.uc.Post(context.Background(), usecase.PostInput{
		ReferenceID:     "ref-1",
		DebitAccountID:  "acc-1",
		CreditAccountID: "acc-2",
		Initiator:       "teller-7",
		Amount:          decimal.NewFromInt(-5),
	})
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	if len(f.txMgr.Transactions) != 0 {
		t.Error("expected no transaction for a rejected amount")
	}
}

func TestPostingUseCase_PostEvent_BookingDirection(t *testing.T) {
	tests := []struct {
		name          string
		direction     domain.OperationType
		wantDebitAcct string
	}{
		{"debit direction keeps determination on the debit leg", domain.OperationDebit, "571000001001"},
		{"credit direction swaps the legs", domain.OperationCredit, "701000001001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ruleRepo := mocks.NewMockRuleRepository()
			ruleRepo.Put(&domain.AccountingRuleEntry{
				ID:                     "rule-1",
				EventCode:              "EV-FEE",
				DeterminationAccountID: "pos-det",
				BalancingAccountID:     "pos-bal",
				BookingDirection:       tt.direction,
			})

			accountRepo := mocks.NewMockAccountRepository()
			accountRepo.Put(&domain.Account{ID: "acc-det", AccountNumber: "571000", AccountNumberCU: "571000001001", ChartPositionID: "pos-det", BranchID: "br-1"})
			accountRepo.Put(&domain.Account{ID: "acc-bal", AccountNumber: "701000", AccountNumberCU: "701000001001", ChartPositionID: "pos-bal", BranchID: "br-1"})

			resolver := newResolver(ruleRepo, mocks.NewMockChartRepository(), accountRepo, mocks.NewMockBranchService(), mocks.NewMockAccountCreator(accountRepo))

			f := newPostingFixture(resolver)
			f.accountRepo.FindByPositionFunc = accountRepo.FindByPosition
			f.accountRepo.GetByIDForUpdateFunc = func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
				return accountRepo.GetByID(ctx, id)
			}
			f.accountRepo.UpdateBalancesFunc = func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
				accountRepo.Put(account)
				return nil
			}

			entries, err := f.uc.PostEvent(context.Background(), usecase.EventPostingInput{
				Context: usecase.PostingContext{
					EventCode: "EV-FEE",
					BranchID:  "br-1",
					Actor:     "teller-7",
				},
				ReferenceID: "ref-1",
				Amount:      decimal.NewFromInt(250),
				ValueDate:   time.Now().UTC(),
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if entries[0].DebitAccountNumber != tt.wantDebitAcct {
				t.Errorf("expected debit leg %s, got %s", tt.wantDebitAcct, entries[0].DebitAccountNumber)
			}
		})
	}
}

func TestPostingUseCase_PostTransfer(t *testing.T) {
	ruleRepo := mocks.NewMockRuleRepository()
	ruleRepo.Put(&domain.AccountingRuleEntry{
		ID:                     "rule-xfer",
		EventCode:              "EV-XFER",
		DeterminationAccountID: "pos-det",
		BalancingAccountID:     "pos-bal",
		BookingDirection:       domain.OperationDebit,
		IsLiaisonRule:          true,
	})

	home, away := homeBranchID, "br-away"

	accountRepo := mocks.NewMockAccountRepository()
	accountRepo.Put(&domain.Account{ID: "acc-home-det", AccountNumber: "571000", AccountNumberCU: "571000001001", ChartPositionID: "pos-det", BranchID: home})
	accountRepo.Put(&domain.Account{ID: "acc-home-liaison", AccountNumber: "451000", AccountNumberCU: "451000001001", ChartPositionID: "pos-bal", BranchID: home, LiaisonBranchID: &away})
	accountRepo.Put(&domain.Account{ID: "acc-away-liaison", AccountNumber: "571000", AccountNumberCU: "571000002001", ChartPositionID: "pos-det", BranchID: away, LiaisonBranchID: &home})
	accountRepo.Put(&domain.Account{ID: "acc-away-bal", AccountNumber: "451000", AccountNumberCU: "451000002001", ChartPositionID: "pos-bal", BranchID: away})

	resolver := newResolver(ruleRepo, mocks.NewMockChartRepository(), accountRepo, mocks.NewMockBranchService(), mocks.NewMockAccountCreator(accountRepo))

	f := newPostingFixture(resolver)
	f.accountRepo.GetByIDForUpdateFunc = func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
		return accountRepo.GetByID(ctx, id)
	}
	f.accountRepo.UpdateBalancesFunc = func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
		accountRepo.Put(account)
		return nil
	}

	entries, err := f.uc.PostTransfer(context.Background(), usecase.TransferInput{
		EventCode:           "EV-XFER",
		ReferenceID:         "ref-xfer",
		SourceBranchID:      home,
		DestinationBranchID: away,
		Actor:               "teller-7",
		Narration:           "inter-branch transfer",
		Amount:              decimal.NewFromInt(500),
		ValueDate:           time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entries) != 4 {
		t.Fatalf("expected 4 entries across both legs, got %d", len(entries))
	}

	for _, e := range entries {
		if e.ReferenceID != "ref-xfer" {
			t.Errorf("expected shared reference ref-xfer, got %s", e.ReferenceID)
		}
	}

	if len(f.txMgr.Transactions) != 2 {
		t.Errorf("expected one transaction per leg, got %d", len(f.txMgr.Transactions))
	}
}

func TestPostingUseCase_PostManual(t *testing.T) {
	f := newPostingFixture(nil)
	f.accountRepo.Put(&domain.Account{ID: "acc-cash", AccountNumber: "571000", AccountNumberCU: "571000001001", BranchID: "br-1"})

	entry, err := f.uc.PostManual(context.Background(), usecase.ManualPostingInput{
		AccountID:   "acc-cash",
		ReferenceID: "ref-adj",
		Initiator:   "supervisor-1",
		Narration:   "vault adjustment",
		Amount:      decimal.NewFromInt(75),
		Operation:   domain.OperationCredit,
		ValueDate:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if entry.EntryType != domain.EntryTypeCredit || !entry.CrAmount.Equal(decimal.NewFromInt(75)) {
		t.Errorf("expected a credit entry of 75, got %s %s", entry.EntryType, entry.CrAmount)
	}

	cash, _ := f.accountRepo.GetByID(context.Background(), "acc-cash")
	if !cash.CurrentBalance.Equal(decimal.NewFromInt(-75)) {
		t.Errorf("expected current balance -75 for a credited debit-normal account, got %s", cash.CurrentBalance)
	}
}

type rerunRetrier struct {
	attempts int
}

func (r *rerunRetrier) Retry(ctx context.Context, operation func() error) error {
	var err error
	for i := 0; i < 3; i++ {
		r.attempts++
		if err = operation(); err == nil || !errors.Is(err, domain.ErrStaleAccount) {
			return err
		}
	}
	return err
}

func TestPostingUseCase_Post_RetriesLostVersionRace(t *testing.T) {
	f := newPostingFixture(nil)

	seed := map[string]*domain.Account{
		"acc-cash": {ID: "acc-cash", AccountNumber: "571000", AccountNumberCU: "571000001001", BranchID: "br-1"},
		"acc-fund": {ID: "acc-fund", AccountNumber: "101000", AccountNumberCU: "101000001001", BranchID: "br-1"},
	}
	f.accountRepo.GetByIDForUpdateFunc = func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
		acc, ok := seed[id]
		if !ok {
			return nil, domain.ErrAccountNotFound
		}
		clone := *acc
		return &clone, nil
	}

	failures := 1
	f.accountRepo.UpdateBalancesFunc = func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
		if failures > 0 {
			failures--
			return domain.ErrStaleAccount
		}
		return nil
	}

	retrier := &rerunRetrier{}
	f.uc.WithRetrier(retrier)

	entries, err := f.uc.Post(context.Background(), usecase.PostInput{
		ReferenceID:     "ref-race",
		DebitAccountID:  "acc-cash",
		CreditAccountID: "acc-fund",
		BranchID:        "br-1",
		Initiator:       "teller-7",
		Narration:       "cash deposit",
		Amount:          decimal.NewFromInt(250),
		ValueDate:       time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if retrier.attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", retrier.attempts)
	}
}
