package usecase

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/fintracore/corebank/internal/domain"
	"github.com/fintracore/corebank/internal/infrastructure/metrics"
)

// PostingUseCase orchestrates one double-entry posting: guard, balance
// mutation, entry generation, and atomic persistence of the two mutated
// accounts and the two entries.
type PostingUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	entryRepo   EntryRepository
	outboxRepo  OutboxRepository
	auditRepo   AuditRepository
	resolver    *ResolverUseCase
	idGen       IDGenerator
	retrier     Retrier
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewPostingUseCase creates a new PostingUseCase.
func NewPostingUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	resolver *ResolverUseCase,
	idGen IDGenerator,
	logger zerolog.Logger,
) *PostingUseCase {
	return &PostingUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		outboxRepo:  outboxRepo,
		auditRepo:   auditRepo,
		resolver:    resolver,
		idGen:       idGen,
		logger:      logger,
	}
}

// WithRetrier makes Post re-run the posting transaction after a deadlock or a
// lost version race, with freshly loaded accounts on each attempt.
func (uc *PostingUseCase) WithRetrier(retrier Retrier) *PostingUseCase {
	uc.retrier = retrier
	return uc
}

// WithMetrics attaches posting metrics.
func (uc *PostingUseCase) WithMetrics(m *metrics.Metrics) *PostingUseCase {
	uc.metrics = m
	return uc
}

// PostInput represents one posting between two already-resolved accounts.
type PostInput struct {
	ValueDate       time.Time
	Narration       string
	MemberReference string
	ReferenceID     string
	DebitAccountID  string
	CreditAccountID string
	BranchID        string
	Initiator       string
	Token           string
	Amount          decimal.Decimal
	InterBranch     bool
}

// Post posts one business transaction and returns the generated debit and
// credit entries. Both mutated accounts and both entries are persisted in a
// single database transaction.
func (uc *PostingUseCase) Post(ctx context.Context, input PostInput) ([]*domain.AccountingEntry, error) {
	start := time.Now()

	if err := domain.ValidateAmount(input.Amount); err != nil {
		uc.countError(err)
		uc.auditError(ctx, input.Initiator, input.Token, domain.AuditContextPosting, domain.MarshalState(input), err)
		return nil, err
	}

	var entries []*domain.AccountingEntry
	attempt := func() error {
		var err error
		entries, err = uc.postOnce(ctx, input)
		return err
	}

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, attempt)
	} else {
		err = attempt()
	}
	if err != nil {
		uc.countError(err)
		uc.auditError(ctx, input.Initiator, input.Token, domain.AuditContextPosting, domain.MarshalState(input), err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.PostingsCommitted.Inc()
		uc.metrics.PostingDuration.Observe(time.Since(start).Seconds())
		uc.metrics.PostingAmount.Observe(input.Amount.InexactFloat64())
		uc.metrics.EntriesWritten.Add(float64(len(entries)))
	}

	uc.audit(ctx, &domain.AuditLog{
		Actor:      input.Initiator,
		Context:    domain.AuditContextPosting,
		Payload:    domain.MarshalState(entries),
		Message:    "posting committed",
		Severity:   domain.AuditSeverityInfo,
		Token:      input.Token,
		StatusCode: http.StatusOK,
		CreatedAt:  time.Now().UTC(),
	})

	return entries, nil
}

// postOnce runs one transactional posting attempt against freshly locked
// accounts.
func (uc *PostingUseCase) postOnce(ctx context.Context, input PostInput) ([]*domain.AccountingEntry, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	debit, credit, err := uc.lockPair(ctx, tx, input.DebitAccountID, input.CreditAccountID)
	if err != nil {
		return nil, err
	}

	entries, err := uc.postPair(ctx, tx, debit, credit, input)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.logger.Info().
		Str("reference_id", input.ReferenceID).
		Str("debit_account", debit.AccountNumberCU).
		Str("credit_account", credit.AccountNumberCU).
		Str("amount", input.Amount.String()).
		Msg("posting committed")

	return entries, nil
}

// EventPostingInput posts by business-event code, letting the resolver pick
// the accounts from the accounting rule table.
type EventPostingInput struct {
	ValueDate       time.Time
	Context         PostingContext
	Narration       string
	MemberReference string
	ReferenceID     string
	Amount          decimal.Decimal
}

// PostEvent resolves the posting context to an account pair and posts. The
// rule's booking direction decides which leg is debited: when the
// determination leg is DEBIT-normal the determination account takes the debit.
func (uc *PostingUseCase) PostEvent(ctx context.Context, input EventPostingInput) ([]*domain.AccountingEntry, error) {
	pair, err := uc.resolver.Resolve(ctx, input.Context)
	if err != nil {
		uc.auditError(ctx, input.Context.Actor, input.Context.Token, domain.AuditContextResolver, domain.MarshalState(input), err)
		return nil, err
	}

	debitID := pair.Determination.ID
	creditID := pair.Balancing.ID
	if pair.Rule.BookingDirection == domain.OperationCredit {
		debitID, creditID = creditID, debitID
	}

	return uc.Post(ctx, PostInput{
		Narration:       input.Narration,
		MemberReference: input.MemberReference,
		ValueDate:       input.ValueDate,
		ReferenceID:     input.ReferenceID,
		DebitAccountID:  debitID,
		CreditAccountID: creditID,
		BranchID:        input.Context.BranchID,
		Initiator:       input.Context.Actor,
		Token:           input.Context.Token,
		Amount:          input.Amount,
		InterBranch:     pair.Rule.IsLiaisonRule,
	})
}

// TransferInput describes an inter-branch transfer routed through liaison
// accounts: source branch to its liaison leg, then the destination branch's
// reciprocal liaison leg to the destination.
type TransferInput struct {
	ValueDate           time.Time
	EventCode           string
	Narration           string
	MemberReference     string
	ReferenceID         string
	SourceBranchID      string
	DestinationBranchID string
	Actor               string
	Token               string
	Amount              decimal.Decimal
}

// PostTransfer chains two postings (source -> liaison, liaison -> destination)
// and concatenates their entries.
func (uc *PostingUseCase) PostTransfer(ctx context.Context, input TransferInput) ([]*domain.AccountingEntry, error) {
	sourceLeg, err := uc.PostEvent(ctx, EventPostingInput{
		Context: PostingContext{
			EventCode:       input.EventCode,
			BranchID:        input.SourceBranchID,
			LiaisonBranchID: input.DestinationBranchID,
			Actor:           input.Actor,
			Token:           input.Token,
		},
		Narration:       input.Narration,
		MemberReference: input.MemberReference,
		ValueDate:       input.ValueDate,
		ReferenceID:     input.ReferenceID,
		Amount:          input.Amount,
	})
	if err != nil {
		return nil, err
	}

	destinationLeg, err := uc.PostEvent(ctx, EventPostingInput{
		Context: PostingContext{
			EventCode:       input.EventCode,
			BranchID:        input.DestinationBranchID,
			LiaisonBranchID: input.SourceBranchID,
			Actor:           input.Actor,
			Token:           input.Token,
		},
		Narration:       input.Narration,
		MemberReference: input.MemberReference,
		ValueDate:       input.ValueDate,
		ReferenceID:     input.ReferenceID,
		Amount:          input.Amount,
	})
	if err != nil {
		uc.auditError(ctx, input.Actor, input.Token, domain.AuditContextTransfer, domain.MarshalState(input), err)
		return nil, err
	}

	return append(sourceLeg, destinationLeg...), nil
}

// ManualPostingInput posts a single ad-hoc leg against one account.
type ManualPostingInput struct {
	ValueDate   time.Time
	AccountID   string
	Narration   string
	ReferenceID string
	Initiator   string
	Token       string
	Amount      decimal.Decimal
	Operation   domain.OperationType
}

// PostManual applies one manual leg and persists the account and its entry.
func (uc *PostingUseCase) PostManual(ctx context.Context, input ManualPostingInput) (*domain.AccountingEntry, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		uc.auditError(ctx, input.Initiator, input.Token, domain.AuditContextPosting, domain.MarshalState(input), err)
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, input.AccountID)
	if err != nil {
		uc.auditError(ctx, input.Initiator, input.Token, domain.AuditContextPosting, domain.MarshalState(input), err)
		return nil, err
	}

	now := time.Now().UTC()
	if err := account.Apply(input.Amount, input.Operation, input.Initiator, now); err != nil {
		uc.auditError(ctx, input.Initiator, input.Token, domain.AuditContextPosting, domain.MarshalState(account), err)
		return nil, err
	}

	entry := domain.NewManualEntry(uc.idGen.Generate(), account, domain.ManualLeg{
		Amount:      input.Amount,
		Operation:   input.Operation,
		Narration:   input.Narration,
		ReferenceID: input.ReferenceID,
	}, input.Initiator, now, input.ValueDate)

	if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalances(ctx, tx, account); err != nil {
		return nil, err
	}
	account.Version++

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return entry, nil
}

// lockPair loads both accounts under row locks in sorted id order to keep
// concurrent postings deadlock-free.
func (uc *PostingUseCase) lockPair(ctx context.Context, tx Transaction, debitID, creditID string) (*domain.Account, *domain.Account, error) {
	ids := []string{debitID, creditID}
	sort.Strings(ids)

	byID := make(map[string]*domain.Account, 2)
	for _, id := range ids {
		account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return nil, nil, err
		}
		byID[id] = account
	}

	return byID[debitID], byID[creditID], nil
}

// postPair runs the core posting state machine over an already-locked pair:
// root guard, debit leg, credit leg, entry generation, persistence.
func (uc *PostingUseCase) postPair(ctx context.Context, tx Transaction, debit, credit *domain.Account, input PostInput) ([]*domain.AccountingEntry, error) {
	if debit.IsRoot() || credit.IsRoot() {
		return nil, domain.NewRootAccountError(debit, credit)
	}

	now := time.Now().UTC()

	// Sequential by design: the credit leg's brought-forward figures must be
	// captured after the debit leg for a deterministic entry pair.
	if err := debit.Apply(input.Amount, domain.OperationDebit, input.Initiator, now); err != nil {
		return nil, err
	}

	if err := credit.Apply(input.Amount, domain.OperationCredit, input.Initiator, now); err != nil {
		return nil, err
	}

	booking := domain.Booking{
		Amount:          input.Amount,
		Narration:       input.Narration,
		MemberReference: input.MemberReference,
		ReferenceID:     input.ReferenceID,
		DebitAccountID:  debit.ID,
		CreditAccountID: credit.ID,
		InterBranch:     input.InterBranch,
	}

	entries := []*domain.AccountingEntry{
		domain.NewDebitEntry(uc.idGen.Generate(), booking, debit, credit, input.Initiator, now, input.ValueDate),
		domain.NewCreditEntry(uc.idGen.Generate(), booking, debit, credit, input.Initiator, now, input.ValueDate),
	}

	for _, entry := range entries {
		if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
			return nil, err
		}
	}

	for _, account := range []*domain.Account{debit, credit} {
		if err := uc.accountRepo.UpdateBalances(ctx, tx, account); err != nil {
			return nil, err
		}
		account.Version++
	}

	if uc.outboxRepo != nil {
		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   input.ReferenceID,
			AggregateType: domain.AggregateTypePosting,
			EventType:     domain.EventTypeEntryPosted,
			Payload: map[string]any{
				"reference_id":   input.ReferenceID,
				"debit_account":  debit.AccountNumberCU,
				"credit_account": credit.AccountNumberCU,
				"amount":         input.Amount.String(),
			},
			CreatedAt: now,
		}
		if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
			return nil, err
		}
	}

	return entries, nil
}

// auditError records a failed posting attempt with its offending payload.
func (uc *PostingUseCase) auditError(ctx context.Context, actor, token, contextLabel string, payload domain.JSON, cause error) {
	uc.audit(ctx, &domain.AuditLog{
		Actor:      actor,
		Context:    contextLabel,
		Payload:    payload,
		Message:    cause.Error(),
		Severity:   domain.AuditSeverityError,
		Token:      token,
		StatusCode: http.StatusUnprocessableEntity,
		CreatedAt:  time.Now().UTC(),
	})
}

// audit writes one audit row. Audit failures are logged, never allowed to
// mask the posting outcome.
func (uc *PostingUseCase) audit(ctx context.Context, log *domain.AuditLog) {
	if err := uc.auditRepo.Create(ctx, log); err != nil {
		uc.logger.Error().Err(err).Str("context", log.Context).Msg("failed to write audit log")
		return
	}

	if uc.metrics != nil {
		uc.metrics.AuditLogsCreated.WithLabelValues(log.Context, log.Severity).Inc()
	}
}

// countError bumps the posting error counter with a coarse error class.
func (uc *PostingUseCase) countError(err error) {
	if uc.metrics == nil {
		return
	}

	label := "other"
	switch {
	case errors.Is(err, domain.ErrConfigurationMissing):
		label = "configuration_missing"
	case errors.Is(err, domain.ErrRootAccountViolation):
		label = "root_account"
	case errors.Is(err, domain.ErrInvalidAmount):
		label = "invalid_amount"
	case errors.Is(err, domain.ErrStaleAccount):
		label = "stale_account"
	case errors.Is(err, domain.ErrAccountNotFound):
		label = "account_not_found"
	}

	uc.metrics.PostingErrors.WithLabelValues(label).Inc()
}
