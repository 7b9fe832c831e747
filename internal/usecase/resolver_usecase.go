package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/fintracore/corebank/internal/domain"
	"github.com/fintracore/corebank/internal/infrastructure/metrics"
)

// PostingContext identifies what is being posted and where. It replaces the
// per-command resolver overloads of older back offices with one tagged value:
// exactly one of EventCode or ProductID selects the accounting rule, and the
// branch fields select the ledger topology.
type PostingContext struct {
	EventCode       string
	ProductID       string
	BranchID        string // branch where the business event occurred
	LiaisonBranchID string // away branch for inter-branch events
	Actor           string
	Token           string // raw bearer token, recorded on audit rows
}

// ResolvedPair is the outcome of a resolution: the determination leg and the
// balancing leg, plus the rule that selected them.
type ResolvedPair struct {
	Determination *domain.Account
	Balancing     *domain.Account
	Rule          *domain.AccountingRuleEntry
}

// ResolverUseCase maps posting contexts to concrete ledger accounts, creating
// accounts lazily the first time a branch needs a chart position.
type ResolverUseCase struct {
	ruleRepo     RuleRepository
	chartRepo    ChartRepository
	accountRepo  AccountRepository
	branchSvc    BranchService
	creator      AccountCreator
	idGen        IDGenerator
	metrics      *metrics.Metrics
	logger       zerolog.Logger
	homeBranchID string
}

// NewResolverUseCase creates a new ResolverUseCase. homeBranchID is the branch
// this service instance posts for; it selects the liaison topology.
func NewResolverUseCase(
	ruleRepo RuleRepository,
	chartRepo ChartRepository,
	accountRepo AccountRepository,
	branchSvc BranchService,
	creator AccountCreator,
	idGen IDGenerator,
	logger zerolog.Logger,
	homeBranchID string,
) *ResolverUseCase {
	return &ResolverUseCase{
		ruleRepo:     ruleRepo,
		chartRepo:    chartRepo,
		accountRepo:  accountRepo,
		branchSvc:    branchSvc,
		creator:      creator,
		idGen:        idGen,
		logger:       logger,
		homeBranchID: homeBranchID,
	}
}

// WithMetrics attaches resolver metrics.
func (uc *ResolverUseCase) WithMetrics(m *metrics.Metrics) *ResolverUseCase {
	uc.metrics = m
	return uc
}

// Resolve looks up the accounting rule for the posting context and returns
// the determination and balancing accounts. It never mutates balances; a
// missing rule or determination id fails loudly before any account is touched.
func (uc *ResolverUseCase) Resolve(ctx context.Context, pc PostingContext) (*ResolvedPair, error) {
	start := time.Now()

	pair, err := uc.resolve(ctx, pc)

	if uc.metrics != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		uc.metrics.ResolverLookups.WithLabelValues(outcome).Inc()
		uc.metrics.ResolverDuration.Observe(time.Since(start).Seconds())
	}

	return pair, err
}

func (uc *ResolverUseCase) resolve(ctx context.Context, pc PostingContext) (*ResolvedPair, error) {
	rule, err := uc.lookupRule(ctx, pc)
	if err != nil {
		return nil, err
	}

	if rule.DeterminationAccountID == "" || rule.BalancingAccountID == "" {
		return nil, fmt.Errorf("%w: rule %s has no determination or balancing account", domain.ErrConfigurationMissing, rule.ID)
	}

	var determination, balancing *domain.Account

	switch {
	case !rule.IsLiaisonRule:
		// Same-branch topology: both legs live in the event branch's books.
		determination, err = uc.resolveAccount(ctx, rule.DeterminationAccountID, pc.BranchID, nil, pc.Actor)
		if err != nil {
			return nil, err
		}

		balancing, err = uc.resolveAccount(ctx, rule.BalancingAccountID, pc.BranchID, nil, pc.Actor)
		if err != nil {
			return nil, err
		}
	case pc.BranchID == uc.homeBranchID:
		// Inter-branch, home leg: home books the event; the balancing leg is
		// the liaison account representing the away branch in home's books.
		// A liaison rule with no liaison branch named fails loudly instead of
		// instantiating an account keyed on an empty branch.
		if pc.LiaisonBranchID == "" {
			return nil, fmt.Errorf("%w: liaison rule %s posted without a liaison branch", domain.ErrConfigurationMissing, rule.ID)
		}

		determination, err = uc.resolveAccount(ctx, rule.DeterminationAccountID, uc.homeBranchID, nil, pc.Actor)
		if err != nil {
			return nil, err
		}

		liaison := pc.LiaisonBranchID
		balancing, err = uc.resolveAccount(ctx, rule.BalancingAccountID, uc.homeBranchID, &liaison, pc.Actor)
		if err != nil {
			return nil, err
		}
	default:
		// Away-branch reciprocal: the away branch's books hold the mirror
		// liaison account toward home.
		home := uc.homeBranchID
		determination, err = uc.resolveAccount(ctx, rule.DeterminationAccountID, pc.BranchID, &home, pc.Actor)
		if err != nil {
			return nil, err
		}

		balancing, err = uc.resolveAccount(ctx, rule.BalancingAccountID, pc.BranchID, nil, pc.Actor)
		if err != nil {
			return nil, err
		}
	}

	return &ResolvedPair{Determination: determination, Balancing: balancing, Rule: rule}, nil
}

func (uc *ResolverUseCase) lookupRule(ctx context.Context, pc PostingContext) (*domain.AccountingRuleEntry, error) {
	var (
		rule *domain.AccountingRuleEntry
		err  error
	)

	switch {
	case pc.EventCode != "":
		rule, err = uc.ruleRepo.GetByEventCode(ctx, pc.EventCode)
	case pc.ProductID != "":
		rule, err = uc.ruleRepo.GetByProductID(ctx, pc.ProductID)
	default:
		return nil, fmt.Errorf("%w: posting context carries neither event code nor product id", domain.ErrConfigurationMissing)
	}

	if err != nil {
		if errors.Is(err, domain.ErrConfigurationMissing) {
			return nil, fmt.Errorf("%w: event=%s product=%s", domain.ErrConfigurationMissing, pc.EventCode, pc.ProductID)
		}

		return nil, err
	}

	return rule, nil
}

// resolveAccount finds the account instantiated from a chart position for a
// branch, synthesizing it through the create-account command on first use.
func (uc *ResolverUseCase) resolveAccount(ctx context.Context, chartPositionID, branchID string, liaisonBranchID *string, actor string) (*domain.Account, error) {
	account, err := uc.accountRepo.FindByPosition(ctx, chartPositionID, branchID, liaisonBranchID)
	if err == nil {
		return account, nil
	}

	if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}

	position, err := uc.chartRepo.GetPosition(ctx, chartPositionID)
	if err != nil {
		return nil, fmt.Errorf("%w: position %s", domain.ErrChartPositionNotFound, chartPositionID)
	}

	branch, err := uc.branchSvc.GetBranch(ctx, branchID)
	if err != nil {
		return nil, fmt.Errorf("%w: branch %s", domain.ErrBranchNotFound, branchID)
	}

	now := time.Now().UTC()
	account = &domain.Account{
		ID:                   uc.idGen.Generate(),
		AccountNumber:        position.AccountNumber,
		AccountNumberCU:      domain.CompositeAccountNumber(position.AccountNumber, branch.Code, position.PositionNumber),
		AccountNumberNetwork: domain.NetworkAccountNumber(position.AccountNumber, branch.BankCode, branch.Code, position.PositionNumber),
		Description:          fmt.Sprintf("%s - %s", position.Description, branch.Name),
		BranchID:             branchID,
		LiaisonBranchID:      liaisonBranchID,
		ChartPositionID:      position.ID,
		CategoryID:           position.CategoryID,
		ModifiedBy:           actor,
		CreatedAt:            now,
		ModifiedAt:           now,
	}

	if err := uc.creator.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("%w: %s (%s)", domain.ErrAccountCreationFailure, account.AccountNumberCU, err)
	}

	if uc.metrics != nil {
		uc.metrics.AccountsCreated.Inc()
	}

	uc.logger.Info().
		Str("account_number", account.AccountNumberCU).
		Str("branch_id", branchID).
		Str("chart_position_id", chartPositionID).
		Msg("ledger account created on first use")

	// Re-query so the returned account reflects what the store persisted.
	return uc.accountRepo.FindByPosition(ctx, chartPositionID, branchID, liaisonBranchID)
}
