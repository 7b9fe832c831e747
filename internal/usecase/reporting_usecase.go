package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/fintracore/corebank/internal/domain"
	"github.com/fintracore/corebank/internal/infrastructure/metrics"
)

// EntityType scopes a report to one branch or the whole bank.
type EntityType string

const (
	EntityBranch EntityType = "BRANCH"
	EntityBank   EntityType = "BANK"
)

// ReportInput selects the entity scope and the inclusive value-date range.
type ReportInput struct {
	From       time.Time
	To         time.Time
	EntityID   string
	EntityType EntityType
}

// TrialBalanceRow is one account line of the 4-column trial balance.
type TrialBalanceRow struct {
	AccountNumber    string
	Description      string
	BeginningBalance decimal.Decimal
	Debit            decimal.Decimal
	Credit           decimal.Decimal
	EndingBalance    decimal.Decimal
}

// TrialBalance is the 4-column report with batch totals.
type TrialBalance struct {
	Rows        []TrialBalanceRow
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

// TrialBalance6Row is one account line of the 6-column trial balance, with
// the beginning and ending balances split into debit and credit columns.
type TrialBalance6Row struct {
	AccountNumber   string
	Description     string
	BeginningDebit  decimal.Decimal
	BeginningCredit decimal.Decimal
	Debit           decimal.Decimal
	Credit          decimal.Decimal
	EndingDebit     decimal.Decimal
	EndingCredit    decimal.Decimal
}

// TrialBalance6 is the 6-column report.
type TrialBalance6 struct {
	Rows        []TrialBalance6Row
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

// BalanceSheetLine is one account line of a balance-sheet section.
type BalanceSheetLine struct {
	AccountNumber string
	Description   string
	Balance       decimal.Decimal
}

// BalanceSheet buckets accounts into assets and liabilities; equity is
// derived as assets minus liabilities.
type BalanceSheet struct {
	Assets           []BalanceSheetLine
	Liabilities      []BalanceSheetLine
	TotalAssets      decimal.Decimal
	TotalLiabilities decimal.Decimal
	Equity           decimal.Decimal
}

// IncomeExpenseLine is one account line of the income/expense statement.
type IncomeExpenseLine struct {
	AccountNumber string
	Description   string
	Amount        decimal.Decimal
}

// IncomeExpenseStatement buckets accounts by the sign of their net balance.
type IncomeExpenseStatement struct {
	Revenue       []IncomeExpenseLine
	Expenses      []IncomeExpenseLine
	TotalRevenue  decimal.Decimal
	TotalExpenses decimal.Decimal
	NetResult     decimal.Decimal
}

// ReportingUseCase builds trial balances, balance sheets and income/expense
// statements from previously posted entries.
type ReportingUseCase struct {
	accountRepo AccountRepository
	entryRepo   EntryRepository
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewReportingUseCase creates a new ReportingUseCase.
func NewReportingUseCase(accountRepo AccountRepository, entryRepo EntryRepository, logger zerolog.Logger) *ReportingUseCase {
	return &ReportingUseCase{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		logger:      logger,
	}
}

// WithMetrics attaches reporting metrics.
func (uc *ReportingUseCase) WithMetrics(m *metrics.Metrics) *ReportingUseCase {
	uc.metrics = m
	return uc
}

// observe records one generated report.
func (uc *ReportingUseCase) observe(kind string, start time.Time) {
	if uc.metrics == nil {
		return
	}

	uc.metrics.ReportsGenerated.WithLabelValues(kind).Inc()
	uc.metrics.ReportDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

// movement aggregates the in-range debit and credit totals of one account.
type movement struct {
	debit  decimal.Decimal
	credit decimal.Decimal
}

// TrialBalance generates the 4-column trial balance
// (beginning / debit / credit / ending).
func (uc *ReportingUseCase) TrialBalance(ctx context.Context, input ReportInput) (*TrialBalance, error) {
	defer uc.observe("trial_balance", time.Now())

	accounts, movements, err := uc.aggregate(ctx, input)
	if err != nil {
		return nil, err
	}

	report := &TrialBalance{
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}

	for _, account := range accounts {
		m := movements[account.AccountNumberCU]

		row := TrialBalanceRow{
			AccountNumber:    account.AccountNumberCU,
			Description:      account.Description,
			BeginningBalance: account.BeginningBalance,
			Debit:            m.debit,
			Credit:           m.credit,
			EndingBalance:    endingBalance(account, m),
		}

		report.Rows = append(report.Rows, row)
		report.TotalDebit = report.TotalDebit.Add(row.Debit)
		report.TotalCredit = report.TotalCredit.Add(row.Credit)
	}

	return report, nil
}

// TrialBalance6 generates the 6-column trial balance with the beginning and
// ending balances split by side.
func (uc *ReportingUseCase) TrialBalance6(ctx context.Context, input ReportInput) (*TrialBalance6, error) {
	defer uc.observe("trial_balance_6", time.Now())

	accounts, movements, err := uc.aggregate(ctx, input)
	if err != nil {
		return nil, err
	}

	report := &TrialBalance6{
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}

	for _, account := range accounts {
		m := movements[account.AccountNumberCU]
		ending := endingBalance(account, m)

		row := TrialBalance6Row{
			AccountNumber: account.AccountNumberCU,
			Description:   account.Description,
			Debit:         m.debit,
			Credit:        m.credit,
		}
		row.BeginningDebit, row.BeginningCredit = splitBySide(account, account.BeginningBalance)
		row.EndingDebit, row.EndingCredit = splitBySide(account, ending)

		report.Rows = append(report.Rows, row)
		report.TotalDebit = report.TotalDebit.Add(row.Debit)
		report.TotalCredit = report.TotalCredit.Add(row.Credit)
	}

	return report, nil
}

// BalanceSheet generates the balance sheet: debit-normal accounts as assets,
// credit-normal as liabilities, equity derived as the difference.
func (uc *ReportingUseCase) BalanceSheet(ctx context.Context, input ReportInput) (*BalanceSheet, error) {
	defer uc.observe("balance_sheet", time.Now())

	accounts, movements, err := uc.aggregate(ctx, input)
	if err != nil {
		return nil, err
	}

	report := &BalanceSheet{
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
	}

	for _, account := range accounts {
		m := movements[account.AccountNumberCU]
		line := BalanceSheetLine{
			AccountNumber: account.AccountNumberCU,
			Description:   account.Description,
			Balance:       endingBalance(account, m),
		}

		if domain.IsDebitNormal(account.AccountNumber) {
			report.Assets = append(report.Assets, line)
			report.TotalAssets = report.TotalAssets.Add(line.Balance)
		} else {
			report.Liabilities = append(report.Liabilities, line)
			report.TotalLiabilities = report.TotalLiabilities.Add(line.Balance)
		}
	}

	report.Equity = report.TotalAssets.Sub(report.TotalLiabilities)

	return report, nil
}

// IncomeExpense generates the income/expense statement. Net balances are
// taken credit-positive: a positive net lands in the revenue bucket, a
// negative net in the expense bucket at its absolute value.
func (uc *ReportingUseCase) IncomeExpense(ctx context.Context, input ReportInput) (*IncomeExpenseStatement, error) {
	defer uc.observe("income_expense", time.Now())

	accounts, movements, err := uc.aggregate(ctx, input)
	if err != nil {
		return nil, err
	}

	report := &IncomeExpenseStatement{
		TotalRevenue:  decimal.Zero,
		TotalExpenses: decimal.Zero,
	}

	for _, account := range accounts {
		m := movements[account.AccountNumberCU]
		net := account.BeginningBalance.Add(m.credit).Sub(m.debit)
		if net.IsZero() {
			continue
		}

		line := IncomeExpenseLine{
			AccountNumber: account.AccountNumberCU,
			Description:   account.Description,
			Amount:        net.Abs(),
		}

		if net.IsPositive() {
			report.Revenue = append(report.Revenue, line)
			report.TotalRevenue = report.TotalRevenue.Add(line.Amount)
		} else {
			report.Expenses = append(report.Expenses, line)
			report.TotalExpenses = report.TotalExpenses.Add(line.Amount)
		}
	}

	report.NetResult = report.TotalRevenue.Sub(report.TotalExpenses)

	return report, nil
}

// aggregate loads the scoped accounts and folds the in-range entries into
// per-account debit/credit totals. Rows are created on first sight, so an
// account appearing only on one side still aggregates cleanly.
func (uc *ReportingUseCase) aggregate(ctx context.Context, input ReportInput) ([]*domain.Account, map[string]movement, error) {
	accounts, err := uc.scopeAccounts(ctx, input.EntityID, input.EntityType)
	if err != nil {
		return nil, nil, err
	}

	// To is a calendar date; the range covers everything posted on that day.
	entries, err := uc.entryRepo.ListByValueDateRange(ctx, input.From, endOfDay(input.To))
	if err != nil {
		return nil, nil, err
	}

	movements := make(map[string]movement)
	for _, e := range entries {
		if e.DebitAccountNumber != "" {
			m := movements[e.DebitAccountNumber]
			m.debit = m.debit.Add(e.DrAmount)
			movements[e.DebitAccountNumber] = m
		}

		if e.CreditAccountNumber != "" {
			m := movements[e.CreditAccountNumber]
			m.credit = m.credit.Add(e.CrAmount)
			movements[e.CreditAccountNumber] = m
		}
	}

	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].AccountNumberCU < accounts[j].AccountNumberCU
	})

	return accounts, movements, nil
}

// scopeAccounts loads the report's entity accounts, paging until the store is
// exhausted so bank-wide reports are never truncated. An unrecognized entity
// type yields an empty set rather than an error; reports degrade, they do not
// fail.
func (uc *ReportingUseCase) scopeAccounts(ctx context.Context, entityID string, entityType EntityType) ([]*domain.Account, error) {
	const reportPageSize = 1000

	var page func(offset int) ([]*domain.Account, error)

	switch entityType {
	case EntityBranch:
		page = func(offset int) ([]*domain.Account, error) {
			return uc.accountRepo.ListByBranch(ctx, entityID, reportPageSize, offset)
		}
	case EntityBank:
		page = func(offset int) ([]*domain.Account, error) {
			return uc.accountRepo.ListAll(ctx, reportPageSize, offset)
		}
	default:
		uc.logger.Warn().
			Str("entity_type", string(entityType)).
			Str("entity_id", entityID).
			Msg("unrecognized report entity type, returning empty account set")

		return nil, nil
	}

	var accounts []*domain.Account
	for offset := 0; ; offset += reportPageSize {
		batch, err := page(offset)
		if err != nil {
			return nil, err
		}

		accounts = append(accounts, batch...)
		if len(batch) < reportPageSize {
			return accounts, nil
		}
	}
}

// endOfDay extends a calendar date to its last instant so an inclusive
// to-date still covers entries posted during the final day.
func endOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

func endingBalance(account *domain.Account, m movement) decimal.Decimal {
	if domain.IsDebitNormal(account.AccountNumber) {
		return account.BeginningBalance.Add(m.debit).Sub(m.credit)
	}

	return account.BeginningBalance.Add(m.credit).Sub(m.debit)
}

// splitBySide places a balance into the debit or credit column by the
// account's normal side, flipping columns when the balance is negative.
func splitBySide(account *domain.Account, balance decimal.Decimal) (debit, credit decimal.Decimal) {
	debitNormal := domain.IsDebitNormal(account.AccountNumber)
	if balance.IsNegative() {
		debitNormal = !debitNormal
		balance = balance.Abs()
	}

	if debitNormal {
		return balance, decimal.Zero
	}

	return decimal.Zero, balance
}
