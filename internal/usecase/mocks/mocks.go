// Package mocks provides hand-written test doubles for the usecase
// interfaces. Every method can be overridden through its Func field; the
// defaults behave like a small in-memory store.
package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintracore/corebank/internal/domain"
	"github.com/fintracore/corebank/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	GetByIDFunc          func(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error)
	FindByPositionFunc   func(ctx context.Context, chartPositionID, branchID string, liaisonBranchID *string) (*domain.Account, error)
	UpdateBalancesFunc   func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	ListByBranchFunc     func(ctx context.Context, branchID string, limit, offset int) ([]*domain.Account, error)
	ListAllFunc          func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{accounts: make(map[string]*domain.Account)}
}

// Put seeds an account into the in-memory store.
func (m *MockAccountRepository) Put(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockAccountRepository) FindByPosition(ctx context.Context, chartPositionID, branchID string, liaisonBranchID *string) (*domain.Account, error) {
	if m.FindByPositionFunc != nil {
		return m.FindByPositionFunc(ctx, chartPositionID, branchID, liaisonBranchID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, acc := range m.accounts {
		if acc.ChartPositionID != chartPositionID || acc.BranchID != branchID {
			continue
		}
		if (acc.LiaisonBranchID == nil) != (liaisonBranchID == nil) {
			continue
		}
		if liaisonBranchID != nil && *acc.LiaisonBranchID != *liaisonBranchID {
			continue
		}
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) UpdateBalances(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.UpdateBalancesFunc != nil {
		return m.UpdateBalancesFunc(ctx, tx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) ListByBranch(ctx context.Context, branchID string, limit, offset int) ([]*domain.Account, error) {
	if m.ListByBranchFunc != nil {
		return m.ListByBranchFunc(ctx, branchID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		if acc.BranchID == branchID {
			accounts = append(accounts, acc)
		}
	}
	return paginateAccounts(accounts, limit, offset), nil
}

func (m *MockAccountRepository) ListAll(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		accounts = append(accounts, acc)
	}
	return paginateAccounts(accounts, limit, offset), nil
}

// paginateAccounts orders by ID and applies limit/offset the way the real
// repository queries do, so paging callers terminate.
func paginateAccounts(accounts []*domain.Account, limit, offset int) []*domain.Account {
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	if offset >= len(accounts) {
		return nil
	}
	accounts = accounts[offset:]
	if limit > 0 && limit < len(accounts) {
		accounts = accounts[:limit]
	}
	return accounts
}

// MockAccountCreator is a mock implementation of AccountCreator. By default
// it inserts the account into a linked MockAccountRepository.
type MockAccountCreator struct {
	Repo       *MockAccountRepository
	Created    []*domain.Account
	CreateFunc func(ctx context.Context, account *domain.Account) error
}

func NewMockAccountCreator(repo *MockAccountRepository) *MockAccountCreator {
	return &MockAccountCreator{Repo: repo}
}

func (m *MockAccountCreator) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.Created = append(m.Created, account)
	if m.Repo != nil {
		m.Repo.Put(account)
	}
	return nil
}

// MockEntryRepository is a mock implementation of EntryRepository.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries []*domain.AccountingEntry

	CreateFunc               func(ctx context.Context, tx usecase.Transaction, entry *domain.AccountingEntry) error
	GetByReferenceFunc       func(ctx context.Context, referenceID string) ([]*domain.AccountingEntry, error)
	GetByAccountNumberFunc   func(ctx context.Context, accountNumberCU string, limit, offset int) ([]*domain.AccountingEntry, error)
	ListByValueDateRangeFunc func(ctx context.Context, from, to time.Time) ([]*domain.AccountingEntry, error)
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{}
}

// Entries returns everything created so far.
func (m *MockEntryRepository) Entries() []*domain.AccountingEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.AccountingEntry(nil), m.entries...)
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.AccountingEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockEntryRepository) GetByReference(ctx context.Context, referenceID string) ([]*domain.AccountingEntry, error) {
	if m.GetByReferenceFunc != nil {
		return m.GetByReferenceFunc(ctx, referenceID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.AccountingEntry
	for _, e := range m.entries {
		if e.ReferenceID == referenceID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockEntryRepository) GetByAccountNumber(ctx context.Context, accountNumberCU string, limit, offset int) ([]*domain.AccountingEntry, error) {
	if m.GetByAccountNumberFunc != nil {
		return m.GetByAccountNumberFunc(ctx, accountNumberCU, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.AccountingEntry
	for _, e := range m.entries {
		if e.DebitAccountNumber == accountNumberCU || e.CreditAccountNumber == accountNumberCU {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockEntryRepository) ListByValueDateRange(ctx context.Context, from, to time.Time) ([]*domain.AccountingEntry, error) {
	if m.ListByValueDateRangeFunc != nil {
		return m.ListByValueDateRangeFunc(ctx, from, to)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.AccountingEntry
	for _, e := range m.entries {
		if !e.ValueDate.Before(from) && !e.ValueDate.After(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

// MockRuleRepository is a mock implementation of RuleRepository.
type MockRuleRepository struct {
	mu      sync.RWMutex
	byEvent map[string]*domain.AccountingRuleEntry

	GetByEventCodeFunc func(ctx context.Context, eventCode string) (*domain.AccountingRuleEntry, error)
	GetByProductIDFunc func(ctx context.Context, productID string) (*domain.AccountingRuleEntry, error)
}

func NewMockRuleRepository() *MockRuleRepository {
	return &MockRuleRepository{byEvent: make(map[string]*domain.AccountingRuleEntry)}
}

// Put seeds a rule keyed by its event code.
func (m *MockRuleRepository) Put(rule *domain.AccountingRuleEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byEvent[rule.EventCode] = rule
}

func (m *MockRuleRepository) GetByEventCode(ctx context.Context, eventCode string) (*domain.AccountingRuleEntry, error) {
	if m.GetByEventCodeFunc != nil {
		return m.GetByEventCodeFunc(ctx, eventCode)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if rule, ok := m.byEvent[eventCode]; ok {
		return rule, nil
	}
	return nil, domain.ErrConfigurationMissing
}

func (m *MockRuleRepository) GetByProductID(ctx context.Context, productID string) (*domain.AccountingRuleEntry, error) {
	if m.GetByProductIDFunc != nil {
		return m.GetByProductIDFunc(ctx, productID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, rule := range m.byEvent {
		if rule.ProductID == productID {
			return rule, nil
		}
	}
	return nil, domain.ErrConfigurationMissing
}

// MockChartRepository is a mock implementation of ChartRepository.
type MockChartRepository struct {
	mu        sync.RWMutex
	positions map[string]*domain.ChartPosition

	GetPositionFunc func(ctx context.Context, id string) (*domain.ChartPosition, error)
}

func NewMockChartRepository() *MockChartRepository {
	return &MockChartRepository{positions: make(map[string]*domain.ChartPosition)}
}

func (m *MockChartRepository) Put(position *domain.ChartPosition) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positions[position.ID] = position
}

func (m *MockChartRepository) GetPosition(ctx context.Context, id string) (*domain.ChartPosition, error) {
	if m.GetPositionFunc != nil {
		return m.GetPositionFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if pos, ok := m.positions[id]; ok {
		return pos, nil
	}
	return nil, domain.ErrChartPositionNotFound
}

// MockBranchService is a mock implementation of BranchService.
type MockBranchService struct {
	mu       sync.RWMutex
	branches map[string]*domain.Branch

	GetBranchFunc func(ctx context.Context, id string) (*domain.Branch, error)
}

func NewMockBranchService() *MockBranchService {
	return &MockBranchService{branches: make(map[string]*domain.Branch)}
}

func (m *MockBranchService) Put(branch *domain.Branch) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.branches[branch.ID] = branch
}

func (m *MockBranchService) GetBranch(ctx context.Context, id string) (*domain.Branch, error) {
	if m.GetBranchFunc != nil {
		return m.GetBranchFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.branches[id]; ok {
		return b, nil
	}
	return nil, domain.ErrBranchNotFound
}

// MockLedgerRepository is a mock implementation of LedgerRepository.
type MockLedgerRepository struct {
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal

	SumEntryColumnsFunc func(ctx context.Context) (decimal.Decimal, decimal.Decimal, error)
}

func NewMockLedgerRepository() *MockLedgerRepository {
	return &MockLedgerRepository{}
}

func (m *MockLedgerRepository) SumEntryColumns(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	if m.SumEntryColumnsFunc != nil {
		return m.SumEntryColumnsFunc(ctx)
	}
	return m.TotalDebit, m.TotalCredit, nil
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu   sync.RWMutex
	logs []*domain.AuditLog

	CreateFunc func(ctx context.Context, log *domain.AuditLog) error
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

// Logs returns everything audited so far.
func (m *MockAuditRepository) Logs() []*domain.AuditLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.AuditLog(nil), m.logs...)
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.OutboxEvent
	for _, e := range m.events {
		if e.PublishedAt == nil {
			out = append(out, e)
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.PublishedAt = &publishedAt
			return nil
		}
	}
	return fmt.Errorf("outbox event %s not found", id)
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []*domain.OutboxEvent
	for _, e := range m.events {
		if e.PublishedAt == nil || e.PublishedAt.After(before) {
			kept = append(kept, e)
		}
	}
	m.events = kept
	return nil
}

// Events returns everything written so far.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.OutboxEvent(nil), m.events...)
}

// MockTransaction is a no-op transaction.
type MockTransaction struct {
	Committed  bool
	RolledBack bool
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	mu           sync.Mutex
	Transactions []*MockTransaction

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &MockTransaction{}
	m.Transactions = append(m.Transactions, tx)
	return tx, nil
}

// MockIDGenerator is a mock implementation of IDGenerator producing
// sequential ids.
type MockIDGenerator struct {
	mu   sync.Mutex
	next int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return fmt.Sprintf("id-%d", m.next)
}
