package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintracore/corebank/internal/domain"
)

// AccountRepository defines data access for ledger accounts.
type AccountRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	// FindByPosition locates the account instantiated from a chart management
	// position for an owner branch, optionally scoped to a liaison branch.
	FindByPosition(ctx context.Context, chartPositionID, branchID string, liaisonBranchID *string) (*domain.Account, error)
	// UpdateBalances persists the balance fields of a mutated account. The
	// account's Version is the expected stored version; ErrStaleAccount is
	// returned when a concurrent posting got there first.
	UpdateBalances(ctx context.Context, tx Transaction, account *domain.Account) error
	ListByBranch(ctx context.Context, branchID string, limit, offset int) ([]*domain.Account, error)
	ListAll(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// AccountCreator is the external create-account command used by the resolver
// for lazy account instantiation.
type AccountCreator interface {
	Create(ctx context.Context, account *domain.Account) error
}

// EntryRepository defines data access for accounting entries.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.AccountingEntry) error
	GetByReference(ctx context.Context, referenceID string) ([]*domain.AccountingEntry, error)
	GetByAccountNumber(ctx context.Context, accountNumberCU string, limit, offset int) ([]*domain.AccountingEntry, error)
	// ListByValueDateRange returns entries whose value date falls in
	// [from, to] inclusive.
	ListByValueDateRange(ctx context.Context, from, to time.Time) ([]*domain.AccountingEntry, error)
}

// RuleRepository defines read access to the accounting rule table.
type RuleRepository interface {
	GetByEventCode(ctx context.Context, eventCode string) (*domain.AccountingRuleEntry, error)
	GetByProductID(ctx context.Context, productID string) (*domain.AccountingRuleEntry, error)
}

// ChartRepository defines read access to chart-of-account management positions.
type ChartRepository interface {
	GetPosition(ctx context.Context, id string) (*domain.ChartPosition, error)
}

// BranchService resolves branch master data. Implementations call the
// bank/branch master-data service over the network.
type BranchService interface {
	GetBranch(ctx context.Context, id string) (*domain.Branch, error)
}

// LedgerRepository defines data access for ledger-wide operations.
type LedgerRepository interface {
	// SumEntryColumns returns the ledger-wide totals of the DrAmount and
	// CrAmount columns over posted entries.
	SumEntryColumns(ctx context.Context) (totalDebit, totalCredit decimal.Decimal, err error)
}

// AuditRepository defines data access for the audit trail.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation when it fails with a transient error, such as
// a deadlock or a lost optimistic-concurrency race.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
