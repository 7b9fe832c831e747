package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fintracore/corebank/internal/domain"
	"github.com/fintracore/corebank/internal/usecase"
)

const accountColumns = `
	id, account_number, account_number_cu, account_number_network, description,
	debit_balance, credit_balance, current_balance, last_balance, beginning_balance,
	branch_id, liaison_branch_id, chart_position_id, category_id,
	version, deleted, modified_by, created_at, modified_at
`

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	_, err := r.pool.Exec(ctx, query,
		account.ID,
		account.AccountNumber,
		account.AccountNumberCU,
		account.AccountNumberNetwork,
		account.Description,
		decimalToNumeric(account.DebitBalance),
		decimalToNumeric(account.CreditBalance),
		decimalToNumeric(account.CurrentBalance),
		decimalToNumeric(account.LastBalance),
		decimalToNumeric(account.BeginningBalance),
		account.BranchID,
		account.LiaisonBranchID,
		account.ChartPositionID,
		account.CategoryID,
		account.Version,
		account.Deleted,
		account.ModifiedBy,
		timeToPgTimestamptz(account.CreatedAt),
		timeToPgTimestamptz(account.ModifiedAt),
	)

	return err
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 AND NOT deleted`

	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate retrieves an account by ID with a FOR UPDATE lock.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 AND NOT deleted FOR UPDATE`

	return r.scanOne(txQuerier(tx).QueryRow(ctx, query, id))
}

// FindByPosition locates the account instantiated from a chart management
// position for a branch. Liaison accounts are distinguished by their liaison
// branch; IS NOT DISTINCT FROM matches NULL against NULL.
func (r *AccountRepository) FindByPosition(ctx context.Context, chartPositionID, branchID string, liaisonBranchID *string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE chart_position_id = $1
		  AND branch_id = $2
		  AND liaison_branch_id IS NOT DISTINCT FROM $3
		  AND NOT deleted
	`

	return r.scanOne(r.pool.QueryRow(ctx, query, chartPositionID, branchID, liaisonBranchID))
}

// UpdateBalances persists the balance fields of a mutated account, guarded by
// the expected version. A zero row count means a concurrent posting won.
func (r *AccountRepository) UpdateBalances(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	query := `
		UPDATE accounts
		SET debit_balance = $2,
		    credit_balance = $3,
		    current_balance = $4,
		    last_balance = $5,
		    version = version + 1,
		    modified_by = $6,
		    modified_at = $7
		WHERE id = $1 AND version = $8
	`

	tag, err := txQuerier(tx).Exec(ctx, query,
		account.ID,
		decimalToNumeric(account.DebitBalance),
		decimalToNumeric(account.CreditBalance),
		decimalToNumeric(account.CurrentBalance),
		decimalToNumeric(account.LastBalance),
		account.ModifiedBy,
		timeToPgTimestamptz(account.ModifiedAt),
		account.Version,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrStaleAccount
	}

	return nil
}

// ListByBranch lists a branch's accounts with pagination.
func (r *AccountRepository) ListByBranch(ctx context.Context, branchID string, limit, offset int) ([]*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE branch_id = $1 AND NOT deleted
		ORDER BY account_number_cu
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, branchID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanMany(rows)
}

// ListAll lists all accounts with pagination.
func (r *AccountRepository) ListAll(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE NOT deleted
		ORDER BY account_number_cu
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanMany(rows)
}

func (r *AccountRepository) scanOne(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	var debit, credit, current, last, beginning pgtype.Numeric
	var createdAt, modifiedAt pgtype.Timestamptz

	err := row.Scan(
		&account.ID,
		&account.AccountNumber,
		&account.AccountNumberCU,
		&account.AccountNumberNetwork,
		&account.Description,
		&debit,
		&credit,
		&current,
		&last,
		&beginning,
		&account.BranchID,
		&account.LiaisonBranchID,
		&account.ChartPositionID,
		&account.CategoryID,
		&account.Version,
		&account.Deleted,
		&account.ModifiedBy,
		&createdAt,
		&modifiedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	account.DebitBalance = numericToDecimal(debit)
	account.CreditBalance = numericToDecimal(credit)
	account.CurrentBalance = numericToDecimal(current)
	account.LastBalance = numericToDecimal(last)
	account.BeginningBalance = numericToDecimal(beginning)
	account.CreatedAt = createdAt.Time
	account.ModifiedAt = modifiedAt.Time

	return &account, nil
}

func (r *AccountRepository) scanMany(rows pgx.Rows) ([]*domain.Account, error) {
	var accounts []*domain.Account
	for rows.Next() {
		account, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}
