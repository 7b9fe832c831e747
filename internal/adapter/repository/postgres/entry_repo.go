package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fintracore/corebank/internal/domain"
	"github.com/fintracore/corebank/internal/usecase"
)

const entryColumns = `
	id, reference_id, entry_date, value_date, entry_type, status,
	debit_account_number, credit_account_number, narration, member_reference,
	branch_id, initiator, dr_amount, cr_amount, amount,
	dr_current_balance, cr_current_balance,
	dr_balance_brought_forward, cr_balance_brought_forward
`

// EntryRepository implements usecase.EntryRepository. Entries are immutable;
// there is no update path.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

// Create inserts an entry within a transaction.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.AccountingEntry) error {
	query := `
		INSERT INTO accounting_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	_, err := txQuerier(tx).Exec(ctx, query,
		entry.ID,
		entry.ReferenceID,
		timeToPgTimestamptz(entry.EntryDate),
		timeToPgTimestamptz(entry.ValueDate),
		string(entry.EntryType),
		string(entry.Status),
		entry.DebitAccountNumber,
		entry.CreditAccountNumber,
		entry.Narration,
		entry.MemberReference,
		entry.BranchID,
		entry.Initiator,
		decimalToNumeric(entry.DrAmount),
		decimalToNumeric(entry.CrAmount),
		decimalToNumeric(entry.Amount),
		decimalToNumeric(entry.DrCurrentBalance),
		decimalToNumeric(entry.CrCurrentBalance),
		decimalToNumeric(entry.DrBalanceBroughtForward),
		decimalToNumeric(entry.CrBalanceBroughtForward),
	)

	return err
}

// GetByReference retrieves all entries of one transaction reference.
func (r *EntryRepository) GetByReference(ctx context.Context, referenceID string) ([]*domain.AccountingEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM accounting_entries
		WHERE reference_id = $1
		ORDER BY entry_date, id
	`

	rows, err := r.pool.Query(ctx, query, referenceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// GetByAccountNumber lists entries touching an account on either leg.
func (r *EntryRepository) GetByAccountNumber(ctx context.Context, accountNumberCU string, limit, offset int) ([]*domain.AccountingEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM accounting_entries
		WHERE debit_account_number = $1 OR credit_account_number = $1
		ORDER BY entry_date DESC, id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, accountNumberCU, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListByValueDateRange returns entries with value date in [from, to] inclusive.
func (r *EntryRepository) ListByValueDateRange(ctx context.Context, from, to time.Time) ([]*domain.AccountingEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM accounting_entries
		WHERE value_date >= $1 AND value_date <= $2
		ORDER BY value_date, id
	`

	rows, err := r.pool.Query(ctx, query, timeToPgTimestamptz(from), timeToPgTimestamptz(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows pgx.Rows) ([]*domain.AccountingEntry, error) {
	var entries []*domain.AccountingEntry

	for rows.Next() {
		var entry domain.AccountingEntry
		var entryDate, valueDate pgtype.Timestamptz
		var entryType, status string
		var drAmount, crAmount, amount pgtype.Numeric
		var drCurrent, crCurrent, drForward, crForward pgtype.Numeric

		err := rows.Scan(
			&entry.ID,
			&entry.ReferenceID,
			&entryDate,
			&valueDate,
			&entryType,
			&status,
			&entry.DebitAccountNumber,
			&entry.CreditAccountNumber,
			&entry.Narration,
			&entry.MemberReference,
			&entry.BranchID,
			&entry.Initiator,
			&drAmount,
			&crAmount,
			&amount,
			&drCurrent,
			&crCurrent,
			&drForward,
			&crForward,
		)
		if err != nil {
			return nil, err
		}

		entry.EntryDate = entryDate.Time
		entry.ValueDate = valueDate.Time
		entry.EntryType = domain.EntryType(entryType)
		entry.Status = domain.EntryStatus(status)
		entry.DrAmount = numericToDecimal(drAmount)
		entry.CrAmount = numericToDecimal(crAmount)
		entry.Amount = numericToDecimal(amount)
		entry.DrCurrentBalance = numericToDecimal(drCurrent)
		entry.CrCurrentBalance = numericToDecimal(crCurrent)
		entry.DrBalanceBroughtForward = numericToDecimal(drForward)
		entry.CrBalanceBroughtForward = numericToDecimal(crForward)

		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}
