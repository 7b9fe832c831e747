package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// SumEntryColumns totals the DrAmount and CrAmount columns over all posted
// entries. Equal totals mean every posting wrote a mirrored pair.
func (r *LedgerRepository) SumEntryColumns(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(dr_amount), 0) AS total_debit,
		       COALESCE(SUM(cr_amount), 0) AS total_credit
		FROM accounting_entries
		WHERE status = 'POSTED'
	`

	var totalDebit, totalCredit pgtype.Numeric
	if err := r.pool.QueryRow(ctx, query).Scan(&totalDebit, &totalCredit); err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return numericToDecimal(totalDebit), numericToDecimal(totalCredit), nil
}
