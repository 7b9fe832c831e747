package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fintracore/corebank/internal/domain"
)

const ruleColumns = `
	id, event_code, product_id, determination_account_id, balancing_account_id,
	booking_direction, is_liaison_rule
`

// RuleRepository implements usecase.RuleRepository over the read-only
// accounting rule table maintained by back-office parameterization.
type RuleRepository struct {
	pool *pgxpool.Pool
}

// NewRuleRepository creates a new RuleRepository.
func NewRuleRepository(pool *pgxpool.Pool) *RuleRepository {
	return &RuleRepository{pool: pool}
}

// GetByEventCode retrieves the rule bound to a business-event code.
func (r *RuleRepository) GetByEventCode(ctx context.Context, eventCode string) (*domain.AccountingRuleEntry, error) {
	query := `SELECT ` + ruleColumns + ` FROM accounting_rules WHERE event_code = $1`

	return r.scanOne(r.pool.QueryRow(ctx, query, eventCode))
}

// GetByProductID retrieves the rule bound to a product book.
func (r *RuleRepository) GetByProductID(ctx context.Context, productID string) (*domain.AccountingRuleEntry, error) {
	query := `SELECT ` + ruleColumns + ` FROM accounting_rules WHERE product_id = $1`

	return r.scanOne(r.pool.QueryRow(ctx, query, productID))
}

func (r *RuleRepository) scanOne(row pgx.Row) (*domain.AccountingRuleEntry, error) {
	var rule domain.AccountingRuleEntry
	var direction string

	err := row.Scan(
		&rule.ID,
		&rule.EventCode,
		&rule.ProductID,
		&rule.DeterminationAccountID,
		&rule.BalancingAccountID,
		&direction,
		&rule.IsLiaisonRule,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrConfigurationMissing
		}

		return nil, err
	}

	rule.BookingDirection = domain.OperationType(direction)

	return &rule, nil
}
