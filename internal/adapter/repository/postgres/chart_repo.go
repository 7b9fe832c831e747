package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fintracore/corebank/internal/domain"
)

// ChartRepository implements usecase.ChartRepository.
type ChartRepository struct {
	pool *pgxpool.Pool
}

// NewChartRepository creates a new ChartRepository.
func NewChartRepository(pool *pgxpool.Pool) *ChartRepository {
	return &ChartRepository{pool: pool}
}

// GetPosition retrieves a chart management position by id.
func (r *ChartRepository) GetPosition(ctx context.Context, id string) (*domain.ChartPosition, error) {
	query := `
		SELECT id, position_number, account_number, description, category_id
		FROM chart_positions
		WHERE id = $1
	`

	var position domain.ChartPosition
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&position.ID,
		&position.PositionNumber,
		&position.AccountNumber,
		&position.Description,
		&position.CategoryID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrChartPositionNotFound
		}

		return nil, err
	}

	return &position, nil
}
