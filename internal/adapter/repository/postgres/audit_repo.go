package postgres

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fintracore/corebank/internal/domain"
)

// AuditRepository implements audit trail persistence
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// Create inserts a new audit log entry
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}

	var payloadJSON []byte
	var err error

	if log.Payload != nil {
		payloadJSON, err = json.Marshal(log.Payload)
		if err != nil {
			return err
		}
	}

	query := `
		INSERT INTO audit_logs (
			id, actor, context, payload, message, severity, token, status_code, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = r.pool.Exec(ctx, query,
		log.ID,
		log.Actor,
		log.Context,
		payloadJSON,
		log.Message,
		log.Severity,
		log.Token,
		log.StatusCode,
		log.CreatedAt,
	)

	return err
}

// ListByActor retrieves an actor's audit trail, newest first.
func (r *AuditRepository) ListByActor(ctx context.Context, actor string, limit, offset int) ([]*domain.AuditLog, error) {
	query := `
		SELECT id, actor, context, payload, message, severity, token, status_code, created_at
		FROM audit_logs
		WHERE actor = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, actor, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*domain.AuditLog
	for rows.Next() {
		var log domain.AuditLog
		var payloadJSON []byte

		err := rows.Scan(
			&log.ID,
			&log.Actor,
			&log.Context,
			&payloadJSON,
			&log.Message,
			&log.Severity,
			&log.Token,
			&log.StatusCode,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if payloadJSON != nil {
			_ = json.Unmarshal(payloadJSON, &log.Payload)
		}

		logs = append(logs, &log)
	}

	return logs, rows.Err()
}
