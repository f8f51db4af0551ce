package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/UPO33/MPMatch/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type FailureRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewFailureRepository(sqlDB *sql.DB, logger zerolog.Logger) *FailureRepository {
	return &FailureRepository{db: sqlDB, logger: logger}
}

func (r *FailureRepository) Record(ctx context.Context, f domain.TicketFailure) error {
	id := f.ID
	if id == "" {
		var err error
		id, err = gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate nanoid: %w", err)
		}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ticket_failures (id, ticket_id, queue_name, code, num_users, waited_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, f.TicketID, f.QueueName, f.Code, f.NumUsers, f.Waited.Milliseconds(), f.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record failure of ticket %s: %w", f.TicketID, err)
	}
	return nil
}

// CountByCode returns how many tickets of queueName failed per code. An
// empty queueName counts every queue.
func (r *FailureRepository) CountByCode(ctx context.Context, queueName string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT code, COUNT(*) FROM ticket_failures
		WHERE (? = '' OR queue_name = ?)
		GROUP BY code`, queueName, queueName)
	if err != nil {
		return nil, fmt.Errorf("failed to count failures: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var code string
		var n int
		if err := rows.Scan(&code, &n); err != nil {
			return nil, err
		}
		out[code] = n
	}
	return out, rows.Err()
}
