package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"contesthub/internal/platform/postgres"
	audit "contesthub/pkg/platform/audit"
)

// Store persists audit events in the audit_events table. Appends join the
// caller's transaction when one is carried in the context.
type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const eventColumns = `id, category, occurred_at, action, actor, subject, contest_id, decision, reason, request_id, client_ip`

// Append writes one event. The category is always derived from the action.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	category := audit.AuditEvent(event.Action).Category()

	_, err := postgres.Conn(ctx, s.pool).Exec(ctx,
		`INSERT INTO audit_events (`+eventColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		event.ID, string(category), event.Timestamp, event.Action, event.Actor, event.Subject,
		event.ContestID, event.Decision, event.Reason, event.RequestID, event.ClientIP,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", postgres.TranslateError(err))
	}
	return nil
}

func (s *Store) ListRecent(ctx context.Context, q audit.Query) ([]audit.Event, error) {
	q.Normalize()
	rows, err := postgres.Conn(ctx, s.pool).Query(ctx,
		`SELECT `+eventColumns+` FROM audit_events
		 WHERE ($1 = '' OR action = $1)
		   AND ($2 = '' OR actor = $2)
		   AND ($3 = '' OR category = $3)
		 ORDER BY occurred_at DESC, id
		 LIMIT $4`,
		q.Action, q.Actor, string(q.Category), q.Limit)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	out := make([]audit.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("list audit events: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	return out, nil
}

func scanEvent(row pgx.Row) (audit.Event, error) {
	var (
		e        audit.Event
		category string
	)
	err := row.Scan(&e.ID, &category, &e.Timestamp, &e.Action, &e.Actor, &e.Subject,
		&e.ContestID, &e.Decision, &e.Reason, &e.RequestID, &e.ClientIP)
	if err != nil {
		return audit.Event{}, err
	}
	e.Category = audit.EventCategory(category)
	return e, nil
}
