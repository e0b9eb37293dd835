package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"contesthub/internal/platform/postgres"
	"contesthub/internal/submission/models"
	id "contesthub/pkg/domain"
)

// PostgresStore keeps submissions in PostgreSQL with the payload as JSONB.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Insert(ctx context.Context, sub *models.Submission) error {
	_, err := postgres.Conn(ctx, s.pool).Exec(ctx,
		`INSERT INTO submissions (id, creator_email, contest_id, payload, submitted_at) VALUES ($1, $2, $3, $4, $5)`,
		sub.ID.String(), sub.CreatorEmail, sub.ContestID.String(), []byte(sub.Payload), sub.SubmittedAt)
	if err != nil {
		return fmt.Errorf("insert submission: %w", postgres.TranslateError(err))
	}
	return nil
}

func (s *PostgresStore) ListByContest(ctx context.Context, contestID id.ContestID) ([]*models.Submission, error) {
	return s.query(ctx, "list submissions by contest", `WHERE contest_id = $1`, contestID.String())
}

func (s *PostgresStore) ListByCreator(ctx context.Context, email string) ([]*models.Submission, error) {
	return s.query(ctx, "list submissions by creator", `WHERE creator_email = $1`, email)
}

func (s *PostgresStore) query(ctx context.Context, op, where string, arg string) ([]*models.Submission, error) {
	rows, err := postgres.Conn(ctx, s.pool).Query(ctx,
		`SELECT id, creator_email, contest_id, payload, submitted_at FROM submissions `+where+` ORDER BY submitted_at DESC`, arg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := make([]*models.Submission, 0)
	for rows.Next() {
		var (
			sub        models.Submission
			rawID      string
			rawContest string
			payload    []byte
		)
		if err := rows.Scan(&rawID, &sub.CreatorEmail, &rawContest, &payload, &sub.SubmittedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		sub.ID = id.SubmissionID(rawID)
		sub.ContestID = id.ContestID(rawContest)
		sub.Payload = payload
		out = append(out, &sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}
