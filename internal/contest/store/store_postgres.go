package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"contesthub/internal/contest/models"
	"contesthub/internal/platform/postgres"
	id "contesthub/pkg/domain"
	"contesthub/pkg/platform/sentinel"
)

// PostgresStore persists contests in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const contestColumns = `id, creator_email, creator_name, name, category, description, task_instructions,
	image_url, entry_fee, prize_amount, deadline, status, participants,
	COALESCE(winner_email, ''), COALESCE(winner_name, ''), created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, c *models.Contest) error {
	const query = `INSERT INTO contests (id, creator_email, creator_name, name, category, description,
			task_instructions, image_url, entry_fee, prize_amount, deadline, status, participants,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := postgres.Conn(ctx, s.pool).Exec(ctx, query,
		c.ID.String(), c.CreatorEmail, c.CreatorName, c.Name, c.Category, c.Description,
		c.TaskInstructions, c.ImageURL, c.EntryFee, c.PrizeAmount, c.Deadline, string(c.Status),
		c.Participants, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create contest: %w", postgres.TranslateError(err))
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, contestID id.ContestID) (*models.Contest, error) {
	row := postgres.Conn(ctx, s.pool).QueryRow(ctx, `SELECT `+contestColumns+` FROM contests WHERE id = $1`, contestID.String())
	c, err := scanContest(row)
	if err != nil {
		return nil, fmt.Errorf("find contest: %w", postgres.TranslateError(err))
	}
	return c, nil
}

func (s *PostgresStore) ListApproved(ctx context.Context, f models.Filter) ([]*models.Contest, error) {
	const query = `SELECT ` + contestColumns + ` FROM contests
		WHERE status = 'approved'
		  AND ($1 = '' OR category = $1)
		  AND ($2 = '' OR name ILIKE '%' || $2 || '%')
		ORDER BY created_at DESC, id
		LIMIT $3 OFFSET $4`
	return s.query(ctx, "list approved contests", query, f.Category, f.Search, f.Limit, f.Offset)
}

func (s *PostgresStore) Popular(ctx context.Context, limit int) ([]*models.Contest, error) {
	const query = `SELECT ` + contestColumns + ` FROM contests
		WHERE status = 'approved'
		ORDER BY participants DESC, created_at DESC
		LIMIT $1`
	return s.query(ctx, "list popular contests", query, limit)
}

func (s *PostgresStore) ListByCreator(ctx context.Context, email string) ([]*models.Contest, error) {
	return s.query(ctx, "list contests by creator",
		`SELECT `+contestColumns+` FROM contests WHERE creator_email = $1 ORDER BY created_at DESC`, email)
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]*models.Contest, error) {
	return s.query(ctx, "list contests", `SELECT `+contestColumns+` FROM contests ORDER BY created_at DESC`)
}

func (s *PostgresStore) Update(ctx context.Context, c *models.Contest) error {
	const query = `UPDATE contests SET
			name = $2, category = $3, description = $4, task_instructions = $5, image_url = $6,
			entry_fee = $7, prize_amount = $8, deadline = $9, updated_at = $10
		WHERE id = $1 AND status = 'pending'`
	tag, err := postgres.Conn(ctx, s.pool).Exec(ctx, query,
		c.ID.String(), c.Name, c.Category, c.Description, c.TaskInstructions, c.ImageURL,
		c.EntryFee, c.PrizeAmount, c.Deadline, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update contest: %w", postgres.TranslateError(err))
	}
	if tag.RowsAffected() == 0 {
		return s.missOrState(ctx, "update contest", c.ID)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, contestID id.ContestID) error {
	tag, err := postgres.Conn(ctx, s.pool).Exec(ctx, `DELETE FROM contests WHERE id = $1`, contestID.String())
	if err != nil {
		return fmt.Errorf("delete contest: %w", postgres.TranslateError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete contest: %w", sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) SetStatus(ctx context.Context, contestID id.ContestID, status models.Status, at time.Time) error {
	tag, err := postgres.Conn(ctx, s.pool).Exec(ctx,
		`UPDATE contests SET status = $2, updated_at = $3 WHERE id = $1 AND status <> 'completed'`,
		contestID.String(), string(status), at)
	if err != nil {
		return fmt.Errorf("set contest status: %w", postgres.TranslateError(err))
	}
	if tag.RowsAffected() == 0 {
		return s.missOrState(ctx, "set contest status", contestID)
	}
	return nil
}

// SetWinner is a conditional update so concurrent declarations resolve to one.
func (s *PostgresStore) SetWinner(ctx context.Context, contestID id.ContestID, email, name string, at time.Time) error {
	tag, err := postgres.Conn(ctx, s.pool).Exec(ctx,
		`UPDATE contests SET winner_email = $2, winner_name = $3, status = 'completed', updated_at = $4
		 WHERE id = $1 AND winner_email IS NULL`,
		contestID.String(), email, name, at)
	if err != nil {
		return fmt.Errorf("set contest winner: %w", postgres.TranslateError(err))
	}
	if tag.RowsAffected() == 0 {
		return s.missOrState(ctx, "set contest winner", contestID)
	}
	return nil
}

func (s *PostgresStore) IncrementParticipants(ctx context.Context, contestID id.ContestID) error {
	tag, err := postgres.Conn(ctx, s.pool).Exec(ctx,
		`UPDATE contests SET participants = participants + 1 WHERE id = $1`, contestID.String())
	if err != nil {
		return fmt.Errorf("increment participants: %w", postgres.TranslateError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("increment participants: %w", sentinel.ErrNotFound)
	}
	return nil
}

// missOrState distinguishes a missing row from a guarded update that matched nothing.
func (s *PostgresStore) missOrState(ctx context.Context, op string, contestID id.ContestID) error {
	var exists bool
	err := postgres.Conn(ctx, s.pool).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM contests WHERE id = $1)`, contestID.String()).Scan(&exists)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return fmt.Errorf("%s: %w", op, sentinel.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, sentinel.ErrInvalidState)
}

func (s *PostgresStore) query(ctx context.Context, op, query string, args ...any) ([]*models.Contest, error) {
	rows, err := postgres.Conn(ctx, s.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := make([]*models.Contest, 0)
	for rows.Next() {
		c, err := scanContest(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func scanContest(row pgx.Row) (*models.Contest, error) {
	var (
		c         models.Contest
		rawID     string
		rawStatus string
	)
	err := row.Scan(&rawID, &c.CreatorEmail, &c.CreatorName, &c.Name, &c.Category, &c.Description,
		&c.TaskInstructions, &c.ImageURL, &c.EntryFee, &c.PrizeAmount, &c.Deadline, &rawStatus,
		&c.Participants, &c.WinnerEmail, &c.WinnerName, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.ID = id.ContestID(rawID)
	c.Status = models.Status(rawStatus)
	return &c, nil
}
