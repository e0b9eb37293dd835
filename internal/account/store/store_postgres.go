package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"contesthub/internal/account/models"
	"contesthub/internal/platform/postgres"
	id "contesthub/pkg/domain"
	"contesthub/pkg/platform/sentinel"
)

// PostgresStore persists accounts in PostgreSQL. Writes join the caller's
// transaction when one is carried in the context.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed account store.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const accountColumns = `id, email, name, photo_url, role, bio, address, total_won, total_participated, created_at, last_login_at`

func (s *PostgresStore) Create(ctx context.Context, a *models.Account) error {
	const query = `INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := postgres.Conn(ctx, s.pool).Exec(ctx, query,
		a.ID.String(), a.Email, a.Name, a.PhotoURL, string(a.Role), a.Bio, a.Address,
		a.TotalWon, a.TotalParticipated, a.CreatedAt, a.LastLoginAt,
	)
	if err != nil {
		return fmt.Errorf("create account: %w", postgres.TranslateError(err))
	}
	return nil
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	row := postgres.Conn(ctx, s.pool).QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
	a, err := scanAccount(row)
	if err != nil {
		return nil, fmt.Errorf("find account by email: %w", postgres.TranslateError(err))
	}
	return a, nil
}

func (s *PostgresStore) TouchLogin(ctx context.Context, email string, at time.Time) error {
	return s.execOne(ctx, "touch account login", `UPDATE accounts SET last_login_at = $2 WHERE email = $1`, email, at)
}

func (s *PostgresStore) UpdateProfile(ctx context.Context, email string, u models.ProfileUpdate) (*models.Account, error) {
	const query = `UPDATE accounts SET
			name = COALESCE($2, name),
			photo_url = COALESCE($3, photo_url),
			bio = COALESCE($4, bio),
			address = COALESCE($5, address)
		WHERE email = $1
		RETURNING ` + accountColumns
	row := postgres.Conn(ctx, s.pool).QueryRow(ctx, query, email, u.Name, u.PhotoURL, u.Bio, u.Address)
	a, err := scanAccount(row)
	if err != nil {
		return nil, fmt.Errorf("update account profile: %w", postgres.TranslateError(err))
	}
	return a, nil
}

func (s *PostgresStore) SetRole(ctx context.Context, email string, role id.Role) error {
	return s.execOne(ctx, "set account role", `UPDATE accounts SET role = $2 WHERE email = $1`, email, string(role))
}

// IncrementParticipation is a single-row atomic increment; a missing account
// surfaces as sentinel.ErrNotFound.
func (s *PostgresStore) IncrementParticipation(ctx context.Context, email string) error {
	return s.execOne(ctx, "increment participation",
		`UPDATE accounts SET total_participated = total_participated + 1 WHERE email = $1`, email)
}

func (s *PostgresStore) IncrementWins(ctx context.Context, email string) error {
	return s.execOne(ctx, "increment wins",
		`UPDATE accounts SET total_won = total_won + 1 WHERE email = $1`, email)
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Account, error) {
	return s.query(ctx, "list accounts", `SELECT `+accountColumns+` FROM accounts ORDER BY created_at`)
}

func (s *PostgresStore) TopByWins(ctx context.Context, limit int) ([]*models.Account, error) {
	return s.query(ctx, "top accounts by wins",
		`SELECT `+accountColumns+` FROM accounts ORDER BY total_won DESC, total_participated DESC LIMIT $1`, limit)
}

func (s *PostgresStore) execOne(ctx context.Context, op, query string, args ...any) error {
	tag, err := postgres.Conn(ctx, s.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, postgres.TranslateError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) query(ctx context.Context, op, query string, args ...any) ([]*models.Account, error) {
	rows, err := postgres.Conn(ctx, s.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []*models.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func scanAccount(row pgx.Row) (*models.Account, error) {
	var (
		a       models.Account
		rawID   string
		rawRole string
	)
	if err := row.Scan(&rawID, &a.Email, &a.Name, &a.PhotoURL, &rawRole, &a.Bio, &a.Address,
		&a.TotalWon, &a.TotalParticipated, &a.CreatedAt, &a.LastLoginAt); err != nil {
		return nil, err
	}
	a.ID = id.AccountID(rawID)
	a.Role = id.Role(rawRole)
	return &a, nil
}
