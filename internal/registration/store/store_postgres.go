package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"contesthub/internal/platform/postgres"
	"contesthub/internal/registration/models"
	id "contesthub/pkg/domain"
)

// PostgresStore relies on the registrations_transaction_id_key unique
// constraint for idempotency; a violation surfaces as sentinel.ErrConflict.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const registrationColumns = `id, user_email, contest_id, name, title, deadline, transaction_id,
	session_id, amount, payment_status, registered_at`

func (s *PostgresStore) FindByTransactionID(ctx context.Context, transactionID string) (*models.Registration, error) {
	row := postgres.Conn(ctx, s.pool).QueryRow(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE transaction_id = $1`, transactionID)
	reg, err := scanRegistration(row)
	if err != nil {
		return nil, fmt.Errorf("find registration by transaction: %w", postgres.TranslateError(err))
	}
	return reg, nil
}

func (s *PostgresStore) Insert(ctx context.Context, reg *models.Registration) error {
	_, err := postgres.Conn(ctx, s.pool).Exec(ctx,
		`INSERT INTO registrations (`+registrationColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		reg.ID.String(), reg.UserEmail, reg.ContestID.String(), reg.Name, reg.Title, reg.Deadline,
		reg.TransactionID, reg.SessionID, reg.Amount, reg.PaymentStatus, reg.RegisteredAt)
	if err != nil {
		return fmt.Errorf("insert registration: %w", postgres.TranslateError(err))
	}
	return nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, email string) ([]*models.Registration, error) {
	rows, err := postgres.Conn(ctx, s.pool).Query(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE user_email = $1 ORDER BY registered_at DESC`, email)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Registration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("list registrations: %w", err)
		}
		out = append(out, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) IsRegistered(ctx context.Context, email string, contestID id.ContestID) (bool, error) {
	var exists bool
	err := postgres.Conn(ctx, s.pool).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM registrations WHERE user_email = $1 AND contest_id = $2 AND payment_status = 'paid')`,
		email, contestID.String()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check registration: %w", err)
	}
	return exists, nil
}

func scanRegistration(row pgx.Row) (*models.Registration, error) {
	var (
		reg        models.Registration
		rawID      string
		rawContest string
	)
	err := row.Scan(&rawID, &reg.UserEmail, &rawContest, &reg.Name, &reg.Title, &reg.Deadline,
		&reg.TransactionID, &reg.SessionID, &reg.Amount, &reg.PaymentStatus, &reg.RegisteredAt)
	if err != nil {
		return nil, err
	}
	reg.ID = id.RegistrationID(rawID)
	reg.ContestID = id.ContestID(rawContest)
	return &reg, nil
}
