//go:build integration

package containers

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"contesthub/internal/platform/config"
	"contesthub/internal/platform/logger"
	"contesthub/internal/platform/migrate"
	"contesthub/internal/platform/postgres"
)

// PostgresContainer wraps a migrated Postgres instance and a pool on it.
type PostgresContainer struct {
	Container *tcpostgres.PostgresContainer
	DSN       string
	Pool      *pgxpool.Pool
}

// NewPostgresContainer starts Postgres, applies the repository migrations and
// opens a pool. Everything is torn down with the test.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("contesthub"),
		tcpostgres.WithUsername("contesthub"),
		tcpostgres.WithPassword("contesthub"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	runner, err := migrate.New(dsn, MigrationsDir(), logger.Discard())
	if err != nil {
		t.Fatalf("failed to configure migrations: %v", err)
	}
	if err := runner.Up(ctx); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}

	pool, err := postgres.NewPool(ctx, config.PostgresConfig{DSN: dsn, MaxConns: 20})
	if err != nil {
		t.Fatalf("failed to open pool: %v", err)
	}
	t.Cleanup(pool.Close)

	return &PostgresContainer{Container: container, DSN: dsn, Pool: pool}
}

// Truncate empties every entity table. Use between tests for isolation.
func (p *PostgresContainer) Truncate(ctx context.Context) error {
	_, err := p.Pool.Exec(ctx, `TRUNCATE accounts, contests, registrations, submissions, audit_events`)
	return err
}

// MigrationsDir locates migrations/ at the repository root.
func MigrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "migrations")
}
