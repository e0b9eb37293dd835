package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	accountService "contesthub/internal/account/service"
	accountStore "contesthub/internal/account/store"
	contestService "contesthub/internal/contest/service"
	contestStore "contesthub/internal/contest/store"
	"contesthub/internal/platform/config"
	"contesthub/internal/platform/postgres"
	regService "contesthub/internal/registration/service"
	regStore "contesthub/internal/registration/store"
	submissionService "contesthub/internal/submission/service"
	submissionStore "contesthub/internal/submission/store"
	auditPublisher "contesthub/pkg/platform/audit/publisher"
	auditMemory "contesthub/pkg/platform/audit/store/memory"
	auditPostgres "contesthub/pkg/platform/audit/store/postgres"
	"contesthub/pkg/platform/tx"
)

const (
	storeMemory   = "memory"
	storePostgres = "postgres"
)

type accountBackend interface {
	accountService.Store
	regService.ParticipationCounter
	contestService.WinCounter
}

type contestBackend interface {
	contestService.Store
	regService.ParticipantCounter
}

// stores is the entity store opened for one serve run.
type stores struct {
	accounts      accountBackend
	contests      contestBackend
	registrations regService.Store
	submissions   submissionService.Store
	audit         auditPublisher.Store
	tx            regService.StoreTx
	pool          *pgxpool.Pool
}

func (s *stores) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping reports whether the backing database is reachable.
func (s *stores) Ping(ctx context.Context) error {
	if s.pool == nil {
		return nil
	}
	return s.pool.Ping(ctx)
}

func openStores(ctx context.Context, kind string, cfg config.PostgresConfig) (*stores, error) {
	switch kind {
	case storeMemory:
		return &stores{
			accounts:      accountStore.NewInMemory(),
			contests:      contestStore.NewInMemory(),
			registrations: regStore.NewInMemory(),
			submissions:   submissionStore.NewInMemory(),
			audit:         auditMemory.NewInMemoryStore(),
			tx:            tx.NewLocalRunner(),
		}, nil
	case storePostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return &stores{
			accounts:      accountStore.NewPostgres(pool),
			contests:      contestStore.NewPostgres(pool),
			registrations: regStore.NewPostgres(pool),
			submissions:   submissionStore.NewPostgres(pool),
			audit:         auditPostgres.New(pool),
			tx:            postgres.NewTxRunner(pool),
			pool:          pool,
		}, nil
	default:
		return nil, fmt.Errorf("unknown store %q: want %s or %s", kind, storeMemory, storePostgres)
	}
}
