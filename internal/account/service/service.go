package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"contesthub/internal/account/models"
	"contesthub/internal/platform/metrics"
	id "contesthub/pkg/domain"
	dErrors "contesthub/pkg/domain-errors"
	"contesthub/pkg/email"
	audit "contesthub/pkg/platform/audit"
	"contesthub/pkg/platform/sentinel"
	"contesthub/pkg/requestcontext"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

// Store is the persistence surface the account service needs.
type Store interface {
	Create(ctx context.Context, account *models.Account) error
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	TouchLogin(ctx context.Context, email string, at time.Time) error
	UpdateProfile(ctx context.Context, email string, update models.ProfileUpdate) (*models.Account, error)
	SetRole(ctx context.Context, email string, role id.Role) error
	List(ctx context.Context) ([]*models.Account, error)
	TopByWins(ctx context.Context, limit int) ([]*models.Account, error)
}

// Service manages accounts: first sign-in, profile edits, role assignment and
// the leaderboard.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	auditor Auditor
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SignIn creates the account on first sign-in or refreshes lastLoginAt.
// The boolean reports whether a new account was created.
func (s *Service) SignIn(ctx context.Context, rawEmail, name, photoURL string) (*models.Account, bool, error) {
	addr, err := email.Normalize(rawEmail)
	if err != nil {
		return nil, false, err
	}
	now := requestcontext.Now(ctx)

	existing, err := s.store.FindByEmail(ctx, addr)
	switch {
	case err == nil:
		return s.touch(ctx, existing, now)
	case !errors.Is(err, sentinel.ErrNotFound):
		return nil, false, dErrors.Wrap(err, dErrors.CodeStoreFailure, "failed to load account")
	}

	if name == "" {
		name = email.DeriveDisplayName(addr)
	}
	account, err := models.NewAccount(addr, name, photoURL, now)
	if err != nil {
		return nil, false, err
	}
	if err := s.store.Create(ctx, account); err != nil {
		if !errors.Is(err, sentinel.ErrConflict) {
			return nil, false, dErrors.Wrap(err, dErrors.CodeStoreFailure, "failed to create account")
		}
		// Lost a race with a concurrent first sign-in.
		existing, err := s.store.FindByEmail(ctx, addr)
		if err != nil {
			return nil, false, dErrors.Wrap(err, dErrors.CodeStoreFailure, "failed to load account")
		}
		return s.touch(ctx, existing, now)
	}

	s.metrics.IncrementAccountsCreated()
	s.logger.InfoContext(ctx, "account created",
		"request_id", requestcontext.RequestID(ctx),
		"account_id", account.ID.String(),
	)
	s.audit(ctx, audit.Event{
		Action:  string(audit.EventAccountCreated),
		Actor:   addr,
		Subject: addr,
	})
	return account, true, nil
}

func (s *Service) touch(ctx context.Context, account *models.Account, now time.Time) (*models.Account, bool, error) {
	if err := s.store.TouchLogin(ctx, account.Email, now); err != nil {
		return nil, false, translate(err, "failed to record login")
	}
	account.LastLoginAt = now
	return account, false, nil
}

func (s *Service) Get(ctx context.Context, addr string) (*models.Account, error) {
	account, err := s.store.FindByEmail(ctx, addr)
	if err != nil {
		return nil, translate(err, "failed to load account")
	}
	return account, nil
}

// GetRole returns the role of the account, or RoleUser when the account has
// not signed in yet.
func (s *Service) GetRole(ctx context.Context, addr string) (id.Role, error) {
	account, err := s.store.FindByEmail(ctx, addr)
	if errors.Is(err, sentinel.ErrNotFound) {
		return id.RoleUser, nil
	}
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeStoreFailure, "failed to load account")
	}
	return account.Role, nil
}

func (s *Service) UpdateProfile(ctx context.Context, addr string, update models.ProfileUpdate) (*models.Account, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}
	account, err := s.store.UpdateProfile(ctx, addr, update)
	if err != nil {
		return nil, translate(err, "failed to update profile")
	}
	return account, nil
}

func (s *Service) List(ctx context.Context) ([]*models.Account, error) {
	accounts, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStoreFailure, "failed to list accounts")
	}
	return accounts, nil
}

// SetRole changes an account's role. Admins cannot demote themselves.
func (s *Service) SetRole(ctx context.Context, actor, target string, rawRole string) error {
	role, err := id.ParseRole(rawRole)
	if err != nil {
		return err
	}
	addr, err := email.Normalize(target)
	if err != nil {
		return err
	}
	if addr == actor && role != id.RoleAdmin {
		return dErrors.New(dErrors.CodeForbidden, "admins cannot demote themselves")
	}
	if err := s.store.SetRole(ctx, addr, role); err != nil {
		return translate(err, "failed to set role")
	}
	s.logger.InfoContext(ctx, "account role changed",
		"request_id", requestcontext.RequestID(ctx),
		"role", role.String(),
	)
	s.audit(ctx, audit.Event{
		Action:   string(audit.EventRoleChanged),
		Actor:    actor,
		Subject:  addr,
		Decision: role.String(),
	})
	return nil
}

// Leaderboard returns accounts ordered by wins. limit is clamped to [1, 100].
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]*models.Account, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}
	accounts, err := s.store.TopByWins(ctx, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStoreFailure, "failed to load leaderboard")
	}
	return accounts, nil
}

func translate(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "account not found")
	}
	return dErrors.Wrap(err, dErrors.CodeStoreFailure, msg)
}
