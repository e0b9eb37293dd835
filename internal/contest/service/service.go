package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	accountModels "contesthub/internal/account/models"
	"contesthub/internal/contest/models"
	id "contesthub/pkg/domain"
	dErrors "contesthub/pkg/domain-errors"
	"contesthub/pkg/email"
	audit "contesthub/pkg/platform/audit"
	"contesthub/pkg/platform/sentinel"
	"contesthub/pkg/requestcontext"
)

// Store is the contest persistence surface.
type Store interface {
	Create(ctx context.Context, c *models.Contest) error
	FindByID(ctx context.Context, contestID id.ContestID) (*models.Contest, error)
	ListApproved(ctx context.Context, f models.Filter) ([]*models.Contest, error)
	Popular(ctx context.Context, limit int) ([]*models.Contest, error)
	ListByCreator(ctx context.Context, email string) ([]*models.Contest, error)
	ListAll(ctx context.Context) ([]*models.Contest, error)
	Update(ctx context.Context, c *models.Contest) error
	Delete(ctx context.Context, contestID id.ContestID) error
	SetStatus(ctx context.Context, contestID id.ContestID, status models.Status, at time.Time) error
	SetWinner(ctx context.Context, contestID id.ContestID, email, name string, at time.Time) error
}

// Accounts resolves the acting account.
type Accounts interface {
	Get(ctx context.Context, email string) (*accountModels.Account, error)
	GetRole(ctx context.Context, email string) (id.Role, error)
}

// WinCounter bumps an account's totalWon.
type WinCounter interface {
	IncrementWins(ctx context.Context, email string) error
}

// ParticipantChecker reports whether email holds a registration for the contest.
type ParticipantChecker interface {
	IsRegistered(ctx context.Context, email string, contestID id.ContestID) (bool, error)
}

// StoreTx provides the transactional boundary for winner declaration.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

// Service implements contest listing, authoring, moderation and winner
// declaration.
type Service struct {
	store        Store
	tx           StoreTx
	accounts     Accounts
	wins         WinCounter
	participants ParticipantChecker
	logger       *slog.Logger
	auditor      Auditor
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(store Store, tx StoreTx, accounts Accounts, wins WinCounter, participants ParticipantChecker, opts ...Option) *Service {
	s := &Service{
		store:        store,
		tx:           tx,
		accounts:     accounts,
		wins:         wins,
		participants: participants,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a new pending contest authored by creatorEmail.
func (s *Service) Create(ctx context.Context, creatorEmail string, draft models.Draft) (*models.Contest, error) {
	role, err := s.accounts.GetRole(ctx, creatorEmail)
	if err != nil {
		return nil, err
	}
	if role != id.RoleCreator && role != id.RoleAdmin {
		return nil, dErrors.New(dErrors.CodeForbidden, "only creators can create contests")
	}

	now := requestcontext.Now(ctx)
	draft.Normalize()
	if err := draft.Validate(now); err != nil {
		return nil, err
	}

	creatorName := requestcontext.DisplayName(ctx)
	if creatorName == "" {
		creatorName = email.DeriveDisplayName(creatorEmail)
	}
	c := models.NewContest(creatorEmail, creatorName, draft, now)
	if err := s.store.Create(ctx, c); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStoreFailure, "failed to create contest")
	}
	s.logger.InfoContext(ctx, "contest created",
		"request_id", requestcontext.RequestID(ctx),
		"contest_id", c.ID.String(),
	)
	return c, nil
}

func (s *Service) Get(ctx context.Context, contestID id.ContestID) (*models.Contest, error) {
	c, err := s.store.FindByID(ctx, contestID)
	if err != nil {
		return nil, translate(err, "failed to load contest")
	}
	return c, nil
}

func (s *Service) ListApproved(ctx context.Context, f models.Filter) ([]*models.Contest, error) {
	f.Normalize()
	out, err := s.store.ListApproved(ctx, f)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStoreFailure, "failed to list contests")
	}
	return out, nil
}

// Popular returns approved contests with the most participants.
func (s *Service) Popular(ctx context.Context, limit int) ([]*models.Contest, error) {
	if limit <= 0 || limit > models.MaxPageSize {
		limit = 6
	}
	out, err := s.store.Popular(ctx, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStoreFailure, "failed to list popular contests")
	}
	return out, nil
}

func (s *Service) ListByCreator(ctx context.Context, creatorEmail string) ([]*models.Contest, error) {
	out, err := s.store.ListByCreator(ctx, creatorEmail)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStoreFailure, "failed to list contests")
	}
	return out, nil
}

func (s *Service) ListAll(ctx context.Context) ([]*models.Contest, error) {
	out, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStoreFailure, "failed to list contests")
	}
	return out, nil
}

// Update edits a contest. Only its creator may edit, and only while pending.
func (s *Service) Update(ctx context.Context, contestID id.ContestID, editor string, changes models.Changes) (*models.Contest, error) {
	c, err := s.Get(ctx, contestID)
	if err != nil {
		return nil, err
	}
	if !c.OwnedBy(editor) {
		return nil, dErrors.New(dErrors.CodeForbidden, "only the creator can edit this contest")
	}
	if c.Status != models.StatusPending {
		return nil, dErrors.New(dErrors.CodeConflict, "only pending contests can be edited")
	}
	updated, err := changes.Apply(c, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, updated); err != nil {
		return nil, translate(err, "failed to update contest")
	}
	return updated, nil
}

// Delete removes a contest. Creators may delete their own pending contests;
// admins may delete any.
func (s *Service) Delete(ctx context.Context, contestID id.ContestID, actor string) error {
	c, err := s.Get(ctx, contestID)
	if err != nil {
		return err
	}
	role, err := s.accounts.GetRole(ctx, actor)
	if err != nil {
		return err
	}
	if role != id.RoleAdmin {
		if !c.OwnedBy(actor) {
			return dErrors.New(dErrors.CodeForbidden, "only the creator can delete this contest")
		}
		if c.Status != models.StatusPending {
			return dErrors.New(dErrors.CodeConflict, "only pending contests can be deleted")
		}
	}
	if err := s.store.Delete(ctx, contestID); err != nil {
		return translate(err, "failed to delete contest")
	}
	s.logger.InfoContext(ctx, "contest deleted",
		"request_id", requestcontext.RequestID(ctx),
		"contest_id", contestID.String(),
	)
	s.audit(ctx, audit.Event{
		Action:    string(audit.EventContestDeleted),
		Actor:     actor,
		Subject:   c.CreatorEmail,
		ContestID: contestID.String(),
		Decision:  role.String(),
	})
	return nil
}

// SetStatus applies an admin review decision.
func (s *Service) SetStatus(ctx context.Context, contestID id.ContestID, rawStatus string) error {
	status, err := models.ParseReviewStatus(rawStatus)
	if err != nil {
		return err
	}
	if err := s.store.SetStatus(ctx, contestID, status, requestcontext.Now(ctx)); err != nil {
		return translate(err, "failed to set contest status")
	}
	s.audit(ctx, audit.Event{
		Action:    string(audit.EventContestReviewed),
		ContestID: contestID.String(),
		Decision:  string(status),
	})
	return nil
}

// DeclareWinner completes an approved contest. The winner must hold a
// registration, the deadline must have passed, and a winner can be declared
// once. The
// winner's totalWon increments in the same unit of work.
func (s *Service) DeclareWinner(ctx context.Context, contestID id.ContestID, actor, rawWinner string) (*models.Contest, error) {
	winner, err := email.Normalize(rawWinner)
	if err != nil {
		return nil, err
	}
	c, err := s.Get(ctx, contestID)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	switch {
	case !c.OwnedBy(actor):
		return nil, dErrors.New(dErrors.CodeForbidden, "only the creator can declare a winner")
	case c.HasWinner():
		return nil, dErrors.New(dErrors.CodeConflict, "winner already declared")
	case c.Status != models.StatusApproved:
		return nil, dErrors.New(dErrors.CodeConflict, "only an approved contest can have a winner")
	case !c.DeadlinePassed(now):
		return nil, dErrors.New(dErrors.CodeConflict, "contest deadline has not passed")
	}

	registered, err := s.participants.IsRegistered(ctx, winner, contestID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStoreFailure, "failed to check registration")
	}
	if !registered {
		return nil, dErrors.New(dErrors.CodeValidation, "winner is not registered for this contest")
	}
	account, err := s.accounts.Get(ctx, winner)
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.store.SetWinner(txCtx, contestID, winner, account.Name, now); err != nil {
			return err
		}
		return s.wins.IncrementWins(txCtx, winner)
	})
	if err != nil {
		return nil, translate(err, "failed to declare winner")
	}

	c.WinnerEmail, c.WinnerName = winner, account.Name
	c.Status = models.StatusCompleted
	c.UpdatedAt = now
	s.logger.InfoContext(ctx, "contest winner declared",
		"request_id", requestcontext.RequestID(ctx),
		"contest_id", contestID.String(),
	)
	s.audit(ctx, audit.Event{
		Action:    string(audit.EventWinnerDeclared),
		Actor:     actor,
		Subject:   winner,
		ContestID: contestID.String(),
	})
	return c, nil
}

func translate(err error, msg string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "contest not found")
	case errors.Is(err, sentinel.ErrInvalidState):
		return dErrors.New(dErrors.CodeConflict, "contest is not in a modifiable state")
	default:
		return dErrors.Wrap(err, dErrors.CodeStoreFailure, msg)
	}
}
