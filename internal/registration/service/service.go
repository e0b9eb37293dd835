package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	accountModels "contesthub/internal/account/models"
	contestModels "contesthub/internal/contest/models"
	"contesthub/internal/events"
	"contesthub/internal/registration/metrics"
	"contesthub/internal/registration/models"
	"contesthub/internal/registration/ports"
	id "contesthub/pkg/domain"
	dErrors "contesthub/pkg/domain-errors"
)

// Store persists registrations. Insert must report a duplicate transaction id
// as sentinel.ErrConflict.
type Store interface {
	FindByTransactionID(ctx context.Context, transactionID string) (*models.Registration, error)
	Insert(ctx context.Context, reg *models.Registration) error
	ListByUser(ctx context.Context, email string) ([]*models.Registration, error)
	IsRegistered(ctx context.Context, email string, contestID id.ContestID) (bool, error)
}

// ParticipationCounter increments Account.totalParticipated.
type ParticipationCounter interface {
	IncrementParticipation(ctx context.Context, email string) error
}

// ParticipantCounter increments Contest.participants.
type ParticipantCounter interface {
	IncrementParticipants(ctx context.Context, contestID id.ContestID) error
}

// ContestReader resolves contests for checkout.
type ContestReader interface {
	Get(ctx context.Context, contestID id.ContestID) (*contestModels.Contest, error)
}

// AccountReader resolves the requester's account before a payment starts.
// Confirmation increments that account, so paying without one could never
// be recorded.
type AccountReader interface {
	Get(ctx context.Context, email string) (*accountModels.Account, error)
}

// StoreTx runs the registration insert and both increments as one unit.
// Implementations wrap a database transaction or, in memory, a coarse lock
// with undo.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

// Publisher delivers confirmed-registration events after commit.
type Publisher interface {
	PublishRegistrationConfirmed(ctx context.Context, evt events.RegistrationConfirmed) error
}

// Requester is the authenticated caller starting a checkout.
type Requester struct {
	Email       string
	DisplayName string
}

// Service confirms paid checkout sessions into registrations and starts new
// checkouts.
type Service struct {
	gateway        ports.PaymentGateway
	store          Store
	tx             StoreTx
	participations ParticipationCounter
	participants   ParticipantCounter
	contests       ContestReader
	accounts       AccountReader
	publisher      Publisher
	metrics        *metrics.Metrics
	logger         *slog.Logger
	tracer         trace.Tracer
	newID          func() id.RegistrationID
	auditor        Auditor
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

func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

func WithAccounts(a AccountReader) Option {
	return func(s *Service) {
		s.accounts = a
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithIDGenerator overrides registration id generation.
func WithIDGenerator(fn func() id.RegistrationID) Option {
	return func(s *Service) {
		s.newID = fn
	}
}

func New(
	gateway ports.PaymentGateway,
	store Store,
	tx StoreTx,
	participations ParticipationCounter,
	participants ParticipantCounter,
	contests ContestReader,
	opts ...Option,
) *Service {
	s := &Service{
		gateway:        gateway,
		store:          store,
		tx:             tx,
		participations: participations,
		participants:   participants,
		contests:       contests,
		publisher:      events.NoopPublisher{},
		logger:         slog.Default(),
		tracer:         otel.Tracer("contesthub/registration"),
		newID:          id.NewRegistrationID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) ListByUser(ctx context.Context, email string) ([]*models.Registration, error) {
	regs, err := s.store.ListByUser(ctx, email)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStoreFailure, "failed to list registrations")
	}
	return regs, nil
}

func (s *Service) IsRegistered(ctx context.Context, email string, contestID id.ContestID) (bool, error) {
	ok, err := s.store.IsRegistered(ctx, email, contestID)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeStoreFailure, "failed to check registration")
	}
	return ok, nil
}
