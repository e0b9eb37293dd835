package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	contestModels "contesthub/internal/contest/models"
	"contesthub/internal/registration/ports"
	id "contesthub/pkg/domain"
	dErrors "contesthub/pkg/domain-errors"
	"contesthub/pkg/email"
	"contesthub/pkg/platform/sentinel"
	"contesthub/pkg/requestcontext"
)

// CreateCheckout opens a gateway checkout session for the contest entry fee.
// Nothing is persisted; the registration is created on confirmation.
func (s *Service) CreateCheckout(ctx context.Context, contestID id.ContestID, requester Requester) (*ports.CheckoutLink, error) {
	ctx, span := s.tracer.Start(ctx, "registration.checkout")
	defer span.End()
	span.SetAttributes(attribute.String("contest.id", contestID.String()))

	link, err := s.checkout(ctx, contestID, requester)
	if err != nil {
		s.metrics.IncrementCheckout(string(dErrors.CodeOf(err)))
		span.RecordError(err)
		span.SetStatus(codes.Error, dErrors.MessageOf(err))
		return nil, err
	}
	s.metrics.IncrementCheckout("created")
	return link, nil
}

func (s *Service) checkout(ctx context.Context, contestID id.ContestID, requester Requester) (*ports.CheckoutLink, error) {
	contest, err := s.contests.Get(ctx, contestID)
	if err != nil {
		return nil, err
	}
	switch {
	case contest.Status != contestModels.StatusApproved:
		return nil, dErrors.New(dErrors.CodeConflict, "contest is not open for registration")
	case contest.DeadlinePassed(requestcontext.Now(ctx)):
		return nil, dErrors.New(dErrors.CodeConflict, "contest deadline has passed")
	case contest.EntryFee <= 0:
		return nil, dErrors.New(dErrors.CodeValidation, "contest has no entry fee to pay")
	}

	if err := s.requireAccount(ctx, requester.Email); err != nil {
		return nil, err
	}

	registered, err := s.IsRegistered(ctx, requester.Email, contestID)
	if err != nil {
		return nil, err
	}
	if registered {
		return nil, dErrors.New(dErrors.CodeConflict, "already registered for this contest")
	}

	name := requester.DisplayName
	if name == "" {
		name = email.DeriveDisplayName(requester.Email)
	}
	req := ports.CheckoutRequest{
		ContestID:     contest.ID.String(),
		ContestName:   contest.Name,
		Description:   contest.Description,
		ImageURL:      contest.ImageURL,
		DisplayName:   name,
		CustomerEmail: requester.Email,
		Amount:        contest.EntryFee,
		Deadline:      contest.Deadline,
	}

	start := time.Now()
	link, err := s.gateway.CreateCheckoutSession(ctx, req)
	s.metrics.ObserveGatewayLatency("create_session", time.Since(start))
	if err != nil {
		s.logger.WarnContext(ctx, "checkout session creation failed",
			"request_id", requestcontext.RequestID(ctx),
			"contest_id", contestID.String(),
			"error", err,
		)
		return nil, dErrors.Wrap(err, dErrors.CodeGatewayLookup, "failed to create checkout session")
	}
	return link, nil
}

func (s *Service) requireAccount(ctx context.Context, addr string) error {
	if s.accounts == nil {
		return dErrors.New(dErrors.CodeInternal, "account lookup is not configured")
	}
	_, err := s.accounts.Get(ctx, addr)
	switch {
	case err == nil:
		return nil
	case dErrors.HasCode(err, dErrors.CodeNotFound), errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "sign in to create an account before registering")
	default:
		return dErrors.Wrap(err, dErrors.CodeStoreFailure, "failed to load account")
	}
}
