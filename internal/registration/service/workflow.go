package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"contesthub/internal/events"
	"contesthub/internal/registration/models"
	dErrors "contesthub/pkg/domain-errors"
	audit "contesthub/pkg/platform/audit"
	"contesthub/pkg/platform/sentinel"
	"contesthub/pkg/requestcontext"
)

// ConfirmRegistration turns a paid checkout session into exactly one
// registration.
//
// Steps: resolve the session at the gateway, short-circuit when the
// transaction was already recorded, stop without writes when the session is
// unpaid, then insert the registration and increment both counters as one
// unit. A unique violation on insert means a concurrent confirmation won and
// is reported as AlreadyProcessed.
//
// A missing account or contest at increment time fails the whole unit and
// nothing is persisted, so a later callback can retry.
func (s *Service) ConfirmRegistration(ctx context.Context, sessionID string) (models.Outcome, error) {
	ctx, span := s.tracer.Start(ctx, "registration.confirm")
	defer span.End()
	start := time.Now()

	outcome, err := s.confirm(ctx, strings.TrimSpace(sessionID))

	s.metrics.ObserveConfirmLatency(time.Since(start))
	if err != nil {
		s.metrics.IncrementOutcome(string(dErrors.CodeOf(err)))
		span.RecordError(err)
		span.SetStatus(codes.Error, dErrors.MessageOf(err))
		return models.Outcome{}, err
	}
	s.metrics.IncrementOutcome(string(outcome.Status))
	span.SetAttributes(
		attribute.String("registration.outcome", string(outcome.Status)),
		attribute.String("contest.id", outcome.ContestID.String()),
	)
	return outcome, nil
}

func (s *Service) confirm(ctx context.Context, sessionID string) (models.Outcome, error) {
	if sessionID == "" {
		return models.Outcome{}, dErrors.New(dErrors.CodeBadRequest, "session id is required")
	}
	requestID := requestcontext.RequestID(ctx)

	gatewayStart := time.Now()
	session, err := s.gateway.RetrieveSession(ctx, sessionID)
	s.metrics.ObserveGatewayLatency("retrieve_session", time.Since(gatewayStart))
	if err != nil {
		s.logger.WarnContext(ctx, "checkout session lookup failed",
			"request_id", requestID,
			"session_id", sessionID,
			"error", err,
		)
		return models.Outcome{}, dErrors.Wrap(err, dErrors.CodeGatewayLookup, "failed to retrieve checkout session")
	}

	if session.TransactionID != "" {
		existing, err := s.store.FindByTransactionID(ctx, session.TransactionID)
		switch {
		case err == nil:
			return models.AlreadyProcessed(existing.ContestID), nil
		case !errors.Is(err, sentinel.ErrNotFound):
			return models.Outcome{}, dErrors.Wrap(err, dErrors.CodeStoreFailure, "failed to check existing registration")
		}
	}

	if session.PaymentStatus != models.PaymentStatusPaid {
		s.logger.InfoContext(ctx, "checkout session not paid",
			"request_id", requestID,
			"session_id", sessionID,
			"payment_status", session.PaymentStatus,
		)
		return models.NotCompleted(), nil
	}

	reg, err := models.FromSession(session, s.newID(), requestcontext.Now(ctx))
	if err != nil {
		return models.Outcome{}, err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.store.Insert(txCtx, reg); err != nil {
			return err
		}
		if err := s.participations.IncrementParticipation(txCtx, reg.UserEmail); err != nil {
			return fmt.Errorf("increment account participation: %w", err)
		}
		if err := s.participants.IncrementParticipants(txCtx, reg.ContestID); err != nil {
			return fmt.Errorf("increment contest participants: %w", err)
		}
		return nil
	})
	switch {
	case errors.Is(err, sentinel.ErrConflict):
		return models.AlreadyProcessed(reg.ContestID), nil
	case errors.Is(err, sentinel.ErrNotFound):
		s.logger.ErrorContext(ctx, "registration target missing",
			"request_id", requestID,
			"transaction_id", reg.TransactionID,
			"contest_id", reg.ContestID.String(),
			"error", err,
		)
		return models.Outcome{}, dErrors.Wrap(err, dErrors.CodeStoreFailure, "registration target not found")
	case err != nil:
		return models.Outcome{}, dErrors.Wrap(err, dErrors.CodeStoreFailure, "failed to record registration")
	}

	s.logger.InfoContext(ctx, "registration confirmed",
		"request_id", requestID,
		"registration_id", reg.ID.String(),
		"contest_id", reg.ContestID.String(),
		"transaction_id", reg.TransactionID,
	)
	s.publishConfirmed(ctx, reg)
	s.audit(ctx, audit.Event{
		Action:    string(audit.EventRegistrationConfirmed),
		Actor:     reg.UserEmail,
		Subject:   reg.UserEmail,
		ContestID: reg.ContestID.String(),
		Decision:  reg.PaymentStatus,
	})
	return models.Confirmed(reg.ContestID), nil
}

// publishConfirmed is best-effort: the registration is already committed.
func (s *Service) publishConfirmed(ctx context.Context, reg *models.Registration) {
	err := s.publisher.PublishRegistrationConfirmed(ctx, events.RegistrationConfirmed{
		RegistrationID: reg.ID.String(),
		ContestID:      reg.ContestID.String(),
		UserEmail:      reg.UserEmail,
		TransactionID:  reg.TransactionID,
		Amount:         reg.Amount,
		RegisteredAt:   reg.RegisteredAt,
	})
	if err != nil {
		s.metrics.IncrementPublishFailure()
		s.logger.WarnContext(ctx, "failed to publish registration event",
			"request_id", requestcontext.RequestID(ctx),
			"registration_id", reg.ID.String(),
			"error", err,
		)
	}
}
