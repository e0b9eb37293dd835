package service

import (
	"context"

	audit "contesthub/pkg/platform/audit"
	"contesthub/pkg/requestcontext"
)

// Auditor records account decisions in the audit trail.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event) error
}

func WithAuditor(a Auditor) Option {
	return func(s *Service) {
		s.auditor = a
	}
}

// audit is best-effort: the account change has already been stored.
func (s *Service) audit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to record audit event",
			"request_id", requestcontext.RequestID(ctx),
			"action", event.Action,
			"error", err,
		)
	}
}
