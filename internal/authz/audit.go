package authz

import (
	"context"
	"net/http"

	audit "contesthub/pkg/platform/audit"
	"contesthub/pkg/requestcontext"
)

// Auditor records denied requests.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event) error
}

func WithAuditor(a Auditor) GateOption {
	return func(g *Gate) { g.auditor = a }
}

func (g *Gate) recordDenial(ctx context.Context, r *http.Request, decision Decision) {
	if g.auditor == nil {
		return
	}
	err := g.auditor.Emit(ctx, audit.Event{
		Action:   string(audit.EventAccessDenied),
		Decision: string(decision.Outcome),
		Reason:   string(decision.Reason),
		Subject:  r.Method + " " + r.URL.Path,
	})
	if err != nil {
		g.logger.WarnContext(ctx, "failed to record access denial",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
}
