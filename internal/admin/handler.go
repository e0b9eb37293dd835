// Package admin serves operator-only views that span modules.
package admin

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"contesthub/internal/platform/middleware"
	id "contesthub/pkg/domain"
	dErrors "contesthub/pkg/domain-errors"
	audit "contesthub/pkg/platform/audit"
	"contesthub/pkg/platform/httputil"
	"contesthub/pkg/requestcontext"
)

// AuditLister reads the audit trail.
type AuditLister interface {
	List(ctx context.Context, q audit.Query) ([]audit.Event, error)
}

type Handler struct {
	events AuditLister
	auth   func(http.Handler) http.Handler
	gate   middleware.RoleGate
	logger *slog.Logger
}

func New(events AuditLister, auth func(http.Handler) http.Handler, gate middleware.RoleGate, logger *slog.Logger) *Handler {
	return &Handler{events: events, auth: auth, gate: gate, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Use(h.gate.Require(id.RoleAdmin))
		r.Get("/admin/audit", h.handleListAudit)
	})
}

// handleListAudit returns recent events, newest first. Optional filters:
// action, actor, category, limit.
func (h *Handler) handleListAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := r.URL.Query()

	q := audit.Query{
		Action:   params.Get("action"),
		Actor:    params.Get("actor"),
		Category: audit.EventCategory(params.Get("category")),
	}
	if raw := params.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.fail(ctx, w, dErrors.New(dErrors.CodeBadRequest, "limit must be an integer"), "invalid audit query")
			return
		}
		q.Limit = n
	}
	q.Normalize()

	events, err := h.events.List(ctx, q)
	if err != nil {
		h.fail(ctx, w, dErrors.Wrap(err, dErrors.CodeStoreFailure, "failed to load audit events"), "failed to list audit events")
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	httputil.WriteJSON(w, http.StatusOK, AuditListResponse{Events: events, Total: len(events)})
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	httputil.LogAndWriteError(ctx, h.logger, w, err, msg, requestcontext.RequestID(ctx))
}
