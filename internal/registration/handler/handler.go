package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"contesthub/internal/registration/models"
	"contesthub/internal/registration/ports"
	"contesthub/internal/registration/service"
	id "contesthub/pkg/domain"
	dErrors "contesthub/pkg/domain-errors"
	"contesthub/pkg/platform/httputil"
	"contesthub/pkg/requestcontext"
)

// Service defines the registration operations exposed over HTTP.
type Service interface {
	ConfirmRegistration(ctx context.Context, sessionID string) (models.Outcome, error)
	CreateCheckout(ctx context.Context, contestID id.ContestID, requester service.Requester) (*ports.CheckoutLink, error)
	ListByUser(ctx context.Context, email string) ([]*models.Registration, error)
	IsRegistered(ctx context.Context, email string, contestID id.ContestID) (bool, error)
}

// Middleware wraps a route.
type Middleware = func(http.Handler) http.Handler

// Limits holds the rate limiters applied to the payment routes.
type Limits struct {
	Checkout Middleware
	Confirm  Middleware
}

type Handler struct {
	svc    Service
	auth   Middleware
	limits Limits
	logger *slog.Logger
}

func New(svc Service, auth Middleware, limits Limits, logger *slog.Logger) *Handler {
	if limits.Checkout == nil {
		limits.Checkout = passthrough
	}
	if limits.Confirm == nil {
		limits.Confirm = passthrough
	}
	return &Handler{svc: svc, auth: auth, limits: limits, logger: logger}
}

func passthrough(next http.Handler) http.Handler { return next }

type checkoutRequest struct {
	ContestID string `json:"contestId"`
}

type checkResponse struct {
	Registered bool `json:"registered"`
}

func (h *Handler) Register(r chi.Router) {
	// The confirmation callback is keyed by the gateway session; the gateway
	// is the source of truth so no bearer token is required.
	r.With(h.limits.Confirm).Get("/payments/success", h.handleConfirm)
	r.With(h.limits.Confirm).Patch("/payments/success", h.handleConfirm)

	r.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.With(h.limits.Checkout).Post("/payments/checkout", h.handleCheckout)
		r.Get("/registrations/mine", h.handleListMine)
		r.Get("/registrations/check", h.handleCheck)
	})
}

func (h *Handler) handleConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	sessionID := q.Get("session_id")
	if sessionID == "" {
		sessionID = q.Get("sessionId")
	}

	outcome, err := h.svc.ConfirmRegistration(ctx, sessionID)
	if err != nil {
		h.fail(ctx, w, err, "registration confirmation failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, outcome)
}

func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req checkoutRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.fail(ctx, w, err, "invalid checkout request")
		return
	}
	contestID, err := id.ParseContestID(req.ContestID)
	if err != nil {
		h.fail(ctx, w, err, "invalid checkout request")
		return
	}
	link, err := h.svc.CreateCheckout(ctx, contestID, service.Requester{
		Email:       requestcontext.Email(ctx),
		DisplayName: requestcontext.DisplayName(ctx),
	})
	if err != nil {
		h.fail(ctx, w, err, "checkout failed")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, link)
}

func (h *Handler) handleListMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	regs, err := h.svc.ListByUser(ctx, requestcontext.Email(ctx))
	if err != nil {
		h.fail(ctx, w, err, "failed to list registrations")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, regs)
}

func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	raw := r.URL.Query().Get("contestId")
	if raw == "" {
		h.fail(ctx, w, dErrors.New(dErrors.CodeBadRequest, "contestId query parameter is required"), "invalid registration check")
		return
	}
	contestID, err := id.ParseContestID(raw)
	if err != nil {
		h.fail(ctx, w, err, "invalid registration check")
		return
	}
	ok, err := h.svc.IsRegistered(ctx, requestcontext.Email(ctx), contestID)
	if err != nil {
		h.fail(ctx, w, err, "failed to check registration")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, checkResponse{Registered: ok})
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	httputil.LogAndWriteError(ctx, h.logger, w, err, msg, requestcontext.RequestID(ctx))
}
