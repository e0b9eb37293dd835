package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"contesthub/internal/account/models"
	"contesthub/internal/platform/middleware"
	id "contesthub/pkg/domain"
	dErrors "contesthub/pkg/domain-errors"
	"contesthub/pkg/platform/httputil"
	"contesthub/pkg/requestcontext"
)

// Service defines the account operations exposed over HTTP.
type Service interface {
	SignIn(ctx context.Context, email, name, photoURL string) (*models.Account, bool, error)
	Get(ctx context.Context, email string) (*models.Account, error)
	GetRole(ctx context.Context, email string) (id.Role, error)
	UpdateProfile(ctx context.Context, email string, update models.ProfileUpdate) (*models.Account, error)
	List(ctx context.Context) ([]*models.Account, error)
	SetRole(ctx context.Context, actor, target, role string) error
	Leaderboard(ctx context.Context, limit int) ([]*models.Account, error)
}

// Handler serves the /users and /leaderboard routes.
type Handler struct {
	svc    Service
	auth   func(http.Handler) http.Handler
	gate   middleware.RoleGate
	logger *slog.Logger
}

func New(svc Service, auth func(http.Handler) http.Handler, gate middleware.RoleGate, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, auth: auth, gate: gate, logger: logger}
}

type signInRequest struct {
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}

type roleResponse struct {
	Role id.Role `json:"role"`
}

type setRoleRequest struct {
	Role string `json:"role"`
}

// LeaderboardEntry is the public projection of an account on the leaderboard.
type LeaderboardEntry struct {
	Name              string `json:"name"`
	PhotoURL          string `json:"photoURL,omitempty"`
	TotalWon          int    `json:"totalWon"`
	TotalParticipated int    `json:"totalParticipated"`
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/leaderboard", h.handleLeaderboard)

	r.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Post("/users", h.handleSignIn)
		r.Get("/users/me", h.handleGetMe)
		r.Get("/users/role", h.handleGetRole)
		r.Patch("/users/me", h.handleUpdateMe)

		r.Group(func(r chi.Router) {
			r.Use(h.gate.Require(id.RoleAdmin))
			r.Get("/users", h.handleList)
			r.Patch("/users/{email}/role", h.handleSetRole)
		})
	})
}

func (h *Handler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req signInRequest
	if r.ContentLength != 0 {
		if err := httputil.DecodeJSON(r, &req); err != nil {
			h.fail(ctx, w, err, "invalid sign-in request")
			return
		}
	}
	if req.Name == "" {
		req.Name = requestcontext.DisplayName(ctx)
	}

	account, created, err := h.svc.SignIn(ctx, requestcontext.Email(ctx), req.Name, req.PhotoURL)
	if err != nil {
		h.fail(ctx, w, err, "sign-in failed")
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httputil.WriteJSON(w, status, account)
}

func (h *Handler) handleGetMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	account, err := h.svc.Get(ctx, requestcontext.Email(ctx))
	if err != nil {
		h.fail(ctx, w, err, "failed to load account")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, account)
}

func (h *Handler) handleGetRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	role, err := h.svc.GetRole(ctx, requestcontext.Email(ctx))
	if err != nil {
		h.fail(ctx, w, err, "failed to load role")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, roleResponse{Role: role})
}

func (h *Handler) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var update models.ProfileUpdate
	if err := httputil.DecodeJSON(r, &update); err != nil {
		h.fail(ctx, w, err, "invalid profile update")
		return
	}
	account, err := h.svc.UpdateProfile(ctx, requestcontext.Email(ctx), update)
	if err != nil {
		h.fail(ctx, w, err, "failed to update profile")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, account)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accounts, err := h.svc.List(ctx)
	if err != nil {
		h.fail(ctx, w, err, "failed to list accounts")
		return
	}
	if accounts == nil {
		accounts = []*models.Account{}
	}
	httputil.WriteJSON(w, http.StatusOK, accounts)
}

func (h *Handler) handleSetRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req setRoleRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.fail(ctx, w, err, "invalid role request")
		return
	}
	if err := h.svc.SetRole(ctx, requestcontext.Email(ctx), chi.URLParam(r, "email"), req.Role); err != nil {
		h.fail(ctx, w, err, "failed to set role")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.fail(ctx, w, dErrors.New(dErrors.CodeBadRequest, "limit must be an integer"), "invalid leaderboard request")
			return
		}
		limit = n
	}
	accounts, err := h.svc.Leaderboard(ctx, limit)
	if err != nil {
		h.fail(ctx, w, err, "failed to load leaderboard")
		return
	}
	entries := make([]LeaderboardEntry, 0, len(accounts))
	for _, a := range accounts {
		entries = append(entries, LeaderboardEntry{
			Name:              a.Name,
			PhotoURL:          a.PhotoURL,
			TotalWon:          a.TotalWon,
			TotalParticipated: a.TotalParticipated,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, entries)
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	httputil.LogAndWriteError(ctx, h.logger, w, err, msg, requestcontext.RequestID(ctx))
}
