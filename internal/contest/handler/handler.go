package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"contesthub/internal/contest/models"
	"contesthub/internal/platform/middleware"
	id "contesthub/pkg/domain"
	dErrors "contesthub/pkg/domain-errors"
	"contesthub/pkg/platform/httputil"
	"contesthub/pkg/requestcontext"
)

// Service defines the contest operations exposed over HTTP.
type Service interface {
	Create(ctx context.Context, creatorEmail string, draft models.Draft) (*models.Contest, error)
	Get(ctx context.Context, contestID id.ContestID) (*models.Contest, error)
	ListApproved(ctx context.Context, f models.Filter) ([]*models.Contest, error)
	Popular(ctx context.Context, limit int) ([]*models.Contest, error)
	ListByCreator(ctx context.Context, creatorEmail string) ([]*models.Contest, error)
	ListAll(ctx context.Context) ([]*models.Contest, error)
	Update(ctx context.Context, contestID id.ContestID, editor string, changes models.Changes) (*models.Contest, error)
	Delete(ctx context.Context, contestID id.ContestID, actor string) error
	SetStatus(ctx context.Context, contestID id.ContestID, status string) error
	DeclareWinner(ctx context.Context, contestID id.ContestID, actor, winnerEmail string) (*models.Contest, error)
}

type Handler struct {
	svc    Service
	auth   func(http.Handler) http.Handler
	gate   middleware.RoleGate
	logger *slog.Logger
}

func New(svc Service, auth func(http.Handler) http.Handler, gate middleware.RoleGate, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, auth: auth, gate: gate, logger: logger}
}

type statusRequest struct {
	Status string `json:"status"`
}

type winnerRequest struct {
	WinnerEmail string `json:"winnerEmail"`
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/contests", h.handleList)
	r.Get("/contests/popular", h.handlePopular)
	r.Get("/contests/{id}", h.handleGet)

	r.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Get("/contests/mine", h.handleListMine)
		r.With(h.gate.Require(id.RoleCreator, id.RoleAdmin)).Post("/contests", h.handleCreate)
		r.Patch("/contests/{id}", h.handleUpdate)
		r.Delete("/contests/{id}", h.handleDelete)
		r.Patch("/contests/{id}/winner", h.handleDeclareWinner)

		r.Group(func(r chi.Router) {
			r.Use(h.gate.Require(id.RoleAdmin))
			r.Patch("/contests/{id}/status", h.handleSetStatus)
			r.Get("/admin/contests", h.handleListAll)
		})
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	limit, err := intParam(q.Get("limit"))
	if err != nil {
		h.fail(ctx, w, err, "invalid contest listing request")
		return
	}
	offset, err := intParam(q.Get("offset"))
	if err != nil {
		h.fail(ctx, w, err, "invalid contest listing request")
		return
	}
	out, err := h.svc.ListApproved(ctx, models.Filter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		h.fail(ctx, w, err, "failed to list contests")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handlePopular(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit, err := intParam(r.URL.Query().Get("limit"))
	if err != nil {
		h.fail(ctx, w, err, "invalid popular contests request")
		return
	}
	out, err := h.svc.Popular(ctx, limit)
	if err != nil {
		h.fail(ctx, w, err, "failed to list popular contests")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	contestID, err := id.ParseContestID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(ctx, w, err, "invalid contest id")
		return
	}
	c, err := h.svc.Get(ctx, contestID)
	if err != nil {
		h.fail(ctx, w, err, "failed to load contest")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) handleListMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := h.svc.ListByCreator(ctx, requestcontext.Email(ctx))
	if err != nil {
		h.fail(ctx, w, err, "failed to list own contests")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleListAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := h.svc.ListAll(ctx)
	if err != nil {
		h.fail(ctx, w, err, "failed to list contests")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var draft models.Draft
	if err := httputil.DecodeJSON(r, &draft); err != nil {
		h.fail(ctx, w, err, "invalid contest request")
		return
	}
	c, err := h.svc.Create(ctx, requestcontext.Email(ctx), draft)
	if err != nil {
		h.fail(ctx, w, err, "failed to create contest")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	contestID, err := id.ParseContestID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(ctx, w, err, "invalid contest id")
		return
	}
	var changes models.Changes
	if err := httputil.DecodeJSON(r, &changes); err != nil {
		h.fail(ctx, w, err, "invalid contest update")
		return
	}
	c, err := h.svc.Update(ctx, contestID, requestcontext.Email(ctx), changes)
	if err != nil {
		h.fail(ctx, w, err, "failed to update contest")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	contestID, err := id.ParseContestID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(ctx, w, err, "invalid contest id")
		return
	}
	if err := h.svc.Delete(ctx, contestID, requestcontext.Email(ctx)); err != nil {
		h.fail(ctx, w, err, "failed to delete contest")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	contestID, err := id.ParseContestID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(ctx, w, err, "invalid contest id")
		return
	}
	var req statusRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.fail(ctx, w, err, "invalid status request")
		return
	}
	if err := h.svc.SetStatus(ctx, contestID, req.Status); err != nil {
		h.fail(ctx, w, err, "failed to set contest status")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeclareWinner(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	contestID, err := id.ParseContestID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(ctx, w, err, "invalid contest id")
		return
	}
	var req winnerRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.fail(ctx, w, err, "invalid winner request")
		return
	}
	c, err := h.svc.DeclareWinner(ctx, contestID, requestcontext.Email(ctx), req.WinnerEmail)
	if err != nil {
		h.fail(ctx, w, err, "failed to declare winner")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	httputil.LogAndWriteError(ctx, h.logger, w, err, msg, requestcontext.RequestID(ctx))
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeBadRequest, "query parameters limit and offset must be integers")
	}
	return n, nil
}
