package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"contesthub/internal/submission/models"
	id "contesthub/pkg/domain"
	"contesthub/pkg/platform/httputil"
	"contesthub/pkg/requestcontext"
)

type Service interface {
	Submit(ctx context.Context, email string, contestID id.ContestID, payload json.RawMessage) (*models.Submission, error)
	ListByContest(ctx context.Context, contestID id.ContestID, requester string) ([]*models.Submission, error)
	ListMine(ctx context.Context, email string) ([]*models.Submission, error)
}

type Handler struct {
	svc    Service
	auth   func(http.Handler) http.Handler
	logger *slog.Logger
}

func New(svc Service, auth func(http.Handler) http.Handler, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, auth: auth, logger: logger}
}

type submitRequest struct {
	ContestID string          `json:"contestId"`
	Payload   json.RawMessage `json:"payload"`
}

func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Post("/submissions", h.handleSubmit)
		r.Get("/submissions/mine", h.handleListMine)
		r.Get("/contests/{id}/submissions", h.handleListByContest)
	})
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req submitRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.fail(ctx, w, err, "invalid submission request")
		return
	}
	contestID, err := id.ParseContestID(req.ContestID)
	if err != nil {
		h.fail(ctx, w, err, "invalid submission request")
		return
	}
	sub, err := h.svc.Submit(ctx, requestcontext.Email(ctx), contestID, req.Payload)
	if err != nil {
		h.fail(ctx, w, err, "failed to submit")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, sub)
}

func (h *Handler) handleListMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := h.svc.ListMine(ctx, requestcontext.Email(ctx))
	if err != nil {
		h.fail(ctx, w, err, "failed to list submissions")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleListByContest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	contestID, err := id.ParseContestID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(ctx, w, err, "invalid contest id")
		return
	}
	out, err := h.svc.ListByContest(ctx, contestID, requestcontext.Email(ctx))
	if err != nil {
		h.fail(ctx, w, err, "failed to list contest submissions")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	httputil.LogAndWriteError(ctx, h.logger, w, err, msg, requestcontext.RequestID(ctx))
}
