package identity

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"contesthub/pkg/platform/httputil"
	"contesthub/pkg/requestcontext"
)

// Handler serves POST /auth/token for local setups. serve mounts it only
// when AUTH_DEV_ISSUER is on, since it signs a token for any email.
type Handler struct {
	issuer  *Service
	limiter func(http.Handler) http.Handler
	logger  *slog.Logger
}

// NewHandler builds the token handler. A nil limiter leaves the route
// unthrottled.
func NewHandler(issuer *Service, limiter func(http.Handler) http.Handler, logger *slog.Logger) *Handler {
	if limiter == nil {
		limiter = func(next http.Handler) http.Handler { return next }
	}
	return &Handler{issuer: issuer, limiter: limiter, logger: logger}
}

type tokenRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (h *Handler) Register(r chi.Router) {
	r.With(h.limiter).Post("/auth/token", h.handleIssue)
}

func (h *Handler) handleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req tokenRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.LogAndWriteError(ctx, h.logger, w, err, "failed to decode token request", requestcontext.RequestID(ctx))
		return
	}
	tok, err := h.issuer.Issue(req.Email, req.Name)
	if err != nil {
		httputil.LogAndWriteError(ctx, h.logger, w, err, "failed to issue token", requestcontext.RequestID(ctx))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tok)
}
