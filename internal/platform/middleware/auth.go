package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	id "contesthub/pkg/domain"
	"contesthub/pkg/platform/httputil"
	"contesthub/pkg/requestcontext"
)

// Identity is the verified subject of a bearer credential.
type Identity struct {
	Email string
	Name  string
}

// IdentityVerifier validates a bearer credential and returns its subject.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// RoleGate guards routes by the caller's platform role. It runs after
// RequireAuth.
type RoleGate interface {
	Require(roles ...id.Role) func(http.Handler) http.Handler
}

// RequireAuth rejects requests without a valid bearer token and stores the
// verified identity in the request context.
func RequireAuth(verifier IdentityVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
			if !ok || strings.TrimSpace(token) == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{
					Error:            "unauthorized",
					ErrorDescription: "Missing or invalid Authorization header",
				})
				return
			}

			identity, err := verifier.Verify(ctx, strings.TrimSpace(token))
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{
					Error:            "unauthorized",
					ErrorDescription: "Invalid or expired token",
				})
				return
			}

			ctx = requestcontext.WithIdentity(ctx, identity.Email, identity.Name)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
