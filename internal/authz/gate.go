package authz

import (
	"context"
	"log/slog"
	"net/http"

	"contesthub/internal/account/models"
	id "contesthub/pkg/domain"
	dErrors "contesthub/pkg/domain-errors"
	"contesthub/pkg/platform/httputil"
	"contesthub/pkg/requestcontext"
)

// AccountLookup loads the caller's account. A CodeNotFound error means the
// caller has not signed in yet.
type AccountLookup interface {
	Get(ctx context.Context, email string) (*models.Account, error)
}

// Gate implements middleware.RoleGate with a per-request account lookup.
type Gate struct {
	accounts AccountLookup
	logger   *slog.Logger
	auditor  Auditor
}

type GateOption func(*Gate)

func NewGate(accounts AccountLookup, logger *slog.Logger, opts ...GateOption) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Gate{accounts: accounts, logger: logger}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Require allows the request through when the caller holds one of roles.
func (g *Gate) Require(roles ...id.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)
			email := requestcontext.Email(ctx)

			var account *models.Account
			if email != "" {
				acct, err := g.accounts.Get(ctx, email)
				switch {
				case err == nil:
					account = acct
				case dErrors.HasCode(err, dErrors.CodeNotFound):
				default:
					httputil.LogAndWriteError(ctx, g.logger, w, err, "role lookup failed", requestID)
					return
				}
			}

			decision := Decide(email, roles, account)
			if decision.Allowed() {
				next.ServeHTTP(w, r)
				return
			}

			g.logger.WarnContext(ctx, "access denied",
				"reason", decision.Reason,
				"role", decision.Role,
				"required", roles,
				"request_id", requestID,
			)
			g.recordDenial(ctx, r, decision)
			if decision.Outcome == OutcomeUnauthenticated {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
				return
			}
			httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "insufficient role"))
		})
	}
}
