package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contesthub/internal/account/models"
	"contesthub/internal/account/service"
	"contesthub/internal/account/store"
	"contesthub/internal/platform/logger"
	"contesthub/internal/platform/middleware"
	id "contesthub/pkg/domain"
	"contesthub/pkg/requestcontext"
)

// emailVerifier treats the bearer token as the caller's email.
type emailVerifier struct{}

func (emailVerifier) Verify(_ context.Context, token string) (middleware.Identity, error) {
	if token == "invalid" {
		return middleware.Identity{}, errors.New("bad token")
	}
	return middleware.Identity{Email: token}, nil
}

type roleGate struct{ svc *service.Service }

func (g roleGate) Require(roles ...id.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, err := g.svc.GetRole(r.Context(), requestcontext.Email(r.Context()))
			if err != nil || !slices.Contains(roles, role) {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type fixture struct {
	router http.Handler
	store  *store.InMemoryStore
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	st := store.NewInMemory()
	svc := service.New(st, service.WithLogger(logger.Discard()))
	log := logger.Discard()
	h := New(svc, middleware.RequireAuth(emailVerifier{}, log), roleGate{svc: svc}, log)
	r := chi.NewRouter()
	h.Register(r)
	return fixture{router: r, store: st}
}

func (f fixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestSignInCreatesThenReturnsExisting(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/users", "ada@x.com", map[string]string{"name": "Ada"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.Account
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, "ada@x.com", created.Email)
	assert.Equal(t, id.RoleUser, created.Role)

	rec = f.do(t, http.MethodPost, "/users", "ada@x.com", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUsersRoutesRequireAuth(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodGet, "/users/me", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodGet, "/users/me", "invalid", nil).Code)
}

func TestGetMeNotFoundBeforeSignIn(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/users/me", "ghost@x.com", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_found")
}

func TestGetRole(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/users/role", "new@x.com", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"role":"user"}`, rec.Body.String())
}

func TestUpdateMe(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/users", "ada@x.com", nil)

	rec := f.do(t, http.MethodPatch, "/users/me", "ada@x.com", map[string]string{"bio": "  painter "})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated models.Account
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&updated))
	assert.Equal(t, "painter", updated.Bio)

	rec = f.do(t, http.MethodPatch, "/users/me", "ada@x.com", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminRoutes(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/users", "boss@x.com", nil)
	f.do(t, http.MethodPost, "/users", "bob@x.com", nil)
	require.NoError(t, f.store.SetRole(context.Background(), "boss@x.com", id.RoleAdmin))

	t.Run("non-admin is forbidden", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, f.do(t, http.MethodGet, "/users", "bob@x.com", nil).Code)
	})

	t.Run("admin lists accounts", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/users", "boss@x.com", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var accounts []models.Account
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&accounts))
		assert.Len(t, accounts, 2)
	})

	t.Run("admin promotes creator", func(t *testing.T) {
		rec := f.do(t, http.MethodPatch, "/users/bob@x.com/role", "boss@x.com", map[string]string{"role": "creator"})
		require.Equal(t, http.StatusNoContent, rec.Code)
		bob, err := f.store.FindByEmail(context.Background(), "bob@x.com")
		require.NoError(t, err)
		assert.Equal(t, id.RoleCreator, bob.Role)
	})

	t.Run("invalid role", func(t *testing.T) {
		rec := f.do(t, http.MethodPatch, "/users/bob@x.com/role", "boss@x.com", map[string]string{"role": "king"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLeaderboardIsPublic(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/users", "ada@x.com", map[string]string{"name": "Ada"})
	require.NoError(t, f.store.IncrementWins(context.Background(), "ada@x.com"))

	rec := f.do(t, http.MethodGet, "/leaderboard?limit=5", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []LeaderboardEntry
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "Ada", entries[0].Name)
	assert.Equal(t, 1, entries[0].TotalWon)

	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/leaderboard?limit=ten", "", nil).Code)
}
