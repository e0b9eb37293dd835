package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contesthub/internal/events"
	"contesthub/internal/platform/config"
	"contesthub/internal/platform/logger"
	"contesthub/internal/registration/ports"
	id "contesthub/pkg/domain"
	"contesthub/pkg/testutil"
)

// checkoutGateway pays every session it creates as soon as it is retrieved.
type checkoutGateway struct {
	mu       sync.Mutex
	sessions map[string]*ports.CheckoutSession
}

func (g *checkoutGateway) CreateCheckoutSession(_ context.Context, req ports.CheckoutRequest) (*ports.CheckoutLink, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	sid := fmt.Sprintf("cs_%d", len(g.sessions)+1)
	g.sessions[sid] = &ports.CheckoutSession{
		ID:            sid,
		PaymentStatus: "paid",
		TransactionID: "pi_" + sid,
		AmountTotal:   req.Amount,
		CustomerEmail: req.CustomerEmail,
		Metadata:      req.Metadata(),
	}
	return &ports.CheckoutLink{SessionID: sid, URL: "https://pay.example/" + sid}, nil
}

func (g *checkoutGateway) RetrieveSession(_ context.Context, sessionID string) (*ports.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("no such session %s", sessionID)
	}
	cp := *s
	return &cp, nil
}

type harness struct {
	t      *testing.T
	router http.Handler
	st     *stores
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWithAuth(t, config.AuthConfig{
		JWTSigningKey: "test-signing-key-0123456789abcdef",
		Issuer:        "contesthub",
		TokenTTL:      time.Hour,
		DevIssuer:     true,
	})
}

func newHarnessWithAuth(t *testing.T, auth config.AuthConfig) *harness {
	t.Helper()
	st, err := openStores(context.Background(), storeMemory, config.PostgresConfig{})
	require.NoError(t, err)

	cfg := config.Config{
		Auth:      auth,
		RateLimit: config.RateLimitConfig{CheckoutPerMinute: 100, ConfirmPerMinute: 100},
	}
	gw := &checkoutGateway{sessions: map[string]*ports.CheckoutSession{}}
	a, err := newApp(cfg, st, gw, events.NoopPublisher{}, nil, prometheus.NewRegistry(), logger.Discard())
	require.NoError(t, err)
	return &harness{t: t, router: a.router, st: st}
}

func (h *harness) token(email string) string {
	h.t.Helper()
	req := testutil.NewJSONRequest(h.t, http.MethodPost, "/auth/token", map[string]string{"email": email})
	rr := testutil.DoRequest(h.router, req)
	testutil.AssertStatusOK(h.t, rr)
	return testutil.UnmarshalResponse[struct {
		AccessToken string `json:"accessToken"`
	}](h.t, rr).AccessToken
}

func (h *harness) do(method, path, token string, body any) *httptest.ResponseRecorder {
	h.t.Helper()
	req := testutil.NewJSONRequest(h.t, method, path, body)
	if token != "" {
		req = testutil.WithBearer(req, token)
	}
	return testutil.DoRequest(h.router, req)
}

func TestContestLifecycleOverHTTP(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	admin, creator, ada := h.token("admin@x.com"), h.token("creator@x.com"), h.token("ada@x.com")
	for _, tok := range []string{admin, creator, ada} {
		require.Equal(t, http.StatusCreated, h.do(http.MethodPost, "/users", tok, map[string]string{}).Code)
	}
	require.NoError(t, h.st.accounts.SetRole(ctx, "admin@x.com", id.RoleAdmin))
	require.NoError(t, h.st.accounts.SetRole(ctx, "creator@x.com", id.RoleCreator))

	var contestID string
	testutil.Given(t, "a creator submits a paid contest", func(t *testing.T) {
		res := h.do(http.MethodPost, "/contests", creator, map[string]any{
			"name":     "Logo Sprint",
			"category": "Design",
			"entryFee": 1500,
			"deadline": time.Now().Add(48 * time.Hour).UTC(),
		})
		testutil.AssertStatus(t, res, http.StatusCreated)
		contestID = testutil.UnmarshalResponse[struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		}](t, res).ID
		require.NotEmpty(t, contestID)

		// Ordinary users cannot author contests.
		testutil.AssertStatus(t, h.do(http.MethodPost, "/contests", ada, map[string]any{"name": "x"}), http.StatusForbidden)
	})

	testutil.When(t, "an admin approves it and a participant pays", func(t *testing.T) {
		testutil.AssertStatus(t, h.do(http.MethodPatch, "/contests/"+contestID+"/status", admin, map[string]string{"status": "approved"}), http.StatusNoContent)
		testutil.AssertStatus(t, h.do(http.MethodPatch, "/contests/"+contestID+"/status", creator, map[string]string{"status": "approved"}), http.StatusForbidden)

		res := h.do(http.MethodPost, "/payments/checkout", ada, map[string]string{"contestId": contestID})
		testutil.AssertStatus(t, res, http.StatusCreated)
		link := testutil.UnmarshalResponse[ports.CheckoutLink](t, res)

		confirm := h.do(http.MethodGet, "/payments/success?session_id="+link.SessionID, "", nil)
		testutil.AssertStatusOK(t, confirm)
		testutil.AssertJSONContains(t, confirm, "status", "confirmed")

		again := h.do(http.MethodPatch, "/payments/success?session_id="+link.SessionID, "", nil)
		testutil.AssertStatusOK(t, again)
		testutil.AssertJSONContains(t, again, "status", "already_processed")
	})

	testutil.Then(t, "the participant is registered and may submit", func(t *testing.T) {
		check := h.do(http.MethodGet, "/registrations/check?contestId="+contestID, ada, nil)
		testutil.AssertStatusOK(t, check)
		testutil.AssertJSONContains(t, check, "registered", true)

		contest := h.do(http.MethodGet, "/contests/"+contestID, "", nil)
		testutil.AssertJSONContains(t, contest, "participants", float64(1))

		me := h.do(http.MethodGet, "/users/me", ada, nil)
		testutil.AssertJSONContains(t, me, "totalParticipated", float64(1))

		sub := h.do(http.MethodPost, "/submissions", ada, map[string]any{
			"contestId": contestID,
			"payload":   map[string]string{"link": "https://example.com/logo.png"},
		})
		testutil.AssertStatus(t, sub, http.StatusCreated)

		// Unregistered callers are refused.
		other := h.token("bob@x.com")
		refused := h.do(http.MethodPost, "/submissions", other, map[string]any{
			"contestId": contestID,
			"payload":   map[string]string{"link": "x"},
		})
		testutil.AssertStatus(t, refused, http.StatusForbidden)

		entries := h.do(http.MethodGet, "/contests/"+contestID+"/submissions", creator, nil)
		testutil.AssertStatusOK(t, entries)
		assert.Len(t, *testutil.UnmarshalResponse[[]map[string]any](t, entries), 1)
	})

	testutil.Then(t, "the admin audit trail records the decisions", func(t *testing.T) {
		testutil.AssertStatus(t, h.do(http.MethodGet, "/admin/audit", ada, nil), http.StatusForbidden)

		res := h.do(http.MethodGet, "/admin/audit", admin, nil)
		testutil.AssertStatusOK(t, res)
		trail := testutil.UnmarshalResponse[struct {
			Events []struct {
				Action    string `json:"action"`
				Actor     string `json:"actor"`
				ContestID string `json:"contestId"`
			} `json:"events"`
		}](t, res)

		seen := map[string]bool{}
		for _, e := range trail.Events {
			seen[e.Action+" by "+e.Actor] = true
		}
		assert.True(t, seen["account_created by ada@x.com"])
		assert.True(t, seen["contest_reviewed by admin@x.com"])
		assert.True(t, seen["registration_confirmed by ada@x.com"])
		assert.True(t, seen["access_denied by creator@x.com"])
		assert.True(t, seen["access_denied by ada@x.com"])
	})
}

func TestHealthInMemory(t *testing.T) {
	h := newHarness(t)
	res := h.do(http.MethodGet, "/health", "", nil)
	testutil.AssertStatusOK(t, res)
	testutil.AssertJSONContains(t, res, "status", "ok")
}

func TestOpenStoresRejectsUnknownKind(t *testing.T) {
	_, err := openStores(context.Background(), "sqlite", config.PostgresConfig{})
	assert.ErrorContains(t, err, "unknown store")
}

func TestTokenRouteIsOffByDefault(t *testing.T) {
	h := newHarnessWithAuth(t, config.AuthConfig{
		JWTSigningKey: "test-signing-key-0123456789abcdef",
		Issuer:        "contesthub",
		TokenTTL:      time.Hour,
	})

	res := h.do(http.MethodPost, "/auth/token", "", map[string]string{"email": "admin@x.com"})
	testutil.AssertStatus(t, res, http.StatusNotFound)
}

func TestNewAppRejectsBadTrustedProxy(t *testing.T) {
	st, err := openStores(context.Background(), storeMemory, config.PostgresConfig{})
	require.NoError(t, err)
	cfg := config.Config{Server: config.Server{TrustedProxies: []string{"10.0.0.0/99"}}}

	_, err = newApp(cfg, st, &checkoutGateway{}, events.NoopPublisher{}, nil, prometheus.NewRegistry(), logger.Discard())
	assert.ErrorContains(t, err, "trusted proxy")
}

func TestServeRefusesMissingSigningKey(t *testing.T) {
	err := runServe(context.Background(), config.Config{LogLevel: "error"}, storeMemory)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SIGNING_KEY")
}

func TestCheckoutRequiresAccount(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	admin, creator := h.token("admin@x.com"), h.token("creator@x.com")
	for _, tok := range []string{admin, creator} {
		require.Equal(t, http.StatusCreated, h.do(http.MethodPost, "/users", tok, map[string]string{}).Code)
	}
	require.NoError(t, h.st.accounts.SetRole(ctx, "admin@x.com", id.RoleAdmin))
	require.NoError(t, h.st.accounts.SetRole(ctx, "creator@x.com", id.RoleCreator))
	res := h.do(http.MethodPost, "/contests", creator, map[string]any{
		"name":     "Poster Jam",
		"entryFee": 900,
		"deadline": time.Now().Add(48 * time.Hour).UTC(),
	})
	testutil.AssertStatus(t, res, http.StatusCreated)
	contestID := testutil.UnmarshalResponse[struct {
		ID string `json:"id"`
	}](t, res).ID
	testutil.AssertStatus(t, h.do(http.MethodPatch, "/contests/"+contestID+"/status", admin, map[string]string{"status": "approved"}), http.StatusNoContent)

	// A valid token alone is not enough: the caller never created an account.
	bob := h.token("bob@x.com")
	checkout := h.do(http.MethodPost, "/payments/checkout", bob, map[string]string{"contestId": contestID})
	testutil.AssertStatus(t, checkout, http.StatusNotFound)
}
