package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	accountHandler "contesthub/internal/account/handler"
	"contesthub/internal/admin"
	accountService "contesthub/internal/account/service"
	"contesthub/internal/authz"
	contestHandler "contesthub/internal/contest/handler"
	contestService "contesthub/internal/contest/service"
	"contesthub/internal/events"
	"contesthub/internal/events/kafka"
	"contesthub/internal/identity"
	"contesthub/internal/payment/stripe"
	"contesthub/internal/platform/config"
	"contesthub/internal/platform/httpserver"
	"contesthub/internal/platform/logger"
	"contesthub/internal/platform/metrics"
	"contesthub/internal/platform/middleware"
	redisclient "contesthub/internal/platform/redis"
	"contesthub/internal/platform/tracing"
	rlMiddleware "contesthub/internal/ratelimit/middleware"
	rlService "contesthub/internal/ratelimit/service"
	"contesthub/internal/ratelimit/store/bucket"
	regHandler "contesthub/internal/registration/handler"
	regMetrics "contesthub/internal/registration/metrics"
	"contesthub/internal/registration/ports"
	regService "contesthub/internal/registration/service"
	submissionHandler "contesthub/internal/submission/handler"
	submissionService "contesthub/internal/submission/service"
	httptransport "contesthub/internal/transport/http"
	auditPublisher "contesthub/pkg/platform/audit/publisher"
	"contesthub/pkg/platform/middleware/metadata"
)

const sweepInterval = time.Minute

type eventPublisher interface {
	regService.Publisher
	Close()
}

func serveCmd() *cobra.Command {
	var storeKind string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			envFile, _ := cmd.Flags().GetString("env-file")
			cfg := config.Load(envFile)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, storeKind)
		},
	}
	cmd.Flags().StringVar(&storeKind, "store", storePostgres, "entity store: postgres or memory")
	return cmd
}

func runServe(ctx context.Context, cfg config.Config, storeKind string) error {
	log := logger.New("contesthub", cfg.LogLevel)
	slog.SetDefault(log)

	if err := cfg.Auth.Validate(); err != nil {
		return fmt.Errorf("auth config: %w", err)
	}
	if cfg.Auth.DevIssuer {
		log.Warn("AUTH_DEV_ISSUER is on; POST /auth/token signs tokens for any email")
	}

	shutdownTracing, err := tracing.Setup(cfg.Tracing, "contesthub")
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn("trace flush failed", "error", err)
		}
	}()

	st, err := openStores(ctx, storeKind, cfg.Postgres)
	if err != nil {
		return err
	}
	defer st.Close()

	rc, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if rc != nil {
		defer rc.Close()
	}

	publisher, err := newPublisher(ctx, cfg.Kafka, log)
	if err != nil {
		return err
	}
	defer publisher.Close()

	if cfg.Payments.StripeSecretKey == "" {
		log.Warn("STRIPE_SECRET_KEY is not set; checkout and confirmation will fail")
	}

	a, err := newApp(cfg, st, stripe.New(cfg.Payments), publisher, rc, prometheus.DefaultRegisterer, log)
	if err != nil {
		return err
	}
	defer a.auditLog.Close()
	srv := httpserver.New(cfg.Server, a.router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting contesthub", "addr", cfg.Server.Addr, "store", storeKind, "redis", rc != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return a.limitBuckets.RunSweeper(gctx, sweepInterval)
	})
	return g.Wait()
}

func newPublisher(ctx context.Context, cfg config.KafkaConfig, log *slog.Logger) (eventPublisher, error) {
	if len(cfg.Brokers) == 0 {
		log.Info("kafka brokers not configured; registration events disabled")
		return events.NoopPublisher{}, nil
	}
	p, err := kafka.NewPublisher(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("kafka publisher: %w", err)
	}
	return p, nil
}

// app is the assembled HTTP surface plus the background work it needs.
type app struct {
	router       http.Handler
	limitBuckets *bucket.InMemoryBucketStore
	auditLog     *auditPublisher.Publisher
}

func newApp(
	cfg config.Config,
	st *stores,
	gateway ports.PaymentGateway,
	publisher regService.Publisher,
	rc *redisclient.Client,
	reg prometheus.Registerer,
	log *slog.Logger,
) (*app, error) {
	trustedProxies, err := metadata.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("server config: %w", err)
	}
	platformMetrics := metrics.New(reg)
	auditLog := auditPublisher.NewPublisher(st.audit,
		auditPublisher.WithLogger(log),
		auditPublisher.WithAsyncBuffer(cfg.Audit.BufferSize),
	)

	accounts := accountService.New(st.accounts,
		accountService.WithLogger(log),
		accountService.WithMetrics(platformMetrics),
		accountService.WithAuditor(auditLog),
	)
	contests := contestService.New(st.contests, st.tx, accounts, st.accounts, st.registrations,
		contestService.WithLogger(log),
		contestService.WithAuditor(auditLog),
	)
	registrations := regService.New(gateway, st.registrations, st.tx, st.accounts, st.contests, contests,
		regService.WithLogger(log),
		regService.WithMetrics(regMetrics.New(reg)),
		regService.WithPublisher(publisher),
		regService.WithAuditor(auditLog),
		regService.WithAccounts(accounts),
	)
	submissions := submissionService.New(st.submissions, contests, st.registrations, accounts,
		submissionService.WithLogger(log),
	)

	tokens := identity.New(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	auth := middleware.RequireAuth(tokens, log)
	gate := authz.NewGate(accounts, log, authz.WithAuditor(auditLog))

	fallback := bucket.New()
	var primary rlService.BucketStore
	if rc != nil {
		primary = bucket.NewRedis(rc)
	}
	limiter := rlMiddleware.New(rlService.New(primary, fallback, rlService.WithLogger(log)), log,
		rlMiddleware.WithMetrics(platformMetrics),
		rlMiddleware.WithAuditor(auditLog),
	)

	healthChecks := map[string]httptransport.HealthCheck{"store": st.Ping}
	if rc != nil {
		healthChecks["redis"] = rc.Health
	}

	var metricsHandler http.Handler
	if g, ok := reg.(prometheus.Gatherer); ok {
		metricsHandler = promhttp.HandlerFor(g, promhttp.HandlerOpts{})
	}

	deps := httptransport.Deps{
		Logger:         log,
		Metrics:        platformMetrics,
		MetricsHandler: metricsHandler,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		TrustedProxies: trustedProxies,
		RequestTimeout: cfg.Server.RequestTimeout,
		HealthChecks:   healthChecks,
		Handlers: []httptransport.Registrar{
			accountHandler.New(accounts, auth, gate, log),
			contestHandler.New(contests, auth, gate, log),
			submissionHandler.New(submissions, auth, log),
			regHandler.New(registrations, auth, regHandler.Limits{
				Checkout: limiter.Limit("checkout", cfg.RateLimit.CheckoutPerMinute),
				Confirm:  limiter.Limit("confirm", cfg.RateLimit.ConfirmPerMinute),
			}, log),
			admin.New(auditLog, auth, gate, log),
		},
	}
	if cfg.Auth.DevIssuer {
		deps.Handlers = append(deps.Handlers,
			identity.NewHandler(tokens, limiter.Limit("token", cfg.RateLimit.CheckoutPerMinute), log))
	}
	router := httptransport.NewRouter(deps)
	return &app{router: router, limitBuckets: fallback, auditLog: auditLog}, nil
}
