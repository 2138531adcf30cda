package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"ficha/internal/address"
	"ficha/internal/checkin/dispatch"
	checkinhandler "ficha/internal/checkin/handler"
	checkinmetrics "ficha/internal/checkin/metrics"
	checkinservice "ficha/internal/checkin/service"
	"ficha/internal/checkin/workers/cleanup"
	"ficha/internal/platform/config"
	"ficha/internal/platform/database"
	"ficha/internal/platform/health"
	"ficha/internal/platform/httpserver"
	"ficha/internal/platform/logger"
	redisclient "ficha/internal/platform/redis"
	ratelimitconfig "ficha/internal/ratelimit/config"
	ratelimitmetrics "ficha/internal/ratelimit/metrics"
	ratelimitmw "ficha/internal/ratelimit/middleware"
	ratelimitmodels "ficha/internal/ratelimit/models"
	ratelimitservice "ficha/internal/ratelimit/service"
	"ficha/internal/ratelimit/store/bucket"
	tenanthandler "ficha/internal/tenant/handler"
	tenantmetrics "ficha/internal/tenant/metrics"
	tenantmodels "ficha/internal/tenant/models"
	tenantservice "ficha/internal/tenant/service"
	tenantstore "ficha/internal/tenant/store"
	"ficha/pkg/platform/circuit"
	adminmw "ficha/pkg/platform/middleware/admin"
	request "ficha/pkg/platform/middleware/request"
)

const (
	requestTimeout      = 30 * time.Second
	maxBodyBytes        = 64 << 10
	addressClientBudget = 10 * time.Second
	poolStatsInterval   = 15 * time.Second
	shutdownTimeout     = 10 * time.Second
)

// main wires configuration, storage and services, then runs the HTTP server
// and background workers until a signal arrives.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Environment)

	log.Info("initializing ficha",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"default_tenant", cfg.DefaultTenantID,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	reg := prometheus.DefaultRegisterer
	healthHandler := health.New(cfg.Environment)

	pool, err := database.New(cfg.Database)
	if err != nil {
		return err
	}
	if pool != nil {
		defer pool.Close() //nolint:errcheck // shutdown path
		if err := pool.Migrate(ctx); err != nil {
			return err
		}
		healthHandler.RegisterCheck("postgres", pool.Health)
	}

	rdb, err := redisclient.New(cfg.Redis, redisclient.NewPoolMetrics(reg))
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close() //nolint:errcheck // shutdown path
		healthHandler.RegisterCheck("redis", rdb.Health)
	}

	tenantStore := selectTenantStore(pool, rdb, log)
	tenants := tenantservice.New(tenantStore,
		tenantservice.WithLogger(log),
		tenantservice.WithMetrics(tenantmetrics.New(reg)),
		tenantservice.WithThemeListener(func(c tenantmodels.ThemeChange) {
			log.Info("tenant theme changed", "tenant_id", c.TenantID, "accent_color", c.AccentColor, "preview", c.Preview)
		}),
	)

	resolverOpts := []address.Option{
		address.WithLogger(log),
		address.WithMetrics(address.NewMetrics(reg)),
		address.WithBreaker(circuit.New("postal_lookup")),
	}
	if rdb != nil {
		resolverOpts = append(resolverOpts, address.WithCache(address.NewRedisCache(rdb.Client, config.AddressCacheTTL)))
	}
	resolver := address.NewResolver(address.NewClient(cfg.AddressLookupURL, addressClientBudget), resolverOpts...)

	sessions := checkinservice.New(tenants, resolver, dispatch.NewLogDispatcher(log),
		checkinservice.WithLogger(log),
		checkinservice.WithMetrics(checkinmetrics.New(reg)),
		checkinservice.WithIdleTTL(cfg.SessionIdleTTL),
	)
	defer sessions.Shutdown()

	cleanupOpts := []cleanup.CleanupOption{cleanup.WithCleanupLogger(log)}
	var buckets ratelimitservice.BucketStore
	if rdb != nil {
		buckets = bucket.NewRedisBucketStore(rdb.Client)
	} else {
		memBuckets := bucket.NewInMemoryBucketStore()
		cleanupOpts = append(cleanupOpts, cleanup.WithBucketPruner(memBuckets))
		buckets = memBuckets
	}
	limiter, err := ratelimitservice.New(buckets,
		ratelimitservice.WithLogger(log),
		ratelimitservice.WithConfig(ratelimitconfig.New(cfg.RateLimit.SessionOpenPerMinute, cfg.RateLimit.BrandingPerMinute)),
		ratelimitservice.WithMetrics(ratelimitmetrics.New(reg)),
	)
	if err != nil {
		return err
	}

	cleaner, err := cleanup.New(sessions, cleanupOpts...)
	if err != nil {
		return err
	}

	router := newRouter(cfg, log, healthHandler,
		ratelimitmw.New(limiter, log),
		tenanthandler.New(tenants, log, cfg.LicenseContactURL),
		checkinhandler.New(sessions, log, cfg.DefaultTenantID, cfg.LicenseContactURL),
	)
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return ignoreCanceled(cleaner.Start(gctx))
	})
	if rdb != nil {
		g.Go(func() error {
			return ignoreCanceled(rdb.RunPoolStats(gctx, poolStatsInterval))
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// selectTenantStore prefers Postgres, then Redis, then process memory.
func selectTenantStore(pool *database.Pool, rdb *redisclient.Client, log *slog.Logger) tenantservice.Store {
	switch {
	case pool != nil:
		log.Info("tenant store: postgres")
		return tenantstore.NewPostgres(pool.DB())
	case rdb != nil:
		log.Info("tenant store: redis")
		return tenantstore.NewRedis(rdb.Client)
	default:
		log.Warn("tenant store: in-memory, tenant records are lost on restart")
		return tenantstore.NewInMemory()
	}
}

func newRouter(
	cfg config.Server,
	log *slog.Logger,
	healthHandler *health.Handler,
	limits *ratelimitmw.Middleware,
	tenants *tenanthandler.Handler,
	checkin *checkinhandler.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(request.Recovery(log))
	r.Use(request.RequestID)
	r.Use(request.RequestTime)
	r.Use(request.ClientIP(cfg.TrustedProxies))
	r.Use(request.Logger(log))

	healthHandler.Register(r)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(request.Timeout(requestTimeout))
		r.Use(request.ContentTypeJSON)
		r.Use(request.BodyLimit(maxBodyBytes))
		r.Use(request.LatencyMiddleware(request.NewMetrics()))

		r.With(limits.RateLimit(ratelimitmodels.ClassBranding)).Group(tenants.Register)
		r.With(limits.RateLimit(ratelimitmodels.ClassSessionOpen)).Group(checkin.RegisterOpen)
		checkin.Register(r)

		r.Group(func(r chi.Router) {
			r.Use(adminmw.RequireAdminToken(cfg.AdminAPIToken, log))
			tenants.RegisterAdmin(r)
		})
	})
	return r
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
