package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dendrix-ai/dendrix-web/internal/content"
	"github.com/dendrix-ai/dendrix-web/internal/leads"
	"github.com/dendrix-ai/dendrix-web/internal/locale"
	"github.com/dendrix-ai/dendrix-web/internal/variants"
	"github.com/dendrix-ai/dendrix-web/pkg/common"
	"github.com/dendrix-ai/dendrix-web/pkg/config"
	"github.com/dendrix-ai/dendrix-web/pkg/database"
	"github.com/dendrix-ai/dendrix-web/pkg/health"
	"github.com/dendrix-ai/dendrix-web/pkg/logger"
	"github.com/dendrix-ai/dendrix-web/pkg/ratelimit"
	"github.com/dendrix-ai/dendrix-web/pkg/redis"
	"github.com/dendrix-ai/dendrix-web/pkg/resilience"
	"github.com/dendrix-ai/dendrix-web/pkg/tracing"
	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const (
	serviceName = "dendrix-web"
	janitorTick = time.Minute
)

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting service",
		zap.String("service", serviceName),
		zap.String("version", cfg.Server.Version),
		zap.String("environment", cfg.Server.Environment),
	)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sentryEnabled := cfg.Sentry.Enabled && cfg.Sentry.DSN != ""
	if sentryEnabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Server.Environment,
			Release:     serviceName + "@" + cfg.Server.Version,
		}); err != nil {
			logger.Warn("Sentry disabled", zap.Error(err))
			sentryEnabled = false
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	shutdownTracing, err := tracing.Init(ctx, &cfg.Tracing, serviceName, cfg.Server.Version)
	if err != nil {
		logger.Warn("Tracing disabled", zap.Error(err))
	}

	// ========================================
	// STORAGE
	// ========================================

	pool, err := database.NewPostgresPool(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(pool)
	logger.Info("Connected to PostgreSQL")

	if cfg.Database.RunMigrations {
		if err := database.Migrate(cfg.Database.URL()); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	healthChecks := map[string]common.CheckFunc{
		"database": health.PostgresChecker(pool),
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewRedisClient(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		healthChecks["redis"] = health.RedisChecker(redisClient.Client)
		logger.Info("Connected to Redis")
	}

	var limiter *ratelimit.Limiter
	if redisClient != nil && cfg.RateLimit.Enabled {
		limiter = ratelimit.NewLimiter(redisClient.Client, cfg.RateLimit)
	}

	var natsConn *nats.Conn
	if cfg.NATS.Enabled {
		natsConn, err = nats.Connect(cfg.NATS.URL,
			nats.Name(serviceName),
			nats.MaxReconnects(-1),
			nats.ReconnectWait(2*time.Second),
		)
		if err != nil {
			// Telemetry and lead events are best effort; run without them.
			logger.Warn("NATS unavailable, events will not be published", zap.Error(err))
			natsConn = nil
		} else {
			defer natsConn.Drain()
			healthChecks["nats"] = health.NATSChecker(natsConn)
			logger.Info("Connected to NATS", zap.String("url", cfg.NATS.URL))
		}
	}

	// ========================================
	// CONTENT VARIANTS
	// ========================================

	variantRepo := variants.NewRepository(pool)

	sinks := variants.MultiSink{variantRepo}
	if natsConn != nil {
		sinks = append(sinks, variants.NewNATSSink(natsConn, cfg.NATS.Subject))
	}
	notifier := variants.NewAsyncNotifier(sinks, cfg.Variants.QueueSize, cfg.Variants.Workers, cfg.Variants.TelemetryTimeout)
	defer notifier.Close()

	store := variants.NewBreakerStore(variantRepo, resilience.BuildSettings(
		"variants-store",
		cfg.Variants.BreakerInterval,
		cfg.Variants.BreakerTimeout,
		cfg.Variants.BreakerFailures,
		cfg.Variants.BreakerSuccesses,
	))

	var caches variants.CacheProvider
	switch cfg.Variants.CacheBackend {
	case "redis":
		caches = variants.NewRedisStore(redisClient.Client, cfg.Variants.SessionTTL)
	default:
		memory := variants.NewMemoryStore(cfg.Variants.SessionTTL)
		go memory.RunJanitor(ctx, janitorTick)
		caches = memory
	}

	variantService := variants.NewService(variantRepo,
		variants.WithStore(store),
		variants.WithNotifier(notifier),
	)

	// ========================================
	// SITE
	// ========================================

	var leadPublisher leads.Publisher
	if natsConn != nil {
		leadPublisher = natsConn
	}

	router := newRouter(&app{
		cfg: cfg,
		negotiator: locale.NewNegotiator(locale.Config{
			Supported:    cfg.Locale.Supported,
			Default:      cfg.Locale.Default,
			CookieName:   cfg.Locale.CookieName,
			CookieMaxAge: cfg.Locale.CookieMaxAge,
			SecureCookie: cfg.Server.SecureCookies,
		}),
		variants:     variantService,
		caches:       caches,
		limiter:      limiter,
		content:      content.NewService(content.NewRepository(pool)),
		leads:        leads.NewService(leads.NewRepository(pool), leadPublisher, cfg.NATS.Subject),
		healthChecks: healthChecks,
		sentry:       sentryEnabled,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	if shutdownTracing != nil {
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("Tracer shutdown failed", zap.Error(err))
		}
	}

	logger.Info("Server exited")
}
