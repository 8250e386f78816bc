package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/dendrix-ai/dendrix-web/internal/content"
	"github.com/dendrix-ai/dendrix-web/internal/leads"
	"github.com/dendrix-ai/dendrix-web/internal/locale"
	"github.com/dendrix-ai/dendrix-web/internal/variants"
	"github.com/dendrix-ai/dendrix-web/pkg/common"
	"github.com/dendrix-ai/dendrix-web/pkg/config"
	"github.com/dendrix-ai/dendrix-web/pkg/middleware"
	"github.com/dendrix-ai/dendrix-web/pkg/ratelimit"
	"github.com/dendrix-ai/dendrix-web/pkg/tracing"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/timeout"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// app holds everything the router needs
type app struct {
	cfg          *config.Config
	negotiator   *locale.Negotiator
	variants     *variants.Service
	caches       variants.CacheProvider
	content      *content.Service
	leads        *leads.Service
	limiter      *ratelimit.Limiter
	healthChecks map[string]common.CheckFunc
	sentry       bool
}

func newRouter(a *app) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery())
	if a.sentry {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(middleware.CorrelationID())
	router.Use(tracing.Middleware(a.cfg.Server.ServiceName))
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics(a.cfg.Server.ServiceName))
	router.Use(middleware.SecurityHeaders(a.cfg.Server.SecureCookies))
	router.Use(cors.New(corsConfig(a.cfg.Server.CORSOrigins)))
	router.Use(a.negotiator.Middleware())
	router.Use(timeout.New(
		timeout.WithTimeout(requestTimeout(a.cfg.Server.RequestTimeout)),
		timeout.WithResponse(func(c *gin.Context) {
			common.ErrorResponse(c, http.StatusGatewayTimeout, "request timed out")
		}),
	))

	router.GET("/healthz", common.HealthCheckWithDeps(a.cfg.Server.ServiceName, a.cfg.Server.Version, a.healthChecks))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	session := variants.SessionMiddleware(a.variants, a.caches, variants.SessionCookie{
		Name:   a.cfg.Variants.SessionCookie,
		Secure: a.cfg.Server.SecureCookies,
	})

	limit := middleware.RateLimit(a.limiter)

	variants.NewHandler(a.variants).RegisterRoutes(router, session, a.cfg.Admin.Token, limit)
	leads.NewHandler(a.leads).RegisterRoutes(router, session, limit)
	content.NewHandler(a.content).RegisterRoutes(router, a.negotiator, session)

	return router
}

func corsConfig(origins string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept-Language", middleware.CorrelationIDHeader, middleware.AdminTokenHeader},
		ExposeHeaders:    []string{middleware.CorrelationIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, o)
		}
	}
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowOrigins = []string{"http://localhost:3000"}
	}
	return cfg
}

func requestTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return 5 * time.Second
	}
	return d
}
