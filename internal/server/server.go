package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pooltablesquad/backoffice/internal/analytics"
	"github.com/pooltablesquad/backoffice/internal/auth"
	"github.com/pooltablesquad/backoffice/internal/config"
	"github.com/pooltablesquad/backoffice/internal/metrics"
	"github.com/pooltablesquad/backoffice/internal/pricing"
	"github.com/pooltablesquad/backoffice/internal/repository"
	"github.com/pooltablesquad/backoffice/internal/webhook"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server assembles the HTTP surface: public webhook ingestion, session
// endpoints, and the cookie-guarded dashboard API.
type Server struct {
	log      *slog.Logger
	cfg      *config.Config
	repo     *repository.Repository
	calc     *pricing.Calculator
	metrics   *metrics.Metrics
	webhooks  *webhook.Handler
	auth      *auth.Handler
	analytics *analytics.Forwarder
	gatherer  prometheus.Gatherer
}

func New(
	log *slog.Logger,
	cfg *config.Config,
	repo *repository.Repository,
	calc *pricing.Calculator,
	appMetrics *metrics.Metrics,
	webhooks *webhook.Handler,
	authHandler *auth.Handler,
	forwarder *analytics.Forwarder,
	gatherer prometheus.Gatherer,
) *Server {
	return &Server{
		log:       log,
		cfg:       cfg,
		repo:      repo,
		calc:      calc,
		metrics:   appMetrics,
		webhooks:  webhooks,
		auth:      authHandler,
		analytics: forwarder,
		gatherer:  gatherer,
	}
}

// Router builds the gin engine with all routes and middleware mounted.
func (s *Server) Router() *gin.Engine {
	if s.cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.observability())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Webhook-Secret"},
		AllowCredentials: true,
	}))

	router.GET("/healthz", func(c *gin.Context) {
		if err := s.repo.Ping(c.Request.Context()); err != nil {
			s.log.ErrorContext(c.Request.Context(), "Health check failed", "error", err)
			c.String(http.StatusServiceUnavailable, "DB ping failed")
			return
		}
		c.String(http.StatusOK, "API server is running")
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	router.POST("/send-ga4-event", s.handleSendAnalyticsEvent)

	s.auth.Register(router.Group("/api/auth"))

	webhooks := router.Group("/webhooks", s.verifyWebhookSecret())
	s.webhooks.Register(webhooks)

	api := router.Group("/api", s.auth.Middleware())
	s.registerCalculatorRoutes(api.Group("/calculator"))
	s.registerContractorRoutes(api.Group("/contractors"))
	s.registerCustomerRoutes(api.Group("/customers"))
	s.registerRequestRoutes(api.Group("/requests"))
	s.registerLeadRoutes(api)
	s.registerServiceRoutes(api.Group("/services"))

	return router
}
