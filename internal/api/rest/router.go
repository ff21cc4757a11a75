package rest

import (
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ronittamrakar/Xordon-sub011/internal/api/rest/handlers"
	customMiddleware "github.com/ronittamrakar/Xordon-sub011/internal/api/rest/middleware"
	"github.com/ronittamrakar/Xordon-sub011/pkg/auth"
	"github.com/ronittamrakar/Xordon-sub011/pkg/config"
	"github.com/ronittamrakar/Xordon-sub011/pkg/logger"
	"github.com/ronittamrakar/Xordon-sub011/pkg/metrics"
)

// Router holds the HTTP router and dependencies
type Router struct {
	router     *chi.Mux
	logger     *logger.Logger
	handlers   *handlers.Handlers
	jwtManager *auth.JWTManager
	authCfg    config.AuthConfig
	metrics    *metrics.Metrics
}

// NewRouter creates a new HTTP router
func NewRouter(log *logger.Logger, h *handlers.Handlers, jwtManager *auth.JWTManager, authCfg config.AuthConfig, m *metrics.Metrics) *Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(customMiddleware.Metrics(m))

	allowedOrigins := []string{"http://localhost:3000"}
	if originsEnv := os.Getenv("ALLOWED_ORIGINS"); originsEnv != "" {
		allowedOrigins = strings.Split(originsEnv, ",")
		for i := range allowedOrigins {
			allowedOrigins[i] = strings.TrimSpace(allowedOrigins[i])
		}
	}

	// Never allow "*" with credentials enabled
	allowCredentials := true
	for _, origin := range allowedOrigins {
		if origin == "*" {
			log.Warn("CORS wildcard origin detected, disabling credentials")
			allowCredentials = false
			break
		}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: allowCredentials,
		MaxAge:           300,
	}))

	return &Router{
		router:     r,
		logger:     log,
		handlers:   h,
		jwtManager: jwtManager,
		authCfg:    authCfg,
		metrics:    m,
	}
}

// SetupRoutes configures all API routes
func (r *Router) SetupRoutes() {
	// Prometheus metrics endpoint (no auth required)
	r.router.Handle("/metrics", promhttp.Handler())

	// Health endpoints (no auth required)
	r.router.Get("/health", r.handlers.Health.Health)
	r.router.Get("/ready", r.handlers.Health.Ready)

	// API v1 (authenticated)
	r.router.Route("/api/v1", func(router chi.Router) {
		router.Group(func(router chi.Router) {
			router.Use(customMiddleware.Auth(r.jwtManager, r.authCfg, r.logger))
			router.Use(customMiddleware.RateLimitWithConfig(r.authCfg.RateLimitRPS, r.authCfg.RateLimitBurst, r.logger))

			// Trigger events
			router.Post("/triggers/{channel}", r.handlers.Trigger.HandleTrigger)

			// Automations
			router.Route("/automations", func(router chi.Router) {
				router.Get("/", r.handlers.Automation.List)
				router.Post("/", r.handlers.Automation.Create)
				router.Get("/{id}", r.handlers.Automation.Get)
				router.Post("/{id}/enable", r.handlers.Automation.Enable)
				router.Post("/{id}/disable", r.handlers.Automation.Disable)
			})

			// Executions
			router.Route("/executions", func(router chi.Router) {
				router.Get("/", r.handlers.Execution.ListExecutions)
				router.Get("/{id}", r.handlers.Execution.GetExecution)
			})
		})
	})
}

// Handler returns the http.Handler
func (r *Router) Handler() http.Handler {
	return r.router
}
