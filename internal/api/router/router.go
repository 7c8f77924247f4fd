package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/elitecuts-assistant/internal/chat"
	"github.com/wolfman30/elitecuts-assistant/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/elitecuts-assistant/internal/http/middleware"
	"github.com/wolfman30/elitecuts-assistant/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	Health             *handlers.HealthHandler
	Chat               *chat.Handler
	ChatRateLimiter    *httpmiddleware.RateLimiter
	AdminKnowledge     *handlers.AdminKnowledgeHandler
	AdminStats         *handlers.AdminStatsHandler
	AdminAuthSecret    string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	health := cfg.Health
	if health == nil {
		health = handlers.NewHealthHandler(nil, cfg.Logger)
	}

	// Public endpoints (health checks, chat widget)
	r.Group(func(public chi.Router) {
		public.Get("/health", health.Live)
		public.Get("/ready", health.Ready)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.Chat != nil {
			chatRoutes := public
			if cfg.ChatRateLimiter != nil {
				chatRoutes = public.With(cfg.ChatRateLimiter.Handler)
			}
			chatRoutes.Mount("/chat", cfg.Chat.Routes())
		}
	})

	// Operator routes (HS256 JWT)
	if cfg.AdminAuthSecret != "" {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Use(middleware.Compress(5))
			if cfg.AdminKnowledge != nil {
				admin.Get("/knowledge", cfg.AdminKnowledge.GetKnowledge)
				admin.Post("/knowledge/reload", cfg.AdminKnowledge.Reload)
			}
			if cfg.AdminStats != nil {
				admin.Get("/stats", cfg.AdminStats.GetStats)
			}
		})
	}

	return r
}
