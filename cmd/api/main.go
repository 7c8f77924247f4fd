package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/wolfman30/elitecuts-assistant/internal/api/router"
	"github.com/wolfman30/elitecuts-assistant/internal/bookings"
	"github.com/wolfman30/elitecuts-assistant/internal/chat"
	appconfig "github.com/wolfman30/elitecuts-assistant/internal/config"
	"github.com/wolfman30/elitecuts-assistant/internal/dialogue"
	"github.com/wolfman30/elitecuts-assistant/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/elitecuts-assistant/internal/http/middleware"
	"github.com/wolfman30/elitecuts-assistant/internal/knowledge"
	"github.com/wolfman30/elitecuts-assistant/internal/notify"
	"github.com/wolfman30/elitecuts-assistant/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.NewWithOptions(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logger.Info("starting elitecuts assistant API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if err := run(cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	fmt.Println("Server exited gracefully")
}

func run(cfg *appconfig.Config, logger *logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metricsHandler, chatMetrics, gatherer := setupMetrics()

	pool := connectPostgresPool(ctx, cfg.DatabaseURL, logger)
	if pool != nil {
		defer pool.Close()
	}
	catalogDB := openCatalogDB(ctx, cfg.DatabaseURL, logger)
	if catalogDB != nil {
		defer catalogDB.Close()
	}
	rdb := connectRedis(ctx, cfg, logger)
	if rdb != nil {
		defer rdb.Close()
	}

	ks, err := setupKnowledge(cfg, catalogDB, rdb, chatMetrics, logger)
	if err != nil {
		return err
	}
	hours := func(ctx context.Context) []knowledge.WorkingHours {
		return ks.holder.Snapshot(ctx).Hours
	}
	scheduler := bookings.NewService(setupCalendar(pool, logger), hours, logger)

	loc := cfg.Location()
	engine := dialogue.NewEngine(scheduler, logger,
		dialogue.WithClock(func() time.Time { return time.Now().In(loc) }),
		dialogue.WithTimeout(cfg.ExternalCallTimeout),
		dialogue.WithHorizonDays(cfg.BookingHorizonDays),
		dialogue.WithShop(cfg.ShopName, cfg.ShopPhone),
		dialogue.WithObserver(chatMetrics),
	)

	confirmer := notify.NewConfirmer(setupEmail(ctx, cfg, logger), cfg.ShopName, cfg.ShopPhone, logger)
	manager := chat.NewManager(engine, ks.holder, logger,
		chat.WithIdleTTL(cfg.SessionIdleTTL),
		chat.WithPrefetchTimeout(cfg.PrefetchTimeout),
		chat.WithConfirmer(confirmer),
		chat.WithSessionObserver(chatMetrics),
	)

	var cache handlers.CacheInvalidator
	if ks.cache != nil {
		cache = ks.cache
	}
	limiter := httpmiddleware.NewRateLimiter(float64(cfg.ChatRatePerMinute), cfg.ChatRateBurst)

	r := router.New(&router.Config{
		Logger:             logger,
		Health:             handlers.NewHealthHandler(healthChecks(pool, catalogDB, rdb), logger),
		Chat:               chat.NewHandler(manager, logger),
		ChatRateLimiter:    limiter,
		AdminKnowledge:     handlers.NewAdminKnowledgeHandler(ks.holder, cache, logger),
		AdminStats:         handlers.NewAdminStatsHandler(gatherer, manager, logger),
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	// WriteTimeout stays zero so WebSocket connections are not cut off.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Warm the snapshot so the first session does not pay for the load.
	ks.holder.Snapshot(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		manager.Run(gctx)
		return nil
	})
	g.Go(func() error {
		limiter.Run(gctx, 5*time.Minute)
		return nil
	})
	if ks.file != nil {
		g.Go(func() error {
			return knowledge.Watch(gctx, ks.file, logger, func(ctx context.Context) {
				if ks.cache != nil {
					if err := ks.cache.Invalidate(ctx); err != nil {
						logger.Warn("knowledge cache invalidation failed", "error", err)
					}
				}
				ks.holder.Reload(ctx)
			})
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
