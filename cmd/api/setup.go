package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/elitecuts-assistant/cmd/mainconfig"
	"github.com/wolfman30/elitecuts-assistant/internal/bookings"
	appconfig "github.com/wolfman30/elitecuts-assistant/internal/config"
	"github.com/wolfman30/elitecuts-assistant/internal/http/handlers"
	"github.com/wolfman30/elitecuts-assistant/internal/knowledge"
	"github.com/wolfman30/elitecuts-assistant/internal/notify"
	"github.com/wolfman30/elitecuts-assistant/internal/observability/metrics"
	"github.com/wolfman30/elitecuts-assistant/internal/store"
	"github.com/wolfman30/elitecuts-assistant/pkg/logging"
)

func setupMetrics() (http.Handler, *metrics.ChatMetrics, prometheus.Gatherer) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), metrics.NewChatMetrics(reg), reg
}

// connectPostgresPool returns nil when no URL is configured or the database
// is unreachable; callers fall back to in-memory bookings.
func connectPostgresPool(ctx context.Context, url string, logger *logging.Logger) *pgxpool.Pool {
	if url == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		logger.Error("failed to create postgres pool", "error", err)
		return nil
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Error("failed to ping postgres", "error", err)
		pool.Close()
		return nil
	}
	return pool
}

// openCatalogDB opens the database/sql handle the shop catalog reads from.
func openCatalogDB(ctx context.Context, url string, logger *logging.Logger) *sql.DB {
	if url == "" {
		return nil
	}
	db, err := sql.Open("postgres", url)
	if err != nil {
		logger.Error("failed to open catalog db", "error", err)
		return nil
	}
	db.SetMaxOpenConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		logger.Error("failed to ping catalog db", "error", err)
		_ = db.Close()
		return nil
	}
	return db
}

func connectRedis(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, knowledge cache disabled", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// knowledgeStack is the shop-data pipeline: origin, optional cache, holder.
type knowledgeStack struct {
	holder *knowledge.Holder
	cache  *knowledge.CachedSource
	file   *knowledge.FileSource
}

func setupKnowledge(cfg *appconfig.Config, db *sql.DB, rdb *redis.Client, m *metrics.ChatMetrics, logger *logging.Logger) (knowledgeStack, error) {
	var stack knowledgeStack
	var source knowledge.Source
	switch {
	case cfg.KnowledgeFile != "":
		file, err := knowledge.NewFileSource(cfg.KnowledgeFile)
		if err != nil {
			return stack, fmt.Errorf("load knowledge file: %w", err)
		}
		stack.file = file
		source = file
		logger.Info("shop data from file", "path", cfg.KnowledgeFile)
	case db != nil:
		source = store.NewCatalog(db)
		logger.Info("shop data from postgres")
	default:
		logger.Warn("no shop data source configured, using built-in data")
	}

	if source != nil && rdb != nil {
		stack.cache = knowledge.NewCachedSource(source, rdb, cfg.KnowledgeCacheTTL, logger)
		source = stack.cache
	}

	loc := cfg.Location()
	loader := knowledge.NewLoader(source, logger, cfg.PrefetchTimeout,
		knowledge.WithClock(func() time.Time { return time.Now().In(loc) }),
		knowledge.WithFetchObserver(m.ObserveFetch),
	)
	stack.holder = knowledge.NewHolder(loader)
	return stack, nil
}

func setupCalendar(pool *pgxpool.Pool, logger *logging.Logger) bookings.Calendar {
	if pool == nil {
		logger.Warn("bookings stored in memory")
		return bookings.NewMemory(bookings.DefaultSchedules())
	}
	return bookings.NewRepository(pool)
}

func setupEmail(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "sendgrid":
		if s := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); s != nil {
			return s
		}
		logger.Warn("sendgrid selected without an API key")
	case "ses":
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			break
		}
		return notify.NewSESSender(mainconfig.NewSESClient(awsCfg, cfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.ShopName,
		}, logger)
	}
	return notify.NewLogSender(logger)
}

func healthChecks(pool *pgxpool.Pool, db *sql.DB, rdb *redis.Client) map[string]handlers.Pinger {
	checks := map[string]handlers.Pinger{}
	if pool != nil {
		checks["bookings_db"] = pool
	}
	if db != nil {
		checks["catalog_db"] = handlers.PingFunc(db.PingContext)
	}
	if rdb != nil {
		checks["redis"] = handlers.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}
	return checks
}
