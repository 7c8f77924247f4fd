package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/elitecuts-assistant/pkg/logging"
)

const defaultCacheTTL = 10 * time.Minute

var cachedCollections = []string{
	"services", "barbers", "faqs", "promotions", "working_hours",
	"style_categories", "barber_specializations", "locations",
}

// CachedSource puts a Redis read-through cache in front of another Source.
// Cache errors are logged and fall through to the origin.
type CachedSource struct {
	origin Source
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
	logger *logging.Logger
}

// NewCachedSource wraps origin with a Redis cache.
func NewCachedSource(origin Source, client *redis.Client, ttl time.Duration, logger *logging.Logger) *CachedSource {
	if origin == nil {
		panic("knowledge: origin source cannot be nil")
	}
	if client == nil {
		panic("knowledge: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CachedSource{
		origin: origin,
		redis:  client,
		ttl:    ttl,
		tracer: otel.Tracer("elitecuts.internal.knowledge.cache"),
		logger: logger,
	}
}

// Invalidate drops every cached collection so the next fetch hits the origin.
func (c *CachedSource) Invalidate(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "knowledge.cache.invalidate")
	defer span.End()

	keys := make([]string, len(cachedCollections))
	for i, name := range cachedCollections {
		keys[i] = cacheKey(name)
	}
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("knowledge: invalidate cache: %w", err)
	}
	return nil
}

func (c *CachedSource) FetchServices(ctx context.Context) ([]Service, error) {
	return cached(ctx, c, "services", c.origin.FetchServices)
}

func (c *CachedSource) FetchBarbers(ctx context.Context) ([]Barber, error) {
	return cached(ctx, c, "barbers", c.origin.FetchBarbers)
}

func (c *CachedSource) FetchFAQs(ctx context.Context) ([]FAQ, error) {
	return cached(ctx, c, "faqs", c.origin.FetchFAQs)
}

func (c *CachedSource) FetchPromotions(ctx context.Context) ([]Promotion, error) {
	return cached(ctx, c, "promotions", c.origin.FetchPromotions)
}

func (c *CachedSource) FetchWorkingHours(ctx context.Context) ([]WorkingHours, error) {
	return cached(ctx, c, "working_hours", c.origin.FetchWorkingHours)
}

func (c *CachedSource) FetchStyleCategories(ctx context.Context) ([]StyleCategory, error) {
	return cached(ctx, c, "style_categories", c.origin.FetchStyleCategories)
}

func (c *CachedSource) FetchBarberSpecializations(ctx context.Context) ([]Specialization, error) {
	return cached(ctx, c, "barber_specializations", c.origin.FetchBarberSpecializations)
}

func (c *CachedSource) FetchLocations(ctx context.Context) ([]Location, error) {
	return cached(ctx, c, "locations", c.origin.FetchLocations)
}

func cached[T any](ctx context.Context, c *CachedSource, name string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	ctx, span := c.tracer.Start(ctx, "knowledge.cache.fetch")
	defer span.End()
	span.SetAttributes(attribute.String("elitecuts.collection", name))

	data, err := c.redis.Get(ctx, cacheKey(name)).Bytes()
	switch {
	case err == nil:
		var items []T
		if err := json.Unmarshal(data, &items); err == nil {
			span.SetAttributes(attribute.Bool("elitecuts.cache_hit", true))
			return items, nil
		}
		c.logger.Warn("knowledge cache entry corrupt", "collection", name)
	case !errors.Is(err, redis.Nil):
		span.RecordError(err)
		c.logger.Warn("knowledge cache read failed", "collection", name, "error", err)
	}
	span.SetAttributes(attribute.Bool("elitecuts.cache_hit", false))

	items, err := fetch(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	// Empty collections are never cached.
	if len(items) == 0 {
		return items, nil
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return items, nil
	}
	if err := c.redis.Set(ctx, cacheKey(name), payload, c.ttl).Err(); err != nil {
		span.RecordError(err)
		c.logger.Warn("knowledge cache write failed", "collection", name, "error", err)
	}
	return items, nil
}

func cacheKey(name string) string {
	return fmt.Sprintf("knowledge:%s", name)
}
