// Package cache decorates the population store with a Redis read-through
// layer. Aggregations are pure functions of the fact table, so every result is
// cacheable until the next import; writes bump a generation counter instead of
// enumerating keys, which invalidates the whole read side in one operation.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"refugeflow/internal/platform/redis"
	"refugeflow/internal/population/metrics"
	"refugeflow/internal/population/models"
	"refugeflow/internal/population/store"
)

const generationKey = "population:gen"

// Store wraps an engine store with Redis caching. A nil client disables
// caching and every call passes straight through.
type Store struct {
	next    store.Store
	client  *redis.Client
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures the cache decorator.
type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// New wraps next with a Redis cache using the given TTL.
func New(next store.Store, client *redis.Client, ttl time.Duration, opts ...Option) *Store {
	s := &Store{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) SeriesByYear(ctx context.Context, q models.Query) ([]models.YearCount, error) {
	return cached(ctx, s, "series", q.CacheKey(), func() ([]models.YearCount, error) {
		return s.next.SeriesByYear(ctx, q)
	})
}

func (s *Store) RankCountries(ctx context.Context, q models.Query) ([]models.CountryCount, error) {
	return cached(ctx, s, "rank", q.CacheKey(), func() ([]models.CountryCount, error) {
		return s.next.RankCountries(ctx, q)
	})
}

func (s *Store) TopCountries(ctx context.Context, q models.Query) ([]models.CountryCount, error) {
	return cached(ctx, s, "top", q.CacheKey(), func() ([]models.CountryCount, error) {
		return s.next.TopCountries(ctx, q)
	})
}

func (s *Store) LastYear(ctx context.Context) (int32, error) {
	return s.next.LastYear(ctx)
}

func (s *Store) LastYearForCountry(ctx context.Context, countryID uuid.UUID) (int32, error) {
	return s.next.LastYearForCountry(ctx, countryID)
}

// Insert writes through and invalidates all cached aggregations by bumping the
// generation counter.
func (s *Store) Insert(ctx context.Context, records []models.Record) error {
	if err := s.next.Insert(ctx, records); err != nil {
		return err
	}
	if s.client != nil {
		if err := s.client.Incr(ctx, generationKey).Err(); err != nil {
			s.logger.Warn("cache invalidation failed", "error", err)
		}
	}
	return nil
}

// cached resolves one aggregation through the cache. Redis failures degrade to
// the underlying store so a cache outage never breaks reads.
func cached[T any](ctx context.Context, s *Store, shape, key string, load func() (T, error)) (T, error) {
	if s.client == nil {
		return load()
	}

	fullKey, err := s.versionedKey(ctx, shape, key)
	if err != nil {
		s.logger.Warn("cache key lookup failed", "error", err)
		return load()
	}

	if raw, err := s.client.Get(ctx, fullKey).Bytes(); err == nil {
		var out T
		if err := json.Unmarshal(raw, &out); err == nil {
			s.metrics.IncrementCacheHits()
			return out, nil
		}
		// Stale encoding, fall through to reload.
	}
	s.metrics.IncrementCacheMisses()

	out, err := load()
	if err != nil {
		return out, err
	}

	if raw, err := json.Marshal(out); err == nil {
		if err := s.client.Set(ctx, fullKey, raw, s.ttl).Err(); err != nil {
			s.logger.Warn("cache store failed", "key", fullKey, "error", err)
		}
	}
	return out, nil
}

func (s *Store) versionedKey(ctx context.Context, shape, key string) (string, error) {
	gen, err := s.client.Get(ctx, generationKey).Int64()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return "", err
	}
	return fmt.Sprintf("population:v%d:%s:%s", gen, shape, key), nil
}
