package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Config holds Redis connection settings
type Config struct {
	URL          string
	TTL          time.Duration
	PoolSize     int
	MinIdleConns int
}

// Store is a best-effort JSON cache over Redis for the public directory
// endpoints. Every operation is non-fatal: a cache miss and a cache
// outage look the same to callers.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

func NewStore(cfg Config, logger zerolog.Logger) (*Store, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.MinIdleConns > 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Store{client: client, ttl: ttl, logger: logger}, nil
}

// GetJSON loads a cached value into dest, reporting whether it was present
func (s *Store) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if s == nil {
		return false
	}
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("cache entry corrupt")
		return false
	}
	return true
}

// SetJSON stores a value under key with the configured TTL
func (s *Store) SetJSON(ctx context.Context, key string, value interface{}) {
	if s == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("cache marshal failed")
		return
	}
	if err := s.client.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// Invalidate drops the given keys
func (s *Store) Invalidate(ctx context.Context, keys ...string) {
	if s == nil || len(keys) == 0 {
		return
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		s.logger.Warn().Err(err).Strs("keys", keys).Msg("cache invalidation failed")
	}
}

// Close releases the underlying connection pool
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.client.Close()
}
