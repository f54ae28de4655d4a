package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dropship/backend/internal/domain/pricing"
	"github.com/dropship/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	ladderKeyPrefix   = "pricing:ladder:published:"
	defaultLadderTTL  = 10 * time.Minute
	redisPingDeadline = 5 * time.Second
)

// RedisPriceLadderCache implements PriceLadderCache using Redis
type RedisPriceLadderCache struct {
	client     *redis.Client
	ownsClient bool // true if we created the client and should close it
	defaultTTL time.Duration
	logger     *zap.Logger
}

// RedisLadderCacheOption is a functional option for configuring the cache
type RedisLadderCacheOption func(*RedisPriceLadderCache)

// WithRedisTTL sets the expiration used when Set is called with a zero TTL
func WithRedisTTL(ttl time.Duration) RedisLadderCacheOption {
	return func(c *RedisPriceLadderCache) {
		if ttl > 0 {
			c.defaultTTL = ttl
		}
	}
}

// WithRedisLogger sets the logger for the cache
func WithRedisLogger(logger *zap.Logger) RedisLadderCacheOption {
	return func(c *RedisPriceLadderCache) {
		c.logger = logger
	}
}

// NewRedisPriceLadderCache connects to Redis and creates the cache
func NewRedisPriceLadderCache(cfg config.RedisConfig, opts ...RedisLadderCacheOption) (*RedisPriceLadderCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingDeadline)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	c := NewRedisPriceLadderCacheWithClient(client, opts...)
	c.ownsClient = true
	return c, nil
}

// NewRedisPriceLadderCacheWithClient creates a cache with an existing Redis client.
// The caller retains ownership of the client.
func NewRedisPriceLadderCacheWithClient(client *redis.Client, opts ...RedisLadderCacheOption) *RedisPriceLadderCache {
	c := &RedisPriceLadderCache{
		client:     client,
		defaultTTL: defaultLadderTTL,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func ladderKey(tenantID uuid.UUID) string {
	return ladderKeyPrefix + tenantID.String()
}

// Get retrieves the published ladder of a tenant
func (c *RedisPriceLadderCache) Get(ctx context.Context, tenantID uuid.UUID) (*pricing.PriceLadder, error) {
	data, err := c.client.Get(ctx, ladderKey(tenantID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.logger.Debug("Redis cache miss for price ladder", zap.String("tenant_id", tenantID.String()))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get price ladder from cache: %w", err)
	}

	ladder, err := unmarshalLadder(data)
	if err != nil {
		c.logger.Warn("Dropping undecodable cached price ladder",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
		_ = c.client.Del(ctx, ladderKey(tenantID)).Err()
		return nil, nil
	}
	return ladder, nil
}

// Set stores the published ladder of a tenant
func (c *RedisPriceLadderCache) Set(ctx context.Context, ladder *pricing.PriceLadder, ttl time.Duration) error {
	if ladder == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	data, err := marshalLadder(ladder)
	if err != nil {
		return fmt.Errorf("failed to marshal price ladder: %w", err)
	}

	if err := c.client.Set(ctx, ladderKey(ladder.TenantID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache price ladder: %w", err)
	}
	return nil
}

// Delete evicts the published ladder of a tenant
func (c *RedisPriceLadderCache) Delete(ctx context.Context, tenantID uuid.UUID) error {
	if err := c.client.Del(ctx, ladderKey(tenantID)).Err(); err != nil {
		return fmt.Errorf("failed to evict price ladder: %w", err)
	}
	return nil
}

// Close closes the Redis client if the cache created it
func (c *RedisPriceLadderCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

var _ pricing.PriceLadderCache = (*RedisPriceLadderCache)(nil)
