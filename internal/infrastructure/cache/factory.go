package cache

import (
	"time"

	"github.com/dropship/backend/internal/domain/pricing"
	"github.com/dropship/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const l1LadderTTL = 30 * time.Second

// NewPriceLadderCache builds the published-ladder cache from configuration.
// With Redis enabled and reachable it returns a tiered cache; otherwise it
// falls back to the in-memory cache. The returned close function releases
// the Redis connection when one was opened.
func NewPriceLadderCache(redisCfg config.RedisConfig, ttl time.Duration, logger *zap.Logger) (pricing.PriceLadderCache, func() error) {
	noop := func() error { return nil }

	l1 := NewInMemoryPriceLadderCache(WithInMemoryTTL(ttl), WithInMemoryLogger(logger))
	if !redisCfg.Enabled {
		logger.Info("Using in-memory price ladder cache")
		return l1, noop
	}

	l2, err := NewRedisPriceLadderCache(redisCfg, WithRedisTTL(ttl), WithRedisLogger(logger))
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory price ladder cache",
			zap.String("addr", redisCfg.Addr()),
			zap.Error(err))
		return l1, noop
	}

	l1TTL := l1LadderTTL
	if ttl > 0 && ttl < l1TTL {
		l1TTL = ttl
	}
	logger.Info("Using tiered price ladder cache", zap.String("addr", redisCfg.Addr()))
	return NewTieredPriceLadderCache(l1, l2, l1TTL, logger), l2.Close
}
