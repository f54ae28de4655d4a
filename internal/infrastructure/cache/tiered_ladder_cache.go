package cache

import (
	"context"
	"time"

	"github.com/dropship/backend/internal/domain/pricing"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TieredPriceLadderCache implements a two-tier caching strategy
// L1: local in-memory cache (fast, local to instance)
// L2: Redis cache (shared across instances)
// Reads fill L1 from L2. Writes and evictions go to both tiers.
type TieredPriceLadderCache struct {
	l1     pricing.PriceLadderCache
	l2     pricing.PriceLadderCache
	l1TTL  time.Duration
	logger *zap.Logger
}

// NewTieredPriceLadderCache creates a tiered cache. l1TTL bounds how long an
// instance may serve a ladder another instance has already replaced.
func NewTieredPriceLadderCache(l1, l2 pricing.PriceLadderCache, l1TTL time.Duration, logger *zap.Logger) *TieredPriceLadderCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TieredPriceLadderCache{l1: l1, l2: l2, l1TTL: l1TTL, logger: logger}
}

// Get reads L1 first and falls back to L2
func (c *TieredPriceLadderCache) Get(ctx context.Context, tenantID uuid.UUID) (*pricing.PriceLadder, error) {
	if ladder, err := c.l1.Get(ctx, tenantID); err == nil && ladder != nil {
		return ladder, nil
	}

	ladder, err := c.l2.Get(ctx, tenantID)
	if err != nil || ladder == nil {
		return nil, err
	}

	if err := c.l1.Set(ctx, ladder, c.l1TTL); err != nil {
		c.logger.Warn("Failed to populate L1 ladder cache",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
	}
	return ladder, nil
}

// Set writes to both tiers
func (c *TieredPriceLadderCache) Set(ctx context.Context, ladder *pricing.PriceLadder, ttl time.Duration) error {
	if err := c.l2.Set(ctx, ladder, ttl); err != nil {
		return err
	}
	l1TTL := c.l1TTL
	if ttl > 0 && ttl < l1TTL {
		l1TTL = ttl
	}
	return c.l1.Set(ctx, ladder, l1TTL)
}

// Delete evicts from both tiers
func (c *TieredPriceLadderCache) Delete(ctx context.Context, tenantID uuid.UUID) error {
	_ = c.l1.Delete(ctx, tenantID)
	return c.l2.Delete(ctx, tenantID)
}

var _ pricing.PriceLadderCache = (*TieredPriceLadderCache)(nil)
