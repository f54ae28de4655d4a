package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/dropship/backend/internal/domain/pricing"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const defaultCleanupInterval = 30 * time.Second

// InMemoryPriceLadderCache implements PriceLadderCache on top of go-cache.
// It serves single-instance deployments and acts as L1 in front of Redis.
type InMemoryPriceLadderCache struct {
	store  *gocache.Cache
	logger *zap.Logger

	hits   int64
	misses int64
}

// InMemoryLadderCacheOption is a functional option for configuring the cache
type InMemoryLadderCacheOption func(*inMemoryOptions)

type inMemoryOptions struct {
	ttl             time.Duration
	cleanupInterval time.Duration
	logger          *zap.Logger
}

// WithInMemoryTTL sets the expiration used when Set is called with a zero TTL
func WithInMemoryTTL(ttl time.Duration) InMemoryLadderCacheOption {
	return func(o *inMemoryOptions) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemoryLadderCacheOption {
	return func(o *inMemoryOptions) {
		o.logger = logger
	}
}

// NewInMemoryPriceLadderCache creates a new in-memory ladder cache
func NewInMemoryPriceLadderCache(opts ...InMemoryLadderCacheOption) *InMemoryPriceLadderCache {
	o := inMemoryOptions{
		ttl:             defaultLadderTTL,
		cleanupInterval: defaultCleanupInterval,
		logger:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &InMemoryPriceLadderCache{
		store:  gocache.New(o.ttl, o.cleanupInterval),
		logger: o.logger,
	}
}

// Get retrieves the published ladder of a tenant
func (c *InMemoryPriceLadderCache) Get(_ context.Context, tenantID uuid.UUID) (*pricing.PriceLadder, error) {
	value, ok := c.store.Get(tenantID.String())
	if !ok {
		atomic.AddInt64(&c.misses, 1)
		c.logger.Debug("L1 cache miss for price ladder", zap.String("tenant_id", tenantID.String()))
		return nil, nil
	}
	atomic.AddInt64(&c.hits, 1)
	return copyLadder(value.(*pricing.PriceLadder)), nil
}

// Set stores the published ladder of a tenant. A zero TTL uses the cache default.
func (c *InMemoryPriceLadderCache) Set(_ context.Context, ladder *pricing.PriceLadder, ttl time.Duration) error {
	if ladder == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	c.store.Set(ladder.TenantID.String(), copyLadder(ladder), ttl)
	return nil
}

// Delete evicts the published ladder of a tenant
func (c *InMemoryPriceLadderCache) Delete(_ context.Context, tenantID uuid.UUID) error {
	c.store.Delete(tenantID.String())
	return nil
}

// Stats returns the hit and miss counters
func (c *InMemoryPriceLadderCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

var _ pricing.PriceLadderCache = (*InMemoryPriceLadderCache)(nil)
