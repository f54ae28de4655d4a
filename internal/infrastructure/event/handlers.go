package event

import (
	"context"

	"github.com/dropship/backend/internal/domain/pricing"
	"github.com/dropship/backend/internal/domain/shared"
	"github.com/dropship/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// LadderCacheInvalidator evicts a tenant's cached published ladder when a new one is published
type LadderCacheInvalidator struct {
	cache pricing.PriceLadderCache
}

// NewLadderCacheInvalidator creates a new LadderCacheInvalidator
func NewLadderCacheInvalidator(cache pricing.PriceLadderCache) *LadderCacheInvalidator {
	return &LadderCacheInvalidator{cache: cache}
}

// Handle evicts the cached ladder of the event's tenant
func (h *LadderCacheInvalidator) Handle(ctx context.Context, event shared.DomainEvent) error {
	if err := h.cache.Delete(ctx, event.TenantID()); err != nil {
		return err
	}
	logger.L(ctx).Debug("published price ladder evicted from cache",
		zap.String("tenant_id", event.TenantID().String()))
	return nil
}

// EventTypes returns the event types this handler is interested in
func (h *LadderCacheInvalidator) EventTypes() []string {
	return []string{pricing.EventTypePriceLadderPublished}
}

// LadderAuditLogger writes every price ladder event to the structured log
type LadderAuditLogger struct{}

// NewLadderAuditLogger creates a new LadderAuditLogger
func NewLadderAuditLogger() *LadderAuditLogger {
	return &LadderAuditLogger{}
}

// Handle logs the event
func (h *LadderAuditLogger) Handle(ctx context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.String("tenant_id", event.TenantID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	}

	switch e := event.(type) {
	case *pricing.PriceBandAppendedEvent:
		fields = append(fields, zap.Int("position", e.Position), zap.String("range_start", e.RangeStart.String()))
	case *pricing.PriceBandDeletedEvent:
		fields = append(fields, zap.String("band_id", e.BandID.String()))
	case *pricing.Range2PromotedEvent:
		fields = append(fields, zap.String("promoted_band_id", e.PromotedBandID.String()))
	case *pricing.PriceLadderPublishedEvent:
		fields = append(fields, zap.Int("band_count", e.BandCount))
	}

	logger.L(ctx).Info("price ladder event", fields...)
	return nil
}

// EventTypes returns the event types this handler is interested in
func (h *LadderAuditLogger) EventTypes() []string {
	return []string{
		pricing.EventTypePriceLadderCreated,
		pricing.EventTypePriceLadderPublished,
		pricing.EventTypePriceBandAppended,
		pricing.EventTypePriceBandDeleted,
		pricing.EventTypeRange2Promoted,
	}
}
