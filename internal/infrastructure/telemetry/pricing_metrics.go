package telemetry

import (
	"context"
	"errors"

	"github.com/dropship/backend/internal/domain/pricing"
	"github.com/dropship/backend/internal/domain/shared"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Result attribute values
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// Metric attribute keys
var (
	attrOperation = attribute.Key("operation")
	attrResult    = attribute.Key("result")
	attrEventType = attribute.Key("event_type")
	attrStrategy  = attribute.Key("strategy")
)

// PricingMetrics records price ladder activity
type PricingMetrics struct {
	logger *zap.Logger

	mutationsTotal *Counter
	savesTotal     *Counter
	eventsTotal    *Counter
	quotesTotal    *Counter
	quoteBatchSize *Histogram
	ladderBands    *Histogram
}

// NewPricingMetrics creates the pricing instruments on the given meter
func NewPricingMetrics(meter metric.Meter, logger *zap.Logger) (*PricingMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	pm := &PricingMetrics{logger: logger}
	var err error

	if pm.mutationsTotal, err = NewCounter(meter,
		"dsp_pricing_ladder_mutations_total",
		"Total number of price ladder edits",
		"{mutations}",
	); err != nil {
		return nil, err
	}

	if pm.savesTotal, err = NewCounter(meter,
		"dsp_pricing_ladder_saves_total",
		"Total number of attempts to publish a draft ladder",
		"{saves}",
	); err != nil {
		return nil, err
	}

	if pm.eventsTotal, err = NewCounter(meter,
		"dsp_pricing_ladder_events_total",
		"Total number of price ladder domain events",
		"{events}",
	); err != nil {
		return nil, err
	}

	if pm.quotesTotal, err = NewCounter(meter,
		"dsp_pricing_quotes_total",
		"Total number of priced product costs",
		"{quotes}",
	); err != nil {
		return nil, err
	}

	if pm.quoteBatchSize, err = NewHistogram(meter,
		"dsp_pricing_quote_batch_size",
		"Number of costs per quote request",
		"{costs}",
		1, 5, 10, 50, 100, 500, 1000,
	); err != nil {
		return nil, err
	}

	if pm.ladderBands, err = NewHistogram(meter,
		"dsp_pricing_ladder_bands",
		"Number of bands in a published ladder",
		"{bands}",
		2, 3, 5, 10, 20,
	); err != nil {
		return nil, err
	}

	return pm, nil
}

// RecordMutation counts a ladder edit and its outcome
func (pm *PricingMetrics) RecordMutation(ctx context.Context, operation string, err error) {
	pm.mutationsTotal.Inc(ctx, attrOperation.String(operation), attrResult.String(resultOf(err)))
}

// RecordSave counts a publish attempt and its outcome
func (pm *PricingMetrics) RecordSave(ctx context.Context, err error) {
	pm.savesTotal.Inc(ctx, attrResult.String(resultOf(err)))
}

// RecordQuotes counts priced costs for one request
func (pm *PricingMetrics) RecordQuotes(ctx context.Context, strategyName string, priced, failed int) {
	pm.quoteBatchSize.Record(ctx, float64(priced+failed))
	if priced > 0 {
		pm.quotesTotal.Add(ctx, int64(priced), attrStrategy.String(strategyName), attrResult.String(ResultSuccess))
	}
	if failed > 0 {
		pm.quotesTotal.Add(ctx, int64(failed), attrStrategy.String(strategyName), attrResult.String(ResultError))
	}
}

// Handle counts domain events; PricingMetrics doubles as an event handler
func (pm *PricingMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	pm.eventsTotal.Inc(ctx, attrEventType.String(event.EventType()))
	if e, ok := event.(*pricing.PriceLadderPublishedEvent); ok {
		pm.ladderBands.Record(ctx, float64(e.BandCount))
	}
	return nil
}

// EventTypes returns the event types this handler is interested in
func (pm *PricingMetrics) EventTypes() []string {
	return []string{
		pricing.EventTypePriceLadderCreated,
		pricing.EventTypePriceLadderPublished,
		pricing.EventTypePriceBandAppended,
		pricing.EventTypePriceBandDeleted,
		pricing.EventTypeRange2Promoted,
	}
}

// resultOf classifies an operation outcome: domain errors are rejections, anything else is an error
func resultOf(err error) string {
	if err == nil {
		return ResultSuccess
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return ResultRejected
	}
	return ResultError
}
