package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dropship/backend/internal/application/pricing/dto"
	"github.com/dropship/backend/internal/domain/pricing"
	"github.com/dropship/backend/internal/domain/shared"
	"github.com/dropship/backend/internal/domain/shared/strategy"
	"github.com/dropship/backend/internal/infrastructure/logger"
	strategypricing "github.com/dropship/backend/internal/infrastructure/strategy/pricing"
	"github.com/dropship/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// FormulaKind selects which formula of a band an edit targets
type FormulaKind string

const (
	FormulaKindPrice    FormulaKind = "price"
	FormulaKindCompared FormulaKind = "compared"
)

// ErrInvalidFormulaKind is returned for an unknown formula kind
var ErrInvalidFormulaKind = shared.NewDomainError("INVALID_FORMULA_KIND", "Formula kind must be price or compared")

// StrategyResolver looks up the pricing strategy used when a tenant has no published ladder
type StrategyResolver interface {
	GetPricingStrategyOrDefault(name string) strategy.PricingStrategy
}

// Metrics records pricing activity
type Metrics interface {
	RecordMutation(ctx context.Context, operation string, err error)
	RecordSave(ctx context.Context, err error)
	RecordQuotes(ctx context.Context, strategyName string, priced, failed int)
}

// Config holds the settings of the ladder service
type Config struct {
	Options          pricing.LadderOptions
	AllowInvalidSave bool
	CacheTTL         time.Duration
}

// LadderService manages a tenant's price ladder: a published baseline plus an
// optional draft holding unsaved edits.
type LadderService struct {
	repo       pricing.PriceLadderRepository
	cache      pricing.PriceLadderCache
	events     shared.EventPublisher
	strategies StrategyResolver
	metrics    Metrics
	config     Config
	logger     *zap.Logger
}

// NewLadderService creates a new ladder service. Metrics may be nil.
func NewLadderService(
	repo pricing.PriceLadderRepository,
	cache pricing.PriceLadderCache,
	events shared.EventPublisher,
	strategies StrategyResolver,
	metrics Metrics,
	config Config,
	logger *zap.Logger,
) *LadderService {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LadderService{
		repo:       repo,
		cache:      cache,
		events:     events,
		strategies: strategies,
		metrics:    metrics,
		config:     config,
		logger:     logger,
	}
}

// GetLadder returns the ladder the settings page shows: the draft when there
// are unsaved edits, otherwise the published ladder. A tenant without any ladder
// gets the default ladder stored as its published baseline.
func (s *LadderService) GetLadder(ctx context.Context, tenantID uuid.UUID) (*dto.LadderResponse, error) {
	draft, err := s.find(ctx, tenantID, pricing.StageDraft)
	if err != nil {
		return nil, err
	}
	if draft != nil {
		return dto.ToLadderResponse(draft), nil
	}

	published, err := s.publishedBaseline(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return dto.ToLadderResponse(published), nil
}

// Validate returns the validation report of the ladder currently shown
func (s *LadderService) Validate(ctx context.Context, tenantID uuid.UUID) (*dto.ValidationResponse, error) {
	ladder, err := s.GetLadder(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return &ladder.Validation, nil
}

// SetBandStart sets the lower bound of a band
func (s *LadderService) SetBandStart(ctx context.Context, tenantID, bandID uuid.UUID, start decimal.Decimal) (*dto.LadderResponse, error) {
	return s.edit(ctx, tenantID, "set_band_start", func(l *pricing.PriceLadder) error {
		return l.SetBandStart(bandID, start)
	})
}

// SetBandEnd sets the upper bound of a band; nil clears it
func (s *LadderService) SetBandEnd(ctx context.Context, tenantID, bandID uuid.UUID, end *decimal.Decimal) (*dto.LadderResponse, error) {
	return s.edit(ctx, tenantID, "set_band_end", func(l *pricing.PriceLadder) error {
		return l.SetBandEnd(bandID, end)
	})
}

// SetFormula sets the price or compared-at formula of a band
func (s *LadderService) SetFormula(ctx context.Context, tenantID, bandID uuid.UUID, kind FormulaKind, formula pricing.Formula) (*dto.LadderResponse, error) {
	switch kind {
	case FormulaKindPrice:
		return s.edit(ctx, tenantID, "set_price_formula", func(l *pricing.PriceLadder) error {
			return l.SetPriceFormula(bandID, formula)
		})
	case FormulaKindCompared:
		return s.edit(ctx, tenantID, "set_compared_formula", func(l *pricing.PriceLadder) error {
			return l.SetComparedPriceFormula(bandID, formula)
		})
	default:
		return nil, ErrInvalidFormulaKind
	}
}

// SetComparedPriceEnabled sets the compared-at checkbox of one band
func (s *LadderService) SetComparedPriceEnabled(ctx context.Context, tenantID, bandID uuid.UUID, enabled bool) (*dto.LadderResponse, error) {
	return s.edit(ctx, tenantID, "set_compared_price", func(l *pricing.PriceLadder) error {
		return l.SetComparedPriceEnabled(bandID, enabled)
	})
}

// ToggleComparedPriceForAll sets the compared-at checkbox of every unlocked band
func (s *LadderService) ToggleComparedPriceForAll(ctx context.Context, tenantID uuid.UUID, enabled bool) (*dto.LadderResponse, error) {
	return s.edit(ctx, tenantID, "toggle_compared_price", func(l *pricing.PriceLadder) error {
		updated := l.ToggleComparedPriceForAll(enabled)
		s.log(ctx).Debug("compared-at price toggled for all bands",
			zap.Bool("enabled", enabled),
			zap.Int("updated", updated))
		return nil
	})
}

// DeleteBand deletes a band. Deleting Range 2 promotes the band after it.
func (s *LadderService) DeleteBand(ctx context.Context, tenantID, bandID uuid.UUID) (*dto.LadderResponse, error) {
	return s.edit(ctx, tenantID, "delete_band", func(l *pricing.PriceLadder) error {
		return l.DeleteBand(bandID)
	})
}

// Save publishes the draft: the published ladder takes over the draft's bands
// and the draft is dropped. Ladders with validation errors are rejected unless
// the service allows invalid saves. Saving without a draft is a no-op.
func (s *LadderService) Save(ctx context.Context, tenantID uuid.UUID) (resp *dto.LadderResponse, err error) {
	ctx, span := telemetry.StartSpan(ctx, "price_ladder.save", attribute.String("tenant_id", tenantID.String()))
	defer func() {
		s.metrics.RecordSave(ctx, err)
		telemetry.EndSpan(span, err)
	}()
	log := s.log(ctx).With(zap.String("tenant_id", tenantID.String()))

	draft, err := s.find(ctx, tenantID, pricing.StageDraft)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		log.Debug("no draft to save")
		return s.GetLadder(ctx, tenantID)
	}

	if report := draft.Validate(); !report.Valid() {
		if !s.config.AllowInvalidSave {
			log.Info("rejected saving invalid price ladder", zap.Error(report.Err()))
			return nil, shared.NewDomainError(pricing.ErrLadderInvalid.Code, report.Err().Error())
		}
		log.Warn("saving price ladder with validation errors", zap.Error(report.Err()))
	}

	published, err := s.find(ctx, tenantID, pricing.StagePublished)
	if err != nil {
		return nil, err
	}
	if published == nil {
		published = pricing.Snapshot(draft, pricing.StagePublished)
	} else {
		published.Overwrite(draft)
	}
	published.MarkPublished()

	if err := s.repo.Save(ctx, published); err != nil {
		return nil, fmt.Errorf("failed to save published price ladder: %w", err)
	}
	if err := s.repo.DeleteForTenant(ctx, tenantID, pricing.StageDraft); err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to drop price ladder draft: %w", err)
	}

	s.publishEvents(ctx, published)
	s.cachePublished(ctx, published)

	log.Info("price ladder published",
		zap.String("ladder_id", published.ID.String()),
		zap.Int("version", published.Version),
		zap.Int("bands", published.Len()))

	return dto.ToLadderResponse(published), nil
}

// Discard drops the draft and returns the published ladder
func (s *LadderService) Discard(ctx context.Context, tenantID uuid.UUID) (*dto.LadderResponse, error) {
	err := s.repo.DeleteForTenant(ctx, tenantID, pricing.StageDraft)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to discard price ladder draft: %w", err)
	}
	s.log(ctx).Info("price ladder draft discarded", zap.String("tenant_id", tenantID.String()))
	return s.GetLadder(ctx, tenantID)
}

// Reset replaces the draft with the default two-band ladder
func (s *LadderService) Reset(ctx context.Context, tenantID uuid.UUID) (*dto.LadderResponse, error) {
	return s.edit(ctx, tenantID, "reset", func(l *pricing.PriceLadder) error {
		fresh, err := pricing.NewPriceLadder(tenantID, s.config.Options)
		if err != nil {
			return err
		}
		l.Overwrite(fresh)
		return nil
	})
}

// Quote prices product costs with the tenant's published ladder. Tenants
// without a published ladder are priced by the default strategy.
func (s *LadderService) Quote(ctx context.Context, tenantID uuid.UUID, req dto.QuoteRequest) (resp *dto.QuoteResponse, err error) {
	ctx, span := telemetry.StartSpan(ctx, "price_ladder.quote",
		attribute.String("tenant_id", tenantID.String()),
		attribute.Int("items", len(req.Items)))
	defer func() { telemetry.EndSpan(span, err) }()

	published, err := s.cachedPublished(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	var pricer strategy.PricingStrategy
	currency := req.Currency
	if published != nil {
		pricer = strategypricing.NewLadderPricingStrategy(published)
		if currency == "" {
			currency = published.Currency
		}
	} else {
		pricer = s.strategies.GetPricingStrategyOrDefault("")
		if pricer == nil {
			return nil, shared.NewDomainError("NO_PRICING_STRATEGY", "No pricing strategy is configured")
		}
	}
	if currency == "" {
		currency = s.config.Options.Currency
	}

	resp = &dto.QuoteResponse{
		Strategy: pricer.Name(),
		Currency: currency,
		Items:    make([]dto.QuoteItemResponse, 0, len(req.Items)),
	}

	failed := 0
	for _, item := range req.Items {
		out := dto.QuoteItemResponse{ProductID: item.ProductID, Cost: item.Cost.String()}

		result, err := pricer.CalculatePrice(ctx, strategy.PricingContext{
			TenantID:  tenantID.String(),
			ProductID: item.ProductID,
			Cost:      item.Cost,
			Currency:  currency,
		})
		if err != nil {
			failed++
			out.Error = err.Error()
			resp.Items = append(resp.Items, out)
			continue
		}

		out.Price = result.Price.String()
		out.Markup = result.Markup.String()
		out.AppliedRules = result.AppliedRules
		if result.ComparedAtPrice != nil {
			compared := result.ComparedAtPrice.String()
			out.ComparedAtPrice = &compared
		}
		resp.Items = append(resp.Items, out)
	}

	s.metrics.RecordQuotes(ctx, pricer.Name(), len(req.Items)-failed, failed)
	span.SetAttributes(attribute.String("strategy", pricer.Name()), attribute.Int("failed", failed))
	return resp, nil
}

// edit applies a mutation to the tenant's draft, creating the draft from the
// published ladder on the first edit, and stores it
func (s *LadderService) edit(ctx context.Context, tenantID uuid.UUID, operation string, mutate func(*pricing.PriceLadder) error) (resp *dto.LadderResponse, err error) {
	defer func() { s.metrics.RecordMutation(ctx, operation, err) }()

	draft, err := s.workingDraft(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if err := mutate(draft); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, draft); err != nil {
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to save price ladder draft: %w", err)
	}
	s.publishEvents(ctx, draft)

	s.log(ctx).Debug("price ladder edited",
		zap.String("operation", operation),
		zap.String("tenant_id", tenantID.String()),
		zap.String("ladder", draft.String()))

	return dto.ToLadderResponse(draft), nil
}

// workingDraft returns the draft, or a new draft copied from the published ladder
func (s *LadderService) workingDraft(ctx context.Context, tenantID uuid.UUID) (*pricing.PriceLadder, error) {
	draft, err := s.find(ctx, tenantID, pricing.StageDraft)
	if err != nil || draft != nil {
		return draft, err
	}

	published, err := s.publishedBaseline(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return pricing.Snapshot(published, pricing.StageDraft), nil
}

// publishedBaseline returns the published ladder, storing the default ladder
// as published when the tenant has none yet
func (s *LadderService) publishedBaseline(ctx context.Context, tenantID uuid.UUID) (*pricing.PriceLadder, error) {
	published, err := s.find(ctx, tenantID, pricing.StagePublished)
	if err != nil || published != nil {
		return published, err
	}

	fresh, err := pricing.NewPriceLadder(tenantID, s.config.Options)
	if err != nil {
		return nil, err
	}
	fresh.MarkPublished()

	if err := s.repo.Save(ctx, fresh); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			// another request created the baseline first
			return s.find(ctx, tenantID, pricing.StagePublished)
		}
		return nil, fmt.Errorf("failed to create default price ladder: %w", err)
	}
	s.publishEvents(ctx, fresh)

	s.log(ctx).Info("default price ladder created", zap.String("tenant_id", tenantID.String()))
	return fresh, nil
}

// cachedPublished returns the published ladder through the cache, or nil when there is none
func (s *LadderService) cachedPublished(ctx context.Context, tenantID uuid.UUID) (*pricing.PriceLadder, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, tenantID)
		if err != nil {
			s.log(ctx).Warn("price ladder cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	published, err := s.find(ctx, tenantID, pricing.StagePublished)
	if err != nil || published == nil {
		return nil, err
	}
	s.cachePublished(ctx, published)
	return published, nil
}

func (s *LadderService) cachePublished(ctx context.Context, ladder *pricing.PriceLadder) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, ladder, s.config.CacheTTL); err != nil {
		s.log(ctx).Warn("price ladder cache write failed", zap.Error(err))
	}
}

// find loads a ladder, returning nil without error when it does not exist
func (s *LadderService) find(ctx context.Context, tenantID uuid.UUID, stage pricing.Stage) (*pricing.PriceLadder, error) {
	ladder, err := s.repo.FindByTenant(ctx, tenantID, stage)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load %s price ladder: %w", stage, err)
	}
	return ladder, nil
}

func (s *LadderService) publishEvents(ctx context.Context, ladder *pricing.PriceLadder) {
	events := ladder.GetDomainEvents()
	ladder.ClearDomainEvents()
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.log(ctx).Error("failed to publish price ladder events", zap.Error(err))
	}
}

// log prefers the request-scoped logger so entries carry request and tenant ids
func (s *LadderService) log(ctx context.Context) *zap.Logger {
	return logger.FromContextOr(ctx, s.logger)
}

type nopMetrics struct{}

func (nopMetrics) RecordMutation(context.Context, string, error)  {}
func (nopMetrics) RecordSave(context.Context, error)              {}
func (nopMetrics) RecordQuotes(context.Context, string, int, int) {}
