package pricing

import (
	"context"

	"github.com/dropship/backend/internal/domain/pricing"
	"github.com/dropship/backend/internal/domain/shared"
	"github.com/dropship/backend/internal/domain/shared/strategy"
)

// StandardPricingStrategy applies one markup formula to every cost.
// It prices products for tenants that have not published a ladder yet.
type StandardPricingStrategy struct {
	strategy.BaseStrategy
	formula   pricing.Formula
	precision int32
}

// NewStandardPricingStrategy creates a new standard pricing strategy
func NewStandardPricingStrategy(formula pricing.Formula, precision int32) *StandardPricingStrategy {
	return &StandardPricingStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			"standard",
			strategy.StrategyTypePricing,
			"Standard pricing applying a single markup formula",
		),
		formula:   formula,
		precision: precision,
	}
}

// CalculatePrice applies the markup formula to the cost
func (s *StandardPricingStrategy) CalculatePrice(
	ctx context.Context,
	pricingCtx strategy.PricingContext,
) (strategy.PricingResult, error) {
	if pricingCtx.Cost.IsNegative() {
		return strategy.PricingResult{}, shared.NewDomainError("INVALID_COST", "Product cost cannot be negative")
	}

	price := s.formula.Apply(pricingCtx.Cost).Round(s.precision)

	return strategy.PricingResult{
		Price:        price,
		Markup:       price.Sub(pricingCtx.Cost),
		Currency:     pricingCtx.Currency,
		AppliedRules: []string{"standard_markup"},
	}, nil
}

// SupportsComparedPrice returns false as standard pricing has no compared-at formula
func (s *StandardPricingStrategy) SupportsComparedPrice() bool {
	return false
}
