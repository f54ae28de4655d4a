package pricing

import (
	"context"
	"fmt"

	"github.com/dropship/backend/internal/domain/pricing"
	"github.com/dropship/backend/internal/domain/shared/strategy"
)

// LadderPricingStrategy prices a product cost with the band of a price ladder
// whose start is the greatest one not above the cost
type LadderPricingStrategy struct {
	strategy.BaseStrategy
	ladder *pricing.PriceLadder
}

// NewLadderPricingStrategy creates a strategy backed by the given ladder
func NewLadderPricingStrategy(ladder *pricing.PriceLadder) *LadderPricingStrategy {
	return &LadderPricingStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			"ladder",
			strategy.StrategyTypePricing,
			"Cost range ladder pricing with optional compared-at price",
		),
		ladder: ladder,
	}
}

// CalculatePrice applies the matching band formula to the cost
func (s *LadderPricingStrategy) CalculatePrice(
	ctx context.Context,
	pricingCtx strategy.PricingContext,
) (strategy.PricingResult, error) {
	q, err := s.ladder.Quote(pricingCtx.Cost)
	if err != nil {
		return strategy.PricingResult{}, err
	}

	rules := []string{fmt.Sprintf("ladder_range_%d", q.Position+1)}
	if q.ComparedAtPrice != nil {
		rules = append(rules, "compared_at_price")
	}

	currency := pricingCtx.Currency
	if currency == "" {
		currency = s.ladder.Currency
	}

	return strategy.PricingResult{
		Price:           q.Price,
		ComparedAtPrice: q.ComparedAtPrice,
		Markup:          q.Price.Sub(q.Cost),
		Currency:        currency,
		AppliedRules:    rules,
	}, nil
}

// SupportsComparedPrice returns true as ladder bands carry a compared-at formula
func (s *LadderPricingStrategy) SupportsComparedPrice() bool {
	return true
}
