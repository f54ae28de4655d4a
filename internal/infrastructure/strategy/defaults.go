package strategy

import (
	domainpricing "github.com/dropship/backend/internal/domain/pricing"
	"github.com/dropship/backend/internal/infrastructure/strategy/pricing"
)

// NewRegistryWithDefaults registers the standard markup strategy as the fallback. It applies the
// configured default price formula, rounded to the precision of the configured gap.
func NewRegistryWithDefaults(opts domainpricing.LadderOptions) (*StrategyRegistry, error) {
	r := NewStrategyRegistry()

	standard := pricing.NewStandardPricingStrategy(opts.PriceFormula, opts.Precision())
	if err := r.Register(standard); err != nil {
		return nil, err
	}
	if err := r.SetFallback(standard.Name()); err != nil {
		return nil, err
	}
	return r, nil
}
