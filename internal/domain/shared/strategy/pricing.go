package strategy

import (
	"context"

	"github.com/shopspring/decimal"
)

// PricingContext provides context for pricing an imported product
type PricingContext struct {
	TenantID  string
	ProductID string
	Cost      decimal.Decimal
	Currency  string
}

// PricingResult contains the result of pricing calculation
type PricingResult struct {
	Price           decimal.Decimal
	ComparedAtPrice *decimal.Decimal
	Markup          decimal.Decimal
	Currency        string
	AppliedRules    []string
}

// PricingStrategy defines the interface for turning a supplier cost into a sale price
type PricingStrategy interface {
	Strategy
	// CalculatePrice calculates the sale price for a given pricing context
	CalculatePrice(ctx context.Context, pricingCtx PricingContext) (PricingResult, error)
	// SupportsComparedPrice returns true if the strategy can produce a compared-at price
	SupportsComparedPrice() bool
}
