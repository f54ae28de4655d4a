package pricing

import (
	"context"
	"testing"

	"github.com/dropship/backend/internal/domain/pricing"
	"github.com/dropship/backend/internal/domain/shared/strategy"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLadder(t *testing.T) *pricing.PriceLadder {
	t.Helper()
	ladder, err := pricing.NewPriceLadder(uuid.New(), pricing.DefaultLadderOptions())
	require.NoError(t, err)

	bands := ladder.Bands()
	end := decimal.NewFromInt(20)
	require.NoError(t, ladder.SetBandEnd(bands[1].ID, &end))

	bands = ladder.Bands()
	require.NoError(t, ladder.SetPriceFormula(bands[0].ID, pricing.MustFormula(pricing.OperatorMultiply, decimal.NewFromInt(3))))
	require.NoError(t, ladder.SetPriceFormula(bands[2].ID, pricing.MustFormula(pricing.OperatorAdd, decimal.NewFromInt(25))))
	require.NoError(t, ladder.SetComparedPriceEnabled(bands[0].ID, true))
	return ladder
}

func TestLadderPricingStrategy_CalculatePrice(t *testing.T) {
	s := NewLadderPricingStrategy(newTestLadder(t))
	ctx := context.Background()

	tests := []struct {
		name          string
		cost          decimal.Decimal
		expectedPrice decimal.Decimal
		expectedRules []string
		hasCompared   bool
	}{
		{
			name:          "low cost uses Range 1 with compared price",
			cost:          decimal.NewFromInt(5),
			expectedPrice: decimal.NewFromInt(15),
			expectedRules: []string{"ladder_range_1", "compared_at_price"},
			hasCompared:   true,
		},
		{
			name:          "cost inside Range 2",
			cost:          decimal.NewFromInt(12),
			expectedPrice: decimal.NewFromInt(24),
			expectedRules: []string{"ladder_range_2"},
		},
		{
			name:          "high cost uses terminal band",
			cost:          decimal.NewFromInt(100),
			expectedPrice: decimal.NewFromInt(125),
			expectedRules: []string{"ladder_range_3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.CalculatePrice(ctx, strategy.PricingContext{Cost: tt.cost})
			require.NoError(t, err)

			assert.True(t, tt.expectedPrice.Equal(result.Price), "expected %s, got %s", tt.expectedPrice, result.Price)
			assert.True(t, result.Markup.Equal(tt.expectedPrice.Sub(tt.cost)))
			assert.Equal(t, tt.expectedRules, result.AppliedRules)
			assert.Equal(t, tt.hasCompared, result.ComparedAtPrice != nil)
			assert.Equal(t, "USD", result.Currency)
		})
	}

	t.Run("context currency wins", func(t *testing.T) {
		result, err := s.CalculatePrice(ctx, strategy.PricingContext{Cost: decimal.NewFromInt(1), Currency: "EUR"})
		require.NoError(t, err)
		assert.Equal(t, "EUR", result.Currency)
	})

	t.Run("negative cost fails", func(t *testing.T) {
		_, err := s.CalculatePrice(ctx, strategy.PricingContext{Cost: decimal.NewFromInt(-1)})
		assert.Error(t, err)
	})
}

func TestLadderPricingStrategy_Metadata(t *testing.T) {
	s := NewLadderPricingStrategy(newTestLadder(t))
	assert.Equal(t, "ladder", s.Name())
	assert.Equal(t, strategy.StrategyTypePricing, s.Type())
	assert.NotEmpty(t, s.Description())
	assert.True(t, s.SupportsComparedPrice())
}

func TestStandardPricingStrategy_CalculatePrice(t *testing.T) {
	s := NewStandardPricingStrategy(pricing.MustFormula(pricing.OperatorAdd, decimal.RequireFromString("4.999")), 2)

	result, err := s.CalculatePrice(context.Background(), strategy.PricingContext{
		Cost:     decimal.NewFromInt(10),
		Currency: "USD",
	})
	require.NoError(t, err)
	assert.Equal(t, "15", result.Price.String())
	assert.Equal(t, "5", result.Markup.String())
	assert.Nil(t, result.ComparedAtPrice)
	assert.Equal(t, []string{"standard_markup"}, result.AppliedRules)

	_, err = s.CalculatePrice(context.Background(), strategy.PricingContext{Cost: decimal.NewFromInt(-3)})
	assert.Error(t, err)
}
