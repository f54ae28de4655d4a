package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceBand is one tier of a price ladder. It maps the product cost interval
// [RangeStart, RangeEnd] to a pricing formula. A nil RangeEnd means the band is
// open ended ("all remaining price ranges").
type PriceBand struct {
	ID                   uuid.UUID
	RangeStart           decimal.Decimal
	RangeEnd             *decimal.Decimal
	PriceFormula         Formula
	ComparedPriceFormula Formula
	ComparedPriceEnabled bool
}

// newPriceBand creates a band with a fresh identity
func newPriceBand(start decimal.Decimal, end *decimal.Decimal, price, compared Formula) PriceBand {
	return PriceBand{
		ID:                   uuid.New(),
		RangeStart:           start,
		RangeEnd:             end,
		PriceFormula:         price,
		ComparedPriceFormula: compared,
	}
}

// IsOpen returns true if the band has no upper bound
func (b PriceBand) IsOpen() bool {
	return b.RangeEnd == nil
}

// IsClosed returns true if the band has an upper bound
func (b PriceBand) IsClosed() bool {
	return b.RangeEnd != nil
}

// Contains returns true if cost falls inside the band bounds
func (b PriceBand) Contains(cost decimal.Decimal) bool {
	if cost.LessThan(b.RangeStart) {
		return false
	}
	return b.IsOpen() || cost.LessThanOrEqual(*b.RangeEnd)
}

// clone returns a deep copy so callers cannot alias the ladder's end pointers
func (b PriceBand) clone() PriceBand {
	c := b
	if b.RangeEnd != nil {
		end := *b.RangeEnd
		c.RangeEnd = &end
	}
	return c
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
