package pricing

import (
	"github.com/dropship/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNoMatchingBand is returned when a cost is below the start of Range 1
var ErrNoMatchingBand = shared.NewDomainError("NO_MATCHING_BAND", "No price band covers the given cost")

// Quote is the price a ladder assigns to one product cost
type Quote struct {
	BandID          uuid.UUID
	Position        int
	Cost            decimal.Decimal
	Price           decimal.Decimal
	ComparedAtPrice *decimal.Decimal
}

// Quote prices a product cost with the band whose start is the greatest one not
// above the cost. A cost that falls in the gap between two bands is priced by
// the lower band. Results are rounded to the precision of MinGap. Locked bands
// never carry a compared-at price.
func (l *PriceLadder) Quote(cost decimal.Decimal) (Quote, error) {
	if cost.IsNegative() {
		return Quote{}, shared.NewDomainError("INVALID_COST", "Product cost cannot be negative")
	}

	for i := len(l.bands) - 1; i >= 0; i-- {
		band := l.bands[i]
		if cost.LessThan(band.RangeStart) {
			continue
		}

		places := l.Precision()
		q := Quote{
			BandID:   band.ID,
			Position: i,
			Cost:     cost,
			Price:    band.PriceFormula.Apply(cost).Round(places),
		}
		if l.ComparedPriceActive(band.ID) {
			q.ComparedAtPrice = decimalPtr(band.ComparedPriceFormula.Apply(cost).Round(places))
		}
		return q, nil
	}

	return Quote{}, ErrNoMatchingBand
}
