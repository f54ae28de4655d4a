package pricing

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Positions of the two fixed bands every ladder starts with
const (
	range1Position = 0
	range2Position = 1
)

// RangeOrderError flags a closed band whose start is not strictly below its end
type RangeOrderError struct {
	BandID   uuid.UUID
	Position int
	Start    decimal.Decimal
	End      decimal.Decimal
}

func (e *RangeOrderError) Error() string {
	return fmt.Sprintf("range %d: start %s must be lower than end %s", e.Position+1, e.Start, e.End)
}

// RangeOverlapError flags two adjacent bands where the earlier end reaches the later start.
// Touching bounds count as an overlap: bands must leave at least the ladder's minimum gap.
type RangeOverlapError struct {
	EarlierID       uuid.UUID
	LaterID         uuid.UUID
	EarlierPosition int
	EarlierEnd      decimal.Decimal
	LaterStart      decimal.Decimal
}

func (e *RangeOverlapError) Error() string {
	return fmt.Sprintf("range %d ends at %s which overlaps range %d starting at %s",
		e.EarlierPosition+1, e.EarlierEnd, e.EarlierPosition+2, e.LaterStart)
}

// ValidateRange checks start < end on a closed band. Open bands always pass.
func ValidateRange(band PriceBand) error {
	if band.IsOpen() {
		return nil
	}
	if band.RangeStart.GreaterThanOrEqual(*band.RangeEnd) {
		return &RangeOrderError{
			BandID: band.ID,
			Start:  band.RangeStart,
			End:    *band.RangeEnd,
		}
	}
	return nil
}

// ValidateOverlap checks that earlier ends strictly before later starts.
// An open earlier band overlaps anything after it.
func ValidateOverlap(earlier, later PriceBand) error {
	if earlier.IsClosed() && earlier.RangeEnd.LessThan(later.RangeStart) {
		return nil
	}
	end := later.RangeStart
	if earlier.IsClosed() {
		end = *earlier.RangeEnd
	}
	return &RangeOverlapError{
		EarlierID:  earlier.ID,
		LaterID:    later.ID,
		EarlierEnd: end,
		LaterStart: later.RangeStart,
	}
}

// ErrTerminalMissing flags a ladder whose last band is closed, leaving costs above it unpriced
var ErrTerminalMissing = errors.New("the last price range must be open ended")

// ValidationReport is the advisory error surface of a ladder. The four range flags
// are what the settings banner shows; the error slices attribute each flag to bands.
// TerminalMissing is raised when no open "all remaining" band exists.
type ValidationReport struct {
	Range1Error       bool
	Range2Error       bool
	RangeOverlapError bool
	DynamicRowError   bool
	TerminalMissing   bool
	OrderErrors       []*RangeOrderError
	OverlapErrors     []*RangeOverlapError
}

// Valid returns true when no flag is raised
func (r ValidationReport) Valid() bool {
	return len(r.OrderErrors) == 0 && len(r.OverlapErrors) == 0 && !r.TerminalMissing
}

// Err aggregates every validation error, or returns nil when the ladder is valid
func (r ValidationReport) Err() error {
	var result *multierror.Error
	if r.TerminalMissing {
		result = multierror.Append(result, ErrTerminalMissing)
	}
	for _, e := range r.OrderErrors {
		result = multierror.Append(result, e)
	}
	for _, e := range r.OverlapErrors {
		result = multierror.Append(result, e)
	}
	return result.ErrorOrNil()
}

// BandHasError returns true if the band has an order error or takes part in an overlap
func (r ValidationReport) BandHasError(id uuid.UUID) bool {
	if lo.ContainsBy(r.OrderErrors, func(e *RangeOrderError) bool { return e.BandID == id }) {
		return true
	}
	return lo.ContainsBy(r.OverlapErrors, func(e *RangeOverlapError) bool {
		return e.EarlierID == id || e.LaterID == id
	})
}

// validateBands runs both validators over the whole sequence. Every band and
// every adjacent pair is checked independently; nothing short-circuits.
func validateBands(bands []PriceBand) ValidationReport {
	var report ValidationReport
	if n := len(bands); n == 0 || bands[n-1].IsClosed() {
		report.TerminalMissing = true
	}

	for i, band := range bands {
		var orderErr *RangeOrderError
		if err := ValidateRange(band); err != nil && errors.As(err, &orderErr) {
			orderErr.Position = i
			report.OrderErrors = append(report.OrderErrors, orderErr)
			switch i {
			case range1Position:
				report.Range1Error = true
			case range2Position:
				report.Range2Error = true
			default:
				report.DynamicRowError = true
			}
		}
	}

	for i := 0; i+1 < len(bands); i++ {
		var overlapErr *RangeOverlapError
		if err := ValidateOverlap(bands[i], bands[i+1]); err != nil && errors.As(err, &overlapErr) {
			overlapErr.EarlierPosition = i
			report.OverlapErrors = append(report.OverlapErrors, overlapErr)
			report.RangeOverlapError = true
		}
	}

	return report
}
