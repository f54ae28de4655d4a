package pricing

import (
	"fmt"

	"github.com/dropship/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Stage distinguishes the working copy being edited from the saved baseline
type Stage string

const (
	StageDraft     Stage = "draft"
	StagePublished Stage = "published"
)

// IsValid returns true if the stage is known
func (s Stage) IsValid() bool {
	return s == StageDraft || s == StagePublished
}

// DefaultCurrency is used when no currency is configured
const DefaultCurrency = "USD"

var (
	// DefaultMinGap is the smallest step between a band end and the next band start
	DefaultMinGap = decimal.New(1, -2)

	defaultRange1End = decimal.NewFromInt(10)
)

// Ladder errors
var (
	ErrBandNotFound         = shared.NewDomainError("BAND_NOT_FOUND", "Price band not found")
	ErrBandNotDeletable     = shared.NewDomainError("BAND_NOT_DELETABLE", "Price band cannot be deleted")
	ErrOpenEndNotAllowed    = shared.NewDomainError("OPEN_END_NOT_ALLOWED", "Only the last price band can be open ended")
	ErrNegativeBound        = shared.NewDomainError("NEGATIVE_BOUND", "Price range bounds cannot be negative")
	ErrComparedPriceLocked  = shared.NewDomainError("COMPARED_PRICE_LOCKED", "Compared-at price cannot be changed on this band")
	ErrNoPromotionCandidate = shared.NewDomainError("NO_PROMOTION_CANDIDATE", "Range 2 has no following band to promote")
	ErrLadderInvalid        = shared.NewDomainError("LADDER_INVALID", "Price ladder has validation errors")
)

// LadderOptions configures a new ladder
type LadderOptions struct {
	MinGap               decimal.Decimal
	Currency             string
	PriceFormula         Formula
	ComparedPriceFormula Formula
}

// DefaultLadderOptions returns the options used when nothing is configured
func DefaultLadderOptions() LadderOptions {
	return LadderOptions{
		MinGap:               DefaultMinGap,
		Currency:             DefaultCurrency,
		PriceFormula:         Formula{Operator: OperatorMultiply, Operand: decimal.NewFromInt(2)},
		ComparedPriceFormula: Formula{Operator: OperatorMultiply, Operand: decimal.NewFromInt(3)},
	}
}

// Validate checks that the options can build a ladder
func (o LadderOptions) Validate() error {
	return o.validate()
}

// Precision is the number of decimal places implied by MinGap
func (o LadderOptions) Precision() int32 {
	return precisionOf(o.MinGap)
}

func (o LadderOptions) validate() error {
	if !o.MinGap.IsPositive() {
		return shared.NewDomainError("INVALID_MIN_GAP", "Minimum gap between price ranges must be positive")
	}
	if o.Currency == "" {
		return shared.NewDomainError("INVALID_CURRENCY", "Currency is required")
	}
	if err := o.PriceFormula.Validate(); err != nil {
		return err
	}
	return o.ComparedPriceFormula.Validate()
}

// PriceLadder is the ordered sequence of price bands of one tenant's pricing rule.
//
// Bands are kept in ascending position. Only the last band may be open ended, and
// after any valid edit the last band is open: closing it appends a new open band.
// Validation never blocks mutation; Validate reports the advisory flags.
type PriceLadder struct {
	shared.TenantAggregateRoot
	Stage    Stage
	Currency string
	MinGap   decimal.Decimal
	bands    []PriceBand
}

// NewPriceLadder creates the default two-band ladder: Range 1 [0, 10] and Range 2 [10 + gap, open]
func NewPriceLadder(tenantID uuid.UUID, opts LadderOptions) (*PriceLadder, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	l := &PriceLadder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Stage:               StageDraft,
		Currency:            opts.Currency,
		MinGap:              opts.MinGap,
	}
	l.bands = []PriceBand{
		newPriceBand(decimal.Zero, decimalPtr(defaultRange1End), opts.PriceFormula, opts.ComparedPriceFormula),
		newPriceBand(defaultRange1End.Add(opts.MinGap), nil, opts.PriceFormula, opts.ComparedPriceFormula),
	}

	l.AddDomainEvent(NewPriceLadderCreatedEvent(l))

	return l, nil
}

// RestorePriceLadder rebuilds a ladder from persisted state. No events are raised.
func RestorePriceLadder(root shared.TenantAggregateRoot, stage Stage, currency string, minGap decimal.Decimal, bands []PriceBand) *PriceLadder {
	restored := make([]PriceBand, len(bands))
	for i, b := range bands {
		restored[i] = b.clone()
	}
	return &PriceLadder{
		TenantAggregateRoot: root,
		Stage:               stage,
		Currency:            currency,
		MinGap:              minGap,
		bands:               restored,
	}
}

// Snapshot copies the configuration of src into a new ladder of the given stage.
// Bands keep their identities, so a band can be addressed the same way in the
// draft and in the published ladder.
func Snapshot(src *PriceLadder, stage Stage) *PriceLadder {
	l := &PriceLadder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(src.TenantID),
		Stage:               stage,
	}
	l.copyFrom(src)
	return l
}

// Overwrite replaces the configuration of this ladder with the one of src
func (l *PriceLadder) Overwrite(src *PriceLadder) {
	l.copyFrom(src)
	l.Touch()
}

func (l *PriceLadder) copyFrom(src *PriceLadder) {
	l.Currency = src.Currency
	l.MinGap = src.MinGap
	l.bands = lo.Map(src.bands, func(b PriceBand, _ int) PriceBand {
		return b.clone()
	})
}

// MarkPublished records that this ladder became the tenant's active pricing rule
func (l *PriceLadder) MarkPublished() {
	l.Stage = StagePublished
	l.Touch()
	l.AddDomainEvent(NewPriceLadderPublishedEvent(l))
}

// Bands returns a copy of the bands in ladder order
func (l *PriceLadder) Bands() []PriceBand {
	return lo.Map(l.bands, func(b PriceBand, _ int) PriceBand {
		return b.clone()
	})
}

// Len returns the number of bands
func (l *PriceLadder) Len() int {
	return len(l.bands)
}

// Band returns the band with the given id
func (l *PriceLadder) Band(id uuid.UUID) (PriceBand, bool) {
	i := l.position(id)
	if i < 0 {
		return PriceBand{}, false
	}
	return l.bands[i].clone(), true
}

// Position returns the zero-based position of a band, or -1 if absent
func (l *PriceLadder) Position(id uuid.UUID) int {
	return l.position(id)
}

func (l *PriceLadder) position(id uuid.UUID) int {
	_, i, ok := lo.FindIndexOf(l.bands, func(b PriceBand) bool {
		return b.ID == id
	})
	if !ok {
		return -1
	}
	return i
}

// Terminal returns the open-ended last band. It is absent only while the last
// band has been closed with an invalid end.
func (l *PriceLadder) Terminal() (PriceBand, bool) {
	if len(l.bands) == 0 {
		return PriceBand{}, false
	}
	last := l.bands[len(l.bands)-1]
	if last.IsClosed() {
		return PriceBand{}, false
	}
	return last.clone(), true
}

// LastComplete returns the last band that has a closed end
func (l *PriceLadder) LastComplete() (PriceBand, bool) {
	band, _, ok := lo.FindLastIndexOf(l.bands, func(b PriceBand) bool {
		return b.IsClosed()
	})
	if !ok {
		return PriceBand{}, false
	}
	return band.clone(), true
}

// IsDeletable reports whether a band may be deleted. The band must be closed and
// have a following band to absorb its slot. Range 1 additionally needs two bands
// behind it so the ladder keeps at least two bands.
func (l *PriceLadder) IsDeletable(id uuid.UUID) bool {
	i := l.position(id)
	if i < 0 || i >= len(l.bands)-1 {
		return false
	}
	if i == range1Position && len(l.bands) <= range2Position+1 {
		return false
	}
	return l.bands[i].IsClosed()
}

// IsComparedPriceLocked reports whether the compared-at checkbox of a band is
// force-disabled: open bands and the last complete band are locked.
func (l *PriceLadder) IsComparedPriceLocked(id uuid.UUID) bool {
	i := l.position(id)
	if i < 0 || l.bands[i].IsOpen() {
		return true
	}
	last, ok := l.LastComplete()
	return ok && last.ID == id
}

// ComparedPriceActive reports whether quotes from a band carry a compared-at
// price: the checkbox is set and the band is not locked.
func (l *PriceLadder) ComparedPriceActive(id uuid.UUID) bool {
	i := l.position(id)
	return i >= 0 && l.bands[i].ComparedPriceEnabled && !l.IsComparedPriceLocked(id)
}

// Validate runs the range and overlap validators over the whole ladder
func (l *PriceLadder) Validate() ValidationReport {
	return validateBands(l.bands)
}

// SetBandStart sets the lower bound of a band
func (l *PriceLadder) SetBandStart(id uuid.UUID, start decimal.Decimal) error {
	i := l.position(id)
	if i < 0 {
		return ErrBandNotFound
	}
	if start.IsNegative() {
		return ErrNegativeBound
	}

	l.bands[i].RangeStart = start
	l.Touch()

	l.ensureTerminal()
	return nil
}

// SetBandEnd sets or clears the upper bound of a band. Only the last band may be
// cleared. When the last band ends up closed with a valid range, a new open band
// starting at end + MinGap is appended and becomes the terminal band.
func (l *PriceLadder) SetBandEnd(id uuid.UUID, end *decimal.Decimal) error {
	i := l.position(id)
	if i < 0 {
		return ErrBandNotFound
	}
	last := i == len(l.bands)-1

	if end == nil {
		if !last {
			return ErrOpenEndNotAllowed
		}
		l.bands[i].RangeEnd = nil
		l.Touch()
		return nil
	}
	if end.IsNegative() {
		return ErrNegativeBound
	}

	l.bands[i].RangeEnd = decimalPtr(*end)
	l.Touch()

	l.ensureTerminal()
	return nil
}

// ensureTerminal appends an open band once the last band is closed with a valid range.
// A last band closed with start >= end stays terminal until its bounds are fixed.
func (l *PriceLadder) ensureTerminal() {
	last := l.bands[len(l.bands)-1]
	if last.IsClosed() && ValidateRange(last) == nil {
		l.appendTerminal(last)
	}
}

// appendTerminal adds an open band after prev, inheriting its formulas and checkbox
func (l *PriceLadder) appendTerminal(prev PriceBand) {
	band := newPriceBand(prev.RangeEnd.Add(l.MinGap), nil, prev.PriceFormula, prev.ComparedPriceFormula)
	band.ComparedPriceEnabled = prev.ComparedPriceEnabled
	l.bands = append(l.bands, band)

	l.AddDomainEvent(NewPriceBandAppendedEvent(l, band, len(l.bands)-1))
}

// SetPriceFormula sets the sale price formula of a band
func (l *PriceLadder) SetPriceFormula(id uuid.UUID, formula Formula) error {
	i := l.position(id)
	if i < 0 {
		return ErrBandNotFound
	}
	if err := formula.Validate(); err != nil {
		return err
	}

	l.bands[i].PriceFormula = formula
	l.Touch()
	return nil
}

// SetComparedPriceFormula sets the compared-at price formula of a band
func (l *PriceLadder) SetComparedPriceFormula(id uuid.UUID, formula Formula) error {
	i := l.position(id)
	if i < 0 {
		return ErrBandNotFound
	}
	if err := formula.Validate(); err != nil {
		return err
	}

	l.bands[i].ComparedPriceFormula = formula
	l.Touch()
	return nil
}

// SetComparedPriceEnabled toggles the compared-at checkbox of a single band
func (l *PriceLadder) SetComparedPriceEnabled(id uuid.UUID, enabled bool) error {
	i := l.position(id)
	if i < 0 {
		return ErrBandNotFound
	}
	if l.IsComparedPriceLocked(id) {
		return ErrComparedPriceLocked
	}

	l.bands[i].ComparedPriceEnabled = enabled
	l.Touch()
	return nil
}

// ToggleComparedPriceForAll sets the compared-at checkbox of every unlocked band
// and returns how many bands were set. Locked bands keep their current value.
func (l *PriceLadder) ToggleComparedPriceForAll(enabled bool) int {
	locked := lo.FilterMap(l.bands, func(b PriceBand, _ int) (uuid.UUID, bool) {
		return b.ID, l.IsComparedPriceLocked(b.ID)
	})

	updated := 0
	for i := range l.bands {
		if lo.Contains(locked, l.bands[i].ID) {
			continue
		}
		l.bands[i].ComparedPriceEnabled = enabled
		updated++
	}
	if updated > 0 {
		l.Touch()
	}
	return updated
}

// DeleteBand removes a deletable band. The following band's start is pulled back
// to the previous band's end + MinGap so no cost interval is left uncovered; when
// Range 1 is removed the follower takes over its start instead.
// Deleting Range 2 goes through the promotion path of DeleteRange2.
func (l *PriceLadder) DeleteBand(id uuid.UUID) error {
	i := l.position(id)
	if i < 0 {
		return ErrBandNotFound
	}
	if i == range2Position {
		return l.DeleteRange2()
	}
	if !l.IsDeletable(id) {
		return ErrBandNotDeletable
	}

	removed := l.bands[i]
	l.bands = append(l.bands[:i:i], l.bands[i+1:]...)

	switch {
	case i == range1Position:
		l.bands[i].RangeStart = removed.RangeStart
	case l.bands[i-1].IsClosed():
		l.bands[i].RangeStart = l.bands[i-1].RangeEnd.Add(l.MinGap)
	}
	l.Touch()

	l.AddDomainEvent(NewPriceBandDeletedEvent(l, removed, i))
	return nil
}

// DeleteRange2 replaces Range 2 in place with the band that follows it: Range 2
// takes over its start, end, formulas and checkbox state, and the follower is
// removed. When the follower was the open terminal band, Range 2 becomes the
// terminal band again and must be closed anew to grow the ladder.
func (l *PriceLadder) DeleteRange2() error {
	if len(l.bands) <= range2Position+1 {
		return ErrNoPromotionCandidate
	}
	range2 := l.bands[range2Position]
	if !l.IsDeletable(range2.ID) {
		return ErrBandNotDeletable
	}

	promoted := l.bands[range2Position+1]
	range2.RangeStart = promoted.RangeStart
	range2.RangeEnd = nil
	if promoted.IsClosed() {
		range2.RangeEnd = decimalPtr(*promoted.RangeEnd)
	}
	range2.PriceFormula = promoted.PriceFormula
	range2.ComparedPriceFormula = promoted.ComparedPriceFormula
	range2.ComparedPriceEnabled = promoted.ComparedPriceEnabled

	l.bands[range2Position] = range2
	l.bands = append(l.bands[:range2Position+1:range2Position+1], l.bands[range2Position+2:]...)
	l.Touch()

	l.AddDomainEvent(NewRange2PromotedEvent(l, promoted.ID))

	l.ensureTerminal()
	return nil
}

// Precision returns the number of decimal places implied by MinGap
func (l *PriceLadder) Precision() int32 {
	return precisionOf(l.MinGap)
}

// precisionOf ignores trailing zeros, so 0.010 and 0.01 both give 2
func precisionOf(gap decimal.Decimal) int32 {
	places := int32(0)
	if exp := gap.Exponent(); exp < 0 {
		places = -exp
	}
	for places > 0 && gap.Round(places-1).Equal(gap) {
		places--
	}
	return places
}

// String renders the ladder bounds, e.g. "[0, 10] [10.01, open]"
func (l *PriceLadder) String() string {
	s := ""
	for i, b := range l.bands {
		if i > 0 {
			s += " "
		}
		end := "open"
		if b.IsClosed() {
			end = b.RangeEnd.String()
		}
		s += fmt.Sprintf("[%s, %s]", b.RangeStart, end)
	}
	return s
}
