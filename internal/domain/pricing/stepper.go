package pricing

import (
	"fmt"
	"strings"

	"github.com/dropship/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// ErrInvalidNumber is returned when stepper input is not a number
var ErrInvalidNumber = shared.NewDomainError("INVALID_NUMBER", "Value is not a valid number")

// Stepper normalizes numeric input the way the settings screen's number fields do:
// display strings or JSON numbers are parsed, rounded to Precision and clamped to
// [Min, Max]. Increment and Decrement move a value by Step.
type Stepper struct {
	Precision int32
	Step      decimal.Decimal
	Min       *decimal.Decimal
	Max       *decimal.Decimal
}

// NewBoundStepper returns the stepper used for the bounds of a ladder's bands
func NewBoundStepper(l *PriceLadder) Stepper {
	return NewGapStepper(l.MinGap)
}

// NewGapStepper returns a bound stepper for a minimum gap: the gap's precision,
// one gap per step, never below zero.
func NewGapStepper(minGap decimal.Decimal) Stepper {
	return Stepper{
		Precision: precisionOf(minGap),
		Step:      minGap,
		Min:       decimalPtr(decimal.Zero),
	}
}

// NewOperandStepper returns the stepper used for formula operands
func NewOperandStepper(precision int32) Stepper {
	return Stepper{
		Precision: precision,
		Step:      decimal.New(1, -precision),
		Min:       decimalPtr(decimal.Zero),
	}
}

// Parse converts v into a normalized decimal. Strings may carry surrounding
// spaces, a leading currency sign and thousands separators.
func (s Stepper) Parse(v any) (decimal.Decimal, error) {
	if d, ok := v.(decimal.Decimal); ok {
		return s.Normalize(d), nil
	}

	raw, err := cast.ToStringE(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrInvalidNumber, err)
	}
	raw = strings.TrimSpace(raw)
	raw = strings.TrimLeft(raw, "$€£¥")
	raw = strings.ReplaceAll(raw, ",", "")
	if raw == "" {
		return decimal.Zero, ErrInvalidNumber
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidNumber, raw)
	}
	return s.Normalize(d), nil
}

// Normalize rounds d to the stepper precision and clamps it to the bounds
func (s Stepper) Normalize(d decimal.Decimal) decimal.Decimal {
	d = d.Round(s.Precision)
	if s.Min != nil && d.LessThan(*s.Min) {
		return *s.Min
	}
	if s.Max != nil && d.GreaterThan(*s.Max) {
		return *s.Max
	}
	return d
}

// Increment returns d moved up by one step
func (s Stepper) Increment(d decimal.Decimal) decimal.Decimal {
	return s.Normalize(d.Add(s.Step))
}

// Decrement returns d moved down by one step
func (s Stepper) Decrement(d decimal.Decimal) decimal.Decimal {
	return s.Normalize(d.Sub(s.Step))
}

// Format renders d with exactly Precision decimal places
func (s Stepper) Format(d decimal.Decimal) string {
	return s.Normalize(d).StringFixed(s.Precision)
}
