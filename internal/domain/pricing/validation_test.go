package pricing

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func band(start string, end *decimal.Decimal) PriceBand {
	f := MustFormula(OperatorMultiply, dec("2"))
	return newPriceBand(dec(start), end, f, f)
}

func TestValidateRange(t *testing.T) {
	tests := []struct {
		name    string
		band    PriceBand
		wantErr bool
	}{
		{"start below end", band("0", decPtr("10")), false},
		{"start equal to end", band("15", decPtr("15")), true},
		{"start above end", band("20", decPtr("10")), true},
		{"open band", band("10.01", nil), false},
		{"open band with large start", band("1000000", nil), false},
		{"fractional bounds", band("10.01", decPtr("10.02")), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRange(tt.band)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var orderErr *RangeOrderError
			require.True(t, errors.As(err, &orderErr))
			assert.Equal(t, tt.band.ID, orderErr.BandID)
		})
	}
}

func TestValidateRange_Randomized(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		start := decimal.New(int64(rng.Intn(10000)), -2)
		end := decimal.New(int64(rng.Intn(10000)), -2)
		b := newPriceBand(start, &end, Formula{}, Formula{})

		err := ValidateRange(b)
		if start.GreaterThanOrEqual(end) {
			assert.Error(t, err, "start %s end %s", start, end)
		} else {
			assert.NoError(t, err, "start %s end %s", start, end)
		}

		b.RangeEnd = nil
		assert.NoError(t, ValidateRange(b))
	}
}

func TestValidateOverlap(t *testing.T) {
	tests := []struct {
		name    string
		earlier PriceBand
		later   PriceBand
		wantErr bool
	}{
		{"gap between bands", band("0", decPtr("10")), band("10.01", nil), false},
		{"touching bounds", band("0", decPtr("10")), band("10", nil), true},
		{"later starts inside earlier", band("0", decPtr("10")), band("5", nil), true},
		{"wide gap", band("0", decPtr("10")), band("50", decPtr("60")), false},
		{"open earlier band", band("0", nil), band("50", nil), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOverlap(tt.earlier, tt.later)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var overlapErr *RangeOverlapError
			require.True(t, errors.As(err, &overlapErr))
			assert.Equal(t, tt.earlier.ID, overlapErr.EarlierID)
			assert.Equal(t, tt.later.ID, overlapErr.LaterID)
		})
	}
}

func TestValidateOverlap_Randomized(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 500; i++ {
		end := decimal.New(int64(rng.Intn(10000)), -2)
		start := decimal.New(int64(rng.Intn(10000)), -2)
		a := band("0", &end)
		b := newPriceBand(start, nil, Formula{}, Formula{})

		err := ValidateOverlap(a, b)
		if end.LessThan(start) {
			assert.NoError(t, err, "end %s start %s", end, start)
		} else {
			assert.Error(t, err, "end %s start %s", end, start)
		}
	}
}

func TestValidateBands(t *testing.T) {
	t.Run("flags per position", func(t *testing.T) {
		bands := []PriceBand{
			band("10", decPtr("5")),
			band("20", decPtr("20")),
			band("30", decPtr("40")),
			band("50", decPtr("45")),
			band("45.01", nil),
		}

		report := validateBands(bands)

		assert.True(t, report.Range1Error)
		assert.True(t, report.Range2Error)
		assert.True(t, report.DynamicRowError)
		assert.False(t, report.RangeOverlapError)
		require.Len(t, report.OrderErrors, 3)
		assert.Equal(t, 0, report.OrderErrors[0].Position)
		assert.Equal(t, 1, report.OrderErrors[1].Position)
		assert.Equal(t, 3, report.OrderErrors[2].Position)
		assert.False(t, report.Valid())
	})

	t.Run("keeps every overlapping pair", func(t *testing.T) {
		bands := []PriceBand{
			band("0", decPtr("10")),
			band("5", decPtr("20")),
			band("15", nil),
		}

		report := validateBands(bands)

		assert.True(t, report.RangeOverlapError)
		require.Len(t, report.OverlapErrors, 2)
		assert.Equal(t, 0, report.OverlapErrors[0].EarlierPosition)
		assert.Equal(t, 1, report.OverlapErrors[1].EarlierPosition)
		assert.True(t, report.BandHasError(bands[2].ID))
		assert.False(t, report.BandHasError(uuid.New()))
	})

	t.Run("err aggregates all errors", func(t *testing.T) {
		bands := []PriceBand{
			band("10", decPtr("10")),
			band("5", nil),
		}

		err := validateBands(bands).Err()

		require.Error(t, err)
		var merr *multierror.Error
		require.True(t, errors.As(err, &merr))
		assert.Len(t, merr.Errors, 2)
		assert.Contains(t, err.Error(), "range 1: start 10 must be lower than end 10")
		assert.Contains(t, err.Error(), "range 1 ends at 10 which overlaps range 2 starting at 5")
	})

	t.Run("closed last band is flagged", func(t *testing.T) {
		report := validateBands([]PriceBand{band("0", decPtr("10")), band("10.01", decPtr("20"))})

		assert.True(t, report.TerminalMissing)
		assert.Empty(t, report.OrderErrors)
		assert.Empty(t, report.OverlapErrors)
		assert.False(t, report.Valid())
		assert.ErrorIs(t, report.Err(), ErrTerminalMissing)
	})

	t.Run("valid ladder has no error", func(t *testing.T) {
		report := validateBands([]PriceBand{band("0", decPtr("10")), band("10.01", nil)})
		assert.True(t, report.Valid())
		assert.False(t, report.TerminalMissing)
		assert.NoError(t, report.Err())
	})
}
