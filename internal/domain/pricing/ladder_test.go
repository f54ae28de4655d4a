package pricing

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/dropship/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr), "expected domain error, got %v", err)
	assert.Equal(t, code, domainErr.Code)
}

func newTestLadder(t *testing.T) *PriceLadder {
	t.Helper()
	l, err := NewPriceLadder(uuid.New(), DefaultLadderOptions())
	require.NoError(t, err)
	return l
}

// threeBandLadder returns [0,10] [10.01,20] [20.01,open]
func threeBandLadder(t *testing.T) *PriceLadder {
	t.Helper()
	l := newTestLadder(t)
	require.NoError(t, l.SetBandEnd(l.bands[1].ID, decPtr("20")))
	return l
}

func TestNewPriceLadder(t *testing.T) {
	t.Run("creates default two band ladder", func(t *testing.T) {
		tenantID := uuid.New()
		l, err := NewPriceLadder(tenantID, DefaultLadderOptions())
		require.NoError(t, err)

		assert.Equal(t, tenantID, l.TenantID)
		assert.Equal(t, StageDraft, l.Stage)
		assert.Equal(t, "USD", l.Currency)
		assert.Equal(t, 1, l.GetVersion())
		assert.Equal(t, "[0, 10] [10.01, open]", l.String())

		bands := l.Bands()
		require.Len(t, bands, 2)
		assert.Equal(t, OperatorMultiply, bands[0].PriceFormula.Operator)
		assert.False(t, bands[0].ComparedPriceEnabled)
		assert.True(t, l.Validate().Valid())
	})

	t.Run("uses configured min gap", func(t *testing.T) {
		opts := DefaultLadderOptions()
		opts.MinGap = dec("0.5")
		l, err := NewPriceLadder(uuid.New(), opts)
		require.NoError(t, err)
		assert.Equal(t, "[0, 10] [10.5, open]", l.String())
	})

	t.Run("publishes PriceLadderCreated event", func(t *testing.T) {
		l := newTestLadder(t)
		events := l.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypePriceLadderCreated, events[0].EventType())
	})

	t.Run("fails with non positive min gap", func(t *testing.T) {
		opts := DefaultLadderOptions()
		opts.MinGap = decimal.Zero
		_, err := NewPriceLadder(uuid.New(), opts)
		require.Error(t, err)
		assertErrorCode(t, err, "INVALID_MIN_GAP")
	})

	t.Run("fails with empty currency", func(t *testing.T) {
		opts := DefaultLadderOptions()
		opts.Currency = ""
		_, err := NewPriceLadder(uuid.New(), opts)
		require.Error(t, err)
	})

	t.Run("fails with invalid default formula", func(t *testing.T) {
		opts := DefaultLadderOptions()
		opts.PriceFormula = Formula{Operator: "divide", Operand: dec("2")}
		_, err := NewPriceLadder(uuid.New(), opts)
		require.Error(t, err)
		assertErrorCode(t, err, "INVALID_OPERATOR")
	})
}

func TestPriceLadder_SetBandEnd(t *testing.T) {
	t.Run("closing Range 2 appends a terminal band", func(t *testing.T) {
		l := newTestLadder(t)
		range2 := l.bands[1].ID

		require.NoError(t, l.SetBandEnd(range2, decPtr("20")))

		assert.Equal(t, "[0, 10] [10.01, 20] [20.01, open]", l.String())
		assert.True(t, l.IsDeletable(range2))
		assert.True(t, l.Validate().Valid())

		terminal, ok := l.Terminal()
		require.True(t, ok)
		assert.Equal(t, l.bands[2].ID, terminal.ID)
	})

	t.Run("closing the new terminal band gives four bands", func(t *testing.T) {
		l := threeBandLadder(t)

		require.NoError(t, l.SetBandEnd(l.bands[2].ID, decPtr("50")))

		require.Equal(t, 4, l.Len())
		assert.Equal(t, "[0, 10] [10.01, 20] [20.01, 50] [50.01, open]", l.String())
	})

	t.Run("publishes PriceBandAppended event", func(t *testing.T) {
		l := newTestLadder(t)
		l.ClearDomainEvents()

		require.NoError(t, l.SetBandEnd(l.bands[1].ID, decPtr("20")))

		events := l.GetDomainEvents()
		require.Len(t, events, 1)
		appended, ok := events[0].(*PriceBandAppendedEvent)
		require.True(t, ok)
		assert.Equal(t, 2, appended.Position)
		assert.Equal(t, "20.01", appended.RangeStart.String())
	})

	t.Run("new band inherits formulas and checkbox", func(t *testing.T) {
		l := newTestLadder(t)
		range2 := l.bands[1].ID
		require.NoError(t, l.SetPriceFormula(range2, MustFormula(OperatorAdd, dec("4"))))
		l.bands[1].ComparedPriceEnabled = true

		require.NoError(t, l.SetBandEnd(range2, decPtr("20")))

		appended := l.bands[2]
		assert.True(t, appended.PriceFormula.Equal(MustFormula(OperatorAdd, dec("4"))))
		assert.True(t, appended.ComparedPriceEnabled)
	})

	t.Run("invalid end on terminal band does not append", func(t *testing.T) {
		l := newTestLadder(t)
		range2 := l.bands[1].ID

		require.NoError(t, l.SetBandEnd(range2, decPtr("5")))

		assert.Equal(t, 2, l.Len())
		_, ok := l.Terminal()
		assert.False(t, ok)
		report := l.Validate()
		assert.True(t, report.Range2Error)
		assert.True(t, report.TerminalMissing)
		assert.True(t, report.BandHasError(range2))
	})

	t.Run("fixing an invalid terminal start appends afterwards", func(t *testing.T) {
		l := newTestLadder(t)
		range1 := l.bands[0].ID
		range2 := l.bands[1].ID
		require.NoError(t, l.SetBandEnd(range2, decPtr("5")))

		require.NoError(t, l.SetBandStart(range2, dec("1")))
		require.NoError(t, l.SetBandEnd(range1, decPtr("0.5")))

		assert.Equal(t, "[0, 0.5] [1, 5] [5.01, open]", l.String())
		_, ok := l.Terminal()
		assert.True(t, ok)
		assert.True(t, l.Validate().Valid())
	})

	t.Run("fixing an invalid terminal end appends afterwards", func(t *testing.T) {
		l := newTestLadder(t)
		range2 := l.bands[1].ID
		require.NoError(t, l.SetBandEnd(range2, decPtr("5")))

		require.NoError(t, l.SetBandEnd(range2, decPtr("30")))

		assert.Equal(t, "[0, 10] [10.01, 30] [30.01, open]", l.String())
	})

	t.Run("editing a closed middle band does not append", func(t *testing.T) {
		l := threeBandLadder(t)

		require.NoError(t, l.SetBandEnd(l.bands[1].ID, decPtr("18")))

		assert.Equal(t, "[0, 10] [10.01, 18] [20.01, open]", l.String())
	})

	t.Run("clears the end of the last band", func(t *testing.T) {
		l := newTestLadder(t)
		range2 := l.bands[1].ID
		require.NoError(t, l.SetBandEnd(range2, decPtr("5")))

		require.NoError(t, l.SetBandEnd(range2, nil))

		band, ok := l.Band(range2)
		require.True(t, ok)
		assert.True(t, band.IsOpen())
	})

	t.Run("cannot clear the end of a middle band", func(t *testing.T) {
		l := threeBandLadder(t)
		err := l.SetBandEnd(l.bands[1].ID, nil)
		assert.ErrorIs(t, err, ErrOpenEndNotAllowed)
	})

	t.Run("rejects negative end", func(t *testing.T) {
		l := newTestLadder(t)
		err := l.SetBandEnd(l.bands[0].ID, decPtr("-1"))
		assert.ErrorIs(t, err, ErrNegativeBound)
	})

	t.Run("unknown band", func(t *testing.T) {
		l := newTestLadder(t)
		err := l.SetBandEnd(uuid.New(), decPtr("1"))
		assert.ErrorIs(t, err, ErrBandNotFound)
	})
}

func TestPriceLadder_SetBandStart(t *testing.T) {
	t.Run("start below previous end raises overlap", func(t *testing.T) {
		l := newTestLadder(t)

		require.NoError(t, l.SetBandStart(l.bands[1].ID, dec("5")))

		report := l.Validate()
		assert.True(t, report.RangeOverlapError)
		assert.False(t, report.Range1Error)
		assert.False(t, report.Range2Error)
		require.Len(t, report.OverlapErrors, 1)
		assert.Equal(t, l.bands[0].ID, report.OverlapErrors[0].EarlierID)
		assert.Equal(t, l.bands[1].ID, report.OverlapErrors[0].LaterID)
	})

	t.Run("equal bounds raise order error", func(t *testing.T) {
		l := newTestLadder(t)
		range2 := l.bands[1].ID
		require.NoError(t, l.SetBandEnd(range2, decPtr("15")))

		require.NoError(t, l.SetBandStart(range2, dec("15")))

		report := l.Validate()
		assert.True(t, report.Range2Error)
		assert.False(t, report.RangeOverlapError)
		require.Len(t, report.OrderErrors, 1)
		assert.Equal(t, range2, report.OrderErrors[0].BandID)
	})

	t.Run("order error on dynamic band sets dynamic flag", func(t *testing.T) {
		l := threeBandLadder(t)
		require.NoError(t, l.SetBandEnd(l.bands[2].ID, decPtr("50")))

		require.NoError(t, l.SetBandStart(l.bands[2].ID, dec("60")))

		report := l.Validate()
		assert.True(t, report.DynamicRowError)
		assert.False(t, report.Range2Error)
		assert.False(t, report.RangeOverlapError)
		assert.Error(t, report.Err())
	})

	t.Run("rejects negative start", func(t *testing.T) {
		l := newTestLadder(t)
		assert.ErrorIs(t, l.SetBandStart(l.bands[0].ID, dec("-0.01")), ErrNegativeBound)
	})
}

func TestPriceLadder_IsDeletable(t *testing.T) {
	t.Run("default ladder has no deletable band", func(t *testing.T) {
		l := newTestLadder(t)
		for _, b := range l.bands {
			assert.False(t, l.IsDeletable(b.ID))
		}
	})

	t.Run("four band ladder", func(t *testing.T) {
		l := threeBandLadder(t)
		require.NoError(t, l.SetBandEnd(l.bands[2].ID, decPtr("50")))

		assert.True(t, l.IsDeletable(l.bands[0].ID))
		assert.True(t, l.IsDeletable(l.bands[1].ID))
		assert.True(t, l.IsDeletable(l.bands[2].ID))
		assert.False(t, l.IsDeletable(l.bands[3].ID))
	})

	t.Run("terminal band is never deletable", func(t *testing.T) {
		l := threeBandLadder(t)
		terminal, ok := l.Terminal()
		require.True(t, ok)
		assert.False(t, l.IsDeletable(terminal.ID))
		assert.ErrorIs(t, l.DeleteBand(terminal.ID), ErrBandNotDeletable)
	})

	t.Run("terminal Range 2 has nothing to promote", func(t *testing.T) {
		l := newTestLadder(t)
		assert.ErrorIs(t, l.DeleteBand(l.bands[1].ID), ErrNoPromotionCandidate)
	})

	t.Run("unknown band", func(t *testing.T) {
		l := newTestLadder(t)
		assert.False(t, l.IsDeletable(uuid.New()))
	})
}

func TestPriceLadder_DeleteBand(t *testing.T) {
	t.Run("deleting a dynamic band pulls the follower back", func(t *testing.T) {
		l := threeBandLadder(t)
		require.NoError(t, l.SetBandEnd(l.bands[2].ID, decPtr("50")))
		removed := l.bands[2].ID
		l.ClearDomainEvents()

		require.NoError(t, l.DeleteBand(removed))

		assert.Equal(t, "[0, 10] [10.01, 20] [20.01, open]", l.String())
		_, ok := l.Band(removed)
		assert.False(t, ok)
		assert.True(t, l.Validate().Valid())

		events := l.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypePriceBandDeleted, events[0].EventType())
	})

	t.Run("band identities survive deletion", func(t *testing.T) {
		l := threeBandLadder(t)
		require.NoError(t, l.SetBandEnd(l.bands[2].ID, decPtr("50")))
		require.NoError(t, l.SetBandEnd(l.bands[3].ID, decPtr("80")))
		before := l.Bands()

		require.NoError(t, l.DeleteBand(before[2].ID))

		after := l.Bands()
		require.Len(t, after, 4)
		assert.Equal(t, before[0].ID, after[0].ID)
		assert.Equal(t, before[1].ID, after[1].ID)
		assert.Equal(t, before[3].ID, after[2].ID)
		assert.Equal(t, before[4].ID, after[3].ID)
		assert.Equal(t, "20.01", after[2].RangeStart.String())
	})

	t.Run("Range 1 is kept in a two band ladder", func(t *testing.T) {
		l := newTestLadder(t)
		assert.False(t, l.IsDeletable(l.bands[0].ID))
		assert.ErrorIs(t, l.DeleteBand(l.bands[0].ID), ErrBandNotDeletable)
	})

	t.Run("deleting Range 1 hands its start to the follower", func(t *testing.T) {
		l := threeBandLadder(t)
		range1 := l.bands[0].ID
		follower := l.bands[1].ID
		require.True(t, l.IsDeletable(range1))

		require.NoError(t, l.DeleteBand(range1))

		assert.Equal(t, "[0, 20] [20.01, open]", l.String())
		assert.Equal(t, follower, l.bands[0].ID)
		assert.True(t, l.Validate().Valid())

		q, err := l.Quote(dec("0"))
		require.NoError(t, err)
		assert.Equal(t, follower, q.BandID)
	})

	t.Run("open Range 1 is not deletable", func(t *testing.T) {
		l := threeBandLadder(t)
		l.bands[0].RangeEnd = nil
		assert.False(t, l.IsDeletable(l.bands[0].ID))
	})

	t.Run("unknown band", func(t *testing.T) {
		l := newTestLadder(t)
		assert.ErrorIs(t, l.DeleteBand(uuid.New()), ErrBandNotFound)
	})
}

func TestPriceLadder_DeleteRange2(t *testing.T) {
	t.Run("promotes the terminal band into Range 2", func(t *testing.T) {
		l := threeBandLadder(t)
		range2 := l.bands[1].ID
		promoted := l.bands[2].ID
		l.bands[2].ComparedPriceEnabled = true

		require.NoError(t, l.DeleteBand(range2))

		assert.Equal(t, "[0, 10] [20.01, open]", l.String())
		assert.Equal(t, range2, l.bands[1].ID)
		assert.True(t, l.bands[1].ComparedPriceEnabled)
		_, ok := l.Band(promoted)
		assert.False(t, ok)
		assert.False(t, l.IsDeletable(range2))
		assert.True(t, l.Validate().Valid())
	})

	t.Run("keeps the promoted end when more bands follow", func(t *testing.T) {
		l := threeBandLadder(t)
		require.NoError(t, l.SetBandEnd(l.bands[2].ID, decPtr("50")))

		require.NoError(t, l.DeleteRange2())

		assert.Equal(t, "[0, 10] [20.01, 50] [50.01, open]", l.String())
		assert.True(t, l.Validate().Valid())
	})

	t.Run("publishes Range2Promoted event", func(t *testing.T) {
		l := threeBandLadder(t)
		promoted := l.bands[2].ID
		l.ClearDomainEvents()

		require.NoError(t, l.DeleteRange2())

		events := l.GetDomainEvents()
		require.Len(t, events, 1)
		e, ok := events[0].(*Range2PromotedEvent)
		require.True(t, ok)
		assert.Equal(t, promoted, e.PromotedBandID)
		assert.Equal(t, l.bands[1].ID, e.Range2ID)
	})

	t.Run("nothing to promote in default ladder", func(t *testing.T) {
		l := newTestLadder(t)
		assert.ErrorIs(t, l.DeleteRange2(), ErrNoPromotionCandidate)
	})
}

func TestPriceLadder_ComparedPrice(t *testing.T) {
	t.Run("open and last complete bands are locked", func(t *testing.T) {
		l := threeBandLadder(t)
		require.NoError(t, l.SetBandEnd(l.bands[2].ID, decPtr("50")))

		assert.False(t, l.IsComparedPriceLocked(l.bands[0].ID))
		assert.False(t, l.IsComparedPriceLocked(l.bands[1].ID))
		assert.True(t, l.IsComparedPriceLocked(l.bands[2].ID))
		assert.True(t, l.IsComparedPriceLocked(l.bands[3].ID))
	})

	t.Run("Range 1 is locked in default ladder", func(t *testing.T) {
		l := newTestLadder(t)
		assert.True(t, l.IsComparedPriceLocked(l.bands[0].ID))
		assert.ErrorIs(t, l.SetComparedPriceEnabled(l.bands[0].ID, true), ErrComparedPriceLocked)
	})

	t.Run("toggles a single unlocked band", func(t *testing.T) {
		l := threeBandLadder(t)
		require.NoError(t, l.SetComparedPriceEnabled(l.bands[0].ID, true))
		assert.True(t, l.bands[0].ComparedPriceEnabled)
	})

	t.Run("fan out skips locked bands", func(t *testing.T) {
		l := threeBandLadder(t)
		require.NoError(t, l.SetBandEnd(l.bands[2].ID, decPtr("50")))

		updated := l.ToggleComparedPriceForAll(true)

		assert.Equal(t, 2, updated)
		assert.True(t, l.bands[0].ComparedPriceEnabled)
		assert.True(t, l.bands[1].ComparedPriceEnabled)
		assert.False(t, l.bands[2].ComparedPriceEnabled)
		assert.False(t, l.bands[3].ComparedPriceEnabled)

		assert.Equal(t, 2, l.ToggleComparedPriceForAll(false))
		assert.False(t, l.bands[0].ComparedPriceEnabled)
	})

	t.Run("band locked by a deletion stops quoting compared price", func(t *testing.T) {
		l := threeBandLadder(t)
		require.NoError(t, l.SetBandEnd(l.bands[2].ID, decPtr("50")))
		l.ToggleComparedPriceForAll(true)
		range2 := l.bands[1].ID
		require.True(t, l.ComparedPriceActive(range2))

		require.NoError(t, l.DeleteBand(l.bands[2].ID))

		assert.True(t, l.IsComparedPriceLocked(range2))
		assert.False(t, l.ComparedPriceActive(range2))
		q, err := l.Quote(dec("15"))
		require.NoError(t, err)
		assert.Equal(t, range2, q.BandID)
		assert.Nil(t, q.ComparedAtPrice)
	})

	t.Run("open band never quotes compared price", func(t *testing.T) {
		l := threeBandLadder(t)
		terminal := l.bands[2].ID
		l.bands[2].ComparedPriceEnabled = true

		assert.False(t, l.ComparedPriceActive(terminal))
		assert.False(t, l.ComparedPriceActive(uuid.New()))
	})

	t.Run("lock follows the ladder shape", func(t *testing.T) {
		l := newTestLadder(t)
		range1 := l.bands[0].ID
		assert.True(t, l.IsComparedPriceLocked(range1))

		require.NoError(t, l.SetBandEnd(l.bands[1].ID, decPtr("20")))

		assert.False(t, l.IsComparedPriceLocked(range1))
	})
}

func TestPriceLadder_Formulas(t *testing.T) {
	l := newTestLadder(t)
	id := l.bands[0].ID

	require.NoError(t, l.SetPriceFormula(id, MustFormula(OperatorAdd, dec("5"))))
	require.NoError(t, l.SetComparedPriceFormula(id, MustFormula(OperatorMultiply, dec("4"))))

	band, ok := l.Band(id)
	require.True(t, ok)
	assert.Equal(t, "+ 5", band.PriceFormula.String())
	assert.Equal(t, "x 4", band.ComparedPriceFormula.String())

	err := l.SetPriceFormula(id, Formula{Operator: OperatorAdd, Operand: dec("-1")})
	assert.Error(t, err)
	assert.ErrorIs(t, l.SetComparedPriceFormula(uuid.New(), MustFormula(OperatorAdd, dec("1"))), ErrBandNotFound)
}

func TestPriceLadder_Bands_ReturnsCopies(t *testing.T) {
	l := threeBandLadder(t)

	bands := l.Bands()
	*bands[1].RangeEnd = dec("999")
	bands[0].RangeStart = dec("3")

	assert.Equal(t, "[0, 10] [10.01, 20] [20.01, open]", l.String())
}

func TestPriceLadder_LastComplete(t *testing.T) {
	l := newTestLadder(t)
	last, ok := l.LastComplete()
	require.True(t, ok)
	assert.Equal(t, l.bands[0].ID, last.ID)

	require.NoError(t, l.SetBandEnd(l.bands[1].ID, decPtr("20")))
	last, ok = l.LastComplete()
	require.True(t, ok)
	assert.Equal(t, l.bands[1].ID, last.ID)
}

func TestSnapshot(t *testing.T) {
	draft := threeBandLadder(t)
	require.NoError(t, draft.SetComparedPriceEnabled(draft.bands[0].ID, true))

	published := Snapshot(draft, StagePublished)

	assert.NotEqual(t, draft.ID, published.ID)
	assert.Equal(t, draft.TenantID, published.TenantID)
	assert.Equal(t, StagePublished, published.Stage)
	assert.Equal(t, draft.String(), published.String())
	assert.True(t, published.bands[0].ComparedPriceEnabled)
	for i := range draft.bands {
		assert.Equal(t, draft.bands[i].ID, published.bands[i].ID)
	}

	t.Run("copies are independent", func(t *testing.T) {
		require.NoError(t, published.SetBandStart(published.bands[1].ID, dec("11")))
		assert.Equal(t, "10.01", draft.bands[1].RangeStart.String())
	})

	t.Run("overwrite replaces bands", func(t *testing.T) {
		other := newTestLadder(t)
		id := other.ID
		other.Overwrite(draft)
		assert.Equal(t, draft.String(), other.String())
		assert.Equal(t, 3, other.Len())
		assert.Equal(t, id, other.ID)
		assert.Equal(t, draft.bands[2].ID, other.bands[2].ID)
	})

	t.Run("mark published raises event", func(t *testing.T) {
		published.MarkPublished()
		events := published.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypePriceLadderPublished, events[0].EventType())
	})
}

// Any sequence of edits keeps at most one open band, and only in last position.
// A ladder left without an open band is never reported valid.
func TestPriceLadder_OpenBandInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 50; run++ {
		l := newTestLadder(t)

		for step := 0; step < 40; step++ {
			bands := l.bands
			target := bands[rng.Intn(len(bands))].ID
			value := decimal.NewFromInt(int64(rng.Intn(200)))

			switch rng.Intn(5) {
			case 0, 1:
				_ = l.SetBandEnd(target, &value)
			case 2:
				_ = l.SetBandStart(target, value)
			case 3:
				_ = l.DeleteBand(target)
			case 4:
				_ = l.SetBandEnd(target, nil)
			}

			open := 0
			for i, b := range l.bands {
				if b.IsOpen() {
					open++
					assert.Equal(t, len(l.bands)-1, i, "open band must be last: %s", l)
				}
			}
			assert.LessOrEqual(t, open, 1, l.String())
			assert.GreaterOrEqual(t, l.Len(), 2, l.String())
			if _, ok := l.Terminal(); !ok {
				assert.False(t, l.Validate().Valid(), "ladder without open band reported valid: %s", l)
			}
		}
	}
}

// Closing the open terminal band with v > start always appends exactly one band at v + gap.
func TestPriceLadder_TerminalBandGeneration(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 100; i++ {
		l := newTestLadder(t)
		terminal, ok := l.Terminal()
		require.True(t, ok)

		v := terminal.RangeStart.Add(decimal.New(int64(rng.Intn(100000)+1), -2))
		before := l.Len()

		require.NoError(t, l.SetBandEnd(terminal.ID, &v))

		require.Equal(t, before+1, l.Len())
		next, ok := l.Terminal()
		require.True(t, ok)
		assert.True(t, next.RangeStart.Equal(v.Add(DefaultMinGap)), "got %s for %s", next.RangeStart, v)
		assert.True(t, next.IsOpen())
	}
}
