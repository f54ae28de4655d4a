package pricing

import (
	"github.com/dropship/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypePriceLadder = "PriceLadder"

// Event type constants
const (
	EventTypePriceLadderCreated   = "PriceLadderCreated"
	EventTypePriceLadderPublished = "PriceLadderPublished"
	EventTypePriceBandAppended    = "PriceBandAppended"
	EventTypePriceBandDeleted     = "PriceBandDeleted"
	EventTypeRange2Promoted       = "Range2Promoted"
)

// PriceLadderCreatedEvent is published when a ladder is created with its default bands
type PriceLadderCreatedEvent struct {
	shared.BaseDomainEvent
	LadderID uuid.UUID       `json:"ladder_id"`
	Stage    Stage           `json:"stage"`
	Currency string          `json:"currency"`
	MinGap   decimal.Decimal `json:"min_gap"`
}

// NewPriceLadderCreatedEvent creates a new PriceLadderCreatedEvent
func NewPriceLadderCreatedEvent(ladder *PriceLadder) *PriceLadderCreatedEvent {
	return &PriceLadderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePriceLadderCreated, AggregateTypePriceLadder, ladder.ID, ladder.TenantID),
		LadderID:        ladder.ID,
		Stage:           ladder.Stage,
		Currency:        ladder.Currency,
		MinGap:          ladder.MinGap,
	}
}

// PriceLadderPublishedEvent is published when a draft becomes the active pricing rule
type PriceLadderPublishedEvent struct {
	shared.BaseDomainEvent
	LadderID  uuid.UUID `json:"ladder_id"`
	BandCount int       `json:"band_count"`
}

// NewPriceLadderPublishedEvent creates a new PriceLadderPublishedEvent
func NewPriceLadderPublishedEvent(ladder *PriceLadder) *PriceLadderPublishedEvent {
	return &PriceLadderPublishedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePriceLadderPublished, AggregateTypePriceLadder, ladder.ID, ladder.TenantID),
		LadderID:        ladder.ID,
		BandCount:       ladder.Len(),
	}
}

// PriceBandAppendedEvent is published when closing the terminal band grows the ladder
type PriceBandAppendedEvent struct {
	shared.BaseDomainEvent
	LadderID   uuid.UUID       `json:"ladder_id"`
	BandID     uuid.UUID       `json:"band_id"`
	Position   int             `json:"position"`
	RangeStart decimal.Decimal `json:"range_start"`
}

// NewPriceBandAppendedEvent creates a new PriceBandAppendedEvent
func NewPriceBandAppendedEvent(ladder *PriceLadder, band PriceBand, position int) *PriceBandAppendedEvent {
	return &PriceBandAppendedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePriceBandAppended, AggregateTypePriceLadder, ladder.ID, ladder.TenantID),
		LadderID:        ladder.ID,
		BandID:          band.ID,
		Position:        position,
		RangeStart:      band.RangeStart,
	}
}

// PriceBandDeletedEvent is published when a dynamic band is removed
type PriceBandDeletedEvent struct {
	shared.BaseDomainEvent
	LadderID uuid.UUID `json:"ladder_id"`
	BandID   uuid.UUID `json:"band_id"`
	Position int       `json:"position"`
}

// NewPriceBandDeletedEvent creates a new PriceBandDeletedEvent
func NewPriceBandDeletedEvent(ladder *PriceLadder, band PriceBand, position int) *PriceBandDeletedEvent {
	return &PriceBandDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePriceBandDeleted, AggregateTypePriceLadder, ladder.ID, ladder.TenantID),
		LadderID:        ladder.ID,
		BandID:          band.ID,
		Position:        position,
	}
}

// Range2PromotedEvent is published when Range 2 is deleted and the next band takes its place
type Range2PromotedEvent struct {
	shared.BaseDomainEvent
	LadderID       uuid.UUID `json:"ladder_id"`
	Range2ID       uuid.UUID `json:"range2_id"`
	PromotedBandID uuid.UUID `json:"promoted_band_id"`
}

// NewRange2PromotedEvent creates a new Range2PromotedEvent
func NewRange2PromotedEvent(ladder *PriceLadder, promotedID uuid.UUID) *Range2PromotedEvent {
	return &Range2PromotedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRange2Promoted, AggregateTypePriceLadder, ladder.ID, ladder.TenantID),
		LadderID:        ladder.ID,
		Range2ID:        ladder.bands[range2Position].ID,
		PromotedBandID:  promotedID,
	}
}
