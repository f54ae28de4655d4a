package models

import (
	"github.com/dropship/backend/internal/domain/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceLadderModel is the persistence model for the PriceLadder aggregate.
// A tenant has one row per stage.
type PriceLadderModel struct {
	AggregateColumns
	TenantID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_price_ladders_tenant_stage,priority:1"`
	Stage    string           `gorm:"type:varchar(20);not null;uniqueIndex:idx_price_ladders_tenant_stage,priority:2"`
	Currency string           `gorm:"type:varchar(3);not null"`
	MinGap   decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Bands    []PriceBandModel `gorm:"foreignKey:LadderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (PriceLadderModel) TableName() string {
	return "price_ladders"
}

// ToDomain converts the persistence model to a domain PriceLadder
func (m *PriceLadderModel) ToDomain() *pricing.PriceLadder {
	bands := make([]pricing.PriceBand, len(m.Bands))
	for i := range m.Bands {
		bands[i] = m.Bands[i].ToDomain()
	}
	return pricing.RestorePriceLadder(
		m.toDomainRoot(m.TenantID),
		pricing.Stage(m.Stage),
		m.Currency,
		m.MinGap,
		bands,
	)
}

// FromDomain populates the persistence model from a domain PriceLadder
func (m *PriceLadderModel) FromDomain(l *pricing.PriceLadder) {
	m.fromDomainRoot(l.TenantAggregateRoot)
	m.TenantID = l.TenantID
	m.Stage = string(l.Stage)
	m.Currency = l.Currency
	m.MinGap = l.MinGap

	bands := l.Bands()
	m.Bands = make([]PriceBandModel, len(bands))
	for i, b := range bands {
		m.Bands[i].FromDomain(l.ID, i, b)
	}
}

// PriceLadderModelFromDomain creates a new persistence model from domain PriceLadder
func PriceLadderModelFromDomain(l *pricing.PriceLadder) *PriceLadderModel {
	m := &PriceLadderModel{}
	m.FromDomain(l)
	return m
}

// PriceBandModel is the persistence model for one band of a price ladder.
// Band ids are shared between a tenant's draft and published ladders, so the
// key is (ladder_id, id).
type PriceBandModel struct {
	LadderID         uuid.UUID           `gorm:"type:uuid;primaryKey"`
	ID               uuid.UUID           `gorm:"type:uuid;primaryKey"`
	Position         int                 `gorm:"not null"`
	RangeStart       decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	RangeEnd         decimal.NullDecimal `gorm:"type:decimal(18,4)"`
	PriceOperator    string              `gorm:"type:varchar(10);not null"`
	PriceOperand     decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	ComparedOperator string              `gorm:"type:varchar(10);not null"`
	ComparedOperand  decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	ComparedEnabled  bool                `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PriceBandModel) TableName() string {
	return "price_bands"
}

// ToDomain converts the persistence model to a domain PriceBand
func (m *PriceBandModel) ToDomain() pricing.PriceBand {
	b := pricing.PriceBand{
		ID:         m.ID,
		RangeStart: m.RangeStart,
		PriceFormula: pricing.Formula{
			Operator: pricing.Operator(m.PriceOperator),
			Operand:  m.PriceOperand,
		},
		ComparedPriceFormula: pricing.Formula{
			Operator: pricing.Operator(m.ComparedOperator),
			Operand:  m.ComparedOperand,
		},
		ComparedPriceEnabled: m.ComparedEnabled,
	}
	if m.RangeEnd.Valid {
		end := m.RangeEnd.Decimal
		b.RangeEnd = &end
	}
	return b
}

// FromDomain populates the persistence model from a domain PriceBand
func (m *PriceBandModel) FromDomain(ladderID uuid.UUID, position int, b pricing.PriceBand) {
	m.ID = b.ID
	m.LadderID = ladderID
	m.Position = position
	m.RangeStart = b.RangeStart
	m.RangeEnd = decimal.NullDecimal{}
	if b.RangeEnd != nil {
		m.RangeEnd = decimal.NewNullDecimal(*b.RangeEnd)
	}
	m.PriceOperator = string(b.PriceFormula.Operator)
	m.PriceOperand = b.PriceFormula.Operand
	m.ComparedOperator = string(b.ComparedPriceFormula.Operator)
	m.ComparedOperand = b.ComparedPriceFormula.Operand
	m.ComparedEnabled = b.ComparedPriceEnabled
}

// All returns every model for auto migration
func All() []any {
	return []any{
		&PriceLadderModel{},
		&PriceBandModel{},
	}
}
