package cache

import (
	"encoding/json"
	"time"

	"github.com/dropship/backend/internal/domain/pricing"
	"github.com/dropship/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ladderSnapshot is the serialized form of a cached ladder
type ladderSnapshot struct {
	ID        uuid.UUID           `json:"id"`
	TenantID  uuid.UUID           `json:"tenant_id"`
	Version   int                 `json:"version"`
	Stage     pricing.Stage       `json:"stage"`
	Currency  string              `json:"currency"`
	MinGap    decimal.Decimal     `json:"min_gap"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
	Bands     []pricing.PriceBand `json:"bands"`
}

func marshalLadder(l *pricing.PriceLadder) ([]byte, error) {
	return json.Marshal(ladderSnapshot{
		ID:        l.ID,
		TenantID:  l.TenantID,
		Version:   l.Version,
		Stage:     l.Stage,
		Currency:  l.Currency,
		MinGap:    l.MinGap,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
		Bands:     l.Bands(),
	})
}

func unmarshalLadder(data []byte) (*pricing.PriceLadder, error) {
	var s ladderSnapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	root := shared.RestoreTenantAggregateRoot(s.ID, s.TenantID, s.Version, s.CreatedAt, s.UpdatedAt)
	return pricing.RestorePriceLadder(root, s.Stage, s.Currency, s.MinGap, s.Bands), nil
}

// copyLadder returns an independent copy so cached values cannot be mutated by callers
func copyLadder(l *pricing.PriceLadder) *pricing.PriceLadder {
	root := l.TenantAggregateRoot
	root.ClearDomainEvents()
	return pricing.RestorePriceLadder(root, l.Stage, l.Currency, l.MinGap, l.Bands())
}
