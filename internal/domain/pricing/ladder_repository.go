package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PriceLadderRepository defines the interface for price ladder persistence.
// A tenant has at most one ladder per stage.
type PriceLadderRepository interface {
	// FindByTenant finds the ladder of a tenant in the given stage
	FindByTenant(ctx context.Context, tenantID uuid.UUID, stage Stage) (*PriceLadder, error)

	// Save creates or updates a ladder together with its bands.
	// Updates are rejected with shared.ErrConcurrencyConflict when the stored version moved on.
	Save(ctx context.Context, ladder *PriceLadder) error

	// DeleteForTenant deletes the ladder of a tenant in the given stage
	DeleteForTenant(ctx context.Context, tenantID uuid.UUID, stage Stage) error

	// ExistsForTenant checks if the tenant has a ladder in the given stage
	ExistsForTenant(ctx context.Context, tenantID uuid.UUID, stage Stage) (bool, error)
}

// PriceLadderCache keeps published ladders close to the quote path.
// Get returns nil, nil on a miss.
type PriceLadderCache interface {
	Get(ctx context.Context, tenantID uuid.UUID) (*PriceLadder, error)
	Set(ctx context.Context, ladder *PriceLadder, ttl time.Duration) error
	Delete(ctx context.Context, tenantID uuid.UUID) error
}
