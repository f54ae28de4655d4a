package models

import (
	"time"

	"github.com/dropship/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateColumns are the identity, optimistic-lock and audit columns of an aggregate table.
// Tenant columns stay on the table model so each table can declare its own unique indexes.
type AggregateColumns struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Version   int       `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (c *AggregateColumns) fromDomainRoot(r shared.TenantAggregateRoot) {
	c.ID = r.ID
	c.Version = r.Version
	c.CreatedAt = r.CreatedAt
	c.UpdatedAt = r.UpdatedAt
}

func (c *AggregateColumns) toDomainRoot(tenantID uuid.UUID) shared.TenantAggregateRoot {
	return shared.RestoreTenantAggregateRoot(c.ID, tenantID, c.Version, c.CreatedAt, c.UpdatedAt)
}
