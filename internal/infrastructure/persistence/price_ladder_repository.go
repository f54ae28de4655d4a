package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/dropship/backend/internal/domain/pricing"
	"github.com/dropship/backend/internal/domain/shared"
	"github.com/dropship/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPriceLadderRepository implements PriceLadderRepository using GORM
type GormPriceLadderRepository struct {
	db *gorm.DB
}

// NewGormPriceLadderRepository creates a new GormPriceLadderRepository
func NewGormPriceLadderRepository(db *gorm.DB) *GormPriceLadderRepository {
	return &GormPriceLadderRepository{db: db}
}

// FindByTenant loads the tenant's ladder for the given stage with its bands in order
func (r *GormPriceLadderRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID, stage pricing.Stage) (*pricing.PriceLadder, error) {
	var model models.PriceLadderModel
	err := r.db.WithContext(ctx).
		Preload("Bands", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("tenant_id = ? AND stage = ?", tenantID, string(stage)).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsForTenant reports whether the tenant has a ladder for the given stage
func (r *GormPriceLadderRepository) ExistsForTenant(ctx context.Context, tenantID uuid.UUID, stage pricing.Stage) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PriceLadderModel{}).
		Where("tenant_id = ? AND stage = ?", tenantID, string(stage)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates the ladder and replaces its bands.
// Updates are guarded by the aggregate version; a stale ladder yields ErrConcurrencyConflict.
// On success the ladder's version reflects the stored row.
func (r *GormPriceLadderRepository) Save(ctx context.Context, ladder *pricing.PriceLadder) error {
	model := models.PriceLadderModelFromDomain(ladder)
	updated := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.PriceLadderModel
		err := tx.Select("id", "version").Where("id = ?", ladder.ID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return r.create(tx, model)
		case err != nil:
			return err
		}

		updated = true
		return r.update(tx, model)
	})
	if err != nil {
		return err
	}

	if updated {
		ladder.IncrementVersion()
	}
	return nil
}

func (r *GormPriceLadderRepository) create(tx *gorm.DB, model *models.PriceLadderModel) error {
	if err := tx.Omit("Bands").Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return r.insertBands(tx, model.Bands)
}

func (r *GormPriceLadderRepository) update(tx *gorm.DB, model *models.PriceLadderModel) error {
	result := tx.Model(&models.PriceLadderModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version).
		Updates(map[string]any{
			"stage":      model.Stage,
			"currency":   model.Currency,
			"min_gap":    model.MinGap,
			"version":    model.Version + 1,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}

	if err := tx.Where("ladder_id = ?", model.ID).Delete(&models.PriceBandModel{}).Error; err != nil {
		return err
	}
	return r.insertBands(tx, model.Bands)
}

func (r *GormPriceLadderRepository) insertBands(tx *gorm.DB, bands []models.PriceBandModel) error {
	if len(bands) == 0 {
		return nil
	}
	return tx.Create(&bands).Error
}

// DeleteForTenant removes the tenant's ladder for the given stage along with its bands
func (r *GormPriceLadderRepository) DeleteForTenant(ctx context.Context, tenantID uuid.UUID, stage pricing.Stage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.PriceLadderModel
		err := tx.Select("id").
			Where("tenant_id = ? AND stage = ?", tenantID, string(stage)).
			First(&model).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if err := tx.Where("ladder_id = ?", model.ID).Delete(&models.PriceBandModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.PriceLadderModel{}, "id = ?", model.ID).Error
	})
}

// Ensure GormPriceLadderRepository implements PriceLadderRepository
var _ pricing.PriceLadderRepository = (*GormPriceLadderRepository)(nil)
