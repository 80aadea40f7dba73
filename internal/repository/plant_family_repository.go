package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"plant-gallery/internal/models"
)

// PlantFamilyRepository provides read access to the plant family reference list.
type PlantFamilyRepository struct {
	db *gorm.DB
}

// NewPlantFamilyRepository creates a new PlantFamilyRepository instance with the provided GORM database connection.
func NewPlantFamilyRepository(db *gorm.DB) *PlantFamilyRepository {
	return &PlantFamilyRepository{db: db}
}

// ListFamilies returns one page of families in insertion order along with
// the size of the whole list.
func (r *PlantFamilyRepository) ListFamilies(ctx context.Context, offset, limit int) ([]models.PlantFamilyEntry, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.PlantFamilyEntry{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	families := []models.PlantFamilyEntry{}
	err := r.db.WithContext(ctx).Order("id").Offset(offset).Limit(limit).Find(&families).Error
	return families, total, err
}

// CreateFamilies inserts reference rows, skipping names already present.
func (r *PlantFamilyRepository) CreateFamilies(ctx context.Context, families []models.PlantFamilyEntry) error {
	if len(families) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&families).Error
}
