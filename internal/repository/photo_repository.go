package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"plant-gallery/internal/models"
)

// Column names of the photos table.
const (
	ColumnCreatedAt = "created_at"
	ColumnFamily    = "family_scientific_name"
	ColumnGenus     = "genus_scientific_name"
)

// SortFields maps the JSON field names clients sort by to table columns.
var SortFields = map[string]string{
	"createdAt":                          ColumnCreatedAt,
	"family_scientificNameWithoutAuthor": ColumnFamily,
	"genus_scientificNameWithoutAuthor":  ColumnGenus,
}

// ListOptions controls ordering and paging of photo listings. A Limit of
// zero or less returns every row.
type ListOptions struct {
	Offset     int
	Limit      int
	SortColumn string
	Descending bool
}

// PhotoRepository defines the persistence operations of the gallery.
type PhotoRepository interface {
	CreatePhoto(ctx context.Context, photo *models.PhotoRecord) error
	ListPhotos(ctx context.Context, opts ListOptions) ([]models.PhotoRecord, error)
	LatestByFamily(ctx context.Context, family string, limit int) ([]models.PhotoRecord, error)
	CountPhotos(ctx context.Context) (models.PhotoCounts, error)
}

// PhotoRepositoryImpl provides methods to interact with the PhotoRecord model in the database.
type PhotoRepositoryImpl struct {
	db *gorm.DB
}

// NewPhotoRepository creates a new PhotoRepositoryImpl instance with the provided GORM database connection.
func NewPhotoRepository(db *gorm.DB) *PhotoRepositoryImpl {
	return &PhotoRepositoryImpl{db: db}
}

// CreatePhoto inserts a new PhotoRecord.
func (r *PhotoRepositoryImpl) CreatePhoto(ctx context.Context, photo *models.PhotoRecord) error {
	return r.db.WithContext(ctx).Create(photo).Error
}

// ListPhotos returns photos ordered by opts.SortColumn, newest first as a
// tie-breaker, then paged by Offset and Limit.
func (r *PhotoRepositoryImpl) ListPhotos(ctx context.Context, opts ListOptions) ([]models.PhotoRecord, error) {
	column := opts.SortColumn
	if column == "" {
		column = ColumnCreatedAt
	}

	q := r.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: opts.Descending})
	if column != ColumnCreatedAt {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: ColumnCreatedAt}, Desc: true})
	}
	q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})

	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}

	photos := []models.PhotoRecord{}
	err := q.Find(&photos).Error
	return photos, err
}

// LatestByFamily returns up to limit of the newest photos recognized as family.
func (r *PhotoRepositoryImpl) LatestByFamily(ctx context.Context, family string, limit int) ([]models.PhotoRecord, error) {
	photos := []models.PhotoRecord{}
	err := r.db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: ColumnFamily}, Value: family}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: ColumnCreatedAt}, Desc: true}).
		Limit(limit).
		Find(&photos).Error
	return photos, err
}

// CountPhotos returns distinct family and genus counts along with the total.
func (r *PhotoRepositoryImpl) CountPhotos(ctx context.Context) (models.PhotoCounts, error) {
	var counts models.PhotoCounts
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.PhotoRecord{}).Distinct(ColumnFamily).Count(&counts.UniqueFamilies).Error; err != nil {
		return models.PhotoCounts{}, err
	}
	if err := db.Model(&models.PhotoRecord{}).Distinct(ColumnGenus).Count(&counts.UniqueGenera).Error; err != nil {
		return models.PhotoCounts{}, err
	}
	if err := db.Model(&models.PhotoRecord{}).Count(&counts.TotalPhotos).Error; err != nil {
		return models.PhotoCounts{}, err
	}
	return counts, nil
}
