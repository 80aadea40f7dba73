package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PhotoRecord is one ingested plant photograph with its recognition result
// and optional capture metadata.
type PhotoRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PhotoURL  string    `gorm:"not null" json:"photoUrl"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
	Family    string    `gorm:"column:family_scientific_name;not null;index" json:"family_scientificNameWithoutAuthor"`
	Genus     string    `gorm:"column:genus_scientific_name;not null;index" json:"genus_scientificNameWithoutAuthor"`

	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	// DateTaken is the camera's raw capture timestamp, stored uninterpreted.
	DateTaken *string `json:"date_taken"`

	Location
}

// Location is the reverse-geocoded place of a photo. Every field is optional.
type Location struct {
	Country  *string `json:"country"`
	City     *string `json:"city"`
	District *string `json:"district"`
}

func (PhotoRecord) TableName() string { return "photos" }

func (p *PhotoRecord) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PhotoPreview is the slim projection returned by the latest-by-family view.
type PhotoPreview struct {
	PhotoURL  string    `json:"photoUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// FamilyPhotos groups the newest previews for one requested family.
type FamilyPhotos struct {
	Family string         `json:"family"`
	Photos []PhotoPreview `json:"photos"`
}

// PhotoCounts are the aggregate gallery statistics.
type PhotoCounts struct {
	UniqueFamilies int64 `json:"unique_families"`
	UniqueGenera   int64 `json:"unique_genera"`
	TotalPhotos    int64 `json:"total_photos"`
}
