package models

// PlantFamilyEntry is a row of the externally populated family reference list.
type PlantFamilyEntry struct {
	ID     int64  `gorm:"primaryKey" json:"id"`
	Family string `gorm:"column:family_scientific_name;uniqueIndex;not null" json:"family_scientificNameWithoutAuthor"`
}

func (PlantFamilyEntry) TableName() string { return "plant_families" }

// PlantFamilyPage is one page of the family reference list.
type PlantFamilyPage struct {
	Families    []PlantFamilyEntry `json:"families"`
	TotalPages  int                `json:"totalPages"`
	CurrentPage int                `json:"currentPage"`
}
