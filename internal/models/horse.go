package models

import (
	"time"

	"gorm.io/gorm"
)

type Horse struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	OwnerID string `gorm:"size:64;not null;index" json:"ownerId"`

	Name        string `gorm:"size:100" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Color       string `gorm:"size:50" json:"color"`
	Discipline  string `gorm:"size:50" json:"discipline"`
	AgeYears    *int   `json:"ageYears"`
	HeightCm    *int   `json:"heightCm"`
	WeightKg    *int   `json:"weightKg"`
	PhotoKey    string `gorm:"size:255" json:"photoKey,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (h *Horse) BeforeCreate(*gorm.DB) error {
	ensureID(&h.ID)
	return nil
}
