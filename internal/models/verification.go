package models

import (
	"time"

	"gorm.io/gorm"
)

type Verification struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	Identifier string    `gorm:"size:255;not null;index" json:"identifier"`
	Value      string    `gorm:"size:255;not null" json:"-"`
	ExpiresAt  time.Time `gorm:"not null;index" json:"expiresAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (v *Verification) BeforeCreate(*gorm.DB) error {
	ensureID(&v.ID)
	return nil
}
