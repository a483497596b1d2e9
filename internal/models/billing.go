package models

import (
	"time"

	"gorm.io/gorm"
)

type Billing struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	Date      time.Time `gorm:"not null;index" json:"date"`
	Situation string    `gorm:"size:20;not null;default:'UNPAYED'" json:"situation"`

	Services []PerformedService `gorm:"foreignKey:BillingID" json:"services,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *Billing) BeforeCreate(*gorm.DB) error {
	ensureID(&b.ID)
	return nil
}

// Total sums the amounts of the loaded services.
func (b *Billing) Total() float64 {
	var total float64
	for _, s := range b.Services {
		total += s.Amount
	}
	return total
}
