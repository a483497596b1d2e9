package models

import (
	"time"

	"gorm.io/gorm"
)

type PerformedService struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	BillingID string `gorm:"type:uuid;not null;index" json:"billingId"`

	UserID string `gorm:"type:uuid;not null;index" json:"userId"`
	User   *User  `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"user,omitempty"`

	// ServiceID references the lesson the line item bills.
	ServiceID string  `gorm:"type:uuid;not null;index" json:"serviceId"`
	Lesson    *Lesson `gorm:"foreignKey:ServiceID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"lesson,omitempty"`

	Amount      float64 `gorm:"not null;default:0" json:"amount"`
	ServiceType string  `gorm:"size:20;not null;default:'LESSON'" json:"serviceType"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *PerformedService) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
