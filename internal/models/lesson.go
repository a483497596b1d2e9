package models

import (
	"time"

	"gorm.io/gorm"
)

type Lesson struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	Date   time.Time `gorm:"not null;index" json:"date"`
	Desc   string    `gorm:"size:1000;not null" json:"desc"`
	Status string    `gorm:"size:20;not null;default:'PENDING';index" json:"status"`

	CustomerID string `gorm:"type:uuid;not null;index" json:"customerId"`
	Customer   *User  `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"customer,omitempty"`

	MonitorID string `gorm:"type:uuid;not null;index" json:"monitorId"`
	Monitor   *User  `gorm:"foreignKey:MonitorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"monitor,omitempty"`

	HorseID string `gorm:"type:uuid;not null;index" json:"horseId"`
	Horse   *Horse `gorm:"foreignKey:HorseID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"horse,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (l *Lesson) BeforeCreate(*gorm.DB) error {
	ensureID(&l.ID)
	return nil
}

// LessonSummary is the lesson projection nested in billing details.
type LessonSummary struct {
	ID     string    `json:"id"`
	Date   time.Time `json:"date"`
	Desc   string    `json:"desc"`
	Status string    `json:"status"`
}
