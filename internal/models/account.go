package models

import (
	"time"

	"gorm.io/gorm"
)

const ProviderCredential = "credential"

type Account struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	AccountID  string `gorm:"size:255;not null" json:"accountId"`
	ProviderID string `gorm:"size:50;not null" json:"providerId"`

	UserID string `gorm:"type:uuid;not null;index" json:"userId"`
	User   *User  `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Password string `gorm:"size:255" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *Account) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
