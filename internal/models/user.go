package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	Name          string `gorm:"size:200" json:"name"`
	FirstName     string `gorm:"size:100;not null" json:"firstName"`
	LastName      string `gorm:"size:100;not null" json:"lastName"`
	Email         string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	EmailVerified bool   `gorm:"not null;default:false" json:"emailVerified"`
	Image         string `gorm:"size:500" json:"image,omitempty"`
	Phone         string `gorm:"size:30" json:"phone"`
	Role          string `gorm:"size:20;not null;default:'CUSTOMER';index" json:"role"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

// UserSummary is the public projection embedded in lists and nested includes.
type UserSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role,omitempty"`
}
