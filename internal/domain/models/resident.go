package models

import (
	"strings"

	"gorm.io/gorm"
)

// Resident is a unit owner or tenant
type Resident struct {
	BaseModel
	Name      string `gorm:"type:varchar(100);not null" json:"name" validate:"required,max=100"`
	Email     string `gorm:"type:varchar(120);uniqueIndex;not null" json:"email" validate:"required,email,max=120"`
	Building  int    `gorm:"not null" json:"building" validate:"required,min=1,max=99"` // displayed as BL01
	Apartment int    `gorm:"not null" json:"apartment" validate:"required,min=1"`       // displayed as AP101
	Phone     string `gorm:"type:varchar(20)" json:"phone" validate:"max=20"`
}

// BeforeSave normalizes the email and keeps it unique
func (r *Resident) BeforeSave(tx *gorm.DB) error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	var count int64
	if err := tx.Model(&Resident{}).Where("email = ? AND id <> ?", r.Email, r.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return &DuplicateError{Field: "email", Value: r.Email}
	}
	return nil
}
