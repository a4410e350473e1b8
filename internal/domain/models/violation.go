package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Violation is a recorded breach of the HOA rules
type Violation struct {
	BaseModel
	ResidentID    *uint               `gorm:"index" json:"resident_id"`
	ViolationType string              `gorm:"type:varchar(100);not null" json:"violation_type" validate:"required,max=100"`
	Description   string              `gorm:"type:text;not null" json:"description" validate:"required"`
	Location      string              `gorm:"type:varchar(200)" json:"location"`
	Severity      string              `gorm:"type:varchar(20);not null" json:"severity" validate:"required,oneof=low medium high"`
	Status        string              `gorm:"type:varchar(20);not null" json:"status" validate:"required,oneof=open pending in_progress resolved closed"`
	ReportedBy    string              `gorm:"type:varchar(100)" json:"reported_by"`
	ReportedDate  DateTime            `json:"reported_date"`
	ResolvedDate  DateTime            `json:"resolved_date"`
	FineAmount    decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"fine_amount" validate:"omitempty,gte=0"`
	FinePaid      bool                `json:"fine_paid"`
	Notes         string              `gorm:"type:text" json:"notes"`

	Resident *Resident `gorm:"foreignKey:ResidentID" json:"-" validate:"-"`

	ResidentName string `gorm:"-" json:"resident_name"`
}

// ApplyDefaults implements Defaulter
func (v *Violation) ApplyDefaults() {
	if v.Severity == "" {
		v.Severity = "medium"
	}
	if v.Status == "" {
		v.Status = "open"
	}
	if v.ReportedDate.IsZero() {
		v.ReportedDate = NewDateTime(time.Now())
	}
}

// BeforeSave checks the optional resident exists
func (v *Violation) BeforeSave(tx *gorm.DB) error {
	if v.ResidentID == nil {
		return nil
	}
	return requireRecord(tx, &Resident{}, "resident", *v.ResidentID)
}

// AfterFind copies the resident name
func (v *Violation) AfterFind(tx *gorm.DB) error {
	if v.Resident != nil {
		v.ResidentName = v.Resident.Name
	}
	return nil
}
