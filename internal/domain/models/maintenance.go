package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MaintenanceRequest is a work ticket
type MaintenanceRequest struct {
	BaseModel
	ResidentID    *uint               `gorm:"index" json:"resident_id"`
	VendorID      *uint               `gorm:"index" json:"vendor_id"`
	Title         string              `gorm:"type:varchar(200);not null" json:"title" validate:"required,max=200"`
	Description   string              `gorm:"type:text;not null" json:"description" validate:"required"`
	Location      string              `gorm:"type:varchar(100)" json:"location"`
	Priority      string              `gorm:"type:varchar(20);not null" json:"priority" validate:"required,oneof=low medium high"`
	Status        string              `gorm:"type:varchar(20);not null" json:"status" validate:"required,oneof=open pending in_progress completed"`
	Category      string              `gorm:"type:varchar(50)" json:"category"`
	EstimatedCost decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"estimated_cost" validate:"omitempty,gte=0"`
	ActualCost    decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"actual_cost" validate:"omitempty,gte=0"`
	ScheduledDate Date                `json:"scheduled_date"`
	CompletedDate Date                `json:"completed_date"`
}

// TableName keeps the table name short
func (MaintenanceRequest) TableName() string {
	return "maintenance_requests"
}

// ApplyDefaults implements Defaulter
func (m *MaintenanceRequest) ApplyDefaults() {
	if m.Priority == "" {
		m.Priority = "medium"
	}
	if m.Status == "" {
		m.Status = "open"
	}
}

// BeforeSave checks the optional resident and vendor exist
func (m *MaintenanceRequest) BeforeSave(tx *gorm.DB) error {
	if m.ResidentID != nil {
		if err := requireRecord(tx, &Resident{}, "resident", *m.ResidentID); err != nil {
			return err
		}
	}
	if m.VendorID != nil {
		if err := requireRecord(tx, &Vendor{}, "vendor", *m.VendorID); err != nil {
			return err
		}
	}
	return nil
}
