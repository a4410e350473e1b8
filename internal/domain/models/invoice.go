package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice is a vendor charge authorized by the administration
type Invoice struct {
	BaseModel
	InvoiceNumber    string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"invoice_number" validate:"required,max=50"`
	VendorID         uint            `gorm:"not null;index" json:"vendor_id" validate:"required"`
	Amount           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount" validate:"required,gt=0"`
	Reason           string          `gorm:"type:varchar(200);not null" json:"reason" validate:"required,max=200"`
	Description      string          `gorm:"type:text" json:"description"`
	Category         string          `gorm:"type:varchar(50)" json:"category"`
	AuthorizedBy     string          `gorm:"type:varchar(100);not null" json:"authorized_by" validate:"required,max=100"`
	AuthorizedAt     DateTime        `json:"authorized_at"`
	InvoiceDate      Date            `gorm:"index" json:"invoice_date"`
	DueDate          Date            `json:"due_date"`
	PaidDate         Date            `json:"paid_date"`
	Status           string          `gorm:"type:varchar(20);not null" json:"status" validate:"required,oneof=pending paid overdue"`
	PaymentMethod    string          `gorm:"type:varchar(50)" json:"payment_method"`
	PaymentReference string          `gorm:"type:varchar(100)" json:"payment_reference"`
	Notes            string          `gorm:"type:text" json:"notes"`
	Priority         string          `gorm:"type:varchar(20)" json:"priority" validate:"omitempty,oneof=low normal high urgent"`
	CreatedBy        string          `gorm:"type:varchar(100)" json:"created_by"`

	Vendor *Vendor `gorm:"foreignKey:VendorID" json:"-" validate:"-"`

	VendorName string `gorm:"-" json:"vendor_name"`
}

// ApplyDefaults implements Defaulter
func (i *Invoice) ApplyDefaults() {
	if i.Status == "" {
		i.Status = "pending"
	}
	if i.Priority == "" {
		i.Priority = "normal"
	}
	if i.InvoiceDate.IsZero() {
		i.InvoiceDate = NewDate(time.Now())
	}
	if i.AuthorizedAt.IsZero() {
		i.AuthorizedAt = NewDateTime(time.Now())
	}
}

// BeforeSave checks the vendor exists and the invoice number is unused
func (i *Invoice) BeforeSave(tx *gorm.DB) error {
	if err := requireRecord(tx, &Vendor{}, "vendor", i.VendorID); err != nil {
		return err
	}
	var count int64
	if err := tx.Model(&Invoice{}).Where("invoice_number = ? AND id <> ?", i.InvoiceNumber, i.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return &DuplicateError{Field: "invoice_number", Value: i.InvoiceNumber}
	}
	return nil
}

// AfterFind copies the vendor name
func (i *Invoice) AfterFind(tx *gorm.DB) error {
	if i.Vendor != nil {
		i.VendorName = i.Vendor.Name
	}
	return nil
}
