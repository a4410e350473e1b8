package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment is money received from a resident
type Payment struct {
	BaseModel
	ResidentID      uint            `gorm:"not null;index" json:"resident_id" validate:"required"`
	Amount          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount" validate:"required,gt=0"`
	PaymentType     string          `gorm:"type:varchar(50);not null" json:"payment_type" validate:"required,max=50"` // monthly_fee, special_assessment, fine...
	PaymentMethod   string          `gorm:"type:varchar(50)" json:"payment_method" validate:"omitempty,oneof=cash credit_card debit_card bank_transfer pix check"`
	Description     string          `gorm:"type:text" json:"description"`
	PaymentDate     DateTime        `json:"payment_date"`
	DueDate         Date            `json:"due_date"`
	Status          string          `gorm:"type:varchar(20);not null" json:"status" validate:"required,oneof=completed pending cancelled"`
	ReferenceNumber string          `gorm:"type:varchar(100)" json:"reference_number"`

	Resident *Resident `gorm:"foreignKey:ResidentID" json:"-" validate:"-"`

	ResidentName string `gorm:"-" json:"resident_name"`
	Building     int    `gorm:"-" json:"building"`
	Apartment    int    `gorm:"-" json:"apartment"`
}

// ApplyDefaults implements Defaulter
func (p *Payment) ApplyDefaults() {
	if p.Status == "" {
		p.Status = "completed"
	}
	if p.PaymentDate.IsZero() {
		p.PaymentDate = NewDateTime(time.Now())
	}
}

// BeforeSave checks the resident exists
func (p *Payment) BeforeSave(tx *gorm.DB) error {
	return requireRecord(tx, &Resident{}, "resident", p.ResidentID)
}

// AfterFind copies the resident's display fields
func (p *Payment) AfterFind(tx *gorm.DB) error {
	if p.Resident != nil {
		p.ResidentName = p.Resident.Name
		p.Building = p.Resident.Building
		p.Apartment = p.Resident.Apartment
	}
	return nil
}

func requireRecord(tx *gorm.DB, model interface{}, name string, id uint) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return &ReferenceError{Name: name, ID: id}
	}
	return nil
}
