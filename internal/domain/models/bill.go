package models

import "github.com/shopspring/decimal"

// BillCategories are the accepted bill categories
var BillCategories = []string{
	"utilities", "insurance", "maintenance", "security", "cleaning", "landscaping",
	"elevator", "internet", "legal", "accounting", "other",
}

// BillFrequencies are the accepted recurrence periods
var BillFrequencies = []string{"monthly", "quarterly", "semi-annual", "yearly"}

// Bill is a recurring expense
type Bill struct {
	BaseModel
	Title         string          `gorm:"type:varchar(200);not null" json:"title" validate:"required,max=200"`
	Description   string          `gorm:"type:text" json:"description"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount" validate:"required,gt=0"`
	VendorName    string          `gorm:"type:varchar(100);not null" json:"vendor_name" validate:"required,max=100"`
	Category      string          `gorm:"type:varchar(50);not null" json:"category" validate:"required,oneof=utilities insurance maintenance security cleaning landscaping elevator internet legal accounting other"`
	Frequency     string          `gorm:"type:varchar(20);not null" json:"frequency" validate:"required,oneof=monthly quarterly semi-annual yearly"`
	DueDay        int             `json:"due_day" validate:"omitempty,min=1,max=31"`
	Status        string          `gorm:"type:varchar(20);not null" json:"status" validate:"required,oneof=active inactive suspended"`
	AutoPay       bool            `json:"auto_pay"`
	PaymentMethod string          `gorm:"type:varchar(50)" json:"payment_method"`
	AccountNumber string          `gorm:"type:varchar(100)" json:"account_number"`
	Notes         string          `gorm:"type:text" json:"notes"`
}

// ApplyDefaults implements Defaulter
func (b *Bill) ApplyDefaults() {
	if b.Status == "" {
		b.Status = "active"
	}
}
