package models

// Vendor is a service provider referenced by invoices and maintenance requests
type Vendor struct {
	BaseModel
	Name          string `gorm:"type:varchar(100);not null;index" json:"name" validate:"required,max=100"`
	Email         string `gorm:"type:varchar(120)" json:"email" validate:"omitempty,email,max=120"`
	Phone         string `gorm:"type:varchar(20)" json:"phone" validate:"max=20"`
	Address       string `gorm:"type:text" json:"address"`
	Services      string `gorm:"type:text" json:"services"`
	ContactPerson string `gorm:"type:varchar(100)" json:"contact_person" validate:"max=100"`
}
