package models

import "github.com/shopspring/decimal"

// Event is a community gathering
type Event struct {
	BaseModel
	Title         string              `gorm:"type:varchar(200);not null" json:"title" validate:"required,max=200"`
	Description   string              `gorm:"type:text" json:"description"`
	Location      string              `gorm:"type:varchar(200)" json:"location"`
	EventDate     DateTime            `gorm:"not null;index" json:"event_date" validate:"required"`
	EndDate       DateTime            `json:"end_date"`
	MaxAttendees  *int                `json:"max_attendees" validate:"omitempty,min=1"`
	CostPerPerson decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"cost_per_person" validate:"omitempty,gte=0"`
	EventType     string              `gorm:"type:varchar(50)" json:"event_type"`
	Status        string              `gorm:"type:varchar(20);not null" json:"status" validate:"required,oneof=scheduled completed cancelled"`
	CreatedBy     string              `gorm:"type:varchar(100)" json:"created_by"`
}

// ApplyDefaults implements Defaulter
func (e *Event) ApplyDefaults() {
	if e.Status == "" {
		e.Status = "scheduled"
	}
}
