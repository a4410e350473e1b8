package models

import "time"

// ReportGeneration records one generated report file
type ReportGeneration struct {
	BaseModel
	TemplateName string    `gorm:"type:varchar(50);not null;index" json:"template_name"`
	Year         int       `json:"year"`
	Month        int       `json:"month,omitempty"`
	Quarter      int       `json:"quarter,omitempty"`
	GeneratedBy  string    `gorm:"type:varchar(100)" json:"generated_by"`
	GeneratedAt  time.Time `gorm:"index" json:"generated_at"`
	PeriodStart  Date      `json:"period_start"`
	PeriodEnd    Date      `json:"period_end"`
	FileName     string    `gorm:"type:varchar(255);not null" json:"file_name"`
	FilePath     string    `gorm:"type:varchar(500);not null" json:"-"`
	FileSize     int64     `json:"file_size"`
	Status       string    `gorm:"type:varchar(20);not null" json:"status"` // generated, failed
}
