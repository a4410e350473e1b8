package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Associate is an HOA employee
type Associate struct {
	BaseModel

	// Personal
	Name          string `gorm:"type:varchar(100);not null" json:"name" validate:"required,max=100"`
	Email         string `gorm:"type:varchar(120);index" json:"email" validate:"omitempty,email,max=120"`
	Phone         string `gorm:"type:varchar(20)" json:"phone" validate:"max=20"`
	Mobile        string `gorm:"type:varchar(20)" json:"mobile" validate:"max=20"`
	Address       string `gorm:"type:text" json:"address"`
	City          string `gorm:"type:varchar(100)" json:"city"`
	State         string `gorm:"type:varchar(50)" json:"state"`
	ZipCode       string `gorm:"type:varchar(20)" json:"zip_code"`
	BirthDate     Date   `json:"birth_date"`
	CPF           string `gorm:"column:cpf;type:varchar(14);index" json:"cpf" validate:"max=14"`
	RG            string `gorm:"column:rg;type:varchar(20)" json:"rg"`
	Nationality   string `gorm:"type:varchar(50)" json:"nationality"`
	MaritalStatus string `gorm:"type:varchar(20)" json:"marital_status"`

	// Employment
	EmployeeID   string `gorm:"type:varchar(20);index" json:"employee_id"`
	Department   string `gorm:"type:varchar(50);not null" json:"department" validate:"required"` // Cleaning, HOA, Gardening, Maintenance, Doorman
	WorkArea     string `gorm:"type:varchar(50);not null" json:"work_area" validate:"required"`  // HOA, Club, Buildings, Mixed
	Position     string `gorm:"type:varchar(100)" json:"position"`
	HireDate     Date   `json:"hire_date"`
	ContractType string `gorm:"type:varchar(50)" json:"contract_type"`
	WorkSchedule string `gorm:"type:varchar(100)" json:"work_schedule"`
	Status       string `gorm:"type:varchar(20)" json:"status" validate:"omitempty,oneof=Active Inactive 'On Leave' Terminated"`

	// Financial
	MonthlySalary decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"monthly_salary" validate:"omitempty,gte=0"`
	PaymentMethod string              `gorm:"type:varchar(50)" json:"payment_method"`
	BankName      string              `gorm:"type:varchar(100)" json:"bank_name"`
	BankAccount   string              `gorm:"type:varchar(50)" json:"bank_account"`
	BankAgency    string              `gorm:"type:varchar(20)" json:"bank_agency"`
	PixKey        string              `gorm:"type:varchar(100)" json:"pix_key"`

	// Emergency contact
	EmergencyContactName         string `gorm:"type:varchar(100)" json:"emergency_contact_name"`
	EmergencyContactRelationship string `gorm:"type:varchar(50)" json:"emergency_contact_relationship"`
	EmergencyContactPhone        string `gorm:"type:varchar(20)" json:"emergency_contact_phone"`
	EmergencyContactAddress      string `gorm:"type:text" json:"emergency_contact_address"`

	// Additional
	EducationLevel     string `gorm:"type:varchar(50)" json:"education_level"`
	Certifications     string `gorm:"type:text" json:"certifications"`
	Skills             string `gorm:"type:text" json:"skills"`
	Languages          string `gorm:"type:varchar(200)" json:"languages"`
	DocumentsNotes     string `gorm:"type:text" json:"documents_notes"`
	LastEvaluationDate Date   `json:"last_evaluation_date"`
	PerformanceRating  string `gorm:"type:varchar(20)" json:"performance_rating"`
	Notes              string `gorm:"type:text" json:"notes"`
	CreatedBy          string `gorm:"type:varchar(100)" json:"created_by"`
}

// ApplyDefaults implements Defaulter
func (a *Associate) ApplyDefaults() {
	if a.Status == "" {
		a.Status = "Active"
	}
}

// BeforeSave keeps email, CPF and employee id unique when present
func (a *Associate) BeforeSave(tx *gorm.DB) error {
	unique := map[string]string{"email": a.Email, "cpf": a.CPF, "employee_id": a.EmployeeID}
	for _, column := range []string{"email", "cpf", "employee_id"} {
		value := unique[column]
		if value == "" {
			continue
		}
		var count int64
		if err := tx.Model(&Associate{}).Where(column+" = ? AND id <> ?", value, a.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return &DuplicateError{Field: column, Value: value}
		}
	}
	return nil
}
