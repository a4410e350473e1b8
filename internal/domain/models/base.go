package models

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrDuplicate reports a unique value already used by another record.
	ErrDuplicate = errors.New("duplicate value")
	// ErrReferenceNotFound reports a foreign key pointing at a missing record.
	ErrReferenceNotFound = errors.New("referenced record not found")
)

// DuplicateError names the unique field that collided. It matches ErrDuplicate.
type DuplicateError struct {
	Field string
	Value string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s %s is already registered", e.Field, e.Value)
}

// Is implements errors.Is
func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

// ReferenceError names the missing referenced record. It matches ErrReferenceNotFound.
type ReferenceError struct {
	Name string
	ID   uint
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Name, e.ID)
}

// Is implements errors.Is
func (e *ReferenceError) Is(target error) bool {
	return target == ErrReferenceNotFound
}

// BaseModel holds the identity and timestamps shared by every table
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetID returns the primary key
func (m BaseModel) GetID() uint {
	return m.ID
}

// GetBase returns a copy of the identity fields
func (m BaseModel) GetBase() BaseModel {
	return m
}

// SetBase restores identity fields overwritten by a decoded body
func (m *BaseModel) SetBase(base BaseModel) {
	*m = base
}

// Identified is implemented by every model pointer through BaseModel
type Identified interface {
	GetID() uint
	GetBase() BaseModel
	SetBase(BaseModel)
}

// Defaulter fills default values before a record is created
type Defaulter interface {
	ApplyDefaults()
}

// All lists every model in migration order
func All() []interface{} {
	return []interface{}{
		&Resident{},
		&Vendor{},
		&Associate{},
		&Payment{},
		&Invoice{},
		&Bill{},
		&MaintenanceRequest{},
		&Event{},
		&Violation{},
		&ReportGeneration{},
	}
}
