package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zYagamiBR/hoa-helper/internal/domain/models"
)

var (
	// ErrNotFound is returned when the requested record does not exist
	ErrNotFound = errors.New("record not found")
	// ErrInUse is returned when a record cannot be deleted because others reference it
	ErrInUse = errors.New("record is referenced by other records")
)

// NotFoundError names the missing record. It matches ErrNotFound.
type NotFoundError struct {
	Label string
	ID    uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Label, e.ID)
}

// Is implements errors.Is
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// InterfaceResourceService is the REST collection contract shared by every entity
type InterfaceResourceService interface {
	Name() string
	List(ctx context.Context) (interface{}, error)
	Get(ctx context.Context, id uint) (interface{}, error)
	Create(ctx context.Context, body []byte) (interface{}, error)
	Update(ctx context.Context, id uint, body []byte) (interface{}, error)
	Delete(ctx context.Context, id uint) error
}

// ResourceService implements InterfaceResourceService for one gorm model
type ResourceService[T any] struct {
	DB       *gorm.DB
	name     string
	label    string
	preloads []string
	log      *zap.Logger
}

// NewResourceService creates the service for the collection name. label names a
// single record in error messages, preloads fill derived display fields.
func NewResourceService[T any](db *gorm.DB, name, label string, log *zap.Logger, preloads ...string) *ResourceService[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &ResourceService[T]{
		DB:       db,
		name:     name,
		label:    label,
		preloads: preloads,
		log:      log.With(zap.String("resource", name)),
	}
}

// Name returns the collection name
func (s *ResourceService[T]) Name() string {
	return s.name
}

func (s *ResourceService[T]) query(ctx context.Context) *gorm.DB {
	db := s.DB.WithContext(ctx)
	for _, p := range s.preloads {
		db = db.Preload(p)
	}
	return db
}

// 1 ListRecords returns every record ordered by id
func (s *ResourceService[T]) ListRecords(ctx context.Context) ([]T, error) {
	records := make([]T, 0)
	if err := s.query(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// List implements InterfaceResourceService
func (s *ResourceService[T]) List(ctx context.Context) (interface{}, error) {
	return s.ListRecords(ctx)
}

// 2 GetRecord returns one record with its derived fields
func (s *ResourceService[T]) GetRecord(ctx context.Context, id uint) (*T, error) {
	record := new(T)
	if err := s.query(ctx).First(record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Label: s.label, ID: id}
		}
		return nil, err
	}
	return record, nil
}

// Get implements InterfaceResourceService
func (s *ResourceService[T]) Get(ctx context.Context, id uint) (interface{}, error) {
	return s.GetRecord(ctx, id)
}

// 3 CreateRecord applies defaults, validates and inserts record
func (s *ResourceService[T]) CreateRecord(ctx context.Context, record *T) (*T, error) {
	if d, ok := any(record).(models.Defaulter); ok {
		d.ApplyDefaults()
	}
	if err := Validate(record); err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Omit(clause.Associations).Create(record).Error; err != nil {
		return nil, s.translate(err)
	}
	id := any(record).(models.Identified).GetID()
	s.log.Info("record created", zap.Uint("id", id))
	return s.GetRecord(ctx, id)
}

// Create implements InterfaceResourceService
func (s *ResourceService[T]) Create(ctx context.Context, body []byte) (interface{}, error) {
	record := new(T)
	if err := decodeBody(body, record); err != nil {
		return nil, err
	}
	return s.CreateRecord(ctx, record)
}

// 4 Update merges body onto the stored record, validates and saves it
func (s *ResourceService[T]) Update(ctx context.Context, id uint, body []byte) (interface{}, error) {
	record := new(T)
	if err := s.DB.WithContext(ctx).First(record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Label: s.label, ID: id}
		}
		return nil, err
	}
	identified := any(record).(models.Identified)
	base := identified.GetBase()
	if err := decodeBody(body, record); err != nil {
		return nil, err
	}
	identified.SetBase(base)

	if err := Validate(record); err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Omit(clause.Associations).Save(record).Error; err != nil {
		return nil, s.translate(err)
	}
	s.log.Info("record updated", zap.Uint("id", id))
	return s.GetRecord(ctx, id)
}

// 5 Delete removes the record
func (s *ResourceService[T]) Delete(ctx context.Context, id uint) error {
	result := s.DB.WithContext(ctx).Delete(new(T), id)
	if result.Error != nil {
		return s.translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return &NotFoundError{Label: s.label, ID: id}
	}
	s.log.Info("record deleted", zap.Uint("id", id))
	return nil
}

func (s *ResourceService[T]) translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s already exists", models.ErrDuplicate, s.label)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %s", ErrInUse, s.label)
	default:
		return err
	}
}
