package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/zYagamiBR/hoa-helper/internal/domain/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// nil makes required fail and omitempty skip
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		switch value := field.Interface().(type) {
		case decimal.Decimal:
			if value.IsZero() {
				return nil
			}
			f, _ := value.Float64()
			return f
		case decimal.NullDecimal:
			if !value.Valid {
				return nil
			}
			f, _ := value.Decimal.Float64()
			return f
		case models.Date:
			if value.IsZero() {
				return nil
			}
			return value.Time
		case models.DateTime:
			if value.IsZero() {
				return nil
			}
			return value.Time
		}
		return nil
	}, decimal.Decimal{}, decimal.NullDecimal{}, models.Date{}, models.DateTime{})
	return v
}

// ValidationError carries a message safe to show to the client
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks the struct tags of record
func Validate(record interface{}) error {
	err := validate.Struct(record)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return &ValidationError{Message: err.Error()}
	}
	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		messages = append(messages, fieldMessage(fe))
	}
	return &ValidationError{Message: strings.Join(messages, "; ")}
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(strings.Fields(fe.Param()), ", "))
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

// decodeBody unmarshals a JSON body onto record, turning decode failures into ValidationError
func decodeBody(body []byte, record interface{}) error {
	if len(strings.TrimSpace(string(body))) == 0 {
		return &ValidationError{Message: "request body is empty"}
	}
	if err := json.Unmarshal(body, record); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return &ValidationError{Message: fmt.Sprintf("invalid value for %s", typeErr.Field)}
		}
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return &ValidationError{Message: "malformed JSON body"}
		}
		return &ValidationError{Message: err.Error()}
	}
	return nil
}
