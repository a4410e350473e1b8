package screen

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/zYagamiBR/hoa-helper/internal/dashboard/apiclient"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04"
)

var validate = validator.New()

// Draft holds form input as typed: strings for every kind except
// checkboxes, which hold bools.
type Draft map[string]any

func (d Draft) clone() Draft {
	out := make(Draft, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Text returns the input of key as a string.
func (d Draft) Text(key string) string {
	switch v := d[key].(type) {
	case string:
		return v
	case nil:
		return ""
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// ValidationError lists the fields whose input cannot be submitted. The
// form stays open and no request is made.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + " " + e.Fields[k]
	}
	return strings.Join(parts, "; ")
}

// NewDraft seeds a create form from field defaults.
func NewDraft(fields []Field) Draft {
	draft := make(Draft, len(fields))
	for _, f := range fields {
		draft[f.Key] = defaultInput(f)
	}
	return draft
}

// DraftFrom seeds an edit form from record. Fields the record lacks, or
// holds as null, take their defaults.
func DraftFrom(fields []Field, record apiclient.Record) Draft {
	draft := make(Draft, len(fields))
	for _, f := range fields {
		value, ok := record[f.Key]
		if !ok || value == nil {
			draft[f.Key] = defaultInput(f)
			continue
		}
		switch f.Kind {
		case Checkbox:
			draft[f.Key] = Truthy(record, f.Key)
		case Date:
			if t, ok := Time(record, f.Key); ok {
				draft[f.Key] = t.Format(dateLayout)
			} else {
				draft[f.Key] = Value(record, f.Key)
			}
		case DateTime:
			if t, ok := Time(record, f.Key); ok {
				draft[f.Key] = t.UTC().Format(dateTimeLayout)
			} else {
				draft[f.Key] = Value(record, f.Key)
			}
		default:
			draft[f.Key] = Value(record, f.Key)
		}
	}
	return draft
}

func defaultInput(f Field) any {
	if f.Kind == Checkbox {
		b, _ := f.Default.(bool)
		return b
	}
	if f.Default == nil {
		return ""
	}
	return fmt.Sprint(f.Default)
}

// Payload converts a draft into the JSON body sent to the server. Empty
// number, integer, date and date-time inputs become null and integer inputs
// become numbers. Inputs that cannot be converted are reported together in
// a ValidationError.
func Payload(fields []Field, draft Draft) (map[string]any, error) {
	body := make(map[string]any, len(fields))
	problems := map[string]string{}

	for _, f := range fields {
		if f.Kind == Checkbox {
			switch v := draft[f.Key].(type) {
			case bool:
				body[f.Key] = v
			case string:
				body[f.Key] = v == "true" || v == "on"
			default:
				body[f.Key] = false
			}
			continue
		}

		raw := draft.Text(f.Key)
		text := strings.TrimSpace(raw)
		if text == "" {
			if f.Required {
				problems[f.Key] = "is required"
				continue
			}
			switch f.Kind {
			case Number, Integer, Date, DateTime:
				body[f.Key] = nil
			case Select:
				if f.Numeric {
					body[f.Key] = nil
				} else {
					body[f.Key] = ""
				}
			default:
				body[f.Key] = raw
			}
			continue
		}

		switch f.Kind {
		case Number:
			if _, err := decimal.NewFromString(text); err != nil {
				problems[f.Key] = "must be a number"
				continue
			}
			body[f.Key] = text
		case Integer:
			n, err := strconv.ParseInt(text, 10, 64)
			if err != nil {
				problems[f.Key] = "must be a whole number"
				continue
			}
			body[f.Key] = n
		case Date:
			if _, err := time.Parse(dateLayout, text); err != nil {
				problems[f.Key] = "must be a date (YYYY-MM-DD)"
				continue
			}
			body[f.Key] = text
		case DateTime:
			if _, err := time.Parse(dateTimeLayout, text); err != nil {
				problems[f.Key] = "must be a date and time (YYYY-MM-DDTHH:MM)"
				continue
			}
			body[f.Key] = text
		case Email:
			if err := validate.Var(text, "email"); err != nil {
				problems[f.Key] = "must be a valid email address"
				continue
			}
			body[f.Key] = text
		case Select:
			if len(f.Options) > 0 && !hasOption(f.Options, text) {
				problems[f.Key] = "is not one of the options"
				continue
			}
			if f.Numeric {
				n, err := strconv.ParseInt(text, 10, 64)
				if err != nil {
					problems[f.Key] = "must be a whole number"
					continue
				}
				body[f.Key] = n
				continue
			}
			body[f.Key] = text
		default:
			body[f.Key] = raw
		}
	}

	if len(problems) > 0 {
		return nil, &ValidationError{Fields: problems}
	}
	return body, nil
}

func hasOption(options []Option, value string) bool {
	for _, o := range options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// encode renders a payload for debug logs.
func encode(body map[string]any) string {
	data, _ := json.Marshal(body)
	return string(data)
}
