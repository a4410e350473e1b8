package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the wire format of Date values
const DateLayout = "2006-01-02"

var parseLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	DateLayout,
}

// ParseTime accepts the date and datetime forms sent by forms, CSV files and drivers
func ParseTime(s string) (time.Time, error) {
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// Date is a nullable calendar date, "YYYY-MM-DD" on the wire. The zero value is NULL.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// String renders the date or "" for NULL
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON implements json.Marshaler
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(data []byte) error {
	t, err := unmarshalTime(data)
	if err != nil {
		return err
	}
	if t.IsZero() {
		*d = Date{}
		return nil
	}
	*d = NewDate(t)
	return nil
}

// Scan implements sql.Scanner
func (d *Date) Scan(value interface{}) error {
	t, err := scanTime(value)
	if err != nil {
		return err
	}
	if t.IsZero() {
		*d = Date{}
		return nil
	}
	*d = NewDate(t)
	return nil
}

// Value implements driver.Valuer
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Time, nil
}

// GormDataType sets the column type
func (Date) GormDataType() string {
	return "date"
}

// DateTime is a nullable instant, RFC 3339 on the wire. The zero value is NULL.
type DateTime struct {
	time.Time
}

// NewDateTime wraps t in UTC
func NewDateTime(t time.Time) DateTime {
	return DateTime{Time: t.UTC()}
}

// MarshalJSON implements json.Marshaler
func (d DateTime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(time.RFC3339))
}

// UnmarshalJSON implements json.Unmarshaler
func (d *DateTime) UnmarshalJSON(data []byte) error {
	t, err := unmarshalTime(data)
	if err != nil {
		return err
	}
	*d = DateTime{Time: t}
	return nil
}

// Scan implements sql.Scanner
func (d *DateTime) Scan(value interface{}) error {
	t, err := scanTime(value)
	if err != nil {
		return err
	}
	*d = DateTime{Time: t}
	return nil
}

// Value implements driver.Valuer
func (d DateTime) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Time, nil
}

// GormDataType sets the column type
func (DateTime) GormDataType() string {
	return "datetime"
}

func unmarshalTime(data []byte) (time.Time, error) {
	if bytes.Equal(data, []byte("null")) {
		return time.Time{}, nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return time.Time{}, fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		return time.Time{}, nil
	}
	return ParseTime(s)
}

func scanTime(value interface{}) (time.Time, error) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return v.UTC(), nil
	case string:
		if v == "" {
			return time.Time{}, nil
		}
		return ParseTime(v)
	case []byte:
		if len(v) == 0 {
			return time.Time{}, nil
		}
		return ParseTime(string(v))
	default:
		return time.Time{}, fmt.Errorf("cannot scan %T into a date", value)
	}
}
