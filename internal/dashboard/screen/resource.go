// Package screen drives one entity screen of the dashboard: list fetch,
// local search and filters, summary stats, the create/edit form and
// confirmed deletes against a REST collection.
package screen

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zYagamiBR/hoa-helper/internal/dashboard/apiclient"
)

// Kind is the input kind of a form field.
type Kind string

const (
	Text     Kind = "text"
	TextArea Kind = "textarea"
	Email    Kind = "email"
	Tel      Kind = "tel"
	Number   Kind = "number"
	Integer  Kind = "integer"
	Date     Kind = "date"
	DateTime Kind = "datetime"
	Select   Kind = "select"
	Checkbox Kind = "checkbox"
)

// Option is one choice of a select field or filter. Label is a translation
// key.
type Option struct {
	Value string
	Label string
}

// OptionSource fills a select field from another collection when the
// screen opens.
type OptionSource struct {
	Path string
	// ValueKey defaults to "id".
	ValueKey string
	Label    func(apiclient.Record) string
}

// Field describes one form input.
type Field struct {
	Key      string
	Label    string
	Kind     Kind
	Required bool
	// Default seeds the draft on create and replaces missing values on edit.
	// Checkbox defaults are bools, everything else is a string.
	Default any
	Options []Option
	Source  *OptionSource
	// Numeric sends a select value as an integer.
	Numeric bool
	// Group names the form tab the field belongs to.
	Group string
}

// Filter is a dropdown that keeps records whose Key value equals the
// selection exactly.
type Filter struct {
	Key     string
	Label   string
	Options []Option
}

// Stat is a summary value derived from the full list.
type Stat struct {
	Name     string
	Label    string
	Currency bool
	Compute  func(records []apiclient.Record, now time.Time) decimal.Decimal
}

// Resource configures a screen for one REST collection.
type Resource struct {
	// Name is the collection name used by import and export, e.g. "bills".
	Name string
	// Path is the collection path relative to the API root, e.g. "/bills".
	Path    string
	Title   string
	Fields  []Field
	Search  []string
	Filters []Filter
	Stats   []Stat
	// ConfirmDelete is the translation key of the delete prompt.
	ConfirmDelete string
}

// Field returns the descriptor for key.
func (r Resource) Field(key string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Validate checks a descriptor for mistakes that would break the screen.
func (r Resource) Validate() error {
	if r.Name == "" || !strings.HasPrefix(r.Path, "/") {
		return fmt.Errorf("resource %q: name and a /path are required", r.Name)
	}
	seen := map[string]bool{}
	for _, f := range r.Fields {
		if f.Key == "" || seen[f.Key] {
			return fmt.Errorf("resource %s: empty or duplicate field %q", r.Name, f.Key)
		}
		seen[f.Key] = true
		if f.Kind == Select && len(f.Options) == 0 && f.Source == nil {
			return fmt.Errorf("resource %s: select %s has no options", r.Name, f.Key)
		}
	}
	return nil
}

// Value renders a record value as text: json numbers keep their literal,
// nil and missing values are empty.
func Value(record apiclient.Record, key string) string {
	switch v := record[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(v)
	}
}

// Amount reads a numeric record value. Missing or non-numeric values are
// zero.
func Amount(record apiclient.Record, key string) decimal.Decimal {
	text := strings.TrimSpace(Value(record, key))
	if text == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Truthy reports whether a record value is true, "true" or a non-zero
// number.
func Truthy(record apiclient.Record, key string) bool {
	switch v := record[key].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return !Amount(record, key).IsZero()
}

// Time reads a date or date-time record value.
func Time(record apiclient.Record, key string) (time.Time, bool) {
	text := Value(record, key)
	if text == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Count is a stat counting the records that match.
func Count(name, label string, match func(apiclient.Record) bool) Stat {
	return Stat{Name: name, Label: label, Compute: func(records []apiclient.Record, _ time.Time) decimal.Decimal {
		n := 0
		for _, r := range records {
			if match == nil || match(r) {
				n++
			}
		}
		return decimal.NewFromInt(int64(n))
	}}
}

// Sum is a currency stat adding key over the records that match.
func Sum(name, label, key string, match func(apiclient.Record) bool) Stat {
	return Stat{Name: name, Label: label, Currency: true, Compute: func(records []apiclient.Record, _ time.Time) decimal.Decimal {
		total := decimal.Zero
		for _, r := range records {
			if match == nil || match(r) {
				total = total.Add(Amount(r, key))
			}
		}
		return total
	}}
}

// Distinct is a stat counting the distinct non-empty values of key.
func Distinct(name, label, key string) Stat {
	return Stat{Name: name, Label: label, Compute: func(records []apiclient.Record, _ time.Time) decimal.Decimal {
		seen := map[string]bool{}
		for _, r := range records {
			if v := Value(r, key); v != "" {
				seen[v] = true
			}
		}
		return decimal.NewFromInt(int64(len(seen)))
	}}
}

// Is matches records whose key equals one of values.
func Is(key string, values ...string) func(apiclient.Record) bool {
	return func(r apiclient.Record) bool {
		v := Value(r, key)
		for _, want := range values {
			if v == want {
				return true
			}
		}
		return false
	}
}
