package screen_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/zYagamiBR/hoa-helper/internal/dashboard/apiclient"
	"github.com/zYagamiBR/hoa-helper/internal/dashboard/screen"
)

func TestValue(t *testing.T) {
	record := apiclient.Record{
		"s": "text",
		"n": json.Number("10.50"),
		"b": true,
		"f": false,
		"z": nil,
		"i": 3,
	}
	assert.Equal(t, "text", screen.Value(record, "s"))
	assert.Equal(t, "10.50", screen.Value(record, "n"))
	assert.Equal(t, "true", screen.Value(record, "b"))
	assert.Equal(t, "false", screen.Value(record, "f"))
	assert.Equal(t, "", screen.Value(record, "z"))
	assert.Equal(t, "", screen.Value(record, "missing"))
	assert.Equal(t, "3", screen.Value(record, "i"))
}

func TestAmountTreatsNonNumbersAsZero(t *testing.T) {
	record := apiclient.Record{"a": "10.00", "b": json.Number("5"), "c": nil, "d": "n/a"}
	assert.True(t, screen.Amount(record, "a").Equal(decimal.NewFromInt(10)))
	assert.True(t, screen.Amount(record, "b").Equal(decimal.NewFromInt(5)))
	assert.True(t, screen.Amount(record, "c").IsZero())
	assert.True(t, screen.Amount(record, "d").IsZero())
	assert.True(t, screen.Amount(record, "missing").IsZero())
}

func TestTruthy(t *testing.T) {
	record := apiclient.Record{"a": true, "b": "true", "c": json.Number("1"), "d": json.Number("0"), "e": "no"}
	assert.True(t, screen.Truthy(record, "a"))
	assert.True(t, screen.Truthy(record, "b"))
	assert.True(t, screen.Truthy(record, "c"))
	assert.False(t, screen.Truthy(record, "d"))
	assert.False(t, screen.Truthy(record, "e"))
	assert.False(t, screen.Truthy(record, "missing"))
}

func TestTime(t *testing.T) {
	tests := map[string]time.Time{
		"2024-05-01T10:30:00Z":      time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
		"2024-05-01T10:30:00":       time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
		"2024-05-01T10:30":          time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
		"2024-05-01":                time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		"2024-05-01T10:30:00+00:00": time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
	}
	for text, want := range tests {
		got, ok := screen.Time(apiclient.Record{"d": text}, "d")
		assert.True(t, ok, text)
		assert.True(t, want.Equal(got), text)
	}
	_, ok := screen.Time(apiclient.Record{"d": "May 1st"}, "d")
	assert.False(t, ok)
	_, ok = screen.Time(apiclient.Record{}, "d")
	assert.False(t, ok)
}

func TestStatHelpers(t *testing.T) {
	records := []apiclient.Record{
		{"amount": "10.00", "status": "paid", "building": json.Number("1")},
		{"amount": nil, "status": "pending", "building": json.Number("1")},
		{"amount": "5", "status": "paid", "building": json.Number("2")},
		{"amount": "2.25", "status": "overdue"},
	}
	now := time.Now()

	assert.Equal(t, "4", screen.Count("all", "", nil).Compute(records, now).String())
	assert.Equal(t, "2", screen.Count("paid", "", screen.Is("status", "paid")).Compute(records, now).String())
	assert.Equal(t, "2", screen.Count("open", "", screen.Is("status", "pending", "overdue")).Compute(records, now).String())

	sum := screen.Sum("total", "", "amount", nil)
	assert.True(t, sum.Currency)
	assert.Equal(t, "17.25", sum.Compute(records, now).StringFixed(2))
	assert.Equal(t, "15.00", screen.Sum("paid", "", "amount", screen.Is("status", "paid")).Compute(records, now).StringFixed(2))

	assert.Equal(t, "2", screen.Distinct("buildings", "", "building").Compute(records, now).String())
}

func TestResourceValidate(t *testing.T) {
	valid := screen.Resource{
		Name: "notes",
		Path: "/notes",
		Fields: []screen.Field{
			{Key: "title", Kind: screen.Text},
			{Key: "owner", Kind: screen.Select, Source: &screen.OptionSource{Path: "/residents"}},
		},
	}
	assert.NoError(t, valid.Validate())

	noPath := valid
	noPath.Path = "notes"
	assert.Error(t, noPath.Validate())

	dup := valid
	dup.Fields = []screen.Field{{Key: "title"}, {Key: "title"}}
	assert.Error(t, dup.Validate())

	bareSelect := valid
	bareSelect.Fields = []screen.Field{{Key: "status", Kind: screen.Select}}
	assert.Error(t, bareSelect.Validate())

	f, ok := valid.Field("owner")
	assert.True(t, ok)
	assert.Equal(t, "/residents", f.Source.Path)
	_, ok = valid.Field("missing")
	assert.False(t, ok)
}
