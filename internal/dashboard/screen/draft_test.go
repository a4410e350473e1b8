package screen_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zYagamiBR/hoa-helper/internal/dashboard/apiclient"
	"github.com/zYagamiBR/hoa-helper/internal/dashboard/screen"
)

var formFields = []screen.Field{
	{Key: "name", Kind: screen.Text, Required: true},
	{Key: "notes", Kind: screen.TextArea},
	{Key: "amount", Kind: screen.Number},
	{Key: "count", Kind: screen.Integer},
	{Key: "day", Kind: screen.Date},
	{Key: "at", Kind: screen.DateTime},
	{Key: "email", Kind: screen.Email},
	{Key: "status", Kind: screen.Select, Default: "a", Options: []screen.Option{{Value: "a"}, {Value: "b"}}},
	{Key: "kind", Kind: screen.Select, Options: []screen.Option{{Value: "x"}}},
	{Key: "owner_id", Kind: screen.Select, Numeric: true, Source: &screen.OptionSource{Path: "/residents"}},
	{Key: "flag", Kind: screen.Checkbox},
}

func TestNewDraftUsesDefaults(t *testing.T) {
	draft := screen.NewDraft(formFields)
	assert.Equal(t, "", draft["name"])
	assert.Equal(t, "a", draft["status"])
	assert.Equal(t, false, draft["flag"])
	assert.Len(t, draft, len(formFields))
}

func TestPayloadEmptyOptionalInputs(t *testing.T) {
	draft := screen.NewDraft(formFields)
	draft["name"] = "Pool party"
	draft["status"] = ""

	body, err := screen.Payload(formFields, draft)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"name":     "Pool party",
		"notes":    "",
		"amount":   nil,
		"count":    nil,
		"day":      nil,
		"at":       nil,
		"email":    "",
		"status":   "",
		"kind":     "",
		"owner_id": nil,
		"flag":     false,
	}, body)
}

func TestPayloadConvertsInputs(t *testing.T) {
	draft := screen.Draft{
		"name":     "Pool party",
		"notes":    "  keep spaces ",
		"amount":   " 12.50 ",
		"count":    "3",
		"day":      "2024-05-01",
		"at":       "2024-05-01T10:30",
		"email":    "ana@example.com",
		"status":   "b",
		"kind":     "x",
		"owner_id": "7",
		"flag":     true,
	}

	body, err := screen.Payload(formFields, draft)
	require.NoError(t, err)
	assert.Equal(t, "  keep spaces ", body["notes"])
	assert.Equal(t, "12.50", body["amount"])
	assert.Equal(t, int64(3), body["count"])
	assert.Equal(t, "2024-05-01", body["day"])
	assert.Equal(t, "2024-05-01T10:30", body["at"])
	assert.Equal(t, "b", body["status"])
	assert.Equal(t, int64(7), body["owner_id"])
	assert.Equal(t, true, body["flag"])
}

func TestPayloadCheckboxFromText(t *testing.T) {
	fields := []screen.Field{{Key: "flag", Kind: screen.Checkbox}}
	for input, want := range map[string]bool{"true": true, "on": true, "false": false, "": false} {
		body, err := screen.Payload(fields, screen.Draft{"flag": input})
		require.NoError(t, err)
		assert.Equal(t, want, body["flag"], input)
	}
}

func TestPayloadReportsEveryInvalidField(t *testing.T) {
	draft := screen.Draft{
		"name":     " ",
		"amount":   "abc",
		"count":    "1.5",
		"day":      "01/05/2024",
		"at":       "2024-05-01",
		"email":    "nope",
		"status":   "c",
		"owner_id": "seven",
	}

	body, err := screen.Payload(formFields, draft)
	assert.Nil(t, body)
	var verr *screen.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{
		"name":     "is required",
		"amount":   "must be a number",
		"count":    "must be a whole number",
		"day":      "must be a date (YYYY-MM-DD)",
		"at":       "must be a date and time (YYYY-MM-DDTHH:MM)",
		"email":    "must be a valid email address",
		"status":   "is not one of the options",
		"owner_id": "must be a whole number",
	}, verr.Fields)
	assert.Contains(t, err.Error(), "amount must be a number")
}

func TestDraftFromRecord(t *testing.T) {
	record := apiclient.Record{
		"id":       json.Number("4"),
		"name":     "Pool party",
		"amount":   json.Number("12.5"),
		"count":    json.Number("3"),
		"day":      "2024-05-01T00:00:00Z",
		"at":       "2024-05-01T10:30:00-03:00",
		"status":   nil,
		"owner_id": json.Number("7"),
		"flag":     true,
	}

	draft := screen.DraftFrom(formFields, record)
	assert.Equal(t, "Pool party", draft["name"])
	assert.Equal(t, "12.5", draft["amount"])
	assert.Equal(t, "3", draft["count"])
	assert.Equal(t, "2024-05-01", draft["day"])
	assert.Equal(t, "2024-05-01T13:30", draft["at"])
	assert.Equal(t, "a", draft["status"])
	assert.Equal(t, "", draft["notes"])
	assert.Equal(t, "7", draft["owner_id"])
	assert.Equal(t, true, draft["flag"])
	assert.NotContains(t, draft, "id")
}

func TestDraftRoundTripsThroughPayload(t *testing.T) {
	record := apiclient.Record{
		"name":  "Pool party",
		"count": json.Number("3"),
		"day":   "2024-05-01",
		"flag":  false,
	}
	body, err := screen.Payload(formFields, screen.DraftFrom(formFields, record))
	require.NoError(t, err)
	assert.Equal(t, int64(3), body["count"])
	assert.Equal(t, "2024-05-01", body["day"])
	assert.Equal(t, "a", body["status"])
}
