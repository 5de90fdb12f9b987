package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseISOTimeLayouts(t *testing.T) {
	want := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
	cases := map[string]string{
		"rfc3339 utc":    "2024-03-15T09:30:00Z",
		"rfc3339 offset": "2024-03-15T15:00:00+05:30",
		"fractional":     "2024-03-15T09:30:00.000000+00:00",
		"naive":          "2024-03-15T09:30:00",
		"naive minutes":  "2024-03-15T09:30",
		"space":          "2024-03-15 09:30:00",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := ParseISOTime(raw)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}

	day, err := ParseISOTime("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), day)

	_, err = ParseISOTime("15/03/2024")
	assert.Error(t, err)
}

func TestISOTimeJSON(t *testing.T) {
	var payload struct {
		Due  *ISOTime `json:"due"`
		Skip *ISOTime `json:"skip"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"due":"2024-03-15T09:30:00+02:00","skip":null}`), &payload))
	require.NotNil(t, payload.Due)
	assert.Nil(t, payload.Skip)
	assert.Equal(t, 7, payload.Due.Hour())

	out, err := json.Marshal(payload.Due)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-15T07:30:00Z"`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"due":1710495000}`), &payload))
}

func TestISOTimeScan(t *testing.T) {
	native := time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("IST", 19800))
	var ts ISOTime
	require.NoError(t, ts.Scan(native))
	assert.True(t, native.Equal(ts.Time))
	assert.Equal(t, time.UTC, ts.Location())

	require.NoError(t, ts.Scan([]byte("2024-01-02T03:04:05Z")))
	assert.Equal(t, 3, ts.Hour())

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}

func TestNullableTimeDistinguishesAbsentFromNull(t *testing.T) {
	var payload struct {
		Absent  NullableTime `json:"absent"`
		Cleared NullableTime `json:"cleared"`
		Moved   NullableTime `json:"moved"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"cleared":null,"moved":"2024-04-01"}`), &payload))

	assert.False(t, payload.Absent.Set)
	assert.True(t, payload.Cleared.Set)
	assert.Nil(t, payload.Cleared.Time)
	assert.True(t, payload.Moved.Set)
	require.NotNil(t, payload.Moved.Time)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), *payload.Moved.Time)

	assert.Error(t, json.Unmarshal([]byte(`{"moved":"tomorrow"}`), &payload))

	out, err := json.Marshal(ClearTime())
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}
