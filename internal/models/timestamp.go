package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// accepted input layouts, most specific first. Layouts without an offset are
// read as UTC.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseISOTime parses the ISO-8601 forms clients and legacy records use and
// normalises the result to UTC.
func ParseISOTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO-8601 timestamp %q", raw)
}

// ISOTime is a timestamp that tolerates both native datetimes and their
// string form, on the wire and from the store.
type ISOTime struct {
	time.Time
}

// NewISOTime wraps t normalised to UTC.
func NewISOTime(t time.Time) ISOTime {
	return ISOTime{Time: t.UTC()}
}

// Ptr returns the wrapped time as a pointer, nil for a nil receiver.
func (t *ISOTime) Ptr() *time.Time {
	if t == nil {
		return nil
	}
	v := t.Time
	return &v
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *ISOTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := ParseISOTime(raw)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t ISOTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.UTC().Format(time.RFC3339Nano))
}

// Scan implements sql.Scanner.
func (t *ISOTime) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v.UTC()
		return nil
	case string:
		parsed, err := ParseISOTime(v)
		if err != nil {
			return err
		}
		t.Time = parsed
		return nil
	case []byte:
		parsed, err := ParseISOTime(string(v))
		if err != nil {
			return err
		}
		t.Time = parsed
		return nil
	}
	return fmt.Errorf("cannot scan %T into ISOTime", src)
}

// Value implements driver.Valuer.
func (t ISOTime) Value() (driver.Value, error) {
	return t.Time.UTC(), nil
}

// NullableTime is a patch field that tells an absent key apart from an
// explicit null. Set is true whenever the key was present; Time is nil when
// the value was null.
type NullableTime struct {
	Set  bool
	Time *time.Time
}

// SetTime returns a present, non-null value.
func SetTime(t time.Time) NullableTime {
	v := t.UTC()
	return NullableTime{Set: true, Time: &v}
}

// ClearTime returns a present null value.
func ClearTime() NullableTime {
	return NullableTime{Set: true}
}

// UnmarshalJSON implements json.Unmarshaler. encoding/json calls it for an
// explicit null on a non-pointer field, which marks the value as a clear.
func (n *NullableTime) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(data, []byte("null")) {
		n.Time = nil
		return nil
	}
	var iso ISOTime
	if err := iso.UnmarshalJSON(data); err != nil {
		return err
	}
	n.Time = iso.Ptr()
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n NullableTime) MarshalJSON() ([]byte, error) {
	if n.Time == nil {
		return []byte("null"), nil
	}
	return NewISOTime(*n.Time).MarshalJSON()
}
