package entity

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Timestamp accepts both RFC 3339 values and the zone-less local date-times
// the attendance backend emits (2024-05-01T06:58:12.123).
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// UnmarshalJSON implements json.Unmarshaler
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		t.Time = time.Time{}

		return nil
	}

	for _, layout := range timestampLayouts {
		if parsed, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			t.Time = parsed

			return nil
		}
	}

	return errors.Errorf("unsupported timestamp %q", raw)
}

// MarshalJSON implements json.Marshaler
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}

	return []byte(`"` + t.Format(time.RFC3339Nano) + `"`), nil
}
