package membership

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// flexDateLayouts are tried in order. Forms send a plain date picker value,
// API clients send RFC 3339.
var flexDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// FlexDate is a calendar date sent either as "2006-01-02" or as an RFC 3339
// timestamp. Date-only values are taken as midnight UTC.
type FlexDate struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler
func (d *FlexDate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range flexDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("invalid date %q: want YYYY-MM-DD or RFC 3339", s)
}

// MarshalJSON writes the RFC 3339 form
func (d FlexDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time)
}

// TimePtr returns nil for a missing or empty date
func (d *FlexDate) TimePtr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}
