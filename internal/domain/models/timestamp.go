package models

import (
	"encoding/json"
	"time"

	"github.com/guttosm/quotepulse/internal/sanitize"
)

// Timestamp is an instant on a canonical record. It serializes in the same
// ISO-8601 form the sanitizer gives pass-through payloads, e.g.
// 2024-01-15T21:00:00.000Z.
type Timestamp time.Time

// Time returns t as a time.Time.
func (t Timestamp) Time() time.Time { return time.Time(t) }

// Unix returns t as epoch seconds.
func (t Timestamp) Unix() int64 { return time.Time(t).Unix() }

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(sanitize.ISO(time.Time(t)))
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return err
	}
	*t = Timestamp(parsed.UTC())
	return nil
}
