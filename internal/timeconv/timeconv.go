// Package timeconv converts export timestamps recorded at a fixed UTC offset
// into UTC.
package timeconv

import (
	"fmt"
	"time"

	"github.com/avivsinai/chatsplit/internal/export"
)

// PakistanOffset is the offset of Pakistan Standard Time, the zone the
// exports were originally recorded in.
const PakistanOffset = 5 * time.Hour

// ToUTC interprets value (YYYY-MM-DDTHH:MM:SS, no zone) at the given offset
// from UTC and returns the same instant in UTC, in the same layout.
func ToUTC(value string, offset time.Duration) (string, error) {
	if offset%time.Second != 0 {
		return "", fmt.Errorf("offset %v is not a whole number of seconds", offset)
	}
	zone := time.FixedZone("", int(offset/time.Second))
	t, err := time.ParseInLocation(export.DateLayout, value, zone)
	if err != nil {
		return "", fmt.Errorf("invalid timestamp %q: %w", value, err)
	}
	return t.UTC().Format(export.DateLayout), nil
}
