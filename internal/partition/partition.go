// Package partition splits an ordered message stream into contiguous
// calendar-day buckets of a fixed width.
package partition

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"
	"time"

	"github.com/avivsinai/chatsplit/internal/export"
)

// DayLayout formats bucket bounds and names.
const DayLayout = "2006-01-02"

// DefaultPeriodDays is the bucket width when none is configured.
const DefaultPeriodDays = 7

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrEmptyInput           = errors.New("empty input")
)

// Bucket is a closed date range [Start, End] and the messages dated inside it.
type Bucket struct {
	Start    time.Time
	End      time.Time
	Messages []export.Message
}

func newBucket(start time.Time, periodDays int) Bucket {
	return Bucket{
		Start: start,
		End:   start.AddDate(0, 0, periodDays-1),
	}
}

// Name is "<start> - <end>", used for the bucket's directory and file.
func (b Bucket) Name() string {
	return b.Start.Format(DayLayout) + " - " + b.End.Format(DayLayout)
}

// Contains reports whether day falls inside the bucket, bounds inclusive.
func (b Bucket) Contains(day time.Time) bool {
	return !day.Before(b.Start) && !day.After(b.End)
}

// ValidatePeriod rejects non-positive bucket widths.
func ValidatePeriod(days int) error {
	if days < 1 {
		return fmt.Errorf("%w: period must be a positive number of days, got %d", ErrInvalidConfiguration, days)
	}
	return nil
}

// ParsePeriod parses a user-supplied bucket width.
func ParsePeriod(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: period is empty", ErrInvalidConfiguration)
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: period %q is not a whole number", ErrInvalidConfiguration, raw)
	}
	if err := ValidatePeriod(days); err != nil {
		return 0, err
	}
	return days, nil
}

// Partition validates its inputs and returns a lazy sequence of buckets.
//
// The first bucket starts on the first message's day. A message whose day is
// after the open bucket's End closes that bucket and opens a new one starting
// on its own day; a message dated exactly End stays in the closing bucket.
// The last open bucket is always yielded. Messages must be sorted ascending.
func Partition(msgs []export.Message, periodDays int) (iter.Seq[Bucket], error) {
	if err := ValidatePeriod(periodDays); err != nil {
		return nil, err
	}
	if len(msgs) == 0 {
		return nil, fmt.Errorf("%w: conversation has no messages", ErrEmptyInput)
	}
	return func(yield func(Bucket) bool) {
		current := newBucket(msgs[0].Day(), periodDays)
		for _, msg := range msgs {
			day := msg.Day()
			if day.After(current.End) {
				if !yield(current) {
					return
				}
				current = newBucket(day, periodDays)
			}
			current.Messages = append(current.Messages, msg)
		}
		yield(current)
	}, nil
}
