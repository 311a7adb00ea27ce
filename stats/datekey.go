/*
datekey.go - Canonical calendar-day identity

PURPOSE:
  Every daily record is keyed by the calendar day it belongs to, never by a
  full timestamp. A DateKey is that identity: the UTC-midnight instant of a
  calendar day. Two inputs naming the same day - whatever their original
  format or timezone offset - normalize to an equal key.

NORMALIZATION RULE:
  The calendar day is taken from the date components AS WRITTEN in the input
  (i.e. in the input's own offset), then pinned to UTC midnight. So
  "2024-12-30T23:00:00+02:00" and "2024-12-30" both key to 2024-12-30.

RANGE QUERIES:
  RangeBounds widens the end date to 23:59:59.999 UTC so that a record dated
  anywhere within the end calendar day is included.

SEE ALSO:
  - store.go: DateRange used by RecordStore queries
  - seed.go: MondayOfWeek drives work-week seeding
*/
package stats

import (
	"fmt"
	"time"
)

// DateKey identifies one calendar day. The zero value is not a valid key.
type DateKey struct {
	t time.Time // always UTC midnight
}

// dateLayouts are the accepted string forms, tried in order. RFC3339 covers
// everything a JSON client or an ISO export produces; "02/01/2006" covers the
// day-first form used in the legacy workbook.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// NewDateKey builds a key directly from calendar components.
func NewDateKey(year int, month time.Month, day int) DateKey {
	return DateKey{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateKeyOf normalizes an already-parsed time to its calendar day.
// The day is read in t's own location, not after conversion to UTC.
func DateKeyOf(t time.Time) DateKey {
	y, m, d := t.Date()
	return NewDateKey(y, m, d)
}

// ParseDate normalizes a date string to its calendar day.
// Returns ErrInvalidDate (wrapped) when no accepted layout matches.
func ParseDate(input string) (DateKey, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, input); err == nil {
			return DateKeyOf(t), nil
		}
	}
	return DateKey{}, fmt.Errorf("%w: %q", ErrInvalidDate, input)
}

// Today returns the key for the current UTC calendar day.
func Today() DateKey {
	return DateKeyOf(time.Now().UTC())
}

// Time returns the UTC-midnight instant of the day.
func (k DateKey) Time() time.Time { return k.t }

// Comparison. Keys are equal iff their UTC-midnight instants are equal.
func (k DateKey) Equal(other DateKey) bool  { return k.t.Equal(other.t) }
func (k DateKey) Before(other DateKey) bool { return k.t.Before(other.t) }
func (k DateKey) After(other DateKey) bool  { return k.t.After(other.t) }

// AddDays returns the key n calendar days later (earlier if n is negative).
func (k DateKey) AddDays(n int) DateKey { return DateKey{t: k.t.AddDate(0, 0, n)} }

func (k DateKey) Weekday() time.Weekday { return k.t.Weekday() }
func (k DateKey) IsZero() bool          { return k.t.IsZero() }

func (k DateKey) String() string { return k.t.Format("2006-01-02") }

// DateRange is an inclusive calendar-day interval.
type DateRange struct {
	Start DateKey
	End   DateKey
}

// Bounds returns the instant pair covering the whole interval:
// start at 00:00:00.000 UTC, end at 23:59:59.999 UTC. A record dated
// anywhere within the end calendar day falls inside the bounds.
func (r DateRange) Bounds() (time.Time, time.Time) {
	start := r.Start.t
	end := r.End.t.Add(24*time.Hour - time.Millisecond)
	return start, end
}

// Contains reports whether day lies inside the interval.
func (r DateRange) Contains(day DateKey) bool {
	return !day.Before(r.Start) && !day.After(r.End)
}

// ParseDateRange normalizes a start/end string pair.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := ParseDate(start)
	if err != nil {
		return DateRange{}, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return DateRange{}, err
	}
	return DateRange{Start: s, End: e}, nil
}

// MondayOfWeek returns the Monday of the ISO week containing t, read as a
// UTC calendar day. Sunday maps to the previous Monday.
func MondayOfWeek(t time.Time) DateKey {
	day := DateKeyOf(t.UTC())
	offset := int(time.Monday - day.Weekday())
	if day.Weekday() == time.Sunday {
		offset = -6
	}
	return day.AddDays(offset)
}
