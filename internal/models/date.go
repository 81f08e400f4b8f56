package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates: "2006-01-02".
const DateLayout = "2006-01-02"

// Date is a calendar date with no time-of-day or zone.
// The zero value means "no date".
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a "2006-01-02" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("cannot parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the current local calendar date.
func Today() Date {
	return DateOf(time.Now())
}

// IsZero reports whether d is the zero date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(DateLayout)
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after o.
func (d Date) Compare(o Date) int {
	return d.Time().Compare(o.Time())
}

// Before reports whether d is strictly before o.
func (d Date) Before(o Date) bool {
	return d.Compare(o) < 0
}

// DaysSince returns the whole number of days from o to d (negative if o is later).
func (d Date) DaysSince(o Date) int {
	return int(d.Time().Sub(o.Time()).Hours() / 24)
}

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts "2006-01-02", a full RFC 3339 timestamp, "" or null.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == nil || *s == "" {
		*d = Date{}
		return nil
	}
	if parsed, err := ParseDate(*s); err == nil {
		*d = parsed
		return nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return fmt.Errorf("cannot parse date %q: %w", *s, err)
	}
	*d = DateOf(t)
	return nil
}
