// Package timeutil holds the wall-clock helpers the engine uses to move
// between "HH:MM on a given day" and absolute timestamps. Date strings
// are always the local calendar date: using the UTC date here caused
// off-by-one-day behavior near midnight in non-UTC timezones.
package timeutil

import (
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// ParseClock resolves an "HH:MM" wall-clock string to an absolute
// timestamp on the given date in loc.
func ParseClock(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	day, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("timeutil: parse date %q: %w", date, err)
	}
	hm, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("timeutil: parse clock %q: %w", clock, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hm.Hour(), hm.Minute(), 0, 0, loc), nil
}

// FormatClock renders a timestamp back to "HH:MM" in its own location.
// For any time within a single calendar day this is the exact inverse
// of ParseClock.
func FormatClock(t time.Time) string {
	return t.Format(ClockLayout)
}

// DateString returns the canonical local date string for t.
func DateString(t time.Time) string {
	return t.Format(DateLayout)
}

// Today returns the canonical date string for "now" in loc.
func Today(loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return time.Now().In(loc).Format(DateLayout)
}

// ParseDate resolves a YYYY-MM-DD string to midnight in loc.
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	day, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("timeutil: parse date %q: %w", date, err)
	}
	return day, nil
}
