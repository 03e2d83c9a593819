package utils

import (
	"fmt"
	"regexp"
	"time"
)

const isoLayout = "2006-01-02"

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidISODate reports whether s is a zero-padded YYYY-MM-DD calendar date.
func ValidISODate(s string) bool {
	if !isoDatePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(isoLayout, s)
	return err == nil
}

// WeekdayFromISO derives the weekday from the date components alone, so the
// result does not depend on the process time zone.
func WeekdayFromISO(s string) (time.Weekday, error) {
	if !isoDatePattern.MatchString(s) {
		return 0, fmt.Errorf("bad date %q", s)
	}
	d, err := time.Parse(isoLayout, s)
	if err != nil {
		return 0, fmt.Errorf("bad date %q: %w", s, err)
	}
	return d.Weekday(), nil
}

// TodayISO returns the calendar date of now as seen in loc.
func TodayISO(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return now.In(loc).Format(isoLayout)
}

// ExpiresAtFromISO returns local midnight in loc, days after the given date.
// 2025-09-15 with days=3 expires at 2025-09-18 00:00.
func ExpiresAtFromISO(s string, days int, loc *time.Location) (time.Time, error) {
	d, err := time.Parse(isoLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date %q: %w", s, err)
	}
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.Year(), d.Month(), d.Day()+days, 0, 0, 0, 0, loc), nil
}
