package utils

import (
	"fmt"
	"regexp"
	"strconv"
)

const (
	minutesPerDay = 24 * 60

	// DefaultSlotMinutes is used whenever a non-positive step is supplied.
	DefaultSlotMinutes = 30

	// maxClockHour allows closing times past midnight, e.g. "25:00" for 1 AM.
	maxClockHour = 29
)

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// ToMinutes parses "H:MM" or "HH:MM" into minutes since midnight. Hours are
// clamped to [0,29] so overnight closing times survive, minutes to [0,59].
func ToMinutes(hhmm string) (int, error) {
	h, m, err := splitClock(hhmm)
	if err != nil {
		return 0, err
	}
	return clamp(h, 0, maxClockHour)*60 + clamp(m, 0, 59), nil
}

// ToTime renders minutes as zero-padded "HH:MM", wrapping into a single day.
func ToTime(minutes int) string {
	m := ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// AddMinutes shifts a clock string by step minutes and renders it wrapped.
func AddMinutes(hhmm string, step int) (string, error) {
	m, err := ToMinutes(hhmm)
	if err != nil {
		return "", err
	}
	return ToTime(m + step), nil
}

// NormalizeTime accepts a requested booking time and returns it zero-padded
// with the hour clamped to [0,23]. ok is false when the input is malformed.
func NormalizeTime(s string) (string, bool) {
	h, m, err := splitClock(s)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", clamp(h, 0, 23), clamp(m, 0, 59)), true
}

// BuildSlots returns every start time t with opening <= t and
// t+step <= closing, stepping by step minutes. Times are computed without
// wraparound and only wrapped when rendered.
func BuildSlots(opening, closing string, step int) ([]string, error) {
	start, err := ToMinutes(opening)
	if err != nil {
		return nil, fmt.Errorf("opening time: %w", err)
	}
	end, err := ToMinutes(closing)
	if err != nil {
		return nil, fmt.Errorf("closing time: %w", err)
	}
	if step <= 0 {
		step = DefaultSlotMinutes
	}

	if end <= start {
		return []string{}, nil
	}

	slots := make([]string, 0, (end-start)/step)
	for t := start; t+step <= end; t += step {
		slots = append(slots, ToTime(t))
	}
	return slots, nil
}

func splitClock(s string) (int, int, error) {
	parts := clockPattern.FindStringSubmatch(s)
	if parts == nil {
		return 0, 0, fmt.Errorf("bad time %q", s)
	}
	h, _ := strconv.Atoi(parts[1])
	m, _ := strconv.Atoi(parts[2])
	return h, m, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
