package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"parispub/internal/utils"
)

// DayRule is the operating rule for one weekday. Close may exceed 24:00 to
// express service that runs past midnight.
type DayRule struct {
	Closed bool   `yaml:"closed"`
	Open   string `yaml:"open"`
	Close  string `yaml:"close"`
}

// WeeklyHours is indexed by time.Weekday (0=Sunday..6=Saturday).
type WeeklyHours [7]DayRule

// DefaultWeeklyHours is the built-in table used when no file is configured.
func DefaultWeeklyHours() WeeklyHours {
	return WeeklyHours{
		time.Sunday:    {Open: "11:00", Close: "20:00"},
		time.Monday:    {Closed: true},
		time.Tuesday:   {Closed: true},
		time.Wednesday: {Open: "11:00", Close: "22:00"},
		time.Thursday:  {Open: "11:00", Close: "22:00"},
		time.Friday:    {Open: "11:00", Close: "25:00"},
		time.Saturday:  {Open: "11:00", Close: "25:00"},
	}
}

// Rule returns the rule for the given weekday.
func (w WeeklyHours) Rule(day time.Weekday) DayRule {
	return w[day]
}

// Validate rejects open days whose times do not parse.
func (w WeeklyHours) Validate() error {
	for day, rule := range w {
		if rule.Closed {
			continue
		}
		if _, err := utils.ToMinutes(rule.Open); err != nil {
			return fmt.Errorf("weekly hours %s: open: %w", time.Weekday(day), err)
		}
		if _, err := utils.ToMinutes(rule.Close); err != nil {
			return fmt.Errorf("weekly hours %s: close: %w", time.Weekday(day), err)
		}
	}
	return nil
}

// LoadWeeklyHours reads a YAML file keyed by lower-case weekday names. All
// seven days must be present.
//
//	sunday:  {open: "11:00", close: "20:00"}
//	monday:  {closed: true}
func LoadWeeklyHours(path string) (WeeklyHours, error) {
	var hours WeeklyHours

	data, err := os.ReadFile(path)
	if err != nil {
		return hours, fmt.Errorf("read weekly hours: %w", err)
	}
	return ParseWeeklyHours(data)
}

// ParseWeeklyHours decodes the YAML form accepted by LoadWeeklyHours.
func ParseWeeklyHours(data []byte) (WeeklyHours, error) {
	var hours WeeklyHours

	raw := map[string]*DayRule{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return hours, fmt.Errorf("parse weekly hours: %w", err)
	}

	var missing []string
	for day := time.Sunday; day <= time.Saturday; day++ {
		key := strings.ToLower(day.String())
		rule, ok := raw[key]
		if !ok || rule == nil {
			missing = append(missing, key)
			continue
		}
		hours[day] = *rule
		delete(raw, key)
	}
	if len(missing) > 0 {
		return hours, fmt.Errorf("weekly hours missing days: %s", strings.Join(missing, ", "))
	}
	if len(raw) > 0 {
		unknown := make([]string, 0, len(raw))
		for key := range raw {
			unknown = append(unknown, key)
		}
		sort.Strings(unknown)
		return hours, fmt.Errorf("weekly hours: unknown days: %s", strings.Join(unknown, ", "))
	}

	if err := hours.Validate(); err != nil {
		return hours, err
	}
	return hours, nil
}
