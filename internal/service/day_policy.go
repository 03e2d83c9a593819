package service

import (
	"time"

	"parispub/internal/config"
	"parispub/internal/utils"
)

// DayPolicy resolves weekly operating rules and the date validity rules
// (no past dates, minimum advance notice).
type DayPolicy struct {
	hours      config.WeeklyHours
	noticeDays int
	loc        *time.Location
	clock      Clock
}

func NewDayPolicy(hours config.WeeklyHours, booking config.Booking, clock Clock) *DayPolicy {
	if clock == nil {
		clock = RealClock{}
	}
	loc := booking.Location
	if loc == nil {
		loc = time.Local
	}
	return &DayPolicy{
		hours:      hours,
		noticeDays: booking.AdvanceNoticeDays,
		loc:        loc,
		clock:      clock,
	}
}

// Rule returns the operating rule for the weekday of date. A malformed date
// resolves to a closed day.
func (p *DayPolicy) Rule(date string) config.DayRule {
	wd, err := utils.WeekdayFromISO(date)
	if err != nil {
		return config.DayRule{Closed: true}
	}
	return p.hours.Rule(wd)
}

// Today is the current calendar date in the configured location.
func (p *DayPolicy) Today() string {
	return utils.TodayISO(p.clock.Now(), p.loc)
}

// IsPastDate is true for malformed dates and dates before today. ISO dates
// compare correctly as strings.
func (p *DayPolicy) IsPastDate(date string) bool {
	return !utils.ValidISODate(date) || date < p.Today()
}

// IsTooSoon is true when date is earlier than today plus the configured
// advance notice. With zero notice days it never rejects.
func (p *DayPolicy) IsTooSoon(date string) bool {
	if p.noticeDays <= 0 {
		return false
	}
	return date < p.earliestBookable()
}

func (p *DayPolicy) earliestBookable() string {
	now := p.clock.Now().In(p.loc)
	d := time.Date(now.Year(), now.Month(), now.Day()+p.noticeDays, 0, 0, 0, 0, p.loc)
	return d.Format("2006-01-02")
}
