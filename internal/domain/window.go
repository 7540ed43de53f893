package domain

import "time"

// WindowLabel names the day an order placed now applies to
type WindowLabel string

const (
	LabelNone       WindowLabel = ""
	LabelToday      WindowLabel = "today"
	LabelTomorrow   WindowLabel = "tomorrow"
	LabelNextMonday WindowLabel = "next_monday"
)

const (
	// orders for tomorrow open at noon
	noonMinute = 12 * 60
	// orders for today close at 09:30
	cutoffMinute = 9*60 + 30
)

// Window is the ordering window derived from the clock
type Window struct {
	Open       bool
	TargetDate Date
	Label      WindowLabel
}

// MakeupCalendar is the set of dates designated as working days
type MakeupCalendar map[Date]struct{}

// NewMakeupCalendar builds a calendar from dates
func NewMakeupCalendar(dates ...Date) MakeupCalendar {
	c := make(MakeupCalendar, len(dates))
	for _, d := range dates {
		c[d] = struct{}{}
	}
	return c
}

// Contains reports whether d is a makeup workday
func (c MakeupCalendar) Contains(d Date) bool {
	_, ok := c[d]
	return ok
}

// IsWeekday reports whether d falls Monday through Friday
func IsWeekday(d Date) bool {
	wd := d.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// EvaluateWindow decides whether ordering is open at now and for which date.
// now must already be in the kiosk's zone.
func EvaluateWindow(now time.Time, makeup MakeupCalendar) Window {
	today := DateOf(now)

	if makeup.Contains(today) {
		return Window{Open: true, TargetDate: today, Label: LabelToday}
	}

	clock := now.Hour()*60 + now.Minute()

	switch {
	case now.Weekday() == time.Friday && clock >= noonMinute:
		monday := today.AddDays(3)
		return Window{Open: IsWeekday(monday), TargetDate: monday, Label: LabelNextMonday}
	case clock >= noonMinute:
		tomorrow := today.AddDays(1)
		return Window{Open: IsWeekday(tomorrow), TargetDate: tomorrow, Label: LabelTomorrow}
	case clock <= cutoffMinute:
		return Window{Open: IsWeekday(today), TargetDate: today, Label: LabelToday}
	default:
		return Window{}
	}
}
