package billing

import (
	"fmt"
	"time"
)

// TimestampLayout is the textual form every stored billing timestamp uses:
// millisecond precision, space separator, no zone suffix.
const TimestampLayout = "2006-01-02 15:04:05.000"

// Period is a paid-for window.
type Period struct {
	Start time.Time
	End   time.Time
}

// Calendar computes billing periods and renders timestamps in one fixed zone.
// It holds no mutable state and is safe for concurrent use.
type Calendar struct {
	loc *time.Location
}

func NewCalendar(loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return &Calendar{loc: loc}
}

// LoadCalendar resolves an IANA zone name; an empty name means UTC.
func LoadCalendar(zone string) (*Calendar, error) {
	if zone == "" {
		return NewCalendar(time.UTC), nil
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("load billing timezone %q: %w", zone, err)
	}
	return NewCalendar(loc), nil
}

func (c *Calendar) Location() *time.Location {
	return c.loc
}

// Normalize moves t into the calendar zone and drops sub-millisecond precision,
// so a value survives a Format/Parse round trip unchanged.
func (c *Calendar) Normalize(t time.Time) time.Time {
	return t.In(c.loc).Truncate(time.Millisecond)
}

// Period starts at ref and ends one plan cycle later.
func (c *Calendar) Period(ref time.Time, plan PlanDuration) Period {
	start := c.Normalize(ref)
	return Period{Start: start, End: AddMonths(start, plan.Months())}
}

// Extend re-derives the end of a cycle from an existing start.
func (c *Calendar) Extend(start time.Time, plan PlanDuration) time.Time {
	return AddMonths(c.Normalize(start), plan.Months())
}

func (c *Calendar) Format(t time.Time) string {
	return t.In(c.loc).Format(TimestampLayout)
}

func (c *Calendar) Parse(s string) (time.Time, error) {
	t, err := time.ParseInLocation(TimestampLayout, s, c.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse billing timestamp %q: %w", s, err)
	}
	return t, nil
}

// AddMonths adds n calendar months to t, clamping the day to the last day of
// the target month when it does not exist there (Jan 31 + 1 month = Feb 28/29).
// time.AddDate would normalize Feb 31 into March instead.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()

	target := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(target.Year(), target.Month(), t.Location()); d > last {
		d = last
	}
	return time.Date(target.Year(), target.Month(), d, hh, mm, ss, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
