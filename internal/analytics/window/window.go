// Package window turns calendar parameters into half-open time ranges.
package window

import (
	"time"

	"github.com/raja1702/computer-storage-solutions/internal/domain/analytics"
)

// Range is the half-open interval [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Resolver builds windows in Location, anchoring relative windows on Clock.
type Resolver struct {
	Clock    Clock
	Location *time.Location
}

func NewResolver(clock Clock, loc *time.Location) Resolver {
	if clock == nil {
		clock = SystemClock{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return Resolver{Clock: clock, Location: loc}
}

// Loc is the location calendar windows are built in.
func (r Resolver) Loc() *time.Location {
	if r.Location == nil {
		return time.UTC
	}
	return r.Location
}

// Now is the clock reading expressed in the resolver's location.
func (r Resolver) Now() time.Time {
	if r.Clock == nil {
		return time.Now().In(r.Loc())
	}
	return r.Clock.Now().In(r.Loc())
}

// Month returns [first day of month, first day of next month).
func (r Resolver) Month(year, month int) (Range, error) {
	if err := checkYear("window.month", year); err != nil {
		return Range{}, err
	}
	if month < 1 || month > 12 {
		return Range{}, analytics.InvalidParameter("window.month", "month must be 1-12, got %d", month)
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, r.Loc())
	return Range{Start: start, End: start.AddDate(0, 1, 0)}, nil
}

// Quarter returns the three months starting at month (quarter-1)*3+1.
func (r Resolver) Quarter(year, quarter int) (Range, error) {
	if err := checkYear("window.quarter", year); err != nil {
		return Range{}, err
	}
	if quarter < 1 || quarter > 4 {
		return Range{}, analytics.InvalidParameter("window.quarter", "quarter must be 1-4, got %d", quarter)
	}
	startMonth := (quarter-1)*3 + 1
	start := time.Date(year, time.Month(startMonth), 1, 0, 0, 0, 0, r.Loc())
	return Range{Start: start, End: start.AddDate(0, 3, 0)}, nil
}

// LastMonths returns [now - n months, now]. The start keeps now's time of day;
// when the target month is shorter the day is clamped to its last day
// (May 31 minus 3 months is the last day of February).
func (r Resolver) LastMonths(n int) (Range, error) {
	if n <= 0 {
		return Range{}, analytics.InvalidParameter("window.last_months", "months must be positive, got %d", n)
	}
	now := r.Now()
	return Range{Start: AddMonths(now, -n), End: now}, nil
}

// AddMonths shifts t by n calendar months, clamping the day of month.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	target := first.AddDate(0, n, 0)
	if last := daysIn(target.Year(), target.Month(), t.Location()); d > last {
		d = last
	}
	return target.AddDate(0, 0, d-1)
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

func checkYear(op string, year int) error {
	if year < 1 || year > 9999 {
		return analytics.InvalidParameter(op, "year must be 1-9999, got %d", year)
	}
	return nil
}
