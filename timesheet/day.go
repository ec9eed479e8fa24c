package timesheet

import (
	"fmt"
	"time"
)

// =============================================================================
// DAY - Calendar date without time-of-day or timezone
// =============================================================================

// Day is a pure calendar date. All arithmetic and comparison work on the
// year/month/day components, never on epoch timestamps, so a Day means the
// same date regardless of the host timezone.
type Day struct {
	Year  int
	Month time.Month
	Date  int
}

// NewDay builds a Day from calendar components.
func NewDay(year int, month time.Month, date int) Day {
	// Normalize out-of-range components (e.g. Feb 30) the same way time.Date does.
	t := time.Date(year, month, date, 0, 0, 0, 0, time.UTC)
	return Day{Year: t.Year(), Month: t.Month(), Date: t.Day()}
}

// DayOf extracts the calendar date from a time.Time.
func DayOf(t time.Time) Day {
	return Day{Year: t.Year(), Month: t.Month(), Date: t.Day()}
}

// Today returns the current calendar date.
func Today() Day {
	return DayOf(time.Now())
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DayOf(t), nil
}

// Time returns the date at midnight UTC. Used only at storage boundaries.
func (d Day) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Date, 0, 0, 0, 0, time.UTC)
}

// Comparison
func (d Day) Equal(other Day) bool {
	return d.Year == other.Year && d.Month == other.Month && d.Date == other.Date
}

func (d Day) Before(other Day) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Date < other.Date
}

func (d Day) After(other Day) bool         { return other.Before(d) }
func (d Day) BeforeOrEqual(other Day) bool { return !other.Before(d) }
func (d Day) AfterOrEqual(other Day) bool  { return !d.Before(other) }

// Arithmetic
func (d Day) AddDays(n int) Day { return DayOf(d.Time().AddDate(0, 0, n)) }

// Properties
func (d Day) Weekday() time.Weekday { return d.Time().Weekday() }
func (d Day) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
func (d Day) IsZero() bool { return d.Year == 0 && d.Month == 0 && d.Date == 0 }

func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Date)
}

// InMonth reports whether the day falls in the given month of the given year.
// A zero month matches the whole year.
func (d Day) InMonth(year int, month time.Month) bool {
	if d.Year != year {
		return false
	}
	return month == 0 || d.Month == month
}

// =============================================================================
// PERIOD - Inclusive date range for listings and reports
// =============================================================================

type Period struct {
	Start Day
	End   Day
}

// Contains returns true if the day is within [Start, End].
func (p Period) Contains(d Day) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// MonthPeriod returns the period covering one calendar month.
func MonthPeriod(year int, month time.Month) Period {
	start := NewDay(year, month, 1)
	return Period{Start: start, End: start.AddDays(daysInMonth(year, month) - 1)}
}

// YearPeriod returns the period covering one calendar year.
func YearPeriod(year int) Period {
	return Period{Start: NewDay(year, time.January, 1), End: NewDay(year, time.December, 31)}
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1).Day()
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}
