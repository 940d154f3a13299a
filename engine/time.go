package engine

import (
	"time"
)

// =============================================================================
// TIME POINT - Timestamp with day-level helpers
// =============================================================================

// TimePoint wraps a timestamp. Comparisons are exact (the stage ladder
// breaks same-instant ties with a strict "after"), while due-date
// arithmetic works at day granularity.
type TimePoint struct {
	Time time.Time
}

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func At(t time.Time) TimePoint { return TimePoint{Time: t} }

func Today() TimePoint {
	now := time.Now().UTC()
	return NewTimePoint(now.Year(), now.Month(), now.Day())
}

// Epoch is the synthetic creation date for a fallback rate entry.
func Epoch() TimePoint { return TimePoint{Time: time.Unix(0, 0).UTC()} }

// Comparison (exact)
func (tp TimePoint) Before(other TimePoint) bool        { return tp.Time.Before(other.Time) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.Time.Equal(other.Time) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.Time.After(other.Time) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return !tp.After(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return !tp.Before(other) }

// Day returns the time point truncated to its calendar day (UTC).
func (tp TimePoint) Day() TimePoint {
	return NewTimePoint(tp.Time.Year(), tp.Time.Month(), tp.Time.Day())
}

// AfterDay reports whether tp falls on a later calendar day than other.
func (tp TimePoint) AfterDay(other TimePoint) bool {
	return tp.Day().After(other.Day())
}

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint   { return TimePoint{Time: tp.Time.AddDate(0, 0, n)} }
func (tp TimePoint) AddMonths(n int) TimePoint { return TimePoint{Time: tp.Time.AddDate(0, n, 0)} }

// Properties
func (tp TimePoint) Weekday() time.Weekday { return tp.Time.Weekday() }
func (tp TimePoint) IsWeekend() bool {
	wd := tp.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
func (tp TimePoint) IsWorkday() bool { return !tp.IsWeekend() }
func (tp TimePoint) IsZero() bool    { return tp.Time.IsZero() }

func (tp TimePoint) String() string { return tp.Time.Format("2006-01-02") }

// =============================================================================
// WORKING-DAY ARITHMETIC - Payment due dates
// =============================================================================

// AddWorkdays steps forward day by day, decrementing the remaining count
// only on weekdays. Saturdays and Sundays pass without consuming a day,
// so a Friday start with n=1 lands on Monday.
func (tp TimePoint) AddWorkdays(n int) TimePoint {
	d := tp.Day()
	for remaining := n; remaining > 0; {
		d = d.AddDays(1)
		if d.IsWorkday() {
			remaining--
		}
	}
	return d
}

// =============================================================================
// DATE PARSING - Tolerant of the formats seen in imported rows
// =============================================================================

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
}

// ParseDate parses a date string in any of the accepted layouts.
// Returns a zero TimePoint and ErrUnparseableDate on failure; callers
// decide whether a zero date is skippable or substitutes a default.
func ParseDate(s string) (TimePoint, error) {
	if s == "" {
		return TimePoint{}, ErrUnparseableDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return TimePoint{Time: t.UTC()}, nil
		}
	}
	return TimePoint{}, ErrUnparseableDate
}
