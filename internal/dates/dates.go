// Package dates handles the YYYY-MM-DD date strings used throughout the API
// and the day-granularity comparisons the trading rules are defined on.
package dates

import "time"

// Layout is the wire format for all dates in the API and in price CSV files.
const Layout = "2006-01-02"

// Parse converts a "YYYY-MM-DD" string to a UTC midnight time.
func Parse(s string) (time.Time, error) {
	return time.Parse(Layout, s)
}

// Format converts a time to its "YYYY-MM-DD" string.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Day truncates a time to its calendar day, evaluated in the time's own
// location, and returns it as a UTC midnight. Trading rules compare days,
// never times of day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Before reports whether a falls on an earlier calendar day than b.
func Before(a, b time.Time) bool {
	return Day(a).Before(Day(b))
}

// Equal reports whether a and b fall on the same calendar day.
func Equal(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}
