// Package returns computes investment return figures.
package returns

import (
	"math"
	"time"
)

// daysInYear is the divisor used to convert day spans to years.
const daysInYear = 365.0

// CAGR computes the compound annual growth rate between two valued dates,
// expressed as a percentage: a result of 12.0 means 12% annualized growth.
// Degenerate inputs (zero duration, zero beginning value) yield 0 rather
// than an error; callers treat them as "no growth measurable".
func CAGR(beginValue, endValue float64, start, end time.Time) float64 {
	durationYears := end.Sub(start).Hours() / 24 / daysInYear
	if durationYears == 0 || beginValue == 0 {
		return 0.0
	}
	return (math.Pow(endValue/beginValue, 1/durationYears) - 1) * 100
}
