package returns

import (
	"math"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCAGR(t *testing.T) {
	t.Run("one_year", func(t *testing.T) {
		// Over exactly 365 days the annualized rate equals the plain growth rate.
		got := CAGR(100, 110, date(2020, 1, 1), date(2020, 12, 31))
		if math.Abs(got-10) > 1e-9 {
			t.Errorf("expected 10, got %f", got)
		}
	})

	t.Run("multi_year", func(t *testing.T) {
		// 2020-01-01 to 2023-01-01 spans 1096 days (2020 is a leap year);
		// doubling over that span annualizes to just under 26%.
		got := CAGR(1000, 2000, date(2020, 1, 1), date(2023, 1, 1))
		if math.Abs(got-25.9655) > 1e-3 {
			t.Errorf("expected about 25.9655, got %f", got)
		}
	})

	t.Run("loss", func(t *testing.T) {
		got := CAGR(100, 90, date(2020, 1, 1), date(2020, 12, 31))
		if math.Abs(got+10) > 1e-9 {
			t.Errorf("expected -10, got %f", got)
		}
	})

	t.Run("zero_duration", func(t *testing.T) {
		d := date(2020, 1, 1)
		if got := CAGR(100, 200, d, d); got != 0 {
			t.Errorf("expected 0 for zero duration, got %f", got)
		}
	})

	t.Run("zero_begin_value", func(t *testing.T) {
		if got := CAGR(0, 200, date(2020, 1, 1), date(2021, 1, 1)); got != 0 {
			t.Errorf("expected 0 for zero begin value, got %f", got)
		}
	})
}
