package daycount

import "time"

// TradingDaysPerYear is the annualization basis for trading-calendar tenors.
const TradingDaysPerYear = 252

const hoursPerDay = 24.0

// Actual360T returns the Actual/360 year fraction between t0 and t1. Returns 0
// when t1 is not after t0.
func Actual360T(t0, t1 time.Time) float64 {
	if !t1.After(t0) {
		return 0
	}

	return t1.Sub(t0).Hours() / hoursPerDay / 360.0
}

// TradingDays counts the trading days in (t0, t1].
func TradingDays(t0, t1 time.Time) int {
	if !t1.After(t0) {
		return 0
	}

	days := 0
	d := midnightUTC(t0).AddDate(0, 0, 1)
	end := midnightUTC(t1)
	for !d.After(end) {
		if IsTradingDay(d) {
			days++
		}
		d = d.AddDate(0, 0, 1)
	}

	return days
}

// TradingT returns the trading-calendar year fraction between t0 and t1:
// trading days elapsed, with fractional first and last days, over a 252-day
// year. Non-trading days contribute nothing. Returns 0 when t1 is not after t0.
func TradingT(t0, t1 time.Time) float64 {
	if !t1.After(t0) {
		return 0
	}

	startDay := midnightUTC(t0)
	endDay := midnightUTC(t1)

	if startDay.Equal(endDay) {
		if !IsTradingDay(t0) {
			return 0
		}
		return t1.Sub(t0).Hours() / hoursPerDay / TradingDaysPerYear
	}

	days := 0.0

	// remainder of the first day
	if IsTradingDay(t0) {
		days += startDay.AddDate(0, 0, 1).Sub(t0).Hours() / hoursPerDay
	}

	// full days in between
	d := startDay.AddDate(0, 0, 1)
	for d.Before(endDay) {
		if IsTradingDay(d) {
			days++
		}
		d = d.AddDate(0, 0, 1)
	}

	// elapsed portion of the last day
	if IsTradingDay(t1) {
		days += t1.Sub(endDay).Hours() / hoursPerDay
	}

	return days / TradingDaysPerYear
}

func midnightUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
