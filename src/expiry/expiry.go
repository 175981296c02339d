package expiry

import (
	"fmt"
	"time"

	"github.com/jiaming2012/fx-valuation/src/daycount"
)

var UnknownMonthCodeErr = fmt.Errorf("unknown futures month code")
var ExpirationNotFoundErr = fmt.Errorf("expiration not found")

// monthCodes maps the standard futures month codes to calendar months.
var monthCodes = map[string]time.Month{
	"F": time.January, "G": time.February, "H": time.March,
	"J": time.April, "K": time.May, "M": time.June,
	"N": time.July, "Q": time.August, "U": time.September,
	"V": time.October, "X": time.November, "Z": time.December,
}

// MonthFromCode resolves a futures month code (F through Z) to its calendar
// month.
func MonthFromCode(code string) (time.Month, error) {
	m, ok := monthCodes[code]
	if !ok {
		return 0, fmt.Errorf("%w: %q", UnknownMonthCodeErr, code)
	}

	return m, nil
}

func chicago() (*time.Location, error) {
	return time.LoadLocation("America/Chicago")
}

func thirdWednesday(year int, month time.Month, loc *time.Location, hour, minute int) time.Time {
	d := time.Date(year, month, 1, hour, minute, 0, 0, loc)
	count := 0
	for {
		if d.Weekday() == time.Wednesday {
			count++
			if count == 3 {
				return d
			}
		}
		d = d.AddDate(0, 0, 1)
	}
}

// OptionExpiration returns the expiration of a CME currency future option for
// the contract month: two Fridays back from the month's third Wednesday,
// 09:00 Chicago, reported in UTC. Two-digit years are taken as 20YY.
func OptionExpiration(year int, month time.Month) (time.Time, error) {
	if year < 100 {
		year += 2000
	}

	loc, err := chicago()
	if err != nil {
		return time.Time{}, err
	}

	d := thirdWednesday(year, month, loc, 9, 0)
	fridays := 0
	for {
		d = d.AddDate(0, 0, -1)
		if d.Month() != month {
			return time.Time{}, ExpirationNotFoundErr
		}

		if d.Weekday() == time.Friday {
			fridays++
			if fridays == 2 {
				return d.UTC(), nil
			}
		}
	}
}

// FutureExpiration returns the settlement of a CME currency future for the
// contract month: two business days back from the month's third Wednesday,
// 09:16 Chicago, reported in UTC. Two-digit years are taken as 20YY.
func FutureExpiration(year int, month time.Month) (time.Time, error) {
	if year < 100 {
		year += 2000
	}

	loc, err := chicago()
	if err != nil {
		return time.Time{}, err
	}

	d := thirdWednesday(year, month, loc, 9, 16)
	business := 0
	for {
		d = d.AddDate(0, 0, -1)
		if d.Month() != month {
			return time.Time{}, ExpirationNotFoundErr
		}

		if daycount.IsTradingDay(d) {
			business++
			if business == 2 {
				return d.UTC(), nil
			}
		}
	}
}
