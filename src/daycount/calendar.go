package daycount

import "time"

// US trading holidays observed by CME FX products: Martin Luther King Jr. Day,
// Presidents Day, Good Friday, Memorial Day, Juneteenth, Independence Day,
// Labor Day, Thanksgiving, Christmas and New Year's Day, with Independence Day,
// Christmas and New Year's observed on the nearest workday.

func nthWeekday(year int, month time.Month, weekday time.Weekday, n int) time.Time {
	d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	count := 0
	for {
		if d.Weekday() == weekday {
			count++
			if count == n {
				return d
			}
		}
		d = d.AddDate(0, 0, 1)
	}
}

func lastWeekday(year int, month time.Month, weekday time.Weekday) time.Time {
	d := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	for d.Weekday() != weekday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

func nearestWorkday(d time.Time) time.Time {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDate(0, 0, -1)
	case time.Sunday:
		return d.AddDate(0, 0, 1)
	default:
		return d
	}
}

// easterSunday implements the anonymous Gregorian computus.
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// Holidays returns the exchange holidays for a calendar year, normalized to
// midnight UTC.
func Holidays(year int) []time.Time {
	return []time.Time{
		nthWeekday(year, time.January, time.Monday, 3),                                  // Martin Luther King Jr.
		nthWeekday(year, time.February, time.Monday, 3),                                 // Presidents Day
		easterSunday(year).AddDate(0, 0, -2),                                            // Good Friday
		lastWeekday(year, time.May, time.Monday),                                        // Memorial Day
		time.Date(year, time.June, 19, 0, 0, 0, 0, time.UTC),                            // Juneteenth
		nearestWorkday(time.Date(year, time.July, 4, 0, 0, 0, 0, time.UTC)),             // Independence Day
		nthWeekday(year, time.September, time.Monday, 1),                                // Labor Day
		nthWeekday(year, time.November, time.Thursday, 4),                               // Thanksgiving
		nearestWorkday(time.Date(year, time.December, 25, 0, 0, 0, 0, time.UTC)),        // Christmas
		nearestWorkday(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)),          // New Year's Day
		nearestWorkday(time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)),        // next New Year's, may observe on Dec 31
	}
}

// IsHoliday reports whether t falls on an exchange holiday. Only the calendar
// date is considered.
func IsHoliday(t time.Time) bool {
	date := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	for _, h := range Holidays(t.Year()) {
		if h.Equal(date) {
			return true
		}
	}
	return false
}

// IsTradingDay reports whether t falls on a weekday that is not an exchange
// holiday.
func IsTradingDay(t time.Time) bool {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	return !IsHoliday(t)
}
