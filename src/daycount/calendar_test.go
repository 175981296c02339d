package daycount

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsTradingDay(t *testing.T) {
	t.Run("regular weekday", func(t *testing.T) {
		assert.True(t, IsTradingDay(time.Date(2025, time.June, 18, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("weekend", func(t *testing.T) {
		assert.False(t, IsTradingDay(time.Date(2025, time.June, 7, 0, 0, 0, 0, time.UTC)))
		assert.False(t, IsTradingDay(time.Date(2025, time.June, 8, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("fixed holidays", func(t *testing.T) {
		assert.False(t, IsTradingDay(time.Date(2025, time.July, 4, 0, 0, 0, 0, time.UTC)))
		assert.False(t, IsTradingDay(time.Date(2025, time.June, 19, 0, 0, 0, 0, time.UTC)))
		assert.False(t, IsTradingDay(time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("floating holidays", func(t *testing.T) {
		assert.False(t, IsTradingDay(time.Date(2025, time.January, 20, 0, 0, 0, 0, time.UTC)))  // MLK
		assert.False(t, IsTradingDay(time.Date(2025, time.February, 17, 0, 0, 0, 0, time.UTC))) // Presidents
		assert.False(t, IsTradingDay(time.Date(2025, time.May, 26, 0, 0, 0, 0, time.UTC)))      // Memorial
		assert.False(t, IsTradingDay(time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC))) // Labor
		assert.False(t, IsTradingDay(time.Date(2025, time.November, 27, 0, 0, 0, 0, time.UTC))) // Thanksgiving
	})

	t.Run("good friday via computus", func(t *testing.T) {
		// Easter 2025 falls on April 20
		assert.False(t, IsTradingDay(time.Date(2025, time.April, 18, 0, 0, 0, 0, time.UTC)))
		// Easter 2024 falls on March 31
		assert.False(t, IsTradingDay(time.Date(2024, time.March, 29, 0, 0, 0, 0, time.UTC)))
	})
}

func TestHolidayObservance(t *testing.T) {
	t.Run("saturday holiday observed friday", func(t *testing.T) {
		// July 4 2026 is a Saturday
		assert.True(t, IsHoliday(time.Date(2026, time.July, 3, 0, 0, 0, 0, time.UTC)))
		assert.False(t, IsTradingDay(time.Date(2026, time.July, 3, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("sunday holiday observed monday", func(t *testing.T) {
		// January 1 2023 is a Sunday
		assert.True(t, IsHoliday(time.Date(2023, time.January, 2, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("next years new year observed in december", func(t *testing.T) {
		// January 1 2022 is a Saturday, observed December 31 2021
		assert.True(t, IsHoliday(time.Date(2021, time.December, 31, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("time of day is ignored", func(t *testing.T) {
		assert.True(t, IsHoliday(time.Date(2025, time.July, 4, 15, 30, 0, 0, time.UTC)))
	})
}
