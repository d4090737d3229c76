package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 31, DaysInMonth(2024, 1))
	assert.Equal(t, 29, DaysInMonth(2024, 2)) // leap year
	assert.Equal(t, 28, DaysInMonth(2025, 2))
	assert.Equal(t, 30, DaysInMonth(2024, 6))
	assert.Equal(t, 31, DaysInMonth(2024, 12))
}

func TestFirstWeekday(t *testing.T) {
	// 2024-06-01 was a Saturday
	assert.Equal(t, 6, FirstWeekday(2024, 6))
	// 2024-09-01 was a Sunday
	assert.Equal(t, 0, FirstWeekday(2024, 9))
	// 2024-07-01 was a Monday
	assert.Equal(t, 1, FirstWeekday(2024, 7))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t,
		"2024-06-03",
		FormatDate(time.Date(2024, 6, 3, 23, 59, 0, 0, time.UTC)),
	)
}

func TestMonthRange(t *testing.T) {
	from, to := MonthRange(2024, 6)
	assert.Equal(t, "2024-06-01", from)
	assert.Equal(t, "2024-06-30", to)

	from, to = MonthRange(2024, 2)
	assert.Equal(t, "2024-02-01", from)
	assert.Equal(t, "2024-02-29", to)
}

func TestValidMonth(t *testing.T) {
	assert.True(t, ValidMonth(1))
	assert.True(t, ValidMonth(12))
	assert.False(t, ValidMonth(0))
	assert.False(t, ValidMonth(13))
}
