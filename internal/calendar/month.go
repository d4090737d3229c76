package calendar

import "time"

// DaysInMonth returns the number of days of the given month, month is
// 1 based (January == 1).
func DaysInMonth(year, month int) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekday returns the weekday of the 1st of the month,
// 0 = Sunday through 6 = Saturday.
func FirstWeekday(year, month int) int {
	return int(time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Weekday())
}

// FormatDate renders a timestamp as the logical calendar day string
// used by record dates, YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// MonthRange returns the first and last day of a month as date
// strings, for range-filtered store queries.
func MonthRange(year, month int) (from, to string) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
	return FormatDate(first), FormatDate(last)
}

func ValidMonth(month int) bool {
	return month >= 1 && month <= 12
}
