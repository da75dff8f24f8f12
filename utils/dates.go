// utils/dates.go
package utils

import "time"

// DateLayout is the wire format for calendar dates (query params and JSON).
const DateLayout = "2006-01-02"

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func DaysBetween(start, end time.Time) int {
	start = BeginningOfDay(start)
	end = BeginningOfDay(end)
	return int(end.Sub(start).Hours() / 24)
}

// RentalDays is the inclusive day count of a rental: both the start and the
// end day are billed, so a same-day rental counts as 1.
func RentalDays(start, end time.Time) int {
	return DaysBetween(start, end) + 1
}

// ParseDate parses a Y-m-d calendar date at UTC midnight.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, time.UTC)
}

// Today returns the current UTC calendar day at midnight.
func Today() time.Time {
	return BeginningOfDay(time.Now().UTC())
}
