package engine

import (
	"math"
	"time"

	"github.com/tartampluch/go-jubileum/internal/config"
)

const secondsPerDay = 24 * 60 * 60

// calendarDate strips the time of day and the location, keeping the wall-clock date.
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateDifferenceDays returns a - b in whole days, ignoring time of day and timezone.
// It counts in Unix seconds because a time.Duration overflows past about 292 years.
func DateDifferenceDays(a, b time.Time) int {
	return int((calendarDate(a).Unix() - calendarDate(b).Unix()) / secondsPerDay)
}

// OffsetDate returns the calendar date offsetDays after base.
// Fractional days are floored; the result is UTC midnight.
func OffsetDate(base time.Time, offsetDays float64) time.Time {
	y, m, d := base.Date()
	return time.Date(y, m, d+int(math.Floor(offsetDays)), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses DD-MM-YYYY into a UTC calendar date.
func ParseDate(text string) (time.Time, error) {
	return time.Parse(config.DateFormatInput, text)
}

// FormatDate renders a date as DD-MM-YYYY.
func FormatDate(t time.Time) string {
	return t.Format(config.DateFormatInput)
}
