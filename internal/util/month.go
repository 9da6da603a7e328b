package util

import (
	"fmt"
	"time"
)

// monthKeyLayout is the "YYYY-MM" partition key format.
const monthKeyLayout = "2006-01"

// MonthKey truncates a date to its "YYYY-MM" month key.
func MonthKey(date time.Time) string {
	return date.Format(monthKeyLayout)
}

// CurrentMonthKey returns the month key for the given clock reading.
func CurrentMonthKey(now time.Time) string {
	return MonthKey(now)
}

// MonthKeyOf returns the month key for a date, falling back to the current
// month when the date is missing. Callers inject now so the fallback stays
// deterministic under test.
func MonthKeyOf(date, now time.Time) string {
	if date.IsZero() {
		return CurrentMonthKey(now)
	}
	return MonthKey(date)
}

// ParseMonthKey parses a "YYYY-MM" key into its year and month.
func ParseMonthKey(key string) (int, time.Month, error) {
	t, err := time.Parse(monthKeyLayout, key)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month key %q: %w", key, err)
	}
	return t.Year(), t.Month(), nil
}

// OffsetMonthKey adds offset whole months to a month key, carrying across
// year boundaries in both directions.
func OffsetMonthKey(key string, offset int) (string, error) {
	year, month, err := ParseMonthKey(key)
	if err != nil {
		return "", err
	}
	// time.Date normalizes out-of-range months, including negative ones
	t := time.Date(year, month+time.Month(offset), 1, 0, 0, 0, 0, time.UTC)
	return MonthKey(t), nil
}

// LastDayOfMonth returns the number of days in the given month.
func LastDayOfMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonthsClamped advances a date by the given number of calendar months,
// preserving the day of month where possible. When the target month is
// shorter, the day clamps to that month's last day instead of rolling over
// into the following month (time.AddDate would turn Jan 31 + 1 month into
// Mar 2/3, which is wrong for payment schedules).
func AddMonthsClamped(date time.Time, months int) time.Time {
	first := time.Date(date.Year(), date.Month()+time.Month(months), 1, 0, 0, 0, 0, time.UTC)

	day := date.Day()
	if last := LastDayOfMonth(first.Year(), first.Month()); day > last {
		day = last
	}

	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}
