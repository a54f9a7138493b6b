package services

import "time"

// Calendar supplies the date arithmetic used by the recurrence scheduler and
// the court deadline calculator.
type Calendar interface {
	AddDays(t time.Time, n int) time.Time
	AddWeeks(t time.Time, n int) time.Time
	AddMonths(t time.Time, n int) time.Time
}

// StandardCalendar does plain Gregorian arithmetic. Month addition clamps to
// the end of the target month: Jan 31 + 1 month is Feb 28 (29 in a leap
// year), not Mar 3, which AddDate would produce.
type StandardCalendar struct{}

func (StandardCalendar) AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

func (StandardCalendar) AddWeeks(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, 7*n)
}

func (StandardCalendar) AddMonths(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	anchor := time.Date(year, month, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	anchor = anchor.AddDate(0, n, 0)

	if last := daysInMonth(anchor.Year(), anchor.Month()); day > last {
		day = last
	}
	return time.Date(anchor.Year(), anchor.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
