package services

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStandardCalendarAddDaysAndWeeks(t *testing.T) {
	cal := StandardCalendar{}

	got := cal.AddDays(date(2023, time.June, 25), 30)
	if want := date(2023, time.July, 25); !got.Equal(want) {
		t.Errorf("AddDays(2023-06-25, 30) = %v, want %v", got, want)
	}

	got = cal.AddWeeks(date(2024, time.February, 26), 2)
	if want := date(2024, time.March, 11); !got.Equal(want) {
		t.Errorf("AddWeeks(2024-02-26, 2) = %v, want %v", got, want)
	}
}

func TestStandardCalendarAddMonthsClampsToMonthEnd(t *testing.T) {
	cal := StandardCalendar{}

	tests := []struct {
		name  string
		start time.Time
		n     int
		want  time.Time
	}{
		{"jan 31 to feb 28", date(2023, time.January, 31), 1, date(2023, time.February, 28)},
		{"jan 31 to feb 29 leap year", date(2024, time.January, 31), 1, date(2024, time.February, 29)},
		{"mar 31 to apr 30", date(2023, time.March, 31), 1, date(2023, time.April, 30)},
		{"mid month unaffected", date(2023, time.January, 15), 1, date(2023, time.February, 15)},
		{"multiple months", date(2023, time.November, 30), 3, date(2024, time.February, 29)},
		{"year rollover", date(2023, time.December, 31), 2, date(2024, time.February, 29)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := cal.AddMonths(tc.start, tc.n)
			if !got.Equal(tc.want) {
				t.Errorf("AddMonths(%v, %d) = %v, want %v", tc.start, tc.n, got, tc.want)
			}
		})
	}
}

func TestStandardCalendarAddMonthsKeepsClock(t *testing.T) {
	cal := StandardCalendar{}
	start := time.Date(2023, time.January, 31, 14, 30, 0, 0, time.UTC)
	got := cal.AddMonths(start, 1)
	want := time.Date(2023, time.February, 28, 14, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("AddMonths kept wrong clock: got %v, want %v", got, want)
	}
}
