package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// May 13, 2026 is a Wednesday.
var fixedNow = time.Date(2026, 5, 13, 10, 30, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDate(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    time.Time
		wantErr error
	}{
		{name: "today", message: "today please", want: day(2026, 5, 13)},
		{name: "tomorrow", message: "Tomorrow", want: day(2026, 5, 14)},
		{name: "tomorrow typo", message: "tmrw works", want: day(2026, 5, 14)},
		{name: "day after tomorrow", message: "the day after tomorrow", want: day(2026, 5, 15)},

		// Weekdays roll strictly forward
		{name: "same weekday rolls a week", message: "wednesday", want: day(2026, 5, 20)},
		{name: "next friday", message: "next friday", want: day(2026, 5, 15)},
		{name: "abbreviation", message: "sat?", want: day(2026, 5, 16)},
		{name: "monday", message: "how about monday", want: day(2026, 5, 18)},
		{name: "tuesday wraps", message: "on tuesday", want: day(2026, 5, 19)},

		{name: "in 3 days", message: "in 3 days", want: day(2026, 5, 16)},
		{name: "in two weeks", message: "in two weeks", want: day(2026, 5, 27)},
		{name: "in a week", message: "in a week", want: day(2026, 5, 20)},

		// Numeric day/month
		{name: "slash", message: "25/5", want: day(2026, 5, 25)},
		{name: "dash", message: "1-6", want: day(2026, 6, 1)},
		{name: "same day numeric", message: "13/5", want: day(2026, 5, 13)},
		{name: "explicit year", message: "29/2/2028", want: day(2028, 2, 29)},
		{name: "two digit year", message: "3/1/27", want: day(2027, 1, 3)},
		{name: "feb 31 overflow", message: "31/2", wantErr: ErrInvalidDate},
		{name: "april 31 overflow", message: "31/4", wantErr: ErrInvalidDate},
		{name: "non leap year", message: "29/2/2027", wantErr: ErrInvalidDate},
		{name: "month 13", message: "5/13", wantErr: ErrInvalidDate},
		{name: "past numeric", message: "10/5", wantErr: ErrPastDate},

		// Month names
		{name: "month day", message: "May 15", want: day(2026, 5, 15)},
		{name: "day of month", message: "the 15th of June", want: day(2026, 6, 15)},
		{name: "short month", message: "dec 24th", want: day(2026, 12, 24)},
		{name: "june 31", message: "june 31", wantErr: ErrInvalidDate},
		{name: "past month name", message: "January 3", wantErr: ErrPastDate},

		{name: "no date", message: "whenever suits", wantErr: ErrNoDate},
		{name: "may as verb", message: "may I come in", wantErr: ErrNoDate},
		{name: "empty", message: "", wantErr: ErrNoDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Date(tt.message, fixedNow)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.True(t, got.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDateNeverBeforeToday(t *testing.T) {
	phrases := []string{
		"today", "tomorrow", "day after tomorrow", "monday", "next sunday", "in 0 days",
		"in 10 days", "1/1", "13/5", "14/5", "december 31", "1st jan", "sat",
	}
	for _, now := range []time.Time{fixedNow, day(2026, 12, 31), day(2026, 1, 1)} {
		today := StartOfDay(now)
		for _, p := range phrases {
			got, err := Date(p, now)
			if err != nil {
				assert.NotErrorIs(t, err, ErrInvalidDate, p)
				continue
			}
			assert.False(t, got.Before(today), "%q at %s resolved to %s", p, now, got)
		}
	}
}

func TestTomorrowIsStable(t *testing.T) {
	nows := []time.Time{
		fixedNow,
		time.Date(2026, 1, 31, 23, 59, 0, 0, time.UTC),
		time.Date(2026, 12, 31, 8, 0, 0, 0, time.UTC),
		time.Date(2028, 2, 28, 12, 0, 0, 0, time.UTC),
	}
	for _, now := range nows {
		got, err := Date("tomorrow", now)
		require.NoError(t, err)
		assert.Equal(t, FormatDate(StartOfDay(now).AddDate(0, 0, 1)), FormatDate(got))

		again, err := Date("tomorrow", now)
		require.NoError(t, err)
		assert.Equal(t, FormatDate(got), FormatDate(again))
	}
}

func TestDateKeepsLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	now := time.Date(2026, 5, 13, 22, 0, 0, 0, loc)

	got, err := Date("tomorrow", now)
	require.NoError(t, err)
	assert.Equal(t, loc, got.Location())
	assert.Equal(t, "2026-05-14", FormatDate(got))
}

func TestHumanDate(t *testing.T) {
	assert.Equal(t, "Monday, May 18", HumanDate(day(2026, 5, 18)))
	assert.Equal(t, 29, DaysIn(time.February, 2028))
	assert.Equal(t, 28, DaysIn(time.February, 2026))
}
