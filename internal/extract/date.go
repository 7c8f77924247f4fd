package extract

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNoDate means the text contains no recognizable date reference.
	ErrNoDate = errors.New("extract: no date reference found")
	// ErrInvalidDate means the text names a day that does not exist (31/2).
	ErrInvalidDate = errors.New("extract: date does not exist on the calendar")
	// ErrPastDate means the text names a day before today.
	ErrPastDate = errors.New("extract: date is in the past")
)

const monthPattern = `january|february|march|april|may|june|july|august|september|october|november|december|` +
	`jan|feb|mar|apr|jun|jul|aug|sept|sep|oct|nov|dec`

var (
	weekdayRe   = regexp.MustCompile(`\b(next\s+|this\s+|on\s+)?(sunday|monday|tuesday|wednesday|thursday|friday|saturday|sun|mon|tues|tue|wed|thurs|thur|thu|fri|sat)\b`)
	inDaysRe    = regexp.MustCompile(`\bin\s+(\d{1,3}|a|an|one|two|three|four|five|six|seven)\s+(days?|weeks?)\b`)
	numericRe   = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})(?:[/-](\d{2}|\d{4}))?\b`)
	monthDayRe  = regexp.MustCompile(`\b(` + monthPattern + `)\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b`)
	dayMonthRe  = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?(` + monthPattern + `)\b`)
	dayAfterRe  = regexp.MustCompile(`\bday\s+after\s+tomorrow\b`)
	tomorrowRe  = regexp.MustCompile(`\b(tomorrow|tmrw|tmr|tomorow)\b`)
	todayRe     = regexp.MustCompile(`\b(today|tonight)\b`)
	numberWords = map[string]int{"a": 1, "an": 1, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6, "seven": 7}
)

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tues": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thurs": time.Thursday, "thur": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

var monthNames = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may": time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sept": time.September, "sep": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// Date resolves a date reference in text relative to now. The result is
// midnight in now's location and is never before today. Recognized forms, in
// priority order: today/tomorrow/day after tomorrow, a weekday ("friday",
// "next fri"), "in N days|weeks", numeric D/M or D-M with optional year, and
// month-name forms ("May 15", "15th of May").
//
// A bare weekday always means the next occurrence strictly after today.
// There is no default: text without a date yields ErrNoDate.
func Date(text string, now time.Time) (time.Time, error) {
	t := Normalize(text)
	today := StartOfDay(now)

	switch {
	case dayAfterRe.MatchString(t):
		return today.AddDate(0, 0, 2), nil
	case tomorrowRe.MatchString(t):
		return today.AddDate(0, 0, 1), nil
	case todayRe.MatchString(t):
		return today, nil
	}

	if m := weekdayRe.FindStringSubmatch(t); m != nil {
		return nextWeekday(today, weekdayNames[m[2]]), nil
	}

	if m := inDaysRe.FindStringSubmatch(t); m != nil {
		n, ok := numberWords[m[1]]
		if !ok {
			n, _ = strconv.Atoi(m[1])
		}
		if strings.HasPrefix(m[2], "week") {
			n *= 7
		}
		return today.AddDate(0, 0, n), nil
	}

	if m := numericRe.FindStringSubmatch(t); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year := today.Year()
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
			if year < 100 {
				year += 2000
			}
		}
		return resolveCalendar(today, year, month, day)
	}

	if m := monthDayRe.FindStringSubmatch(t); m != nil {
		day, _ := strconv.Atoi(m[2])
		return resolveCalendar(today, today.Year(), int(monthNames[m[1]]), day)
	}
	if m := dayMonthRe.FindStringSubmatch(t); m != nil {
		day, _ := strconv.Atoi(m[1])
		return resolveCalendar(today, today.Year(), int(monthNames[m[2]]), day)
	}

	return time.Time{}, ErrNoDate
}

// resolveCalendar validates year/month/day without letting time.Date
// normalize overflow. Without an explicit year a date earlier this year is a
// past date, not next year's.
func resolveCalendar(today time.Time, year, month, day int) (time.Time, error) {
	if month < 1 || month > 12 || day < 1 || day > DaysIn(time.Month(month), year) {
		return time.Time{}, ErrInvalidDate
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, today.Location())
	if d.Before(today) {
		return time.Time{}, ErrPastDate
	}
	return d, nil
}

// DaysIn returns the number of days in month of year.
func DaysIn(month time.Month, year int) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func nextWeekday(today time.Time, wd time.Weekday) time.Time {
	delta := (int(wd) - int(today.Weekday()) + 7) % 7
	if delta == 0 {
		delta = 7
	}
	return today.AddDate(0, 0, delta)
}

// FormatDate renders d in the wire form used for booking data.
func FormatDate(d time.Time) string {
	return d.Format("2006-01-02")
}

// HumanDate renders d for a chat reply, e.g. "Monday, May 18".
func HumanDate(d time.Time) string {
	return d.Format("Monday, January 2")
}
