package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoTime means the text contains no recognizable time reference.
var ErrNoTime = errors.New("extract: no time reference found")

// Coarse parts of the day and the clock time each one stands for.
const (
	BucketMorning   = "morning"
	BucketAfternoon = "afternoon"
	BucketEvening   = "evening"
)

var bucketClock = map[string]string{
	BucketMorning:   "10:00",
	BucketAfternoon: "14:00",
	BucketEvening:   "17:00",
}

// TimeOfDay is a parsed time reference. Bucket is set only when the input
// named a part of the day rather than a clock time.
type TimeOfDay struct {
	Clock  string // HH:MM, 24-hour
	Bucket string
}

// Exact reports whether the user named a specific clock time.
func (t TimeOfDay) Exact() bool { return t.Bucket == "" }

var (
	meridiemRe = regexp.MustCompile(`\b(\d{1,2})(?::([0-5]\d))?\s*(am|pm)\b`)
	clock24Re  = regexp.MustCompile(`\b([01]?\d|2[0-3]):([0-5]\d)\b`)
	oclockRe   = regexp.MustCompile(`\b(\d{1,2})\s*o'?clock\b`)
)

// Time resolves a time reference in text. "2pm", "2:30 pm" and "14:30" are
// converted to 24-hour HH:MM; "noon" is 12:00; morning, afternoon and evening
// map to 10:00, 14:00 and 17:00 with Bucket set. There is no default: text
// without a time yields ErrNoTime.
func Time(text string) (TimeOfDay, error) {
	t := strings.NewReplacer("a.m.", "am", "p.m.", "pm", "a.m", "am", "p.m", "pm").Replace(Normalize(text))

	if m := meridiemRe.FindStringSubmatch(t); m != nil {
		hour, _ := strconv.Atoi(m[1])
		if hour >= 1 && hour <= 12 {
			minute := 0
			if m[2] != "" {
				minute, _ = strconv.Atoi(m[2])
			}
			hour %= 12
			if m[3] == "pm" {
				hour += 12
			}
			return TimeOfDay{Clock: clock(hour, minute)}, nil
		}
	}

	if m := clock24Re.FindStringSubmatch(t); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		return TimeOfDay{Clock: clock(hour, minute)}, nil
	}

	if ContainsAnyPhrase(t, "noon", "midday") {
		return TimeOfDay{Clock: "12:00"}, nil
	}

	if m := oclockRe.FindStringSubmatch(t); m != nil {
		hour, _ := strconv.Atoi(m[1])
		if hour >= 1 && hour <= 12 {
			// Shop hours run 9 to 19, so a bare 1..8 o'clock means afternoon.
			if hour < 9 {
				hour += 12
			}
			return TimeOfDay{Clock: clock(hour, 0)}, nil
		}
	}

	for _, bucket := range []string{BucketMorning, BucketAfternoon, BucketEvening} {
		if ContainsWord(t, bucket) {
			return TimeOfDay{Clock: bucketClock[bucket], Bucket: bucket}, nil
		}
	}
	if ContainsWord(t, "tonight") {
		return TimeOfDay{Clock: bucketClock[BucketEvening], Bucket: BucketEvening}, nil
	}

	return TimeOfDay{}, ErrNoTime
}

// BucketOf returns the part of the day an HH:MM clock falls in.
func BucketOf(hhmm string) string {
	hour, _, ok := splitClock(hhmm)
	switch {
	case !ok:
		return ""
	case hour < 12:
		return BucketMorning
	case hour < 17:
		return BucketAfternoon
	default:
		return BucketEvening
	}
}

// Minutes converts HH:MM to minutes since midnight.
func Minutes(hhmm string) (int, bool) {
	hour, minute, ok := splitClock(hhmm)
	if !ok {
		return 0, false
	}
	return hour*60 + minute, true
}

// HumanClock renders HH:MM as "2:30 PM".
func HumanClock(hhmm string) string {
	hour, minute, ok := splitClock(hhmm)
	if !ok {
		return hhmm
	}
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	h := hour % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, minute, suffix)
}

func splitClock(hhmm string) (int, int, bool) {
	parts := strings.Split(strings.TrimSpace(hhmm), ":")
	if len(parts) < 2 {
		return 0, 0, false
	}
	hour, err1 := strconv.Atoi(parts[0])
	minute, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

func clock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}
