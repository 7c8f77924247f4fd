package extract

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	emailRe      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneCharsRe = regexp.MustCompile(`^\+?[\d\s().\-]+$`)
)

// ValidEmail applies a light address check: something@something.something
// with no whitespace.
func ValidEmail(s string) bool {
	return emailRe.MatchString(strings.TrimSpace(s))
}

// ValidPhone accepts digits with space, parenthesis, dot and dash separators,
// an optional leading "+", and between 7 and 15 digits in total.
func ValidPhone(s string) bool {
	s = strings.TrimSpace(s)
	if !phoneCharsRe.MatchString(s) {
		return false
	}
	n := len(PhoneDigits(s))
	return n >= 7 && n <= 15
}

// PhoneDigits strips everything but digits from s.
func PhoneDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidName accepts any name of at least two characters once trimmed.
func ValidName(s string) bool {
	return len([]rune(strings.TrimSpace(s))) >= 2
}
