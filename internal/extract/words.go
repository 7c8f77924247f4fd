// Package extract turns raw chat input into structured candidates: dates,
// times, contact details and references to known names. Nothing here fails
// loudly; an absent match is reported to the caller so it can re-prompt.
package extract

import (
	"strings"
	"unicode"
)

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "you": {}, "your": {}, "are": {}, "was": {}, "were": {},
	"what": {}, "when": {}, "where": {}, "how": {}, "why": {}, "who": {}, "which": {},
	"can": {}, "could": {}, "would": {}, "should": {}, "will": {}, "does": {}, "did": {},
	"have": {}, "has": {}, "had": {}, "with": {}, "this": {}, "that": {}, "these": {}, "those": {},
	"there": {}, "their": {}, "they": {}, "them": {}, "from": {}, "into": {}, "about": {},
	"any": {}, "all": {}, "our": {}, "ours": {}, "out": {}, "not": {}, "but": {}, "its": {},
	"it's": {}, "what's": {}, "i'm": {}, "i'd": {}, "i'll": {}, "want": {}, "like": {}, "need": {}, "please": {},
	"tell": {}, "know": {}, "get": {}, "got": {}, "much": {}, "many": {}, "some": {}, "more": {},
	"also": {}, "just": {}, "really": {}, "very": {}, "then": {}, "than": {}, "yes": {}, "okay": {},
	"hey": {}, "hello": {}, "thanks": {}, "thank": {}, "one": {}, "make": {}, "offer": {},
	"do": {}, "is": {}, "a": {}, "an": {}, "me": {}, "my": {}, "we": {}, "us": {}, "of": {}, "to": {},
}

// Normalize lowercases, trims and collapses whitespace. Typographic quotes are
// folded to ASCII so "I’d" and "I'd" compare equal.
func Normalize(text string) string {
	text = strings.NewReplacer("’", "'", "‘", "'", "“", "\"", "”", "\"").Replace(text)
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// canonical is Normalize with punctuation removed (ampersands kept) so that
// names can be compared irrespective of trailing "?" or commas.
func canonical(text string) string {
	text = Normalize(text)
	var b strings.Builder
	for _, r := range text {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '&', r == '\'':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Words splits text into lowercase words with punctuation stripped.
func Words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

// Tokens returns the distinct content words of text: at least three
// characters long and not a stop word, in first-seen order.
func Tokens(text string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, w := range Words(text) {
		w = strings.Trim(w, "'")
		if len(w) < 3 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// ContainsWord reports whether word appears in text as a whole word.
func ContainsWord(text, word string) bool {
	word = strings.ToLower(word)
	for _, w := range Words(text) {
		if w == word {
			return true
		}
	}
	return false
}

// ContainsPhrase reports whether phrase appears in text on word boundaries.
func ContainsPhrase(text, phrase string) bool {
	t := " " + canonical(text) + " "
	p := canonical(phrase)
	if p == "" {
		return false
	}
	return strings.Contains(t, " "+p+" ")
}

// ContainsAnyPhrase reports whether any of phrases appears in text on word
// boundaries.
func ContainsAnyPhrase(text string, phrases ...string) bool {
	for _, p := range phrases {
		if ContainsPhrase(text, p) {
			return true
		}
	}
	return false
}

var affirmatives = []string{
	"yes", "yeah", "yep", "yup", "y", "sure", "ok", "okay", "sounds good", "that works",
	"works for me", "perfect", "please do", "go ahead", "correct", "confirm", "confirmed",
	"absolutely", "definitely", "of course", "great", "let's do it", "do it",
}

var negatives = []string{
	"no", "nope", "nah", "n", "not really", "no thanks", "no thank you", "don't", "do not",
	"not now", "wrong", "incorrect",
}

// confirmations is the explicit subset of affirmatives that may submit a
// booking.
var confirmations = []string{"yes", "yeah", "yep", "yup", "y", "confirm", "confirmed", "correct", "book it"}

var negators = map[string]struct{}{
	"not": {}, "never": {}, "no": {}, "dont": {}, "isnt": {}, "doesnt": {}, "wasnt": {},
	"cant": {}, "wont": {}, "aint": {},
}

func isNegator(w string) bool {
	if _, ok := negators[w]; ok {
		return true
	}
	return strings.HasSuffix(w, "n't")
}

// negatedAffirmative reports whether a negator precedes an affirmative
// ("that's not correct", "not sure").
func negatedAffirmative(text string) bool {
	words := Words(text)
	for i, w := range words {
		if isNegator(w) && ContainsAnyPhrase(strings.Join(words[i+1:], " "), affirmatives...) {
			return true
		}
	}
	return false
}

// Affirmative reports whether text reads as a yes.
func Affirmative(text string) bool {
	if Negative(text) {
		return false
	}
	return ContainsAnyPhrase(text, affirmatives...)
}

// Negative reports whether text reads as a no, including a negated yes.
func Negative(text string) bool {
	return ContainsAnyPhrase(text, negatives...) || negatedAffirmative(text)
}

// Confirms reports whether text contains an explicit yes or confirm word,
// negated or not. Callers pair it with Negative to spot mixed answers.
func Confirms(text string) bool {
	return ContainsAnyPhrase(text, confirmations...)
}

var ordinals = map[string]int{
	"1": 1, "1st": 1, "first": 1,
	"2": 2, "2nd": 2, "second": 2, "two": 2,
	"3": 3, "3rd": 3, "third": 3, "three": 3,
	"4": 4, "4th": 4, "fourth": 4, "four": 4,
	"5": 5, "5th": 5, "fifth": 5, "five": 5,
}

// Ordinal returns the 1-based position referenced by text ("the second one",
// "#2", "3"), or 0 when text names none. "last" resolves against n.
func Ordinal(text string, n int) int {
	for _, w := range Words(strings.ReplaceAll(text, "#", " ")) {
		if w == "last" && n > 0 {
			return n
		}
		if idx, ok := ordinals[w]; ok && idx <= n {
			return idx
		}
	}
	return 0
}
