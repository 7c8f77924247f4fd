package knowledge

import (
	"strings"

	"github.com/wolfman30/elitecuts-assistant/internal/extract"
)

// MinFAQScore is the lowest overlap score accepted as a match.
const MinFAQScore = 2

// FAQMatch is the best FAQ for a query and its score.
type FAQMatch struct {
	FAQ   FAQ
	Score int
}

// MatchFAQ scores each FAQ by the number of distinct query content words
// (three or more letters, stop words removed) found in its question and
// answer. When at least two words overlap and the FAQ contains the whole
// query verbatim, it earns one bonus point. The highest score wins, earlier
// FAQs win ties, and nothing below MinFAQScore is returned.
func MatchFAQ(query string, faqs []FAQ) (FAQMatch, bool) {
	tokens := extract.Tokens(query)
	if len(tokens) == 0 {
		return FAQMatch{}, false
	}
	phrase := extract.Normalize(strings.Trim(query, " ?!."))

	best := FAQMatch{}
	found := false
	for _, f := range faqs {
		text := f.Question + " " + f.Answer
		words := make(map[string]struct{})
		for _, w := range extract.Tokens(text) {
			words[w] = struct{}{}
		}

		score := 0
		for _, t := range tokens {
			if _, ok := words[t]; ok {
				score++
			}
		}
		if score >= 2 && phrase != "" && strings.Contains(extract.Normalize(text), phrase) {
			score++
		}

		if score >= MinFAQScore && score > best.Score {
			best = FAQMatch{FAQ: f, Score: score}
			found = true
		}
	}
	return best, found
}
