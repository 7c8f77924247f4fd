package extract

import (
	"strings"
)

// Candidate is a named record the user may be referring to.
type Candidate struct {
	ID   string
	Name string
}

// Keyword maps a word the user might say to the candidate name it implies
// ("trim" means Beard Trim).
type Keyword struct {
	Word   string
	Target string
}

// MatchKind records which tier produced a match.
type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchExact
	MatchPrefix
	MatchSubstring
	MatchKeyword
	MatchTokens
)

func (k MatchKind) String() string {
	switch k {
	case MatchExact:
		return "exact"
	case MatchPrefix:
		return "prefix"
	case MatchSubstring:
		return "substring"
	case MatchKeyword:
		return "keyword"
	case MatchTokens:
		return "tokens"
	default:
		return "none"
	}
}

// NameMatch is the outcome of MatchName. Exactly one of ID or Ambiguous is
// set when the text referenced something.
type NameMatch struct {
	ID        string
	Kind      MatchKind
	Ambiguous []Candidate
}

// Found reports whether a single candidate was identified.
func (m NameMatch) Found() bool { return m.ID != "" }

// MatchName finds the candidate text refers to, trying in order: exact name,
// name starting with the text (or text starting with the name), name
// contained in the text (or text of three or more characters contained in
// the name), the keyword table, and finally content-word overlap. The first
// tier with any hit decides; several equally good hits in that tier are
// returned as Ambiguous.
func MatchName(text string, candidates []Candidate, keywords []Keyword) NameMatch {
	t := canonical(text)
	if t == "" || len(candidates) == 0 {
		return NameMatch{}
	}

	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = canonical(c.Name)
	}

	tiers := []struct {
		kind   MatchKind
		narrow bool
		hit    func(name string) bool
	}{
		{MatchExact, false, func(n string) bool { return n == t }},
		{MatchPrefix, false, func(n string) bool {
			return (len(t) >= 3 && strings.HasPrefix(n, t)) || strings.HasPrefix(t, n+" ")
		}},
		{MatchSubstring, true, func(n string) bool { return strings.Contains(" "+t+" ", " "+n+" ") }},
		{MatchSubstring, false, func(n string) bool { return len(t) >= 3 && strings.Contains(n, t) }},
	}

	for _, tier := range tiers {
		var hits []int
		for i, n := range names {
			if n != "" && tier.hit(n) {
				hits = append(hits, i)
			}
		}
		if len(hits) == 0 {
			continue
		}
		if tier.narrow {
			hits = narrowLongest(hits, names)
		}
		return decide(tier.kind, candidates, hits)
	}

	for _, kw := range keywords {
		if !ContainsPhrase(t, kw.Word) {
			continue
		}
		target := canonical(kw.Target)
		for i, n := range names {
			if n == target {
				return NameMatch{ID: candidates[i].ID, Kind: MatchKeyword}
			}
		}
	}

	return matchTokens(t, candidates, names)
}

// narrowLongest keeps the hits with the longest names so "classic haircut"
// beats a shorter name also contained in the same text.
func narrowLongest(hits []int, names []string) []int {
	best := 0
	for _, i := range hits {
		if len(names[i]) > best {
			best = len(names[i])
		}
	}
	var out []int
	for _, i := range hits {
		if len(names[i]) == best {
			out = append(out, i)
		}
	}
	return out
}

func decide(kind MatchKind, candidates []Candidate, hits []int) NameMatch {
	if len(hits) == 1 {
		return NameMatch{ID: candidates[hits[0]].ID, Kind: kind}
	}
	amb := make([]Candidate, 0, len(hits))
	for _, i := range hits {
		amb = append(amb, candidates[i])
	}
	return NameMatch{Kind: kind, Ambiguous: amb}
}

func matchTokens(t string, candidates []Candidate, names []string) NameMatch {
	words := make(map[string]struct{})
	for _, w := range Tokens(t) {
		words[w] = struct{}{}
	}
	if len(words) == 0 {
		return NameMatch{}
	}

	best := 0
	var hits []int
	for i, n := range names {
		score := 0
		for _, w := range Tokens(n) {
			if _, ok := words[w]; ok {
				score++
			}
		}
		switch {
		case score == 0:
		case score > best:
			best = score
			hits = []int{i}
		case score == best:
			hits = append(hits, i)
		}
	}
	if best == 0 {
		return NameMatch{}
	}
	return decide(MatchTokens, candidates, hits)
}

// Choose resolves a follow-up to a disambiguation prompt: an ordinal ("the
// second one") or a name among options.
func Choose(text string, options []Candidate) (Candidate, bool) {
	if idx := Ordinal(text, len(options)); idx > 0 {
		return options[idx-1], true
	}
	if m := MatchName(text, options, nil); m.Found() {
		for _, o := range options {
			if o.ID == m.ID {
				return o, true
			}
		}
	}
	return Candidate{}, false
}

// Other resolves "the other one" against exactly two options, given the one
// currently in focus.
func Other(options []Candidate, current string) (Candidate, bool) {
	if len(options) != 2 {
		return Candidate{}, false
	}
	switch current {
	case options[0].ID:
		return options[1], true
	case options[1].ID:
		return options[0], true
	}
	return Candidate{}, false
}
