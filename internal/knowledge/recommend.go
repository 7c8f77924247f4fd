package knowledge

import (
	"sort"
	"strings"

	"github.com/wolfman30/elitecuts-assistant/internal/extract"
)

// RecommendReason explains how a barber was picked.
type RecommendReason string

const (
	ReasonSpecialist  RecommendReason = "specialist"
	ReasonExperienced RecommendReason = "experienced"
	ReasonFirst       RecommendReason = "first"
)

// Recommendation is the barber suggested for a service.
type Recommendation struct {
	Barber Barber
	Reason RecommendReason
	Score  int
}

// focusTerms maps a word in a service name to the words that mark a barber
// as suited to it.
var focusTerms = []struct {
	trigger string
	terms   []string
}{
	{"beard", []string{"beard", "grooming"}},
	{"trim", []string{"beard", "grooming"}},
	{"shave", []string{"shav", "grooming"}},
	{"color", []string{"color"}},
	{"massage", []string{"massage", "relax"}},
	{"kid", []string{"kid", "children"}},
	{"cut", []string{"cut", "styl"}},
}

var experiencedWords = []string{"experienced", "senior", "master", "veteran"}

// specialistScore is the overlap between a service and a barber's bio and
// specializations.
func (s *Snapshot) specialistScore(svc Service, br Barber) int {
	name := strings.ToLower(svc.Name)
	text := s.barberText(br)
	score := 0
	for _, f := range focusTerms {
		if !strings.Contains(name, f.trigger) {
			continue
		}
		for _, term := range f.terms {
			if strings.Contains(text, term) {
				score++
			}
		}
	}
	barberWords := make(map[string]struct{})
	for _, w := range extract.Tokens(text) {
		barberWords[w] = struct{}{}
	}
	for _, w := range extract.Tokens(name) {
		if _, ok := barberWords[w]; ok {
			score++
		}
	}
	return score
}

// Recommend picks the barber best suited to svc: the highest specialization
// overlap, then a barber marked as experienced, then the first barber. It
// returns false only when there are no barbers.
func (s *Snapshot) Recommend(svc Service) (Recommendation, bool) {
	if len(s.Barbers) == 0 {
		return Recommendation{}, false
	}
	best := Recommendation{}
	for _, br := range s.Barbers {
		if score := s.specialistScore(svc, br); score > best.Score {
			best = Recommendation{Barber: br, Reason: ReasonSpecialist, Score: score}
		}
	}
	if best.Score > 0 {
		return best, true
	}
	for _, br := range s.Barbers {
		if extract.ContainsAnyPhrase(s.barberText(br), experiencedWords...) {
			return Recommendation{Barber: br, Reason: ReasonExperienced}, true
		}
	}
	return Recommendation{Barber: s.Barbers[0], Reason: ReasonFirst}, true
}

// Shortlist orders barbers for svc: those with a specialization overlap
// first, by score, then everyone else in list order.
func (s *Snapshot) Shortlist(svc Service) []Barber {
	type scored struct {
		barber Barber
		score  int
	}
	all := make([]scored, len(s.Barbers))
	for i, br := range s.Barbers {
		all[i] = scored{barber: br, score: s.specialistScore(svc, br)}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].score > all[j].score })
	out := make([]Barber, len(all))
	for i, sc := range all {
		out[i] = sc.barber
	}
	return out
}

// FormatRecommendation renders the suggestion and the shortlist.
func FormatRecommendation(rec Recommendation, shortlist []Barber, specs []Specialization) string {
	var b strings.Builder
	b.WriteString("👨‍💼 Barber Recommendation\n\n")
	b.WriteString("I recommend **" + rec.Barber.Name + "**")
	if rec.Barber.Bio != "" {
		b.WriteString(" - " + rec.Barber.Bio)
	}
	b.WriteString("\n")
	if len(shortlist) > 1 {
		b.WriteString("\nOur barbers:\n")
		for _, br := range shortlist {
			writeBarberLine(&b, br, specs)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
