package knowledge

import (
	"sort"
	"strings"
	"time"

	"github.com/wolfman30/elitecuts-assistant/internal/extract"
)

// Fallbacks records which collections were replaced by the built-in dataset
// because the source failed or returned nothing.
type Fallbacks struct {
	Services        bool `json:"services"`
	Barbers         bool `json:"barbers"`
	Specializations bool `json:"specializations"`
	Styles          bool `json:"styles"`
}

// Any reports whether any collection fell back.
func (f Fallbacks) Any() bool {
	return f.Services || f.Barbers || f.Specializations || f.Styles
}

// Snapshot is an immutable view of the shop's reference data. Callers must
// not mutate the slices.
type Snapshot struct {
	Services        []Service
	Barbers         []Barber
	FAQs            []FAQ
	Promotions      []Promotion
	Hours           []WorkingHours
	Styles          []StyleCategory
	Specializations []Specialization
	Locations       []Location

	LoadedAt time.Time
	Fallback Fallbacks
	// Degraded is set when at least one fetch failed.
	Degraded bool
}

// BuiltinSnapshot returns a snapshot made only of the built-in dataset.
func BuiltinSnapshot(now time.Time) *Snapshot {
	return &Snapshot{
		Services:        BuiltinServices(),
		Barbers:         BuiltinBarbers(),
		Specializations: BuiltinSpecializations(),
		Styles:          BuiltinStyles(),
		LoadedAt:        now,
		Fallback:        Fallbacks{Services: true, Barbers: true, Specializations: true, Styles: true},
	}
}

// Service looks a service up by id.
func (s *Snapshot) Service(id string) (Service, bool) {
	for _, svc := range s.Services {
		if svc.ID == id {
			return svc, true
		}
	}
	return Service{}, false
}

// Barber looks a barber up by id.
func (s *Snapshot) Barber(id string) (Barber, bool) {
	for _, b := range s.Barbers {
		if b.ID == id {
			return b, true
		}
	}
	return Barber{}, false
}

// Promotion looks a promotion up by id.
func (s *Snapshot) Promotion(id string) (Promotion, bool) {
	for _, p := range s.Promotions {
		if p.ID == id {
			return p, true
		}
	}
	return Promotion{}, false
}

// Style looks a style up by id.
func (s *Snapshot) Style(id string) (StyleCategory, bool) {
	for _, st := range s.Styles {
		if st.ID == id {
			return st, true
		}
	}
	return StyleCategory{}, false
}

// SpecializationsFor returns the specializations recorded for a barber.
func (s *Snapshot) SpecializationsFor(barberID string) []Specialization {
	var out []Specialization
	for _, sp := range s.Specializations {
		if sp.BarberID == barberID {
			out = append(out, sp)
		}
	}
	return out
}

// HoursFor returns the shop hours for a weekday, if configured.
func (s *Snapshot) HoursFor(day time.Weekday) (WorkingHours, bool) {
	for _, h := range s.Hours {
		if h.DayOfWeek == int(day) {
			return h, true
		}
	}
	return WorkingHours{}, false
}

// SortedHours returns Hours ordered by day of week, Sunday first.
func (s *Snapshot) SortedHours() []WorkingHours {
	return sortHours(s.Hours)
}

func sortHours(hours []WorkingHours) []WorkingHours {
	out := append([]WorkingHours(nil), hours...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].DayOfWeek < out[j].DayOfWeek })
	return out
}

// ServiceCandidates adapts services for name matching.
func (s *Snapshot) ServiceCandidates() []extract.Candidate {
	out := make([]extract.Candidate, len(s.Services))
	for i, svc := range s.Services {
		out[i] = extract.Candidate{ID: svc.ID, Name: svc.Name}
	}
	return out
}

// BarberCandidates adapts barbers for name matching.
func (s *Snapshot) BarberCandidates() []extract.Candidate {
	out := make([]extract.Candidate, len(s.Barbers))
	for i, b := range s.Barbers {
		out[i] = extract.Candidate{ID: b.ID, Name: b.Name}
	}
	return out
}

// StyleCandidates adapts styles for name matching.
func (s *Snapshot) StyleCandidates() []extract.Candidate {
	out := make([]extract.Candidate, len(s.Styles))
	for i, st := range s.Styles {
		out[i] = extract.Candidate{ID: st.ID, Name: st.Name}
	}
	return out
}

// ServiceKeywords is the fixed fallback vocabulary for service matching,
// most specific first.
var ServiceKeywords = []extract.Keyword{
	{Word: "senior", Target: "Senior Haircut"},
	{Word: "seniors", Target: "Senior Haircut"},
	{Word: "kid", Target: "Kids Haircut"},
	{Word: "kids", Target: "Kids Haircut"},
	{Word: "child", Target: "Kids Haircut"},
	{Word: "children", Target: "Kids Haircut"},
	{Word: "son", Target: "Father & Son Package"},
	{Word: "trim", Target: "Beard Trim"},
	{Word: "beard", Target: "Beard Trim"},
	{Word: "shave", Target: "Hot Towel Shave"},
	{Word: "razor", Target: "Hot Towel Shave"},
	{Word: "color", Target: "Hair Coloring"},
	{Word: "colour", Target: "Hair Coloring"},
	{Word: "dye", Target: "Hair Coloring"},
	{Word: "highlights", Target: "Hair Coloring"},
	{Word: "massage", Target: "Head Massage"},
	{Word: "scalp", Target: "Head Massage"},
	{Word: "cut", Target: "Classic Haircut"},
}

// StyleKeywords maps style vocabulary to catalog names.
var StyleKeywords = []extract.Keyword{
	{Word: "fade", Target: "Modern Fade"},
	{Word: "fades", Target: "Modern Fade"},
	{Word: "crop", Target: "Textured Crop"},
	{Word: "pomp", Target: "Pompadour"},
	{Word: "quiff", Target: "Pompadour"},
	{Word: "side part", Target: "Classic Cut"},
}

// barberText is the lowercase text recommendation scores against.
func (s *Snapshot) barberText(b Barber) string {
	parts := []string{b.Bio}
	for _, sp := range s.SpecializationsFor(b.ID) {
		parts = append(parts, sp.Specialization, sp.ExpertiseLevel)
	}
	return strings.ToLower(strings.Join(parts, " "))
}
