package dialogue

import (
	"regexp"
	"strings"

	"github.com/wolfman30/elitecuts-assistant/internal/extract"
	"github.com/wolfman30/elitecuts-assistant/internal/knowledge"
)

// Intent is the classified purpose of one user message.
type Intent string

const (
	IntentBookingInput Intent = "booking_input"
	IntentCancel       Intent = "cancel"
	IntentBooking      Intent = "booking"
	IntentOptionPick   Intent = "option_pick"
	IntentServiceInfo  Intent = "service_info"
	IntentBarberInfo   Intent = "barber_info"
	IntentLocation     Intent = "location"
	IntentHours        Intent = "hours"
	IntentPromotion    Intent = "promotion"
	IntentStyleInfo    Intent = "style_info"
	IntentFollowUp     Intent = "follow_up"
	IntentFAQ          Intent = "faq"
	IntentGreeting     Intent = "greeting"
	IntentConfirmYes   Intent = "confirm_yes"
	IntentConfirmNo    Intent = "confirm_no"
	IntentFallback     Intent = "fallback"
)

var (
	cancelPattern   = regexp.MustCompile(`\b(cancel|never\s*mind|start\s+over|restart|forget\s+it|quit)\b`)
	questionPattern = regexp.MustCompile(`^(what|what's|whats|how|can|could|do|does|is|are|when|where|why|which|will|would)\b`)
	followUpPattern = regexp.MustCompile(`\b(tell\s+me\s+more|more\s+(info|information|details)|what\s+else|go\s+on|more\s+about\s+(it|that|this|them|him))\b`)
	otherPattern    = regexp.MustCompile(`\b(the\s+)?other\s+(one|option)\b|\bwhat\s+about\s+the\s+other\b`)
)

var (
	bookingWords  = []string{"book", "booking", "appointment", "appointments", "schedule", "reserve", "reservation"}
	serviceWords  = []string{"service", "services", "price", "prices", "pricing", "cost", "costs", "how much", "menu", "haircut", "haircuts", "treatments"}
	barberWords   = []string{"barber", "barbers", "stylist", "stylists", "staff", "team", "who cuts", "who works"}
	locationWords = []string{"where", "location", "locations", "address", "directions", "located", "find you", "get there"}
	hoursWords    = []string{"hours", "open", "opening", "close", "closing", "closed", "what time", "when are you"}
	promoWords    = []string{"promotion", "promotions", "promo", "promos", "deal", "deals", "discount", "discounts", "special", "specials", "offers", "coupon", "coupons", "sale"}
	styleWords    = []string{"style", "styles", "hairstyle", "hairstyles", "trend", "trends", "trending", "look", "looks", "fade", "fades", "pompadour", "crop", "quiff"}
	greetingWords = []string{"hi", "hello", "hey", "howdy", "good morning", "good afternoon", "good evening", "greetings", "yo"}
)

// Input is what a classification rule sees.
type Input struct {
	Text  string
	State State
	Snap  *knowledge.Snapshot
}

// rule is one entry in the classifier's priority list.
type rule struct {
	intent Intent
	match  func(in Input) bool
}

// Classifier maps a message to an intent by walking an ordered rule list;
// the first rule that matches wins.
type Classifier struct {
	rules []rule
}

// NewClassifier builds the classifier with the standard priority order.
func NewClassifier() *Classifier {
	return &Classifier{rules: []rule{
		{IntentCancel, isCancel},
		{IntentBookingInput, func(in Input) bool { return in.State.Booking.Active() }},
		{IntentBooking, isBookingRequest},
		{IntentOptionPick, isOptionPick},
		{IntentServiceInfo, mentionsService},
		{IntentBarberInfo, mentionsBarber},
		{IntentLocation, func(in Input) bool { return extract.ContainsAnyPhrase(in.Text, locationWords...) }},
		{IntentHours, func(in Input) bool { return extract.ContainsAnyPhrase(in.Text, hoursWords...) }},
		{IntentPromotion, func(in Input) bool { return extract.ContainsAnyPhrase(in.Text, promoWords...) }},
		{IntentStyleInfo, mentionsStyle},
		{IntentFollowUp, func(in Input) bool { return followUpPattern.MatchString(in.Text) }},
		{IntentFAQ, func(in Input) bool {
			if in.Snap == nil {
				return false
			}
			_, ok := knowledge.MatchFAQ(in.Text, in.Snap.FAQs)
			return ok
		}},
		{IntentGreeting, func(in Input) bool { return extract.ContainsAnyPhrase(in.Text, greetingWords...) }},
		{IntentConfirmNo, func(in Input) bool { return extract.Negative(in.Text) }},
		{IntentConfirmYes, func(in Input) bool { return extract.Affirmative(in.Text) }},
	}}
}

// Classify returns the intent of text, already normalized, given the
// conversation state. It never returns an empty intent.
func (c *Classifier) Classify(text string, st State, snap *knowledge.Snapshot) Intent {
	in := Input{Text: text, State: st, Snap: snap}
	for _, r := range c.rules {
		if r.match(in) {
			return r.intent
		}
	}
	return IntentFallback
}

// Priority lists the intents in the order they are tried.
func (c *Classifier) Priority() []Intent {
	out := make([]Intent, 0, len(c.rules)+1)
	for _, r := range c.rules {
		out = append(out, r.intent)
	}
	return append(out, IntentFallback)
}

// isCancel honors cancel words at any active step. While idle only a bare
// command counts, so "can I cancel an appointment?" reaches the FAQ.
func isCancel(in Input) bool {
	if !cancelPattern.MatchString(in.Text) {
		return false
	}
	if in.State.Booking.Active() {
		return true
	}
	return !isQuestion(in.Text)
}

// isBookingRequest spots a request to book. A message that also mentions
// cancelling is a question about cancellation, not a booking.
func isBookingRequest(in Input) bool {
	return extract.ContainsAnyPhrase(in.Text, bookingWords...) && !cancelPattern.MatchString(in.Text)
}

func isQuestion(text string) bool {
	return strings.Contains(text, "?") || questionPattern.MatchString(text)
}

// isOptionPick resolves a reply to the list offered last turn ("the second
// one", "the other one", or one of the listed names).
func isOptionPick(in Input) bool {
	opts := in.State.Context.Options
	if len(opts) == 0 {
		return false
	}
	if otherPattern.MatchString(in.Text) && len(opts) == 2 {
		return true
	}
	_, ok := extract.Choose(in.Text, opts)
	return ok
}

// strongMatch reports a name match that does not rely on the keyword table
// or loose word overlap.
func strongMatch(m extract.NameMatch) bool {
	switch m.Kind {
	case extract.MatchExact, extract.MatchPrefix, extract.MatchSubstring:
		return m.Found() || len(m.Ambiguous) > 0
	}
	return false
}

func mentionsService(in Input) bool {
	if extract.ContainsAnyPhrase(in.Text, serviceWords...) {
		return true
	}
	if in.Snap == nil {
		return false
	}
	return strongMatch(extract.MatchName(in.Text, in.Snap.ServiceCandidates(), nil))
}

func mentionsBarber(in Input) bool {
	if extract.ContainsAnyPhrase(in.Text, barberWords...) {
		return true
	}
	if in.Snap == nil {
		return false
	}
	return barberByFirstName(in.Text, in.Snap) != "" ||
		strongMatch(extract.MatchName(in.Text, in.Snap.BarberCandidates(), nil))
}

func mentionsStyle(in Input) bool {
	if extract.ContainsAnyPhrase(in.Text, styleWords...) {
		return true
	}
	if in.Snap == nil {
		return false
	}
	return strongMatch(extract.MatchName(in.Text, in.Snap.StyleCandidates(), nil))
}

// barberByFirstName returns the id of the only barber whose first name
// appears as a word in text.
func barberByFirstName(text string, snap *knowledge.Snapshot) string {
	found := ""
	for _, b := range snap.Barbers {
		first := strings.ToLower(firstName(b.Name))
		if len(first) < 3 || !extract.ContainsWord(text, first) {
			continue
		}
		if found != "" {
			return ""
		}
		found = b.ID
	}
	return found
}

func firstName(name string) string {
	if f := strings.Fields(name); len(f) > 0 {
		return f[0]
	}
	return name
}
