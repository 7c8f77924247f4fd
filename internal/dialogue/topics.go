package dialogue

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/wolfman30/elitecuts-assistant/internal/extract"
	"github.com/wolfman30/elitecuts-assistant/internal/knowledge"
)

const helpMenu = "I'm not sure I understand. I can help with service information, barber availability, " +
	"booking appointments, or answering frequently asked questions. How can I assist you?"

var dayReference = regexp.MustCompile(`\b(today|tonight|tomorrow|sunday|monday|tuesday|wednesday|thursday|friday|saturday|weekends?)\b`)

func (t *turn) serviceInfo() string {
	t.update.Topic = TopicServices
	m := extract.MatchName(t.text, t.snap.ServiceCandidates(), knowledge.ServiceKeywords)
	switch {
	case m.Found():
		t.update.Service = m.ID
		svc, _ := t.snap.Service(m.ID)
		return knowledge.FormatServiceDetails(svc)
	case len(m.Ambiguous) > 0:
		t.update.Options = m.Ambiguous
		var b strings.Builder
		b.WriteString("Here are the services that match:\n\n")
		for i, o := range m.Ambiguous {
			svc, _ := t.snap.Service(o.ID)
			fmt.Fprintf(&b, "%d. %s - %s (%d min)\n", i+1, svc.Name, knowledge.Price(svc.Price), svc.DurationMinutes)
		}
		b.WriteString("\nWhich one would you like to know more about?")
		return b.String()
	}
	menu := knowledge.FormatServices(t.snap.Services)
	if t.st.Context.LastTopic == TopicServices && menu != knowledge.Unavailable {
		return "Here's our service menu again:\n\n" + menu
	}
	return menu
}

func (t *turn) barberInfo() string {
	t.update.Topic = TopicBarbers
	if recommendPattern.MatchString(t.text) {
		m := extract.MatchName(t.text, t.snap.ServiceCandidates(), knowledge.ServiceKeywords)
		if m.Found() {
			svc, _ := t.snap.Service(m.ID)
			if rec, ok := t.snap.Recommend(svc); ok {
				t.update.Service = svc.ID
				t.update.Barber = rec.Barber.ID
				return knowledge.FormatRecommendation(rec, t.snap.Shortlist(svc), t.snap.Specializations) +
					fmt.Sprintf("\n\nWould you like to book a %s with %s?", svc.Name, firstName(rec.Barber.Name))
			}
		}
	}
	if id, _ := t.matchBarber(); id != "" {
		t.update.Barber = id
		br, _ := t.snap.Barber(id)
		return knowledge.FormatBarberDetails(br, t.snap.Specializations)
	}
	t.update.Options = t.snap.BarberCandidates()
	return knowledge.FormatBarbers(t.snap.Barbers, t.snap.Specializations)
}

func (t *turn) locationInfo() string {
	t.update.Topic = TopicLocation
	return knowledge.FormatLocations(t.snap.Locations)
}

// hoursInfo answers for a single day when the message names one, otherwise
// with the weekly schedule.
func (t *turn) hoursInfo() string {
	t.update.Topic = TopicHours
	if dayReference.MatchString(t.text) {
		if day, err := extract.Date(t.text, t.e.now()); err == nil {
			if h, ok := t.snap.HoursFor(day.Weekday()); ok {
				name := day.Weekday().String()
				if h.IsClosed {
					return fmt.Sprintf("We're closed on %s. %s", name, knowledge.FormatHours(t.snap.Hours))
				}
				return fmt.Sprintf("On %s we're open %s - %s.", name,
					extract.HumanClock(h.OpenTime), extract.HumanClock(h.CloseTime))
			}
		}
	}
	return knowledge.FormatHours(t.snap.Hours)
}

func (t *turn) promotionInfo() string {
	t.update.Topic = TopicPromotion
	today := t.e.now()
	current := knowledge.CurrentPromotions(t.snap.Promotions, today)
	if len(current) > 0 {
		t.update.Promotion = current[0].ID
		opts := make([]extract.Candidate, len(current))
		for i, p := range current {
			opts[i] = extract.Candidate{ID: p.ID, Name: p.Title}
		}
		t.update.Options = opts
	}
	return knowledge.FormatPromotions(t.snap.Promotions, today)
}

func (t *turn) styleInfo() string {
	t.update.Topic = TopicStyles
	m := extract.MatchName(t.text, t.snap.StyleCandidates(), knowledge.StyleKeywords)
	if m.Found() {
		t.update.Style = m.ID
		st, _ := t.snap.Style(m.ID)
		return knowledge.FormatStyle(st)
	}
	t.update.Options = t.snap.StyleCandidates()
	return knowledge.FormatStyles(t.snap.Styles)
}

// details renders one entity of topic, as shown for a follow-up.
func (t *turn) details(topic Topic, id string) (string, bool) {
	switch topic {
	case TopicServices:
		if svc, ok := t.snap.Service(id); ok {
			t.update.Service = id
			return knowledge.FormatServiceDetails(svc), true
		}
	case TopicBarbers:
		if br, ok := t.snap.Barber(id); ok {
			t.update.Barber = id
			return knowledge.FormatBarberDetails(br, t.snap.Specializations), true
		}
	case TopicPromotion:
		if p, ok := t.snap.Promotion(id); ok {
			t.update.Promotion = id
			return knowledge.FormatPromotion(p), true
		}
	case TopicStyles:
		if st, ok := t.snap.Style(id); ok {
			t.update.Style = id
			return knowledge.FormatStyle(st), true
		}
	}
	return "", false
}

// followUp resolves "tell me more" against the last entity discussed.
func (t *turn) followUp() string {
	topic := t.st.Context.LastTopic
	t.update.Topic = topic
	if text, ok := t.details(topic, t.st.Context.focus(topic)); ok {
		return text
	}
	return t.fallback()
}

// optionPick resolves a choice among the entities listed last turn.
func (t *turn) optionPick() string {
	c := t.st.Context
	topic := c.OptionsTopic
	t.update.Topic = topic

	var picked extract.Candidate
	ok := false
	if otherPattern.MatchString(t.text) {
		picked, ok = extract.Other(c.Options, c.focus(topic))
	}
	if !ok {
		picked, ok = extract.Choose(t.text, c.Options)
	}
	if !ok {
		return t.fallback()
	}
	if text, ok := t.details(topic, picked.ID); ok {
		return text
	}
	return t.fallback()
}

func (t *turn) faq() string {
	t.update.Topic = TopicFAQ
	m, ok := knowledge.MatchFAQ(t.text, t.snap.FAQs)
	if !ok {
		return t.fallback()
	}
	return knowledge.FormatFAQ(m.FAQ)
}

func (t *turn) greeting() string {
	t.update.Topic = TopicGreeting
	if t.st.Context.LastTopic == TopicGreeting {
		return "Hello again! What can I help you with?"
	}
	return fmt.Sprintf("Hello! Welcome to %s. I can tell you about our services, barbers, hours and promotions, "+
		"or help you book an appointment. What can I do for you?", t.e.shopName)
}

// acknowledgeYes treats a bare yes as accepting the booking offer that ends
// most informational replies.
func (t *turn) acknowledgeYes() string {
	c := t.st.Context
	switch c.LastTopic {
	case TopicServices:
		if c.LastService != "" {
			if _, ok := t.snap.Service(c.LastService); ok {
				return t.startBookingWith(c.LastService)
			}
		}
		return t.startBooking()
	case TopicBarbers, TopicStyles, TopicPromotion:
		if c.LastTopic == TopicBarbers && c.LastService != "" && c.CurrentIntent == IntentBarberInfo {
			if _, ok := t.snap.Service(c.LastService); ok {
				return t.startBookingWith(c.LastService)
			}
		}
		return t.startBooking()
	}
	return t.fallback()
}

func (t *turn) acknowledgeNo() string {
	if t.st.Context.LastTopic == TopicNone {
		return t.fallback()
	}
	return "No problem! Is there anything else I can help you with?"
}

func (t *turn) fallback() string {
	return helpMenu
}
