package dialogue

import "github.com/wolfman30/elitecuts-assistant/internal/extract"

// Topic is what the last non-booking reply was about.
type Topic string

const (
	TopicNone      Topic = ""
	TopicGreeting  Topic = "greeting"
	TopicServices  Topic = "services"
	TopicBarbers   Topic = "barbers"
	TopicLocation  Topic = "location"
	TopicHours     Topic = "hours"
	TopicPromotion Topic = "promotions"
	TopicStyles    Topic = "styles"
	TopicFAQ       Topic = "faq"
	TopicBooking   Topic = "booking"
)

// Context is the cross-turn memory used to resolve follow-ups such as
// "tell me more" or "the other one". Options are the entities listed in the
// last reply and last for one turn.
type Context struct {
	LastTopic     Topic               `json:"last_topic,omitempty"`
	LastService   string              `json:"last_service,omitempty"`
	LastBarber    string              `json:"last_barber,omitempty"`
	LastPromotion string              `json:"last_promotion,omitempty"`
	LastStyle     string              `json:"last_style,omitempty"`
	FollowUpCount int                 `json:"follow_up_count"`
	CurrentIntent Intent              `json:"current_intent,omitempty"`
	Options       []extract.Candidate `json:"options,omitempty"`
	OptionsTopic  Topic               `json:"options_topic,omitempty"`
}

// ContextUpdate is a partial context; empty fields leave the current value.
type ContextUpdate struct {
	Topic     Topic
	Service   string
	Barber    string
	Promotion string
	Style     string
	Intent    Intent
	Options   []extract.Candidate
}

// Update merges u into c. FollowUpCount counts consecutive turns on the same
// topic and resets to 0 when the topic changes. Options are replaced on
// every update.
func (c Context) Update(u ContextUpdate) Context {
	next := c
	if u.Topic != TopicNone {
		if u.Topic == c.LastTopic {
			next.FollowUpCount = c.FollowUpCount + 1
		} else {
			next.FollowUpCount = 0
		}
		next.LastTopic = u.Topic
	}
	if u.Service != "" {
		next.LastService = u.Service
	}
	if u.Barber != "" {
		next.LastBarber = u.Barber
	}
	if u.Promotion != "" {
		next.LastPromotion = u.Promotion
	}
	if u.Style != "" {
		next.LastStyle = u.Style
	}
	if u.Intent != "" {
		next.CurrentIntent = u.Intent
	}
	next.Options = append([]extract.Candidate(nil), u.Options...)
	next.OptionsTopic = TopicNone
	if len(u.Options) > 0 {
		next.OptionsTopic = next.LastTopic
	}
	return next
}

// focus returns the entity id the context currently points at for topic.
func (c Context) focus(topic Topic) string {
	switch topic {
	case TopicServices:
		return c.LastService
	case TopicBarbers:
		return c.LastBarber
	case TopicPromotion:
		return c.LastPromotion
	case TopicStyles:
		return c.LastStyle
	}
	return ""
}
