package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wolfman30/elitecuts-assistant/internal/extract"
)

func TestClassify(t *testing.T) {
	c := NewClassifier()
	snap := shopSnapshot()
	idle := NewState()
	active := State{Booking: BookingState{Step: StepDate, Data: BookingData{ServiceID: "s1", BarberID: "b1"}}}
	picking := State{Booking: NewBookingState(), Context: Context{
		LastTopic:    TopicServices,
		LastService:  "s1",
		Options:      []extract.Candidate{{ID: "s1", Name: "Classic Haircut"}, {ID: "s7", Name: "Senior Haircut"}},
		OptionsTopic: TopicServices,
	}}

	tests := []struct {
		name  string
		text  string
		state State
		want  Intent
	}{
		{"cancel while idle", "cancel", idle, IntentCancel},
		{"cancel mid booking", "never mind", active, IntentCancel},
		{"cancel question reaches faq", "can i cancel my appointment?", idle, IntentFAQ},
		{"any text mid booking is input", "what are your hours?", active, IntentBookingInput},
		{"booking request", "i want to book a haircut", idle, IntentBooking},
		{"ordinal pick", "the second one", picking, IntentOptionPick},
		{"other pick", "what about the other one", picking, IntentOptionPick},
		{"ordinal without options", "the second one", idle, IntentFallback},
		{"price question", "how much is a beard trim", idle, IntentServiceInfo},
		{"service by name", "tell me about the hot towel shave", idle, IntentServiceInfo},
		{"barber by first name", "tell me about james", idle, IntentBarberInfo},
		{"barber list", "who are your barbers?", idle, IntentBarberInfo},
		{"location", "where are you located", idle, IntentLocation},
		{"hours", "are you open on sunday?", idle, IntentHours},
		{"promotion", "any deals?", idle, IntentPromotion},
		{"style", "what's a pompadour", idle, IntentStyleInfo},
		{"follow up", "tell me more", idle, IntentFollowUp},
		{"faq", "do you take walk-ins without waiting?", idle, IntentFAQ},
		{"greeting", "hello there", idle, IntentGreeting},
		{"no", "no", idle, IntentConfirmNo},
		{"yes", "yes please", idle, IntentConfirmYes},
		{"gibberish", "asdf qwerty", idle, IntentFallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(extract.Normalize(tt.text), tt.state, snap))
		})
	}
}

func TestClassifyWithoutSnapshot(t *testing.T) {
	c := NewClassifier()
	assert.Equal(t, IntentFallback, c.Classify("james", NewState(), nil))
	assert.Equal(t, IntentServiceInfo, c.Classify("prices", NewState(), nil))
}

func TestClassifierPriority(t *testing.T) {
	p := NewClassifier().Priority()
	assert.Equal(t, []Intent{
		IntentCancel, IntentBookingInput, IntentBooking, IntentOptionPick,
		IntentServiceInfo, IntentBarberInfo, IntentLocation, IntentHours,
		IntentPromotion, IntentStyleInfo, IntentFollowUp, IntentFAQ,
		IntentGreeting, IntentConfirmNo, IntentConfirmYes, IntentFallback,
	}, p)
}

func TestBarberByFirstNameNeedsUniqueMatch(t *testing.T) {
	snap := shopSnapshot()
	assert.Equal(t, "b3", barberByFirstName("is david in today", snap))
	assert.Empty(t, barberByFirstName("jamesy", snap))

	snap.Barbers = append(snap.Barbers, snap.Barbers[0])
	snap.Barbers[len(snap.Barbers)-1].ID = "b9"
	assert.Empty(t, barberByFirstName("james please", snap))
}
