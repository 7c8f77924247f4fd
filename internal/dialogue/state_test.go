package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wolfman30/elitecuts-assistant/internal/extract"
)

func TestBookingStateConsistent(t *testing.T) {
	notes := ""
	full := BookingData{
		ServiceID: "s1", BarberID: "b1", Date: "2026-05-18", Time: "10:00",
		Name: "Jane Doe", Email: "jane@example.com", Phone: "555-123-4567", Notes: &notes,
	}

	tests := []struct {
		name  string
		state BookingState
		want  bool
	}{
		{"idle empty", NewBookingState(), true},
		{"idle with data", BookingState{Step: StepIdle, Data: BookingData{ServiceID: "s1"}}, false},
		{"complete empty", BookingState{Step: StepComplete}, true},
		{"service step empty", BookingState{Step: StepService}, true},
		{"barber step with service", BookingState{Step: StepBarber, Data: BookingData{ServiceID: "s1"}}, true},
		{"barber step missing service", BookingState{Step: StepBarber}, false},
		{"date step ahead of itself", BookingState{Step: StepDate, Data: BookingData{ServiceID: "s1", BarberID: "b1", Date: "2026-05-18"}}, false},
		{"confirm with everything", BookingState{Step: StepConfirm, Data: full}, true},
		{"confirm without notes", BookingState{Step: StepConfirm, Data: func() BookingData { d := full; d.Notes = nil; return d }()}, false},
		{"notes step without notes", BookingState{Step: StepNotes, Data: func() BookingData { d := full; d.Notes = nil; return d }()}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.Consistent())
		})
	}
}

func TestStepActive(t *testing.T) {
	assert.False(t, StepIdle.Active())
	assert.False(t, StepComplete.Active())
	assert.False(t, Step("").Active())
	for _, s := range bookingSteps {
		assert.True(t, s.Active(), s)
	}
}

func TestContextUpdate(t *testing.T) {
	c := Context{}

	c = c.Update(ContextUpdate{Topic: TopicServices, Service: "s1", Intent: IntentServiceInfo})
	assert.Equal(t, TopicServices, c.LastTopic)
	assert.Equal(t, "s1", c.LastService)
	assert.Equal(t, 0, c.FollowUpCount)
	assert.Equal(t, IntentServiceInfo, c.CurrentIntent)

	c = c.Update(ContextUpdate{Topic: TopicServices, Intent: IntentFollowUp})
	assert.Equal(t, 1, c.FollowUpCount)
	assert.Equal(t, "s1", c.LastService, "empty fields keep the current value")

	c = c.Update(ContextUpdate{Intent: IntentFallback})
	assert.Equal(t, 1, c.FollowUpCount, "no topic leaves the count alone")
	assert.Equal(t, TopicServices, c.LastTopic)

	c = c.Update(ContextUpdate{Topic: TopicBarbers, Barber: "b2"})
	assert.Equal(t, 0, c.FollowUpCount)
	assert.Equal(t, "b2", c.LastBarber)
	assert.Equal(t, "s1", c.LastService)
}

func TestContextOptionsLastOneTurn(t *testing.T) {
	opts := []extract.Candidate{{ID: "p1", Name: "A"}, {ID: "p2", Name: "B"}}
	c := Context{}.Update(ContextUpdate{Topic: TopicPromotion, Options: opts})
	assert.Equal(t, opts, c.Options)
	assert.Equal(t, TopicPromotion, c.OptionsTopic)

	opts[0].ID = "changed"
	assert.Equal(t, "p1", c.Options[0].ID, "options are copied")

	c = c.Update(ContextUpdate{Topic: TopicHours})
	assert.Empty(t, c.Options)
	assert.Equal(t, TopicNone, c.OptionsTopic)
}

func TestContextFocus(t *testing.T) {
	c := Context{LastService: "s1", LastBarber: "b1", LastPromotion: "p1", LastStyle: "pompadour"}
	assert.Equal(t, "s1", c.focus(TopicServices))
	assert.Equal(t, "b1", c.focus(TopicBarbers))
	assert.Equal(t, "p1", c.focus(TopicPromotion))
	assert.Equal(t, "pompadour", c.focus(TopicStyles))
	assert.Empty(t, c.focus(TopicHours))
}
