// Package dialogue turns one user message plus the current conversation state
// into a reply and the next state. It holds the intent classifier, the
// conversation context and the booking step machine.
package dialogue

import (
	"github.com/wolfman30/elitecuts-assistant/internal/extract"
)

// Step is a stage of the booking dialogue.
type Step string

const (
	StepIdle     Step = "idle"
	StepService  Step = "service"
	StepBarber   Step = "barber"
	StepDate     Step = "date"
	StepTime     Step = "time"
	StepName     Step = "name"
	StepEmail    Step = "email"
	StepPhone    Step = "phone"
	StepNotes    Step = "notes"
	StepConfirm  Step = "confirm"
	StepComplete Step = "complete"
)

// bookingSteps is the strict order of the active steps.
var bookingSteps = []Step{
	StepService, StepBarber, StepDate, StepTime, StepName, StepEmail, StepPhone, StepNotes, StepConfirm,
}

// position returns the index of s in bookingSteps, -1 when s is not active.
func (s Step) position() int {
	for i, st := range bookingSteps {
		if st == s {
			return i
		}
	}
	return -1
}

// Active reports whether s is one of the booking steps.
func (s Step) Active() bool { return s.position() >= 0 }

// BookingData accumulates the validated answers. Date is YYYY-MM-DD and Time
// HH:MM. Notes is nil until the notes step passes; "none" stores "".
type BookingData struct {
	ServiceID string  `json:"service_id,omitempty"`
	BarberID  string  `json:"barber_id,omitempty"`
	Date      string  `json:"date,omitempty"`
	Time      string  `json:"time,omitempty"`
	Name      string  `json:"name,omitempty"`
	Email     string  `json:"email,omitempty"`
	Phone     string  `json:"phone,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// filled reports, per step, whether the field that step owns is set.
func (d BookingData) filled() map[Step]bool {
	return map[Step]bool{
		StepService: d.ServiceID != "",
		StepBarber:  d.BarberID != "",
		StepDate:    d.Date != "",
		StepTime:    d.Time != "",
		StepName:    d.Name != "",
		StepEmail:   d.Email != "",
		StepPhone:   d.Phone != "",
		StepNotes:   d.Notes != nil,
	}
}

// Empty reports whether no field is set.
func (d BookingData) Empty() bool {
	for _, set := range d.filled() {
		if set {
			return false
		}
	}
	return true
}

// BookingState is the booking machine's position and collected data.
// Recommended is the barber offered at the barber step; Options are the
// services offered when the last answer was ambiguous.
type BookingState struct {
	Step        Step                `json:"step"`
	Data        BookingData         `json:"data"`
	Recommended string              `json:"recommended,omitempty"`
	Options     []extract.Candidate `json:"options,omitempty"`
}

// NewBookingState is the idle machine.
func NewBookingState() BookingState {
	return BookingState{Step: StepIdle}
}

// Active reports whether a booking is in progress.
func (b BookingState) Active() bool { return b.Step.Active() }

// Consistent reports whether exactly the fields of the steps before Step
// are set. Idle and complete states carry no data.
func (b BookingState) Consistent() bool {
	pos := b.Step.position()
	if pos < 0 {
		return b.Data.Empty()
	}
	filled := b.Data.filled()
	for i, st := range bookingSteps {
		if st == StepConfirm {
			continue
		}
		if filled[st] != (i < pos) {
			return false
		}
	}
	return true
}

// restartAt returns a state at step with all data cleared.
func restartAt(step Step) BookingState {
	return BookingState{Step: step}
}

// State is everything carried between turns of one conversation.
type State struct {
	Booking BookingState `json:"booking"`
	Context Context      `json:"context"`
}

// NewState is the state of a fresh conversation.
func NewState() State {
	return State{Booking: NewBookingState()}
}
