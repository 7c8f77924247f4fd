package bookings

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/elitecuts-assistant/internal/extract"
)

// SlotMinutes is the length of one bookable slot.
const SlotMinutes = 30

// Appointment statuses.
const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

var (
	// ErrSlotTaken means the requested start overlaps an existing booking.
	ErrSlotTaken = errors.New("bookings: slot no longer available")
	// ErrInvalidAppointment means a required field is missing.
	ErrInvalidAppointment = errors.New("bookings: invalid appointment")
)

// Appointment is a booked visit. Date is YYYY-MM-DD and StartTime HH:MM in
// the shop's timezone.
type Appointment struct {
	ID              string `json:"id"`
	ServiceID       string `json:"service_id"`
	BarberID        string `json:"barber_id"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	CustomerPhone   string `json:"customer_phone"`
	Notes           string `json:"notes"`
	Status          string `json:"status"`
}

// Validate checks the fields every appointment must carry.
func (a Appointment) Validate() error {
	if a.ServiceID == "" || a.BarberID == "" || a.CustomerName == "" {
		return ErrInvalidAppointment
	}
	if _, err := time.Parse("2006-01-02", a.Date); err != nil {
		return ErrInvalidAppointment
	}
	if _, ok := extract.Minutes(a.StartTime); !ok || a.DurationMinutes <= 0 {
		return ErrInvalidAppointment
	}
	return nil
}

// ConfirmationNumber is the short reference shown to customers.
func (a Appointment) ConfirmationNumber() string {
	ref := a.ID
	if len(ref) > 8 {
		ref = ref[:8]
	}
	return strings.ToUpper(ref)
}

// TimeSlot is one bookable start time for a barber on a day.
type TimeSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// WorkingDay reports whether a barber works on a date and the hours if so.
type WorkingDay struct {
	IsWorking bool   `json:"is_working"`
	DayName   string `json:"day_name"`
	Open      string `json:"open,omitempty"`
	Close     string `json:"close,omitempty"`
}

// Schedule is a barber's own hours for a weekday, overriding shop hours.
type Schedule struct {
	BarberID  string `json:"barber_id"`
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsWorking bool   `json:"is_working"`
}

// GenerateSlots lays out SlotMinutes slots from open until closing. A slot is
// unavailable when it overlaps a non-cancelled appointment.
func GenerateSlots(open, closing string, booked []Appointment) []TimeSlot {
	start, ok1 := extract.Minutes(open)
	end, ok2 := extract.Minutes(closing)
	if !ok1 || !ok2 || end <= start {
		return nil
	}
	var slots []TimeSlot
	for m := start; m+SlotMinutes <= end; m += SlotMinutes {
		slots = append(slots, TimeSlot{
			Time:      clockOf(m),
			Available: !overlapsAny(m, m+SlotMinutes, booked),
		})
	}
	return slots
}

func overlapsAny(from, to int, booked []Appointment) bool {
	for _, a := range booked {
		if a.Status == StatusCancelled {
			continue
		}
		s, ok := extract.Minutes(a.StartTime)
		if !ok {
			continue
		}
		dur := a.DurationMinutes
		if dur <= 0 {
			dur = SlotMinutes
		}
		if from < s+dur && s < to {
			return true
		}
	}
	return false
}

// Fits reports whether a visit of minutes starting at start is covered by
// consecutive available slots.
func Fits(slots []TimeSlot, start string, minutes int) bool {
	idx := -1
	for i, s := range slots {
		if s.Time == start {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	need := (minutes + SlotMinutes - 1) / SlotMinutes
	if need < 1 {
		need = 1
	}
	if idx+need > len(slots) {
		return false
	}
	first, _ := extract.Minutes(slots[idx].Time)
	for i := 0; i < need; i++ {
		s := slots[idx+i]
		m, _ := extract.Minutes(s.Time)
		if !s.Available || m != first+i*SlotMinutes {
			return false
		}
	}
	return true
}

// Available filters slots to the open ones.
func Available(slots []TimeSlot) []TimeSlot {
	var out []TimeSlot
	for _, s := range slots {
		if s.Available {
			out = append(out, s)
		}
	}
	return out
}

// defaultWindow is used when neither the barber nor the shop has hours for
// a weekday: 9 to 19 on weekdays, 10 to 18 on Saturday, 10 to 16 on Sunday.
func defaultWindow(day time.Weekday) (string, string) {
	switch day {
	case time.Saturday:
		return "10:00", "18:00"
	case time.Sunday:
		return "10:00", "16:00"
	default:
		return "09:00", "19:00"
	}
}

func clockOf(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
