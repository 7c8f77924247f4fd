package bookings

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wolfman30/elitecuts-assistant/internal/extract"
)

// DefaultSchedules are the per-barber overrides used when no database is
// configured. Michael takes Mondays and Tuesdays off; David starts late on
// Saturdays.
func DefaultSchedules() []Schedule {
	return []Schedule{
		{BarberID: "b2", DayOfWeek: int(time.Monday), IsWorking: false},
		{BarberID: "b2", DayOfWeek: int(time.Tuesday), IsWorking: false},
		{BarberID: "b3", DayOfWeek: int(time.Saturday), StartTime: "12:00", EndTime: "18:00", IsWorking: true},
	}
}

// Memory is an in-process Calendar.
type Memory struct {
	mu        sync.RWMutex
	schedules map[string]Schedule
	appts     []Appointment
}

// NewMemory returns a calendar seeded with schedules.
func NewMemory(schedules []Schedule) *Memory {
	m := &Memory{schedules: make(map[string]Schedule, len(schedules))}
	for _, s := range schedules {
		m.schedules[scheduleKey(s.BarberID, time.Weekday(s.DayOfWeek))] = s
	}
	return m
}

func scheduleKey(barberID string, day time.Weekday) string {
	return barberID + "/" + day.String()
}

// Schedule implements Calendar.
func (m *Memory) Schedule(_ context.Context, barberID string, day time.Weekday) (Schedule, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.schedules[scheduleKey(barberID, day)]
	return s, ok, nil
}

// Appointments implements Calendar.
func (m *Memory) Appointments(_ context.Context, barberID, date string) ([]Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Appointment
	for _, a := range m.appts {
		if a.BarberID == barberID && a.Date == date && a.Status != StatusCancelled {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

// Insert implements Calendar. Overlapping confirmed appointments are
// rejected with ErrSlotTaken.
func (m *Memory) Insert(_ context.Context, appt Appointment) (Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	start, ok := extract.Minutes(appt.StartTime)
	if !ok {
		return Appointment{}, ErrInvalidAppointment
	}
	var same []Appointment
	for _, a := range m.appts {
		if a.BarberID == appt.BarberID && a.Date == appt.Date {
			same = append(same, a)
		}
	}
	if overlapsAny(start, start+appt.DurationMinutes, same) {
		return Appointment{}, ErrSlotTaken
	}
	if appt.ID == "" {
		appt.ID = uuid.NewString()
	}
	if appt.Status == "" {
		appt.Status = StatusConfirmed
	}
	m.appts = append(m.appts, appt)
	return appt, nil
}

// Len reports how many appointments are stored.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.appts)
}
