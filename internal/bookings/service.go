package bookings

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/elitecuts-assistant/internal/extract"
	"github.com/wolfman30/elitecuts-assistant/internal/knowledge"
	"github.com/wolfman30/elitecuts-assistant/pkg/logging"
)

var bookingsTracer = otel.Tracer("elitecuts.internal.bookings")

// HoursFunc returns the shop's weekly working hours.
type HoursFunc func(ctx context.Context) []knowledge.WorkingHours

// Service answers availability questions and books appointments.
type Service struct {
	cal    Calendar
	hours  HoursFunc
	logger *logging.Logger
}

// NewService constructs a bookings service. hours may be nil, in which case
// only barber schedules and the default window apply.
func NewService(cal Calendar, hours HoursFunc, logger *logging.Logger) *Service {
	if cal == nil {
		panic("bookings: calendar required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{cal: cal, hours: hours, logger: logger}
}

// CheckBarberWorkingDay reports whether barberID works on date (YYYY-MM-DD).
// A barber's own schedule wins over shop hours.
func (s *Service) CheckBarberWorkingDay(ctx context.Context, barberID, date string) (WorkingDay, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return WorkingDay{}, fmt.Errorf("bookings: parse date %q: %w", date, err)
	}
	weekday := day.Weekday()
	out := WorkingDay{DayName: weekday.String()}

	sched, ok, err := s.cal.Schedule(ctx, barberID, weekday)
	if err != nil {
		return WorkingDay{}, err
	}
	if ok {
		if !sched.IsWorking {
			return out, nil
		}
		out.IsWorking, out.Open, out.Close = true, sched.StartTime, sched.EndTime
		return out, nil
	}

	if s.hours != nil {
		for _, h := range s.hours(ctx) {
			if h.DayOfWeek != int(weekday) {
				continue
			}
			if h.IsClosed {
				return out, nil
			}
			out.IsWorking, out.Open, out.Close = true, h.OpenTime, h.CloseTime
			return out, nil
		}
	}

	out.IsWorking = true
	out.Open, out.Close = defaultWindow(weekday)
	return out, nil
}

// CheckBarberAvailability lists every slot of the barber's day with its
// availability. It returns no slots when the barber is off.
func (s *Service) CheckBarberAvailability(ctx context.Context, barberID, date string) ([]TimeSlot, error) {
	ctx, span := bookingsTracer.Start(ctx, "bookings.availability")
	defer span.End()
	span.SetAttributes(
		attribute.String("elitecuts.barber_id", barberID),
		attribute.String("elitecuts.date", date),
	)

	wd, err := s.CheckBarberWorkingDay(ctx, barberID, date)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if !wd.IsWorking {
		return nil, nil
	}
	booked, err := s.cal.Appointments(ctx, barberID, date)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	slots := GenerateSlots(wd.Open, wd.Close, booked)
	span.SetAttributes(attribute.Int("elitecuts.slots_open", len(Available(slots))))
	return slots, nil
}

// CreateAppointment validates appt, rechecks the slot and stores it as
// confirmed.
func (s *Service) CreateAppointment(ctx context.Context, appt Appointment) (Appointment, error) {
	ctx, span := bookingsTracer.Start(ctx, "bookings.create")
	defer span.End()
	span.SetAttributes(
		attribute.String("elitecuts.barber_id", appt.BarberID),
		attribute.String("elitecuts.service_id", appt.ServiceID),
	)

	if err := appt.Validate(); err != nil {
		span.RecordError(err)
		return Appointment{}, err
	}
	booked, err := s.cal.Appointments(ctx, appt.BarberID, appt.Date)
	if err != nil {
		span.RecordError(err)
		return Appointment{}, err
	}
	start, _ := extract.Minutes(appt.StartTime)
	if overlapsAny(start, start+appt.DurationMinutes, booked) {
		span.RecordError(ErrSlotTaken)
		return Appointment{}, ErrSlotTaken
	}

	if appt.ID == "" {
		appt.ID = uuid.NewString()
	}
	appt.Status = StatusConfirmed
	row, err := s.cal.Insert(ctx, appt)
	if err != nil {
		span.RecordError(err)
		return Appointment{}, err
	}
	s.logger.Info("appointment confirmed",
		"appointment_id", row.ID,
		"barber_id", row.BarberID,
		"service_id", row.ServiceID,
		"date", row.Date,
		"start", row.StartTime,
	)
	return row, nil
}
