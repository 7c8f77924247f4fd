package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Calendar is the storage behind availability and appointment creation.
type Calendar interface {
	// Schedule returns the barber's own hours for a weekday; ok is false
	// when the barber follows shop hours that day.
	Schedule(ctx context.Context, barberID string, day time.Weekday) (Schedule, bool, error)
	// Appointments lists the barber's non-cancelled appointments on date.
	Appointments(ctx context.Context, barberID, date string) ([]Appointment, error)
	// Insert stores a new appointment.
	Insert(ctx context.Context, appt Appointment) (Appointment, error)
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository is the Postgres Calendar.
type Repository struct {
	pool querier
}

// NewRepository creates a repository backed by pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("bookings: pgx pool required")
	}
	return &Repository{pool: pool}
}

// newRepositoryWithQuerier allows injecting mocks for tests.
func newRepositoryWithQuerier(q querier) *Repository {
	return &Repository{pool: q}
}

// Schedule loads a barber_schedules row.
func (r *Repository) Schedule(ctx context.Context, barberID string, day time.Weekday) (Schedule, bool, error) {
	query := `
		SELECT to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'), is_working
		FROM barber_schedules
		WHERE barber_id = $1 AND day_of_week = $2
	`
	s := Schedule{BarberID: barberID, DayOfWeek: int(day)}
	err := r.pool.QueryRow(ctx, query, barberID, int(day)).Scan(&s.StartTime, &s.EndTime, &s.IsWorking)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Schedule{}, false, nil
		}
		return Schedule{}, false, fmt.Errorf("bookings: load schedule: %w", err)
	}
	return s, true, nil
}

// Appointments lists the non-cancelled appointments for a barber on date.
func (r *Repository) Appointments(ctx context.Context, barberID, date string) ([]Appointment, error) {
	query := `
		SELECT id, service_id, to_char(start_time, 'HH24:MI'), duration_minutes, status
		FROM appointments
		WHERE barber_id = $1 AND date = $2::date AND status <> 'cancelled'
		ORDER BY start_time
	`
	rows, err := r.pool.Query(ctx, query, barberID, date)
	if err != nil {
		return nil, fmt.Errorf("bookings: list appointments: %w", err)
	}
	defer rows.Close()

	var out []Appointment
	for rows.Next() {
		a := Appointment{BarberID: barberID, Date: date}
		if err := rows.Scan(&a.ID, &a.ServiceID, &a.StartTime, &a.DurationMinutes, &a.Status); err != nil {
			return nil, fmt.Errorf("bookings: scan appointment: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("bookings: list appointments: %w", err)
	}
	return out, nil
}

// Insert stores a confirmed appointment and returns it with its id.
func (r *Repository) Insert(ctx context.Context, appt Appointment) (Appointment, error) {
	if appt.ID == "" {
		appt.ID = uuid.NewString()
	}
	if appt.Status == "" {
		appt.Status = StatusConfirmed
	}
	query := `
		INSERT INTO appointments (
			id, service_id, barber_id, date, start_time, duration_minutes,
			customer_name, customer_email, customer_phone, notes, status, created_at
		) VALUES ($1, $2, $3, $4::date, $5::time, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.pool.Exec(ctx, query,
		appt.ID, appt.ServiceID, appt.BarberID, appt.Date, appt.StartTime, appt.DurationMinutes,
		appt.CustomerName, appt.CustomerEmail, appt.CustomerPhone, appt.Notes, appt.Status,
		toPGTime(time.Now().UTC()),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23P01" {
			return Appointment{}, ErrSlotTaken
		}
		return Appointment{}, fmt.Errorf("bookings: insert appointment: %w", err)
	}
	return appt, nil
}

func toPGTime(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{
		Time:  t,
		Valid: true,
	}
}
