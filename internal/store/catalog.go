// Package store reads the barbershop reference records from Postgres.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/elitecuts-assistant/internal/knowledge"
)

var storeTracer = otel.Tracer("elitecuts.internal.store")

// Catalog is the Postgres knowledge.Source.
type Catalog struct {
	db *sql.DB
}

var _ knowledge.Source = (*Catalog)(nil)

// NewCatalog wraps an open database handle.
func NewCatalog(db *sql.DB) *Catalog {
	if db == nil {
		panic("store: db required")
	}
	return &Catalog{db: db}
}

// queryAll runs query and scans every row with scan.
func queryAll[T any](ctx context.Context, db *sql.DB, name, query string, scan func(*sql.Rows, *T) error) ([]T, error) {
	ctx, span := storeTracer.Start(ctx, "store.fetch")
	defer span.End()
	span.SetAttributes(attribute.String("elitecuts.collection", name))

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("store: load %s: %w", name, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var v T
		if err := scan(rows, &v); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("store: scan %s: %w", name, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("store: load %s: %w", name, err)
	}
	span.SetAttributes(attribute.Int("elitecuts.rows", len(out)))
	return out, nil
}

func (c *Catalog) FetchServices(ctx context.Context) ([]knowledge.Service, error) {
	return queryAll(ctx, c.db, "services", `
		SELECT id, name, price::float8, duration_minutes, COALESCE(description, '')
		FROM services
		ORDER BY name`,
		func(rows *sql.Rows, s *knowledge.Service) error {
			return rows.Scan(&s.ID, &s.Name, &s.Price, &s.DurationMinutes, &s.Description)
		})
}

func (c *Catalog) FetchBarbers(ctx context.Context) ([]knowledge.Barber, error) {
	return queryAll(ctx, c.db, "barbers", `
		SELECT id, name, COALESCE(bio, ''), is_active
		FROM barbers
		WHERE is_active
		ORDER BY name`,
		func(rows *sql.Rows, b *knowledge.Barber) error {
			return rows.Scan(&b.ID, &b.Name, &b.Bio, &b.IsActive)
		})
}

func (c *Catalog) FetchFAQs(ctx context.Context) ([]knowledge.FAQ, error) {
	return queryAll(ctx, c.db, "faqs", `
		SELECT id, question, answer, COALESCE(category, '')
		FROM faqs
		ORDER BY sort_order, id`,
		func(rows *sql.Rows, f *knowledge.FAQ) error {
			return rows.Scan(&f.ID, &f.Question, &f.Answer, &f.Category)
		})
}

// FetchPromotions returns every promotion; filtering to current ones
// happens at format time.
func (c *Catalog) FetchPromotions(ctx context.Context) ([]knowledge.Promotion, error) {
	return queryAll(ctx, c.db, "promotions", `
		SELECT id, title, details, COALESCE(to_char(valid_until, 'YYYY-MM-DD'), '')
		FROM promotions
		ORDER BY valid_until NULLS LAST, id`,
		func(rows *sql.Rows, p *knowledge.Promotion) error {
			return rows.Scan(&p.ID, &p.Title, &p.Details, &p.ValidUntil)
		})
}

func (c *Catalog) FetchWorkingHours(ctx context.Context) ([]knowledge.WorkingHours, error) {
	return queryAll(ctx, c.db, "working_hours", `
		SELECT day_of_week,
		       COALESCE(to_char(open_time, 'HH24:MI'), ''),
		       COALESCE(to_char(close_time, 'HH24:MI'), ''),
		       is_closed
		FROM working_hours`,
		func(rows *sql.Rows, h *knowledge.WorkingHours) error {
			return rows.Scan(&h.DayOfWeek, &h.OpenTime, &h.CloseTime, &h.IsClosed)
		})
}

func (c *Catalog) FetchStyleCategories(ctx context.Context) ([]knowledge.StyleCategory, error) {
	return queryAll(ctx, c.db, "style_categories", `
		SELECT id, name, COALESCE(description, ''), COALESCE(maintenance_level, ''),
		       COALESCE(difficulty_level, ''), COALESCE(suitable_for, '{}')
		FROM style_categories
		ORDER BY name`,
		func(rows *sql.Rows, s *knowledge.StyleCategory) error {
			return rows.Scan(&s.ID, &s.Name, &s.Description, &s.MaintenanceLevel,
				&s.DifficultyLevel, pq.Array(&s.SuitableFor))
		})
}

func (c *Catalog) FetchBarberSpecializations(ctx context.Context) ([]knowledge.Specialization, error) {
	return queryAll(ctx, c.db, "barber_specializations", `
		SELECT barber_id, specialization, COALESCE(expertise_level, '')
		FROM barber_specializations
		ORDER BY barber_id, specialization`,
		func(rows *sql.Rows, s *knowledge.Specialization) error {
			return rows.Scan(&s.BarberID, &s.Specialization, &s.ExpertiseLevel)
		})
}

func (c *Catalog) FetchLocations(ctx context.Context) ([]knowledge.Location, error) {
	return queryAll(ctx, c.db, "locations", `
		SELECT id, name, address, city, COALESCE(phone, ''), is_active
		FROM barbershop_locations
		WHERE is_active
		ORDER BY name`,
		func(rows *sql.Rows, l *knowledge.Location) error {
			return rows.Scan(&l.ID, &l.Name, &l.Address, &l.City, &l.Phone, &l.IsActive)
		})
}
