// Package knowledge holds the shop's read-only reference data (services,
// barbers, FAQs, promotions, hours, styles, locations), the loader that
// fetches it once into an immutable Snapshot, and the formatters that render
// it as chat replies.
package knowledge

import (
	"strings"
	"time"
)

// Service is a bookable service.
type Service struct {
	ID              string  `json:"id" yaml:"id"`
	Name            string  `json:"name" yaml:"name"`
	Price           float64 `json:"price" yaml:"price"`
	DurationMinutes int     `json:"duration_minutes" yaml:"duration_minutes"`
	Description     string  `json:"description" yaml:"description"`
}

// Barber is an active member of staff.
type Barber struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Bio      string `json:"bio" yaml:"bio"`
	IsActive bool   `json:"is_active" yaml:"is_active"`
}

// FAQ is a canned question and answer.
type FAQ struct {
	ID       string `json:"id" yaml:"id"`
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
}

// Promotion is an offer, current while ValidUntil (YYYY-MM-DD) is empty or
// not yet passed.
type Promotion struct {
	ID         string `json:"id" yaml:"id"`
	Title      string `json:"title" yaml:"title"`
	Details    string `json:"details" yaml:"details"`
	ValidUntil string `json:"valid_until,omitempty" yaml:"valid_until,omitempty"`
}

// CurrentOn reports whether the promotion is still valid on day.
func (p Promotion) CurrentOn(day time.Time) bool {
	if strings.TrimSpace(p.ValidUntil) == "" {
		return true
	}
	until, err := time.ParseInLocation("2006-01-02", p.ValidUntil, day.Location())
	if err != nil {
		return true
	}
	y, m, d := day.Date()
	return !until.Before(time.Date(y, m, d, 0, 0, 0, 0, day.Location()))
}

// WorkingHours is the shop's schedule for one weekday (0 = Sunday).
type WorkingHours struct {
	DayOfWeek int    `json:"day_of_week" yaml:"day_of_week"`
	OpenTime  string `json:"open_time" yaml:"open_time"`
	CloseTime string `json:"close_time" yaml:"close_time"`
	IsClosed  bool   `json:"is_closed" yaml:"is_closed"`
}

// StyleCategory describes a haircut style.
type StyleCategory struct {
	ID               string   `json:"id" yaml:"id"`
	Name             string   `json:"name" yaml:"name"`
	Description      string   `json:"description" yaml:"description"`
	MaintenanceLevel string   `json:"maintenance_level,omitempty" yaml:"maintenance_level,omitempty"`
	DifficultyLevel  string   `json:"difficulty_level,omitempty" yaml:"difficulty_level,omitempty"`
	SuitableFor      []string `json:"suitable_for,omitempty" yaml:"suitable_for,omitempty"`
}

// Specialization links a barber to an area of expertise.
type Specialization struct {
	BarberID       string `json:"barber_id" yaml:"barber_id"`
	Specialization string `json:"specialization" yaml:"specialization"`
	ExpertiseLevel string `json:"expertise_level,omitempty" yaml:"expertise_level,omitempty"`
}

// Location is a shop address.
type Location struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Address  string `json:"address" yaml:"address"`
	City     string `json:"city" yaml:"city"`
	Phone    string `json:"phone,omitempty" yaml:"phone,omitempty"`
	IsActive bool   `json:"is_active" yaml:"is_active"`
}

// WeekdayName returns the English name for a 0 = Sunday day index.
func WeekdayName(day int) string {
	if day < 0 || day > 6 {
		return "Unknown"
	}
	return time.Weekday(day).String()
}
