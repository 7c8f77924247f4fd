package knowledge

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormattersDegradeOnEmpty(t *testing.T) {
	today := time.Date(2026, 5, 13, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		got  string
	}{
		{"services", FormatServices(nil)},
		{"service details", FormatServiceDetails(Service{})},
		{"barbers", FormatBarbers(nil, nil)},
		{"barber details", FormatBarberDetails(Barber{}, nil)},
		{"hours", FormatHours(nil)},
		{"promotions", FormatPromotions(nil, today)},
		{"styles", FormatStyles(nil)},
		{"locations", FormatLocations(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Unavailable, tt.got)
		})
	}
}

func TestFormatServices(t *testing.T) {
	out := FormatServices(BuiltinServices())
	assert.True(t, strings.HasPrefix(out, "💇‍♂️ Our Services"))
	assert.Contains(t, out, "• Classic Haircut - $35 (30 min)")
	assert.Contains(t, out, "• Hair Coloring - $60 (90 min)")
}

func TestFormatServiceDetails(t *testing.T) {
	svc := Service{ID: "x", Name: "Beard Trim", Price: 25.5, DurationMinutes: 20, Description: "Shape and tidy."}
	out := FormatServiceDetails(svc)
	assert.True(t, strings.HasPrefix(out, "🎯 Service Details"))
	assert.Contains(t, out, "Price: $25.50")
	assert.Contains(t, out, "Duration: 20 minutes")
	assert.Contains(t, out, "Would you like to book a Beard Trim?")
}

func TestFormatBarbersIncludesSpecialties(t *testing.T) {
	out := FormatBarbers(BuiltinBarbers(), BuiltinSpecializations())
	assert.Contains(t, out, "• **Michael Thompson** - Beard Grooming Expert")
	assert.Contains(t, out, "Specialties: Beard Grooming, Shaving")

	detail := FormatBarberDetails(BuiltinBarbers()[2], BuiltinSpecializations())
	assert.Contains(t, detail, "**David Garcia**")
	assert.Contains(t, detail, "with David?")
}

func TestFormatHoursSortsByDay(t *testing.T) {
	hours := []WorkingHours{
		{DayOfWeek: 6, OpenTime: "10:00", CloseTime: "18:00"},
		{DayOfWeek: 1, OpenTime: "09:00", CloseTime: "19:00"},
		{DayOfWeek: 0, OpenTime: "10:00", CloseTime: "16:00"},
		{DayOfWeek: 3, IsClosed: true},
	}
	out := FormatHours(hours)

	lines := strings.Split(out, "\n")
	assert.Equal(t, "⏰ Business Hours", lines[0])
	assert.Equal(t, []string{
		"Sunday: 10:00 AM - 4:00 PM",
		"Monday: 9:00 AM - 7:00 PM",
		"Wednesday: Closed",
		"Saturday: 10:00 AM - 6:00 PM",
	}, lines[2:])

	// input untouched
	assert.Equal(t, 6, hours[0].DayOfWeek)
}

func TestFormatPromotionsFiltersExpired(t *testing.T) {
	today := time.Date(2026, 5, 13, 15, 0, 0, 0, time.UTC)
	promos := []Promotion{
		{ID: "p1", Title: "First-Time Client Special", Details: "20% off"},
		{ID: "p2", Title: "Father's Day Special", ValidUntil: "2023-06-30"},
		{ID: "p3", Title: "Spring Fade Week", ValidUntil: "2026-05-13"},
		{ID: "p4", Title: "Summer Shave", ValidUntil: "2026-07-01"},
	}
	out := FormatPromotions(promos, today)

	assert.True(t, strings.HasPrefix(out, "🎉 Current Promotions"))
	assert.Contains(t, out, "First-Time Client Special")
	assert.NotContains(t, out, "Father's Day")
	assert.Contains(t, out, "Spring Fade Week")
	assert.Contains(t, out, "Valid until July 1, 2026")

	expired := FormatPromotions(promos[1:2], today)
	assert.Contains(t, expired, "don't have any promotions running")
}

func TestFormatStyleAndLocations(t *testing.T) {
	st := BuiltinStyles()[0]
	out := FormatStyle(st)
	assert.Contains(t, out, "**Modern Fade**")
	assert.Contains(t, out, "• Maintenance:")
	assert.Contains(t, FormatStyles(BuiltinStyles()), "Pompadour")

	locs := FormatLocations([]Location{{Name: "Downtown", Address: "1 Main St", City: "Springfield", Phone: "555"}})
	assert.Contains(t, locs, "1 Main St, Springfield")
	assert.Contains(t, locs, "Phone: 555")
}

func TestPrice(t *testing.T) {
	assert.Equal(t, "$35", Price(35))
	assert.Equal(t, "$12.50", Price(12.5))
}
