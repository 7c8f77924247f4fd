package knowledge

import (
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/elitecuts-assistant/internal/extract"
)

// Unavailable is the reply when a collection could not be loaded.
const Unavailable = "I'm having trouble accessing that information right now. Please try again later or contact us directly."

// Price renders a price without trailing zeros for whole amounts.
func Price(p float64) string {
	if p == float64(int64(p)) {
		return fmt.Sprintf("$%d", int64(p))
	}
	return fmt.Sprintf("$%.2f", p)
}

// FormatServices lists every service with price and duration.
func FormatServices(services []Service) string {
	if len(services) == 0 {
		return Unavailable
	}
	var b strings.Builder
	b.WriteString("💇‍♂️ Our Services\n\n")
	for _, s := range services {
		fmt.Fprintf(&b, "• %s - %s (%d min)\n", s.Name, Price(s.Price), s.DurationMinutes)
		if s.Description != "" {
			fmt.Fprintf(&b, "  %s\n", s.Description)
		}
	}
	b.WriteString("\nWould you like to book one of these services?")
	return b.String()
}

// FormatServiceDetails describes one service.
func FormatServiceDetails(s Service) string {
	if s.ID == "" && s.Name == "" {
		return Unavailable
	}
	var b strings.Builder
	b.WriteString("🎯 Service Details\n\n")
	fmt.Fprintf(&b, "**%s**\n", s.Name)
	fmt.Fprintf(&b, "Price: %s\n", Price(s.Price))
	fmt.Fprintf(&b, "Duration: %d minutes\n", s.DurationMinutes)
	if s.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", s.Description)
	}
	fmt.Fprintf(&b, "\nWould you like to book a %s?", s.Name)
	return b.String()
}

// FormatBarbers lists the barbers with their specialties.
func FormatBarbers(barbers []Barber, specs []Specialization) string {
	if len(barbers) == 0 {
		return Unavailable
	}
	var b strings.Builder
	b.WriteString("👨‍💼 Our Barbers\n\n")
	for _, br := range barbers {
		writeBarberLine(&b, br, specs)
	}
	b.WriteString("\nWould you like to book with one of our barbers?")
	return b.String()
}

// FormatBarberDetails describes one barber.
func FormatBarberDetails(br Barber, specs []Specialization) string {
	if br.ID == "" && br.Name == "" {
		return Unavailable
	}
	var b strings.Builder
	fmt.Fprintf(&b, "👨‍💼 **%s**\n\n", br.Name)
	if br.Bio != "" {
		fmt.Fprintf(&b, "%s\n", br.Bio)
	}
	if names := specialtiesOf(br.ID, specs); len(names) > 0 {
		fmt.Fprintf(&b, "Specialties: %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(&b, "\nWould you like to book an appointment with %s?", firstName(br.Name))
	return b.String()
}

func writeBarberLine(b *strings.Builder, br Barber, specs []Specialization) {
	fmt.Fprintf(b, "• **%s**", br.Name)
	if br.Bio != "" {
		fmt.Fprintf(b, " - %s", br.Bio)
	}
	b.WriteString("\n")
	if names := specialtiesOf(br.ID, specs); len(names) > 0 {
		fmt.Fprintf(b, "  Specialties: %s\n", strings.Join(names, ", "))
	}
}

func specialtiesOf(barberID string, specs []Specialization) []string {
	var out []string
	for _, sp := range specs {
		if sp.BarberID == barberID && sp.Specialization != "" {
			out = append(out, sp.Specialization)
		}
	}
	return out
}

func firstName(name string) string {
	if fields := strings.Fields(name); len(fields) > 0 {
		return fields[0]
	}
	return name
}

// FormatHours renders the weekly schedule, Sunday first, whatever the
// storage order.
func FormatHours(hours []WorkingHours) string {
	if len(hours) == 0 {
		return Unavailable
	}
	var b strings.Builder
	b.WriteString("⏰ Business Hours\n\n")
	for _, h := range sortHours(hours) {
		if h.IsClosed {
			fmt.Fprintf(&b, "%s: Closed\n", WeekdayName(h.DayOfWeek))
			continue
		}
		fmt.Fprintf(&b, "%s: %s - %s\n", WeekdayName(h.DayOfWeek), extract.HumanClock(h.OpenTime), extract.HumanClock(h.CloseTime))
	}
	return strings.TrimRight(b.String(), "\n")
}

// CurrentPromotions filters to promotions still valid on today.
func CurrentPromotions(promos []Promotion, today time.Time) []Promotion {
	var out []Promotion
	for _, p := range promos {
		if p.CurrentOn(today) {
			out = append(out, p)
		}
	}
	return out
}

// FormatPromotions lists the promotions valid on today.
func FormatPromotions(promos []Promotion, today time.Time) string {
	if len(promos) == 0 {
		return Unavailable
	}
	current := CurrentPromotions(promos, today)
	if len(current) == 0 {
		return "We don't have any promotions running right now. Check back soon!"
	}
	var b strings.Builder
	b.WriteString("🎉 Current Promotions\n\n")
	for _, p := range current {
		writePromotion(&b, p)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatPromotion describes one promotion.
func FormatPromotion(p Promotion) string {
	var b strings.Builder
	writePromotion(&b, p)
	return strings.TrimRight(b.String(), "\n")
}

func writePromotion(b *strings.Builder, p Promotion) {
	fmt.Fprintf(b, "• **%s**\n", p.Title)
	if p.Details != "" {
		fmt.Fprintf(b, "  %s\n", p.Details)
	}
	if until, err := time.Parse("2006-01-02", p.ValidUntil); err == nil {
		fmt.Fprintf(b, "  Valid until %s\n", until.Format("January 2, 2006"))
	}
}

// FormatStyles lists the style catalog.
func FormatStyles(styles []StyleCategory) string {
	if len(styles) == 0 {
		return Unavailable
	}
	var b strings.Builder
	b.WriteString("✂️ Popular Styles\n\n")
	for _, s := range styles {
		fmt.Fprintf(&b, "• **%s**", s.Name)
		if s.Description != "" {
			fmt.Fprintf(&b, " - %s", s.Description)
		}
		b.WriteString("\n")
	}
	b.WriteString("\nAsk me about any of these styles for more details.")
	return b.String()
}

// FormatStyle describes one style.
func FormatStyle(s StyleCategory) string {
	var b strings.Builder
	fmt.Fprintf(&b, "💇‍♂️ **%s**\n\n", s.Name)
	if s.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", s.Description)
	}
	if len(s.SuitableFor) > 0 {
		fmt.Fprintf(&b, "• Suitable for: %s\n", strings.Join(s.SuitableFor, ", "))
	}
	if s.MaintenanceLevel != "" {
		fmt.Fprintf(&b, "• Maintenance: %s\n", s.MaintenanceLevel)
	}
	if s.DifficultyLevel != "" {
		fmt.Fprintf(&b, "• Difficulty: %s\n", s.DifficultyLevel)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatLocations lists the active shop locations.
func FormatLocations(locs []Location) string {
	if len(locs) == 0 {
		return Unavailable
	}
	var b strings.Builder
	b.WriteString("📍 Our Locations\n\n")
	for _, l := range locs {
		fmt.Fprintf(&b, "• **%s**\n", l.Name)
		addr := strings.TrimSpace(strings.Trim(l.Address+", "+l.City, ", "))
		if addr != "" {
			fmt.Fprintf(&b, "  %s\n", addr)
		}
		if l.Phone != "" {
			fmt.Fprintf(&b, "  Phone: %s\n", l.Phone)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatFAQ renders a matched FAQ.
func FormatFAQ(f FAQ) string {
	return fmt.Sprintf("❓ %s\n\n%s", f.Question, f.Answer)
}
