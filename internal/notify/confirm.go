package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/elitecuts-assistant/internal/bookings"
	"github.com/wolfman30/elitecuts-assistant/internal/extract"
	"github.com/wolfman30/elitecuts-assistant/internal/knowledge"
	"github.com/wolfman30/elitecuts-assistant/pkg/logging"
)

// Confirmer emails the customer after a booking is created.
type Confirmer struct {
	email     EmailSender
	shopName  string
	shopPhone string
	logger    *logging.Logger
}

// NewConfirmer creates a Confirmer. A nil sender logs instead of sending.
func NewConfirmer(email EmailSender, shopName, shopPhone string, logger *logging.Logger) *Confirmer {
	if logger == nil {
		logger = logging.Default()
	}
	if email == nil {
		email = NewLogSender(logger)
	}
	if shopName == "" {
		shopName = "EliteCuts"
	}
	return &Confirmer{email: email, shopName: shopName, shopPhone: shopPhone, logger: logger}
}

// Confirm sends the confirmation for appt. Appointments without an email
// address are skipped.
func (c *Confirmer) Confirm(ctx context.Context, appt bookings.Appointment, snap *knowledge.Snapshot) error {
	if strings.TrimSpace(appt.CustomerEmail) == "" {
		c.logger.Debug("notify: no customer email, skipping confirmation", "appointment_id", appt.ID)
		return nil
	}
	msg := c.message(appt, snap)
	if err := c.email.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: send confirmation: %w", err)
	}
	c.logger.Info("booking confirmation sent", "appointment_id", appt.ID)
	return nil
}

func (c *Confirmer) message(appt bookings.Appointment, snap *knowledge.Snapshot) EmailMessage {
	serviceName, barberName := appt.ServiceID, appt.BarberID
	var location *knowledge.Location
	if snap != nil {
		if svc, ok := snap.Service(appt.ServiceID); ok {
			serviceName = svc.Name
		}
		if br, ok := snap.Barber(appt.BarberID); ok {
			barberName = br.Name
		}
		for i := range snap.Locations {
			if snap.Locations[i].IsActive {
				location = &snap.Locations[i]
				break
			}
		}
	}

	when := appt.Date
	if day, err := time.Parse("2006-01-02", appt.Date); err == nil {
		when = extract.HumanDate(day)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", appt.CustomerName)
	fmt.Fprintf(&b, "Your appointment at %s is confirmed.\n\n", c.shopName)
	fmt.Fprintf(&b, "Service: %s\n", serviceName)
	fmt.Fprintf(&b, "Barber: %s\n", barberName)
	fmt.Fprintf(&b, "Date: %s\n", when)
	fmt.Fprintf(&b, "Time: %s\n", extract.HumanClock(appt.StartTime))
	fmt.Fprintf(&b, "Duration: %d minutes\n", appt.DurationMinutes)
	if appt.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", appt.Notes)
	}
	fmt.Fprintf(&b, "Confirmation number: %s\n", appt.ConfirmationNumber())
	if location != nil {
		fmt.Fprintf(&b, "\n%s\n%s, %s\n", location.Name, location.Address, location.City)
	}
	if c.shopPhone != "" {
		fmt.Fprintf(&b, "\nNeed to change something? Call us at %s.\n", c.shopPhone)
	}
	fmt.Fprintf(&b, "\nSee you soon,\n%s\n", c.shopName)

	return EmailMessage{
		To:      appt.CustomerEmail,
		ToName:  appt.CustomerName,
		Subject: fmt.Sprintf("Your %s appointment on %s", c.shopName, when),
		Body:    b.String(),
	}
}
