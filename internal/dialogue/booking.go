package dialogue

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/wolfman30/elitecuts-assistant/internal/bookings"
	"github.com/wolfman30/elitecuts-assistant/internal/extract"
	"github.com/wolfman30/elitecuts-assistant/internal/knowledge"
)

const (
	confirmPrompt = "Is this correct? (Type 'yes' to confirm or 'no' to start over)"
	datePrompt    = "What date would you like to book? You can say 'tomorrow', 'next Friday' or a date like '25/5'."
)

var (
	recommendPattern = regexp.MustCompile(`\b(recommend|recommendation|suggest|suggestion|who|which|best)\b`)
	refersBack       = regexp.MustCompile(`\b(that|it|this|one|them)\b`)
	noPreference     = []string{"no preference", "anyone", "any barber", "anybody", "doesn't matter", "does not matter", "don't care", "don't mind", "do not mind", "whoever", "either"}
)

func (t *turn) cancel() string {
	if !t.st.Booking.Active() {
		return "There's nothing to cancel right now. How can I help you today?"
	}
	t.st.Booking = NewBookingState()
	t.e.observer.ObserveBooking(OutcomeCancelled)
	return "I've cancelled the booking process. Is there anything else I can help you with?"
}

// startBooking opens the dialogue at the service step, selecting the
// service straight away when the message or the context names one.
func (t *turn) startBooking() string {
	t.e.observer.ObserveBooking(OutcomeStarted)
	t.st.Booking = restartAt(StepService)

	m := extract.MatchName(t.text, t.snap.ServiceCandidates(), knowledge.ServiceKeywords)
	switch {
	case m.Found():
		return t.selectService(m.ID)
	case len(m.Ambiguous) > 0:
		return t.offerServices(m.Ambiguous)
	}
	if last := t.st.Context.LastService; last != "" && refersBack.MatchString(t.text) {
		if _, ok := t.snap.Service(last); ok {
			return t.selectService(last)
		}
	}
	return "I'd be happy to help you book an appointment! Which service would you like?\n\n" + serviceMenu(t.snap.Services)
}

// startBookingWith opens the dialogue with a service already chosen.
func (t *turn) startBookingWith(serviceID string) string {
	t.e.observer.ObserveBooking(OutcomeStarted)
	t.st.Booking = restartAt(StepService)
	return t.selectService(serviceID)
}

// advance feeds the message to the current step.
func (t *turn) advance() string {
	switch t.st.Booking.Step {
	case StepService:
		return t.serviceStep()
	case StepBarber:
		return t.barberStep()
	case StepDate:
		return t.dateStep()
	case StepTime:
		return t.timeStep()
	case StepName:
		return t.nameStep()
	case StepEmail:
		return t.emailStep()
	case StepPhone:
		return t.phoneStep()
	case StepNotes:
		return t.notesStep()
	case StepConfirm:
		return t.confirmStep()
	}
	t.st.Booking = NewBookingState()
	return t.fallback()
}

func (t *turn) serviceStep() string {
	if opts := t.st.Booking.Options; len(opts) > 0 {
		if c, ok := extract.Choose(t.text, opts); ok {
			return t.selectService(c.ID)
		}
	}
	m := extract.MatchName(t.text, t.snap.ServiceCandidates(), knowledge.ServiceKeywords)
	switch {
	case m.Found():
		return t.selectService(m.ID)
	case len(m.Ambiguous) > 0:
		return t.offerServices(m.Ambiguous)
	}
	return "I couldn't find that service. Please choose one of these:\n\n" + serviceMenu(t.snap.Services)
}

func (t *turn) offerServices(options []extract.Candidate) string {
	t.st.Booking.Options = options
	var b strings.Builder
	b.WriteString("We have a few services that match:\n\n")
	for i, o := range options {
		svc, _ := t.snap.Service(o.ID)
		fmt.Fprintf(&b, "%d. %s - %s (%d min)\n", i+1, svc.Name, knowledge.Price(svc.Price), svc.DurationMinutes)
	}
	b.WriteString("\nWhich one would you like?")
	return b.String()
}

func (t *turn) selectService(id string) string {
	svc, ok := t.snap.Service(id)
	if !ok {
		return "I couldn't find that service. Please choose one of these:\n\n" + serviceMenu(t.snap.Services)
	}
	b := &t.st.Booking
	b.Data.ServiceID = svc.ID
	b.Options = nil
	b.Step = StepBarber
	t.update.Service = svc.ID

	head := fmt.Sprintf("Great! You've selected %s (%s, %d min).", svc.Name, knowledge.Price(svc.Price), svc.DurationMinutes)
	rec, ok := t.snap.Recommend(svc)
	if !ok {
		return head + "\n\nWhich barber would you prefer?"
	}
	b.Recommended = rec.Barber.ID
	return head + "\n\n" +
		knowledge.FormatRecommendation(rec, t.snap.Shortlist(svc), t.snap.Specializations) +
		fmt.Sprintf("\n\nWhich barber would you prefer? Reply with a name, or 'yes' to book with %s.", firstName(rec.Barber.Name))
}

// matchBarber resolves a barber by full or partial name, or by first name.
func (t *turn) matchBarber() (string, []extract.Candidate) {
	m := extract.MatchName(t.text, t.snap.BarberCandidates(), nil)
	if m.Found() {
		return m.ID, nil
	}
	if id := barberByFirstName(t.text, t.snap); id != "" {
		return id, nil
	}
	return "", m.Ambiguous
}

func (t *turn) barberStep() string {
	b := &t.st.Booking
	id, ambiguous := t.matchBarber()
	switch {
	case id != "":
		return t.selectBarber(id)
	case b.Recommended != "" && extract.ContainsAnyPhrase(t.text, noPreference...):
		return t.selectBarber(b.Recommended)
	case recommendPattern.MatchString(t.text):
		return t.recommendBarber()
	case b.Recommended != "" && extract.Affirmative(t.text):
		return t.selectBarber(b.Recommended)
	case extract.Negative(t.text):
		return "No problem. Which barber would you like instead?\n\n" + knowledge.FormatBarbers(t.snap.Barbers, t.snap.Specializations)
	case len(ambiguous) > 0:
		names := make([]string, len(ambiguous))
		for i, c := range ambiguous {
			names[i] = c.Name
		}
		return "Did you mean " + strings.Join(names, " or ") + "?"
	}
	return "I couldn't find that barber. Please choose one of our barbers:\n\n" +
		knowledge.FormatBarbers(t.snap.Barbers, t.snap.Specializations)
}

func (t *turn) recommendBarber() string {
	svc, _ := t.snap.Service(t.st.Booking.Data.ServiceID)
	rec, ok := t.snap.Recommend(svc)
	if !ok {
		return knowledge.Unavailable
	}
	t.st.Booking.Recommended = rec.Barber.ID
	return knowledge.FormatRecommendation(rec, t.snap.Shortlist(svc), t.snap.Specializations) +
		fmt.Sprintf("\n\nWould you like to book with %s?", firstName(rec.Barber.Name))
}

func (t *turn) selectBarber(id string) string {
	br, ok := t.snap.Barber(id)
	if !ok {
		return "I couldn't find that barber. Please choose one of our barbers:\n\n" +
			knowledge.FormatBarbers(t.snap.Barbers, t.snap.Specializations)
	}
	t.st.Booking.Data.BarberID = br.ID
	t.st.Booking.Step = StepDate
	t.update.Barber = br.ID
	return fmt.Sprintf("%s it is! %s", br.Name, datePrompt)
}

func (t *turn) serviceMinutes() int {
	svc, ok := t.snap.Service(t.st.Booking.Data.ServiceID)
	if !ok || svc.DurationMinutes <= 0 {
		return bookings.SlotMinutes
	}
	return svc.DurationMinutes
}

func (t *turn) barberFirstName() string {
	br, _ := t.snap.Barber(t.st.Booking.Data.BarberID)
	if br.Name == "" {
		return "your barber"
	}
	return firstName(br.Name)
}

func (t *turn) availabilityTrouble() string {
	return fmt.Sprintf("I'm having trouble checking availability right now. Please try another date, or call us at %s.", t.e.shopPhone)
}

func (t *turn) dateStep() string {
	now := t.e.now()
	day, err := extract.Date(t.text, now)
	switch {
	case errors.Is(err, extract.ErrInvalidDate):
		return "That date doesn't exist on the calendar. Please choose another date."
	case errors.Is(err, extract.ErrPastDate):
		return "That date has already passed. Please choose a future date."
	case err != nil:
		return "Sorry, I didn't catch a date. " + datePrompt
	}
	today := extract.StartOfDay(now)
	if t.e.horizon > 0 && day.After(today.AddDate(0, 0, t.e.horizon)) {
		return fmt.Sprintf("We take bookings up to %d days ahead. Please choose an earlier date.", t.e.horizon)
	}

	barberID := t.st.Booking.Data.BarberID
	date := extract.FormatDate(day)
	first := t.barberFirstName()

	wd, err := callScheduler(t, "working_day", barberID, func(ctx context.Context) (bookings.WorkingDay, error) {
		return t.e.scheduler.CheckBarberWorkingDay(ctx, barberID, date)
	})
	if err != nil {
		return t.availabilityTrouble()
	}
	if !wd.IsWorking {
		return fmt.Sprintf("Sorry, %s isn't available on %s. Please choose another date.", first, extract.HumanDate(day))
	}

	open, err := t.openTimes(barberID, day)
	if err != nil {
		return t.availabilityTrouble()
	}
	if len(open) == 0 {
		return fmt.Sprintf("Sorry, %s is fully booked on %s. Please choose another date.", first, extract.HumanDate(day))
	}

	t.st.Booking.Data.Date = date
	t.st.Booking.Step = StepTime
	return fmt.Sprintf("%s has these times available on %s:\n\n%s\n\nWhat time works best for you?",
		first, extract.HumanDate(day), timeMenu(open))
}

// openTimes lists the start times on day where the chosen service fits.
// Times already past are dropped when day is today.
func (t *turn) openTimes(barberID string, day time.Time) ([]string, error) {
	date := extract.FormatDate(day)
	slots, err := callScheduler(t, "availability", barberID, func(ctx context.Context) ([]bookings.TimeSlot, error) {
		return t.e.scheduler.CheckBarberAvailability(ctx, barberID, date)
	})
	if err != nil {
		return nil, err
	}

	now := t.e.now()
	cutoff := -1
	if extract.StartOfDay(now).Equal(extract.StartOfDay(day)) {
		cutoff = now.Hour()*60 + now.Minute()
	}
	minutes := t.serviceMinutes()
	var out []string
	for _, s := range slots {
		if m, ok := extract.Minutes(s.Time); !ok || m <= cutoff {
			continue
		}
		if bookings.Fits(slots, s.Time, minutes) {
			out = append(out, s.Time)
		}
	}
	return out, nil
}

// backToDate clears the chosen date and returns to the date step.
func (t *turn) backToDate(msg string) string {
	t.st.Booking.Data.Date = ""
	t.st.Booking.Data.Time = ""
	t.st.Booking.Step = StepDate
	return msg
}

func (t *turn) timeStep() string {
	b := &t.st.Booking
	day, err := time.ParseInLocation("2006-01-02", b.Data.Date, t.e.now().Location())
	if err != nil {
		return t.backToDate("Let's pick the date again. " + datePrompt)
	}

	open, err := t.openTimes(b.Data.BarberID, day)
	if err != nil {
		return t.backToDate("I couldn't confirm the available times just now. Which date would you like instead?")
	}
	if len(open) == 0 {
		return t.backToDate(fmt.Sprintf("Sorry, %s has no times left on %s. Please choose another date.",
			t.barberFirstName(), extract.HumanDate(day)))
	}

	tod, err := extract.Time(t.text)
	if err != nil {
		return fmt.Sprintf("Please choose one of the available times, for example '%s':\n\n%s",
			extract.HumanClock(open[0]), timeMenu(open))
	}

	pick := ""
	for _, slot := range open {
		if tod.Exact() && slot == tod.Clock {
			pick = slot
			break
		}
		if !tod.Exact() && extract.BucketOf(slot) == tod.Bucket {
			pick = slot
			break
		}
	}
	if pick == "" {
		if tod.Exact() {
			return fmt.Sprintf("Sorry, %s isn't available. Please pick one of these times:\n\n%s",
				extract.HumanClock(tod.Clock), timeMenu(open))
		}
		return fmt.Sprintf("Sorry, there are no %s times left. Please pick one of these times:\n\n%s",
			tod.Bucket, timeMenu(open))
	}

	b.Data.Time = pick
	b.Step = StepName
	return fmt.Sprintf("Perfect! %s on %s with %s.\n\nMay I have your full name for the booking?",
		extract.HumanClock(pick), extract.HumanDate(day), t.barberFirstName())
}

func (t *turn) nameStep() string {
	if !extract.ValidName(t.raw) {
		return "Please enter your full name (at least 2 characters)."
	}
	name := strings.Join(strings.Fields(t.raw), " ")
	t.st.Booking.Data.Name = name
	t.st.Booking.Step = StepEmail
	return fmt.Sprintf("Thanks, %s! What's your email address?", firstName(name))
}

func (t *turn) emailStep() string {
	email := strings.TrimSpace(t.raw)
	if !extract.ValidEmail(email) {
		return "That doesn't look like a valid email address. Please enter it like name@example.com."
	}
	t.st.Booking.Data.Email = strings.ToLower(email)
	t.st.Booking.Step = StepPhone
	return "Got it. What's the best phone number to reach you?"
}

func (t *turn) phoneStep() string {
	if !extract.ValidPhone(t.raw) {
		return "Please enter a valid phone number (7 to 15 digits, for example 555-123-4567)."
	}
	t.st.Booking.Data.Phone = t.raw
	t.st.Booking.Step = StepNotes
	return "Any special requests or notes for your barber? Type 'none' if you don't have any."
}

func (t *turn) notesStep() string {
	notes := t.raw
	if strings.EqualFold(strings.TrimRight(notes, ".!? "), "none") {
		notes = ""
	}
	t.st.Booking.Data.Notes = &notes
	t.st.Booking.Step = StepConfirm
	return t.summary()
}

func (t *turn) summary() string {
	d := t.st.Booking.Data
	svc, _ := t.snap.Service(d.ServiceID)
	br, _ := t.snap.Barber(d.BarberID)
	day, _ := time.Parse("2006-01-02", d.Date)
	notes := "None"
	if d.Notes != nil && *d.Notes != "" {
		notes = *d.Notes
	}

	var b strings.Builder
	b.WriteString("📋 Booking Summary\n\n")
	fmt.Fprintf(&b, "Service: %s (%s, %d min)\n", svc.Name, knowledge.Price(svc.Price), svc.DurationMinutes)
	fmt.Fprintf(&b, "Barber: %s\n", br.Name)
	fmt.Fprintf(&b, "Date: %s\n", extract.HumanDate(day))
	fmt.Fprintf(&b, "Time: %s\n", extract.HumanClock(d.Time))
	fmt.Fprintf(&b, "Name: %s\n", d.Name)
	fmt.Fprintf(&b, "Email: %s\n", d.Email)
	fmt.Fprintf(&b, "Phone: %s\n", d.Phone)
	fmt.Fprintf(&b, "Notes: %s\n\n", notes)
	b.WriteString(confirmPrompt)
	return b.String()
}

// confirmStep submits only on an unqualified yes and restarts only on an
// unqualified no. Mixed or negated answers re-prompt.
func (t *turn) confirmStep() string {
	no, yes := extract.Negative(t.text), extract.Confirms(t.text)
	switch {
	case no && !yes:
		t.st.Booking = restartAt(StepService)
		t.e.observer.ObserveBooking(OutcomeRestarted)
		return "No problem, let's start over. Which service would you like?\n\n" + serviceMenu(t.snap.Services)
	case yes && !no:
		return t.submit()
	}
	return "Please type 'yes' to confirm your booking or 'no' to start over."
}

func (t *turn) submit() string {
	d := t.st.Booking.Data
	appt := bookings.Appointment{
		ServiceID:       d.ServiceID,
		BarberID:        d.BarberID,
		Date:            d.Date,
		StartTime:       d.Time,
		DurationMinutes: t.serviceMinutes(),
		CustomerName:    d.Name,
		CustomerEmail:   d.Email,
		CustomerPhone:   d.Phone,
	}
	if d.Notes != nil {
		appt.Notes = *d.Notes
	}
	svc, _ := t.snap.Service(d.ServiceID)
	br, _ := t.snap.Barber(d.BarberID)

	row, err := callScheduler(t, "create_appointment", d.BarberID, func(ctx context.Context) (bookings.Appointment, error) {
		return t.e.scheduler.CreateAppointment(ctx, appt)
	})
	t.st.Booking = NewBookingState()
	if err != nil {
		t.e.observer.ObserveBooking(OutcomeFailed)
		if errors.Is(err, bookings.ErrSlotTaken) {
			return fmt.Sprintf("Sorry, that time was just taken. Please start a new booking to pick another time, or call us at %s.", t.e.shopPhone)
		}
		return fmt.Sprintf("I'm sorry, I couldn't complete your booking. Please try again or contact us at %s.", t.e.shopPhone)
	}

	t.e.observer.ObserveBooking(OutcomeCompleted)
	t.appt = &row
	day, _ := time.Parse("2006-01-02", row.Date)
	return fmt.Sprintf("✅ Your appointment is confirmed!\n\n%s with %s on %s at %s.\nConfirmation number: %s\n\n"+
		"We look forward to seeing you at %s! Is there anything else I can help you with?",
		svc.Name, br.Name, extract.HumanDate(day), extract.HumanClock(row.StartTime), row.ConfirmationNumber(), t.e.shopName)
}

// serviceMenu is the short service list used in booking prompts.
func serviceMenu(services []knowledge.Service) string {
	if len(services) == 0 {
		return knowledge.Unavailable
	}
	var b strings.Builder
	for _, s := range services {
		fmt.Fprintf(&b, "• %s - %s (%d min)\n", s.Name, knowledge.Price(s.Price), s.DurationMinutes)
	}
	return strings.TrimRight(b.String(), "\n")
}

// timeMenu groups start times by part of day.
func timeMenu(times []string) string {
	groups := map[string][]string{}
	for _, tm := range times {
		bucket := extract.BucketOf(tm)
		groups[bucket] = append(groups[bucket], extract.HumanClock(tm))
	}
	var lines []string
	for _, bucket := range []string{extract.BucketMorning, extract.BucketAfternoon, extract.BucketEvening} {
		if len(groups[bucket]) == 0 {
			continue
		}
		label := strings.ToUpper(bucket[:1]) + bucket[1:]
		lines = append(lines, label+": "+strings.Join(groups[bucket], ", "))
	}
	return strings.Join(lines, "\n")
}
