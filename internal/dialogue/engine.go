package dialogue

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

// Scheduler is the availability and appointment collaborator.
// *bookings.Service satisfies it.
type Scheduler interface {
	CheckBarberWorkingDay(ctx context.Context, barberID, date string) (bookings.WorkingDay, error)
	CheckBarberAvailability(ctx context.Context, barberID, date string) ([]bookings.TimeSlot, error)
	CreateAppointment(ctx context.Context, appt bookings.Appointment) (bookings.Appointment, error)
}

// Outcome labels a booking lifecycle event.
type Outcome string

const (
	OutcomeStarted   Outcome = "started"
	OutcomeCompleted Outcome = "completed"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeRestarted Outcome = "restarted"
	OutcomeFailed    Outcome = "failed"
)

// Observer receives dialogue events, typically to record metrics.
type Observer interface {
	ObserveTurn(intent Intent, from, to Step)
	ObserveBooking(outcome Outcome)
	ObserveExternalCall(op string, err error, d time.Duration)
}

type noopObserver struct{}

func (noopObserver) ObserveTurn(Intent, Step, Step) {}
func (noopObserver) ObserveBooking(Outcome) {}
func (noopObserver) ObserveExternalCall(string, error, time.Duration) {}

// Reply is the bot's answer to one turn. Appointment is set on the turn
// that booked one.
type Reply struct {
	Text        string                `json:"text"`
	Intent      Intent                `json:"intent"`
	Step        Step                  `json:"step"`
	Appointment *bookings.Appointment `json:"appointment,omitempty"`
}

// Engine runs turns. It holds no per-conversation state and is safe for
// concurrent use by many sessions.
type Engine struct {
	scheduler  Scheduler
	classifier *Classifier
	logger     *logging.Logger
	observer   Observer
	now        func() time.Time
	timeout    time.Duration
	horizon    int
	shopName   string
	shopPhone  string
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used to resolve dates. Its location is the
// shop's timezone.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithTimeout bounds every call to the Scheduler.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithHorizonDays rejects dates more than n days ahead. Zero disables it.
func WithHorizonDays(n int) Option {
	return func(e *Engine) { e.horizon = n }
}

// WithShop sets the name and phone used in replies.
func WithShop(name, phone string) Option {
	return func(e *Engine) {
		if name != "" {
			e.shopName = name
		}
		if phone != "" {
			e.shopPhone = phone
		}
	}
}

// WithObserver registers an event observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// NewEngine builds an engine over scheduler.
func NewEngine(scheduler Scheduler, logger *logging.Logger, opts ...Option) *Engine {
	if scheduler == nil {
		panic("dialogue: scheduler required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	e := &Engine{
		scheduler:  scheduler,
		classifier: NewClassifier(),
		logger:     logger,
		observer:   noopObserver{},
		now:        time.Now,
		timeout:    5 * time.Second,
		horizon:    90,
		shopName:   "EliteCuts",
		shopPhone:  "(555) 010-0199",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Welcome is the message that opens every transcript.
func (e *Engine) Welcome() string {
	return fmt.Sprintf("Welcome to %s! I can help you with service information, check barber availability, "+
		"or assist with appointment booking. How can I help you today?", e.shopName)
}

// Classifier exposes the engine's intent classifier.
func (e *Engine) Classifier() *Classifier { return e.classifier }

// turn is the working set of one Step call.
type turn struct {
	e      *Engine
	ctx    context.Context
	snap   *knowledge.Snapshot
	st     State
	raw    string
	text   string
	intent Intent
	update ContextUpdate
	appt   *bookings.Appointment
}

// Step processes one user message. It never fails: parse errors, missing
// data and collaborator failures all become a reply, and the returned state
// is always consistent.
func (e *Engine) Step(ctx context.Context, snap *knowledge.Snapshot, st State, input string) (State, Reply) {
	if snap == nil {
		snap = knowledge.BuiltinSnapshot(e.now())
	}
	if st.Booking.Step == "" || st.Booking.Step == StepComplete {
		st.Booking = NewBookingState()
	}
	from := st.Booking.Step

	t := &turn{
		e:    e,
		ctx:  ctx,
		snap: snap,
		st:   st,
		raw:  strings.TrimSpace(input),
		text: extract.Normalize(input),
	}
	t.intent = e.classifier.Classify(t.text, st, snap)
	text := t.dispatch()

	t.update.Intent = t.intent
	if t.st.Booking.Active() || from.Active() {
		t.update.Topic = TopicBooking
	}
	t.st.Context = t.st.Context.Update(t.update)

	reply := Reply{Text: text, Intent: t.intent, Step: t.st.Booking.Step, Appointment: t.appt}
	e.observer.ObserveTurn(t.intent, from, reply.Step)
	e.logger.Debug("dialogue turn", "intent", t.intent, "step_from", from, "step_to", reply.Step)
	return t.st, reply
}

func (t *turn) dispatch() string {
	switch t.intent {
	case IntentCancel:
		return t.cancel()
	case IntentBookingInput:
		return t.advance()
	case IntentBooking:
		return t.startBooking()
	case IntentOptionPick:
		return t.optionPick()
	case IntentServiceInfo:
		return t.serviceInfo()
	case IntentBarberInfo:
		return t.barberInfo()
	case IntentLocation:
		return t.locationInfo()
	case IntentHours:
		return t.hoursInfo()
	case IntentPromotion:
		return t.promotionInfo()
	case IntentStyleInfo:
		return t.styleInfo()
	case IntentFollowUp:
		return t.followUp()
	case IntentFAQ:
		return t.faq()
	case IntentGreeting:
		return t.greeting()
	case IntentConfirmYes:
		return t.acknowledgeYes()
	case IntentConfirmNo:
		return t.acknowledgeNo()
	default:
		return t.fallback()
	}
}

type callResult[T any] struct {
	val T
	err error
}

// callScheduler runs fn under the engine timeout. The Scheduler may ignore
// ctx, so the wait itself is bounded too.
func callScheduler[T any](t *turn, op, barberID string, fn func(context.Context) (T, error)) (T, error) {
	ctx := t.ctx
	if t.e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.e.timeout)
		defer cancel()
	}

	start := time.Now()
	done := make(chan callResult[T], 1)
	go func() {
		v, err := fn(ctx)
		done <- callResult[T]{val: v, err: err}
	}()

	var res callResult[T]
	select {
	case res = <-done:
	case <-ctx.Done():
		res.err = fmt.Errorf("dialogue: %s: %w", op, ctx.Err())
	}
	t.e.observer.ObserveExternalCall(op, res.err, time.Since(start))
	if res.err != nil {
		t.e.logger.Warn("scheduler call failed", "op", op, "barber_id", barberID, "error", res.err)
	}
	return res.val, res.err
}
