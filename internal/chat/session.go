// Package chat hosts conversations: per-session transcript and dialogue state,
// turn serialization, and the HTTP and WebSocket surface used by the site's
// chat widget.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wolfman30/elitecuts-assistant/internal/bookings"
	"github.com/wolfman30/elitecuts-assistant/internal/dialogue"
	"github.com/wolfman30/elitecuts-assistant/internal/knowledge"
	"github.com/wolfman30/elitecuts-assistant/pkg/logging"
)

var (
	ErrSessionNotFound = errors.New("chat: session not found")
	ErrSessionClosed   = errors.New("chat: session closed")
	ErrTurnInProgress  = errors.New("chat: a turn is already in progress")
	ErrEmptyMessage    = errors.New("chat: message is empty")
	ErrNotLoaded       = errors.New("chat: shop data not loaded yet")
)

// Sender identifies who wrote a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is one immutable transcript entry.
type Message struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// EventType labels a session event.
type EventType string

const (
	EventMessage EventType = "message"
	EventTyping  EventType = "typing"
	EventLoaded  EventType = "loaded"
)

// Event is pushed to subscribers as the session changes.
type Event struct {
	Type    EventType `json:"type"`
	Message *Message  `json:"message,omitempty"`
	Typing  bool      `json:"typing,omitempty"`
}

// View is a read-only copy of a session.
type View struct {
	ID           string                `json:"id"`
	Transcript   []Message             `json:"transcript"`
	Booking      dialogue.BookingState `json:"booking"`
	Context      dialogue.Context      `json:"context"`
	IsTyping     bool                  `json:"is_typing"`
	IsDataLoaded bool                  `json:"is_data_loaded"`
}

// Confirmer is told about every appointment a session books.
type Confirmer interface {
	Confirm(ctx context.Context, appt bookings.Appointment, snap *knowledge.Snapshot) error
}

// Session is one conversation. Turns are serialized: while one is in flight
// further input is rejected with ErrTurnInProgress.
type Session struct {
	id        string
	engine    *dialogue.Engine
	confirmer Confirmer
	logger    *logging.Logger
	now       func() time.Time

	turn  chan struct{}
	ready chan struct{}
	wg    sync.WaitGroup

	mu         sync.Mutex
	state      dialogue.State
	transcript []Message
	typing     bool
	snap       *knowledge.Snapshot
	lastActive time.Time
	subs       map[int]chan Event
	nextSub    int
	closed     bool
}

type sessionDeps struct {
	engine          *dialogue.Engine
	holder          *knowledge.Holder
	confirmer       Confirmer
	logger          *logging.Logger
	now             func() time.Time
	prefetchTimeout time.Duration
}

// newSession opens a session with the welcome message and starts the
// shop-data prefetch.
func newSession(id string, d sessionDeps) *Session {
	s := &Session{
		id:         id,
		engine:     d.engine,
		confirmer:  d.confirmer,
		logger:     d.logger.WithSession(id),
		now:        d.now,
		turn:       make(chan struct{}, 1),
		ready:      make(chan struct{}),
		state:      dialogue.NewState(),
		lastActive: d.now(),
		subs:       make(map[int]chan Event),
	}
	s.transcript = append(s.transcript, s.message(SenderBot, d.engine.Welcome()))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.prefetch(d.holder, d.prefetchTimeout)
	}()
	return s
}

func (s *Session) prefetch(holder *knowledge.Holder, timeout time.Duration) {
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	var snap *knowledge.Snapshot
	if holder != nil {
		snap = holder.Snapshot(ctx)
	}
	if snap == nil {
		snap = knowledge.BuiltinSnapshot(s.now())
	}

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
	close(s.ready)
	s.publish(Event{Type: EventLoaded})
	s.logger.Debug("session data loaded", "fallback", snap.Fallback.Any())
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

func (s *Session) message(sender Sender, text string) Message {
	return Message{ID: uuid.NewString(), Sender: sender, Text: text, Timestamp: s.now().UTC()}
}

// Send accepts a user message and processes the turn in the background. The
// reply arrives as an event and in the transcript.
func (s *Session) Send(ctx context.Context, text string) error {
	text, err := s.begin(text)
	if err != nil {
		return err
	}
	go func() {
		defer s.end()
		s.process(context.WithoutCancel(ctx), text)
	}()
	return nil
}

// Converse processes a turn and waits for the bot's reply. It fails with
// ErrNotLoaded when ctx ends before the shop data is available.
func (s *Session) Converse(ctx context.Context, text string) (Message, dialogue.Reply, error) {
	select {
	case <-s.ready:
	case <-ctx.Done():
		return Message{}, dialogue.Reply{}, ErrNotLoaded
	}
	text, err := s.begin(text)
	if err != nil {
		return Message{}, dialogue.Reply{}, err
	}
	defer s.end()
	msg, reply := s.process(ctx, text)
	return msg, reply, nil
}

// begin validates input, claims the turn and records the user message. A
// successful begin must be paired with end.
func (s *Session) begin(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyMessage
	}
	select {
	case s.turn <- struct{}{}:
	default:
		return "", ErrTurnInProgress
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		<-s.turn
		return "", ErrSessionClosed
	}
	s.wg.Add(1)
	msg := s.message(SenderUser, text)
	s.transcript = append(s.transcript, msg)
	s.typing = true
	s.lastActive = s.now()
	s.mu.Unlock()

	s.publish(Event{Type: EventMessage, Message: &msg})
	s.publish(Event{Type: EventTyping, Typing: true})
	return text, nil
}

func (s *Session) end() {
	<-s.turn
	s.wg.Done()
}

func (s *Session) process(ctx context.Context, text string) (Message, dialogue.Reply) {
	<-s.ready

	s.mu.Lock()
	state, snap := s.state, s.snap
	s.mu.Unlock()

	next, reply := s.engine.Step(ctx, snap, state, text)
	msg := s.message(SenderBot, reply.Text)

	s.mu.Lock()
	s.state = next
	s.transcript = append(s.transcript, msg)
	s.typing = false
	s.lastActive = s.now()
	s.mu.Unlock()

	s.publish(Event{Type: EventMessage, Message: &msg})
	s.publish(Event{Type: EventTyping, Typing: false})

	if reply.Appointment != nil && s.confirmer != nil {
		s.confirm(*reply.Appointment, snap)
	}
	return msg, reply
}

// confirm sends the booking confirmation outside the turn.
func (s *Session) confirm(appt bookings.Appointment, snap *knowledge.Snapshot) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.confirmer.Confirm(ctx, appt, snap); err != nil {
			s.logger.Warn("booking confirmation failed", "appointment_id", appt.ID, "error", err)
		}
	}()
}

// View returns a snapshot of the session for display.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		ID:           s.id,
		Transcript:   append([]Message(nil), s.transcript...),
		Booking:      s.state.Booking,
		Context:      s.state.Context,
		IsTyping:     s.typing,
		IsDataLoaded: s.snap != nil,
	}
}

// LastActive is when the session last accepted or answered a message.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Subscribe returns a channel of session events and a function that ends the
// subscription. Events are dropped for subscribers that fall behind.
func (s *Session) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 32)
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
			s.mu.Unlock()
		})
	}
}

func (s *Session) publish(evt Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- evt:
		default:
			s.logger.Debug("dropping event for slow subscriber", "type", evt.Type)
		}
	}
}

// Close rejects further input, waits for in-flight work and ends every
// subscription.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.wg.Wait()

	s.mu.Lock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	s.mu.Unlock()
}
