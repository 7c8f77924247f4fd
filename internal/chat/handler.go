package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/net/websocket"

	"github.com/wolfman30/elitecuts-assistant/internal/dialogue"
	"github.com/wolfman30/elitecuts-assistant/pkg/logging"
)

// Handler exposes sessions over HTTP and WebSocket.
type Handler struct {
	manager *Manager
	logger  *logging.Logger
}

// InboundMessage is what the widget sends over the socket.
type InboundMessage struct {
	Type string `json:"type"` // "message", "ping"
	Text string `json:"text"`
}

// OutboundMessage is what the widget receives over the socket.
type OutboundMessage struct {
	Type     string    `json:"type"` // "history", "message", "typing", "loaded", "pong", "error"
	Message  *Message  `json:"message,omitempty"`
	Messages []Message `json:"messages,omitempty"`
	Typing   bool      `json:"typing,omitempty"`
	Text     string    `json:"text,omitempty"`
}

// TurnResponse is returned by the synchronous message endpoint.
type TurnResponse struct {
	Message Message               `json:"message"`
	Intent  dialogue.Intent       `json:"intent"`
	Step    dialogue.Step         `json:"step"`
	Booking dialogue.BookingState `json:"booking"`
	Booked  bool                  `json:"booked"`
}

// NewHandler creates the chat handler.
func NewHandler(manager *Manager, logger *logging.Logger) *Handler {
	if manager == nil {
		panic("chat: manager required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{manager: manager, logger: logger}
}

// Routes mounts the chat endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/sessions", h.CreateSession)
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Delete("/", h.CloseSession)
		r.Post("/messages", h.SendMessage)
		r.Get("/ws", h.WebSocket)
	})
	return r
}

// CreateSession opens a session and returns its initial view.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s := h.manager.Create()
	writeJSON(w, http.StatusCreated, s.View())
}

// GetSession returns the transcript and state of a session.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.View())
}

// CloseSession discards a session.
func (h *Handler) CloseSession(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.Close(chi.URLParam(r, "sessionID")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SendMessage runs one turn and returns the bot's reply.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	msg, reply, err := s.Converse(r.Context(), req.Text)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TurnResponse{
		Message: msg,
		Intent:  reply.Intent,
		Step:    reply.Step,
		Booking: s.View().Booking,
		Booked:  reply.Appointment != nil,
	})
}

// WebSocket streams session events and accepts messages asynchronously.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, s)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, s *Session) {
	events, unsubscribe := s.Subscribe()
	defer unsubscribe()

	logger := h.logger.WithSession(s.ID())
	_ = websocket.JSON.Send(conn, OutboundMessage{Type: "history", Messages: s.View().Transcript})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for evt := range events {
			out := OutboundMessage{Type: string(evt.Type), Message: evt.Message, Typing: evt.Typing}
			if err := websocket.JSON.Send(conn, out); err != nil {
				logger.Debug("chat: websocket send failed", "error", err)
				return
			}
		}
	}()

	logger.Info("chat: websocket opened")
	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			logger.Debug("chat: websocket closed", "error", err)
			break
		}
		switch msg.Type {
		case "ping":
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "pong"})
		case "message":
			if err := s.Send(conn.Request().Context(), msg.Text); err != nil {
				_ = websocket.JSON.Send(conn, OutboundMessage{Type: "error", Text: errorText(err)})
			}
		}
	}
	unsubscribe()
	<-done
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	s, err := h.manager.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeError(w, err)
		return nil, false
	}
	return s, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrEmptyMessage):
		return http.StatusBadRequest
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrSessionClosed):
		return http.StatusNotFound
	case errors.Is(err, ErrTurnInProgress):
		return http.StatusConflict
	case errors.Is(err, ErrNotLoaded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func errorText(err error) string {
	switch {
	case errors.Is(err, ErrEmptyMessage):
		return "message text is required"
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrSessionClosed):
		return "session not found"
	case errors.Is(err, ErrTurnInProgress):
		return "please wait for the previous reply"
	case errors.Is(err, ErrNotLoaded):
		return "shop information is still loading, please try again"
	default:
		return "internal error"
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("chat: request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": errorText(err)})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
