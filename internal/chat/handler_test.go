package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/wolfman30/elitecuts-assistant/internal/dialogue"
	"github.com/wolfman30/elitecuts-assistant/pkg/logging"
)

func newTestServer(t *testing.T) (*httptest.Server, *Manager) {
	t.Helper()
	m := newTestManager(t, newScheduler())
	srv := httptest.NewServer(NewHandler(m, logging.New("error")).Routes())
	t.Cleanup(srv.Close)
	return srv, m
}

func createSession(t *testing.T, srv *httptest.Server) View {
	t.Helper()
	resp, err := http.Post(srv.URL+"/sessions", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var v View
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func postMessage(t *testing.T, srv *httptest.Server, id, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/sessions/"+id+"/messages", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHandlerConversation(t *testing.T) {
	srv, _ := newTestServer(t)
	v := createSession(t, srv)
	require.NotEmpty(t, v.ID)
	require.Len(t, v.Transcript, 1)

	resp := postMessage(t, srv, v.ID, `{"text":"I want to book a classic haircut"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var turn TurnResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&turn))
	assert.Equal(t, dialogue.IntentBooking, turn.Intent)
	assert.Equal(t, dialogue.StepBarber, turn.Step)
	assert.Equal(t, "s1", turn.Booking.Data.ServiceID)
	assert.Contains(t, turn.Message.Text, "Classic Haircut")
	assert.False(t, turn.Booked)

	get, err := http.Get(srv.URL + "/sessions/" + v.ID)
	require.NoError(t, err)
	defer get.Body.Close()
	var view View
	require.NoError(t, json.NewDecoder(get.Body).Decode(&view))
	assert.Len(t, view.Transcript, 3)
	assert.Equal(t, dialogue.StepBarber, view.Booking.Step)
}

func TestHandlerErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	v := createSession(t, srv)

	assert.Equal(t, http.StatusBadRequest, postMessage(t, srv, v.ID, `{"text":"   "}`).StatusCode)
	assert.Equal(t, http.StatusBadRequest, postMessage(t, srv, v.ID, `not json`).StatusCode)
	assert.Equal(t, http.StatusNotFound, postMessage(t, srv, "missing", `{"text":"hi"}`).StatusCode)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/sessions/"+v.ID, nil)
	require.NoError(t, err)
	del, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	del.Body.Close()
	assert.Equal(t, http.StatusNoContent, del.StatusCode)

	get, err := http.Get(srv.URL + "/sessions/" + v.ID)
	require.NoError(t, err)
	get.Body.Close()
	assert.Equal(t, http.StatusNotFound, get.StatusCode)
}

func TestStatusFor(t *testing.T) {
	tests := map[error]int{
		ErrEmptyMessage:    http.StatusBadRequest,
		ErrSessionNotFound: http.StatusNotFound,
		ErrSessionClosed:   http.StatusNotFound,
		ErrTurnInProgress:  http.StatusConflict,
		ErrNotLoaded:       http.StatusServiceUnavailable,
		errors.New("boom"): http.StatusInternalServerError,
	}
	for err, want := range tests {
		assert.Equal(t, want, statusFor(err), err.Error())
	}
}

func TestHandlerWebSocket(t *testing.T) {
	srv, _ := newTestServer(t)
	v := createSession(t, srv)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sessions/" + v.ID + "/ws"
	conn, err := websocket.Dial(wsURL, "", srv.URL)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))

	var history OutboundMessage
	require.NoError(t, websocket.JSON.Receive(conn, &history))
	assert.Equal(t, "history", history.Type)
	require.Len(t, history.Messages, 1)

	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "ping"}))
	receiveUntil(t, conn, func(out OutboundMessage) bool { return out.Type == "pong" })

	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "message", Text: "what are your hours?"}))
	reply := receiveUntil(t, conn, func(out OutboundMessage) bool {
		return out.Type == string(EventMessage) && out.Message != nil && out.Message.Sender == SenderBot
	})
	assert.NotEmpty(t, reply.Message.Text)

	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "message", Text: " "}))
	errFrame := receiveUntil(t, conn, func(out OutboundMessage) bool { return out.Type == "error" })
	assert.Equal(t, "message text is required", errFrame.Text)
}

func receiveUntil(t *testing.T, conn *websocket.Conn, match func(OutboundMessage) bool) OutboundMessage {
	t.Helper()
	for {
		var out OutboundMessage
		require.NoError(t, websocket.JSON.Receive(conn, &out))
		if match(out) {
			return out
		}
	}
}

func TestHandlerWebSocketUnknownSession(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/sessions/missing/ws")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
