package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

type statusRecorder struct {
	mu       sync.Mutex
	statuses []Status
}

func (r *statusRecorder) record(s Status) {
	r.mu.Lock()
	r.statuses = append(r.statuses, s)
	r.mu.Unlock()
}

func (r *statusRecorder) snapshot() []Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Status(nil), r.statuses...)
}

func TestConnectAuthenticatesAndRelaysFrames(t *testing.T) {
	received := make(chan Frame, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("token") != "tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if !assert.NoError(t, err) {
			return
		}
		defer conn.Close()

		var frame Frame
		if err := conn.ReadJSON(&frame); err == nil {
			received <- frame
		}
		_ = conn.WriteJSON(Frame{Event: EventNewMessage, Data: json.RawMessage(`{"chatId":"c1","content":"xin chào"}`)})
		_, _, _ = conn.ReadMessage()
	}))
	defer server.Close()

	client := NewClient(Options{URL: wsURL(server), Token: "tok", ReconnectDelay: 10 * time.Millisecond})
	defer client.Close()

	messages := make(chan json.RawMessage, 1)
	client.On(EventNewMessage, func(data json.RawMessage) { messages <- data })

	require.NoError(t, client.Connect(context.Background()))
	assert.Equal(t, StatusConnected, client.Status())

	require.NoError(t, client.Emit(EventJoinChat, map[string]string{"chatId": "c1"}))

	select {
	case frame := <-received:
		assert.Equal(t, EventJoinChat, frame.Event)
		assert.JSONEq(t, `{"chatId":"c1"}`, string(frame.Data))
	case <-time.After(2 * time.Second):
		t.Fatal("server never received the emitted frame")
	}

	select {
	case data := <-messages:
		assert.JSONEq(t, `{"chatId":"c1","content":"xin chào"}`, string(data))
	case <-time.After(2 * time.Second):
		t.Fatal("handler never received the server frame")
	}
}

func TestConnectFailureReportsFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(Options{URL: wsURL(server)})
	err := client.Connect(context.Background())
	require.Error(t, err)
	assert.Equal(t, StatusFailed, client.Status())
	assert.ErrorIs(t, client.Emit(EventTyping, nil), ErrNotConnected)
}

func TestReconnectIsBoundedAndObservable(t *testing.T) {
	var dials int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&dials, 1) > 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn.Close()
	}))
	defer server.Close()

	client := NewClient(Options{
		URL:               wsURL(server),
		ReconnectAttempts: 3,
		ReconnectDelay:    5 * time.Millisecond,
		HandshakeTimeout:  time.Second,
	})
	defer client.Close()

	recorder := &statusRecorder{}
	client.OnStatus(recorder.record)

	require.NoError(t, client.Connect(context.Background()))
	require.Eventually(t, func() bool {
		return client.Status() == StatusFailed
	}, 3*time.Second, 5*time.Millisecond)

	assert.Equal(t, int32(4), atomic.LoadInt32(&dials))
	assert.Equal(t, []Status{StatusConnecting, StatusConnected, StatusReconnecting, StatusFailed}, recorder.snapshot())
}

func TestReconnectRestoresConnection(t *testing.T) {
	var dials int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		if atomic.AddInt32(&dials, 1) == 1 {
			conn.Close()
			return
		}
		defer conn.Close()
		_, _, _ = conn.ReadMessage()
	}))
	defer server.Close()

	client := NewClient(Options{URL: wsURL(server), ReconnectAttempts: 2, ReconnectDelay: 5 * time.Millisecond})
	defer client.Close()

	require.NoError(t, client.Connect(context.Background()))
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&dials) == 2 && client.Status() == StatusConnected
	}, 3*time.Second, 5*time.Millisecond)
}

func TestCloseStopsClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_, _, _ = conn.ReadMessage()
	}))
	defer server.Close()

	client := NewClient(Options{URL: wsURL(server), ReconnectAttempts: 5, ReconnectDelay: time.Millisecond})
	require.NoError(t, client.Connect(context.Background()))
	require.NoError(t, client.Close())

	assert.Equal(t, StatusDisconnected, client.Status())
	assert.ErrorIs(t, client.Connect(context.Background()), ErrClosed)
	assert.ErrorIs(t, client.Emit(EventTyping, nil), ErrNotConnected)
}

func TestIsClientEvent(t *testing.T) {
	assert.True(t, IsClientEvent(EventSendMessage))
	assert.False(t, IsClientEvent(EventNewMessage))
	assert.False(t, IsClientEvent(EventConnectionStatus))
}
