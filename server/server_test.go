package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irishsmurf/go-broadside/queue"
)

type harness struct {
	hub      *Hub
	commands *queue.Queue[string]
	events   *queue.Queue[SystemEvent]
	url      string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		commands: queue.New[string](),
		events:   queue.New[SystemEvent](),
	}
	h.hub = NewHub(h.commands, h.events, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go h.hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWs(h.hub, w, r)
	}))
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	h.url = "ws" + strings.TrimPrefix(srv.URL, "http")
	return h
}

func (h *harness) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(h.url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.Eventually(t, func() bool { return h.hub.ClientCount() > 0 }, time.Second, 5*time.Millisecond)
	return conn
}

func read(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	return string(msg)
}

func TestConnectPushesEvent(t *testing.T) {
	h := newHarness(t)
	h.dial(t)

	ev, ok := h.events.Pop()
	require.True(t, ok)
	assert.Equal(t, Connected, ev.Kind)
	assert.True(t, strings.HasPrefix(ev.ClientID, "helm_"))
}

func TestCommandsAreQueuedAndAcknowledged(t *testing.T) {
	h := newHarness(t)
	conn := h.dial(t)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("fire")))
	assert.Equal(t, "Command sent: fire", read(t, conn))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("hard_left\n")))
	assert.Equal(t, "Command sent: hard_left", read(t, conn))

	assert.Equal(t, []string{"fire", "hard_left"}, h.commands.Drain())
}

func TestUnknownCommandIsAcknowledgedButDropped(t *testing.T) {
	h := newHarness(t)
	conn := h.dial(t)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("abandon_ship")))
	assert.Equal(t, "Command sent: abandon_ship", read(t, conn))
	assert.True(t, h.commands.Empty())
}

func TestBroadcastWind(t *testing.T) {
	h := newHarness(t)
	conn := h.dial(t)

	require.NoError(t, h.hub.BroadcastWind(1.25))

	var msg struct {
		Type  string  `json:"type"`
		Angle float64 `json:"angle"`
	}
	require.NoError(t, json.Unmarshal([]byte(read(t, conn)), &msg))
	assert.Equal(t, "wind", msg.Type)
	assert.Equal(t, 1.25, msg.Angle)
}

func TestDisconnectPushesEvent(t *testing.T) {
	h := newHarness(t)
	conn := h.dial(t)
	conn.Close()

	require.Eventually(t, func() bool { return h.hub.ClientCount() == 0 }, 2*time.Second, 5*time.Millisecond)
	var kinds []SystemEventKind
	for _, ev := range h.events.Drain() {
		kinds = append(kinds, ev.Kind)
	}
	assert.Equal(t, []SystemEventKind{Connected, Disconnected}, kinds)
}

func TestBroadcastRejectsUnencodableFields(t *testing.T) {
	h := newHarness(t)
	err := h.hub.Broadcast("bad", map[string]any{"ch": make(chan int)})
	assert.Error(t, err)
}
