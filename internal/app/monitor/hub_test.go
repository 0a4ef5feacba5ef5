package monitor

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHubServer(t *testing.T, hub *Hub) string {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Attach(conn)
	}))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dialHub(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForObservers(t *testing.T, hub *Hub, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for hub.ObserverCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("observer count never reached %d, have %d", want, hub.ObserverCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestPublishReachesAllObservers(t *testing.T) {
	hub := NewHub()
	t.Cleanup(hub.Shutdown)
	url := startHubServer(t, hub)

	first := dialHub(t, url)
	second := dialHub(t, url)
	waitForObservers(t, hub, 2)

	ev := NewEvent(EventRoundWon)
	ev.RoomID = 3
	ev.Player = "Alice"
	ev.Points = 10
	hub.Publish(ev)

	for _, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, payload, err := conn.ReadMessage()
		require.NoError(t, err)

		var got Event
		require.NoError(t, json.Unmarshal(payload, &got))
		assert.Equal(t, EventRoundWon, got.Kind)
		assert.Equal(t, 3, got.RoomID)
		assert.Equal(t, "Alice", got.Player)
		assert.Equal(t, 10, got.Points)
		assert.NotEmpty(t, got.ID)
	}
}

func TestDisconnectedObserverDetached(t *testing.T) {
	hub := NewHub()
	t.Cleanup(hub.Shutdown)
	url := startHubServer(t, hub)

	conn := dialHub(t, url)
	waitForObservers(t, hub, 1)

	conn.Close()
	waitForObservers(t, hub, 0)

	// publishing into an empty hub is a no-op
	hub.Publish(NewEvent(EventNewRound))
}

func TestShutdownRejectsNewObservers(t *testing.T) {
	hub := NewHub()
	url := startHubServer(t, hub)

	conn := dialHub(t, url)
	waitForObservers(t, hub, 1)

	hub.Shutdown()
	assert.Equal(t, 0, hub.ObserverCount())

	// existing connection is closed by the hub
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	late := dialHub(t, url)
	waitForObservers(t, hub, 0)
	late.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := late.ReadMessage()
	assert.Error(t, err, "post-shutdown attachments are closed immediately")
}
