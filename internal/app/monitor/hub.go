/*
Package monitor provides a read-only operational event feed for the game server.

Rooms and the registry publish lifecycle events (room created, player joined or
left, round won, new round) into a Hub, which fans them out as JSON over
WebSocket to any attached observer. Delivery is best-effort: a slow observer is
detached rather than allowed to block the game path.
*/
package monitor

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"mysterynum/internal/pkg/logx"
	"mysterynum/internal/pkg/randx"
)

const (
	// subscriberBuffer is the per-observer queue size before it is detached.
	subscriberBuffer = 64

	// writeWait bounds a single WebSocket write to an observer.
	writeWait = 10 * time.Second
)

// Event kinds published by the game core.
const (
	EventRoomCreated  = "room_created"
	EventPlayerJoined = "player_joined"
	EventPlayerLeft   = "player_left"
	EventRoundWon     = "round_won"
	EventNewRound     = "new_round"
)

// Event is one server-side occurrence pushed to observers.
type Event struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	RoomID    int    `json:"roomId,omitempty"`
	RoomName  string `json:"roomName,omitempty"`
	Player    string `json:"player,omitempty"`
	Round     int    `json:"round,omitempty"`
	Points    int    `json:"points,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// NewEvent builds an Event of the given kind with a fresh id and timestamp.
func NewEvent(kind string) Event {
	return Event{
		ID:        randx.MessageID(),
		Kind:      kind,
		Timestamp: time.Now().Unix(),
	}
}

// Sink receives events from the game core. The Hub is the production
// implementation; tests may substitute their own.
type Sink interface {
	Publish(ev Event)
}

// subscriber is one attached observer connection.
type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans events out to all attached observers.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[*subscriber]struct{}
	closed      bool
	logger      zerolog.Logger
}

// NewHub constructs an empty Hub ready to accept observers.
func NewHub() *Hub {
	hubLogger := logx.Logger().With().Str("component", "MonitorHub").Logger()

	return &Hub{
		subscribers: make(map[*subscriber]struct{}),
		logger:      hubLogger,
	}
}

// Attach registers an observer connection and starts its write loop.
// The call returns immediately; the connection is closed when the observer
// falls behind, the peer disconnects, or the Hub shuts down.
func (h *Hub) Attach(conn *websocket.Conn) {
	sub := &subscriber{
		conn: conn,
		send: make(chan []byte, subscriberBuffer),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.subscribers[sub] = struct{}{}
	total := len(h.subscribers)
	h.mu.Unlock()

	h.logger.Info().Int("total_observers", total).Msg("Observer attached.")

	go h.writeLoop(sub)
	go h.readLoop(sub)
}

// writeLoop drains the subscriber queue onto the wire.
func (h *Hub) writeLoop(sub *subscriber) {
	defer sub.conn.Close()

	for payload := range sub.send {
		if err := sub.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			h.detach(sub)
			return
		}

		if err := sub.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.detach(sub)
			return
		}
	}

	// channel closed by detach or Shutdown
	sub.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readLoop discards inbound frames so close/ping control frames are processed,
// and detaches the observer once the peer goes away.
func (h *Hub) readLoop(sub *subscriber) {
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			h.detach(sub)
			return
		}
	}
}

// detach removes the subscriber and closes its queue exactly once.
func (h *Hub) detach(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subscribers[sub]; ok {
		delete(h.subscribers, sub)
		close(sub.send)
		h.logger.Info().Int("total_observers", len(h.subscribers)).Msg("Observer detached.")
	}
}

// Publish fans the event out to every observer. Observers whose queue is full
// are detached; the game path never blocks here.
func (h *Hub) Publish(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error().Err(err).Str("kind", ev.Kind).Msg("Failed to marshal event.")
		return
	}

	h.mu.RLock()
	slow := make([]*subscriber, 0)
	for sub := range h.subscribers {
		select {
		case sub.send <- payload:
		default:
			slow = append(slow, sub)
		}
	}
	h.mu.RUnlock()

	for _, sub := range slow {
		h.logger.Warn().Msg("Observer queue full, detaching.")
		h.detach(sub)
	}
}

// ObserverCount reports the number of currently attached observers.
func (h *Hub) ObserverCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subscribers)
}

// Shutdown detaches every observer and rejects future attachments.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	for sub := range h.subscribers {
		delete(h.subscribers, sub)
		close(sub.send)
	}

	h.logger.Info().Msg("Monitor hub shut down.")
}
