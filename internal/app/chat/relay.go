/*
Package chat implements the connectionless, best-effort chat relay.

This file defines the Relay struct: a UDP receive loop that registers
participant addresses by display name and fans inbound messages out to every
registered participant whose room context matches. Delivery failures to
individual recipients are ignored; malformed datagrams are logged and dropped.
The relay never terminates on a single bad datagram.
*/
package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"mysterynum/internal/pkg/limiter"
	"mysterynum/internal/pkg/logx"
)

const (
	// datagramBuffer is the receive buffer size; chat payloads never come
	// close to this.
	datagramBuffer = 4096

	// Flood-guard parameters per source address.
	datagramRate  = 20
	datagramBurst = 40
)

// participant is the stored record for one registered chat client.
// Later registrations for the same name silently replace the address.
type participant struct {
	addr *net.UDPAddr
	room string
}

// Relay is the connectionless chat message router.
type Relay struct {
	conn *net.UDPConn

	// mu guards participants.
	mu sync.RWMutex

	// participants maps display name to its last-known address and room context.
	participants map[string]participant

	// flood drops datagram bursts per source address.
	flood *limiter.AddrRateLimiter

	logger zerolog.Logger
}

// NewRelay constructs a Relay with an empty participant table.
func NewRelay() *Relay {
	relayLogger := logx.Logger().With().Str("component", "ChatRelay").Logger()

	return &Relay{
		participants: make(map[string]participant),
		flood:        limiter.NewAddrRateLimiter(rate.Limit(datagramRate), datagramBurst),
		logger:       relayLogger,
	}
}

// Listen binds the UDP endpoint. A bind failure is fatal to the process and is
// returned to the caller.
func (r *Relay) Listen(host string, port int) error {
	addr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(host, fmt.Sprintf("%d", port)))
	if err != nil {
		return fmt.Errorf("failed to resolve chat endpoint: %w", err)
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind chat listener on %s: %w", addr, err)
	}

	r.conn = conn
	r.logger.Info().Str("addr", addr.String()).Msg("Chat relay listening.")
	return nil
}

// LocalAddr returns the bound UDP address, or nil before Listen.
func (r *Relay) LocalAddr() net.Addr {
	if r.conn == nil {
		return nil
	}
	return r.conn.LocalAddr()
}

// Run is the relay's long-lived receive loop. It returns when the underlying
// socket is closed; every other failure is contained to the offending datagram.
func (r *Relay) Run() {
	buf := make([]byte, datagramBuffer)

	for {
		n, sender, err := r.conn.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				r.logger.Info().Msg("Chat relay receive loop stopped.")
				return
			}
			r.logger.Warn().Err(err).Msg("Chat read failed.")
			continue
		}

		if !r.flood.Allow(sender.String()) {
			r.logger.Warn().Str("sender", sender.String()).Msg("Datagram dropped: flood guard.")
			continue
		}

		payload := make([]byte, n)
		copy(payload, buf[:n])
		r.handleDatagram(payload, sender)
	}
}

// handleDatagram decodes and dispatches one inbound packet.
func (r *Relay) handleDatagram(payload []byte, sender *net.UDPAddr) {
	var pkt Packet
	if err := json.Unmarshal(payload, &pkt); err != nil {
		r.logger.Warn().Str("sender", sender.String()).Msg("Malformed chat datagram dropped.")
		return
	}

	switch pkt.Kind {
	case KindRegister:
		r.handleRegister(pkt, sender)

	case KindMessage:
		r.handleMessage(pkt, sender)

	default:
		r.logger.Warn().Str("kind", string(pkt.Kind)).Str("sender", sender.String()).Msg("Unsupported chat packet kind dropped.")
	}
}

// handleRegister stores or overwrites the sender's address under its name and
// acknowledges. A registration without a room lands in the public room.
func (r *Relay) handleRegister(pkt Packet, sender *net.UDPAddr) {
	if pkt.Name == "" {
		r.logger.Warn().Str("sender", sender.String()).Msg("Registration without a name dropped.")
		return
	}

	room := pkt.Room
	if room == "" {
		room = PublicRoom
	}

	r.mu.Lock()
	r.participants[pkt.Name] = participant{addr: sender, room: room}
	r.mu.Unlock()

	r.logger.Info().Str("name", pkt.Name).Str("room", room).Str("addr", sender.String()).Msg("Chat participant registered.")

	r.reply(NewConfirmation(), sender)
}

// handleMessage refreshes the sender's room context and fans the chat line out.
// There is no acknowledgement to the sender of a MESSAGE.
func (r *Relay) handleMessage(pkt Packet, sender *net.UDPAddr) {
	name := pkt.Name
	if name == "" {
		name = "Anonymous"
	}

	room := pkt.Room
	if room == "" {
		room = PublicRoom
	}

	r.mu.Lock()
	if rec, ok := r.participants[name]; ok {
		rec.addr = sender
		rec.room = room
		r.participants[name] = rec
	}
	r.mu.Unlock()

	r.logger.Info().Str("room", room).Str("name", name).Msg("Chat message relayed.")

	r.fanOut(NewChat(name, pkt.Text, room), room)
}

// fanOut delivers the packet to every participant whose stored room context
// matches the message room or the public room. Per-recipient failures are
// ignored: no retry, no backpressure, no ordering guarantee.
func (r *Relay) fanOut(pkt Packet, room string) {
	payload, err := json.Marshal(pkt)
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to marshal chat broadcast.")
		return
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.participants {
		if rec.room != room && rec.room != PublicRoom {
			continue
		}
		r.conn.WriteToUDP(payload, rec.addr)
	}
}

// reply sends a single packet back to one address, best-effort.
func (r *Relay) reply(pkt Packet, to *net.UDPAddr) {
	payload, err := json.Marshal(pkt)
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to marshal chat reply.")
		return
	}

	r.conn.WriteToUDP(payload, to)
}

// ParticipantCount reports the number of registered participants.
func (r *Relay) ParticipantCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.participants)
}

// Close shuts the socket down, stopping the receive loop.
func (r *Relay) Close() {
	if r.conn != nil {
		r.conn.Close()
	}
}
