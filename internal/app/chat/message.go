/*
Package chat implements the connectionless, best-effort chat relay that runs
alongside the TCP game channel.

This file defines the datagram wire format. Every packet is a self-describing
JSON record with a kind tag and kind-specific fields. Payloads fit comfortably
inside a single UDP datagram.
*/
package chat

import (
	"time"

	"mysterynum/internal/pkg/randx"
)

// Kind tags the packet variant.
type Kind string

const (
	// KindRegister is sent by a client to store its address under a name.
	KindRegister Kind = "REGISTER"

	// KindMessage is sent by a client to relay a chat line to a room.
	KindMessage Kind = "MESSAGE"

	// KindConfirmation acknowledges a successful registration.
	KindConfirmation Kind = "CONFIRMATION"

	// KindChat is the fanned-out, timestamped chat line.
	KindChat Kind = "CHAT"
)

// PublicRoom is the distinguished room value. Participants registered under it
// receive every relayed message regardless of room.
const PublicRoom = "general"

// Packet is the chat channel's wire record. Unused fields are omitted per kind.
type Packet struct {
	Kind      Kind   `json:"type"`
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	Text      string `json:"text,omitempty"`
	Room      string `json:"room,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// NewConfirmation builds the acknowledgement reply for a registration.
func NewConfirmation() Packet {
	return Packet{
		Kind: KindConfirmation,
		Text: "Registered to chat!",
	}
}

// NewChat builds the outbound broadcast record for an inbound MESSAGE,
// stamping it with a fresh id and the current wall-clock time.
func NewChat(name, text, room string) Packet {
	return Packet{
		Kind:      KindChat,
		ID:        randx.MessageID(),
		Name:      name,
		Text:      text,
		Room:      room,
		Timestamp: time.Now().Format("15:04:05"),
	}
}
