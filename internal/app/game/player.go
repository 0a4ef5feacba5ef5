/*
Package game contains the core logic of the mystery-number server: rooms, the
room registry, per-connection sessions, and the TCP supervisor.

This file defines the Player struct, the unit of a Room's roster.
*/
package game

import "net"

// Player represents one participant inside a Room.
// A Player is unique within its Room by connection; the display name carries
// no uniqueness guarantee. Score is guarded by the owning Room's lock.
type Player struct {
	// Name is the display name negotiated during the session handshake.
	Name string

	// Conn is the game-channel connection used for room broadcasts.
	Conn net.Conn

	// Score is the accumulated score across rounds in this room.
	Score int
}
