/*
Package game contains the core logic of the mystery-number server.

This file defines the Registry struct, which owns every Room instance: it
assigns identifiers, creates rooms, and serves lookups and listings. One
registry is shared by all sessions.
*/
package game

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"mysterynum/internal/app/monitor"
	"mysterynum/internal/pkg/logx"
)

// RoomInfo is an immutable snapshot of one room for listings.
type RoomInfo struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Creator    string `json:"creator"`
	Round      int    `json:"round"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"maxPlayers"`
}

// Registry creates, tracks, and looks up all Room instances.
// Identifiers are assigned monotonically and never reused while the registry
// lives. Rooms are never auto-deleted; they live for the process lifetime.
type Registry struct {
	mu sync.RWMutex

	// rooms maps identifier to the owned Room instance.
	rooms map[int]*Room

	// nextID is the identifier handed to the next created room, starting at 1.
	nextID int

	// maxPlayers is the capacity applied to every created room.
	maxPlayers int

	// events receives room lifecycle notifications; may be nil.
	events monitor.Sink

	logger zerolog.Logger
}

// NewRegistry constructs an empty Registry. Rooms it creates are capped at
// maxPlayers members each.
func NewRegistry(maxPlayers int, events monitor.Sink) *Registry {
	registryLogger := logx.Logger().With().Str("component", "Registry").Logger()

	return &Registry{
		rooms:      make(map[int]*Room),
		nextID:     1,
		maxPlayers: maxPlayers,
		events:     events,
		logger:     registryLogger,
	}
}

// Create constructs a new Room with the next sequential identifier and a fresh
// random target, inserts it under the registry lock, and returns it. The room
// is fully constructed before it becomes visible to concurrent lookups.
func (reg *Registry) Create(name, creator string) *Room {
	reg.mu.Lock()

	id := reg.nextID
	reg.nextID++

	room := NewRoom(id, name, creator, reg.maxPlayers, reg.events)
	reg.rooms[id] = room

	reg.mu.Unlock()

	reg.logger.Info().Int("room_id", id).Str("room_name", name).Str("creator", creator).Msg("Room created.")

	if reg.events != nil {
		ev := monitor.NewEvent(monitor.EventRoomCreated)
		ev.RoomID = id
		ev.RoomName = name
		ev.Player = creator
		reg.events.Publish(ev)
	}

	return room
}

// Get looks a room up by identifier. An absent id yields ok == false, never a fault.
func (reg *Registry) Get(id int) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	room, ok := reg.rooms[id]
	return room, ok
}

// List returns a snapshot of all rooms in stable ascending identifier order.
func (reg *Registry) List() []RoomInfo {
	reg.mu.RLock()
	rooms := make([]*Room, 0, len(reg.rooms))
	for _, room := range reg.rooms {
		rooms = append(rooms, room)
	}
	reg.mu.RUnlock()

	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].ID < rooms[j].ID
	})

	infos := make([]RoomInfo, 0, len(rooms))
	for _, room := range rooms {
		infos = append(infos, room.Info())
	}
	return infos
}

// Rooms returns all rooms in no particular order. Used by the supervisor for
// shutdown broadcasts.
func (reg *Registry) Rooms() []*Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	rooms := make([]*Room, 0, len(reg.rooms))
	for _, room := range reg.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}
