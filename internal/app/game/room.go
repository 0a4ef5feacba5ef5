/*
Package game contains the core logic of the mystery-number server.

This file defines the Room struct, which owns the round state (secret target,
round counter, attempt counters), the player roster, and room-scoped broadcast.
*/
package game

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"mysterynum/internal/app/monitor"
	"mysterynum/internal/pkg/errs"
	"mysterynum/internal/pkg/logx"
	"mysterynum/internal/pkg/randx"
)

// writeWait bounds a single broadcast write so a dead peer cannot stall
// delivery to the rest of the room while the lock is held.
const writeWait = 10 * time.Second

// Room represents a single game room where multiple players compete.
// All mutable fields are guarded by mu; the Room is the unit of mutual
// exclusion, so unrelated rooms never contend.
type Room struct {
	// ID is the unique, monotonically assigned room identifier.
	ID int

	// Name is the room display name.
	Name string

	// Creator is the display name of the player who created the room.
	Creator string

	// MaxPlayers is the roster capacity limit.
	MaxPlayers int

	mu sync.Mutex

	// round counts solved rounds, starting at 1.
	round int

	// secret is the current target, drawn uniformly from [1, 100].
	secret int

	// players is the roster in insertion order; ranking ties preserve it.
	players []*Player

	// attempts counts guesses per player for the current round only.
	attempts map[*Player]int

	// events receives lifecycle notifications; may be nil.
	events monitor.Sink

	logger zerolog.Logger
}

// NewRoom creates a room with a fresh random target and an empty roster.
func NewRoom(id int, name, creator string, maxPlayers int, events monitor.Sink) *Room {
	roomLogger := logx.Logger().With().
		Int("room_id", id).
		Str("room_name", name).
		Logger()

	return &Room{
		ID:         id,
		Name:       name,
		Creator:    creator,
		MaxPlayers: maxPlayers,
		round:      1,
		secret:     randx.Target(),
		players:    make([]*Player, 0, maxPlayers),
		attempts:   make(map[*Player]int),
		events:     events,
		logger:     roomLogger,
	}
}

// publish forwards an event to the sink when one is configured.
func (r *Room) publish(ev monitor.Event) {
	if r.events != nil {
		ev.RoomID = r.ID
		ev.RoomName = r.Name
		r.events.Publish(ev)
	}
}

// Join adds a player to the roster. A full room rejects the join and leaves
// the roster unchanged.
func (r *Room) Join(p *Player) *errs.CustomError {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.players) >= r.MaxPlayers {
		r.logger.Warn().Str("player", p.Name).Msg("Join rejected: room is full.")
		return errs.NewError(errs.ErrRoomIsFull)
	}

	r.players = append(r.players, p)
	r.logger.Info().Str("player", p.Name).Int("total_players", len(r.players)).Msg("Player joined room.")

	ev := monitor.NewEvent(monitor.EventPlayerJoined)
	ev.Player = p.Name
	r.publish(ev)

	return nil
}

// Leave removes the player from the roster and drops its attempt counter.
// It reports whether the player was present.
func (r *Room) Leave(p *Player) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, member := range r.players {
		if member == p {
			r.players = append(r.players[:i], r.players[i+1:]...)
			delete(r.attempts, p)
			r.logger.Info().Str("player", p.Name).Int("total_players", len(r.players)).Msg("Player left room.")

			ev := monitor.NewEvent(monitor.EventPlayerLeft)
			ev.Player = p.Name
			r.publish(ev)

			return true
		}
	}

	return false
}

// Broadcast sends the message to every roster member except the excluded one.
// Delivery is best-effort: per-recipient send failures are swallowed so a dead
// peer never aborts delivery to the others.
func (r *Room) Broadcast(message string, excluding *Player) {
	r.mu.Lock()
	defer r.mu.Unlock()

	payload := []byte(message)

	for _, member := range r.players {
		if member == excluding {
			continue
		}

		member.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		if _, err := member.Conn.Write(payload); err != nil {
			r.logger.Debug().Err(err).Str("player", member.Name).Msg("Broadcast send failed, skipping recipient.")
		}
	}
}

// Outcome classification for an accepted guess.
type OutcomeKind int

const (
	// OutcomeWin means the guess matched the secret target.
	OutcomeWin OutcomeKind = iota

	// OutcomeTooLow means the guess was below the target.
	OutcomeTooLow

	// OutcomeTooHigh means the guess was above the target.
	OutcomeTooHigh
)

// Outcome describes the result of one evaluated guess.
type Outcome struct {
	Kind OutcomeKind

	// Attempts is the issuing player's attempt count for the round the guess
	// was evaluated in.
	Attempts int

	// Target is the number that was hit. Win outcomes only.
	Target int

	// Points is the score awarded, always at least 1. Win outcomes only.
	Points int

	// Round is the new round number after rollover. Win outcomes only.
	Round int
}

// Guess evaluates a free-text guess from the given player.
//
// Parse and range failures return an error without touching room state. An
// accepted guess increments the player's attempt counter and is compared to the
// secret target. The win path is atomic: points are awarded, the round counter
// advances, a new target is drawn, and all attempt counters are cleared inside
// one critical section, so two racing winning guesses cannot both close the
// same round; the loser is evaluated against the already-advanced state.
func (r *Room) Guess(p *Player, line string) (Outcome, *errs.CustomError) {
	value, err := parseGuess(line)
	if err != nil {
		return Outcome{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.attempts[p]++
	tries := r.attempts[p]

	r.logger.Debug().Str("player", p.Name).Int("guess", value).Int("attempt", tries).Msg("Guess received.")

	switch {
	case value == r.secret:
		// A clean first-attempt win earns the full 10 points; every later
		// winning attempt n pays 10-n, floored at 1.
		points := 10
		if tries > 1 {
			points = 10 - tries
			if points < 1 {
				points = 1
			}
		}
		p.Score += points

		target := r.secret
		wonRound := r.round

		// round rollover
		r.round++
		r.secret = randx.Target()
		r.attempts = make(map[*Player]int)

		r.logger.Info().
			Str("player", p.Name).
			Int("target", target).
			Int("attempts", tries).
			Int("points", points).
			Int("new_round", r.round).
			Msg("Round won.")

		wonEv := monitor.NewEvent(monitor.EventRoundWon)
		wonEv.Player = p.Name
		wonEv.Round = wonRound
		wonEv.Points = points
		r.publish(wonEv)

		roundEv := monitor.NewEvent(monitor.EventNewRound)
		roundEv.Round = r.round
		r.publish(roundEv)

		return Outcome{
			Kind:     OutcomeWin,
			Attempts: tries,
			Target:   target,
			Points:   points,
			Round:    r.round,
		}, nil

	case value < r.secret:
		return Outcome{Kind: OutcomeTooLow, Attempts: tries}, nil

	default:
		return Outcome{Kind: OutcomeTooHigh, Attempts: tries}, nil
	}
}

// Ranking produces the roster sorted by descending score, stable on ties by
// insertion order, with distinguished markers for the top three.
func (r *Room) Ranking() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.players) == 0 {
		return "No players in the room"
	}

	ranked := make([]*Player, len(r.players))
	copy(ranked, r.players)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	var b strings.Builder
	fmt.Fprintf(&b, "=== RANKING - Room '%s' ===\n", r.Name)
	for i, p := range ranked {
		marker := "     "
		switch i {
		case 0:
			marker = "[1st]"
		case 1:
			marker = "[2nd]"
		case 2:
			marker = "[3rd]"
		}
		fmt.Fprintf(&b, "%s %d. %s: %d points\n", marker, i+1, p.Name, p.Score)
	}
	return b.String()
}

// Round returns the current round number.
func (r *Room) Round() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.round
}

// Occupancy returns the current roster size.
func (r *Room) Occupancy() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.players)
}

// Info returns a consistent snapshot of the room for listings.
func (r *Room) Info() RoomInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	return RoomInfo{
		ID:         r.ID,
		Name:       r.Name,
		Creator:    r.Creator,
		Round:      r.round,
		Players:    len(r.players),
		MaxPlayers: r.MaxPlayers,
	}
}

// CloseAll force-closes every roster member's connection. Used during server
// shutdown; the in-flight blocking reads fail and each session cleans up.
func (r *Room) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, member := range r.players {
		member.Conn.Close()
	}
}
