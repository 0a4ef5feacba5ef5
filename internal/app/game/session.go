/*
Package game contains the core logic of the mystery-number server.

This file defines the Session struct, the server-side state and control loop
bound to one client's game-channel connection: name negotiation, the lobby
menu, and the in-room round loop.
*/
package game

import (
	"bufio"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"mysterynum/internal/pkg/errs"
	"mysterynum/internal/pkg/logx"
	"mysterynum/internal/pkg/randx"
)

const (
	// nameRequestToken is the literal the deployed clients expect when the
	// server asks for a display name. Changing it breaks them.
	nameRequestToken = "NOME_REQUEST"

	// leaveKeyword is the in-room command that ends the session. Kept from the
	// deployed protocol.
	leaveKeyword = "sair"

	divider = "=================================================="
)

// Session runs the lobby menu and the round loop for one connection.
// Lifecycle: AwaitingName -> InLobby -> InRoom -> Closed; any read failure
// moves straight to Closed, and cleanup always runs exactly once.
type Session struct {
	conn     net.Conn
	reader   *bufio.Reader
	registry *Registry

	// roundDelay is the pause between the win announcement and the new-round
	// banner. Blocks only this session's goroutine.
	roundDelay time.Duration

	// chatPort is advertised to players on room entry.
	chatPort int

	name   string
	room   *Room
	player *Player

	logger zerolog.Logger
}

// NewSession wraps an accepted connection.
func NewSession(conn net.Conn, registry *Registry, roundDelay time.Duration, chatPort int) *Session {
	sessionLogger := logx.Logger().With().
		Str("component", "Session").
		Str("remote_addr", conn.RemoteAddr().String()).
		Logger()

	return &Session{
		conn:       conn,
		reader:     bufio.NewReader(conn),
		registry:   registry,
		roundDelay: roundDelay,
		chatPort:   chatPort,
		logger:     sessionLogger,
	}
}

// Run drives the session to completion. It returns when the peer disconnects,
// leaves with the quit keyword, or the server force-closes the connection.
func (s *Session) Run() {
	defer s.close()

	if !s.negotiateName() {
		return
	}

	s.logger = s.logger.With().Str("player", s.name).Logger()
	s.logger.Info().Msg("Player connected.")

	s.lobby()
}

// close releases the connection and, if the session had joined a room,
// removes the player and broadcasts the leave notice to the remaining members.
func (s *Session) close() {
	if s.room != nil && s.player != nil {
		if s.room.Leave(s.player) {
			s.room.Broadcast(fmt.Sprintf("\n>>> %s left the room!\n", s.name), nil)
		}
		s.room = nil
		s.player = nil
	}

	s.conn.Close()
	s.logger.Info().Msg("Session closed.")
}

// negotiateName sends the name-request token and reads exactly one reply.
// An empty name is replaced with one derived from the connection's ephemeral
// port. Returns false only on transport failure.
func (s *Session) negotiateName() bool {
	if err := s.send(nameRequestToken); err != nil {
		return false
	}

	line, err := s.readLine()
	if err != nil {
		return false
	}

	if line == "" {
		line = randx.FallbackName(remotePort(s.conn))
	}
	s.name = line

	return true
}

// lobby renders the menu and dispatches one command per iteration until the
// player joins a room (and the round loop finishes) or the connection drops.
func (s *Session) lobby() {
	for {
		menu := fmt.Sprintf(
			"\n%s\n=== WELCOME, %s! ===\n%s\n"+
				"Choose an option:\n"+
				"1 - List available rooms\n"+
				"2 - Create a new room\n"+
				"3 - Join a room (enter its ID)\n"+
				"%s\nEnter your choice: ",
			divider, s.name, divider, divider,
		)
		if err := s.send(menu); err != nil {
			return
		}

		choice, err := s.readLine()
		if err != nil {
			return
		}

		switch choice {
		case "1":
			if err := s.send(s.formatRoomList()); err != nil {
				return
			}

		case "2":
			if !s.createRoom() {
				return
			}

		case "3":
			joined, alive := s.joinRoom()
			if !alive {
				return
			}
			if joined {
				s.roundLoop()
				return
			}

		default:
			if err := s.sendError(errs.NewError(errs.ErrMenuChoiceInvalid)); err != nil {
				return
			}
		}
	}
}

// formatRoomList renders the registry snapshot for the lobby.
func (s *Session) formatRoomList() string {
	infos := s.registry.List()
	if len(infos) == 0 {
		return "No rooms available\n"
	}

	var b strings.Builder
	b.WriteString("\n=== AVAILABLE ROOMS ===\n")
	b.WriteString(divider + "\n")
	for _, info := range infos {
		status := "[OPEN]"
		if info.Players >= info.MaxPlayers {
			status = "[FULL]"
		}
		fmt.Fprintf(&b, "%s [%d] %s - %d/%d players\n", status, info.ID, info.Name, info.Players, info.MaxPlayers)
	}
	b.WriteString(divider + "\n")
	return b.String()
}

// createRoom reads a room name and asks the registry for a new room.
// Returns false on transport failure.
func (s *Session) createRoom() bool {
	if err := s.send("Enter the new room name: "); err != nil {
		return false
	}

	roomName, err := s.readLine()
	if err != nil {
		return false
	}

	if roomName == "" {
		return s.sendError(errs.NewError(errs.ErrRoomNameEmpty)) == nil
	}

	room := s.registry.Create(roomName, s.name)
	return s.send(fmt.Sprintf("[OK] Room '%s' created! (ID: %d)\n", roomName, room.ID)) == nil
}

// joinRoom reads a room identifier and registers the player with that room.
// joined reports whether the session entered a room; alive reports whether the
// connection is still usable.
func (s *Session) joinRoom() (joined, alive bool) {
	if err := s.send("Enter the room ID: "); err != nil {
		return false, false
	}

	idLine, err := s.readLine()
	if err != nil {
		return false, false
	}

	id, convErr := strconv.Atoi(idLine)
	if convErr != nil {
		return false, s.sendError(errs.NewError(errs.ErrRoomIDInvalid)) == nil
	}

	room, ok := s.registry.Get(id)
	if !ok {
		return false, s.sendError(errs.NewError(errs.ErrRoomNotFound)) == nil
	}

	player := &Player{Name: s.name, Conn: s.conn}
	if joinErr := room.Join(player); joinErr != nil {
		return false, s.sendError(joinErr) == nil
	}

	s.room = room
	s.player = player

	welcome := fmt.Sprintf(
		"\n%s\n=== You joined room: %s ===\n%s\n"+
			"Round: %d\n"+
			"Players: %d/%d\n"+
			"Guess the number between %d and %d!\n"+
			"[CHAT] UDP chat available on port %d\n"+
			"%s\n",
		divider, room.Name, divider,
		room.Round(),
		room.Occupancy(), room.MaxPlayers,
		randx.TargetMin, randx.TargetMax,
		s.chatPort,
		divider,
	)
	if err := s.send(welcome); err != nil {
		return true, false
	}

	room.Broadcast(fmt.Sprintf("\n>>> %s joined the room!\n", s.name), player)

	return true, true
}

// roundLoop reads one line per iteration and forwards it to the room's guess
// evaluation. The leave keyword or any read failure ends the loop.
func (s *Session) roundLoop() {
	for {
		line, err := s.readLine()
		if err != nil || line == "" {
			return
		}

		if strings.EqualFold(line, leaveKeyword) {
			return
		}

		outcome, guessErr := s.room.Guess(s.player, line)
		if guessErr != nil {
			if s.sendError(guessErr) != nil {
				return
			}
			continue
		}

		switch outcome.Kind {
		case OutcomeWin:
			if !s.handleWin(outcome) {
				return
			}

		case OutcomeTooLow:
			if s.send(fmt.Sprintf("[LOW] Too LOW! (Attempt %d)\n", outcome.Attempts)) != nil {
				return
			}
			s.room.Broadcast(fmt.Sprintf("... %s made a guess...\n", s.name), s.player)

		case OutcomeTooHigh:
			if s.send(fmt.Sprintf("[HIGH] Too HIGH! (Attempt %d)\n", outcome.Attempts)) != nil {
				return
			}
			s.room.Broadcast(fmt.Sprintf("... %s made a guess...\n", s.name), s.player)
		}
	}
}

// handleWin announces the win, pauses so the announcement can be read, then
// broadcasts the refreshed ranking and the new-round banner. The pause blocks
// only this session's goroutine; the room state already rolled over inside
// Guess, so concurrent guesses run against the new round.
func (s *Session) handleWin(outcome Outcome) bool {
	personal := fmt.Sprintf(
		"\n%s\n=== YOU GOT IT! ===\nNumber: %d\nAttempts: %d\nPoints: +%d\n%s\n",
		divider, outcome.Target, outcome.Attempts, outcome.Points, divider,
	)
	if s.send(personal) != nil {
		return false
	}

	s.room.Broadcast(
		fmt.Sprintf("\n>>> %s GUESSED the number %d! (%d attempts)\n", s.name, outcome.Target, outcome.Attempts),
		nil,
	)

	time.Sleep(s.roundDelay)

	banner := fmt.Sprintf(
		"\n%s\n=== NEW ROUND %d ===\n%s\n%s\nNew number between %d and %d!\n%s\n",
		divider, outcome.Round, divider,
		s.room.Ranking(),
		randx.TargetMin, randx.TargetMax,
		divider,
	)
	s.room.Broadcast(banner, nil)

	return true
}

// send writes text to the peer with a bounded deadline.
func (s *Session) send(text string) error {
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_, err := s.conn.Write([]byte(text))
	if err != nil {
		s.logger.Debug().Err(err).Msg("Session write failed.")
	}
	return err
}

// sendError reports a business error to this client only.
func (s *Session) sendError(customErr *errs.CustomError) error {
	return s.send(fmt.Sprintf("[ERROR] %s\n", customErr.Message))
}

// readLine blocks for the next newline-terminated message and trims it.
// There is no read timeout: closing the connection is the cancellation primitive.
func (s *Session) readLine() (string, error) {
	line, err := s.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// remotePort extracts the peer's ephemeral port for fallback names.
func remotePort(conn net.Conn) int {
	if addr, ok := conn.RemoteAddr().(*net.TCPAddr); ok {
		return addr.Port
	}

	_, portStr, err := net.SplitHostPort(conn.RemoteAddr().String())
	if err != nil {
		return 0
	}
	port, _ := strconv.Atoi(portStr)
	return port
}
