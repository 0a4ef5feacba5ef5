/*
Package game contains the core logic of the mystery-number server.

This file defines the Server struct, the supervisor that owns the TCP listening
endpoint, accepts incoming connections, and spawns one Session goroutine per
connection. It also performs shutdown: a notice to every room, then every
player socket and the listener are force-closed.
*/
package game

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"mysterynum/internal/pkg/logx"
)

// Server accepts game-channel connections and runs one Session per connection.
type Server struct {
	registry   *Registry
	roundDelay time.Duration
	chatPort   int

	listener net.Listener

	// mu guards conns and closed.
	mu sync.Mutex

	// conns tracks every live connection, including sessions still in the
	// lobby, so shutdown can interrupt their blocking reads.
	conns map[net.Conn]struct{}

	closed bool

	// wg tracks session goroutines for a bounded drain on shutdown.
	wg sync.WaitGroup

	logger zerolog.Logger
}

// NewServer constructs a supervisor over the given registry.
func NewServer(registry *Registry, roundDelay time.Duration, chatPort int) *Server {
	serverLogger := logx.Logger().With().Str("component", "GameServer").Logger()

	return &Server{
		registry:   registry,
		roundDelay: roundDelay,
		chatPort:   chatPort,
		conns:      make(map[net.Conn]struct{}),
		logger:     serverLogger,
	}
}

// Listen binds the TCP listening endpoint. A bind failure is returned to the
// caller and is fatal to the process; there is no automatic retry.
func (s *Server) Listen(host string, port int) error {
	addr := net.JoinHostPort(host, fmt.Sprintf("%d", port))

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind game listener on %s: %w", addr, err)
	}

	s.listener = listener
	s.logger.Info().Str("addr", addr).Msg("Game server listening.")
	return nil
}

// Addr returns the bound listener address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve runs the accept loop until the listener is closed. Each accepted
// connection gets its own Session goroutine; per-connection failures never
// propagate past that session.
func (s *Server) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger.Warn().Err(err).Msg("Accept failed.")
			continue
		}

		if !s.track(conn) {
			conn.Close()
			return nil
		}

		s.logger.Info().Str("remote_addr", conn.RemoteAddr().String()).Msg("New connection.")

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(conn)

			session := NewSession(conn, s.registry, s.roundDelay, s.chatPort)
			session.Run()
		}()
	}
}

// track registers a live connection; reports false when the server is already
// shutting down.
func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}

// Shutdown broadcasts a closing notice to every room, then force-closes every
// tracked socket and the listener. In-flight reads fail and each session
// performs its own cleanup. Waits up to timeout for sessions to drain.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.logger.Info().Msg("Shutting down game server...")

	for _, room := range s.registry.Rooms() {
		room.Broadcast("\n[NOTICE] Server is shutting down...\n", nil)
		room.CloseAll()
	}

	s.mu.Lock()
	s.closed = true
	conns := make([]net.Conn, 0, len(s.conns))
	for conn := range s.conns {
		conns = append(conns, conn)
	}
	s.mu.Unlock()

	// room members are already closed via CloseAll; this sweep catches
	// sessions still in the lobby. Double closes are harmless.
	for _, conn := range conns {
		conn.Close()
	}

	if s.listener != nil {
		s.listener.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info().Msg("Game server shutdown complete.")
		return nil
	case <-time.After(timeout):
		s.logger.Warn().Msg("Game server shutdown timeout reached, some sessions may still be draining.")
		return errors.New("game server shutdown timed out")
	}
}
