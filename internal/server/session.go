// Package server manages individual lobby sessions, handling the receive
// loop, the synchronous send path, keepalive, and lifecycle control for each
// connection.
package server

import (
	"errors"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Tyrowin/lobby-server/internal/protocol"
)

// Session is one client's live connection together with its nickname. The
// room the session occupies is tracked by the server's room registry.
type Session struct {
	id          uuid.UUID
	conn        *websocket.Conn
	server      *Server
	addr        string
	cfg         Config
	logger      *log.Logger
	rateLimiter *rateLimiter

	mu       sync.RWMutex
	nickname string

	writeMu sync.Mutex
	closed  atomic.Bool
	done    chan struct{}
}

// newSession wraps an upgraded connection. The session is inert until the
// server registers it and starts its receive loop.
func newSession(conn *websocket.Conn, srv *Server, addr string) *Session {
	cfg := srv.cfg
	if conn != nil {
		conn.SetReadLimit(cfg.MaxMessageSize)
	}

	var limiter *rateLimiter
	if cfg.RateLimit.Burst > 0 {
		limiter = newRateLimiter(cfg.RateLimit.Burst, cfg.RateLimit.RefillInterval)
	}

	return &Session{
		id:          uuid.New(),
		conn:        conn,
		server:      srv,
		addr:        addr,
		cfg:         cfg,
		logger:      srv.logger,
		rateLimiter: limiter,
		nickname:    unknownNickname,
		done:        make(chan struct{}),
	}
}

// ID returns the session identifier used in operator logs.
func (s *Session) ID() uuid.UUID { return s.id }

// Addr returns the remote address of the connection.
func (s *Session) Addr() string { return s.addr }

// Nickname returns the display name set by LOGIN.
func (s *Session) Nickname() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nickname
}

func (s *Session) setNickname(name string) {
	s.mu.Lock()
	s.nickname = name
	s.mu.Unlock()
}

// Alive reports whether the session has not been closed.
func (s *Session) Alive() bool {
	return !s.closed.Load()
}

// Send writes one message to the connection and blocks until the write is
// accepted. A failed write closes the session; sends after close are no-ops.
func (s *Session) Send(msg protocol.Message) {
	if s.closed.Load() {
		return
	}

	data, err := protocol.Encode(msg)
	if err != nil {
		s.logger.Printf("Error encoding message for %s: %v", s.describe(), err)
		return
	}

	if err := s.write(data); err != nil {
		if !isExpectedCloseError(err) {
			s.logger.Printf("Error writing message to %s: %v", s.describe(), err)
		}
		s.Close()
	}
}

func (s *Session) write(data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.closed.Load() {
		return nil
	}
	if err := s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteWait)); err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Close tears the session down: it leaves the current room, deregisters from
// the server, and closes the connection. Only the first call has any effect.
func (s *Session) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	close(s.done)

	s.leaveRoom()
	s.server.RemoveSession(s)
	s.closeConnection()

	s.logger.Printf("Session %s closed", s.describe())
}

// closeConnection sends a best-effort close frame and releases the connection.
func (s *Session) closeConnection() {
	if s.conn == nil {
		return
	}
	deadline := time.Now().Add(s.cfg.WriteWait)
	closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := s.conn.WriteControl(websocket.CloseMessage, closeMsg, deadline); err != nil {
		if !isExpectedCloseError(err) && !errors.Is(err, websocket.ErrCloseSent) {
			s.logger.Printf("Error writing close message to %s: %v", s.describe(), err)
		}
	}
	if err := s.conn.Close(); err != nil {
		if !isExpectedCloseError(err) {
			s.logger.Printf("Error closing connection for %s: %v", s.describe(), err)
		}
	}
}

// run is the receive loop. Messages are handled one at a time, in arrival
// order, until the connection ends; the session is then closed.
func (s *Session) run() {
	defer s.Close()

	s.setupReadConnection()

	s.server.wg.Add(1)
	go func() {
		defer s.server.wg.Done()
		s.keepAlive()
	}()

	for {
		_, rawMessage, err := s.conn.ReadMessage()
		if err != nil {
			s.handleReadError(err)
			return
		}
		s.extendReadDeadline()

		if !s.checkRateLimit() {
			continue
		}

		s.processMessage(rawMessage)
	}
}

// setupReadConnection configures read deadlines and pong handler for the WebSocket connection
func (s *Session) setupReadConnection() {
	s.extendReadDeadline()
	s.conn.SetPongHandler(func(string) error {
		s.extendReadDeadline()
		return nil
	})
}

func (s *Session) extendReadDeadline() {
	if err := s.conn.SetReadDeadline(time.Now().Add(s.cfg.PongWait)); err != nil {
		s.logger.Printf("Error setting read deadline for %s: %v", s.describe(), err)
	}
}

// keepAlive pings the peer until the session closes. Control frames may be
// written concurrently with data frames.
func (s *Session) keepAlive() {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			deadline := time.Now().Add(s.cfg.WriteWait)
			if err := s.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				if !isExpectedCloseError(err) {
					s.logger.Printf("Error writing ping message to %s: %v", s.describe(), err)
				}
				s.Close()
				return
			}
		}
	}
}

// handleReadError logs the reason a receive loop ended.
func (s *Session) handleReadError(err error) {
	if s.closed.Load() {
		return
	}

	switch {
	case errors.Is(err, websocket.ErrReadLimit):
		s.logger.Printf("Message from %s exceeded maximum size of %d bytes", s.describe(), s.cfg.MaxMessageSize)
	case websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived):
		s.logger.Printf("Client %s disconnected", s.describe())
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF), isExpectedCloseError(err):
		s.logger.Printf("Client %s connection closed: %v", s.describe(), err)
	case websocket.IsUnexpectedCloseError(err):
		s.logger.Printf("Unexpected WebSocket close from %s: %v", s.describe(), err)
	default:
		s.logger.Printf("WebSocket read error from %s: %v", s.describe(), err)
	}
}

// checkRateLimit verifies if the session has exceeded rate limits
// and returns true if the message should be processed. Sessions without a
// limiter accept everything.
func (s *Session) checkRateLimit() bool {
	if s.rateLimiter != nil && !s.rateLimiter.allow() {
		s.logger.Printf("Rate limit exceeded for %s (%d messages per %s); discarding message",
			s.describe(), s.cfg.RateLimit.Burst, s.cfg.RateLimit.RefillInterval)
		return false
	}
	return true
}

// processMessage decodes and dispatches a raw frame and returns true if the
// frame was a well-formed message.
func (s *Session) processMessage(rawMessage []byte) bool {
	msg, err := protocol.Decode(rawMessage)
	if err != nil {
		s.logger.Printf("Invalid message from %s: %v", s.describe(), err)
		return false
	}

	s.dispatch(msg)
	return true
}

func (s *Session) describe() string {
	return s.Nickname() + "@" + s.addr + " (" + s.id.String()[:8] + ")"
}
