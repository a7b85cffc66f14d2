// Package server implements the lobby server core: the session set, the
// accept loop, and the start/stop lifecycle driven by the operator.
package server

import (
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Tyrowin/lobby-server/internal/lobby"
)

// Server owns every session and the room registry. Start and Stop may be
// called repeatedly; each is a no-op when the server is already in the
// requested state.
type Server struct {
	cfg      Config
	logger   *log.Logger
	registry *lobby.Registry
	upgrader websocket.Upgrader

	// lifecycle is held for the whole of Start and Stop, so a Start never
	// lands inside a Stop that is still draining sessions.
	lifecycle sync.Mutex

	mu         sync.Mutex
	sessions   map[*Session]struct{}
	running    bool
	httpServer *http.Server
	listener   net.Listener
	serveDone  chan struct{}

	wg sync.WaitGroup
}

// NewServer creates a stopped server. A nil config uses defaults and a nil
// logger uses log.Default; the logger is the operator's print sink.
func NewServer(cfg *Config, logger *log.Logger) *Server {
	if cfg == nil {
		cfg = NewConfig()
	}
	if logger == nil {
		logger = log.Default()
	}
	sanitized := cfg.sanitize()
	origins := newOriginPolicy(sanitized, logger)

	return &Server{
		cfg:      sanitized,
		logger:   logger,
		registry: lobby.NewRegistry(logger),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     origins.checkOrigin,
		},
		sessions: make(map[*Session]struct{}),
	}
}

// Registry returns the room registry.
func (s *Server) Registry() *lobby.Registry {
	return s.registry
}

// Config returns the effective configuration.
func (s *Server) Config() Config {
	cfg := s.cfg
	cfg.AllowedOrigins = append([]string(nil), s.cfg.AllowedOrigins...)
	return cfg
}

// Running reports whether the server is accepting connections.
func (s *Server) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Addr returns the address the server is listening on, or "" when stopped.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Start binds port and begins accepting connections in the background. A
// bind failure is returned and the server stays stopped.
func (s *Server) Start(port string) error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	addr := normalizePort(port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		s.logger.Printf("Server start failed: %v", err)
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	httpServer := CreateServer(addr, SetupRoutes(s))
	httpServer.ErrorLog = s.logger
	done := make(chan struct{})

	s.running = true
	s.httpServer = httpServer
	s.listener = ln
	s.serveDone = done

	go func() {
		defer close(done)
		// Serve retries temporary accept errors itself and only returns on
		// a fatal listener error or Close.
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Printf("Accept loop stopped: %v", err)
		}
	}()

	s.logger.Printf("Server listening on %s", ln.Addr())
	return nil
}

// Stop stops accepting, closes every session, and releases the listener. It
// returns once every receive loop has finished.
func (s *Server) Stop() {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	httpServer := s.httpServer
	done := s.serveDone
	s.httpServer = nil
	s.listener = nil
	s.serveDone = nil
	s.mu.Unlock()

	s.logger.Println("Server stopping...")

	// Closing the HTTP server closes the listener, which ends the accept
	// loop. Upgraded connections are hijacked and are closed below.
	if err := httpServer.Close(); err != nil && !isExpectedCloseError(err) {
		s.logger.Printf("Error closing listener: %v", err)
	}
	<-done

	closed := s.closeSessions()
	s.wg.Wait()

	s.logger.Printf("Server stopped. Closed %d sessions", closed)
}
