// Package server coordinates session registration, lobby-wide broadcast, and
// connection cleanup for the lobby server.
package server

import (
	"github.com/Tyrowin/lobby-server/internal/protocol"
)

// addSession registers a freshly upgraded session. Sessions that arrive
// after Stop has begun are refused so shutdown never misses one.
func (s *Server) addSession(sess *Session) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return ErrServerStopped
	}
	s.sessions[sess] = struct{}{}
	s.wg.Add(1)
	sessionCount := len(s.sessions)
	s.mu.Unlock()

	s.logger.Printf("Session %s connected from %s. Total sessions: %d", sess.id, sess.addr, sessionCount)
	return nil
}

// RemoveSession deregisters a session. It reports whether the session was
// registered; repeat calls are no-ops.
func (s *Server) RemoveSession(sess *Session) bool {
	s.mu.Lock()
	_, ok := s.sessions[sess]
	if ok {
		delete(s.sessions, sess)
	}
	sessionCount := len(s.sessions)
	s.mu.Unlock()

	if ok {
		s.logger.Printf("Session %s removed. Total sessions: %d", sess.id, sessionCount)
	}
	return ok
}

// Sessions returns a snapshot of every registered session.
func (s *Server) Sessions() []*Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := make([]*Session, 0, len(s.sessions))
	for sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	return sessions
}

// SessionCount returns the number of registered sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// RoomCount returns the number of open rooms.
func (s *Server) RoomCount() int {
	return s.registry.Len()
}

// BroadcastToAll sends msg to every registered session, including sessions
// that have not logged in yet.
func (s *Server) BroadcastToAll(msg protocol.Message) {
	for _, sess := range s.Sessions() {
		sess.Send(msg)
	}
}

// BroadcastRoomListing sends the current room listing to every session.
func (s *Server) BroadcastRoomListing() {
	s.BroadcastToAll(protocol.FromServer(protocol.ModeRoomList, s.registry.Listing()))
}

// closeSessions closes every registered session; each runs its own full
// close sequence.
func (s *Server) closeSessions() int {
	sessions := s.Sessions()
	for _, sess := range sessions {
		sess.Close()
	}
	return len(sessions)
}
