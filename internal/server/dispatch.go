package server

import (
	"github.com/Tyrowin/lobby-server/internal/lobby"
	"github.com/Tyrowin/lobby-server/internal/protocol"
)

// dispatch handles one inbound message to completion, including every
// broadcast it triggers.
func (s *Session) dispatch(msg protocol.Message) {
	switch msg.Mode {
	case protocol.ModeLogin:
		s.handleLogin(msg)
	case protocol.ModeRoomCreate:
		s.handleRoomCreate(msg)
	case protocol.ModeRoomEnter:
		s.handleRoomEnter(msg)
	case protocol.ModeRoomLeave:
		s.leaveRoom()
	case protocol.ModeChat:
		s.handleChat(msg)
	case protocol.ModeGameStart:
		s.handleGameStart()
	default:
		s.logger.Printf("[UNKNOWN MODE] %q from %s", msg.Mode, s.describe())
	}
}

func (s *Session) handleLogin(msg protocol.Message) {
	name := msg.User
	if name == "" {
		name = msg.Text
	}
	if name != "" {
		s.setNickname(name)
	}
	s.logger.Printf("[LOGIN] %s", s.describe())

	s.Send(protocol.FromServer(protocol.ModeLoginOK, ""))
	s.Send(protocol.FromServer(protocol.ModeRoomList, s.server.registry.Listing()))

	// A rename inside a room changes that room's player listing.
	if room, ok := s.server.registry.CurrentRoom(s); ok {
		room.SendPlayerList()
	}
}

func (s *Session) handleRoomCreate(msg protocol.Message) {
	if move, ok := s.server.registry.CreateAndEnter(s, msg.Text); ok {
		s.announceMove(move)
	}
}

// handleRoomEnter ignores names that match no room.
func (s *Session) handleRoomEnter(msg protocol.Message) {
	if move, ok := s.server.registry.EnterByName(s, msg.Text); ok {
		s.announceMove(move)
	}
}

func (s *Session) handleChat(msg protocol.Message) {
	room, ok := s.server.registry.CurrentRoom(s)
	if !ok {
		return
	}
	room.Broadcast(protocol.New(protocol.ModeChat, s.Nickname(), msg.Text))
}

func (s *Session) handleGameStart() {
	room, ok := s.server.registry.CurrentRoom(s)
	if !ok {
		return
	}
	s.logger.Printf("[GAME START] %s in %s", s.Nickname(), room.Name())
	room.Broadcast(protocol.New(protocol.ModeGameStart, s.Nickname(), ""))
}

// leaveRoom is a no-op in the lobby.
func (s *Session) leaveRoom() {
	if move, ok := s.server.registry.Leave(s); ok {
		s.announceMove(move)
	}
}

// announceMove pushes fresh player listings to the rooms a transition
// touched, then redraws every session's lobby view. Deleted rooms have no
// members left to notify.
func (s *Session) announceMove(move lobby.Move) {
	if move.From != nil && !move.FromDeleted && move.From != move.To {
		move.From.SendPlayerList()
	}
	if move.To != nil {
		move.To.SendPlayerList()
	}
	s.server.BroadcastRoomListing()
}
