// Package protocol defines the lobby wire vocabulary: the message modes, the
// Message record exchanged in both directions, its JSON codec, and the
// delimiter-joined encoding used for room and player listings.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Mode tags a Message with its meaning.
type Mode string

// Message modes understood by the server.
const (
	ModeLogin      Mode = "LOGIN"
	ModeLoginOK    Mode = "LOGIN_OK"
	ModeRoomList   Mode = "ROOM_LIST"
	ModeRoomCreate Mode = "ROOM_CREATE"
	ModeRoomEnter  Mode = "ROOM_ENTER"
	ModeRoomLeave  Mode = "ROOM_LEAVE"
	ModeRoomUpdate Mode = "ROOM_UPDATE"
	ModeChat       Mode = "CHAT"
	ModeGameStart  Mode = "GAME_START"
)

// ServerUser is the sender name stamped on server-originated messages.
const ServerUser = "SERVER"

// ErrMissingMode is returned by Decode when a frame has no mode tag.
var ErrMissingMode = errors.New("protocol: message has no mode")

// Message is one complete record on the wire. Text carries a room name,
// a chat body, or a delimiter-joined listing depending on Mode.
type Message struct {
	Mode Mode   `json:"mode"`
	User string `json:"user"`
	Text string `json:"text,omitempty"`
}

// New builds a Message.
func New(mode Mode, user, text string) Message {
	return Message{Mode: mode, User: user, Text: text}
}

// FromServer builds a server-originated Message.
func FromServer(mode Mode, text string) Message {
	return Message{Mode: mode, User: ServerUser, Text: text}
}

// Known reports whether m is one of the defined modes.
func (m Mode) Known() bool {
	switch m {
	case ModeLogin, ModeLoginOK, ModeRoomList, ModeRoomCreate, ModeRoomEnter,
		ModeRoomLeave, ModeRoomUpdate, ModeChat, ModeGameStart:
		return true
	}
	return false
}

// Encode serializes a message into a single frame payload.
func Encode(msg Message) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode %s message: %w", msg.Mode, err)
	}
	return data, nil
}

// Decode parses one frame payload. Unknown modes decode successfully so the
// caller can report them; a missing mode is an error.
func Decode(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("decode message: %w", err)
	}
	if msg.Mode == "" {
		return Message{}, ErrMissingMode
	}
	return msg, nil
}
