// Package lobby holds the shared room state of the lobby server: rooms, their
// member lists, and the registry that owns both.
//
// All room state, including which room each member currently occupies, is
// guarded by the owning Registry's mutex. Methods that send to members take a
// snapshot under the lock and deliver after releasing it, so a slow or dead
// connection never stalls other sessions.
package lobby

import (
	"github.com/Tyrowin/lobby-server/internal/protocol"
)

// Member is a participant that can occupy a room.
type Member interface {
	// Nickname returns the display name used in player listings.
	Nickname() string
	// Send delivers a message; it must be a no-op once the member is gone.
	Send(msg protocol.Message)
	// Alive reports whether the member can still be admitted into a room.
	Alive() bool
}

// Room is a named group of members. The id and name never change; the
// member list is guarded by the registry that created the room.
type Room struct {
	id      int
	name    string
	reg     *Registry
	members []Member
}

// ID returns the registry-assigned identifier.
func (r *Room) ID() int { return r.id }

// Name returns the room name. Names are not unique.
func (r *Room) Name() string { return r.name }

// Members returns a snapshot of the current members in join order.
func (r *Room) Members() []Member {
	r.reg.mu.Lock()
	defer r.reg.mu.Unlock()
	return append([]Member(nil), r.members...)
}

// Len returns the number of members.
func (r *Room) Len() int {
	r.reg.mu.Lock()
	defer r.reg.mu.Unlock()
	return len(r.members)
}

// IsEmpty reports whether the room has no members.
func (r *Room) IsEmpty() bool {
	return r.Len() == 0
}

// PlayerListing returns the delimiter-joined nicknames of the members.
func (r *Room) PlayerListing() string {
	r.reg.mu.Lock()
	defer r.reg.mu.Unlock()
	return r.playerListingLocked()
}

// Broadcast sends msg to every current member.
func (r *Room) Broadcast(msg protocol.Message) {
	for _, m := range r.Members() {
		m.Send(msg)
	}
}

// SendPlayerList pushes a ROOM_UPDATE carrying the player listing to every
// member. Recipients and listing come from the same snapshot.
func (r *Room) SendPlayerList() {
	r.reg.mu.Lock()
	members := append([]Member(nil), r.members...)
	listing := r.playerListingLocked()
	r.reg.mu.Unlock()

	msg := protocol.FromServer(protocol.ModeRoomUpdate, listing)
	for _, m := range members {
		m.Send(msg)
	}
}

func (r *Room) playerListingLocked() string {
	names := make([]string, len(r.members))
	for i, m := range r.members {
		names[i] = m.Nickname()
	}
	return protocol.JoinListing(names)
}

func (r *Room) addLocked(m Member) {
	r.members = append(r.members, m)
}

func (r *Room) removeLocked(m Member) bool {
	for i, existing := range r.members {
		if existing == m {
			r.members = append(r.members[:i], r.members[i+1:]...)
			return true
		}
	}
	return false
}
