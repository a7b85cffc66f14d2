package lobby

import (
	"log"
	"sync"

	"github.com/Tyrowin/lobby-server/internal/protocol"
)

// Move describes the outcome of a membership transition.
type Move struct {
	// From is the room the member left, or nil.
	From *Room
	// FromDeleted is set when leaving emptied From and it was removed.
	FromDeleted bool
	// To is the room the member is now in, or nil.
	To *Room
}

// Registry owns every room. One mutex guards the room list, each room's
// member list, and the member-to-room mapping, so membership and the
// member's current room can never disagree.
type Registry struct {
	mu       sync.Mutex
	nextID   int
	rooms    []*Room
	location map[Member]int
	logger   *log.Logger
}

// NewRegistry creates an empty registry. A nil logger uses log.Default.
func NewRegistry(logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.Default()
	}
	return &Registry{
		nextID:   1,
		location: make(map[Member]int),
		logger:   logger,
	}
}

// CreateRoom allocates the next id and registers a new empty room.
func (g *Registry) CreateRoom(name string) *Room {
	g.mu.Lock()
	room := g.createLocked(name)
	g.mu.Unlock()

	g.logCreate(room)
	return room
}

// RemoveRoom removes room by identity. It reports whether the room was
// still registered. Members still inside are detached.
func (g *Registry) RemoveRoom(room *Room) bool {
	g.mu.Lock()
	removed := g.removeLocked(room)
	g.mu.Unlock()

	if removed {
		g.logger.Printf("[ROOM DELETE] %s (ID=%d)", room.name, room.id)
	}
	return removed
}

// GetRoom returns the first room, in creation order, with the given name.
func (g *Registry) GetRoom(name string) (*Room, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	room := g.byNameLocked(name)
	return room, room != nil
}

// GetRoomByID returns the room with the given id.
func (g *Registry) GetRoomByID(id int) (*Room, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	room := g.byIDLocked(id)
	return room, room != nil
}

// Rooms returns a snapshot of the registered rooms in creation order.
func (g *Registry) Rooms() []*Room {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*Room(nil), g.rooms...)
}

// Names returns the room names in creation order.
func (g *Registry) Names() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	names := make([]string, len(g.rooms))
	for i, room := range g.rooms {
		names[i] = room.name
	}
	return names
}

// Listing returns the delimiter-joined room names in creation order, or the
// empty string when there are no rooms.
func (g *Registry) Listing() string {
	return protocol.JoinListing(g.Names())
}

// Len returns the number of rooms.
func (g *Registry) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.rooms)
}

// CurrentRoom returns the room m occupies. The lookup is by id, so a room
// deleted in the meantime is never returned.
func (g *Registry) CurrentRoom(m Member) (*Room, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, ok := g.location[m]
	if !ok {
		return nil, false
	}
	room := g.byIDLocked(id)
	return room, room != nil
}

// CreateAndEnter creates a room named name and moves m into it. Nothing is
// created when m is no longer alive.
func (g *Registry) CreateAndEnter(m Member, name string) (Move, bool) {
	g.mu.Lock()
	if !m.Alive() {
		g.mu.Unlock()
		return Move{}, false
	}
	room := g.createLocked(name)
	move := g.enterLocked(m, room)
	g.mu.Unlock()

	g.logCreate(room)
	g.logMove(m, move)
	return move, true
}

// Enter moves m into room. It fails when room has been removed or m is no
// longer alive.
func (g *Registry) Enter(m Member, room *Room) (Move, bool) {
	g.mu.Lock()
	if room == nil || !m.Alive() || g.indexLocked(room) < 0 {
		g.mu.Unlock()
		return Move{}, false
	}
	move := g.enterLocked(m, room)
	g.mu.Unlock()

	g.logMove(m, move)
	return move, true
}

// EnterByName looks up a room by name and moves m into it in one step. A
// missing room is reported as false, not as an error.
func (g *Registry) EnterByName(m Member, name string) (Move, bool) {
	g.mu.Lock()
	room := g.byNameLocked(name)
	if room == nil || !m.Alive() {
		g.mu.Unlock()
		return Move{}, false
	}
	move := g.enterLocked(m, room)
	g.mu.Unlock()

	g.logMove(m, move)
	return move, true
}

// Leave takes m out of its current room, deleting the room if it becomes
// empty. It reports false when m was not in a room.
func (g *Registry) Leave(m Member) (Move, bool) {
	g.mu.Lock()
	move := g.leaveLocked(m)
	g.mu.Unlock()

	if move.From == nil {
		return move, false
	}
	g.logMove(m, move)
	return move, true
}

func (g *Registry) enterLocked(m Member, room *Room) Move {
	if id, ok := g.location[m]; ok && id == room.id {
		return Move{To: room}
	}
	move := g.leaveLocked(m)
	room.addLocked(m)
	g.location[m] = room.id
	move.To = room
	return move
}

func (g *Registry) leaveLocked(m Member) Move {
	id, ok := g.location[m]
	if !ok {
		return Move{}
	}
	delete(g.location, m)

	room := g.byIDLocked(id)
	if room == nil {
		return Move{}
	}
	room.removeLocked(m)

	move := Move{From: room}
	if len(room.members) == 0 {
		move.FromDeleted = g.removeLocked(room)
	}
	return move
}

func (g *Registry) createLocked(name string) *Room {
	room := &Room{id: g.nextID, name: name, reg: g}
	g.nextID++
	g.rooms = append(g.rooms, room)
	return room
}

func (g *Registry) removeLocked(room *Room) bool {
	i := g.indexLocked(room)
	if i < 0 {
		return false
	}
	g.rooms = append(g.rooms[:i], g.rooms[i+1:]...)
	for _, m := range room.members {
		delete(g.location, m)
	}
	room.members = nil
	return true
}

func (g *Registry) indexLocked(room *Room) int {
	for i, r := range g.rooms {
		if r == room {
			return i
		}
	}
	return -1
}

func (g *Registry) byNameLocked(name string) *Room {
	for _, r := range g.rooms {
		if r.name == name {
			return r
		}
	}
	return nil
}

func (g *Registry) byIDLocked(id int) *Room {
	for _, r := range g.rooms {
		if r.id == id {
			return r
		}
	}
	return nil
}

func (g *Registry) logCreate(room *Room) {
	g.logger.Printf("[ROOM CREATE] %s (ID=%d)", room.name, room.id)
}

func (g *Registry) logMove(m Member, move Move) {
	if move.From != nil {
		g.logger.Printf("[LEAVE] %s <- %s", m.Nickname(), move.From.name)
		if move.FromDeleted {
			g.logger.Printf("[ROOM DELETE] %s (ID=%d)", move.From.name, move.From.id)
		}
	}
	if move.To != nil && move.To != move.From {
		g.logger.Printf("[ENTER] %s -> %s", m.Nickname(), move.To.name)
	}
}
