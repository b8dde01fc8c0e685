// Package matchmaking mediates between freshly-accepted connections and
// game sessions. The registry is the only state shared across connection
// goroutines; every read and mutation happens under its lock. The
// registry itself never touches the network.
package matchmaking

import (
	"fmt"
	"sync"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/entity"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/protocol"
)

// DefaultMaxRooms - upper bound on simultaneously open private rooms.
const DefaultMaxRooms = 20

// Room ids start above the message flag range so a client log never
// confuses the two.
const firstRoomID = 1000

// Endpoint - a connected player that is not yet inside a session: the
// player record plus its live connection.
type Endpoint struct {
	Player *entity.Player
	Conn   *protocol.Conn
}

// Room - a pending private-match invitation. Candidate is non-nil only
// while a join decision is outstanding.
type Room struct {
	ID        uint32
	Creator   *Endpoint
	Candidate *Endpoint
}

type Registry struct {
	mu sync.Mutex

	waiting  []*Endpoint
	rooms    map[uint32]*Room
	nextRoom uint32
	maxRooms int
}

func NewRegistry() *Registry {
	return &Registry{
		rooms:    make(map[uint32]*Room),
		nextRoom: firstRoomID,
		maxRooms: DefaultMaxRooms,
	}
}

// EnqueueRandom - adds the endpoint to the random-pairing queue, or pops
// the longest-waiting opponent if one exists. Exactly one of the two
// callers racing for the same opponent gets it.
func (that *Registry) EnqueueRandom(endpoint *Endpoint) (*Endpoint, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if len(that.waiting) > 0 {
		opponent := that.waiting[0]
		that.waiting = that.waiting[1:]
		return opponent, true
	}

	that.waiting = append(that.waiting, endpoint)

	return nil, false
}

// DropWaiting - removes an endpoint from the random queue, if it is
// still there. Returns false when the endpoint was already paired.
func (that *Registry) DropWaiting(endpoint *Endpoint) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	for i, waiting := range that.waiting {
		if waiting == endpoint {
			that.waiting = append(that.waiting[:i], that.waiting[i+1:]...)
			return true
		}
	}

	return false
}

// CreateRoom - opens a private room for the creator and returns it. Room
// ids are issued from a monotonic counter under the lock, so a live id
// is never reused.
func (that *Registry) CreateRoom(creator *Endpoint) (*Room, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if len(that.rooms) >= that.maxRooms {
		return nil, fmt.Errorf("%w: %d rooms open", apperror.ErrRoomsExhausted, len(that.rooms))
	}

	room := &Room{
		ID:      that.nextRoom,
		Creator: creator,
	}
	that.nextRoom++
	that.rooms[room.ID] = room

	return room, nil
}

// AttachCandidate - records a join candidate on the room. While one
// candidate awaits the creator's decision, the room is busy for everyone
// else.
func (that *Registry) AttachCandidate(roomID uint32, candidate *Endpoint) (*Room, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("%w: room %d", apperror.ErrRoomNotFound, roomID)
	}

	if room.Candidate != nil {
		return nil, fmt.Errorf("%w: room %d", apperror.ErrRoomBusy, roomID)
	}

	room.Candidate = candidate

	return room, nil
}

// DetachCandidate - clears a rejected candidate; the room reverts to
// awaiting another one.
func (that *Registry) DetachCandidate(roomID uint32) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if room, ok := that.rooms[roomID]; ok {
		room.Candidate = nil
	}
}

// RemoveRoom - deletes the room outright, either because its match
// started or because the creator disconnected. Returns nil when the id
// is unknown.
func (that *Registry) RemoveRoom(roomID uint32) *Room {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.rooms[roomID]
	if !ok {
		return nil
	}

	delete(that.rooms, roomID)

	return room
}

func (that *Registry) RoomCount() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.rooms)
}

func (that *Registry) WaitingCount() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.waiting)
}
