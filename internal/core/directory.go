package core

import (
	"fmt"
	"sync"
	"time"
)

const (
	// MaxHistory is how many messages a room keeps.
	MaxHistory = 100
	// JoinHistoryLimit is how many recent messages a joiner receives.
	JoinHistoryLimit = 50
)

// Directory is the authoritative room store: room records, member sets and bounded history.
type Directory struct {
	mu           sync.RWMutex
	rooms        map[string]*roomState
	historyLimit int
	now          func() time.Time
}

// NewDirectory creates an empty room directory.
func NewDirectory() *Directory {
	return &Directory{
		rooms:        make(map[string]*roomState),
		historyLimit: MaxHistory,
		now:          time.Now,
	}
}

// FindByID returns a snapshot of the room.
func (d *Directory) FindByID(id string) (Room, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	room, ok := d.rooms[id]
	if !ok {
		return Room{}, false
	}
	return room.snapshot(), true
}

// ListAll returns snapshots of all rooms in no particular order.
func (d *Directory) ListAll() []Room {
	d.mu.RLock()
	defer d.mu.RUnlock()

	rooms := make([]Room, 0, len(d.rooms))
	for _, room := range d.rooms {
		rooms = append(rooms, room.snapshot())
	}
	return rooms
}

// CreateRoom registers a new room owned by ownerID, who becomes its first member.
func (d *Directory) CreateRoom(id, name, ownerID string) (Room, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.rooms[id]; exists {
		return Room{}, fmt.Errorf("create room %q: %w", id, ErrRoomExists)
	}
	room := newRoomState(id, name, ownerID, d.now())
	d.rooms[id] = room
	return room.snapshot(), nil
}

// GetOrCreateOnJoin adds userID to the room, creating the room first if it does not exist.
// An implicitly created room is named after its id and owned by the joining user.
func (d *Directory) GetOrCreateOnJoin(id, userID string) (Room, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	room, ok := d.rooms[id]
	if !ok {
		room = newRoomState(id, id, userID, d.now())
		d.rooms[id] = room
		return room.snapshot(), true
	}
	room.addMember(userID)
	return room.snapshot(), false
}

// IsMember reports whether userID is in the room's member set.
func (d *Directory) IsMember(roomID, userID string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	room, ok := d.rooms[roomID]
	if !ok {
		return false
	}
	_, member := room.members[userID]
	return member
}

// RemoveMember removes userID from the room. Returns false if the room does not exist.
func (d *Directory) RemoveMember(roomID, userID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	room, ok := d.rooms[roomID]
	if !ok {
		return false
	}
	room.removeMember(userID)
	return true
}

// RemoveUserEverywhere drops userID from every member set and returns the affected room ids.
func (d *Directory) RemoveUserEverywhere(userID string) []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	var affected []string
	for id, room := range d.rooms {
		if room.removeMember(userID) {
			affected = append(affected, id)
		}
	}
	return affected
}

// AppendMessage adds msg to the room's history, evicting the oldest messages past MaxHistory.
// Returns false if the room does not exist.
func (d *Directory) AppendMessage(roomID string, msg Message) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	room, ok := d.rooms[roomID]
	if !ok {
		return false
	}
	room.appendMessage(msg, d.historyLimit)
	return true
}

// RecentMessages returns up to limit of the room's latest messages, oldest first.
func (d *Directory) RecentMessages(roomID string, limit int) []Message {
	d.mu.RLock()
	defer d.mu.RUnlock()

	room, ok := d.rooms[roomID]
	if !ok {
		return []Message{}
	}
	return room.recent(limit)
}

// DeleteIfEmpty removes the room when it has no members left.
func (d *Directory) DeleteIfEmpty(roomID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	room, ok := d.rooms[roomID]
	if !ok || len(room.members) > 0 {
		return false
	}
	delete(d.rooms, roomID)
	return true
}
