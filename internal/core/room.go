package core

import (
	"sort"
	"time"
)

// Room is a read-only snapshot of a room's state.
type Room struct {
	ID        string
	Name      string
	OwnerID   string
	CreatedAt time.Time
	Members   []string
}

// UserCount returns the number of members in the snapshot.
func (r Room) UserCount() int {
	return len(r.Members)
}

// roomState is the mutable room record owned by the Directory.
type roomState struct {
	id        string
	name      string
	ownerID   string
	createdAt time.Time
	members   map[string]struct{}
	history   []Message
}

func newRoomState(id, name, ownerID string, createdAt time.Time) *roomState {
	return &roomState{
		id:        id,
		name:      name,
		ownerID:   ownerID,
		createdAt: createdAt,
		members:   map[string]struct{}{ownerID: {}},
	}
}

// addMember inserts a user into the member set. Returns true if newly added.
func (r *roomState) addMember(userID string) bool {
	if _, exists := r.members[userID]; exists {
		return false
	}
	r.members[userID] = struct{}{}
	return true
}

// removeMember deletes a user from the member set. Returns true if removed.
func (r *roomState) removeMember(userID string) bool {
	if _, exists := r.members[userID]; !exists {
		return false
	}
	delete(r.members, userID)
	return true
}

// appendMessage adds msg to the history and evicts the oldest entries beyond limit.
func (r *roomState) appendMessage(msg Message, limit int) {
	r.history = append(r.history, msg)
	if excess := len(r.history) - limit; excess > 0 {
		copy(r.history, r.history[excess:])
		clear(r.history[limit:])
		r.history = r.history[:limit]
	}
}

func (r *roomState) recent(limit int) []Message {
	if limit <= 0 || len(r.history) == 0 {
		return []Message{}
	}
	start := max(len(r.history)-limit, 0)
	out := make([]Message, len(r.history)-start)
	copy(out, r.history[start:])
	return out
}

func (r *roomState) snapshot() Room {
	members := make([]string, 0, len(r.members))
	for id := range r.members {
		members = append(members, id)
	}
	sort.Strings(members)
	return Room{
		ID:        r.id,
		Name:      r.name,
		OwnerID:   r.ownerID,
		CreatedAt: r.createdAt,
		Members:   members,
	}
}

// SortRooms orders rooms by creation time, then id.
func SortRooms(rooms []Room) {
	sort.Slice(rooms, func(i, j int) bool {
		if !rooms[i].CreatedAt.Equal(rooms[j].CreatedAt) {
			return rooms[i].CreatedAt.Before(rooms[j].CreatedAt)
		}
		return rooms[i].ID < rooms[j].ID
	})
}
