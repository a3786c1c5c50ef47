package core

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Session binds one live connection to its authenticated identity.
type Session struct {
	ConnID      string
	UserID      string
	DisplayName string
	CurrentRoom string // empty when the session is not in a room
	ConnectedAt time.Time
}

// Presence is a user with at least one live session.
type Presence struct {
	UserID      string
	DisplayName string
}

// SessionRegistry tracks live sessions keyed by connection id.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Register creates the session for connID.
func (r *SessionRegistry) Register(connID string, identity Identity) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[connID]; exists {
		return Session{}, fmt.Errorf("register %s: %w", connID, ErrDuplicateConnection)
	}
	s := &Session{
		ConnID:      connID,
		UserID:      identity.UserID,
		DisplayName: identity.DisplayName,
		ConnectedAt: r.now(),
	}
	r.sessions[connID] = s
	return *s, nil
}

// Unregister removes and returns the session for connID.
func (r *SessionRegistry) Unregister(connID string) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[connID]
	if !ok {
		return Session{}, fmt.Errorf("unregister %s: %w", connID, ErrSessionNotFound)
	}
	delete(r.sessions, connID)
	return *s, nil
}

// Get returns a copy of the session for connID.
func (r *SessionRegistry) Get(connID string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[connID]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// SetCurrentRoom points the session at roomID; an empty roomID clears it.
func (r *SessionRegistry) SetCurrentRoom(connID, roomID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[connID]
	if !ok {
		return fmt.Errorf("set room for %s: %w", connID, ErrSessionNotFound)
	}
	s.CurrentRoom = roomID
	return nil
}

// InRoom returns the connection ids whose current room is roomID, sorted.
func (r *SessionRegistry) InRoom(roomID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var conns []string
	for id, s := range r.sessions {
		if s.CurrentRoom == roomID {
			conns = append(conns, id)
		}
	}
	sort.Strings(conns)
	return conns
}

// UserInRoom reports whether any session of userID sits in roomID.
func (r *SessionRegistry) UserInRoom(userID, roomID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.sessions {
		if s.UserID == userID && s.CurrentRoom == roomID {
			return true
		}
	}
	return false
}

// HasUser reports whether userID has at least one live session.
func (r *SessionRegistry) HasUser(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.sessions {
		if s.UserID == userID {
			return true
		}
	}
	return false
}

// OnlineUsers returns every user with a live session, deduplicated by user id
// and ordered by display name, then user id.
func (r *SessionRegistry) OnlineUsers() []Presence {
	r.mu.RLock()
	seen := make(map[string]Presence, len(r.sessions))
	for _, s := range r.sessions {
		if _, ok := seen[s.UserID]; !ok {
			seen[s.UserID] = Presence{UserID: s.UserID, DisplayName: s.DisplayName}
		}
	}
	r.mu.RUnlock()

	users := make([]Presence, 0, len(seen))
	for _, p := range seen {
		users = append(users, p)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].DisplayName != users[j].DisplayName {
			return users[i].DisplayName < users[j].DisplayName
		}
		return users[i].UserID < users[j].UserID
	})
	return users
}

// Len returns the number of live sessions.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
