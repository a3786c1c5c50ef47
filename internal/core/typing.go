package core

import (
	"sort"
	"sync"
)

type typingKey struct {
	userID string
	roomID string
}

// TypingTracker holds ephemeral "is composing" markers per (user, room).
// Markers only go away on an explicit stop or on disconnect.
type TypingTracker struct {
	mu      sync.Mutex
	markers map[typingKey]string
}

// NewTypingTracker creates an empty tracker.
func NewTypingTracker() *TypingTracker {
	return &TypingTracker{markers: make(map[typingKey]string)}
}

// Start records that userID is typing in roomID. Repeated calls keep a single marker.
func (t *TypingTracker) Start(userID, roomID, displayName string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.markers[typingKey{userID, roomID}] = displayName
}

// Stop clears the marker. Returns false if there was none.
func (t *TypingTracker) Stop(userID, roomID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := typingKey{userID, roomID}
	if _, ok := t.markers[key]; !ok {
		return false
	}
	delete(t.markers, key)
	return true
}

// StopAllForUser clears every marker held by userID and returns the affected room ids, sorted.
func (t *TypingTracker) StopAllForUser(userID string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var rooms []string
	for key := range t.markers {
		if key.userID == userID {
			delete(t.markers, key)
			rooms = append(rooms, key.roomID)
		}
	}
	sort.Strings(rooms)
	return rooms
}

// IsTyping reports whether a marker exists for (userID, roomID).
func (t *TypingTracker) IsTyping(userID, roomID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.markers[typingKey{userID, roomID}]
	return ok
}

// Count returns the number of live markers.
func (t *TypingTracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.markers)
}
