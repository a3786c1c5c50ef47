package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventRoomList carries the full room list.
	EventRoomList EventKind = iota
	// EventRoomCreated confirms an explicit room creation to its creator.
	EventRoomCreated
	// EventRoomUpdate carries a room's current member count.
	EventRoomUpdate
	// EventUserJoined notifies room members about a user joining.
	EventUserJoined
	// EventUserLeft notifies room members about a user leaving.
	EventUserLeft
	// EventHistory delivers recent messages to a client upon joining a room.
	EventHistory
	// EventRoomMessage delivers a newly accepted message.
	EventRoomMessage
	// EventOnlineUsers carries the full presence list.
	EventOnlineUsers
	// EventTypingStart notifies room members that a user is composing.
	EventTypingStart
	// EventTypingStop notifies room members that a user stopped composing.
	EventTypingStop
	// EventError notifies a single client about a rejected command.
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventRoomList:
		return "room_list"
	case EventRoomCreated:
		return "room_created"
	case EventRoomUpdate:
		return "room_update"
	case EventUserJoined:
		return "user_joined"
	case EventUserLeft:
		return "user_left"
	case EventHistory:
		return "history"
	case EventRoomMessage:
		return "message"
	case EventOnlineUsers:
		return "online_users"
	case EventTypingStart:
		return "typing_start"
	case EventTypingStop:
		return "typing_stop"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is sent to clients to describe what happened in the system.
// Events are shared between recipients and must not be modified once sent.
type Event struct {
	Kind     EventKind
	Room     Room     // EventRoomCreated, EventRoomUpdate
	Rooms    []Room   // EventRoomList
	User     Presence // EventUserJoined, EventUserLeft, EventTyping*
	Users    []Presence
	Message  Message
	Messages []Message // EventHistory
	Error    *CoreError
}
