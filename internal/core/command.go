package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoinRoom makes the room the session's current room, creating it if needed.
	CommandJoinRoom CommandKind = iota
	// CommandLeaveRoom drops the session out of a room.
	CommandLeaveRoom
	// CommandCreateRoom creates a room with a server-generated id.
	CommandCreateRoom
	// CommandSendRoomMessage appends a message to a room and delivers it to the room.
	CommandSendRoomMessage
	// CommandTypingStart marks the user as composing in a room.
	CommandTypingStart
	// CommandTypingStop clears the composing marker.
	CommandTypingStop
)

func (k CommandKind) String() string {
	switch k {
	case CommandJoinRoom:
		return "join"
	case CommandLeaveRoom:
		return "leave"
	case CommandCreateRoom:
		return "create"
	case CommandSendRoomMessage:
		return "send"
	case CommandTypingStart:
		return "typing_start"
	case CommandTypingStop:
		return "typing_stop"
	default:
		return "unknown"
	}
}

// Command represents an action requested by a client.
type Command struct {
	Kind    CommandKind
	Room    string
	Name    string // CommandCreateRoom
	Content string // CommandSendRoomMessage
}
