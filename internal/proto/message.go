package proto

import (
	"encoding/json"
	"time"
)

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Inbound event names. room:join, room:leave, room:create and typing:* carry
// a bare JSON string; message:send carries SendMessageData.
const (
	InboundRoomJoin    = "room:join"
	InboundRoomLeave   = "room:leave"
	InboundRoomCreate  = "room:create"
	InboundMessageSend = "message:send"
	InboundTypingStart = "typing:start"
	InboundTypingStop  = "typing:stop"
)

// Outbound event names.
const (
	OutboundRoomsList      = "rooms:list"
	OutboundRoomCreated    = "room:created"
	OutboundRoomUpdate     = "room:update"
	OutboundRoomUserJoined = "room:user-joined"
	OutboundRoomUserLeft   = "room:user-left"
	OutboundRoomMessages   = "room:messages"
	OutboundMessageNew     = "message:new"
	OutboundUsersOnline    = "users:online"
	OutboundTypingStart    = "typing:start"
	OutboundTypingStop     = "typing:stop"
	OutboundError          = "error"
)

// SendMessageData is the payload of message:send.
type SendMessageData struct {
	RoomID  string `json:"roomId"`
	Content string `json:"content"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// RoomListItem is one entry of rooms:list.
type RoomListItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"createdBy"`
	UserCount int       `json:"userCount"`
	CreatedAt time.Time `json:"createdAt"`
}

// RoomCreated confirms an explicit room creation.
type RoomCreated struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RoomUpdate carries a room's member count.
type RoomUpdate struct {
	ID        string `json:"id"`
	UserCount int    `json:"userCount"`
}

// User identifies a user in presence, join/leave and typing events.
type User struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

// Message is a chat message as seen by clients.
type Message struct {
	ID          string    `json:"id"`
	RoomID      string    `json:"roomId"`
	UserID      string    `json:"userId"`
	DisplayName string    `json:"displayName"`
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
