package http

import (
	"encoding/json"
	"strings"

	"github.com/vovakirdan/chatroom-server/internal/core"
	"github.com/vovakirdan/chatroom-server/internal/proto"
)

// inboundToCommand validates an inbound envelope and turns it into a hub command.
func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error) {
	switch inbound.Type {
	case proto.InboundRoomJoin:
		return roomCommand(core.CommandJoinRoom, inbound.Data)
	case proto.InboundRoomLeave:
		return roomCommand(core.CommandLeaveRoom, inbound.Data)
	case proto.InboundTypingStart:
		return roomCommand(core.CommandTypingStart, inbound.Data)
	case proto.InboundTypingStop:
		return roomCommand(core.CommandTypingStop, inbound.Data)
	case proto.InboundRoomCreate:
		var name string
		if err := json.Unmarshal(inbound.Data, &name); err != nil {
			return nil, badRequest("room name must be a string")
		}
		if strings.TrimSpace(name) == "" {
			return nil, badRequest("room name is required")
		}
		return &core.Command{Kind: core.CommandCreateRoom, Name: name}, nil
	case proto.InboundMessageSend:
		var msg proto.SendMessageData
		if err := json.Unmarshal(inbound.Data, &msg); err != nil {
			return nil, badRequest("invalid message payload")
		}
		if strings.TrimSpace(msg.RoomID) == "" {
			return nil, badRequest("roomId is required")
		}
		return &core.Command{
			Kind:    core.CommandSendRoomMessage,
			Room:    msg.RoomID,
			Content: msg.Content,
		}, nil
	default:
		return nil, &proto.Error{Code: core.ErrCodeInvalidMessage, Msg: "unknown message type"}
	}
}

// roomCommand decodes the bare room id payload shared by join, leave and typing.
func roomCommand(kind core.CommandKind, data json.RawMessage) (*core.Command, *proto.Error) {
	var roomID string
	if err := json.Unmarshal(data, &roomID); err != nil {
		return nil, badRequest("room id must be a string")
	}
	if strings.TrimSpace(roomID) == "" {
		return nil, badRequest("room id is required")
	}
	return &core.Command{Kind: kind, Room: roomID}, nil
}

func badRequest(msg string) *proto.Error {
	return &proto.Error{Code: core.ErrCodeBadRequest, Msg: msg}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventRoomList:
		return proto.Outbound{Type: proto.OutboundRoomsList, Data: roomListItems(event.Rooms)}
	case core.EventRoomCreated:
		return proto.Outbound{
			Type: proto.OutboundRoomCreated,
			Data: proto.RoomCreated{ID: event.Room.ID, Name: event.Room.Name},
		}
	case core.EventRoomUpdate:
		return proto.Outbound{
			Type: proto.OutboundRoomUpdate,
			Data: proto.RoomUpdate{ID: event.Room.ID, UserCount: event.Room.UserCount()},
		}
	case core.EventUserJoined:
		return proto.Outbound{Type: proto.OutboundRoomUserJoined, Data: protoUser(event.User)}
	case core.EventUserLeft:
		return proto.Outbound{Type: proto.OutboundRoomUserLeft, Data: protoUser(event.User)}
	case core.EventHistory:
		messages := make([]proto.Message, 0, len(event.Messages))
		for _, msg := range event.Messages {
			messages = append(messages, protoMessage(msg))
		}
		return proto.Outbound{Type: proto.OutboundRoomMessages, Data: messages}
	case core.EventRoomMessage:
		return proto.Outbound{Type: proto.OutboundMessageNew, Data: protoMessage(event.Message)}
	case core.EventOnlineUsers:
		return proto.Outbound{Type: proto.OutboundUsersOnline, Data: protoUsers(event.Users)}
	case core.EventTypingStart:
		return proto.Outbound{Type: proto.OutboundTypingStart, Data: protoUser(event.User)}
	case core.EventTypingStop:
		return proto.Outbound{Type: proto.OutboundTypingStop, Data: protoUser(event.User)}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundError, Data: proto.Error{Code: core.ErrCodeInternal, Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type: proto.OutboundError,
			Data: proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundError, Data: proto.Error{Code: core.ErrCodeInternal, Msg: "unsupported event"}}
	}
}

func roomListItem(room core.Room) proto.RoomListItem {
	return proto.RoomListItem{
		ID:        room.ID,
		Name:      room.Name,
		CreatedBy: room.OwnerID,
		UserCount: room.UserCount(),
		CreatedAt: room.CreatedAt,
	}
}

func roomListItems(rooms []core.Room) []proto.RoomListItem {
	items := make([]proto.RoomListItem, 0, len(rooms))
	for _, room := range rooms {
		items = append(items, roomListItem(room))
	}
	return items
}

func protoUser(p core.Presence) proto.User {
	return proto.User{UserID: p.UserID, DisplayName: p.DisplayName}
}

func protoUsers(users []core.Presence) []proto.User {
	out := make([]proto.User, 0, len(users))
	for _, u := range users {
		out = append(out, protoUser(u))
	}
	return out
}

func protoMessage(msg core.Message) proto.Message {
	return proto.Message{
		ID:          msg.ID,
		RoomID:      msg.RoomID,
		UserID:      msg.UserID,
		DisplayName: msg.DisplayName,
		Content:     msg.Content,
		Timestamp:   msg.Timestamp,
	}
}
