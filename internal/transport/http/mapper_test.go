package http

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/chatroom-server/internal/core"
	"github.com/vovakirdan/chatroom-server/internal/proto"
)

func TestInboundToCommand(t *testing.T) {
	tests := []struct {
		name     string
		inbound  proto.Inbound
		want     *core.Command
		wantCode string
	}{
		{
			name:    "join",
			inbound: proto.Inbound{Type: proto.InboundRoomJoin, Data: json.RawMessage(`"general"`)},
			want:    &core.Command{Kind: core.CommandJoinRoom, Room: "general"},
		},
		{
			name:    "leave",
			inbound: proto.Inbound{Type: proto.InboundRoomLeave, Data: json.RawMessage(`"general"`)},
			want:    &core.Command{Kind: core.CommandLeaveRoom, Room: "general"},
		},
		{
			name:    "create",
			inbound: proto.Inbound{Type: proto.InboundRoomCreate, Data: json.RawMessage(`"Lobby"`)},
			want:    &core.Command{Kind: core.CommandCreateRoom, Name: "Lobby"},
		},
		{
			name:    "typing start",
			inbound: proto.Inbound{Type: proto.InboundTypingStart, Data: json.RawMessage(`"general"`)},
			want:    &core.Command{Kind: core.CommandTypingStart, Room: "general"},
		},
		{
			name:    "typing stop",
			inbound: proto.Inbound{Type: proto.InboundTypingStop, Data: json.RawMessage(`"general"`)},
			want:    &core.Command{Kind: core.CommandTypingStop, Room: "general"},
		},
		{
			name:    "send keeps raw content",
			inbound: proto.Inbound{Type: proto.InboundMessageSend, Data: json.RawMessage(`{"roomId":"general","content":"  hi "}`)},
			want:    &core.Command{Kind: core.CommandSendRoomMessage, Room: "general", Content: "  hi "},
		},
		{
			name:     "join with object payload",
			inbound:  proto.Inbound{Type: proto.InboundRoomJoin, Data: json.RawMessage(`{"room":"general"}`)},
			wantCode: core.ErrCodeBadRequest,
		},
		{
			name:     "join with blank id",
			inbound:  proto.Inbound{Type: proto.InboundRoomJoin, Data: json.RawMessage(`"   "`)},
			wantCode: core.ErrCodeBadRequest,
		},
		{
			name:     "create without payload",
			inbound:  proto.Inbound{Type: proto.InboundRoomCreate},
			wantCode: core.ErrCodeBadRequest,
		},
		{
			name:     "send without room",
			inbound:  proto.Inbound{Type: proto.InboundMessageSend, Data: json.RawMessage(`{"content":"hi"}`)},
			wantCode: core.ErrCodeBadRequest,
		},
		{
			name:     "unknown type",
			inbound:  proto.Inbound{Type: "hello", Data: json.RawMessage(`"x"`)},
			wantCode: core.ErrCodeInvalidMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, protoErr := inboundToCommand(tt.inbound)
			if tt.wantCode != "" {
				require.NotNil(t, protoErr)
				assert.Equal(t, tt.wantCode, protoErr.Code)
				assert.Nil(t, cmd)
				return
			}
			require.Nil(t, protoErr)
			assert.Equal(t, tt.want, cmd)
		})
	}
}

func TestOutboundFromEvent(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	room := core.Room{ID: "r1", Name: "Lobby", OwnerID: "u1", CreatedAt: created, Members: []string{"u1", "u2"}}
	alice := core.Presence{UserID: "u1", DisplayName: "alice"}

	out := outboundFromEvent(&core.Event{Kind: core.EventRoomList, Rooms: []core.Room{room}})
	assert.Equal(t, proto.OutboundRoomsList, out.Type)
	assert.Equal(t, []proto.RoomListItem{{ID: "r1", Name: "Lobby", CreatedBy: "u1", UserCount: 2, CreatedAt: created}}, out.Data)

	out = outboundFromEvent(&core.Event{Kind: core.EventRoomUpdate, Room: room})
	assert.Equal(t, proto.RoomUpdate{ID: "r1", UserCount: 2}, out.Data)

	out = outboundFromEvent(&core.Event{Kind: core.EventTypingStop, User: alice})
	assert.Equal(t, proto.OutboundTypingStop, out.Type)
	assert.Equal(t, proto.User{UserID: "u1", DisplayName: "alice"}, out.Data)

	out = outboundFromEvent(&core.Event{Kind: core.EventHistory})
	assert.Equal(t, proto.OutboundRoomMessages, out.Type)
	raw, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"room:messages","data":[]}`, string(raw))

	out = outboundFromEvent(&core.Event{Kind: core.EventOnlineUsers})
	raw, err = json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"users:online","data":[]}`, string(raw))

	out = outboundFromEvent(&core.Event{Kind: core.EventError, Error: core.NewError(core.ErrCodeRoomNotFound, "room not found")})
	assert.Equal(t, proto.Error{Code: core.ErrCodeRoomNotFound, Msg: "room not found"}, out.Data)
}
