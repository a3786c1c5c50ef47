package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/chatroom-server/internal/config"
	"github.com/vovakirdan/chatroom-server/internal/core"
	"github.com/vovakirdan/chatroom-server/internal/proto"
)

func TestWebSocketRejectsUnauthenticated(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := []struct {
		name   string
		url    string
		header string
	}{
		{name: "no token", url: env.ts.URL + "/ws"},
		{name: "bad header token", url: env.ts.URL + "/ws", header: "Bearer nope"},
		{name: "bad query token", url: env.ts.URL + "/ws?token=nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, tt.url, nil)
			require.NoError(t, err)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := env.ts.Client().Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}

	assert.Equal(t, 0, env.hub.Sessions().Len())
}

func TestWebSocketConnectSnapshots(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.register(t, "alice")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, env.wsURL()+"?token="+token, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "done")

	rooms := decode[[]proto.RoomListItem](t, waitFrame(ctx, t, conn, proto.OutboundRoomsList))
	assert.Empty(t, rooms)

	users := decode[[]proto.User](t, waitFrame(ctx, t, conn, proto.OutboundUsersOnline))
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].DisplayName)
}

func TestWebSocketJoinAndMessage(t *testing.T) {
	env := newTestEnv(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := env.dial(ctx, t, env.register(t, "alice"))
	connB := env.dial(ctx, t, env.register(t, "bob"))

	send(ctx, t, connA, proto.InboundRoomJoin, "general")
	history := decode[[]proto.Message](t, waitFrame(ctx, t, connA, proto.OutboundRoomMessages))
	assert.Empty(t, history)

	send(ctx, t, connB, proto.InboundRoomJoin, "general")
	waitFrame(ctx, t, connB, proto.OutboundRoomMessages)

	joined := decode[proto.User](t, waitFrame(ctx, t, connA, proto.OutboundRoomUserJoined))
	assert.Equal(t, "bob", joined.DisplayName)

	update := decode[proto.RoomUpdate](t, waitFrame(ctx, t, connA, proto.OutboundRoomUpdate))
	assert.Equal(t, proto.RoomUpdate{ID: "general", UserCount: 2}, update)

	send(ctx, t, connA, proto.InboundMessageSend, proto.SendMessageData{RoomID: "general", Content: "  hi there  "})

	for _, conn := range []*websocket.Conn{connA, connB} {
		msg := decode[proto.Message](t, waitFrame(ctx, t, conn, proto.OutboundMessageNew))
		assert.Equal(t, "general", msg.RoomID)
		assert.Equal(t, "alice", msg.DisplayName)
		assert.Equal(t, "hi there", msg.Content)
		assert.NotEmpty(t, msg.ID)
		assert.False(t, msg.Timestamp.IsZero())
	}
}

func TestWebSocketTypingAndDisconnect(t *testing.T) {
	env := newTestEnv(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := env.dial(ctx, t, env.register(t, "alice"))
	connB := env.dial(ctx, t, env.register(t, "bob"))

	send(ctx, t, connA, proto.InboundRoomJoin, "general")
	waitFrame(ctx, t, connA, proto.OutboundRoomMessages)
	send(ctx, t, connB, proto.InboundRoomJoin, "general")
	waitFrame(ctx, t, connB, proto.OutboundRoomMessages)

	send(ctx, t, connB, proto.InboundTypingStart, "general")
	typing := decode[proto.User](t, waitFrame(ctx, t, connA, proto.OutboundTypingStart))
	assert.Equal(t, "bob", typing.DisplayName)

	require.NoError(t, connB.Close(websocket.StatusNormalClosure, "bye"))

	stopped := decode[proto.User](t, waitFrame(ctx, t, connA, proto.OutboundTypingStop))
	assert.Equal(t, "bob", stopped.DisplayName)

	users := decode[[]proto.User](t, waitFrame(ctx, t, connA, proto.OutboundUsersOnline))
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].DisplayName)
	assert.False(t, env.hub.Typing().IsTyping(typing.UserID, "general"))
}

func TestWebSocketCreateRoom(t *testing.T) {
	env := newTestEnv(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := env.dial(ctx, t, env.register(t, "alice"))
	send(ctx, t, conn, proto.InboundRoomCreate, "Lobby")

	rooms := decode[[]proto.RoomListItem](t, waitFrame(ctx, t, conn, proto.OutboundRoomsList))
	for len(rooms) == 0 {
		rooms = decode[[]proto.RoomListItem](t, waitFrame(ctx, t, conn, proto.OutboundRoomsList))
	}
	require.Len(t, rooms, 1)
	assert.Equal(t, "Lobby", rooms[0].Name)
	assert.Equal(t, 1, rooms[0].UserCount)

	created := decode[proto.RoomCreated](t, waitFrame(ctx, t, conn, proto.OutboundRoomCreated))
	assert.Equal(t, rooms[0].ID, created.ID)
	assert.Equal(t, "Lobby", created.Name)
}

func TestWebSocketProtocolErrors(t *testing.T) {
	env := newTestEnv(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := env.dial(ctx, t, env.register(t, "alice"))

	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte("{not json")))
	protoErr := decode[proto.Error](t, waitFrame(ctx, t, conn, proto.OutboundError))
	assert.Equal(t, core.ErrCodeBadRequest, protoErr.Code)

	send(ctx, t, conn, "room:explode", "general")
	protoErr = decode[proto.Error](t, waitFrame(ctx, t, conn, proto.OutboundError))
	assert.Equal(t, core.ErrCodeInvalidMessage, protoErr.Code)

	send(ctx, t, conn, proto.InboundRoomLeave, "nowhere")
	protoErr = decode[proto.Error](t, waitFrame(ctx, t, conn, proto.OutboundError))
	assert.Equal(t, core.ErrCodeRoomNotFound, protoErr.Code)
}

func TestWebSocketRateLimit(t *testing.T) {
	env := newTestEnv(t, func(cfg *config.Config) {
		cfg.MessagesPerMinute = 1
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := env.dial(ctx, t, env.register(t, "alice"))
	send(ctx, t, conn, proto.InboundRoomJoin, "general")
	waitFrame(ctx, t, conn, proto.OutboundRoomMessages)

	send(ctx, t, conn, proto.InboundMessageSend, proto.SendMessageData{RoomID: "general", Content: "one"})
	send(ctx, t, conn, proto.InboundMessageSend, proto.SendMessageData{RoomID: "general", Content: "two"})

	// The rejection is written by the reader while the accepted message comes
	// back through the hub, so either may arrive first.
	var gotErr, gotMsg bool
	for !gotErr || !gotMsg {
		var f frame
		require.NoError(t, wsjson.Read(ctx, conn, &f))
		switch f.Type {
		case proto.OutboundError:
			assert.Equal(t, core.ErrCodeRateLimited, decode[proto.Error](t, f).Code)
			gotErr = true
		case proto.OutboundMessageNew:
			assert.Equal(t, "one", decode[proto.Message](t, f).Content)
			gotMsg = true
		}
	}
}
