package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/chatroom-server/internal/utils"
)

const inboxSize = 256

type requestKind int

const (
	requestRegister requestKind = iota
	requestUnregister
	requestCommand
)

type request struct {
	kind   requestKind
	client *Client
	cmd    *Command
	done   chan error
}

// Options tunes hub behaviour.
type Options struct {
	// GCEmptyRooms deletes a room once its member set becomes empty after a leave or disconnect.
	GCEmptyRooms bool
}

// Hub coordinates sessions, rooms and typing state. Every registration,
// unregistration and command is processed by the single Run goroutine, one at a
// time and to completion, so multi-step handlers never interleave.
type Hub struct {
	sessions *SessionRegistry
	rooms    *Directory
	typing   *TypingTracker

	// clients is owned by the Run goroutine.
	clients map[string]*Client
	inbox   chan request
	stopped chan struct{}

	opts  Options
	log   *zerolog.Logger
	newID func() string
	now   func() time.Time
}

// NewHub creates a hub with empty stores. A nil logger disables logging.
func NewHub(opts Options, logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		sessions: NewSessionRegistry(),
		rooms:    NewDirectory(),
		typing:   NewTypingTracker(),
		clients:  make(map[string]*Client),
		inbox:    make(chan request, inboxSize),
		stopped:  make(chan struct{}),
		opts:     opts,
		log:      logger,
		newID:    utils.NewID,
		now:      time.Now,
	}
}

// Sessions exposes the session registry for read-only inspection.
func (h *Hub) Sessions() *SessionRegistry { return h.sessions }

// Rooms exposes the room directory for read-only inspection.
func (h *Hub) Rooms() *Directory { return h.rooms }

// Typing exposes the typing tracker for read-only inspection.
func (h *Hub) Typing() *TypingTracker { return h.typing }

// Run processes requests until ctx is cancelled. It must be called exactly once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.stopped)

	h.log.Info().Msg("hub started")
	for {
		select {
		case <-ctx.Done():
			h.log.Info().Int("clients", len(h.clients)).Msg("hub stopped")
			return
		case req := <-h.inbox:
			h.handle(req)
		}
	}
}

// RegisterClient creates the client's session and starts forwarding its commands.
// The client must already be authenticated.
func (h *Hub) RegisterClient(c *Client) error {
	done := make(chan error, 1)
	if err := h.submit(request{kind: requestRegister, client: c, done: done}); err != nil {
		return err
	}
	select {
	case err := <-done:
		if err != nil {
			return err
		}
		go h.pump(c)
		return nil
	case <-h.stopped:
		return ErrHubStopped
	}
}

// UnregisterClient removes the client and blocks until all of its session,
// membership and typing state has been cleaned up.
func (h *Hub) UnregisterClient(c *Client) {
	done := make(chan error, 1)
	if err := h.submit(request{kind: requestUnregister, client: c, done: done}); err != nil {
		return
	}
	select {
	case <-done:
	case <-h.stopped:
	}
}

func (h *Hub) submit(req request) error {
	select {
	case h.inbox <- req:
		return nil
	case <-h.stopped:
		return ErrHubStopped
	}
}

// pump forwards a client's commands into the hub inbox until the client is unregistered.
func (h *Hub) pump(c *Client) {
	for {
		select {
		case cmd, ok := <-c.Commands:
			if !ok {
				return
			}
			if cmd == nil {
				continue
			}
			select {
			case h.inbox <- request{kind: requestCommand, client: c, cmd: cmd}:
			case <-c.done:
				return
			case <-h.stopped:
				return
			}
		case <-c.done:
			return
		case <-h.stopped:
			return
		}
	}
}

func (h *Hub) handle(req request) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error().Str("panic", fmt.Sprint(r)).Str("conn_id", req.client.ID).Msg("recovered from panic in hub handler")
			if req.done != nil {
				req.done <- fmt.Errorf("hub handler panic: %v", r)
			}
		}
	}()

	switch req.kind {
	case requestRegister:
		req.done <- h.register(req.client)
	case requestUnregister:
		h.unregister(req.client)
		req.done <- nil
	case requestCommand:
		h.dispatch(req.client, req.cmd)
	}
}

func (h *Hub) register(c *Client) error {
	if _, err := h.sessions.Register(c.ID, Identity{UserID: c.UserID, DisplayName: c.DisplayName}); err != nil {
		h.log.Error().Err(err).Str("conn_id", c.ID).Str("user_id", c.UserID).Msg("register client")
		return err
	}
	h.clients[c.ID] = c

	h.log.Info().Str("conn_id", c.ID).Str("user_id", c.UserID).Str("user", c.DisplayName).Msg("client connected")

	h.send(c, h.roomListEvent())
	h.broadcastAll(h.onlineUsersEvent())
	return nil
}

func (h *Hub) unregister(c *Client) {
	if h.clients[c.ID] != c {
		return
	}
	delete(h.clients, c.ID)
	close(c.done)

	sess, err := h.sessions.Unregister(c.ID)
	if err != nil {
		h.log.Error().Err(err).Str("conn_id", c.ID).Msg("unregister client")
		return
	}

	if sess.CurrentRoom != "" {
		h.exitRoom(sess, sess.CurrentRoom)
	}

	for _, roomID := range h.typing.StopAllForUser(sess.UserID) {
		h.broadcastRoom(roomID, userEvent(EventTypingStop, sess), sess.ConnID)
	}

	// Last session gone: drop memberships that were never backed by a session,
	// e.g. the creator seed of an explicitly created room.
	if !h.sessions.HasUser(sess.UserID) {
		for _, roomID := range h.rooms.RemoveUserEverywhere(sess.UserID) {
			h.afterMembershipLoss(roomID)
		}
	}

	h.log.Info().Str("conn_id", c.ID).Str("user_id", sess.UserID).Msg("client disconnected")

	h.broadcastAll(h.onlineUsersEvent())
	h.broadcastAll(h.roomListEvent())
}

func (h *Hub) dispatch(c *Client, cmd *Command) {
	if h.clients[c.ID] != c {
		return
	}
	sess, ok := h.sessions.Get(c.ID)
	if !ok {
		h.log.Error().Str("conn_id", c.ID).Msg("command from client without session")
		return
	}

	switch cmd.Kind {
	case CommandCreateRoom:
		h.createRoom(c, sess, cmd.Name)
	case CommandJoinRoom:
		h.joinRoom(c, sess, cmd.Room)
	case CommandLeaveRoom:
		h.leaveRoom(c, sess, cmd.Room)
	case CommandSendRoomMessage:
		h.sendMessage(sess, cmd.Room, cmd.Content)
	case CommandTypingStart:
		h.setTyping(sess, cmd.Room, true)
	case CommandTypingStop:
		h.setTyping(sess, cmd.Room, false)
	default:
		h.send(c, errorEvent(ErrCodeInvalidMessage, "unknown command"))
	}
}

func (h *Hub) createRoom(c *Client, sess Session, name string) {
	// The name is stored as sent; only a blank name is refused.
	if strings.TrimSpace(name) == "" {
		h.send(c, errorEvent(ErrCodeBadRequest, "room name is required"))
		return
	}

	room, err := h.rooms.CreateRoom(h.newID(), name, sess.UserID)
	if err != nil {
		h.log.Error().Err(err).Str("conn_id", c.ID).Msg("create room")
		h.send(c, errorEvent(ErrCodeInternal, "could not create room"))
		return
	}

	h.log.Info().Str("room_id", room.ID).Str("room", room.Name).Str("user_id", sess.UserID).Msg("room created")

	h.broadcastAll(h.roomListEvent())
	h.send(c, &Event{Kind: EventRoomCreated, Room: room})
}

func (h *Hub) joinRoom(c *Client, sess Session, roomID string) {
	if sess.CurrentRoom == roomID {
		room, ok := h.rooms.FindByID(roomID)
		if !ok {
			return
		}
		h.send(c, &Event{Kind: EventHistory, Room: room, Messages: h.rooms.RecentMessages(roomID, JoinHistoryLimit)})
		h.broadcastRoom(roomID, &Event{Kind: EventRoomUpdate, Room: room}, "")
		h.broadcastAll(h.roomListEvent())
		return
	}
	if sess.CurrentRoom != "" {
		h.exitRoom(sess, sess.CurrentRoom)
	}

	alreadyPresent := h.sessions.UserInRoom(sess.UserID, roomID)
	room, created := h.rooms.GetOrCreateOnJoin(roomID, sess.UserID)
	if err := h.sessions.SetCurrentRoom(c.ID, roomID); err != nil {
		h.log.Error().Err(err).Str("conn_id", c.ID).Msg("join room")
		return
	}
	if created {
		h.log.Info().Str("room_id", roomID).Str("user_id", sess.UserID).Msg("room created on join")
	}

	h.send(c, &Event{
		Kind:     EventHistory,
		Room:     room,
		Messages: h.rooms.RecentMessages(roomID, JoinHistoryLimit),
	})
	if !alreadyPresent {
		h.broadcastRoom(roomID, userEvent(EventUserJoined, sess), c.ID)
	}
	h.broadcastRoom(roomID, &Event{Kind: EventRoomUpdate, Room: room}, "")
	h.broadcastAll(h.roomListEvent())
}

func (h *Hub) leaveRoom(c *Client, sess Session, roomID string) {
	if _, ok := h.rooms.FindByID(roomID); !ok {
		h.send(c, errorEvent(ErrCodeRoomNotFound, "room not found"))
		return
	}
	h.exitRoom(sess, roomID)
	h.broadcastAll(h.roomListEvent())
}

// exitRoom takes sess out of roomID and notifies the room. The user stays a
// member while another of their sessions is still in the room.
func (h *Hub) exitRoom(sess Session, roomID string) {
	if current, ok := h.sessions.Get(sess.ConnID); ok && current.CurrentRoom == roomID {
		_ = h.sessions.SetCurrentRoom(sess.ConnID, "")
	}

	removed := false
	if !h.sessions.UserInRoom(sess.UserID, roomID) && h.rooms.IsMember(roomID, sess.UserID) {
		removed = h.rooms.RemoveMember(roomID, sess.UserID)
	}
	if removed {
		h.broadcastRoom(roomID, userEvent(EventUserLeft, sess), sess.ConnID)
	}
	h.afterMembershipLoss(roomID)
}

// afterMembershipLoss publishes the room's new count and applies the empty-room policy.
func (h *Hub) afterMembershipLoss(roomID string) {
	room, ok := h.rooms.FindByID(roomID)
	if !ok {
		return
	}
	h.broadcastRoom(roomID, &Event{Kind: EventRoomUpdate, Room: room}, "")

	if h.opts.GCEmptyRooms && room.UserCount() == 0 && h.rooms.DeleteIfEmpty(roomID) {
		h.log.Debug().Str("room_id", roomID).Msg("empty room removed")
	}
}

func (h *Hub) sendMessage(sess Session, roomID, content string) {
	content = NormalizeContent(content)
	if content == "" {
		h.log.Debug().Str("conn_id", sess.ConnID).Str("room_id", roomID).Msg("empty message dropped")
		return
	}

	msg := Message{
		ID:          h.newID(),
		RoomID:      roomID,
		UserID:      sess.UserID,
		DisplayName: sess.DisplayName,
		Content:     content,
		Timestamp:   h.now(),
	}
	if !h.rooms.AppendMessage(roomID, msg) {
		h.log.Debug().Str("conn_id", sess.ConnID).Str("room_id", roomID).Msg("message for unknown room dropped")
		return
	}

	h.broadcastRoom(roomID, &Event{Kind: EventRoomMessage, Message: msg}, "")
}

func (h *Hub) setTyping(sess Session, roomID string, typing bool) {
	if _, ok := h.rooms.FindByID(roomID); !ok {
		h.log.Debug().Str("conn_id", sess.ConnID).Str("room_id", roomID).Msg("typing for unknown room ignored")
		return
	}

	kind := EventTypingStart
	if typing {
		h.typing.Start(sess.UserID, roomID, sess.DisplayName)
	} else {
		h.typing.Stop(sess.UserID, roomID)
		kind = EventTypingStop
	}
	h.broadcastRoom(roomID, userEvent(kind, sess), sess.ConnID)
}

func (h *Hub) send(c *Client, ev *Event) {
	if !c.Send(ev) {
		h.log.Warn().Str("conn_id", c.ID).Str("event", ev.Kind.String()).Msg("client buffer full, event dropped")
	}
}

func (h *Hub) broadcastAll(ev *Event) {
	for _, c := range h.clients {
		h.send(c, ev)
	}
}

// broadcastRoom delivers ev to every connection currently in roomID except the one named by except.
func (h *Hub) broadcastRoom(roomID string, ev *Event, except string) {
	for _, connID := range h.sessions.InRoom(roomID) {
		if connID == except {
			continue
		}
		if c, ok := h.clients[connID]; ok {
			h.send(c, ev)
		}
	}
}

func (h *Hub) roomListEvent() *Event {
	rooms := h.rooms.ListAll()
	SortRooms(rooms)
	return &Event{Kind: EventRoomList, Rooms: rooms}
}

func (h *Hub) onlineUsersEvent() *Event {
	return &Event{Kind: EventOnlineUsers, Users: h.sessions.OnlineUsers()}
}

func userEvent(kind EventKind, sess Session) *Event {
	return &Event{Kind: kind, User: Presence{UserID: sess.UserID, DisplayName: sess.DisplayName}}
}

func errorEvent(code, msg string) *Event {
	return &Event{Kind: EventError, Error: coreError(code, msg)}
}
