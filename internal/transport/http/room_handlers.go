package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/chatroom-server/internal/core"
	"github.com/vovakirdan/chatroom-server/internal/proto"
)

// RoomHandlers exposes read-only room snapshots over REST.
type RoomHandlers struct {
	hub Hub
	log *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(hub Hub, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{
		hub: hub,
		log: logger,
	}
}

// RoomDetailResponse is a room with its members and recent history.
type RoomDetailResponse struct {
	proto.RoomListItem
	Members  []string        `json:"members"`
	Messages []proto.Message `json:"messages"`
}

// ListRooms handles listing every room.
// GET /api/rooms
func (h *RoomHandlers) ListRooms(c *gin.Context) {
	rooms := h.hub.Rooms().ListAll()
	core.SortRooms(rooms)

	h.log.Debug().Str("user_id", c.GetString(ContextKeyUserID)).Int("room_count", len(rooms)).Msg("rooms listed")
	c.JSON(http.StatusOK, roomListItems(rooms))
}

// GetRoom handles fetching one room.
// GET /api/rooms/:id
func (h *RoomHandlers) GetRoom(c *gin.Context) {
	roomID := c.Param("id")
	room, ok := h.hub.Rooms().FindByID(roomID)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Room not found"})
		return
	}

	history := h.hub.Rooms().RecentMessages(roomID, core.JoinHistoryLimit)
	messages := make([]proto.Message, 0, len(history))
	for _, msg := range history {
		messages = append(messages, protoMessage(msg))
	}
	members := room.Members
	if members == nil {
		members = []string{}
	}

	c.JSON(http.StatusOK, RoomDetailResponse{
		RoomListItem: roomListItem(room),
		Members:      members,
		Messages:     messages,
	})
}
