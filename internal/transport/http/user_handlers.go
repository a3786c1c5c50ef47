package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// UserHandlers exposes presence over REST.
type UserHandlers struct {
	hub Hub
	log *zerolog.Logger
}

// NewUserHandlers creates a new user handlers instance.
func NewUserHandlers(hub Hub, logger *zerolog.Logger) *UserHandlers {
	return &UserHandlers{
		hub: hub,
		log: logger,
	}
}

// OnlineUsers lists users with at least one live connection.
// GET /api/users/online
func (h *UserHandlers) OnlineUsers(c *gin.Context) {
	users := h.hub.Sessions().OnlineUsers()
	h.log.Debug().Int("online", len(users)).Msg("online users listed")
	c.JSON(http.StatusOK, protoUsers(users))
}
