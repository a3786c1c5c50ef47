package http

import (
	stdhttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/chatroom-server/internal/auth"
	"github.com/vovakirdan/chatroom-server/internal/config"
	"github.com/vovakirdan/chatroom-server/internal/core"
)

// Hub is the part of the core hub the transport depends on.
type Hub interface {
	RegisterClient(c *core.Client) error
	UnregisterClient(c *core.Client)
	Rooms() *core.Directory
	Sessions() *core.SessionRegistry
}

// NewServer builds an HTTP server with the REST and WebSocket routes.
func NewServer(hub Hub, authService *auth.Service, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.AllowedOrigins))

	router.GET("/health", healthHandler)

	api := NewAPIHandlers(authService, logger)
	authGroup := router.Group("/api/auth")
	authGroup.POST("/register", api.Register)
	authGroup.POST("/login", api.Login)
	authGroup.GET("/verify", AuthMiddleware(authService, logger), api.Verify)

	rooms := NewRoomHandlers(hub, logger)
	users := NewUserHandlers(hub, logger)
	protected := router.Group("/api", AuthMiddleware(authService, logger))
	protected.GET("/rooms", rooms.ListRooms)
	protected.GET("/rooms/:id", rooms.GetRoom)
	protected.GET("/users/online", users.OnlineUsers)

	router.GET("/ws", gin.WrapH(NewWSHandler(hub, authService, cfg, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

func healthHandler(c *gin.Context) {
	c.JSON(stdhttp.StatusOK, HealthResponse{Status: "ok", Timestamp: time.Now().UTC()})
}
