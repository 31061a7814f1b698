package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/pion/webrtc/v3"

	"github.com/immersio/meet-relay/internal/config"
	"github.com/immersio/meet-relay/internal/registry"
	"github.com/immersio/meet-relay/internal/service"
	"github.com/immersio/meet-relay/lib/logger/sl"
)

type RoomController struct {
	signals  service.SignalInteractor
	rooms    *registry.Registry
	cfg      *config.Config
	log      *slog.Logger
	upgrader websocket.Upgrader
}

func NewRoomController(signals service.SignalInteractor, rooms *registry.Registry, cfg *config.Config, log *slog.Logger) *RoomController {
	if log == nil {
		log = slog.Default()
	}
	return &RoomController{
		signals: signals,
		rooms:   rooms,
		cfg:     cfg,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return originAllowed(cfg, r.Header.Get("Origin"))
			},
		},
	}
}

// CheckRoom lets the join flow validate a meeting code before opening the
// signaling socket.
func (c *RoomController) CheckRoom(ctx *gin.Context) {
	roomID := ctx.Param("roomID")
	userCount := c.rooms.MemberCount(roomID)

	ctx.JSON(http.StatusOK, gin.H{
		"exists":    userCount > 0,
		"userCount": userCount,
		"roomId":    roomID,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func (c *RoomController) Health(ctx *gin.Context) {
	stats := c.signals.Stats()

	ctx.JSON(http.StatusOK, gin.H{
		"status":           "OK",
		"timestamp":        stats.Timestamp.Format(time.RFC3339Nano),
		"activeRooms":      stats.ActiveRooms,
		"totalConnections": stats.TotalConnections,
		"environment":      c.cfg.Env,
		"roomDetails":      stats.Rooms,
	})
}

func (c *RoomController) Test(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"message":   "Meet API is working!",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"origin":    ctx.GetHeader("Origin"),
		"userAgent": ctx.GetHeader("User-Agent"),
	})
}

// WebRTCConfig hands clients the ICE servers to use when building their
// peer connections.
func (c *RoomController) WebRTCConfig(ctx *gin.Context) {
	servers := make([]webrtc.ICEServer, 0, len(c.cfg.WebRTC.STUNServers))
	for _, url := range c.cfg.WebRTC.STUNServers {
		servers = append(servers, webrtc.ICEServer{URLs: []string{url}})
	}

	ctx.JSON(http.StatusOK, gin.H{"iceServers": servers})
}

// Signaling upgrades the request to a websocket and runs the connection's
// read loop until the transport drops.
func (c *RoomController) Signaling(ctx *gin.Context) {
	socket, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		c.log.Warn("websocket upgrade failed", sl.Err(err))
		return
	}

	conn := c.signals.Register(socket)
	go c.writePump(conn)
	c.readPump(conn)
}
