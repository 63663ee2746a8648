package handlers

import (
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"taskboard-service/internal/realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browsers cannot set custom headers on WebSocket handshakes, so the
	// token rides the query string and origin checks are left to CORS on
	// the rest of the API.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type RealtimeHandler struct {
	hub *realtime.Hub
}

func NewRealtimeHandler(hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{hub: hub}
}

// HandleWebSocket godoc
// @Summary WebSocket connection
// @Description Establish a WebSocket connection for real-time project events
// @Tags realtime
// @Param token query string true "JWT credential"
// @Success 101 "Switching Protocols - WebSocket connection established"
// @Router /ws [get]
func (h *RealtimeHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("WebSocket upgrade failed", "remote", c.ClientIP(), "error", err)
		return
	}

	// Blocks for the connection's lifetime; authentication happens in-band.
	h.hub.HandleConnection(conn, c.Query("token"))
}

// Stats godoc
// @Summary Realtime connection stats
// @Tags realtime
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /ws/stats [get]
func (h *RealtimeHandler) Stats(c *gin.Context) {
	users := h.hub.Registry().ConnectedUsers()
	c.JSON(http.StatusOK, gin.H{"connected_users": len(users)})
}
