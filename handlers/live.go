package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/eventdesk/backend/natsserver"
	"github.com/eventdesk/backend/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS is open for the API as well
	},
}

// Live handles the WebSocket event feed endpoints.
type Live struct {
	hub    *services.LiveHub
	broker *natsserver.EmbeddedNATS
}

func NewLive(hub *services.LiveHub, broker *natsserver.EmbeddedNATS) *Live {
	return &Live{hub: hub, broker: broker}
}

// HandleWebSocket handles GET /ws/events
func (h *Live) HandleWebSocket(c *gin.Context) {
	if h.hub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Live feed not initialized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("websocket upgrade failed")
		return
	}

	client := services.NewLiveClient(h.hub, conn, c.ClientIP())
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

// Stats handles GET /api/live/stats
func (h *Live) Stats(c *gin.Context) {
	if h.hub == nil {
		c.JSON(http.StatusOK, gin.H{"enabled": false})
		return
	}

	stats := h.hub.Stats()
	c.JSON(http.StatusOK, gin.H{
		"enabled":       true,
		"clients":       stats.Clients,
		"brokerClients": h.broker.NumClients(),
	})
}
