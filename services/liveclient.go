package services

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4 * 1024

	// Send buffer size
	sendBufferSize = 64
)

// LiveClient is one WebSocket subscriber of the live event feed.
type LiveClient struct {
	hub        *LiveHub
	conn       *websocket.Conn
	send       chan []byte
	remoteAddr string
}

// NewLiveClient creates a new live feed client
func NewLiveClient(hub *LiveHub, conn *websocket.Conn, remoteAddr string) *LiveClient {
	return &LiveClient{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufferSize),
		remoteAddr: remoteAddr,
	}
}

// ReadPump pumps control messages from the WebSocket connection. The feed
// is one-directional; clients only send pings.
func (c *LiveClient) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithError(err).Debug("websocket read error")
			}
			break
		}

		var msg struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		if msg.Type == "ping" {
			c.sendPong()
		}
	}
}

// WritePump pumps notices from the hub to the WebSocket connection
func (c *LiveClient) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *LiveClient) sendPong() {
	msgBytes, _ := json.Marshal(map[string]string{"type": "pong"})
	select {
	case c.send <- msgBytes:
	default:
	}
}
