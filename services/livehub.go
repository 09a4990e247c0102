// Package services provides business logic services
package services

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"github.com/eventdesk/backend/models"
)

// SubjectEventsChanged is the NATS subject carrying event change notices.
const SubjectEventsChanged = "events.changed"

// EventNotice is published after an event is created, updated or deleted
// and fanned out to WebSocket subscribers.
type EventNotice struct {
	Action string       `json:"action"` // created, updated, deleted
	Event  models.Event `json:"event"`
}

// LiveHub fans event change notices out to WebSocket clients. Notices
// travel through NATS so the hub does not care which handler produced them.
type LiveHub struct {
	natsConn *nats.Conn
	natsSub  *nats.Subscription

	clients   map[*LiveClient]bool
	clientsMu sync.RWMutex

	register   chan *LiveClient
	unregister chan *LiveClient
}

// NewLiveHub creates a hub and subscribes it to the change subject.
func NewLiveHub(natsConn *nats.Conn) (*LiveHub, error) {
	h := &LiveHub{
		natsConn:   natsConn,
		clients:    make(map[*LiveClient]bool),
		register:   make(chan *LiveClient),
		unregister: make(chan *LiveClient),
	}

	sub, err := natsConn.Subscribe(SubjectEventsChanged, func(msg *nats.Msg) {
		h.broadcast(msg.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", SubjectEventsChanged, err)
	}
	h.natsSub = sub

	return h, nil
}

// Register adds a client to the hub
func (h *LiveHub) Register(client *LiveClient) {
	h.register <- client
}

// Run starts the hub's main loop
func (h *LiveHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clientsMu.Lock()
			h.clients[client] = true
			h.clientsMu.Unlock()
			logrus.WithField("remote", client.remoteAddr).Debug("live client connected")

		case client := <-h.unregister:
			h.clientsMu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.clientsMu.Unlock()
			logrus.WithField("remote", client.remoteAddr).Debug("live client disconnected")
		}
	}
}

// Publish sends an event change notice through NATS.
func (h *LiveHub) Publish(action string, event models.Event) {
	notice := EventNotice{Action: action, Event: event}
	data, err := json.Marshal(notice)
	if err != nil {
		logrus.WithError(err).Warn("failed to marshal event notice")
		return
	}
	if err := h.natsConn.Publish(SubjectEventsChanged, data); err != nil {
		logrus.WithError(err).Warn("failed to publish event notice")
	}
}

// broadcast sends a notice to every connected client. Clients with a full
// send buffer are skipped rather than blocking the hub.
func (h *LiveHub) broadcast(data []byte) {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	for client := range h.clients {
		select {
		case client.send <- data:
		default:
		}
	}
}

// HubStats holds hub statistics
type HubStats struct {
	Clients int `json:"clients"`
}

// Stats returns current hub statistics
func (h *LiveHub) Stats() HubStats {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return HubStats{Clients: len(h.clients)}
}
