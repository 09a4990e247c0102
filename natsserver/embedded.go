// Package natsserver provides the embedded NATS server backing the live
// event feed. Running the broker in-process keeps deployment to a single
// binary; no external NATS is required.
package natsserver

import (
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// EmbeddedNATS wraps an embedded NATS server with a client connection
type EmbeddedNATS struct {
	server *server.Server
	conn   *nats.Conn
}

// Config holds configuration for the embedded NATS server
type Config struct {
	Port       int   // -1 picks a free port
	MaxPayload int32 // Max message size in bytes
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Port:       4233,
		MaxPayload: 1024 * 1024, // event notices are small JSON payloads
	}
}

// New creates and starts an embedded NATS server
func New(cfg Config) (*EmbeddedNATS, error) {
	if cfg.Port == 0 {
		cfg.Port = DefaultConfig().Port
	}
	if cfg.MaxPayload <= 0 {
		cfg.MaxPayload = DefaultConfig().MaxPayload
	}

	opts := &server.Options{
		Host:          "0.0.0.0",
		Port:          cfg.Port,
		NoLog:         true,
		NoSigs:        true,
		MaxPayload:    cfg.MaxPayload,
		WriteDeadline: 10 * time.Second,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS server: %w", err)
	}

	// Start server in background
	go ns.Start()

	// Wait for server to be ready
	if !ns.ReadyForConnections(5 * time.Second) {
		return nil, fmt.Errorf("NATS server not ready after 5 seconds")
	}

	// Create internal client connection. ClientURL carries the actual
	// listen port, which matters when the config asked for a free one.
	nc, err := nats.Connect(
		ns.ClientURL(),
		nats.Name("eventdesk-internal"),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		ns.Shutdown()
		return nil, fmt.Errorf("failed to connect to embedded NATS: %w", err)
	}

	logrus.WithField("url", ns.ClientURL()).Info("embedded NATS server started")

	return &EmbeddedNATS{
		server: ns,
		conn:   nc,
	}, nil
}

// Conn returns the underlying NATS connection
func (e *EmbeddedNATS) Conn() *nats.Conn {
	return e.conn
}

// Address returns the NATS server address
func (e *EmbeddedNATS) Address() string {
	return e.server.ClientURL()
}

// NumClients returns the number of connected clients
func (e *EmbeddedNATS) NumClients() int {
	return e.server.NumClients()
}

// Shutdown gracefully shuts down the NATS server
func (e *EmbeddedNATS) Shutdown() {
	if e.conn != nil {
		e.conn.Close()
	}
	if e.server != nil {
		e.server.Shutdown()
	}
	logrus.Info("NATS server shut down")
}
