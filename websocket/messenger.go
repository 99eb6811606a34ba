// Package websocket - realMessenger delivers session events to connected
// clients, either to everyone or to a single connection.
// file: websocket/messenger.go
package websocket

import (
	"encoding/json"

	"go-class-pulse/logger"
	"go-class-pulse/services"
)

type realMessenger struct{}

// NewMessenger returns the Messenger the session should broadcast through.
func NewMessenger() services.Messenger {
	return &realMessenger{}
}

// Broadcast marshals the message and sends it to all connections.
func (r *realMessenger) Broadcast(msg map[string]interface{}) {
	m, err := json.Marshal(msg)
	if err != nil {
		logger.Error.Printf("realMessenger: Error marshalling message: %v", err)
		return
	}
	select {
	case broadcast <- m:
	default:
		logger.Warn.Printf("realMessenger: broadcast channel full, dropping %v", msg["action"])
	}
}

// SendTo delivers a message to one specific connection. Unknown connection
// IDs are ignored; the client may already be gone.
func (r *realMessenger) SendTo(connID string, msg map[string]interface{}) {
	c, ok := lookupConnection(connID)
	if !ok {
		logger.Debug.Printf("realMessenger: SendTo unknown connection %s", connID)
		return
	}
	m, err := json.Marshal(msg)
	if err != nil {
		logger.Error.Printf("realMessenger: Error marshalling message: %v", err)
		return
	}
	c.enqueue(m)
}
