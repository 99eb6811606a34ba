// Package websocket - websocket/globals.go
package websocket

import (
	"net/http"
	"os"
	"sync"

	"github.com/gorilla/websocket"
)

// connections maps connection ID -> active Connection (for broadcast and
// targeted sends)
var (
	connections = make(map[string]*Connection)
	connsMutex  sync.Mutex
)

// broadcast is a buffered channel for fanning messages out to all clients;
// senders never block on it
var broadcast = make(chan []byte, 256)

// websocket upgrade
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all if Test-Mode
		if r.Header.Get("Test-Mode") == "true" {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return origin == "http://localhost:8080" ||
			origin == "http://localhost:5173" ||
			origin == os.Getenv("APPLICATION_URL")
	},
}

// registerConnection adds the given connection to the global connections map.
func registerConnection(c *Connection) {
	connsMutex.Lock()
	connections[c.id] = c
	count := len(connections)
	connsMutex.Unlock()
	PublishStudentConnections(count)
}

// unregisterConnection removes the given connection from the global connections map.
func unregisterConnection(c *Connection) {
	connsMutex.Lock()
	if _, ok := connections[c.id]; ok {
		delete(connections, c.id)
	}
	count := len(connections)
	connsMutex.Unlock()
	PublishStudentConnections(count)
}

// lookupConnection finds an active connection by ID.
func lookupConnection(id string) (*Connection, bool) {
	connsMutex.Lock()
	defer connsMutex.Unlock()
	c, ok := connections[id]
	return c, ok
}
