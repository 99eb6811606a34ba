// Package websocket handles real-time communication between the classroom
// and the polling session.
// file: websocket/connection.go
package websocket

import (
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"go-class-pulse/logger"
	"go-class-pulse/models"
	"go-class-pulse/services"
)

// WSConn is an interface for the WebSocket connection.
type WSConn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	ReadMessage() (int, []byte, error)
	Close() error
	RemoteAddr() net.Addr
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetPongHandler(h func(string) error)
}

// SessionActions is the slice of the session orchestrator the transport
// layer invokes.
type SessionActions interface {
	Join(connID, name string) (models.Participant, error)
	CreatePoll(questions []services.QuestionInput) error
	SubmitAnswer(connID string, optionID int) error
	NextQuestion() error
	RemoveParticipant(targetID string)
	Disconnect(connID string)
	Snapshot() *models.PollSnapshot
	StudentList() []models.StudentStatus
}

// Server owns the websocket entry point and dispatches inbound actions to
// the session.
type Server struct {
	session SessionActions
}

// NewServer creates the websocket server around a session.
func NewServer(session SessionActions) *Server {
	return &Server{session: session}
}

// Connection represents a single WebSocket connection for one client.
type Connection struct {
	id     string
	conn   WSConn
	send   chan []byte
	server *Server
}

// Configuration constants.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

// ServeWs upgrades the HTTP request to a WebSocket connection and starts the
// read and write pumps.
func (s *Server) ServeWs(w http.ResponseWriter, r *http.Request) {
	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error.Printf("[ServeWs] WebSocket upgrade error: %v", err)
		return
	}

	c := &Connection{
		id:     uuid.NewString(),
		conn:   wsConn,
		send:   make(chan []byte, 256),
		server: s,
	}
	logger.Info.Printf("[ServeWs] Client connected: id=%s remoteAddr=%v", c.id, wsConn.RemoteAddr())

	registerConnection(c)

	go c.readPump()
	go c.writePump()
}

// readPump handles inbound messages from the client. When it exits the
// participant is treated as disconnected.
func (c *Connection) readPump() {
	defer func() {
		unregisterConnection(c)
		c.server.session.Disconnect(c.id)
		if err := c.conn.Close(); err != nil {
			return
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			logger.Warn.Printf("[readPump] Read error from %v: %v", c.conn.RemoteAddr(), err)
			break
		}
		if messageType != websocket.TextMessage {
			logger.Debug.Printf("[readPump] Ignoring non-text messageType=%d", messageType)
			continue
		}

		var am ActionMessage
		if err := json.Unmarshal(message, &am); err != nil {
			logger.Warn.Printf("[readPump] Invalid JSON from %v: %v", c.conn.RemoteAddr(), err)
			continue
		}
		c.server.handleIncoming(c, am)
	}
}

// writePump handles outbound messages to the client, including periodic pings.
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.conn.Close(); err != nil {
			return
		}
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				// The channel was closed.
				logger.Debug.Printf("[writePump] Send channel closed for %v", c.conn.RemoteAddr())
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn.Printf("[writePump] Error writing to %v: %v", c.conn.RemoteAddr(), err)
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Warn.Printf("[writePump] Ping error for %v: %v", c.conn.RemoteAddr(), err)
				return
			}
		}
	}
}

// enqueue pushes a marshalled message onto the connection's send queue,
// dropping it if the client cannot keep up.
func (c *Connection) enqueue(data []byte) {
	select {
	case c.send <- data:
	default:
		logger.Warn.Printf("Dropping message for connection %v", c.conn.RemoteAddr())
	}
}
