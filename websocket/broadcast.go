// Package websocket handles real-time communication between the classroom
// and the polling session.
// file: websocket/broadcast.go
package websocket

// HandleMessages listens for messages on the broadcast channel and
// distributes them to all active connections. Run it once from main.
func HandleMessages() {
	for {
		msg := <-broadcast // Read incoming message from the broadcast channel

		PublishBroadcastBacklog(len(broadcast))

		// snapshot the connection set so slow writers can't hold the map
		connsMutex.Lock()
		targets := make([]*Connection, 0, len(connections))
		for _, c := range connections {
			targets = append(targets, c)
		}
		connsMutex.Unlock()

		for _, c := range targets {
			c.enqueue(msg)
		}
	}
}

// SendBroadcastMessage allows raw byte data to be sent over the broadcast channel
func SendBroadcastMessage(data []byte) {
	broadcast <- data
}
