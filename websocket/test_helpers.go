// Package websocket test_helpers.go
package websocket

// InitTest resets the shared transport state between tests.
func InitTest() {
	// Flush any messages left on the broadcast channel.
	for len(broadcast) > 0 {
		<-broadcast
	}
	connsMutex.Lock()
	connections = make(map[string]*Connection)
	connsMutex.Unlock()
}
