package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// -----------------------------------------------------------------------------

// handleWebsockets is the main Hub loop: it owns the client set and fans
// snapshot updates out to every connected client.
func (s *APIServer) handleWebsockets() {
	for {
		select {
		case client := <-s.register:
			s.stateMutex.Lock()
			s.clients[client] = struct{}{}
			// Send latest known state on connect; the channel is fresh and
			// buffered so this cannot block the loop.
			if s.latestState != nil {
				client.send <- s.latestState
			}
			s.stateMutex.Unlock()

		case client := <-s.unregister:
			s.stateMutex.Lock()
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				close(client.send)
			}
			s.stateMutex.Unlock()

		case message := <-s.broadcast:
			// Update state and broadcast
			s.stateMutex.Lock()
			s.latestState = message
			for client := range s.clients {
				select {
				case client.send <- message:
				default:
					// Client too slow, disconnect to prevent Hub blocking
					delete(s.clients, client)
					close(client.send)
				}
			}
			s.stateMutex.Unlock()
		}
	}
}

// -----------------------------------------------------------------------------
// WebSocket Handlers
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------

func (s *APIServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	client := &Client{
		hub:  s,
		conn: conn,
		// Buffered channel to prevent blocking the Hub loop
		send: make(chan interface{}, 64),
	}

	s.register <- client

	go client.writePump()
	go client.readPump()
}
