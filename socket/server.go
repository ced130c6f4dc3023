package socket

import (
	"log"

	socketio "github.com/googollee/go-socket.io"
)

// NewServer initializes the Socket.IO server. Clients join a room per
// conversation id; new messages are broadcast into that room by the
// message service.
func NewServer() *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(s socketio.Conn) error {
		log.Println("Socket connected:", s.ID())
		return nil
	})

	server.OnEvent("/", "join", func(s socketio.Conn, conversationID string) {
		if conversationID == "" {
			log.Println("Join request without conversation id")
			return
		}
		log.Printf("Socket %s joined conversation %s", s.ID(), conversationID)
		s.Join(conversationID)
	})

	server.OnEvent("/", "leave", func(s socketio.Conn, conversationID string) {
		if conversationID == "" {
			return
		}
		s.Leave(conversationID)
	})

	server.OnError("/", func(s socketio.Conn, err error) {
		log.Printf("Socket error: %v", err)
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		log.Println("Socket disconnected:", reason)
	})

	return server
}
