package websocket

import (
	"context"
	"time"

	"github.com/gofiber/websocket/v2"
)

// ServeWs runs a chat connection until the peer goes away.
func ServeWs(hub *Hub, c *websocket.Conn, userID string, handler MessageHandler, chunkDelay time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := &Client{
		Hub:        hub,
		Conn:       c,
		UserID:     userID,
		Send:       make(chan []byte, 256),
		done:       make(chan struct{}),
		handler:    handler,
		chunkDelay: chunkDelay,
	}
	client.Hub.register <- client

	go client.writePump()
	client.readPump(ctx)
}
