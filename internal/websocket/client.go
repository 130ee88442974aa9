package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"rmf-policy-be/pkg/stream"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 * 1024
)

var errClientGone = errors.New("websocket client gone")

// MessageHandler answers one user message.
type MessageHandler func(ctx context.Context, userID, content string) (stream.Reply, error)

type inbound struct {
	Content *string `json:"content"`
}

var errBadInbound = errors.New("message must be JSON with a content field")

// decodeInbound accepts empty content; only malformed frames or a missing
// content field are rejected.
func decodeInbound(raw []byte) (string, error) {
	var in inbound
	if err := json.Unmarshal(raw, &in); err != nil || in.Content == nil {
		return "", errBadInbound
	}
	return *in.Content, nil
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	UserID string

	// Buffered channel of outbound frames.
	Send chan []byte

	// closed by the hub on unregister
	done chan struct{}

	handler    MessageHandler
	chunkDelay time.Duration
}

// offer enqueues without blocking.
func (c *Client) offer(data []byte) bool {
	select {
	case <-c.done:
		return false
	case c.Send <- data:
		return true
	default:
		return false
	}
}

// push blocks until the frame is queued or the client goes away.
func (c *Client) push(ctx context.Context, f Frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	select {
	case c.Send <- data:
		return nil
	case <-c.done:
		return errClientGone
	case <-ctx.Done():
		return ctx.Err()
	}
}

// readPump reads user messages and answers them in order.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("WebSocket", "Unexpected close", map[string]interface{}{
					"user_id": c.UserID,
					"error":   err.Error(),
				})
			}
			return
		}

		content, err := decodeInbound(raw)
		if err != nil {
			if c.push(ctx, Frame{Type: FrameError, Content: err.Error()}) != nil {
				return
			}
			continue
		}

		if err := c.answer(ctx, content); err != nil {
			return
		}
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}

func (c *Client) answer(ctx context.Context, content string) error {
	reply, err := c.handler(ctx, c.UserID, content)
	if err != nil {
		c.Hub.logger.Error("WebSocket", "Message handling failed", map[string]interface{}{
			"user_id": c.UserID,
			"error":   err.Error(),
		})
		return c.push(ctx, Frame{Type: FrameError, Content: "internal error"})
	}

	// The trailer is carried by the done frame instead.
	trailerless := reply
	trailerless.SampleAnswer = ""
	err = stream.Emit(ctx, trailerless, c.chunkDelay, func(chunk string) error {
		if chunk == "\n" {
			return nil
		}
		return c.push(ctx, Frame{Type: FrameChunk, Content: chunk})
	})
	if err != nil {
		return err
	}
	return c.push(ctx, Frame{Type: FrameDone, Sample: reply.SampleAnswer})
}

// writePump pumps frames from the send buffer to the connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
