package controller

import (
	"bufio"
	"context"
	"strings"
	"time"

	"rmf-policy-be/internal/dto"
	"rmf-policy-be/internal/pkg/logger"
	"rmf-policy-be/internal/pkg/serverutils"
	"rmf-policy-be/internal/service"
	internalWS "rmf-policy-be/internal/websocket"
	"rmf-policy-be/pkg/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router, middleware ...fiber.Handler)
	Send(ctx *fiber.Ctx) error
	Socket(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
	hub         *internalWS.Hub
	chunkDelay  time.Duration
	logger      logger.ILogger
}

func NewChatController(chatService service.IChatService, hub *internalWS.Hub, chunkDelay time.Duration, log logger.ILogger) IChatController {
	return &chatController{
		chatService: chatService,
		hub:         hub,
		chunkDelay:  chunkDelay,
		logger:      log,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router, middleware ...fiber.Handler) {
	h := r.Group("/chat/v1", middleware...)
	h.Post("", c.Send)
	h.Get("ws", c.Socket)
}

// Send answers one message as a chunked text/plain stream.
func (c *chatController) Send(ctx *fiber.Ctx) error {
	var req dto.ChatMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	userID := serverutils.UserID(ctx)
	reply, err := c.chatService.HandleMessage(ctx.UserContext(), userID, strings.TrimSpace(*req.Content))
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set("X-Accel-Buffering", "no")

	delay := c.chunkDelay
	ctx.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		// The session is already saved, a dropped client only loses the stream.
		err := stream.Emit(context.Background(), reply, delay, func(chunk string) error {
			if _, err := w.WriteString(chunk); err != nil {
				return err
			}
			return w.Flush()
		})
		if err != nil {
			c.logger.Warn("ChatController", "Stream interrupted", map[string]interface{}{
				"user_id": userID,
				"error":   err.Error(),
			})
		}
	})
	return nil
}

// Socket upgrades to a websocket carrying JSON chat frames and policy
// notifications.
func (c *chatController) Socket(ctx *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(ctx) {
		return fiber.ErrUpgradeRequired
	}

	userID := serverutils.UserID(ctx)
	return websocket.New(func(conn *websocket.Conn) {
		c.logger.Info("ChatController", "Starting WebSocket session", map[string]interface{}{"user_id": userID})
		internalWS.ServeWs(c.hub, conn, userID, c.chatService.HandleMessage, c.chunkDelay)
		c.logger.Info("ChatController", "WebSocket session ended", map[string]interface{}{"user_id": userID})
	})(ctx)
}
