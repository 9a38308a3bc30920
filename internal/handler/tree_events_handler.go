package handler

import (
	"os"

	"tree-editor-be/internal/pkg/logger"
	internalWS "tree-editor-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TreeEventsHandler upgrades authenticated clients to a websocket pushing
// tree-change notifications for their own tree.
type TreeEventsHandler struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewTreeEventsHandler(hub *internalWS.Hub, log logger.ILogger) *TreeEventsHandler {
	return &TreeEventsHandler{
		hub:    hub,
		logger: log,
	}
}

func (h *TreeEventsHandler) RegisterRoutes(r fiber.Router) {
	r.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return h.authenticate(c)
		}
		return fiber.ErrUpgradeRequired
	})
	r.Get("/ws/tree", websocket.New(func(conn *websocket.Conn) {
		userID := conn.Locals("user_id").(uuid.UUID)
		client := internalWS.NewClient(h.hub, conn, userID)
		client.Serve()
	}))
}

func (h *TreeEventsHandler) authenticate(c *fiber.Ctx) error {
	// Browsers cannot set headers on websocket handshakes, so the token may
	// come as a query param instead.
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token"})
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		h.logger.Warn("TreeEventsHandler", "Invalid token in WS handshake", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token missing user_id"})
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user_id claim"})
	}

	c.Locals("user_id", userID)
	return c.Next()
}
