package handler

import (
	"go-inventory-api/internal/service"
	"go-inventory-api/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const wsUserKey = "ws_user_id"

// WSUpgrade authenticates the ?token= access token before the upgrade
func WSUpgrade(auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return c.SendStatus(fiber.StatusUpgradeRequired)
		}
		user, err := auth.Authenticate(c.Query("token"))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}
		c.Locals(wsUserKey, user.ID)
		return c.Next()
	}
}

func WSHandler(hub *ws.Hub) fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		userID, _ := c.Locals(wsUserKey).(uuid.UUID)
		if !hub.Register(&ws.Client{Conn: c, UserID: userID}) {
			return
		}
		defer hub.Unregister(c)

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	})
}
