package ws

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/saturnino-fabrica-de-software/facefind/internal/auth"
)

// Handler upgrades to a websocket subscribed to ?camera=<id> (default all cameras).
// The auth middleware must run first.
func Handler(hub *Hub) fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		if _, ok := c.Locals(auth.LocalsKey).(auth.Session); !ok {
			_ = c.Close()
			return
		}

		topic := strings.TrimSpace(c.Query("camera"))
		if topic == "" {
			topic = AllCameras
		}

		client := newClient(hub, c, topic)
		if !hub.Register(client) {
			_ = c.Close()
			return
		}

		go client.WritePump()
		client.ReadPump()
	})
}

func UpgradeMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}
