package stream

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/shunto-ishiguro/trip-plan-app/internal/auth"
	"github.com/shunto-ishiguro/trip-plan-app/internal/authz"
)

// Close codes sent before any payload when the handshake fails.
const (
	CloseAuthFailed   = 4001
	CloseAccessDenied = 4003
)

// RegisterRoutes mounts the realtime endpoint. The socket carries the trip
// id in the path and the bearer token in the query string; authorization
// happens after the upgrade, so failures surface as close codes rather
// than HTTP statuses.
func RegisterRoutes(r fiber.Router, hub *Hub, gate *authz.Gate, secret string) {
	r.Get("/trips/:tripId/ws", websocket.New(func(c *websocket.Conn) {
		tripID := c.Params("tripId")
		token := c.Query("token")

		claims, err := auth.VerifyToken(secret, token)
		if err != nil {
			closeWith(c, CloseAuthFailed, "authentication failed")
			return
		}

		decision, err := gate.Authorize(context.Background(), claims.Subject, tripID, authz.RoleViewer)
		if err != nil || !decision.Authorized {
			closeWith(c, CloseAccessDenied, "access denied")
			return
		}

		client := hub.Register(tripID)
		defer hub.Unregister(client)

		ack, _ := json.Marshal(map[string]string{"type": "connected", "tripId": tripID})
		if err := c.WriteMessage(websocket.TextMessage, ack); err != nil {
			return
		}

		done := make(chan struct{})
		go func() {
			for msg := range client.Send {
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					break
				}
			}
			close(done)
		}()

		// Inbound messages are read and discarded; the channel is
		// server-to-client only.
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}

		hub.Unregister(client)
		<-done
	}))
}

func closeWith(c *websocket.Conn, code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	_ = c.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	_ = c.Close()
}
