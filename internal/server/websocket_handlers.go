package server

import (
	"log/slog"

	"unpolished/internal/middleware"
	"unpolished/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// EventConnected is sent once after a websocket is registered.
const EventConnected = "connected"

// RequireUpgrade rejects plain HTTP requests to the websocket endpoint.
func (s *Server) RequireUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return models.RespondWithError(c, fiber.StatusUpgradeRequired,
			models.NewValidationError("WebSocket upgrade required"))
	}
	return c.Next()
}

// WebsocketHandler handles GET /api/v1/ws. The socket only carries server
// events for the authenticated user; inbound frames are ignored.
// @Summary Realtime notifications
// @Description Upgrades to a websocket that streams {type, payload} events
// @Tags realtime
// @Param token query string false "JWT for clients that cannot set headers"
// @Success 101
// @Failure 401 {object} models.ErrorResponse
// @Router /ws [get]
func (s *Server) WebsocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, ok := conn.Locals(middleware.LocalUserID).(uint)
		if !ok || userID == 0 {
			middleware.Logger.Warn("WebSocket: unauthenticated connection attempt")
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			middleware.Logger.Warn("WebSocket: registration refused",
				slog.Uint64("user_id", uint64(userID)),
				slog.String("error", err.Error()),
			)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		if welcome, err := json.Marshal(realtimeEvent{
			Type:    EventConnected,
			Payload: map[string]interface{}{"userId": userID},
		}); err == nil {
			client.TrySend(welcome)
		}

		go client.WritePump()

		// Blocks until the peer disconnects.
		client.ReadPump()
	})
}
