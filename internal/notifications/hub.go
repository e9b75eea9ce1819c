// Package notifications delivers realtime events to websocket clients,
// fanning out across API instances through Redis pub/sub.
package notifications

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"unpolished/internal/middleware"
	"unpolished/internal/observability"

	"github.com/gofiber/websocket/v2"
)

const (
	maxConnsPerUser = 12
	maxTotalConns   = 10000
)

var (
	ErrServerFull = errors.New("server connection limit reached")
	ErrUserFull   = errors.New("user connection limit reached")
)

// Hub maps user IDs to their open websocket clients.
type Hub struct {
	mu         sync.RWMutex
	conns      map[uint]map[*Client]struct{}
	totalConns int
	log        *observability.WSLogger
	closed     bool
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		conns: make(map[uint]map[*Client]struct{}),
		log:   observability.NewWSLogger("notifications", middleware.Logger),
	}
}

// Name identifies the hub in logs and metrics.
func (h *Hub) Name() string { return "notifications" }

// Register adds a connection for userID. It fails when the per-user or
// global connection limit is reached, or after Shutdown.
func (h *Hub) Register(userID uint, conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()
	if h.closed || h.totalConns >= maxTotalConns {
		h.mu.Unlock()
		return nil, ErrServerFull
	}
	m, ok := h.conns[userID]
	if !ok {
		m = make(map[*Client]struct{})
		h.conns[userID] = m
	}
	if len(m) >= maxConnsPerUser {
		h.mu.Unlock()
		return nil, ErrUserFull
	}

	client := NewClient(h, conn, userID)
	m[client] = struct{}{}
	h.totalConns++
	n := len(m)
	h.mu.Unlock()

	middleware.ActiveWebSockets.Inc()
	h.log.LogConnect(context.Background(), userID, n)
	return client, nil
}

// UnregisterClient removes client. Calling it twice is harmless.
func (h *Hub) UnregisterClient(client *Client) {
	h.mu.Lock()
	removed := false
	if m, ok := h.conns[client.UserID]; ok {
		if _, exists := m[client]; exists {
			delete(m, client)
			h.totalConns--
			removed = true
		}
		if len(m) == 0 {
			delete(h.conns, client.UserID)
		}
	}
	h.mu.Unlock()

	if removed {
		middleware.ActiveWebSockets.Dec()
		h.log.LogDisconnect(context.Background(), client.UserID, "unregistered")
	}
}

// Connections returns the number of open clients for userID.
func (h *Hub) Connections(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[userID])
}

// Broadcast sends message to every connection of userID.
func (h *Hub) Broadcast(userID uint, message string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	data := []byte(message)
	for c := range h.conns[userID] {
		c.TrySend(data)
	}
}

// BroadcastBlog sends message to every connection watching blogID.
func (h *Hub) BroadcastBlog(blogID uint, message string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	data := []byte(message)
	for _, clients := range h.conns {
		for c := range clients {
			if c.Watches(blogID) {
				c.TrySend(data)
			}
		}
	}
}

// BroadcastAll sends message to every connected client.
func (h *Hub) BroadcastAll(message string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	data := []byte(message)
	for _, clients := range h.conns {
		for c := range clients {
			c.TrySend(data)
		}
	}
}

// StartWiring subscribes to the user, blog and broadcast channels and forwards
// each message to the matching local connections.
func (h *Hub) StartWiring(ctx context.Context, n *Notifier) error {
	h.log.LogLifecycle(ctx, "wiring")
	return n.StartPatternSubscriber(ctx, func(channel, payload string) {
		h.route(ctx, channel, payload)
	})
}

func (h *Hub) route(ctx context.Context, channel, payload string) {
	if channel == BroadcastChannel {
		h.BroadcastAll(payload)
		return
	}
	deliver := h.Broadcast
	raw, ok := strings.CutPrefix(channel, userChannelPrefix)
	if !ok {
		if raw, ok = strings.CutPrefix(channel, blogChannelPrefix); !ok {
			middleware.Logger.WarnContext(ctx, "Unknown notification channel", slog.String("channel", channel))
			return
		}
		deliver = h.BroadcastBlog
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		middleware.Logger.WarnContext(ctx, "Invalid notification channel", slog.String("channel", channel))
		return
	}
	deliver(uint(id), payload)
}

// Shutdown sends a going-away close frame to every client and drops them.
func (h *Hub) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	h.closed = true
	for userID, clients := range h.conns {
		for client := range clients {
			if client.Conn == nil {
				continue
			}
			if err := client.Conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "Server shutting down")); err != nil {
				h.log.LogError(ctx, userID, err, "close")
			}
			_ = client.Conn.Close()
		}
		middleware.ActiveWebSockets.Sub(float64(len(clients)))
	}
	h.conns = make(map[uint]map[*Client]struct{})
	h.totalConns = 0
	h.mu.Unlock()

	h.log.LogLifecycle(ctx, "shutdown")
	return nil
}
