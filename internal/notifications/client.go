package notifications

import (
	"context"
	"sync"
	"time"

	"unpolished/internal/observability"

	"github.com/gofiber/websocket/v2"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	// Inbound frames are small watch/unwatch commands.
	maxFrameSize = 1024
	sendBuffer   = 64

	// MaxWatchedBlogs caps how many blog threads one connection follows.
	MaxWatchedBlogs = 20
)

// Inbound frame types.
const (
	FrameWatchBlog   = "watch_blog"
	FrameUnwatchBlog = "unwatch_blog"
)

var droppedNotice = []byte(`{"type":"messages_dropped","payload":{"reason":"buffer_full"}}`)

type inboundFrame struct {
	Type   string `json:"type"`
	BlogID uint   `json:"blogId"`
}

type outboundFrame struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Client is one websocket connection registered with a Hub. Besides the
// owner's own notifications it receives events for the blogs it watches.
type Client struct {
	hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
	UserID uint

	mu       sync.Mutex
	watching map[uint]struct{}
}

// NewClient creates a Client with a buffered outbound queue.
func NewClient(hub *Hub, conn *websocket.Conn, userID uint) *Client {
	return &Client{
		hub:      hub,
		Conn:     conn,
		UserID:   userID,
		Send:     make(chan []byte, sendBuffer),
		watching: make(map[uint]struct{}),
	}
}

// Watch subscribes the connection to a blog's thread events. It reports
// false once MaxWatchedBlogs are watched.
func (c *Client) Watch(blogID uint) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.watching[blogID]; ok {
		return true
	}
	if len(c.watching) >= MaxWatchedBlogs {
		return false
	}
	c.watching[blogID] = struct{}{}
	return true
}

// Unwatch stops thread events for blogID.
func (c *Client) Unwatch(blogID uint) {
	c.mu.Lock()
	delete(c.watching, blogID)
	c.mu.Unlock()
}

// Watches reports whether the connection follows blogID.
func (c *Client) Watches(blogID uint) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.watching[blogID]
	return ok
}

// handleFrame applies one inbound command and queues the acknowledgement.
func (c *Client) handleFrame(data []byte) {
	var f inboundFrame
	if err := json.Unmarshal(data, &f); err != nil || f.BlogID == 0 {
		c.reply("error", map[string]string{"message": "expected {type, blogId}"})
		return
	}
	switch f.Type {
	case FrameWatchBlog:
		if !c.Watch(f.BlogID) {
			c.reply("error", map[string]interface{}{"message": "too many watched blogs", "limit": MaxWatchedBlogs})
			return
		}
		c.reply("watching", map[string]uint{"blogId": f.BlogID})
	case FrameUnwatchBlog:
		c.Unwatch(f.BlogID)
		c.reply("unwatched", map[string]uint{"blogId": f.BlogID})
	default:
		c.reply("error", map[string]string{"message": "unknown frame type " + f.Type})
	}
}

func (c *Client) reply(kind string, payload interface{}) {
	b, err := json.Marshal(outboundFrame{Type: kind, Payload: payload})
	if err == nil {
		c.TrySend(b)
	}
}

// ReadPump applies watch commands until the peer goes away, then
// unregisters the client.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.UnregisterClient(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxFrameSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		kind, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.LogError(context.Background(), c.UserID, err, "read")
			}
			return
		}
		if kind == websocket.TextMessage {
			c.handleFrame(data)
		}
	}
}

// WritePump drains Send onto the socket and keeps it alive with pings. A
// closed Send channel ends the connection with a close frame.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	write := func(kind int, data []byte) error {
		_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		return c.Conn.WriteMessage(kind, data)
	}

	for {
		select {
		case msg, ok := <-c.Send:
			if !ok {
				_ = write(websocket.CloseMessage, nil)
				return
			}
			if err := write(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// TrySend queues message without blocking. When the buffer is full the
// message is dropped and the client is told so it can refetch.
func (c *Client) TrySend(message []byte) {
	defer func() {
		if r := recover(); r != nil {
			observability.WebSocketBackpressureDrops.WithLabelValues("closed").Inc()
		}
	}()

	select {
	case c.Send <- message:
	default:
		observability.WebSocketBackpressureDrops.WithLabelValues("full").Inc()
		select {
		case c.Send <- droppedNotice:
		default:
		}
	}
}
