package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readEvent reads frames until one of the wanted type arrives.
func readEvent(t *testing.T, conn *websocket.Conn, want string) realtimeEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err)
		var ev realtimeEvent
		require.NoError(t, json.Unmarshal(raw, &ev))
		if ev.Type == want {
			return ev
		}
	}
}

func TestWebsocketDeliversCommentEvents(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signup(t, "alice")
	bob := env.signup(t, "bob")
	blogID, _ := env.createBlog(t, alice, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, env.srv.hub.StartWiring(ctx, env.srv.notifier))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = env.app.Listener(ln) }()
	t.Cleanup(func() { _ = env.app.Shutdown() })

	url := fmt.Sprintf("ws://%s/api/v1/ws?token=%s", ln.Addr().String(), alice.Token)
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	welcome := readEvent(t, conn, EventConnected)
	assert.Equal(t, float64(alice.ID), welcome.Payload.(map[string]interface{})["userId"])
	require.Eventually(t, func() bool { return env.srv.hub.Connections(alice.ID) == 1 },
		2*time.Second, 10*time.Millisecond)

	// Counts only reach connections watching the blog.
	require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "watch_blog", "blogId": blogID}))
	ack := readEvent(t, conn, "watching")
	assert.Equal(t, float64(blogID), ack.Payload.(map[string]interface{})["blogId"])

	status, body := env.comment(t, bob, blogID, "hello from bob", nil)
	require.Equal(t, http.StatusCreated, status, body)

	created := readEvent(t, conn, EventCommentCreated)
	payload := created.Payload.(map[string]interface{})
	assert.Equal(t, float64(blogID), payload["blogId"])

	count := readEvent(t, conn, EventCommentCountChanged)
	assert.Equal(t, float64(1), count.Payload.(map[string]interface{})["commentCount"])

	// Own comments do not notify the author, but the count still broadcasts.
	status, body = env.comment(t, alice, blogID, "replying to myself", nil)
	require.Equal(t, http.StatusCreated, status, body)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var next realtimeEvent
	require.NoError(t, json.Unmarshal(raw, &next))
	assert.Equal(t, EventCommentCountChanged, next.Type)
}

func TestWebsocketWatchFrames(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signup(t, "alice")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = env.app.Listener(ln) }()
	t.Cleanup(func() { _ = env.app.Shutdown() })

	url := fmt.Sprintf("ws://%s/api/v1/ws?token=%s", ln.Addr().String(), alice.Token)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()
	readEvent(t, conn, EventConnected)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"watch_blog"}`)))
	readEvent(t, conn, "error")

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "unwatch_blog", "blogId": 3}))
	readEvent(t, conn, "unwatched")
}
