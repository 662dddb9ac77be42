package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"chat-relay/realtime"
)

func newSocketServer(t *testing.T, allowedOrigins []string) (*httptest.Server, *realtime.Controller) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := slog.Default()
	controller := realtime.NewController(log,
		realtime.NewPresenceRegistry(log, nil), realtime.NewRoomRegistry(), realtime.NewConnTable())

	router := gin.New()
	router.GET("/ws", NewServer(log, controller, allowedOrigins, 16).Handle)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, controller
}

func dial(t *testing.T, server *httptest.Server, header http.Header) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) realtime.Envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var frame realtime.Envelope
	require.NoError(t, json.Unmarshal(raw, &frame))
	return frame
}

func TestServer_SessionLifecycle(t *testing.T) {
	req := require.New(t)
	server, controller := newSocketServer(t, nil)

	conn := dial(t, server, nil)

	// Announce identity, expect the presence broadcast back on this very
	// connection since broadcasts include the originator.
	req.NoError(conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"event":"user:online","data":"alice"}`)))

	frame := readFrame(t, conn)
	req.Equal("user:status", frame.Event)

	var status struct {
		UserID   string `json:"userId"`
		IsOnline bool   `json:"isOnline"`
	}
	req.NoError(json.Unmarshal(frame.Data, &status))
	req.Equal("alice", status.UserID)
	req.True(status.IsOnline)
	req.True(controller.IsOnline("alice"))

	// Closing the socket must unwind presence on the server side.
	req.NoError(conn.Close())
	req.Eventually(func() bool {
		return !controller.IsOnline("alice") && controller.ConnectionCount() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestServer_TypingBetweenTwoClients(t *testing.T) {
	req := require.New(t)
	server, _ := newSocketServer(t, nil)

	alice := dial(t, server, nil)
	bob := dial(t, server, nil)

	req.NoError(alice.WriteMessage(websocket.TextMessage,
		[]byte(`{"event":"conversation:join","data":"conv-a"}`)))
	req.NoError(bob.WriteMessage(websocket.TextMessage,
		[]byte(`{"event":"conversation:join","data":"conv-a"}`)))

	// Joins are processed in arrival order per connection; give the server
	// a beat before typing so bob's membership is in place.
	time.Sleep(100 * time.Millisecond)

	req.NoError(alice.WriteMessage(websocket.TextMessage,
		[]byte(`{"event":"typing:start","data":{"conversationId":"conv-a","userId":"alice","username":"Alice"}}`)))

	frame := readFrame(t, bob)
	req.Equal("typing:display", frame.Event)

	var typing struct {
		Username string `json:"username"`
		IsTyping bool   `json:"isTyping"`
	}
	req.NoError(json.Unmarshal(frame.Data, &typing))
	req.Equal("Alice", typing.Username)
	req.True(typing.IsTyping)
}

func TestServer_OriginPolicy(t *testing.T) {
	t.Run("should refuse a disallowed browser origin", func(t *testing.T) {
		req := require.New(t)
		server, _ := newSocketServer(t, []string{"https://chat.example.com"})

		url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
		header := http.Header{"Origin": []string{"https://evil.example.com"}}
		_, response, err := websocket.DefaultDialer.Dial(url, header)

		req.Error(err)
		req.Equal(http.StatusForbidden, response.StatusCode)
	})

	t.Run("should accept an allowed origin", func(t *testing.T) {
		req := require.New(t)
		server, _ := newSocketServer(t, []string{"https://chat.example.com"})

		conn := dial(t, server, http.Header{"Origin": []string{"https://chat.example.com"}})
		req.NotNil(conn)
	})

	t.Run("should accept non-browser clients without an origin", func(t *testing.T) {
		req := require.New(t)
		server, _ := newSocketServer(t, []string{"https://chat.example.com"})

		conn := dial(t, server, nil)
		req.NotNil(conn)
	})
}
