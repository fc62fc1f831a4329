package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/campusbeacon/api/internal/app/models"
	"github.com/campusbeacon/api/internal/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeRooms map[int64]bool

func (f fakeRooms) RoomExists(_ context.Context, id int64) (bool, error) {
	return f[id], nil
}

type inboundRecorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *inboundRecorder) handle(_ context.Context, userID, roomID int64, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if content == "" {
		return errors.New("content is required")
	}
	r.calls = append(r.calls, content)
	return nil
}

func (r *inboundRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// startServer runs a hub and a gin server exposing the websocket route.
func startServer(t *testing.T, m *metrics.Metrics, inbound InboundFunc) (*Hub, *httptest.Server, context.CancelFunc) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(zerolog.Nop(), m)
	go hub.Run(ctx)

	user := func(c *gin.Context) (int64, bool) {
		if c.Query("user") == "" {
			return 0, false
		}
		return 7, true
	}
	h := NewHandler(hub, fakeRooms{1: true}, user, nil, zerolog.Nop())
	h.SetInboundHandler(inbound)

	r := gin.New()
	r.GET("/chat/rooms/:id/ws", h.HandleConnection)
	srv := httptest.NewServer(r)
	return hub, srv, cancel
}

func dial(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 10*time.Millisecond)
}

func TestHub_BroadcastToRoom(t *testing.T) {
	defer goleak.VerifyNone(t)

	m := metrics.New()
	hub, srv, cancel := startServer(t, m, nil)

	conn := dial(t, srv, "/chat/rooms/1/ws?user=7")
	waitFor(t, func() bool { return hub.ClientCount(1) == 1 })
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WebsocketClients))

	msg := &models.ChatMessage{ID: 3, RoomID: 1, SenderID: 7, Content: "hello"}
	require.NoError(t, hub.Publish(context.Background(), Event{Type: EventCreated, RoomID: 1, Message: msg}))
	// Events for other rooms are not delivered
	require.NoError(t, hub.Publish(context.Background(), Event{Type: EventCreated, RoomID: 2}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got Event
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, EventCreated, got.Type)
	assert.Equal(t, "hello", got.Message.Content)

	conn.Close()
	waitFor(t, func() bool { return hub.ClientCount(1) == 0 })
	assert.Equal(t, 0.0, testutil.ToFloat64(m.WebsocketClients))

	cancel()
	<-hub.Done()
	srv.Close()
}

func TestHub_InboundMessages(t *testing.T) {
	defer goleak.VerifyNone(t)

	rec := &inboundRecorder{}
	hub, srv, cancel := startServer(t, nil, rec.handle)

	conn := dial(t, srv, "/chat/rooms/1/ws?user=7")
	waitFor(t, func() bool { return hub.ClientCount(1) == 1 })

	require.NoError(t, conn.WriteJSON(map[string]string{"content": "hi there"}))
	waitFor(t, func() bool { return rec.count() == 1 })

	// A rejected message comes back as an error event to the sender only
	require.NoError(t, conn.WriteJSON(map[string]string{"content": ""}))
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got Event
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, EventError, got.Type)
	assert.Equal(t, "content is required", got.Error)

	// Stopping the hub disconnects clients
	cancel()
	<-hub.Done()
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
	conn.Close()
	srv.Close()
}

func TestHandleConnection_Rejections(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub, srv, cancel := startServer(t, nil, nil)
	defer func() {
		cancel()
		<-hub.Done()
		srv.Close()
	}()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	_, resp, err := websocket.DefaultDialer.Dial(url+"/chat/rooms/1/ws", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	_, resp, err = websocket.DefaultDialer.Dial(url+"/chat/rooms/99/ws?user=7", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestHub_DropsSlowClients(t *testing.T) {
	hub := NewHub(zerolog.Nop(), nil)
	slow := &Client{hub: hub, send: make(chan []byte), userID: 1, roomID: 5}
	hub.registerClient(slow)

	hub.broadcastEvent(Event{Type: EventCreated, RoomID: 5})

	assert.Equal(t, 0, hub.ClientCount(5))
	_, open := <-slow.send
	assert.False(t, open)
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"http://localhost:5173/"})
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	req.Header.Set("Origin", "http://localhost:5173")
	assert.True(t, check(req))
	req.Header.Set("Origin", "http://evil.example")
	assert.False(t, check(req))
	req.Header.Del("Origin")
	assert.True(t, check(req))
}

func TestRedisRelay(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	pingCtx, pingCancel := context.WithTimeout(context.Background(), time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		t.Skipf("redis not available: %v", err)
	}
	defer client.Close()

	hub, srv, cancel := startServer(t, nil, nil)
	defer func() {
		cancel()
		<-hub.Done()
		srv.Close()
	}()

	channel := "campusbeacon:test:relay"
	relay := NewRedisRelay(client, channel, hub, zerolog.Nop())
	relayCtx, stopRelay := context.WithCancel(context.Background())
	relayDone := make(chan error, 1)
	go func() { relayDone <- relay.Run(relayCtx) }()
	defer func() {
		stopRelay()
		<-relayDone
	}()

	conn := dial(t, srv, "/chat/rooms/1/ws?user=7")
	defer conn.Close()
	waitFor(t, func() bool { return hub.ClientCount(1) == 1 })
	waitFor(t, func() bool {
		subs, err := client.PubSubNumSub(context.Background(), channel).Result()
		return err == nil && subs[channel] > 0
	})

	require.NoError(t, relay.Publish(context.Background(), Event{Type: EventDeleted, RoomID: 1, Message: &models.ChatMessage{ID: 4, RoomID: 1}}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var got Event
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, EventDeleted, got.Type)
	assert.Equal(t, int64(4), got.Message.ID)
}
