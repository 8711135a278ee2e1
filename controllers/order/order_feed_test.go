package orderControllers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raihanetx/Next-v/models"
)

func TestOrderFeedBroadcast(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws", OrderFeedHandler)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Registration happens in the handler goroutine after the upgrade.
	require.Eventually(t, func() bool {
		wsMu.Lock()
		defer wsMu.Unlock()
		return len(wsClients) == 1
	}, time.Second, 10*time.Millisecond)

	broadcastNewOrder(models.Order{OrderID: "ORD01TEST"})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), "ORD01TEST")
}

func TestBroadcastDropsClosedClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws", OrderFeedHandler)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		wsMu.Lock()
		defer wsMu.Unlock()
		return len(wsClients) == 1
	}, time.Second, 10*time.Millisecond)

	conn.Close()

	// Writes to the closed connection fail and evict it.
	require.Eventually(t, func() bool {
		broadcastNewOrder(models.Order{OrderID: "ORD01GONE"})
		wsMu.Lock()
		defer wsMu.Unlock()
		return len(wsClients) == 0
	}, 2*time.Second, 50*time.Millisecond)
}
