package middleware

import (
	"bufio"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"obiabedidi/live"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiveFeedUpgradesThroughMiddlewareChain(t *testing.T) {
	hub := live.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Serve(ctx)

	origins := []string{"https://obiabedidi.app"}
	router := httprouter.New()
	router.GET("/ws/recipes", live.WebSocketHandler(hub, nil, origins))
	rec := &recordingMetrics{}
	corsHandler := cors.New(cors.Options{AllowedOrigins: origins, AllowCredentials: true}).Handler(router)
	srv := httptest.NewServer(RequestID(Observe(router, rec)(SecurityHeaders(corsHandler))))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/recipes"
	conn, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://obiabedidi.app"}})
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	require.Eventually(t, func() bool { return hub.Subscribers(live.RoomAll) == 1 }, time.Second, 10*time.Millisecond)
	hub.Publish(live.Event{Type: "recipe", Recipe: "Waakye"}, live.RoomAll)
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Waakye")

	require.Eventually(t, func() bool {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		return len(rec.calls) == 1
	}, time.Second, 10*time.Millisecond)
	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, httpCall{"GET", "/ws/recipes", http.StatusSwitchingProtocols}, rec.calls[0])
}

type plainWriter struct{ http.ResponseWriter }

func TestStatusWriterHijack(t *testing.T) {
	sw := &statusWriter{ResponseWriter: plainWriter{httptest.NewRecorder()}}
	_, _, err := sw.Hijack()
	assert.Error(t, err)

	var _ http.Hijacker = sw
	hijacked := &hijackRecorder{ResponseRecorder: httptest.NewRecorder()}
	sw = &statusWriter{ResponseWriter: hijacked}
	_, _, err = sw.Hijack()
	require.NoError(t, err)
	assert.True(t, hijacked.called)
	assert.Equal(t, http.StatusSwitchingProtocols, sw.status)
}

type hijackRecorder struct {
	*httptest.ResponseRecorder
	called bool
}

func (h *hijackRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h.called = true
	return nil, nil, nil
}
