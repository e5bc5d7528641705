package live

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Serve(ctx)

	client := &Client{Send: make(chan []byte, 10), Room: RoomAll}
	hub.register <- client

	hub.Publish(Event{Type: "recipe", Recipe: map[string]string{"name": "Jollof"}}, RoomAll)

	select {
	case got := <-client.Send:
		assert.JSONEq(t, `{"type":"recipe","recipe":{"name":"Jollof"}}`, string(got))
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}

	hub.unregister <- client
	assert.Eventually(t, func() bool { return hub.Subscribers(RoomAll) == 0 }, time.Second, 10*time.Millisecond)
	_, open := <-client.Send
	assert.False(t, open)
}

func TestHubRoomsAreIsolated(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Serve(ctx)

	mine := &Client{Send: make(chan []byte, 10), Room: AuthorRoom("u1")}
	other := &Client{Send: make(chan []byte, 10), Room: AuthorRoom("u2")}
	hub.register <- mine
	hub.register <- other

	hub.Publish("hello", AuthorRoom("u1"))

	select {
	case got := <-mine.Send:
		assert.Equal(t, `"hello"`, string(got))
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
	select {
	case <-other.Send:
		t.Fatal("other room received the message")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.Serve(ctx) }()

	client := &Client{Send: make(chan []byte, 1), Room: RoomAll}
	hub.register <- client
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
	_, open := <-client.Send
	assert.False(t, open)
}

func TestWebSocketHandlerReplaysHistory(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Serve(ctx)

	history := func(_ context.Context, author string) ([]any, error) {
		assert.Equal(t, "u1", author)
		return []any{"newest", "oldest"}, nil
	}
	router := httprouter.New()
	router.GET("/ws/recipes", WebSocketHandler(hub, history, nil))
	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/recipes?author=u1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var got []string
	for i := 0; i < 2; i++ {
		_ = conn.SetReadDeadline(time.Now().Add(time.Second))
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err)
		var ev Event
		require.NoError(t, json.Unmarshal(raw, &ev))
		got = append(got, ev.Recipe.(string))
	}
	assert.Equal(t, []string{"oldest", "newest"}, got)

	require.Eventually(t, func() bool { return hub.Subscribers(AuthorRoom("u1")) == 1 }, time.Second, 10*time.Millisecond)
	hub.Publish(Event{Type: "recipe", Recipe: "fresh"}, AuthorRoom("u1"))
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(raw), "fresh")
}

func TestRegisterAfterStopDoesNotBlock(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.Serve(ctx) }()

	kept := &Client{Send: make(chan []byte, 1), Room: RoomAll}
	require.True(t, hub.Register(kept))
	cancel()
	<-done

	finished := make(chan bool, 1)
	go func() {
		hub.Unregister(kept)
		finished <- hub.Register(&Client{Send: make(chan []byte, 1), Room: RoomAll})
	}()
	select {
	case ok := <-finished:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("register blocked on a stopped hub")
	}

	// a restarted hub accepts clients again
	ctx2, cancel2 := context.WithCancel(context.Background())
	defer cancel2()
	go hub.Serve(ctx2)
	assert.Eventually(t, func() bool {
		return hub.Register(&Client{Send: make(chan []byte, 1), Room: RoomAll})
	}, time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return hub.Subscribers(RoomAll) == 1 }, time.Second, 10*time.Millisecond)
}

func TestOriginChecker(t *testing.T) {
	check := OriginChecker([]string{"https://obiabedidi.app"})
	req := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "http://api.obiabedidi.app/ws/recipes", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	assert.True(t, check(req("")))
	assert.True(t, check(req("https://obiabedidi.app")))
	assert.True(t, check(req("https://api.obiabedidi.app")))
	assert.False(t, check(req("https://evil.example")))
	assert.True(t, OriginChecker([]string{"*"})(req("https://evil.example")))
}

func TestWebSocketHandlerRejectsForeignOrigin(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Serve(ctx)

	router := httprouter.New()
	router.GET("/ws/recipes", WebSocketHandler(hub, nil, []string{"https://obiabedidi.app"}))
	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/recipes"
	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://obiabedidi.app"}})
	require.NoError(t, err)
	conn.Close()
}
