package live

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"slices"
	"time"

	"obiabedidi/utils"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"
)

// Event is what subscribers receive.
type Event struct {
	Type   string `json:"type"`
	Recipe any    `json:"recipe"`
}

// HistoryFunc returns recent items to replay to a new subscriber, newest first.
type HistoryFunc func(ctx context.Context, authorID string) ([]any, error)

// OriginChecker accepts requests without an Origin header, same-host origins, and
// origins listed in allowed. A "*" entry accepts any origin.
func OriginChecker(allowed []string) func(r *http.Request) bool {
	wildcard := slices.Contains(allowed, "*")
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || wildcard {
			return true
		}
		if u, err := url.Parse(origin); err == nil && u.Host != "" && utils.EqualFoldAny(u.Host, r.Host) {
			return true
		}
		return utils.EqualFoldAny(origin, allowed...)
	}
}

// WebSocketHandler subscribes the caller to RoomAll, or to an author's room when
// ?author= is given. Recent items from history are replayed oldest first. Browser
// origins are checked against allowedOrigins.
func WebSocketHandler(hub *Hub, history HistoryFunc, allowedOrigins []string) httprouter.Handle {
	upgrader := websocket.Upgrader{CheckOrigin: OriginChecker(allowedOrigins)}
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		author := r.URL.Query().Get("author")
		room := RoomAll
		if author != "" {
			room = AuthorRoom(author)
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn().Err(err).Msg("websocket upgrade")
			return
		}
		client := &Client{Conn: conn, Send: make(chan []byte, 256), Room: room}

		if history != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			items, err := history(ctx, author)
			cancel()
			if err != nil {
				log.Warn().Err(err).Msg("live history")
			}
			for i := len(items) - 1; i >= 0; i-- {
				if data, err := json.Marshal(Event{Type: "recipe", Recipe: items[i]}); err == nil {
					client.Send <- data
				}
				if len(client.Send) == cap(client.Send) {
					break
				}
			}
		}

		if !hub.Register(client) {
			log.Warn().Msg("live hub stopped, closing subscriber")
			conn.Close()
			return
		}
		go writePump(client)
		go readPump(client, hub)
	}
}

func writePump(c *Client) {
	defer c.Conn.Close()
	for msg := range c.Send {
		_ = c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

// readPump only watches for the connection closing; subscribers do not send.
func readPump(c *Client, hub *Hub) {
	defer func() {
		hub.Unregister(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(512)
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
