// Package live pushes newly published recipes to websocket subscribers.
package live

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// RoomAll receives every published recipe. Author rooms are "author:<id>".
const RoomAll = "recipes"

func AuthorRoom(authorID string) string { return "author:" + authorID }

type Client struct {
	Conn *websocket.Conn
	Send chan []byte
	Room string
}

type broadcastMsg struct {
	Room string
	Data []byte
}

// Hub fans messages out to the clients of a room. A client whose buffer is full is
// dropped rather than blocking the hub.
type Hub struct {
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastMsg
	// done is closed while Serve is not running after having run once.
	done chan struct{}
	mu   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastMsg, 64),
		done:       make(chan struct{}),
	}
}

// Serve runs the hub until ctx is done, then closes every client. It may be
// called again after returning.
func (h *Hub) Serve(ctx context.Context) error {
	h.mu.Lock()
	select {
	case <-h.done:
		h.done = make(chan struct{})
	default:
	}
	h.mu.Unlock()
	defer h.stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case c := <-h.register:
			h.mu.Lock()
			if h.rooms[c.Room] == nil {
				h.rooms[c.Room] = make(map[*Client]bool)
			}
			h.rooms[c.Room][c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			h.remove(c)
			h.mu.Unlock()

		case m := <-h.broadcast:
			h.mu.Lock()
			for c := range h.rooms[m.Room] {
				select {
				case c.Send <- m.Data:
				default:
					h.remove(c)
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove must be called with mu held.
func (h *Hub) remove(c *Client) {
	conns := h.rooms[c.Room]
	if !conns[c] {
		return
	}
	delete(conns, c)
	close(c.Send)
	if len(conns) == 0 {
		delete(h.rooms, c.Room)
	}
}

func (h *Hub) stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, conns := range h.rooms {
		for c := range conns {
			h.remove(c)
		}
	}
	close(h.done)
}

func (h *Hub) stopped() <-chan struct{} {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.done
}

// Register adds c to its room. It reports false, without blocking, once the hub
// has stopped; the caller then owns c and must close its connection.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.stopped():
		return false
	}
}

// Unregister removes c and closes its Send channel. It returns immediately when
// the hub has stopped, since stopping already removed every client.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.stopped():
	}
}

// Publish encodes v and queues it for every room. It never blocks; when the queue is
// full the message is dropped.
func (h *Hub) Publish(v any, rooms ...string) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("encoding live message")
		return
	}
	for _, room := range rooms {
		select {
		case h.broadcast <- broadcastMsg{Room: room, Data: data}:
		default:
			log.Warn().Str("room", room).Msg("live queue full, dropping message")
		}
	}
}

// Subscribers returns how many clients are in room.
func (h *Hub) Subscribers(room string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[room])
}

func (h *Hub) String() string { return "live-hub" }
