// Package eventstream adapts the teacher's single-active-client WebSocket
// Hub (internal/websocket/hub.go) into a per-submission event bus: the
// response listener and MutationObserver feed it during AWAIT_RESULT, and
// the Success Judge drains it. An optional live WebSocket relay lets an
// embedding orchestrator observe a submission in progress.
package eventstream

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Kind enumerates the event shapes the submission engine emits.
type Kind string

const (
	KindNavigation Kind = "navigation"
	KindResponse   Kind = "response"
	KindMutation   Kind = "mutation"
)

// Event is one observation recorded during AWAIT_RESULT.
type Event struct {
	Kind      Kind
	URL       string
	Status    int
	Method    string
	Mutations int
	Timestamp time.Time
}

// Hub collects events for a single submission attempt and optionally relays
// them to one live WebSocket observer, mirroring the teacher's "only one
// active client at a time" contract.
type Hub struct {
	mu     sync.RWMutex
	events []Event
	client *client

	broadcast  chan Event
	register   chan *client
	unregister chan *client
	done       chan struct{}
}

// NewHub builds an idle Hub. Call Run in its own goroutine before Emit.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan Event, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
	}
}

type client struct {
	conn *websocket.Conn
	send chan Event
}

// Run drives the hub's event loop. It returns when Close is called.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if h.client != nil {
				close(h.client.send)
			}
			h.client = c
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if h.client == c {
				close(h.client.send)
				h.client = nil
			}
			h.mu.Unlock()

		case ev := <-h.broadcast:
			h.mu.Lock()
			h.events = append(h.events, ev)
			if h.client != nil {
				select {
				case h.client.send <- ev:
				default:
					log.Printf("eventstream: observer send buffer full, disconnecting")
					close(h.client.send)
					h.client = nil
				}
			}
			h.mu.Unlock()

		case <-h.done:
			return
		}
	}
}

// Close stops Run and releases the live observer, if any. Per SPEC_FULL.md
// §5 the MutationObserver/response listener are torn down in finally; the
// submission engine calls Close once AWAIT_RESULT ends.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.client != nil {
		close(h.client.send)
		h.client = nil
	}
	h.mu.Unlock()
	close(h.done)
}

// Emit records an event and forwards it to the live observer if connected.
func (h *Hub) Emit(ev Event) {
	select {
	case h.broadcast <- ev:
	case <-h.done:
	}
}

// Events returns a snapshot of everything recorded so far.
func (h *Hub) Events() []Event {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Event, len(h.events))
	copy(out, h.events)
	return out
}

// ResponseStatuses returns the HTTP status of every response event seen,
// in observation order, for the Success Judge and Error Classifier.
func (h *Hub) ResponseStatuses() []int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var out []int
	for _, ev := range h.events {
		if ev.Kind == KindResponse {
			out = append(out, ev.Status)
		}
	}
	return out
}

// MutationCount sums every mutation batch recorded.
func (h *Hub) MutationCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	total := 0
	for _, ev := range h.events {
		if ev.Kind == KindMutation {
			total += ev.Mutations
		}
	}
	return total
}

// ServeWS upgrades an HTTP request into the hub's one live observer slot.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("eventstream: upgrade failed: %v", err)
		return
	}
	c := &client{conn: conn, send: make(chan Event, 64)}
	h.register <- c
	go c.writePump()
}

func (c *client) writePump() {
	defer c.conn.Close()
	for ev := range c.send {
		data, err := json.Marshal(ev)
		if err != nil {
			continue
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
