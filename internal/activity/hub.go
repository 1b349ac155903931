package activity

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// subscriberBuffer is how many renders a slow subscriber may lag behind
// before renders are dropped for it.
const subscriberBuffer = 16

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans recorded renders out to live subscribers.
type Hub struct {
	mu     sync.Mutex
	subs   map[chan *Render]struct{}
	logger *slog.Logger
}

// NewHub creates a hub with no subscribers.
func NewHub() *Hub {
	return &Hub{
		subs:   make(map[chan *Render]struct{}),
		logger: slog.Default(),
	}
}

// Subscribe registers a new subscriber. The returned cancel function
// unregisters it and closes the channel.
func (h *Hub) Subscribe() (<-chan *Render, func()) {
	ch := make(chan *Render, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Publish delivers r to every subscriber without blocking.
func (h *Hub) Publish(r *Render) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- r:
		default:
			h.logger.Debug("Dropped render for slow subscriber.", "render", r.ID)
		}
	}
}

// Subscribers returns the number of live subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// ServeHTTP upgrades to a WebSocket and streams renders as JSON until
// the client goes away. The page query parameter filters by page.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("activity stream upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	page := r.URL.Query().Get("page")
	renders, cancel := h.Subscribe()
	defer cancel()

	// The client never sends anything; reading only detects the close.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.logger.Debug("activity stream read", "error", err)
				}
				return
			}
		}
	}()

	for {
		select {
		case <-gone:
			return
		case rd, ok := <-renders:
			if !ok {
				return
			}
			if page != "" && rd.Page != page {
				continue
			}
			if err := conn.WriteJSON(rd); err != nil {
				h.logger.Debug("activity stream write", "error", err)
				return
			}
		}
	}
}
