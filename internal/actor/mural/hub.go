package mural

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"sanctuary-mural/internal/core/domain"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

type hubClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *hubClient) write(messageType int, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, payload)
}

// Hub fans broadcast messages out to a sanctuary's WebSocket viewers.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*hubClient]struct{}
	closed  bool

	onChange func(count int)
	log      zerolog.Logger
}

// NewHub creates a hub. onChange receives the viewer count after every change.
func NewHub(onChange func(count int), log zerolog.Logger) *Hub {
	if onChange == nil {
		onChange = func(int) {}
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients:  make(map[*hubClient]struct{}),
		onChange: onChange,
		log:      log,
	}
}

// Serve upgrades the request, sends the start message and then registers the
// viewer, so no update can reach it before start.
// The upgrader writes the HTTP error response when the upgrade fails.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("websocket upgrade: %w", err)
	}

	client := &hubClient{conn: conn}
	if h.isClosed() {
		h.reject(conn)
		return nil
	}

	start, _ := json.Marshal(domain.BroadcastMessage{Type: domain.MessageStart})
	if err := client.write(websocket.TextMessage, start); err != nil {
		conn.Close()
		return nil
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		h.reject(conn)
		return nil
	}
	h.clients[client] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()
	h.onChange(count)

	h.log.Debug().Str("remote", r.RemoteAddr).Int("viewers", count).Msg("Viewer connected")
	go h.readLoop(client)
	go h.pingLoop(client)
	return nil
}

func (h *Hub) isClosed() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.closed
}

func (h *Hub) reject(conn *websocket.Conn) {
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
	conn.Close()
}

// readLoop drains the connection so control frames are processed and
// removes the viewer when the peer goes away.
func (h *Hub) readLoop(c *hubClient) {
	defer h.remove(c)

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug().Err(err).Msg("Viewer read error")
			}
			return
		}
	}
}

func (h *Hub) pingLoop(c *hubClient) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for range ticker.C {
		if !h.has(c) {
			return
		}
		if err := c.write(websocket.PingMessage, nil); err != nil {
			h.remove(c)
			return
		}
	}
}

// Broadcast sends payload to every viewer. Viewers that fail are dropped.
func (h *Hub) Broadcast(payload []byte) {
	h.mu.RLock()
	clients := make([]*hubClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.write(websocket.TextMessage, payload); err != nil {
			h.log.Debug().Err(err).Msg("Dropping viewer after write error")
			h.remove(c)
		}
	}
}

// Len returns the number of registered viewers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every viewer and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := h.clients
	h.clients = make(map[*hubClient]struct{})
	h.mu.Unlock()

	for c := range clients {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
		c.conn.Close()
	}
	h.onChange(0)
}

func (h *Hub) has(c *hubClient) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[c]
	return ok
}

func (h *Hub) remove(c *hubClient) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	count := len(h.clients)
	h.mu.Unlock()

	if ok {
		c.conn.Close()
		h.onChange(count)
	}
}
