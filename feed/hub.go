package feed

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/milk9111/npccore/ecs"
	"github.com/milk9111/npccore/ecs/system"
	"github.com/milk9111/npccore/logger"
)

const (
	TypeKill     = "kill"
	TypeFeedback = "feedback"
)

// Message is the envelope every feed frame is wrapped in.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Hub fans simulation notifications out to websocket clients. Kills go to
// everyone; damage feedback only reaches the client bound to the attacking
// player. It implements system.Notifier and never blocks the caller.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

var _ system.Notifier = (*Hub)(nil)

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the request. An optional ?player=<entity> binds the
// connection to that player for damage feedback.
func (h *Hub) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	var player ecs.Entity
	if raw := r.URL.Query().Get("player"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			http.Error(rw, "bad player id", http.StatusBadRequest)
			return
		}
		player = ecs.Entity(id)
	}

	conn, err := h.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		logger.For("feed").WithError(err).Warn("upgrade failed")
		return
	}

	c := newClient(h, conn, player)
	if !h.register(c) {
		_ = conn.Close()
		return
	}
	logger.For("feed").WithFields(logrus.Fields{
		"remote": conn.RemoteAddr().String(),
		"player": player,
	}).Info("client connected")

	go c.writePump()
	go c.readPump()
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Clients reports how many connections are registered.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) AgentKilled(evt system.KillEvent) {
	frame, err := encode(TypeKill, evt)
	if err != nil {
		logger.For("feed").WithError(err).Error("encode kill")
		return
	}
	h.deliver(frame, func(*client) bool { return true })
}

func (h *Hub) DamageFeedback(attacker ecs.Entity, fb system.DamageFeedback) {
	if !attacker.Valid() {
		return
	}
	frame, err := encode(TypeFeedback, fb)
	if err != nil {
		logger.For("feed").WithError(err).Error("encode feedback")
		return
	}
	h.deliver(frame, func(c *client) bool { return c.player == attacker })
}

// deliver queues frame for every matching client. A client whose queue is
// full is dropped.
func (h *Hub) deliver(frame []byte, match func(*client) bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if !match(c) {
			continue
		}
		select {
		case c.send <- frame:
		default:
			logger.For("feed").WithField("player", c.player).Warn("client too slow, dropping")
			delete(h.clients, c)
			close(c.send)
		}
	}
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

func encode(kind string, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Type: kind, Data: data})
}
