package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Apurer/restaurant-backoffice/internal/domains/orders/domain"
	"github.com/Apurer/restaurant-backoffice/internal/domains/orders/ports"
)

const (
	pongWait   = 30 * time.Second
	writeWait  = 5 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Frame is the JSON message pushed to dashboard clients.
type Frame struct {
	Type       string     `json:"type"`
	RequestID  string     `json:"requestId"`
	OccurredAt time.Time  `json:"occurredAt"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	Reason     string     `json:"reason,omitempty"`
	From       string     `json:"from,omitempty"`
	To         string     `json:"to,omitempty"`
}

var _ ports.EventPublisher = (*Hub)(nil)

// Hub fans order events out to every connected websocket client.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]*client
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

// NewHub creates a hub. allowOrigin decides websocket origins; nil accepts all.
func NewHub(logger *slog.Logger, allowOrigin func(origin string) bool) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[string]*client),
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowOrigin == nil {
					return true
				}
				return allowOrigin(r.Header.Get("Origin"))
			},
		},
	}
}

// Publish implements ports.EventPublisher. Slow or broken clients are dropped.
func (h *Hub) Publish(ctx context.Context, event domain.Event) {
	frame, ok := toFrame(event)
	if !ok {
		return
	}
	payload, err := json.Marshal(frame)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to encode websocket frame", slog.String("error", err.Error()))
		return
	}
	h.Broadcast(payload)
}

// Broadcast writes payload to every registered client.
func (h *Hub) Broadcast(payload []byte) {
	h.mu.RLock()
	targets := make(map[string]*client, len(h.clients))
	for id, c := range h.clients {
		targets[id] = c
	}
	h.mu.RUnlock()

	for id, c := range targets {
		if err := c.write(websocket.TextMessage, payload); err != nil {
			h.logger.Warn("dropping websocket client", slog.String("client.id", id), slog.String("error", err.Error()))
			h.unregister(id)
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Serve upgrades the request and blocks until the client disconnects.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("failed to upgrade websocket connection", slog.String("error", err.Error()))
		return
	}
	id := uuid.NewString()
	c := &client{conn: conn}
	h.register(id, c)
	defer func() {
		h.unregister(id)
	}()

	done := make(chan struct{})
	defer close(done)
	go h.keepAlive(c, done)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("unexpected websocket close", slog.String("client.id", id), slog.String("error", err.Error()))
			}
			return
		}
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[string]*client)
	h.mu.Unlock()
	for _, c := range clients {
		_ = c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		_ = c.conn.Close()
	}
}

func (h *Hub) keepAlive(c *client, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) register(id string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[id] = c
	h.logger.Debug("websocket client registered", slog.String("client.id", id))
}

func (h *Hub) unregister(id string) {
	h.mu.Lock()
	c, ok := h.clients[id]
	delete(h.clients, id)
	h.mu.Unlock()
	if ok {
		_ = c.conn.Close()
		h.logger.Debug("websocket client unregistered", slog.String("client.id", id))
	}
}

func (c *client) write(messageType int, payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, payload)
}

func toFrame(event domain.Event) (Frame, bool) {
	switch e := event.(type) {
	case domain.AlertRaised:
		expires := e.ExpiresAt
		return Frame{Type: "alert.raised", RequestID: e.RequestID, OccurredAt: e.OccurredAt(), ExpiresAt: &expires}, true
	case domain.AlertCleared:
		return Frame{Type: "alert.cleared", RequestID: e.RequestID, OccurredAt: e.OccurredAt(), Reason: e.Reason}, true
	case domain.RequestTransitioned:
		return Frame{Type: "request.transitioned", RequestID: e.RequestID, OccurredAt: e.OccurredAt(), From: e.From.State.String(), To: e.To.State.String()}, true
	case domain.RequestReceived:
		if e.Request == nil {
			return Frame{}, false
		}
		return Frame{Type: "request.received", RequestID: e.Request.ID, OccurredAt: e.OccurredAt()}, true
	default:
		return Frame{}, false
	}
}
