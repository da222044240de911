package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"friend-service/internal/changefeed"
	"friend-service/internal/observability"
)

const wsRoutingKey = "ws_events.changes"

// EventPublisher publishes websocket lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event any, headers map[string]string) error
}

// Conn is the part of *websocket.Conn the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// InvalidateMessage tells a client that data in Table changed and should be
// re-fetched.
type InvalidateMessage struct {
	Type  string        `json:"type"`
	Table string        `json:"table"`
	Op    changefeed.Op `json:"op"`
}

// Hub tracks change-feed websocket connections per user.
type Hub struct {
	clients   map[string]map[Conn]ConnInfo
	mu        sync.RWMutex
	publisher EventPublisher
}

// NewHub creates an empty hub. publisher may be nil.
func NewHub(publisher EventPublisher) *Hub {
	return &Hub{
		clients:   make(map[string]map[Conn]ConnInfo),
		publisher: publisher,
	}
}

// AddClient registers a connection for info.UserID.
func (h *Hub) AddClient(conn Conn, info ConnInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[info.UserID]; !ok {
		h.clients[info.UserID] = make(map[Conn]ConnInfo)
	}
	h.clients[info.UserID][conn] = info
}

// RemoveClient unregisters a connection.
func (h *Hub) RemoveClient(userID string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.clients[userID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.clients, userID)
		}
	}
}

// Run forwards ticks to connected users until ctx is done or ticks closes.
// It is the only writer to hub connections.
func (h *Hub) Run(ctx context.Context, ticks <-chan changefeed.Change) {
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-ticks:
			if !ok {
				return
			}
			h.Dispatch(change)
		}
	}
}

// Dispatch sends an invalidate message to every connection of the users the
// tick involves.
func (h *Hub) Dispatch(change changefeed.Change) {
	payload, err := json.Marshal(InvalidateMessage{Type: "invalidate", Table: change.Table, Op: change.Op})
	if err != nil {
		log.Printf("websocket marshal error: %v", err)
		return
	}

	for conn, info := range h.targets(change) {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("websocket write error user_id=%s conn_id=%s: %v", info.UserID, info.ConnID, err)
			conn.Close()
			h.RemoveClient(info.UserID, conn)
			h.publishEvent(context.Background(), "ws_error", info, err.Error())
		}
	}
}

func (h *Hub) targets(change changefeed.Change) map[Conn]ConnInfo {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make(map[Conn]ConnInfo)
	if change.Op == changefeed.OpResync {
		for _, conns := range h.clients {
			for conn, info := range conns {
				out[conn] = info
			}
		}
		return out
	}
	for _, userID := range change.UserIDs {
		for conn, info := range h.clients[userID] {
			out[conn] = info
		}
	}
	return out
}

// ConnectionCount returns the number of open connections of a user.
func (h *Hub) ConnectionCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) publishEvent(ctx context.Context, event string, info ConnInfo, reason string) {
	observability.IncWSEvent(event)
	if h.publisher == nil {
		return
	}

	var duration int64
	if event != "ws_connect" {
		duration = time.Since(info.ConnectedAt).Milliseconds()
	}
	envelope := observability.EventEnvelope{
		EventType: "ws_events",
		EventName: event,
		Payload: observability.WSEventPayload{
			WS: observability.WSDetails{
				Event:      event,
				ConnID:     info.ConnID,
				DurationMS: duration,
				Reason:     reason,
			},
			Identity: observability.Identity{
				UserID:   info.UserID,
				DeviceID: info.DeviceID,
				IP:       info.IP,
			},
		},
	}
	if err := h.publisher.Publish(ctx, wsRoutingKey, envelope, observability.BuildHeaders(info.RequestID, info.TraceID)); err != nil {
		log.Printf("websocket event publish failed event=%s: %v", event, err)
	}
}
