package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"friend-service/internal/middleware"
	"friend-service/internal/observability"
)

// ChangeWebSocketHandler serves /ws/changes.
type ChangeWebSocketHandler struct {
	hub       *Hub
	validator *middleware.TokenValidator
}

// NewChangeWebSocketHandler constructs a ChangeWebSocketHandler.
func NewChangeWebSocketHandler(hub *Hub, validator *middleware.TokenValidator) *ChangeWebSocketHandler {
	return &ChangeWebSocketHandler{hub: hub, validator: validator}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle authenticates the caller, upgrades the connection and keeps it
// registered until the client goes away. Browsers cannot set headers on a
// websocket handshake, so the token may also come as ?token=.
func (h *ChangeWebSocketHandler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("friend-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	token, ok := middleware.BearerToken(c.GetHeader("Authorization"))
	if !ok {
		token = c.Query("token")
	}
	userID, err := h.validator.Validate(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	meta := observability.RequestMetaFromRequest(c.Request)
	info := ConnInfo{
		ConnID:      newConnID(),
		UserID:      userID,
		DeviceID:    meta.DeviceID,
		IP:          meta.IP,
		RequestID:   meta.RequestID,
		TraceID:     span.SpanContext().TraceID().String(),
		ConnectedAt: time.Now(),
	}
	h.hub.AddClient(conn, info)
	observability.IncWSActive()
	h.hub.publishEvent(ctx, "ws_connect", info, "")

	// The client never sends data; reading only detects closure. The request
	// context is canceled once Handle returns, so the reader keeps its values
	// without the cancellation.
	connCtx := context.WithoutCancel(ctx)
	go func() {
		var closeReason string
		defer func() {
			h.hub.RemoveClient(userID, conn)
			observability.DecWSActive()
			h.hub.publishEvent(connCtx, "ws_disconnect", info, closeReason)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				closeReason = err.Error()
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					h.hub.publishEvent(connCtx, "ws_error", info, closeReason)
				}
				return
			}
		}
	}()
}
