package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"friend-service/internal/telemetry"
)

// RegisterDebugRoutes wires debug-only endpoints on an authenticated group.
// The audit actor is the authenticated caller.
func RegisterDebugRoutes(group gin.IRoutes, emitter *telemetry.AuditEmitter, enabled bool) {
	if !enabled {
		return
	}

	group.GET("/debug/audit-test", func(c *gin.Context) {
		if emitter == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "audit emitter not configured"})
			return
		}
		emitter.Record(requestContext(c), "debug.audit_test", userIDFromContext(c), "", nil)
		c.JSON(http.StatusOK, gin.H{"status": "ok", "request_id": requestIDFromContext(c)})
	})
}
