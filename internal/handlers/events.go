package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// EventHandler fans out new-event notifications.
type EventHandler struct {
	service FriendService
}

// NewEventHandler builds an EventHandler.
func NewEventHandler(service FriendService) *EventHandler {
	return &EventHandler{service: service}
}

// Announce notifies the caller's friends tagged with any of the selected
// attributes.
func (h *EventHandler) Announce(c *gin.Context) {
	var req struct {
		SelectedAttributes attributeIDs `json:"selected_attributes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, invalidInput(err.Error()))
		return
	}
	intents, err := h.service.AnnounceEvent(requestContext(c), userIDFromContext(c), req.SelectedAttributes)
	if err != nil {
		writeError(c, err)
		return
	}

	notified := make([]string, 0, len(intents))
	for _, intent := range intents {
		notified = append(notified, intent.TargetUserID)
	}
	c.JSON(http.StatusOK, gin.H{"notified": notified})
}
