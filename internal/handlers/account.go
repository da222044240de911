package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"friend-service/internal/social"
)

// AccountHandler covers the caller's device registration and moderation.
type AccountHandler struct {
	service FriendService
}

// NewAccountHandler builds an AccountHandler.
func NewAccountHandler(service FriendService) *AccountHandler {
	return &AccountHandler{service: service}
}

// RegisterPushToken stores the caller's push token. An empty token
// unregisters the device.
func (h *AccountHandler) RegisterPushToken(c *gin.Context) {
	var req struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, invalidInput(err.Error()))
		return
	}
	if err := h.service.RegisterPushToken(requestContext(c), userIDFromContext(c), req.Token); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// BanUser bans the user in the path. The service checks the admin role.
func (h *AccountHandler) BanUser(c *gin.Context) {
	targetID, ok := userParam(c)
	if !ok {
		return
	}
	var req struct {
		Duration string `json:"duration" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, invalidInput(err.Error()))
		return
	}
	until, err := h.service.BanUser(requestContext(c), userIDFromContext(c), targetID, social.BanDuration(req.Duration))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": targetID, "banned_until": until})
}
