package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RelationshipHandler exposes the friend request lifecycle.
type RelationshipHandler struct {
	service FriendService
}

// NewRelationshipHandler builds a RelationshipHandler.
func NewRelationshipHandler(service FriendService) *RelationshipHandler {
	return &RelationshipHandler{service: service}
}

// Status reports how the caller relates to the user in the path.
func (h *RelationshipHandler) Status(c *gin.Context) {
	otherID, ok := userParam(c)
	if !ok {
		return
	}
	status, rel, err := h.service.Status(requestContext(c), userIDFromContext(c), otherID)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := gin.H{"status": status}
	if rel != nil {
		resp["relationship_id"] = rel.ID
		if side, ok := rel.SlotFor(userIDFromContext(c)); ok {
			resp["attribute_ids"] = []int64(rel.Attributes(side))
		}
	}
	c.JSON(http.StatusOK, resp)
}

// SendRequest sends a friend request to the user in the path.
func (h *RelationshipHandler) SendRequest(c *gin.Context) {
	recipientID, ok := userParam(c)
	if !ok {
		return
	}
	rel, err := h.service.SendRequest(requestContext(c), userIDFromContext(c), recipientID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rel)
}

// CancelRequest withdraws the caller's pending request.
func (h *RelationshipHandler) CancelRequest(c *gin.Context) {
	recipientID, ok := userParam(c)
	if !ok {
		return
	}
	if err := h.service.CancelRequest(requestContext(c), userIDFromContext(c), recipientID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Approve accepts the request the user in the path sent to the caller.
func (h *RelationshipHandler) Approve(c *gin.Context) {
	initiatorID, ok := userParam(c)
	if !ok {
		return
	}
	chat, err := h.service.Approve(requestContext(c), userIDFromContext(c), initiatorID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "friends", "chat_id": chat.ID})
}

// Chat returns the private chat the caller shares with a friend.
func (h *RelationshipHandler) Chat(c *gin.Context) {
	friendID, ok := userParam(c)
	if !ok {
		return
	}
	chat, err := h.service.ChatWith(requestContext(c), userIDFromContext(c), friendID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, chat)
}

// Reject declines the request the user in the path sent to the caller.
func (h *RelationshipHandler) Reject(c *gin.Context) {
	initiatorID, ok := userParam(c)
	if !ok {
		return
	}
	if err := h.service.Reject(requestContext(c), userIDFromContext(c), initiatorID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Unfriend ends the friendship with the user in the path.
func (h *RelationshipHandler) Unfriend(c *gin.Context) {
	otherID, ok := userParam(c)
	if !ok {
		return
	}
	if err := h.service.Unfriend(requestContext(c), userIDFromContext(c), otherID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// IncomingRequests lists requests waiting for the caller's answer.
func (h *RelationshipHandler) IncomingRequests(c *gin.Context) {
	views, err := h.service.IncomingRequests(requestContext(c), userIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": views})
}

// OutgoingRequests lists requests the caller sent that are still pending.
func (h *RelationshipHandler) OutgoingRequests(c *gin.Context) {
	views, err := h.service.OutgoingRequests(requestContext(c), userIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": views})
}
