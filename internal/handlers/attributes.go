package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// AttributeHandler manages the caller's attribute vocabulary, the labels on
// each friendship and the filtered friend list.
type AttributeHandler struct {
	service FriendService
}

// NewAttributeHandler builds an AttributeHandler.
func NewAttributeHandler(service FriendService) *AttributeHandler {
	return &AttributeHandler{service: service}
}

// ListFriends returns the caller's friends, optionally narrowed with
// ?attributes=1,7.
func (h *AttributeHandler) ListFriends(c *gin.Context) {
	selection, err := parseIDList(c.Query("attributes"))
	if err != nil {
		writeError(c, invalidInput(err.Error()))
		return
	}
	friends, err := h.service.Friends(requestContext(c), userIDFromContext(c), selection)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"friends": friends})
}

// ListAttributes returns the caller's own labels.
func (h *AttributeHandler) ListAttributes(c *gin.Context) {
	attrs, err := h.service.ListOwnAttributes(requestContext(c), userIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attributes": attrs})
}

// CreateAttribute adds a label to the caller's vocabulary.
func (h *AttributeHandler) CreateAttribute(c *gin.Context) {
	var req struct {
		Label string `json:"label" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, invalidInput(err.Error()))
		return
	}
	attr, err := h.service.CreateAttribute(requestContext(c), userIDFromContext(c), req.Label)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, attr)
}

// DeleteAttribute removes one of the caller's labels.
func (h *AttributeHandler) DeleteAttribute(c *gin.Context) {
	attributeID, err := strconv.ParseInt(c.Param("attribute_id"), 10, 64)
	if err != nil {
		writeError(c, invalidInput("invalid attribute id"))
		return
	}
	if err := h.service.DeleteAttribute(requestContext(c), userIDFromContext(c), attributeID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AssignAttributes replaces the labels the caller put on a friendship.
func (h *AttributeHandler) AssignAttributes(c *gin.Context) {
	relationshipID, err := strconv.ParseInt(c.Param("relationship_id"), 10, 64)
	if err != nil {
		writeError(c, invalidInput("invalid relationship id"))
		return
	}
	var req struct {
		AttributeIDs attributeIDs `json:"attribute_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, invalidInput(err.Error()))
		return
	}
	if err := h.service.AssignOwnAttributes(requestContext(c), userIDFromContext(c), relationshipID, req.AttributeIDs); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"relationship_id": relationshipID, "attribute_ids": req.AttributeIDs})
}
