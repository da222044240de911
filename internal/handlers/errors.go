package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"friend-service/internal/social"
)

func invalidInput(msg string) error {
	return errors.Wrap(social.ErrInvalidInput, msg)
}

// writeError maps service errors to HTTP responses.
func writeError(c *gin.Context, err error) {
	status, kind := http.StatusInternalServerError, "store_error"
	switch {
	case errors.Is(err, social.ErrInvalidTransition):
		status, kind = http.StatusConflict, "invalid_transition"
	case errors.Is(err, social.ErrInvalidInput):
		status, kind = http.StatusBadRequest, "invalid_input"
	case errors.Is(err, social.ErrUnauthorized):
		status, kind = http.StatusForbidden, "unauthorized"
	case errors.Is(err, social.ErrNotFound):
		status, kind = http.StatusNotFound, "not_found"
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("request failed method=%s path=%s request_id=%s: %+v", c.Request.Method, c.FullPath(), requestIDFromContext(c), err)
		message = "internal error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": kind, "message": message})
}
