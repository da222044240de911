package handlers

import (
	"log"
	"sync"

	"github.com/gin-gonic/gin"
)

// ProvisionUsers makes sure every authenticated caller has a directory row.
// Ids already seen by this process skip the store. A failed upsert is logged
// and retried on the next request.
func ProvisionUsers(provisioner UserProvisioner) gin.HandlerFunc {
	var seen sync.Map
	return func(c *gin.Context) {
		userID := userIDFromContext(c)
		if userID == "" {
			c.Next()
			return
		}
		if _, ok := seen.Load(userID); !ok {
			if err := provisioner.EnsureUser(requestContext(c), userID, c.GetString("username")); err != nil {
				log.Printf("provision user failed user=%s request_id=%s: %v", userID, requestIDFromContext(c), err)
			} else {
				seen.Store(userID, struct{}{})
			}
		}
		c.Next()
	}
}
