package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const ActorKey = "actor_id"

// ActorMiddleware extracts the acting investor from the X-Actor-ID header.
// Authentication itself is upstream; this core only needs an explicit actor
// for every call.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-Actor-ID")
		if raw == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "actor id is required in 'X-Actor-ID' header"})
			c.Abort()
			return
		}
		actorID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || actorID <= 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid 'X-Actor-ID' header"})
			c.Abort()
			return
		}
		c.Set(ActorKey, actorID)
		c.Next()
	}
}
