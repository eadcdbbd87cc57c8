package middleware

import (
	"crypto/subtle"
	"net/http"

	"anomaly-economy/internal/utils"

	"github.com/gin-gonic/gin"
)

// ServiceAuthMiddleware gates the bot-facing surface. The chat-bot process is
// the only expected caller and presents a shared key on every request. The
// key is loaded once at router construction and closed over here.
func ServiceAuthMiddleware(serviceKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if serviceKey == "" {
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Service key not configured"))
			c.Abort()
			return
		}

		presented := c.GetHeader("X-Service-Key")
		if subtle.ConstantTimeCompare([]byte(presented), []byte(serviceKey)) != 1 {
			c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Invalid service key"))
			c.Abort()
			return
		}

		c.Next()
	}
}
