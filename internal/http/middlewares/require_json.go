package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func hasBody(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch
}

// RequireJSON rejects write requests whose Content-Type is not JSON.
// A charset suffix ("application/json; charset=utf-8") is accepted.
func RequireJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !hasBody(c.Request.Method) {
			c.Next()
			return
		}

		ct := strings.ToLower(c.GetHeader("Content-Type"))

		if !strings.HasPrefix(ct, "application/json") {
			c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, gin.H{
				"error": gin.H{
					"code":    "unsupported_media_type",
					"message": "Content-Type must be application/json",
				},
			})
			return
		}

		c.Next()
	}
}
