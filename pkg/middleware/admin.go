package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/dendrix-ai/dendrix-web/pkg/common"
	"github.com/gin-gonic/gin"
)

// AdminTokenHeader carries the shared admin token
const AdminTokenHeader = "X-Admin-Token"

// RequireAdminToken guards routes with a static shared token. An empty token
// disables the routes entirely.
func RequireAdminToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			common.ErrorResponse(c, http.StatusNotFound, "not found")
			c.Abort()
			return
		}

		given := c.GetHeader(AdminTokenHeader)
		if subtle.ConstantTimeCompare([]byte(given), []byte(token)) != 1 {
			common.ErrorResponse(c, http.StatusUnauthorized, "invalid admin token")
			c.Abort()
			return
		}

		c.Next()
	}
}
