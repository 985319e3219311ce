package bodylimit

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Middleware caps request bodies at maxBytes. Oversized bodies fail when the handler reads them.
func Middleware(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
