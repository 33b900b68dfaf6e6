package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BodyLimit refuses bodies over maxBytes. A declared Content-Length over the
// limit is rejected before the handler runs; chunked bodies fail when the
// handler reads past the limit. Set it above the upload size limit so the
// upload handler can report its own error.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			abortWithError(c, http.StatusRequestEntityTooLarge, "ERR_FILE_TOO_LARGE", "Request body exceeds maximum allowed size")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
