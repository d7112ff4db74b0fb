package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"

	// ContextRequestID is the gin context key the logging and error
	// middleware read the correlation id from.
	ContextRequestID = "request_id"
)

// RequestID ensures every request carries a correlation id, minting one
// when the client did not send its own. The id is echoed back so callers
// can quote it when reporting problems.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(ContextRequestID, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}
