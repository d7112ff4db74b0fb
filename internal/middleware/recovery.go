package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/watchnotify/notifier-api/internal/handler"
)

// Recovery converts handler panics into 500 responses. The panic value
// and stack are logged with the request's correlation id; the client
// never sees either.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			log.Error().
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Str("request_id", c.GetString(ContextRequestID)).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Str("client_ip", c.ClientIP()).
				Msg("panic recovered")

			c.AbortWithStatusJSON(http.StatusInternalServerError,
				handler.NewErrorResponse("internal server error"))
		}()

		c.Next()
	}
}
