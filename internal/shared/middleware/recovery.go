package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"library-api/internal/shared/apperror"
	"library-api/internal/shared/response"
)

func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().
					Str("request_id", c.GetString(RequestIDKey)).
					Interface("error", rec).
					Bytes("stack", debug.Stack()).
					Msg("Panic recovered")

				response.Error(c, apperror.Unknown(fmt.Errorf("panic: %v", rec)))
			}
		}()

		c.Next()
	}
}
