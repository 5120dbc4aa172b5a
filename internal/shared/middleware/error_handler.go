package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"library-api/internal/shared/apperror"
	"library-api/internal/shared/response"
)

// ErrorHandler is the only place errors turn into HTTP responses.
// Handlers and middleware report failures with c.Error(err) and return;
// the last recorded error is normalized, logged and written as the envelope.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil || c.Writer.Written() {
			return
		}

		appErr := apperror.Normalize(last.Err)
		logError(c, appErr)
		response.Error(c, appErr)
	}
}

// NoRoute and NoMethod feed unmatched requests into the same envelope

func NoRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		_ = c.Error(apperror.RouteNotFound(c.Request.Method, c.Request.URL.Path))
	}
}

func NoMethod() gin.HandlerFunc {
	return func(c *gin.Context) {
		_ = c.Error(apperror.MethodNotAllowed(c.Request.Method, c.Request.URL.Path))
	}
}

func logError(c *gin.Context, appErr *apperror.Error) {
	var event *zerolog.Event
	if appErr.StatusCode() >= http.StatusInternalServerError {
		event = log.Error().Err(appErr.Err)
	} else {
		event = log.Warn()
	}

	event.
		Str("request_id", c.GetString(RequestIDKey)).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("kind", string(appErr.Kind)).
		Int("status", appErr.StatusCode()).
		Msg(appErr.Error())
}
