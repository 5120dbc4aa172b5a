package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"library-api/internal/shared/apperror"
)

// ErrorBody is the envelope written for every failed request
type ErrorBody struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    any    `json:"message"` // string, or []string for validation errors
	Error      string `json:"error"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
}

// NewErrorBody builds the envelope for a normalized error
func NewErrorBody(err *apperror.Error, path string, now time.Time) ErrorBody {
	return ErrorBody{
		Success:    false,
		StatusCode: err.StatusCode(),
		Message:    err.PublicMessage(),
		Error:      err.Label(),
		Timestamp:  now.UTC().Format(time.RFC3339Nano),
		Path:       path,
	}
}

// Success responses

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error responses

// Error writes the envelope and aborts the chain
func Error(c *gin.Context, err *apperror.Error) {
	body := NewErrorBody(err, c.Request.URL.RequestURI(), time.Now())
	c.AbortWithStatusJSON(body.StatusCode, body)
}
