package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"courtly/internal/pkg/logger"
)

// HTTPError is implemented by every classified domain error.
type HTTPError interface {
	error
	HTTPStatus() int
	Code() string
}

// DetailedError adds a structured payload to the error envelope.
type DetailedError interface {
	Details() any
}

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// AbortError writes the envelope and stops the handler chain.
func AbortError(c *gin.Context, statusCode int, code string, message string) {
	Error(c, statusCode, code, message)
	c.Abort()
}

// FromError maps a service error onto the envelope. Anything unclassified or
// 5xx is logged and reported without internals.
func FromError(c *gin.Context, err error) {
	var he HTTPError
	if !errors.As(err, &he) || he.HTTPStatus() >= http.StatusInternalServerError {
		_ = c.Error(err)
		logger.FromGin(c).Error("request failed", zap.Error(err))
		Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
		return
	}

	var de DetailedError
	if errors.As(err, &de) {
		if details := de.Details(); details != nil {
			ErrorWithDetails(c, he.HTTPStatus(), he.Code(), he.Error(), details)
			return
		}
	}
	Error(c, he.HTTPStatus(), he.Code(), he.Error())
}
