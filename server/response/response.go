package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/Juanpgm/api-artefacto-360-dagma/errors"
)

// JSON writes the standard response envelope. The errs field carries the
// machine-readable error (code, field) when err is an *errs.Error.
func JSON(c *gin.Context, message string, status int, data interface{}, err error) {
	var errPayload interface{}
	if err != nil {
		if e, ok := err.(*errs.Error); ok {
			errPayload = e
		} else {
			errPayload = err.Error()
		}
		if message == "" {
			message = err.Error()
		}
	}

	c.JSON(status, gin.H{
		"success": status < http.StatusBadRequest,
		"message": message,
		"data":    data,
		"errors":  errPayload,
		"status":  http.StatusText(status),
	})
}
