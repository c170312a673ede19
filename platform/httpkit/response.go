package httpkit

import (
	"errors"
	"net/http"

	"dealer_portal_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error payload shape.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// JSON writes a payload with the given status.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// OK writes a payload with status 200.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// Error writes an error payload with the given status.
func Error(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, ErrorResponse{Error: message, Details: details})
}

// DomainError maps an apperr.Error to its HTTP status; any other error
// becomes a 500 with a generic message.
func DomainError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus(), ErrorResponse{Error: appErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
