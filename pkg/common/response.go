package common

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// Response is the envelope returned by every endpoint.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// SuccessResponse writes a 200 envelope with the given payload.
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(200, Response{Success: true, Data: data})
}

// CreatedResponse writes a 201 envelope with the given payload.
func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(201, Response{Success: true, Data: data})
}

// ErrorResponse writes an error envelope with the given status.
func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: false, Error: message})
}

// AbortWithError maps an application error to the envelope, using the
// AppError status when available.
func AbortWithError(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		ErrorResponse(c, appErr.Status, appErr.Message)
		return
	}
	ErrorResponse(c, 500, "internal server error")
}
