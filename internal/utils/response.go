package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SuccessBody is the success half of the response envelope.
type SuccessBody struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorBody is the error half of the response envelope.
type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

// Envelope wraps every API response: exactly one of Success or Error is set.
type Envelope struct {
	Success *SuccessBody `json:"success,omitempty"`
	Error   *ErrorBody   `json:"error,omitempty"`
}

// Success sends a standard success response.
func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Envelope{
		Success: &SuccessBody{
			Code:    http.StatusOK,
			Message: message,
			Data:    data,
		},
	})
}

// Error sends a standard error response.
func Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Envelope{
		Error: &ErrorBody{
			Code:    statusCode,
			Message: message,
		},
	})
}

// Unauthorized sends a 401 error response.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// Forbidden sends a 403 error response. Missing or malformed request
// fields use this status, not 400: the original wire contract is kept.
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

// NotFound sends a 404 error response.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// Conflict sends a 409 error response.
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

// InternalServerError sends a 500 error response with a fixed message so
// store and token failures never leak details to the client.
func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "internal server error")
}
