package errors

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/awaazhq/awaaz-api/internal/constants"
)

// Envelope statuses
const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

// APIError represents a standardized API error response using the
// {status, message} envelope. 4xx responses carry status "fail", 5xx
// responses carry status "error".
type APIError struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.JSON(statusCode, err)
}

// Helper functions for common error responses

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, &APIError{Status: StatusFail, Message: message})
}

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, &APIError{Status: StatusFail, Message: message})
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Access denied"
	}
	RespondWithError(c, http.StatusForbidden, &APIError{Status: StatusFail, Message: message})
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, &APIError{Status: StatusFail, Message: message})
}

// Conflict reports a uniqueness violation. By API convention it maps to
// 400, not 409.
func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "Resource conflict"
	}
	RespondWithError(c, http.StatusBadRequest, &APIError{Status: StatusFail, Message: message})
}

// Internal sends a 500 response. The underlying error is logged with the
// request id; the caller only ever sees a generic message unless gin runs
// in debug mode.
func Internal(c *gin.Context, err error) {
	requestID, _ := c.Get(constants.ContextKeyRequestID)
	log.Printf("[%v] %s %s: %v", requestID, c.Request.Method, c.Request.URL.Path, err)

	message := "Something went wrong"
	if gin.Mode() == gin.DebugMode && err != nil {
		message = err.Error()
	}
	RespondWithError(c, http.StatusInternalServerError, &APIError{Status: StatusError, Message: message})
}
