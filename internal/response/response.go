package response

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// Application error codes. These map one-to-one onto the error taxonomy
// surfaced to callers; the HTTP layer translates them to status codes.
const (
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeAlreadyExists    = "ALREADY_EXISTS"
	ErrCodeInvalidRole      = "INVALID_ROLE"
	ErrCodeInvalidOperation = "INVALID_OPERATION"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// AppError is a service-layer error carrying an application error code
type AppError struct {
	Code    string
	Message string
	Details string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewAppError creates a new AppError
func NewAppError(code, message, details string) *AppError {
	return &AppError{Code: code, Message: message, Details: details}
}

// ErrorBody is the JSON error envelope
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the top-level error payload
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// SendError writes a JSON error response with the given HTTP status
func SendError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{Error: ErrorBody{Code: code, Message: message}})
}

// SendSuccess writes a JSON success response
func SendSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}
