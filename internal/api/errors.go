package api

import (
	"errors"
	"net/http"

	"agcbo/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Error codes
const (
	// Generic
	ErrCodeInvalidRequest     = "ERR_INVALID_REQUEST"
	ErrCodeValidation         = "ERR_VALIDATION"
	ErrCodeUnauthorized       = "ERR_UNAUTHORIZED"
	ErrCodeForbidden          = "ERR_FORBIDDEN"
	ErrCodeNotFound           = "ERR_NOT_FOUND"
	ErrCodeInternalError      = "ERR_INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "ERR_SERVICE_UNAVAILABLE"

	// Authentication
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrCodeAccountPending     = "ERR_ACCOUNT_PENDING"
	ErrCodeUserDisabled       = "ERR_USER_DISABLED"
	ErrCodeSessionExpired     = "ERR_SESSION_EXPIRED"

	ErrCodeMissingField = "ERR_MISSING_FIELD"
)

// APIError is the error envelope of every API response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse writes an error envelope.
func ErrorResponse(c *gin.Context, status int, code string, message string) {
	c.JSON(status, APIError{
		Code:    code,
		Message: message,
	})
}

// ErrorResponseWithDetails writes an error envelope carrying details.
func ErrorResponseWithDetails(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, APIError{
		Code:    code,
		Message: message,
		Details: details,
	})
}

func BadRequest(c *gin.Context, code string, message string) {
	ErrorResponse(c, http.StatusBadRequest, code, message)
}

func Unauthorized(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusForbidden, ErrCodeForbidden, message)
}

func NotFound(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusNotFound, ErrCodeNotFound, message)
}

func InternalError(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, ErrCodeInternalError, message)
}

func ServiceUnavailable(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, message)
}

// MissingField reports a required field that was not sent.
func MissingField(c *gin.Context, field string) {
	ErrorResponseWithDetails(c, http.StatusBadRequest, ErrCodeMissingField, "missing required field", gin.H{"field": field})
}

// InvalidPayload reports a body that could not be decoded.
func InvalidPayload(c *gin.Context, err error) {
	message := "invalid request payload"
	if err != nil {
		message = err.Error()
	}
	ErrorResponse(c, http.StatusBadRequest, ErrCodeInvalidRequest, message)
}

// respondError maps a service error onto the envelope. Unknown errors are
// logged and reported as 500 without their text.
func respondError(c *gin.Context, err error, message string) {
	var verr *service.ValidationError
	var rerr *service.RuleError
	switch {
	case errors.As(err, &verr):
		ErrorResponseWithDetails(c, http.StatusBadRequest, ErrCodeValidation, "validation failed", verr.Fields)
	case errors.As(err, &rerr):
		BadRequest(c, rerr.Code, rerr.Message)
	case errors.Is(err, service.ErrNotFound):
		NotFound(c, "resource not found")
	case errors.Is(err, service.ErrForbidden):
		Forbidden(c, "insufficient privileges")
	case errors.Is(err, service.ErrUnauthenticated):
		Unauthorized(c, "authentication required")
	case errors.Is(err, service.ErrInvalidCredentials):
		ErrorResponse(c, http.StatusUnauthorized, ErrCodeInvalidCredentials, err.Error())
	case errors.Is(err, service.ErrAccountPending):
		ErrorResponse(c, http.StatusUnauthorized, ErrCodeAccountPending, err.Error())
	case errors.Is(err, service.ErrAccountDisabled):
		ErrorResponse(c, http.StatusUnauthorized, ErrCodeUserDisabled, err.Error())
	case errors.Is(err, service.ErrInvalidToken):
		ErrorResponse(c, http.StatusUnauthorized, ErrCodeSessionExpired, err.Error())
	default:
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error(message)
		InternalError(c, message)
	}
}
