package utils

import (
	"net/http"

	"recipe-search-platform/internal/apperr"

	"github.com/gin-gonic/gin"
)

// SuccessResponse is the envelope for all successful responses.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

// ErrorResponse is the envelope for all failed responses.
type ErrorResponse struct {
	Success   bool        `json:"success"`
	ErrorCode string      `json:"error_code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}

// RespondOK sends a success envelope.
func RespondOK(c *gin.Context, message string, payload interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: message,
		Payload: payload,
	})
}

// RespondWithError sends a standardized error response.
func RespondWithError(c *gin.Context, statusCode int, errorCode, message string, details interface{}) {
	c.JSON(statusCode, ErrorResponse{
		Success:   false,
		ErrorCode: errorCode,
		Message:   message,
		Details:   details,
	})
}

// RespondWithBadRequest sends a 400 Bad Request error.
func RespondWithBadRequest(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, http.StatusBadRequest, "invalid_input", message, details)
}

// RespondWithUnauthorized sends a 401 Unauthorized error.
func RespondWithUnauthorized(c *gin.Context, message string) {
	RespondWithError(c, http.StatusUnauthorized, "unauthorized", message, nil)
}

// RespondWithInternalError sends a 500 Internal Server Error.
func RespondWithInternalError(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, http.StatusInternalServerError, "internal_error", message, details)
}

// RespondWithAppError maps the error taxonomy onto HTTP status codes so
// route handlers never inspect error strings.
func RespondWithAppError(c *gin.Context, err error) {
	kind, ok := apperr.KindOf(err)
	if !ok {
		RespondWithInternalError(c, "Unexpected error", err.Error())
		return
	}

	status := http.StatusInternalServerError
	switch kind {
	case apperr.InvalidInput:
		status = http.StatusBadRequest
	case apperr.UpstreamUnavailable, apperr.MalformedResponse:
		status = http.StatusBadGateway
	case apperr.IndexNotFound:
		status = http.StatusNotFound
	case apperr.IndexCreationError:
		status = http.StatusInternalServerError
	case apperr.StoreUnavailable:
		status = http.StatusServiceUnavailable
	}
	RespondWithError(c, status, kind.Code(), err.Error(), nil)
}
