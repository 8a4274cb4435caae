package utils

import (
	"errors"
	"net/http"

	"marketplace-server/internal/common"
	"marketplace-server/internal/models"
	"marketplace-server/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ResponseData represents the structure of a standard API response.
type ResponseData struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success sends a standard success response.
func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, ResponseData{
		Status:  http.StatusOK,
		Message: message,
		Data:    data,
	})
}

// Created sends a standard resource created response.
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, ResponseData{
		Status:  http.StatusCreated,
		Message: message,
		Data:    data,
	})
}

// Error sends a standard error response.
func Error(c *gin.Context, statusCode int, errorMessage string) {
	c.JSON(statusCode, ResponseData{
		Status:  statusCode,
		Message: "An error occurred",
		Error:   errorMessage,
	})
}

// BadRequest sends a 400 Bad Request error response.
func BadRequest(c *gin.Context, errorMessage string) {
	Error(c, http.StatusBadRequest, errorMessage)
}

// Unauthorized sends a 401 Unauthorized error response.
func Unauthorized(c *gin.Context, errorMessage string) {
	Error(c, http.StatusUnauthorized, errorMessage)
}

// Forbidden sends a 403 Forbidden error response.
func Forbidden(c *gin.Context, errorMessage string) {
	Error(c, http.StatusForbidden, errorMessage)
}

// NotFound sends a 404 Not Found error response.
func NotFound(c *gin.Context, errorMessage string) {
	Error(c, http.StatusNotFound, errorMessage)
}

// InternalServerError sends a 500 Internal Server Error response.
func InternalServerError(c *gin.Context, errorMessage string) {
	Error(c, http.StatusInternalServerError, errorMessage)
}

// Conflict sends a 409 Conflict error response.
func Conflict(c *gin.Context, errorMessage string) {
	Error(c, http.StatusConflict, errorMessage)
}

// Context keys shared by the middleware and the handlers.
const (
	RequestIDKey   = "requestID"
	ParticipantKey = "participant"
)

const internalErrorMessage = "An unexpected error occurred. Please try again later."

// HandleError sends the response matching err's kind. Unclassified errors are
// logged and answered with a generic 500; their text never reaches the client.
func HandleError(c *gin.Context, op string, err error) {
	msg := common.PublicMessage(err)
	switch {
	case errors.Is(err, common.ErrValidation):
		BadRequest(c, msg)
	case errors.Is(err, common.ErrUnauthenticated):
		Unauthorized(c, msg)
	case errors.Is(err, common.ErrForbidden):
		Forbidden(c, msg)
	case errors.Is(err, common.ErrNotFound):
		NotFound(c, msg)
	case errors.Is(err, common.ErrConflict):
		Conflict(c, msg)
	default:
		log := logger.WithRequestID(c.GetString(RequestIDKey))
		event := log.Error().Err(err)
		if p, ok := c.Get(ParticipantKey); ok {
			if participant, ok := p.(models.Participant); ok {
				event = event.Str("participant", participant.String())
			}
		}
		event.
			Str("op", op).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("request failed")
		InternalServerError(c, internalErrorMessage)
	}
}
