// Package web holds the gin middleware and error responses shared by the service handlers.
package web

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Aayushshr101/digital-menu-backend/internal/logger"
	"github.com/Aayushshr101/digital-menu-backend/internal/models"
)

const (
	requestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"
)

// RequestID assigns every request a correlation id, honoring one sent by the client.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = logger.GenerateRequestID()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID returns the id set by RequestID, or a fresh one.
func GetRequestID(c *gin.Context) string {
	if id := c.GetString(requestIDKey); id != "" {
		return id
	}
	return logger.GenerateRequestID()
}

// Logging logs the start and end of every request.
func Logging(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := GetRequestID(c)
		path := c.Request.URL.Path

		log.Debug("request_started", fmt.Sprintf("%s %s", c.Request.Method, path), requestID, map[string]interface{}{
			"method":      c.Request.Method,
			"path":        path,
			"remote_addr": c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		})

		c.Next()

		log.Debug("request_completed", fmt.Sprintf("%s %s - %d", c.Request.Method, path, c.Writer.Status()), requestID, map[string]interface{}{
			"method":      c.Request.Method,
			"path":        path,
			"status_code": c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}
}

// StatusFor maps the error taxonomy onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes the JSON error body. Server errors are logged and their detail hidden.
func WriteError(c *gin.Context, log *logger.Logger, action string, err error) {
	status := StatusFor(err)
	requestID := GetRequestID(c)

	body := gin.H{
		"error":      err.Error(),
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"request_id": requestID,
	}

	var verr models.ValidationError
	if errors.As(err, &verr) {
		body["field"] = verr.Field
		body["error"] = verr.Message
	}

	if status == http.StatusInternalServerError {
		log.Error(action, "Request failed", requestID, err, map[string]interface{}{
			"path": c.Request.URL.Path,
		})
		body["error"] = "Internal server error"
		if errors.Is(err, models.ErrPersistence) {
			body["retryable"] = true
		}
	}

	c.AbortWithStatusJSON(status, body)
}

// BadRequest reports a malformed body.
func BadRequest(c *gin.Context, log *logger.Logger, message string) {
	WriteError(c, log, "validation_failed", models.ValidationError{Field: "body", Message: message})
}
