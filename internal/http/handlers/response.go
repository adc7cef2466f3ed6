// Package handlers provides HTTP handler implementations for the public API.
//
// This file holds the response helpers shared by every endpoint. Errors are
// always an ErrorResponse; 5xx responses are logged with the request-scoped
// logger.
//
//	HTTP/1.1 400 Bad Request
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "conflict",
//	  "message": "an appointment already exists on 2024-06-01 at 10:00"
//	}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fatihsenyuz/Randevu/internal/http/middleware"
	"github.com/fatihsenyuz/Randevu/internal/services"
)

// ErrorResponse is the error envelope returned by all endpoints.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"not_found"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"appointment not found"`
}

// fail aborts the request with an ErrorResponse. Server errors are logged.
func fail(c *gin.Context, status int, code, msg string) {
	resp := ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	}
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}
	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail() for the router's fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// failErr translates a service error by kind. Internal errors are logged
// with their cause and reported without it.
func failErr(c *gin.Context, err error) {
	switch services.KindOf(err) {
	case services.KindNotFound:
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case services.KindValidation:
		fail(c, http.StatusBadRequest, ErrCodeValidation, err.Error())
	case services.KindConflict:
		fail(c, http.StatusBadRequest, ErrCodeConflict, err.Error())
	default:
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
	}
}

func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
