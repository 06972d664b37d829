// Package handlers provides the HTTP handlers of the local control API.
//
// This file defines the response helpers shared by all endpoints: the error
// envelope, JSON success writers and the partial-result shape used when some
// stored rows could not be decoded.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-fitness-sync/internal/http/middleware"
	"github.com/tbourn/go-fitness-sync/internal/repo"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"not_found"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"record not found"`
}

// ListResponse wraps list results. Warnings lists rows that were skipped
// because a stored column could not be decoded.
type ListResponse[T any] struct {
	Items    []T      `json:"items"`
	Warnings []string `json:"warnings,omitempty"`
}

// fail aborts the request with a structured error. Server errors are logged
// with the request-scoped logger.
func fail(c *gin.Context, status int, code, msg string) {
	resp := ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	}
	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}
	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail for the router.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// okList writes rows with an optional decode warning. Any other error is a
// failure.
func okList[T any](c *gin.Context, rows []T, err error, fallback string) {
	if err != nil && !repo.IsDeserialization(err) {
		failErr(c, err, fallback)
		return
	}
	resp := ListResponse[T]{Items: rows}
	if resp.Items == nil {
		resp.Items = []T{}
	}
	if err != nil {
		lg := middleware.LoggerFrom(c)
		lg.Warn().Err(err).Int("rows", len(rows)).Msg("partial list")
		resp.Warnings = []string{err.Error()}
	}
	ok(c, http.StatusOK, resp)
}
