// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case and stable; clients branch on them instead of
// parsing messages. Every error response carries an HTTP status and one of
// these codes.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "forbidden",
//	  "message": "record belongs to another user"
//	}
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-fitness-sync/internal/repo"
	"github.com/tbourn/go-fitness-sync/internal/services"
)

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeForbidden        = "forbidden"
	ErrCodeNotFound         = "not_found"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeInternal         = "internal_error"

	// Domain-specific:
	ErrCodeStoreUnavailable = "store_unavailable"
	ErrCodeCorruptRecord    = "corrupt_record"
	ErrCodeWriteFailed      = "write_failed"
	ErrCodeQueryFailed      = "query_failed"
	ErrCodeQueueFailed      = "queue_failed"
)

// failErr maps a service or store error onto the error envelope. fallback is
// the code used for unclassified (5xx) errors.
func failErr(c *gin.Context, err error, fallback string) {
	var initErr *repo.InitializationError
	switch {
	case errors.Is(err, services.ErrNoUser):
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "no signed-in user")
	case errors.Is(err, services.ErrInvalidInput):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrForbidden):
		fail(c, http.StatusForbidden, ErrCodeForbidden, err.Error())
	case errors.Is(err, services.ErrNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "record not found")
	case errors.Is(err, repo.ErrNotInitialized), errors.As(err, &initErr):
		fail(c, http.StatusServiceUnavailable, ErrCodeStoreUnavailable, err.Error())
	case repo.IsDeserialization(err):
		fail(c, http.StatusInternalServerError, ErrCodeCorruptRecord, err.Error())
	default:
		fail(c, http.StatusInternalServerError, fallback, err.Error())
	}
}
