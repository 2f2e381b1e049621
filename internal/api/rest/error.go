package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/choochoo-labs/conductor/internal/api/shared/errors"
	"github.com/choochoo-labs/conductor/internal/logger"
)

// errorResponse represents a standardized error response
type errorResponse struct {
	Error *apierrors.APIError `json:"error"`
}

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, statusCode int, apiErr *apierrors.APIError) {
	c.JSON(statusCode, errorResponse{Error: apiErr})
}

// respondBadRequest sends a 400 Bad Request response
func respondBadRequest(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusBadRequest, apierrors.NewBadRequestError(message, details...))
}

// respondNotFound sends a 404 Not Found response
func respondNotFound(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusNotFound, apierrors.NewNotFoundError(message, details...))
}

// respondValidationError sends a 400 Bad Request with validation error
func respondValidationError(c *gin.Context, details string) {
	respondWithError(c, http.StatusBadRequest, apierrors.NewValidationError(details))
}

// respondConflict sends a 409 Conflict response
func respondConflict(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusConflict, apierrors.NewConflictError(message, details...))
}

// newServiceError builds a 5xx error that carries the pipeline's failure text
func newServiceError(message string, details ...string) *apierrors.APIError {
	apiErr := apierrors.NewInternalError(message, details...)
	apiErr.Code = apierrors.ErrCodeServiceError
	return apiErr
}

// respondInternalError sends a 500 Internal Server Error response and logs the error
func respondInternalError(c *gin.Context, err error, message string, fields ...zap.Field) {
	logger.Error(err, fields...)
	respondWithError(c, http.StatusInternalServerError, apierrors.NewInternalError(message))
}
