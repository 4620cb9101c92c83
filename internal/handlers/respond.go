package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/zeeverify/backend/internal/apperrors"
)

// ErrorResponse sends a standardized error response and logs at caller if needed
func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// AppErrorResponse maps a service or repository error onto its HTTP
// status and client-safe message.
func AppErrorResponse(c *gin.Context, err error) {
	c.JSON(apperrors.HTTPStatus(err), gin.H{"error": apperrors.Message(err)})
}
