package handlers

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/PvUtrix/shked-sub003/internal/errors"
	"github.com/PvUtrix/shked-sub003/internal/middleware"
	"github.com/PvUtrix/shked-sub003/internal/models"
)

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (string, error) {
	userID := c.GetString("userID")
	if userID == "" {
		return "", apperrors.ErrUnauthorized
	}
	return userID, nil
}

// parsePlatform reads a platform path parameter.
func parsePlatform(c *gin.Context, param string) (models.Platform, error) {
	platform := models.Platform(c.Param(param))
	if !platform.Valid() {
		return "", apperrors.ErrUnsupportedPlatform
	}
	return platform, nil
}

// respondWithError writes a consistent JSON error response.
func respondWithError(c *gin.Context, err error) {
	middleware.RespondError(c, err)
}

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
