// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/PvUtrix/shked-sub003/internal/models"
)

// linkTokenRegex matches the issued token alphabet (no 0, O, 1, I), case-insensitive.
var linkTokenRegex = regexp.MustCompile(`^(?i)[A-HJ-NP-Z2-9]{6}$`)

var tokenDigitRegex = regexp.MustCompile(`[2-9]`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("platform", validatePlatform)
		_ = v.RegisterValidation("role", validateRole)
		_ = v.RegisterValidation("notification_type", validateNotificationType)
		_ = v.RegisterValidation("link_token", validateLinkToken)
	}
}

// IsLinkToken reports whether s looks like a link token.
func IsLinkToken(s string) bool {
	return linkTokenRegex.MatchString(s)
}

// IsBareLinkToken reports whether free text is a link token sent without
// /link. Issued tokens always contain a digit; six-letter words do not.
func IsBareLinkToken(s string) bool {
	return IsLinkToken(s) && tokenDigitRegex.MatchString(s)
}

func validatePlatform(fl validator.FieldLevel) bool {
	return models.Platform(fl.Field().String()).Valid()
}

func validateRole(fl validator.FieldLevel) bool {
	switch models.Role(fl.Field().String()) {
	case models.RoleStudent, models.RoleTeacher, models.RoleAdmin:
		return true
	}
	return false
}

func validateNotificationType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "test", "broadcast_all", "broadcast_group", "custom":
		return true
	}
	return false
}

func validateLinkToken(fl validator.FieldLevel) bool {
	return IsLinkToken(fl.Field().String())
}
