package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	apperrors "github.com/PvUtrix/shked-sub003/internal/errors"
)

// Secret headers the platforms attach to webhook deliveries.
const (
	TelegramSecretHeader = "X-Telegram-Bot-Api-Secret-Token"
	MaxSecretHeader      = "X-Max-Bot-Api-Secret"
)

// WebhookSecretMiddleware rejects deliveries whose header does not carry the
// shared secret registered with the platform. With no secret configured every
// delivery is refused with 503.
func WebhookSecretMiddleware(header, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			RespondError(c, apperrors.ErrWebhookNotConfigured)
			return
		}
		got := c.GetHeader(header)
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			RespondError(c, apperrors.ErrInvalidWebhookSecret)
			return
		}
		c.Next()
	}
}
