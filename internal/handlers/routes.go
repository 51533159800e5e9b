package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PvUtrix/shked-sub003/internal/middleware"
	"github.com/PvUtrix/shked-sub003/internal/models"
)

// Routes groups the handlers mounted under /api/v1.
type Routes struct {
	Auth         *AuthHandler
	Messenger    *MessengerHandler
	Notification *NotificationHandler
	Webhook      *WebhookHandler

	TelegramWebhookSecret string
	MaxWebhookSecret      string
}

// Register mounts every route on the engine.
func (r Routes) Register(router *gin.Engine) {
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Platform webhooks
	webhooks := v1.Group("/webhooks")
	webhooks.POST("/telegram", middleware.WebhookSecretMiddleware(middleware.TelegramSecretHeader, r.TelegramWebhookSecret), r.Webhook.Telegram)
	webhooks.POST("/max", middleware.WebhookSecretMiddleware(middleware.MaxSecretHeader, r.MaxWebhookSecret), r.Webhook.Max)

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", r.Auth.Register)
	auth.POST("/login", r.Auth.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", r.Auth.GetProfile)

	messenger := protected.Group("/messenger")
	messenger.GET("/link", r.Messenger.IssueLinkToken)
	messenger.POST("/link", r.Messenger.CheckLink)
	messenger.DELETE("/link/:platform", r.Messenger.Unlink)
	messenger.GET("/accounts", r.Messenger.ListAccounts)

	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	admin.POST("/notifications", r.Notification.Send)
	admin.GET("/messenger/accounts", r.Notification.ListMessengerAccounts)
}
