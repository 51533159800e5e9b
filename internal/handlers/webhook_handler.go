package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PvUtrix/shked-sub003/internal/bot"
	"github.com/PvUtrix/shked-sub003/internal/logger"
	"github.com/PvUtrix/shked-sub003/internal/messenger"
	"github.com/PvUtrix/shked-sub003/internal/models"
	"github.com/PvUtrix/shked-sub003/internal/services"
)

// WebhookHandler receives platform updates and answers them through the bot router.
type WebhookHandler struct {
	registry services.MessengerServicer
	router   *bot.Router
	senders  map[models.Platform]messenger.Sender
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(registry services.MessengerServicer, router *bot.Router, senders ...messenger.Sender) *WebhookHandler {
	byPlatform := make(map[models.Platform]messenger.Sender, len(senders))
	for _, s := range senders {
		if s != nil {
			byPlatform[s.Platform()] = s
		}
	}
	return &WebhookHandler{registry: registry, router: router, senders: byPlatform}
}

// Telegram handles Telegram webhook deliveries
// @Summary     Telegram webhook
// @Description Receives a Telegram Update. Always acknowledged with 200 unless the body cannot be parsed.
// @Tags        webhooks
// @Accept      json
// @Produce     json
// @Param       X-Telegram-Bot-Api-Secret-Token header string false "Webhook secret"
// @Success     200 {object} object "Acknowledged"
// @Failure     401 {object} ErrorResponse "Invalid webhook secret"
// @Failure     500 {object} object "Malformed payload"
// @Router      /webhooks/telegram [post]
func (h *WebhookHandler) Telegram(c *gin.Context) {
	h.ingest(c, messenger.ParseTelegramUpdate)
}

// Max handles Max webhook deliveries
// @Summary     Max webhook
// @Description Receives a Max update. Always acknowledged with 200 unless the body cannot be parsed.
// @Tags        webhooks
// @Accept      json
// @Produce     json
// @Param       X-Max-Bot-Api-Secret header string false "Webhook secret"
// @Success     200 {object} object "Acknowledged"
// @Failure     401 {object} ErrorResponse "Invalid webhook secret"
// @Failure     500 {object} object "Malformed payload"
// @Router      /webhooks/max [post]
func (h *WebhookHandler) Max(c *gin.Context) {
	h.ingest(c, messenger.ParseMaxUpdate)
}

// ingest acknowledges every parseable delivery. Failures after parsing are
// logged, never returned to the platform.
func (h *WebhookHandler) ingest(c *gin.Context, parse func([]byte) (*messenger.Inbound, error)) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read body"})
		return
	}

	in, err := parse(body)
	if err != nil {
		logger.Get().Warnw("malformed webhook payload", "error", err, "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if in != nil {
		h.process(c.Request.Context(), in)
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *WebhookHandler) process(ctx context.Context, in *messenger.Inbound) {
	log := logger.Get().With("platform", in.Platform, "external_id", in.From.ID)

	profile := services.Profile{
		FirstName: in.From.FirstName,
		LastName:  in.From.LastName,
		Username:  in.From.Username,
	}
	if err := h.registry.UpsertProfile(in.Platform, in.From.ID, in.ChatID, profile); err != nil {
		log.Errorw("failed to upsert messenger profile", "error", err)
	}
	if err := h.registry.RecordActivity(in.Platform, in.From.ID); err != nil {
		log.Errorw("failed to record messenger activity", "error", err)
	}

	cmd := bot.Parse(in.Text)
	cmd.Platform = in.Platform
	cmd.ExternalID = in.From.ID
	cmd.ChatID = in.ChatID
	reply := h.router.Route(ctx, cmd)

	sender, ok := h.senders[in.Platform]
	if !ok {
		log.Errorw("no sender configured for platform")
		return
	}

	if in.IsCallback() {
		if answerer, ok := sender.(messenger.CallbackAnswerer); ok {
			if err := answerer.AnswerCallback(ctx, in.CallbackID, ""); err != nil {
				log.Warnw("failed to answer callback", "error", err)
			}
		}
	}

	if reply == "" {
		return
	}
	if err := sender.SendMessage(ctx, in.ChatID, reply); err != nil {
		log.Errorw("failed to send reply", "error", err, "command", cmd.Name)
	}
}
