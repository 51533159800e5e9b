package messenger

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"

	"github.com/PvUtrix/shked-sub003/internal/models"
)

var telegramAllowedUpdates = []string{"message", "callback_query"}

// TelegramClient sends messages through the Telegram Bot API.
type TelegramClient struct {
	bot *bot.Bot
}

// NewTelegramClient creates a Telegram client for the given bot token.
// serverURL is the Bot API base URL; it is configurable so tests and
// self-hosted Bot API servers can be used.
func NewTelegramClient(token, serverURL string) (*TelegramClient, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token cannot be empty")
	}

	opts := []bot.Option{bot.WithSkipGetMe()}
	if serverURL != "" {
		opts = append(opts, bot.WithServerURL(serverURL))
	}

	b, err := bot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &TelegramClient{bot: b}, nil
}

// Platform implements Sender.
func (c *TelegramClient) Platform() models.Platform {
	return models.PlatformTelegram
}

// SendMessage sends an HTML-formatted message to a chat.
func (c *TelegramClient) SendMessage(ctx context.Context, chatID int64, text string) error {
	_, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: tgmodels.ParseModeHTML,
	})
	if err != nil {
		return fmt.Errorf("telegram sendMessage to %d: %w", chatID, err)
	}
	return nil
}

// AnswerCallback acknowledges an inline button press.
func (c *TelegramClient) AnswerCallback(ctx context.Context, callbackID, text string) error {
	_, err := c.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	if err != nil {
		return fmt.Errorf("telegram answerCallbackQuery: %w", err)
	}
	return nil
}

// RegisterWebhook sets the bot's webhook URL and secret token.
func (c *TelegramClient) RegisterWebhook(ctx context.Context, url, secret string) error {
	_, err := c.bot.SetWebhook(ctx, &bot.SetWebhookParams{
		URL:            url,
		SecretToken:    secret,
		AllowedUpdates: telegramAllowedUpdates,
	})
	if err != nil {
		return fmt.Errorf("telegram setWebhook: %w", err)
	}
	return nil
}
