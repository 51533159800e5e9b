// Package messenger holds the outbound clients and inbound update parsers for
// the messaging platforms the bot is reachable on.
package messenger

import (
	"context"

	"github.com/PvUtrix/shked-sub003/internal/models"
)

// Sender delivers a text message to a chat on one platform.
type Sender interface {
	Platform() models.Platform
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// CallbackAnswerer is implemented by platforms that expect inline button
// presses to be acknowledged separately from the reply.
type CallbackAnswerer interface {
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

// WebhookRegistrar points the platform at our webhook endpoint.
type WebhookRegistrar interface {
	RegisterWebhook(ctx context.Context, url, secret string) error
}

// User is the sender of an inbound update.
type User struct {
	ID        int64
	FirstName string
	LastName  string
	Username  string
}

// Inbound is a platform update normalized to the fields the bot acts on.
type Inbound struct {
	Platform   models.Platform
	From       User
	ChatID     int64
	Text       string
	CallbackID string
}

// IsCallback reports whether the update came from an inline button press.
func (in *Inbound) IsCallback() bool {
	return in.CallbackID != ""
}
