package messenger

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/PvUtrix/shked-sub003/internal/models"
)

var maxUpdateTypes = []string{"message_created", "message_callback", "bot_started"}

// MaxClient sends messages through the Max Bot API.
type MaxClient struct {
	http *resty.Client
}

type maxSendRequest struct {
	Text   string `json:"text"`
	Format string `json:"format,omitempty"`
}

type maxSubscriptionRequest struct {
	URL         string   `json:"url"`
	UpdateTypes []string `json:"update_types"`
	Secret      string   `json:"secret,omitempty"`
}

type maxErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewMaxClient creates a Max client for the given bot access token.
func NewMaxClient(token, baseURL string, timeout time.Duration) (*MaxClient, error) {
	if token == "" {
		return nil, fmt.Errorf("max bot token cannot be empty")
	}
	if baseURL == "" {
		return nil, fmt.Errorf("max api url cannot be empty")
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetQueryParam("access_token", token).
		SetHeader("Content-Type", "application/json")

	return &MaxClient{http: client}, nil
}

// Platform implements Sender.
func (c *MaxClient) Platform() models.Platform {
	return models.PlatformMax
}

// SendMessage sends an HTML-formatted message to a chat.
func (c *MaxClient) SendMessage(ctx context.Context, chatID int64, text string) error {
	var apiErr maxErrorResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("chat_id", strconv.FormatInt(chatID, 10)).
		SetBody(maxSendRequest{Text: text, Format: "html"}).
		SetError(&apiErr).
		Post("/messages")
	if err != nil {
		return fmt.Errorf("max send message to %d: %w", chatID, err)
	}
	if resp.IsError() {
		return fmt.Errorf("max send message to %d: status %d: %s", chatID, resp.StatusCode(), apiErr.Message)
	}
	return nil
}

// RegisterWebhook subscribes the bot to updates delivered to url.
func (c *MaxClient) RegisterWebhook(ctx context.Context, url, secret string) error {
	var apiErr maxErrorResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(maxSubscriptionRequest{URL: url, UpdateTypes: maxUpdateTypes, Secret: secret}).
		SetError(&apiErr).
		Post("/subscriptions")
	if err != nil {
		return fmt.Errorf("max subscribe: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("max subscribe: status %d: %s", resp.StatusCode(), apiErr.Message)
	}
	return nil
}
