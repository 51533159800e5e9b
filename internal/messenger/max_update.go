package messenger

import (
	"encoding/json"
	"strings"

	apperrors "github.com/PvUtrix/shked-sub003/internal/errors"
	"github.com/PvUtrix/shked-sub003/internal/models"
)

type maxUser struct {
	UserID    int64  `json:"user_id"`
	Name      string `json:"name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

func (u maxUser) toUser() User {
	first := u.FirstName
	if first == "" {
		first = u.Name
	}
	return User{ID: u.UserID, FirstName: first, LastName: u.LastName, Username: u.Username}
}

type maxRecipient struct {
	ChatID int64 `json:"chat_id"`
	UserID int64 `json:"user_id"`
}

type maxBody struct {
	Mid  string `json:"mid"`
	Text string `json:"text"`
}

type maxMessage struct {
	Sender    *maxUser     `json:"sender"`
	Recipient maxRecipient `json:"recipient"`
	Body      maxBody      `json:"body"`
}

type maxCallback struct {
	CallbackID string  `json:"callback_id"`
	Payload    string  `json:"payload"`
	User       maxUser `json:"user"`
}

type maxUpdate struct {
	UpdateType string       `json:"update_type"`
	Timestamp  int64        `json:"timestamp"`
	Message    *maxMessage  `json:"message"`
	Callback   *maxCallback `json:"callback"`
	ChatID     int64        `json:"chat_id"`
	User       *maxUser     `json:"user"`
	Payload    string       `json:"payload"`
}

// ParseMaxUpdate normalizes a Max webhook body.
// It returns nil, nil for update kinds the bot does not handle.
func ParseMaxUpdate(body []byte) (*Inbound, error) {
	var upd maxUpdate
	if err := json.Unmarshal(body, &upd); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrMalformedWebhook, err)
	}

	switch upd.UpdateType {
	case "message_created":
		if upd.Message == nil || upd.Message.Sender == nil {
			return nil, nil
		}
		return &Inbound{
			Platform: models.PlatformMax,
			From:     upd.Message.Sender.toUser(),
			ChatID:   upd.Message.Recipient.ChatID,
			Text:     upd.Message.Body.Text,
		}, nil

	case "message_callback":
		if upd.Callback == nil {
			return nil, nil
		}
		chatID := upd.Callback.User.UserID
		if upd.Message != nil && upd.Message.Recipient.ChatID != 0 {
			chatID = upd.Message.Recipient.ChatID
		}
		return &Inbound{
			Platform:   models.PlatformMax,
			From:       upd.Callback.User.toUser(),
			ChatID:     chatID,
			Text:       upd.Callback.Payload,
			CallbackID: upd.Callback.CallbackID,
		}, nil

	case "bot_started":
		if upd.User == nil {
			return nil, nil
		}
		// The deep link payload is passed on like Telegram's "/start <payload>".
		text := strings.TrimSpace("/start " + upd.Payload)
		return &Inbound{
			Platform: models.PlatformMax,
			From:     upd.User.toUser(),
			ChatID:   upd.ChatID,
			Text:     text,
		}, nil
	}

	return nil, nil
}
