package messenger

import (
	"encoding/json"

	tgmodels "github.com/go-telegram/bot/models"

	apperrors "github.com/PvUtrix/shked-sub003/internal/errors"
	"github.com/PvUtrix/shked-sub003/internal/models"
)

// ParseTelegramUpdate normalizes a Telegram webhook body.
// It returns nil, nil for update kinds the bot does not handle.
func ParseTelegramUpdate(body []byte) (*Inbound, error) {
	var upd tgmodels.Update
	if err := json.Unmarshal(body, &upd); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrMalformedWebhook, err)
	}

	if cq := upd.CallbackQuery; cq != nil {
		// Buttons are only sent in private chats, where chat id equals user id.
		return &Inbound{
			Platform: models.PlatformTelegram,
			From: User{
				ID:        cq.From.ID,
				FirstName: cq.From.FirstName,
				LastName:  cq.From.LastName,
				Username:  cq.From.Username,
			},
			ChatID:     cq.From.ID,
			Text:       cq.Data,
			CallbackID: cq.ID,
		}, nil
	}

	msg := upd.Message
	if msg == nil || msg.From == nil {
		return nil, nil
	}

	return &Inbound{
		Platform: models.PlatformTelegram,
		From: User{
			ID:        msg.From.ID,
			FirstName: msg.From.FirstName,
			LastName:  msg.From.LastName,
			Username:  msg.From.Username,
		},
		ChatID: msg.Chat.ID,
		Text:   msg.Text,
	}, nil
}
