package senders

import (
	"context"
	"strconv"

	"github.com/carlmjohnson/requests"
	"github.com/fiffu/pricewatch/lib/models"
)

const telegramAPIBase = "https://api.telegram.org"

type telegramSender struct {
	base
}

// SendAlert posts a sendMessage call to the Bot API. The subscriber ID is
// the Telegram chat ID.
func (t *telegramSender) SendAlert(ctx context.Context, event models.AlertEvent) (string, error) {
	var resp struct {
		OK     bool `json:"ok"`
		Result struct {
			MessageID int64 `json:"message_id"`
		} `json:"result"`
	}

	err := requests.
		URL(telegramAPIBase + "/bot" + t.cfg.BotToken + "/sendMessage").
		Transport(t.transport).
		BodyJSON(map[string]any{
			"chat_id": event.UserID,
			"text":    alertFormat{event}.Text(),
		}).
		ToJSON(&resp).
		Fetch(ctx)
	if err != nil {
		return "", err
	}

	return strconv.FormatInt(resp.Result.MessageID, 10), nil
}
