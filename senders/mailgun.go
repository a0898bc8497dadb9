package senders

import (
	"context"
	"time"

	"github.com/fiffu/pricewatch/lib/models"
	"github.com/mailgun/mailgun-go/v4"
)

type mailgunSender struct {
	base
}

// SendAlert emails the alert to the configured recipient. Used when
// ALERT_PLATFORM=email, e.g. for a single-operator deployment without a bot
// token.
func (e *mailgunSender) SendAlert(ctx context.Context, event models.AlertEvent) (string, error) {
	mg := mailgun.NewMailgun(e.cfg.Mailgun.Domain, e.cfg.Mailgun.APIKey)
	mg.Client().Transport = e.transport

	format := alertFormat{event}
	// Create message with empty body first, then SetHtml so the MIME type
	// is assigned properly.
	message := mg.NewMessage(e.cfg.Mailgun.SenderFrom, format.Subject(), "", e.cfg.Mailgun.AlertTo)
	message.SetHtml(format.HTML())

	timeout := time.Duration(e.cfg.Mailgun.TimeoutSecs) * time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	_, id, err := mg.Send(ctx, message)
	return id, err
}
