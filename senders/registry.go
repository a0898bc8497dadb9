package senders

import (
	"context"
	"net/http"

	"github.com/fiffu/pricewatch/config"
	"github.com/fiffu/pricewatch/lib/models"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Sender delivers an alert to a subscriber on one platform. It returns a
// platform-specific message ID for logging. Delivery failures are the
// sender's concern; the polling cycle only logs them.
type Sender interface {
	SendAlert(ctx context.Context, event models.AlertEvent) (string, error)
}

type Registry map[string]Sender

func NewSenderRegistry(lc fx.Lifecycle, log *zap.Logger, cfg *config.Config, transport http.RoundTripper) Registry {
	base := base{log, cfg, transport}
	return map[string]Sender{
		"telegram": &telegramSender{base},
		"email":    &mailgunSender{base},
	}
}

type base struct {
	log       *zap.Logger
	cfg       *config.Config
	transport http.RoundTripper
}
