package main

import (
	"net/http"
	"os"
	"time"

	"github.com/fiffu/pricewatch/app"
	"github.com/fiffu/pricewatch/bot"
	"github.com/fiffu/pricewatch/config"
	"github.com/fiffu/pricewatch/lib"
	"github.com/fiffu/pricewatch/lib/market"
	"github.com/fiffu/pricewatch/lib/poller"
	"github.com/fiffu/pricewatch/lib/tracker"
	"github.com/fiffu/pricewatch/senders"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func NewLogger() (*zap.Logger, error) {
	switch os.Getenv("ENVIRONMENT") {
	default:
		return zap.NewDevelopment()

	case "production":
		logCfg := zap.NewProductionConfig()
		logCfg.EncoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			t = t.UTC()
			zapcore.ISO8601TimeEncoder(t, enc)
		}
		return logCfg.Build()
	}
}

func main() {
	fx.New(
		fx.Provide(config.NewConfig),
		fx.Provide(NewLogger),

		fx.Provide(senders.NewSenderRegistry),

		fx.Provide(app.NewDatabase),
		fx.Provide(app.NewTransport),
		fx.Provide(app.NewAPI),
		fx.Provide(tracker.NewTracker),
		fx.Provide(market.NewClient),
		fx.Provide(lib.NewService),
		fx.Provide(poller.NewPoller),
		fx.Provide(bot.NewBot),

		fx.Invoke(func(*poller.Poller) {}),
		fx.Invoke(func(*bot.Bot) {}),
		fx.Invoke(func(*http.Server) {}),
	).Run()
}
