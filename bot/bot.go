package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/carlmjohnson/requests"
	"github.com/fiffu/pricewatch/config"
	"github.com/fiffu/pricewatch/lib"
	"github.com/fiffu/pricewatch/lib/market"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	telegramAPIBase = "https://api.telegram.org"
	longPollSecs    = 30

	helpText = "Hi! Available commands:\n" +
		"/track <item> <threshold> — watch an item\n" +
		"/untrack <item> — stop watching\n" +
		"/list — items you are watching\n" +
		"/price <item> — current prices (min/avg/max)"
)

// Bot runs the Telegram command loop via long polling. Each inbound command
// is handled on its own goroutine, concurrent with the poller.
type Bot struct {
	log       *zap.Logger
	svc       *lib.Service
	token     string
	transport http.RoundTripper
	cancel    func()
}

func NewBot(lc fx.Lifecycle, log *zap.Logger, cfg *config.Config, svc *lib.Service, transport http.RoundTripper) *Bot {
	b := &Bot{
		log:       log,
		svc:       svc,
		token:     cfg.BotToken,
		transport: transport,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if b.token == "" {
				log.Sugar().Warn("BOT_TOKEN is not set; chat commands are disabled")
				return nil
			}
			go b.Start(context.Background())
			return nil
		},
		OnStop: func(ctx context.Context) error {
			b.Stop()
			return nil
		},
	})

	return b
}

func (b *Bot) Start(ctx context.Context) {
	ctx, b.cancel = context.WithCancel(ctx)
	b.log.Sugar().Info("Bot started, long-polling for updates")

	var offset int64
	for ctx.Err() == nil {
		updates, err := b.getUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			b.log.Sugar().Errorw("Failed to poll updates", "err", err)
			select {
			case <-time.After(3 * time.Second):
			case <-ctx.Done():
				return
			}
			continue
		}

		for _, u := range updates {
			offset = u.UpdateID + 1
			if u.Message == nil || u.Message.Text == "" {
				continue
			}
			go b.handleMessage(ctx, u.Message.Chat.ID, u.Message.Text)
		}
	}
}

func (b *Bot) Stop() {
	if b.cancel != nil {
		b.cancel()
	}
	b.log.Sugar().Info("Bot stopped")
}

type update struct {
	UpdateID int64 `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

func (b *Bot) getUpdates(ctx context.Context, offset int64) ([]update, error) {
	var resp struct {
		OK     bool     `json:"ok"`
		Result []update `json:"result"`
	}

	err := requests.
		URL(telegramAPIBase+"/bot"+b.token+"/getUpdates").
		Transport(b.transport).
		ParamInt("offset", int(offset)).
		ParamInt("timeout", longPollSecs).
		ToJSON(&resp).
		Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, errors.New("telegram getUpdates returned ok=false")
	}
	return resp.Result, nil
}

func (b *Bot) handleMessage(ctx context.Context, chatID int64, text string) {
	cmd, args := splitCommand(text)

	switch cmd {
	case "/start":
		b.reply(ctx, chatID, helpText)
	case "/track":
		b.handleTrack(ctx, chatID, args)
	case "/untrack":
		b.handleUntrack(ctx, chatID, args)
	case "/list":
		b.handleList(ctx, chatID)
	case "/price":
		b.handlePrice(ctx, chatID, args)
	}
}

func (b *Bot) handleTrack(ctx context.Context, chatID int64, args []string) {
	item, threshold, err := parseTrackArgs(args)
	switch {
	case errors.Is(err, errUsage):
		b.reply(ctx, chatID, "Usage: /track <item> <threshold>")
		return
	case err != nil:
		b.reply(ctx, chatID, "The threshold must be a number.")
		return
	}

	if err := b.svc.Track(ctx, chatID, item, threshold); err != nil {
		if errors.Is(err, lib.ErrNegativeThreshold) {
			b.reply(ctx, chatID, "The threshold must not be negative.")
		} else {
			b.log.Sugar().Errorw("Track failed", "user_id", chatID, "item", item, "err", err)
			b.reply(ctx, chatID, "Something went wrong, try again later.")
		}
		return
	}
	b.reply(ctx, chatID, fmt.Sprintf("Now watching %s, limit %d.", item, threshold))
}

func (b *Bot) handleUntrack(ctx context.Context, chatID int64, args []string) {
	if len(args) == 0 {
		b.reply(ctx, chatID, "Usage: /untrack <item>")
		return
	}
	item := strings.Join(args, " ")

	if err := b.svc.Untrack(ctx, chatID, item); err != nil {
		b.log.Sugar().Errorw("Untrack failed", "user_id", chatID, "item", item, "err", err)
		b.reply(ctx, chatID, "Something went wrong, try again later.")
		return
	}
	b.reply(ctx, chatID, fmt.Sprintf("No longer watching %s.", item))
}

func (b *Bot) handleList(ctx context.Context, chatID int64) {
	subs, err := b.svc.List(ctx, chatID)
	if err != nil {
		b.log.Sugar().Errorw("List failed", "user_id", chatID, "err", err)
		b.reply(ctx, chatID, "Something went wrong, try again later.")
		return
	}
	if len(subs) == 0 {
		b.reply(ctx, chatID, "You are not watching anything yet.")
		return
	}

	lines := make([]string, 0, len(subs))
	for _, sub := range subs {
		lines = append(lines, fmt.Sprintf("%s (limit %d)", sub.Item, sub.Threshold))
	}
	b.reply(ctx, chatID, "📌 Watched items:\n"+strings.Join(lines, "\n"))
}

func (b *Bot) handlePrice(ctx context.Context, chatID int64, args []string) {
	if len(args) == 0 {
		b.reply(ctx, chatID, "Usage: /price <item>")
		return
	}
	item := strings.Join(args, " ")

	summary, err := b.svc.Price(ctx, item)
	switch {
	case errors.Is(err, market.ErrNoListings):
		b.reply(ctx, chatID, fmt.Sprintf("❌ No data for %s", item))
		return
	case err != nil:
		b.log.Sugar().Errorw("Price failed", "user_id", chatID, "item", item, "err", err)
		b.reply(ctx, chatID, "Failed to fetch the price.")
		return
	}

	b.reply(ctx, chatID, fmt.Sprintf(
		"💰 %s:\nMin: %d\nAvg: %d\nMax: %d",
		item, summary.Min, summary.Avg, summary.Max,
	))
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	err := requests.
		URL(telegramAPIBase + "/bot" + b.token + "/sendMessage").
		Transport(b.transport).
		BodyJSON(map[string]any{"chat_id": chatID, "text": text}).
		Fetch(ctx)
	if err != nil {
		b.log.Sugar().Errorw("Failed to send reply", "chat_id", chatID, "err", err)
	}
}

var errUsage = errors.New("bad usage")

// splitCommand splits a message into its command word and arguments.
// A /cmd@BotName mention is normalized to /cmd.
func splitCommand(text string) (string, []string) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 {
		return "", nil
	}
	cmd := fields[0]
	if i := strings.IndexByte(cmd, '@'); i > 0 {
		cmd = cmd[:i]
	}
	return cmd, fields[1:]
}

// parseTrackArgs interprets all but the last argument as the item name
// (items may contain spaces) and the last as the threshold.
func parseTrackArgs(args []string) (string, int, error) {
	if len(args) < 2 {
		return "", 0, errUsage
	}
	threshold, err := strconv.Atoi(args[len(args)-1])
	if err != nil {
		return "", 0, err
	}
	return strings.Join(args[:len(args)-1], " "), threshold, nil
}
