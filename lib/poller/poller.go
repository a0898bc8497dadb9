package poller

import (
	"context"

	"github.com/fiffu/pricewatch/config"
	"github.com/fiffu/pricewatch/lib/market"
	"github.com/fiffu/pricewatch/lib/tracker"
	"github.com/fiffu/pricewatch/senders"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Poller runs the alerting loop: every interval it snapshots all
// subscriptions, fetches current listings for each, and notifies
// subscribers whose threshold is undercut. It runs from process start until
// shutdown.
type Poller struct {
	log     *zap.Logger
	tracker *tracker.Tracker
	client  *market.Client
	senders senders.Registry

	platform    string
	concurrency int
	clock       *alarmClock
	cancel      func()
}

func NewPoller(
	lc fx.Lifecycle,
	log *zap.Logger,
	cfg *config.Config,
	tracker *tracker.Tracker,
	client *market.Client,
	senders senders.Registry,
) *Poller {
	p := &Poller{
		log:         log,
		tracker:     tracker,
		client:      client,
		senders:     senders,
		platform:    cfg.AlertPlatform,
		concurrency: cfg.PollConcurrency,
		clock:       newAlarmClock(cfg.PollInterval()),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Start(context.Background())
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Sugar().Info("Trying to stop poller")
			p.Stop()
			return nil
		},
	})

	return p
}

func (p *Poller) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	c := p.clock.Start(ctx)

	go func() {
		for t := range c {
			p.runCycle(ctx, t)
		}
	}()
}

// Stop cancels the loop. An in-flight fetch is abandoned, not awaited.
func (p *Poller) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.clock.Stop()
	p.log.Sugar().Info("Poller stopped")
}
