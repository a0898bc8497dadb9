package poller

import (
	"context"
	"time"
)

// alarmClock ticks once immediately, then on every interval, until stopped.
type alarmClock struct {
	cancel func()
	ticker *time.Ticker
	C      chan time.Time
}

func newAlarmClock(interval time.Duration) *alarmClock {
	return &alarmClock{
		ticker: time.NewTicker(interval),
		C:      make(chan time.Time),
	}
}

func (a *alarmClock) Start(ctx context.Context) <-chan time.Time {
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	go func() {
		defer close(a.C)

		if !a.send(ctx, time.Now().UTC()) {
			return
		}
		for {
			select {
			case t := <-a.ticker.C:
				if !a.send(ctx, t) {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return a.C
}

func (a *alarmClock) send(ctx context.Context, t time.Time) bool {
	select {
	case a.C <- t:
		return true
	case <-ctx.Done():
		return false
	}
}

func (a *alarmClock) Stop() {
	if a.cancel != nil {
		a.cancel()
	}
	a.ticker.Stop()
}
