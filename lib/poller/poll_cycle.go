package poller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fiffu/pricewatch/lib/market"
	"github.com/fiffu/pricewatch/lib/models"
	"github.com/google/uuid"
)

func (p *Poller) runCycle(ctx context.Context, startedAt time.Time) *cycleMetrics {
	log := p.log.Sugar().With("cycle_id", uuid.New().String())

	subs, err := p.tracker.ListAll(ctx)
	if err != nil {
		log.Errorw("Failed to list subscriptions", "err", err)
		return &cycleMetrics{}
	}

	m := &cycleMetrics{total: len(subs)}
	if len(subs) == 0 {
		return m
	}

	// The snapshot is fixed for the whole cycle; a track/untrack issued
	// mid-cycle takes effect next cycle.
	for start := 0; start < len(subs); start += p.concurrency {
		end := start + p.concurrency
		if end > len(subs) {
			end = len(subs)
		}
		m.Add(p.pollBatch(ctx, subs[start:end]))
	}

	args := make([]any, 0)
	if m.alerted != 0 {
		args = append(args, "alerted", m.alerted)
	}
	if m.noData != 0 {
		args = append(args, "no_data", m.noData)
	}
	if m.errored != 0 {
		args = append(args, "errored", m.errored)
	}
	elapsed := time.Now().UTC().Sub(startedAt)
	args = append(args, "elapsed_msecs", int(elapsed.Milliseconds()))

	log.Infow(fmt.Sprintf("Processed %d subscriptions", m.total), args...)
	return m
}

func (p *Poller) pollBatch(ctx context.Context, batch models.Subscriptions) *cycleMetrics {
	var wg sync.WaitGroup
	var mu sync.Mutex
	metrics := &cycleMetrics{}

	for _, sub := range batch {
		sub := sub
		wg.Add(1)

		go func() {
			defer wg.Done()
			m := p.pollSubscription(ctx, sub)

			mu.Lock()
			defer mu.Unlock()
			metrics.Add(m)
		}()
	}

	wg.Wait()
	return metrics
}

// pollSubscription handles one entry of the cycle. Failures are contained
// here so that one bad fetch never aborts the rest of the cycle.
func (p *Poller) pollSubscription(ctx context.Context, sub models.Subscription) *cycleMetrics {
	listings, err := p.client.FetchListings(ctx, sub.Item)
	switch {
	case errors.Is(err, market.ErrNoListings):
		// Item currently unlisted; nothing to evaluate.
		return &cycleMetrics{noData: 1}
	case err != nil:
		p.log.Sugar().Errorw("Failed to fetch listings",
			"user_id", sub.UserID, "item", sub.Item, "err", err)
		return &cycleMetrics{errored: 1}
	}

	summary, ok := market.Summarize(listings)
	if !ok {
		return &cycleMetrics{noData: 1}
	}
	if !market.ShouldAlert(summary.Min, sub.Threshold) {
		return &cycleMetrics{}
	}

	p.notify(ctx, models.AlertEvent{
		UserID:    sub.UserID,
		Item:      sub.Item,
		MinPrice:  summary.Min,
		Threshold: sub.Threshold,
	})
	return &cycleMetrics{alerted: 1}
}

func (p *Poller) notify(ctx context.Context, event models.AlertEvent) {
	sender, ok := p.senders[p.platform]
	if !ok {
		p.log.Sugar().Errorw("Unsupported alert platform", "platform", p.platform)
		return
	}

	id, err := sender.SendAlert(ctx, event)
	if err != nil {
		p.log.Sugar().Errorw("Failed to send alert",
			"user_id", event.UserID, "item", event.Item, "err", err)
		return
	}
	p.log.Sugar().Infow("Sent alert",
		"user_id", event.UserID, "item", event.Item,
		"min_price", event.MinPrice, "threshold", event.Threshold,
		"message_id", id)
}
