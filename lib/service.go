package lib

import (
	"context"
	"errors"

	"github.com/fiffu/pricewatch/config"
	"github.com/fiffu/pricewatch/lib/market"
	"github.com/fiffu/pricewatch/lib/models"
	"github.com/fiffu/pricewatch/lib/tracker"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ErrNegativeThreshold rejects thresholds below zero. Prices are in the
// upstream currency's smallest unit and can never be negative.
var ErrNegativeThreshold = errors.New("threshold must not be negative")

// Service is the command surface consumed by the chat layer and the HTTP
// API. The poller bypasses it and reads the tracker directly.
type Service struct {
	cfg     *config.Config
	log     *zap.Logger
	tracker *tracker.Tracker
	market  *market.Client
}

func NewService(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, tracker *tracker.Tracker, market *market.Client) *Service {
	return &Service{cfg, log, tracker, market}
}

// Track registers or replaces the threshold for (userID, item).
func (svc *Service) Track(ctx context.Context, userID int64, item string, threshold int) error {
	if threshold < 0 {
		return ErrNegativeThreshold
	}
	if err := svc.tracker.Upsert(ctx, userID, item, threshold); err != nil {
		return err
	}
	svc.log.Sugar().Infow("Tracked item", "user_id", userID, "item", item, "threshold", threshold)
	return nil
}

// Untrack removes the subscription for (userID, item), if any.
func (svc *Service) Untrack(ctx context.Context, userID int64, item string) error {
	if err := svc.tracker.Remove(ctx, userID, item); err != nil {
		return err
	}
	svc.log.Sugar().Infow("Untracked item", "user_id", userID, "item", item)
	return nil
}

func (svc *Service) List(ctx context.Context, userID int64) (models.Subscriptions, error) {
	return svc.tracker.ListForSubscriber(ctx, userID)
}

// Price fetches current listings for the item and aggregates them. Returns
// market.ErrNoListings when the item has no data right now.
func (svc *Service) Price(ctx context.Context, item string) (models.Summary, error) {
	listings, err := svc.market.FetchListings(ctx, item)
	if err != nil {
		return models.Summary{}, err
	}

	summary, ok := market.Summarize(listings)
	if !ok {
		return models.Summary{}, market.ErrNoListings
	}
	return summary, nil
}
