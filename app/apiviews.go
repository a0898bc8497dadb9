package app

import (
	"time"

	"github.com/fiffu/pricewatch/lib/models"
)

type SubscriptionView struct {
	UserID    int64  `json:"user_id"`
	Item      string `json:"item"`
	Threshold int    `json:"threshold"`
	TrackedAt string `json:"tracked_at,omitempty"`
}

func (view SubscriptionView) From(entity models.Subscription) SubscriptionView {
	return SubscriptionView{
		UserID:    entity.UserID,
		Item:      entity.Item,
		Threshold: entity.Threshold,
		TrackedAt: entity.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type SummaryView struct {
	Item   string `json:"item"`
	NoData bool   `json:"no_data,omitempty"`
	Min    int    `json:"min"`
	Avg    int    `json:"avg"`
	Max    int    `json:"max"`
}

func (view SummaryView) From(item string, summary models.Summary) SummaryView {
	return SummaryView{
		Item: item,
		Min:  summary.Min,
		Avg:  summary.Avg,
		Max:  summary.Max,
	}
}

type Fromable[Entity any, Repr any] interface {
	From(Entity) Repr
}

func FromMany[U Fromable[T, U], T any](elems []T) []U {
	out := make([]U, len(elems))
	for i, t := range elems {
		var u U
		out[i] = u.From(t)
	}
	return out
}
