package models

import (
	"gorm.io/gorm"
)

// Subscription is one tracked (subscriber, item) pair with a price threshold.
// The composite unique index guarantees at most one threshold per pair.
type Subscription struct {
	gorm.Model
	UserID    int64  `gorm:"uniqueIndex:idx_user_item"` // chat ID of the subscriber
	Item      string `gorm:"uniqueIndex:idx_user_item"`
	Threshold int
}

type Subscriptions []Subscription
