package tracker

import (
	"context"

	"github.com/fiffu/pricewatch/lib/models"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Tracker owns the persisted subscriptions. All reads and writes go through
// it; callers never see the underlying handle.
type Tracker struct {
	log *zap.Logger
	db  *gorm.DB
}

func NewTracker(lc fx.Lifecycle, log *zap.Logger, db *gorm.DB) *Tracker {
	return &Tracker{log, db}
}

// Upsert stores threshold for (userID, item), replacing any existing value
// for the same pair.
func (t *Tracker) Upsert(ctx context.Context, userID int64, item string, threshold int) error {
	sub := models.Subscription{UserID: userID, Item: item, Threshold: threshold}
	tx := t.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "item"}},
			DoUpdates: clause.AssignmentColumns([]string{"threshold", "updated_at"}),
		}).
		Create(&sub)
	return tx.Error
}

// Remove deletes the subscription for (userID, item). Removing a pair that
// was never tracked is not an error.
func (t *Tracker) Remove(ctx context.Context, userID int64, item string) error {
	// Hard delete; a soft-deleted row would collide with the unique index
	// when the same pair is tracked again.
	tx := t.db.WithContext(ctx).
		Unscoped().
		Where("user_id = ?", userID).
		Where("item = ?", item).
		Delete(&models.Subscription{})
	return tx.Error
}

func (t *Tracker) ListForSubscriber(ctx context.Context, userID int64) (models.Subscriptions, error) {
	var subs models.Subscriptions
	tx := t.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&subs)
	if err := tx.Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// ListAll returns a snapshot of every subscription in a single query, so a
// concurrent writer can never expose a partial row to the caller.
func (t *Tracker) ListAll(ctx context.Context) (models.Subscriptions, error) {
	var subs models.Subscriptions
	tx := t.db.WithContext(ctx).Find(&subs)
	if err := tx.Error; err != nil {
		return nil, err
	}
	return subs, nil
}
