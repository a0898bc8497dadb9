package tracker

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fiffu/pricewatch/lib/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.sqlite")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Subscription{}))
	return &Tracker{log: zap.NewNop(), db: db}
}

func TestUpsertThenList(t *testing.T) {
	ctx := context.Background()
	tracker := newTestTracker(t)

	require.NoError(t, tracker.Upsert(ctx, 1, "White Horse", 100000))

	subs, err := tracker.ListForSubscriber(ctx, 1)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "White Horse", subs[0].Item)
	assert.Equal(t, 100000, subs[0].Threshold)
}

func TestUpsertReplacesThreshold(t *testing.T) {
	ctx := context.Background()
	tracker := newTestTracker(t)

	require.NoError(t, tracker.Upsert(ctx, 1, "White Horse", 100000))
	require.NoError(t, tracker.Upsert(ctx, 1, "White Horse", 80000))

	subs, err := tracker.ListForSubscriber(ctx, 1)
	require.NoError(t, err)
	require.Len(t, subs, 1, "repeated track must not create a duplicate row")
	assert.Equal(t, 80000, subs[0].Threshold)
}

func TestUpsertDistinctPairs(t *testing.T) {
	ctx := context.Background()
	tracker := newTestTracker(t)

	require.NoError(t, tracker.Upsert(ctx, 1, "White Horse", 100000))
	require.NoError(t, tracker.Upsert(ctx, 1, "Gold Bar", 500))
	require.NoError(t, tracker.Upsert(ctx, 2, "White Horse", 90000))

	subs, err := tracker.ListForSubscriber(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, subs, 2)

	all, err := tracker.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	tracker := newTestTracker(t)

	require.NoError(t, tracker.Upsert(ctx, 1, "White Horse", 100000))
	require.NoError(t, tracker.Remove(ctx, 1, "White Horse"))

	subs, err := tracker.ListForSubscriber(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, subs)

	all, err := tracker.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRemoveMissingPairIsNoop(t *testing.T) {
	ctx := context.Background()
	tracker := newTestTracker(t)

	assert.NoError(t, tracker.Remove(ctx, 1, "Never Tracked"))
}

func TestRemoveIsExactMatch(t *testing.T) {
	ctx := context.Background()
	tracker := newTestTracker(t)

	require.NoError(t, tracker.Upsert(ctx, 1, "White Horse", 100000))
	require.NoError(t, tracker.Upsert(ctx, 2, "White Horse", 90000))

	require.NoError(t, tracker.Remove(ctx, 1, "White Horse"))

	all, err := tracker.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, int64(2), all[0].UserID)
}

func TestTrackAgainAfterRemove(t *testing.T) {
	ctx := context.Background()
	tracker := newTestTracker(t)

	require.NoError(t, tracker.Upsert(ctx, 1, "White Horse", 100000))
	require.NoError(t, tracker.Remove(ctx, 1, "White Horse"))
	require.NoError(t, tracker.Upsert(ctx, 1, "White Horse", 70000))

	subs, err := tracker.ListForSubscriber(ctx, 1)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, 70000, subs[0].Threshold)
}
